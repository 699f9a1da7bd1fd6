package domain

import "errors"

// Status is the terminal state of a game.
type Status uint8

const (
    InProgress Status = iota
    Win
    Draw
)

func (s Status) String() string {
    switch s {
    case Win:
        return "win"
    case Draw:
        return "draw"
    default:
        return "in_progress"
    }
}

// Outcome describes where a game stands. Winner is Empty unless Status is Win.
type Outcome struct {
    Status Status
    Winner Cell
}

// Evaluate classifies a board. A win is always checked before fullness.
func Evaluate(b *Board) Outcome {
    for _, side := range [2]Cell{X, O} {
        if b.HasWin(side) {
            return Outcome{Status: Win, Winner: side}
        }
    }
    if b.IsFull() {
        return Outcome{Status: Draw}
    }
    return Outcome{Status: InProgress}
}

// Game holds the current state of a Tic-Tac-Toe match.
type Game struct {
    Board  Board
    Turn   Cell
    Winner Cell
    Over   bool
    Moves  int
}

// Errors returned by domain operations.
var (
    ErrOutOfBounds = errors.New("out of bounds")
    ErrOccupied    = errors.New("cell occupied")
    ErrGameOver    = errors.New("game over")
    ErrNotYourTurn = errors.New("not your turn")
    ErrBadBoard    = errors.New("malformed board")
)

// New returns a new game with X to move.
func New() Game {
    return Game{Turn: X}
}

// Play places side at idx. The board is left untouched when an error is
// returned.
func (g *Game) Play(side Cell, idx int) error {
    if g.Over {
        return ErrGameOver
    }
    if side != g.Turn {
        return ErrNotYourTurn
    }
    if !InBounds(idx) {
        return ErrOutOfBounds
    }
    if g.Board[idx] != Empty {
        return ErrOccupied
    }

    g.Board[idx] = side
    g.Moves++

    switch out := Evaluate(&g.Board); out.Status {
    case Win:
        g.Winner = out.Winner
        g.Over = true
        return nil
    case Draw:
        g.Winner = Empty
        g.Over = true
        return nil
    }

    g.Turn = side.Opponent()
    return nil
}

// Outcome reports the game's current result.
func (g *Game) Outcome() Outcome {
    if !g.Over {
        return Outcome{Status: InProgress}
    }
    if g.Winner == Empty {
        return Outcome{Status: Draw}
    }
    return Outcome{Status: Win, Winner: g.Winner}
}

// Reset clears the board and hands the move back to X.
func (g *Game) Reset() {
    *g = New()
}
