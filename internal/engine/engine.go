// Package engine drives a single human-versus-computer game: X is the human,
// O is the computer.
package engine

import (
    "fmt"
    "math/rand"
    "time"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

const (
    Human    = domain.X
    Computer = domain.O
)

// Engine owns one game's board and the computer's move policy. It is not safe
// for concurrent use; the Scorer it holds may be shared.
type Engine struct {
    game     domain.Game
    scorer   *Scorer
    strategy Strategy
}

type options struct {
    mode   Mode
    scorer *Scorer
    rnd    Rand
}

// Option configures New.
type Option func(*options)

// WithMode selects the move policy. The default is ModeHeuristic.
func WithMode(m Mode) Option { return func(o *options) { o.mode = m } }

// WithScorer injects a frequency table, typically to share it between engines.
func WithScorer(s *Scorer) Option { return func(o *options) { o.scorer = s } }

// WithRand injects the tie-break source.
func WithRand(r Rand) Option { return func(o *options) { o.rnd = r } }

// New returns an engine with a fresh game, human to move.
func New(opts ...Option) (*Engine, error) {
    o := options{mode: ModeHeuristic}
    for _, fn := range opts {
        fn(&o)
    }
    if o.scorer == nil {
        o.scorer = NewScorer()
    }
    if o.rnd == nil {
        o.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
    }

    e := &Engine{game: domain.New(), scorer: o.scorer}
    switch o.mode {
    case ModeHeuristic:
        e.strategy = &Heuristic{Computer: Computer, Human: Human, Scorer: o.scorer, Rand: o.rnd}
    case ModeOptimal:
        e.strategy = &Optimal{Searcher: NewSearcher(Computer)}
    default:
        return nil, fmt.Errorf("%w: %q", ErrUnknownMode, o.mode)
    }
    return e, nil
}

// ApplyHumanMove places X at idx. Rejected moves leave the game unchanged.
func (e *Engine) ApplyHumanMove(idx int) error {
    return e.game.Play(Human, idx)
}

// ComputerTakeTurn chooses and places O. On a fresh board the computer may
// open the game in the human's place.
func (e *Engine) ComputerTakeTurn() (Decision, error) {
    if e.game.Over {
        return Decision{}, domain.ErrGameOver
    }
    if e.game.Turn != Computer {
        if e.game.Moves != 0 {
            return Decision{}, domain.ErrNotYourTurn
        }
        e.game.Turn = Computer
    }

    b := e.game.Board
    d := e.strategy.Choose(&b)
    if err := e.game.Play(Computer, d.Cell); err != nil {
        panic(fmt.Sprintf("engine: %s chose illegal cell %d: %v", e.strategy.Mode(), d.Cell, err))
    }
    return d, nil
}

// QueryOutcome reports whether the game is running, won or drawn.
func (e *Engine) QueryOutcome() domain.Outcome { return e.game.Outcome() }

// Reset starts a new game with the human to move. The scorer is kept.
func (e *Engine) Reset() { e.game.Reset() }

// Board returns a copy of the current board.
func (e *Engine) Board() domain.Board { return e.game.Board }

// Turn returns the side to move.
func (e *Engine) Turn() domain.Cell { return e.game.Turn }

// Moves returns how many marks have been placed this game.
func (e *Engine) Moves() int { return e.game.Moves }

func (e *Engine) Mode() Mode { return e.strategy.Mode() }

func (e *Engine) Scorer() *Scorer { return e.scorer }
