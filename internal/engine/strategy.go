package engine

import (
    "errors"
    "fmt"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Rand is the random source used to break ties. *math/rand.Rand satisfies it.
type Rand interface {
    Intn(n int) int
}

// Reason records which rule produced a computer move.
type Reason uint8

const (
    ReasonNone Reason = iota
    ReasonForcedWin
    ReasonForcedBlock
    ReasonOpening
    ReasonFrequency
    ReasonSearch
)

func (r Reason) String() string {
    switch r {
    case ReasonForcedWin:
        return "forced_win"
    case ReasonForcedBlock:
        return "forced_block"
    case ReasonOpening:
        return "opening"
    case ReasonFrequency:
        return "frequency"
    case ReasonSearch:
        return "search"
    default:
        return "none"
    }
}

// Decision is a chosen cell and the rule that chose it.
type Decision struct {
    Cell   int
    Reason Reason
}

// Strategy picks the computer's next cell. Callers must only ask for a move
// on a board that still has an empty cell.
type Strategy interface {
    Mode() Mode
    Choose(b *domain.Board) Decision
}

// Mode names a move selection policy.
type Mode string

const (
    ModeHeuristic Mode = "heuristic"
    ModeOptimal   Mode = "optimal"
)

// ErrUnknownMode is returned by ParseMode for names it does not recognize.
var ErrUnknownMode = errors.New("unknown mode")

// ParseMode maps a name to a Mode. An empty name selects the heuristic.
func ParseMode(s string) (Mode, error) {
    switch Mode(s) {
    case "", ModeHeuristic:
        return ModeHeuristic, nil
    case ModeOptimal:
        return ModeOptimal, nil
    }
    return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// OpeningCell is played when the human has not moved yet.
const OpeningCell = 0

// Heuristic takes an immediate win, else blocks the human, else plays the
// opening cell, else picks among the most frequently chosen empty cells.
type Heuristic struct {
    Computer domain.Cell
    Human    domain.Cell
    Scorer   *Scorer
    Rand     Rand
}

func (h *Heuristic) Mode() Mode { return ModeHeuristic }

func (h *Heuristic) Choose(b *domain.Board) Decision {
    if idx, ok := domain.FindTacticalMove(b, h.Computer); ok {
        return Decision{Cell: idx, Reason: ReasonForcedWin}
    }
    if idx, ok := domain.FindTacticalMove(b, h.Human); ok {
        return Decision{Cell: idx, Reason: ReasonForcedBlock}
    }
    if b.Count(h.Human) == 0 && b[OpeningCell] == domain.Empty {
        return Decision{Cell: OpeningCell, Reason: ReasonOpening}
    }

    empty := b.EmptyCells()
    if len(empty) == 0 {
        panic("engine: heuristic asked to move on a full board")
    }
    leaders := h.Scorer.Leaders(empty)
    pick := leaders[0]
    if len(leaders) > 1 {
        pick = leaders[h.Rand.Intn(len(leaders))]
    }
    h.Scorer.Record(pick)
    return Decision{Cell: pick, Reason: ReasonFrequency}
}

// Optimal plays the best move found by a full alpha-beta search.
type Optimal struct {
    Searcher Searcher
}

func (o *Optimal) Mode() Mode { return ModeOptimal }

func (o *Optimal) Choose(b *domain.Board) Decision {
    idx, _, ok := o.Searcher.BestMove(b)
    if !ok {
        panic("engine: search found no move on a non-terminal board")
    }
    return Decision{Cell: idx, Reason: ReasonSearch}
}
