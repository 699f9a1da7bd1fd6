package engine

import (
    "math"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

// WinScore is the value of a win found at depth zero. Deeper wins are worth
// less and deeper losses cost less, so the search prefers quick wins and
// late losses.
const WinScore = 10

// Searcher runs minimax with alpha-beta pruning over the remaining game tree.
// Scores are always from Max's point of view.
type Searcher struct {
    Max domain.Cell
    Min domain.Cell
}

// NewSearcher returns a searcher maximizing for side.
func NewSearcher(side domain.Cell) Searcher {
    return Searcher{Max: side, Min: side.Opponent()}
}

// Search scores b with the given side to move. Max is to move when maximizing
// is true. The board is mutated while exploring and restored before returning.
func (s Searcher) Search(b *domain.Board, depth, alpha, beta int, maximizing bool) int {
    if b.HasWin(s.Min) {
        return -WinScore + depth
    }
    if b.HasWin(s.Max) {
        return WinScore - depth
    }
    if b.IsFull() {
        return 0
    }

    if maximizing {
        best := math.MinInt
        for i := range b {
            if b[i] != domain.Empty {
                continue
            }
            b[i] = s.Max
            score := s.Search(b, depth+1, alpha, beta, false)
            b[i] = domain.Empty

            best = max(best, score)
            alpha = max(alpha, best)
            if beta <= alpha {
                break
            }
        }
        return best
    }

    best := math.MaxInt
    for i := range b {
        if b[i] != domain.Empty {
            continue
        }
        b[i] = s.Min
        score := s.Search(b, depth+1, alpha, beta, true)
        b[i] = domain.Empty

        best = min(best, score)
        beta = min(beta, best)
        if beta <= alpha {
            break
        }
    }
    return best
}

// BestMove returns the lowest-indexed cell with the highest score for Max.
// ok is false when the board has no empty cell.
func (s Searcher) BestMove(b *domain.Board) (idx, score int, ok bool) {
    idx, score = -1, math.MinInt
    alpha := math.MinInt
    for i := range b {
        if b[i] != domain.Empty {
            continue
        }
        b[i] = s.Max
        v := s.Search(b, 1, alpha, math.MaxInt, false)
        b[i] = domain.Empty
        if v > score {
            idx, score = i, v
        }
        alpha = max(alpha, v)
    }
    return idx, score, idx >= 0
}
