package engine

import "sync"

// Scorer counts how often the computer picked each cell through the frequency
// heuristic. Counts only grow. A Scorer is safe for concurrent use, so several
// engines may share one deliberately.
type Scorer struct {
    mu     sync.Mutex
    counts map[int]int
}

// NewScorer returns an empty table.
func NewScorer() *Scorer {
    return &Scorer{counts: make(map[int]int)}
}

// Score returns the count for idx, zero when absent.
func (s *Scorer) Score(idx int) int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.counts[idx]
}

// Record bumps idx by one and returns the new count.
func (s *Scorer) Record(idx int) int {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.counts[idx]++
    return s.counts[idx]
}

// Leaders returns the subset of cells sharing the highest count, keeping the
// input order.
func (s *Scorer) Leaders(cells []int) []int {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []int
    top := -1
    for _, c := range cells {
        v := s.counts[c]
        switch {
        case v > top:
            top = v
            out = append(out[:0], c)
        case v == top:
            out = append(out, c)
        }
    }
    return out
}

// Snapshot returns a copy of the table.
func (s *Scorer) Snapshot() map[int]int {
    s.mu.Lock()
    defer s.mu.Unlock()
    cp := make(map[int]int, len(s.counts))
    for k, v := range s.counts {
        cp[k] = v
    }
    return cp
}
