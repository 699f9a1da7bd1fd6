package domain

import (
    "errors"
    "testing"
)

// helper to apply a sequence of (row, col) moves, alternating sides
func playMoves(t *testing.T, g *Game, moves [][2]int) {
    t.Helper()
    for i, m := range moves {
        idx, err := Index(m[0], m[1])
        if err != nil {
            t.Fatalf("move %d (%v) index: %v", i, m, err)
        }
        if err := g.Play(g.Turn, idx); err != nil {
            t.Fatalf("move %d (%v) failed: %v", i, m, err)
        }
    }
}

func TestNewGameInitialState(t *testing.T) {
    g := New()
    if g.Turn != X {
        t.Fatalf("expected initial turn X, got %v", g.Turn)
    }
    if g.Moves != 0 {
        t.Fatalf("expected 0 moves, got %d", g.Moves)
    }
    if g.Over {
        t.Fatalf("expected game not over")
    }
    if g.Winner != Empty {
        t.Fatalf("expected no winner, got %v", g.Winner)
    }
    for i, c := range g.Board {
        if c != Empty {
            t.Fatalf("expected empty board, cell %d = %v", i, c)
        }
    }
    if out := g.Outcome(); out.Status != InProgress {
        t.Fatalf("expected in progress, got %v", out.Status)
    }
}

func TestPlayOutOfBounds(t *testing.T) {
    g := New()
    for _, idx := range []int{-1, 9, 42} {
        if err := g.Play(X, idx); !errors.Is(err, ErrOutOfBounds) {
            t.Fatalf("expected ErrOutOfBounds for %d, got %v", idx, err)
        }
    }
    cases := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {5, 5}}
    for _, m := range cases {
        if _, err := Index(m[0], m[1]); !errors.Is(err, ErrOutOfBounds) {
            t.Fatalf("expected ErrOutOfBounds for %v, got %v", m, err)
        }
    }
}

func TestPlayOccupiedLeavesStateUntouched(t *testing.T) {
    g := New()
    if err := g.Play(X, 0); err != nil {
        t.Fatalf("first move failed: %v", err)
    }
    before := g
    if err := g.Play(O, 0); !errors.Is(err, ErrOccupied) {
        t.Fatalf("expected ErrOccupied on same cell, got %v", err)
    }
    if g != before {
        t.Fatalf("rejected move mutated game: %+v -> %+v", before, g)
    }
}

func TestPlayWrongSide(t *testing.T) {
    g := New()
    if err := g.Play(O, 4); !errors.Is(err, ErrNotYourTurn) {
        t.Fatalf("expected ErrNotYourTurn, got %v", err)
    }
}

func TestTurnFlipsAfterValidMove(t *testing.T) {
    g := New()
    if err := g.Play(X, 4); err != nil {
        t.Fatalf("move failed: %v", err)
    }
    if g.Turn != O {
        t.Fatalf("expected turn to flip to O, got %v", g.Turn)
    }
}

func TestWinConditionsForX(t *testing.T) {
    filler := []int{5, 7, 3, 6, 2, 1}
    for _, line := range Lines {
        g := New()
        onLine := func(i int) bool { return i == line[0] || i == line[1] || i == line[2] }
        var os []int
        for _, f := range filler {
            if !onLine(f) {
                os = append(os, f)
            }
        }
        seq := []int{line[0], os[0], line[1], os[1], line[2]}
        for i, idx := range seq {
            if err := g.Play(g.Turn, idx); err != nil {
                t.Fatalf("line %v move %d failed: %v", line, i, err)
            }
        }
        if !g.Over || g.Winner != X {
            t.Fatalf("expected X to win on line %v; over=%v winner=%v", line, g.Over, g.Winner)
        }
        if g.Moves != 5 {
            t.Fatalf("expected 5 moves to win, got %d", g.Moves)
        }
    }
}

func TestWinConditionsForO(t *testing.T) {
    // X plays fillers that never form a line, O plays the line cells.
    fillers := []int{5, 7, 3, 6, 2, 1, 8, 4}
    for _, line := range Lines {
        g := New()
        onLine := func(i int) bool { return i == line[0] || i == line[1] || i == line[2] }
        var xs []int
        for _, f := range fillers {
            if onLine(f) {
                continue
            }
            probe := g.Board
            for _, x := range xs {
                probe[x] = X
            }
            probe[f] = X
            if probe.HasWin(X) {
                continue
            }
            xs = append(xs, f)
            if len(xs) == 3 {
                break
            }
        }
        if len(xs) < 3 {
            t.Fatalf("could not find fillers for line %v", line)
        }
        seq := []int{xs[0], line[0], xs[1], line[1], xs[2], line[2]}
        for i, idx := range seq {
            if err := g.Play(g.Turn, idx); err != nil {
                t.Fatalf("line %v move %d failed: %v", line, i, err)
            }
        }
        if !g.Over || g.Winner != O {
            t.Fatalf("expected O to win on line %v; over=%v winner=%v", line, g.Over, g.Winner)
        }
        if g.Moves != 6 {
            t.Fatalf("expected 6 moves to win for O, got %d", g.Moves)
        }
    }
}

func TestDrawNoWinner(t *testing.T) {
    g := New()
    // Draw pattern (no three in a row)
    seq := [][2]int{
        {0, 0}, {0, 1}, {0, 2},
        {1, 1}, {1, 0}, {1, 2},
        {2, 1}, {2, 0}, {2, 2},
    }
    playMoves(t, &g, seq)
    if !g.Over {
        t.Fatalf("expected game over on draw")
    }
    if g.Winner != Empty {
        t.Fatalf("expected no winner on draw, got %v", g.Winner)
    }
    if g.Moves != 9 {
        t.Fatalf("expected 9 moves on draw, got %d", g.Moves)
    }
    if out := g.Outcome(); out.Status != Draw {
        t.Fatalf("expected draw outcome, got %v", out.Status)
    }
}

func TestGameOverBlocksFurtherMoves(t *testing.T) {
    g := New()
    // X wins quickly on top row
    seq := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}}
    playMoves(t, &g, seq)
    if !g.Over || g.Winner != X {
        t.Fatalf("expected X win before extra move")
    }
    if out := g.Outcome(); out.Status != Win || out.Winner != X {
        t.Fatalf("expected X win outcome, got %+v", out)
    }
    if err := g.Play(g.Turn, 8); !errors.Is(err, ErrGameOver) {
        t.Fatalf("expected ErrGameOver, got %v", err)
    }
}

func TestReset(t *testing.T) {
    g := New()
    playMoves(t, &g, [][2]int{{0, 0}, {1, 1}})
    g.Reset()
    if g != New() {
        t.Fatalf("expected fresh game after reset, got %+v", g)
    }
}
