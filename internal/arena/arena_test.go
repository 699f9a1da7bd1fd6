package arena

import (
    "context"
    "math/rand"
    "testing"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

func TestOptimalNeverLosesToRandom(t *testing.T) {
    a := New(engine.ModeOptimal, "random")
    a.Games = 200
    a.Workers = 4
    a.Seed = 11
    sum, err := a.Run(context.Background())
    if err != nil {
        t.Fatalf("run: %v", err)
    }
    if sum.Games != 200 {
        t.Fatalf("expected 200 games, got %d", sum.Games)
    }
    if sum.HumanWins != 0 {
        t.Fatalf("optimal engine lost %d games", sum.HumanWins)
    }
    if sum.ComputerWins == 0 {
        t.Fatalf("expected the optimal engine to beat a random player at least once")
    }
}

func TestOptimalSelfPlayDraws(t *testing.T) {
    a := New(engine.ModeOptimal, "optimal")
    a.Games = 4
    a.Workers = 1
    sum, err := a.Run(context.Background())
    if err != nil {
        t.Fatalf("run: %v", err)
    }
    if sum.Draws != 4 {
        t.Fatalf("expected all draws, got %+v", sum)
    }
}

func TestHeuristicArenaLearns(t *testing.T) {
    a := New(engine.ModeHeuristic, "random")
    a.Games = 50
    a.Workers = 3
    a.Seed = 5
    sum, err := a.Run(context.Background())
    if err != nil {
        t.Fatalf("run: %v", err)
    }
    if sum.Games != 50 || sum.ComputerWins+sum.HumanWins+sum.Draws != 50 {
        t.Fatalf("unexpected tally %+v", sum)
    }
    if len(sum.Scores) == 0 {
        t.Fatalf("expected the shared scorer to record frequency picks")
    }
}

func TestRunCancelled(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    cancel()
    a := New(engine.ModeHeuristic, "random")
    sum, err := a.Run(ctx)
    if err == nil {
        t.Fatalf("expected context error")
    }
    if sum.Games != 0 {
        t.Fatalf("expected no games after cancel, got %d", sum.Games)
    }
}

func TestRunRejectsBadInput(t *testing.T) {
    a := New(engine.ModeHeuristic, "telepathic")
    if _, err := a.Run(context.Background()); err == nil {
        t.Fatalf("expected unknown agent error")
    }
    a = New(engine.ModeHeuristic, "random")
    a.Workers = 0
    if _, err := a.Run(context.Background()); err == nil {
        t.Fatalf("expected worker count error")
    }
}

func TestRandomAgentPicksEmpty(t *testing.T) {
    ag := &RandomAgent{Rand: rand.New(rand.NewSource(1))}
    b, _ := domain.ParseBoard("XOX OX. XO.")
    for i := 0; i < 20; i++ {
        if m := ag.Move(&b); m != 5 && m != 8 {
            t.Fatalf("random agent picked occupied %d", m)
        }
    }
}
