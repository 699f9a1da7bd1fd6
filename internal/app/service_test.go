package app

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

func newTestService(share bool) *Service {
    return NewService(Options{ShareScorer: share, Seed: 1, Logger: zerolog.Nop()})
}

func TestCreateAndGet(t *testing.T) {
    s := newTestService(true)
    gs, err := s.CreateGame("")
    if err != nil {
        t.Fatalf("CreateGame error: %v", err)
    }
    if gs.ID == "" {
        t.Fatalf("expected non-empty game ID")
    }
    if gs.Turn != domain.X || gs.Mode != engine.ModeHeuristic {
        t.Fatalf("expected heuristic game with X to move, got %v %v", gs.Mode, gs.Turn)
    }
    if gs.Created.IsZero() || gs.Updated.IsZero() {
        t.Fatalf("expected timestamps to be set")
    }
    got, ok := s.Get(gs.ID)
    if !ok || got.ID != gs.ID {
        t.Fatalf("Get should find created game")
    }
    if _, ok := s.Get("missing"); ok {
        t.Fatalf("Get should miss unknown id")
    }
}

func TestCreateUnknownMode(t *testing.T) {
    s := newTestService(true)
    if _, err := s.CreateGame("chaos"); !errors.Is(err, engine.ErrUnknownMode) {
        t.Fatalf("expected ErrUnknownMode, got %v", err)
    }
}

func TestPlayAppliesHumanAndComputer(t *testing.T) {
    s := newTestService(true)
    gs, _ := s.CreateGame(engine.ModeOptimal)
    st, err := s.Play(gs.ID, 0)
    if err != nil {
        t.Fatalf("play failed: %v", err)
    }
    if st.Board[0] != domain.X || st.Moves != 2 || st.Turn != domain.X {
        t.Fatalf("unexpected state after exchange: %+v", st)
    }
    if st.Last == nil || st.Last.Cell != 4 || st.Last.Reason != engine.ReasonSearch {
        t.Fatalf("expected computer reply at center, got %+v", st.Last)
    }
}

func TestPlayRejectsOccupied(t *testing.T) {
    s := newTestService(true)
    gs, _ := s.CreateGame(engine.ModeOptimal)
    first, _ := s.Play(gs.ID, 0)
    st, err := s.Play(gs.ID, 4)
    if !errors.Is(err, domain.ErrOccupied) {
        t.Fatalf("expected ErrOccupied, got %v", err)
    }
    if st == nil || st.Board != first.Board {
        t.Fatalf("rejected move must return the unchanged game")
    }
    if _, err := s.Play("missing", 0); !errors.Is(err, ErrNotFound) {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
}

func TestComputerOpenAndReset(t *testing.T) {
    s := newTestService(true)
    gs, _ := s.CreateGame(engine.ModeHeuristic)
    st, err := s.ComputerOpen(gs.ID)
    if err != nil {
        t.Fatalf("open: %v", err)
    }
    if st.Board[engine.OpeningCell] != domain.O || st.Last.Reason != engine.ReasonOpening {
        t.Fatalf("expected opening move, got %+v", st)
    }
    if _, err := s.ComputerOpen(gs.ID); !errors.Is(err, domain.ErrNotYourTurn) {
        t.Fatalf("expected ErrNotYourTurn on second open, got %v", err)
    }
    st, err = s.Reset(gs.ID)
    if err != nil {
        t.Fatalf("reset: %v", err)
    }
    if st.Moves != 0 || st.Last != nil || st.Board != (domain.Board{}) {
        t.Fatalf("expected fresh game after reset, got %+v", st)
    }
}

func TestScorerSharing(t *testing.T) {
    for _, share := range []bool{true, false} {
        s := newTestService(share)
        a, _ := s.CreateGame(engine.ModeHeuristic)
        b, _ := s.CreateGame(engine.ModeHeuristic)
        if _, err := s.Play(a.ID, 8); err != nil {
            t.Fatalf("play: %v", err)
        }
        sa, _ := s.Scores(a.ID)
        sb, _ := s.Scores(b.ID)
        if len(sa) != 1 {
            t.Fatalf("expected one frequency pick in game a, got %v", sa)
        }
        if share && len(sb) != 1 {
            t.Fatalf("shared scorer should be visible from game b, got %v", sb)
        }
        if !share && len(sb) != 0 {
            t.Fatalf("isolated scorer leaked into game b: %v", sb)
        }
    }
}

func TestSubscribeAndBroadcast(t *testing.T) {
    s := newTestService(true)
    gs, _ := s.CreateGame(engine.ModeOptimal)

    ctx, cancel := context.WithTimeout(context.Background(), time.Second*2)
    defer cancel()
    ch, unsub, err := s.Subscribe(ctx, gs.ID)
    if err != nil {
        t.Fatalf("subscribe: %v", err)
    }
    defer unsub()

    if _, err := s.Play(gs.ID, 0); err != nil {
        t.Fatalf("play failed: %v", err)
    }

    select {
    case st, ok := <-ch:
        if !ok {
            t.Fatalf("channel closed unexpectedly")
        }
        if st.Moves != 2 {
            t.Fatalf("unexpected broadcast state: moves=%d", st.Moves)
        }
    case <-ctx.Done():
        t.Fatalf("timed out waiting for broadcast")
    }

    if _, _, err := s.Subscribe(ctx, "missing"); !errors.Is(err, ErrNotFound) {
        t.Fatalf("expected ErrNotFound, got %v", err)
    }
}

func TestDropSlowSubscriber(t *testing.T) {
    s := newTestService(true)
    gs, _ := s.CreateGame(engine.ModeOptimal)

    // Slow subscriber: never read
    ctxSlow, cancelSlow := context.WithCancel(context.Background())
    defer cancelSlow()
    slowCh, _, _ := s.Subscribe(ctxSlow, gs.ID)

    ctxFast, cancelFast := context.WithTimeout(context.Background(), time.Second*2)
    defer cancelFast()
    fastCh, unsubFast, _ := s.Subscribe(ctxFast, gs.ID)
    defer unsubFast()

    // Two quick updates; slow should be dropped to avoid blocking fast
    if _, err := s.Play(gs.ID, 0); err != nil {
        t.Fatalf("play1: %v", err)
    }
    <-fastCh
    if _, err := s.Play(gs.ID, 8); err != nil {
        t.Fatalf("play2: %v", err)
    }
    select {
    case <-fastCh:
    case <-ctxFast.Done():
        t.Fatalf("fast subscriber did not receive updates in time")
    }

    // slow channel holds the first update and is then closed
    if _, ok := <-slowCh; !ok {
        t.Fatalf("expected buffered update on slow channel")
    }
    if _, ok := <-slowCh; ok {
        t.Fatalf("expected slow channel to be closed")
    }
}
