package app

import (
    "context"
    "errors"
    "math/rand"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

// Errors exposed by the service layer.
var (
    ErrNotFound = errors.New("game not found")
)

// GameState is a snapshot of one game, safe to hand out.
type GameState struct {
    ID      string
    Mode    engine.Mode
    Board   domain.Board
    Turn    domain.Cell
    Moves   int
    Outcome domain.Outcome
    // Last is the computer's most recent move this game, nil before it moves.
    Last    *engine.Decision
    Created time.Time
    Updated time.Time
}

// Over reports whether the game has ended.
func (gs GameState) Over() bool { return gs.Outcome.Status != domain.InProgress }

type session struct {
    id      string
    eng     *engine.Engine
    last    *engine.Decision
    created time.Time
    updated time.Time
}

func (ss *session) snapshot() GameState {
    gs := GameState{
        ID:      ss.id,
        Mode:    ss.eng.Mode(),
        Board:   ss.eng.Board(),
        Turn:    ss.eng.Turn(),
        Moves:   ss.eng.Moves(),
        Outcome: ss.eng.QueryOutcome(),
        Created: ss.created,
        Updated: ss.updated,
    }
    if ss.last != nil {
        d := *ss.last
        gs.Last = &d
    }
    return gs
}

type subscriber struct {
    ch        chan GameState
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Options configures a Service.
type Options struct {
    // Mode is used when CreateGame is called without one.
    Mode engine.Mode
    // ShareScorer makes every game learn from one frequency table instead of
    // its own.
    ShareScorer bool
    // Seed fixes the tie-break sources; zero seeds from the clock.
    Seed   int64
    Logger zerolog.Logger
}

// Service manages games and subscribers. Each game owns its own engine.
type Service struct {
    mu     sync.Mutex
    games  map[string]*session
    subs   map[string]map[*subscriber]struct{}
    opts   Options
    shared *engine.Scorer
    seq    int64
    log    zerolog.Logger
}

// NewService creates an empty service.
func NewService(opts Options) *Service {
    if opts.Mode == "" {
        opts.Mode = engine.ModeHeuristic
    }
    return &Service{
        games:  make(map[string]*session),
        subs:   make(map[string]map[*subscriber]struct{}),
        opts:   opts,
        shared: engine.NewScorer(),
        log:    opts.Logger.With().Str("component", "app").Logger(),
    }
}

func (s *Service) newEngineLocked(mode engine.Mode) (*engine.Engine, error) {
    scorer := engine.NewScorer()
    if s.opts.ShareScorer {
        scorer = s.shared
    }
    seed := s.opts.Seed
    if seed == 0 {
        seed = time.Now().UnixNano()
    }
    s.seq++
    rnd := rand.New(rand.NewSource(seed + s.seq))
    return engine.New(engine.WithMode(mode), engine.WithScorer(scorer), engine.WithRand(rnd))
}

// CreateGame creates and registers a new game. An empty mode uses the
// service default.
func (s *Service) CreateGame(mode engine.Mode) (*GameState, error) {
    if mode == "" {
        mode = s.opts.Mode
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    eng, err := s.newEngineLocked(mode)
    if err != nil {
        return nil, err
    }
    id := uuid.NewString()
    now := time.Now()
    ss := &session{id: id, eng: eng, created: now, updated: now}
    s.games[id] = ss
    s.log.Info().Str("game", id).Str("mode", string(mode)).Msg("game created")
    gs := ss.snapshot()
    return &gs, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    ss, ok := s.games[id]
    if !ok {
        return nil, false
    }
    gs := ss.snapshot()
    return &gs, true
}

// Play applies the human's move and, if the game goes on, the computer's
// reply. A rejected move returns the game unchanged along with the error.
func (s *Service) Play(id string, idx int) (*GameState, error) {
    return s.update(id, func(ss *session) error {
        if err := ss.eng.ApplyHumanMove(idx); err != nil {
            return err
        }
        if ss.eng.QueryOutcome().Status != domain.InProgress {
            return nil
        }
        return s.computerMoveLocked(ss)
    })
}

// ComputerOpen lets the computer take the first move of a fresh game.
func (s *Service) ComputerOpen(id string) (*GameState, error) {
    return s.update(id, s.computerMoveLocked)
}

// Reset starts the game over. Learned move frequencies are kept.
func (s *Service) Reset(id string) (*GameState, error) {
    return s.update(id, func(ss *session) error {
        ss.eng.Reset()
        ss.last = nil
        s.log.Info().Str("game", ss.id).Msg("game reset")
        return nil
    })
}

// Scores returns a copy of the frequency table used by the game.
func (s *Service) Scores(id string) (map[int]int, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    ss, ok := s.games[id]
    if !ok {
        return nil, ErrNotFound
    }
    return ss.eng.Scorer().Snapshot(), nil
}

func (s *Service) computerMoveLocked(ss *session) error {
    d, err := ss.eng.ComputerTakeTurn()
    if err != nil {
        return err
    }
    ss.last = &d
    s.log.Debug().Str("game", ss.id).Int("cell", d.Cell).Str("reason", d.Reason.String()).Msg("computer moved")
    return nil
}

// update runs fn on the game under the lock. On success the new state is
// broadcast to subscribers; on failure the current state is returned with the
// error.
func (s *Service) update(id string, fn func(*session) error) (*GameState, error) {
    s.mu.Lock()
    ss, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if err := fn(ss); err != nil {
        cp := ss.snapshot()
        s.mu.Unlock()
        return &cp, err
    }
    ss.updated = time.Now()
    cp := ss.snapshot()
    dropped := s.broadcastLocked(id, cp)
    s.mu.Unlock()

    if dropped > 0 {
        s.log.Warn().Str("game", id).Int("dropped", dropped).Msg("dropped slow subscribers")
    }
    if cp.Over() {
        s.log.Info().Str("game", id).Str("status", cp.Outcome.Status.String()).
            Str("winner", cp.Outcome.Winner.String()).Int("moves", cp.Moves).Msg("game finished")
    }
    return &cp, nil
}

// broadcastLocked sends gs to every subscriber without blocking. Subscribers
// whose buffer is still full are closed and removed.
func (s *Service) broadcastLocked(id string, gs GameState) int {
    set := s.subs[id]
    dropped := 0
    for sub := range set {
        select {
        case sub.ch <- gs:
        default:
            sub.close()
            delete(set, sub)
            dropped++
        }
    }
    return dropped
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan GameState, func(), error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        return nil, nil, ErrNotFound
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan GameState, 1)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            defer s.mu.Unlock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub, nil
}
