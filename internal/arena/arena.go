// Package arena plays batches of games between the engine and a scripted
// human stand-in.
package arena

import (
    "context"
    "fmt"
    "math/rand"
    "sync"
    "sync/atomic"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

// Agent plays the human's side.
type Agent interface {
    Name() string
    Move(b *domain.Board) int
}

// RandomAgent plays a uniformly random empty cell.
type RandomAgent struct {
    Rand engine.Rand
}

func (a *RandomAgent) Name() string { return "random" }

func (a *RandomAgent) Move(b *domain.Board) int {
    empty := b.EmptyCells()
    return empty[a.Rand.Intn(len(empty))]
}

// OptimalAgent plays the search's best move for the human.
type OptimalAgent struct {
    searcher engine.Searcher
}

func NewOptimalAgent() *OptimalAgent {
    return &OptimalAgent{searcher: engine.NewSearcher(engine.Human)}
}

func (a *OptimalAgent) Name() string { return "optimal" }

func (a *OptimalAgent) Move(b *domain.Board) int {
    idx, _, _ := a.searcher.BestMove(b)
    return idx
}

// NewAgent builds an agent by name.
func NewAgent(name string, rnd engine.Rand) (Agent, error) {
    switch name {
    case "random":
        return &RandomAgent{Rand: rnd}, nil
    case "optimal":
        return NewOptimalAgent(), nil
    }
    return nil, fmt.Errorf("unknown agent %q", name)
}

// Stats are updated atomically by the workers.
type Stats struct {
    computerWins uint32
    humanWins    uint32
    draws        uint32
}

func (s *Stats) ComputerWins() int { return int(atomic.LoadUint32(&s.computerWins)) }
func (s *Stats) HumanWins() int    { return int(atomic.LoadUint32(&s.humanWins)) }
func (s *Stats) Draws() int        { return int(atomic.LoadUint32(&s.draws)) }

func (s *Stats) Total() int { return s.ComputerWins() + s.HumanWins() + s.Draws() }

// Summary is the final tally of a run.
type Summary struct {
    Games        int         `json:"games"`
    ComputerWins int         `json:"computer_wins"`
    HumanWins    int         `json:"human_wins"`
    Draws        int         `json:"draws"`
    Workers      int         `json:"workers"`
    Mode         engine.Mode `json:"mode"`
    Opponent     string      `json:"opponent"`
    Scores       map[int]int `json:"scores,omitempty"`
}

// Arena runs Games games split across Workers goroutines. All engines share
// Scorer, so the frequency table learns across the whole run.
type Arena struct {
    Stats
    Mode     engine.Mode
    Opponent string
    Games    int
    Workers  int
    Seed     int64
    Scorer   *engine.Scorer
}

// New returns an arena with defaults for the given mode and opponent.
func New(mode engine.Mode, opponent string) *Arena {
    return &Arena{Mode: mode, Opponent: opponent, Games: 100, Workers: 2, Scorer: engine.NewScorer()}
}

// Run plays every game, or stops early when ctx is cancelled.
func (a *Arena) Run(ctx context.Context) (Summary, error) {
    if a.Games <= 0 || a.Workers <= 0 {
        return Summary{}, fmt.Errorf("arena: games and workers must be positive (games=%d workers=%d)", a.Games, a.Workers)
    }
    if a.Scorer == nil {
        a.Scorer = engine.NewScorer()
    }
    if _, err := NewAgent(a.Opponent, rand.New(rand.NewSource(0))); err != nil {
        return Summary{}, err
    }

    var (
        next     int64 = -1
        wg       sync.WaitGroup
        errMu    sync.Mutex
        firstErr error
    )
    fail := func(err error) {
        errMu.Lock()
        defer errMu.Unlock()
        if firstErr == nil {
            firstErr = err
        }
    }
    for w := 0; w < a.Workers; w++ {
        wg.Add(1)
        go func(w int) {
            defer wg.Done()
            rnd := rand.New(rand.NewSource(a.Seed + int64(w)))
            agent, _ := NewAgent(a.Opponent, rnd)
            e, err := engine.New(engine.WithMode(a.Mode), engine.WithScorer(a.Scorer), engine.WithRand(rnd))
            if err != nil {
                fail(err)
                return
            }
            for {
                if ctx.Err() != nil {
                    return
                }
                n := atomic.AddInt64(&next, 1)
                if n >= int64(a.Games) {
                    return
                }
                e.Reset()
                out, err := playGame(e, agent, n%2 == 1)
                if err != nil {
                    fail(err)
                    return
                }
                a.record(out)
            }
        }(w)
    }
    wg.Wait()

    sum := Summary{
        Games:        a.Total(),
        ComputerWins: a.ComputerWins(),
        HumanWins:    a.HumanWins(),
        Draws:        a.Draws(),
        Workers:      a.Workers,
        Mode:         a.Mode,
        Opponent:     a.Opponent,
        Scores:       a.Scorer.Snapshot(),
    }
    if firstErr != nil {
        return sum, firstErr
    }
    return sum, ctx.Err()
}

func (a *Arena) record(out domain.Outcome) {
    switch {
    case out.Status == domain.Draw:
        atomic.AddUint32(&a.draws, 1)
    case out.Winner == engine.Computer:
        atomic.AddUint32(&a.computerWins, 1)
    default:
        atomic.AddUint32(&a.humanWins, 1)
    }
}

// playGame runs one game to completion. computerOpens hands the first move to
// the engine.
func playGame(e *engine.Engine, agent Agent, computerOpens bool) (domain.Outcome, error) {
    if computerOpens {
        if _, err := e.ComputerTakeTurn(); err != nil {
            return domain.Outcome{}, err
        }
    }
    for {
        if out := e.QueryOutcome(); out.Status != domain.InProgress {
            return out, nil
        }
        if e.Turn() == engine.Human {
            b := e.Board()
            if err := e.ApplyHumanMove(agent.Move(&b)); err != nil {
                return domain.Outcome{}, fmt.Errorf("%s agent: %w", agent.Name(), err)
            }
            continue
        }
        if _, err := e.ComputerTakeTurn(); err != nil {
            return domain.Outcome{}, err
        }
    }
}
