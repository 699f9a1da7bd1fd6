package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "io"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/muesli/termenv"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/arena"
    "github.com/jaminalder/tictactoe-ai/internal/config"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
    "github.com/jaminalder/tictactoe-ai/internal/web"
)

const usage = `usage: tictactoe <command> [flags]

commands:
  serve   run the HTTP server
  arena   play the engine against a scripted opponent and print a summary
`

func main() {
    if len(os.Args) < 2 {
        fmt.Fprint(os.Stderr, usage)
        os.Exit(2)
    }
    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    var err error
    switch os.Args[1] {
    case "serve":
        err = runServe(ctx, os.Args[2:])
    case "arena":
        err = runArena(ctx, os.Args[2:], os.Stdout)
    case "-h", "--help", "help":
        fmt.Fprint(os.Stdout, usage)
        return
    default:
        fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", os.Args[1], usage)
        os.Exit(2)
    }
    if err != nil && !errors.Is(err, context.Canceled) {
        fmt.Fprintf(os.Stderr, "tictactoe: %v\n", err)
        os.Exit(1)
    }
}

// loadConfig layers defaults, TTT_* environment variables and flags.
func loadConfig(fs *flag.FlagSet, args []string) (config.Config, error) {
    cfg, err := config.Default().FromEnv(os.LookupEnv)
    if err != nil {
        return cfg, err
    }
    mode := string(cfg.Mode)
    fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
    fs.StringVar(&mode, "mode", mode, "default engine mode: heuristic or optimal")
    fs.BoolVar(&cfg.ShareScorer, "share-scorer", cfg.ShareScorer, "share the move frequency table between games")
    fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "tie-break seed, 0 for clock based")
    fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "trace, debug, info, warn or error")
    fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "console or json")
    fs.DurationVar(&cfg.HeartbeatInterval, "heartbeat", cfg.HeartbeatInterval, "stream keep-alive interval")
    fs.IntVar(&cfg.ArenaGames, "games", cfg.ArenaGames, "arena: number of games")
    fs.IntVar(&cfg.ArenaWorkers, "workers", cfg.ArenaWorkers, "arena: worker goroutines")
    fs.StringVar(&cfg.ArenaOpponent, "opponent", cfg.ArenaOpponent, "arena: random or optimal")
    if err := fs.Parse(args); err != nil {
        return cfg, err
    }
    cfg.Mode = engine.Mode(mode)
    return cfg, cfg.Validate()
}

func newLogger(cfg config.Config, w io.Writer) zerolog.Logger {
    level, err := zerolog.ParseLevel(cfg.LogLevel)
    if err != nil {
        level = zerolog.InfoLevel
    }
    if cfg.LogFormat == "console" {
        w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
    }
    return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

func runServe(ctx context.Context, args []string) error {
    cfg, err := loadConfig(flag.NewFlagSet("serve", flag.ContinueOnError), args)
    if err != nil {
        return err
    }
    log := newLogger(cfg, os.Stderr)

    svc := app.NewService(app.Options{
        Mode:        cfg.Mode,
        ShareScorer: cfg.ShareScorer,
        Seed:        cfg.Seed,
        Logger:      log,
    })
    server := &http.Server{
        Addr:              cfg.Addr,
        Handler:           web.NewServer(svc, web.Options{Logger: log, Heartbeat: cfg.HeartbeatInterval}),
        ReadHeaderTimeout: 5 * time.Second,
    }

    serveErr := make(chan error, 1)
    go func() {
        if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            serveErr <- err
        }
        close(serveErr)
    }()
    log.Info().Str("addr", cfg.Addr).Str("mode", string(cfg.Mode)).Bool("share_scorer", cfg.ShareScorer).Msg("listening")

    select {
    case err := <-serveErr:
        return err
    case <-ctx.Done():
        log.Info().Msg("shutdown signal received")
    }

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := server.Shutdown(shutdownCtx); err != nil {
        log.Error().Err(err).Msg("graceful shutdown failed")
        return server.Close()
    }
    return nil
}

func runArena(ctx context.Context, args []string, out io.Writer) error {
    cfg, err := loadConfig(flag.NewFlagSet("arena", flag.ContinueOnError), args)
    if err != nil {
        return err
    }
    log := newLogger(cfg, os.Stderr)

    a := arena.New(cfg.Mode, cfg.ArenaOpponent)
    a.Games = cfg.ArenaGames
    a.Workers = cfg.ArenaWorkers
    a.Seed = cfg.Seed
    if a.Seed == 0 {
        a.Seed = time.Now().UnixNano()
    }

    start := time.Now()
    sum, err := a.Run(ctx)
    if err != nil && !errors.Is(err, context.Canceled) {
        return err
    }
    log.Debug().Dur("elapsed", time.Since(start)).Int("games", sum.Games).Msg("arena finished")
    printSummary(termenv.NewOutput(out), sum)
    return err
}

func printSummary(o *termenv.Output, sum arena.Summary) {
    pct := func(n int) float64 {
        if sum.Games == 0 {
            return 0
        }
        return 100 * float64(n) / float64(sum.Games)
    }
    title := o.String(fmt.Sprintf("%s engine vs %s opponent", sum.Mode, sum.Opponent)).Bold()
    fmt.Fprintf(o, "%s (%d games, %d workers)\n", title, sum.Games, sum.Workers)
    fmt.Fprintf(o, "  %s %5d  %5.1f%%\n", o.String("computer wins").Foreground(o.Color("2")), sum.ComputerWins, pct(sum.ComputerWins))
    fmt.Fprintf(o, "  %s %5d  %5.1f%%\n", o.String("human wins   ").Foreground(o.Color("1")), sum.HumanWins, pct(sum.HumanWins))
    fmt.Fprintf(o, "  %s %5d  %5.1f%%\n", o.String("draws        ").Foreground(o.Color("3")), sum.Draws, pct(sum.Draws))
    if len(sum.Scores) == 0 {
        return
    }
    fmt.Fprintln(o, o.String("  frequency table").Faint())
    for r := 0; r < 3; r++ {
        fmt.Fprint(o, "   ")
        for c := 0; c < 3; c++ {
            fmt.Fprintf(o, " %6d", sum.Scores[r*3+c])
        }
        fmt.Fprintln(o)
    }
}
