// Package config holds runtime settings for the server and the arena.
package config

import (
    "errors"
    "fmt"
    "strconv"
    "time"

    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

// Config is the full set of tunables. Zero values are not meaningful; start
// from Default.
type Config struct {
    Addr              string        `json:"addr"`
    Mode              engine.Mode   `json:"mode"`
    ShareScorer       bool          `json:"share_scorer"`
    Seed              int64         `json:"seed"`
    LogLevel          string        `json:"log_level"`
    LogFormat         string        `json:"log_format"`
    HeartbeatInterval time.Duration `json:"heartbeat_interval"`
    ArenaGames        int           `json:"arena_games"`
    ArenaWorkers      int           `json:"arena_workers"`
    ArenaOpponent     string        `json:"arena_opponent"`
}

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Default returns the settings used when nothing is overridden.
func Default() Config {
    return Config{
        Addr:              ":8080",
        Mode:              engine.ModeHeuristic,
        ShareScorer:       true,
        LogLevel:          "info",
        LogFormat:         "console",
        HeartbeatInterval: 15 * time.Second,
        ArenaGames:        1000,
        ArenaWorkers:      4,
        ArenaOpponent:     "random",
    }
}

// FromEnv overlays TTT_* variables onto c. lookup is usually os.LookupEnv.
func (c Config) FromEnv(lookup func(string) (string, bool)) (Config, error) {
    if v, ok := lookup("TTT_ADDR"); ok {
        c.Addr = v
    }
    if v, ok := lookup("TTT_MODE"); ok {
        c.Mode = engine.Mode(v)
    }
    if v, ok := lookup("TTT_SHARE_SCORER"); ok {
        b, err := strconv.ParseBool(v)
        if err != nil {
            return c, fmt.Errorf("TTT_SHARE_SCORER: %w", err)
        }
        c.ShareScorer = b
    }
    if v, ok := lookup("TTT_SEED"); ok {
        n, err := strconv.ParseInt(v, 10, 64)
        if err != nil {
            return c, fmt.Errorf("TTT_SEED: %w", err)
        }
        c.Seed = n
    }
    if v, ok := lookup("TTT_LOG_LEVEL"); ok {
        c.LogLevel = v
    }
    if v, ok := lookup("TTT_LOG_FORMAT"); ok {
        c.LogFormat = v
    }
    if v, ok := lookup("TTT_HEARTBEAT"); ok {
        d, err := time.ParseDuration(v)
        if err != nil {
            return c, fmt.Errorf("TTT_HEARTBEAT: %w", err)
        }
        c.HeartbeatInterval = d
    }
    return c, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
    if _, err := engine.ParseMode(string(c.Mode)); err != nil {
        return fmt.Errorf("%w: %v", ErrInvalid, err)
    }
    if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
        return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
    }
    switch c.LogFormat {
    case "console", "json":
    default:
        return fmt.Errorf("%w: log format %q", ErrInvalid, c.LogFormat)
    }
    if c.HeartbeatInterval <= 0 {
        return fmt.Errorf("%w: heartbeat interval must be positive", ErrInvalid)
    }
    if c.ArenaGames <= 0 || c.ArenaWorkers <= 0 {
        return fmt.Errorf("%w: arena games and workers must be positive", ErrInvalid)
    }
    switch c.ArenaOpponent {
    case "random", "optimal":
    default:
        return fmt.Errorf("%w: arena opponent %q", ErrInvalid, c.ArenaOpponent)
    }
    return nil
}
