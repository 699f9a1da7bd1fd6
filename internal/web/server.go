package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-ai/internal/app"
)

// Options tunes the HTTP layer. Zero values fall back to defaults.
type Options struct {
    Logger zerolog.Logger
    // Heartbeat is the idle interval between keep-alive pings on streams.
    Heartbeat time.Duration
}

// NewServer wires routes and returns an http.Handler.
func NewServer(s *app.Service, opts Options) http.Handler {
    if opts.Heartbeat <= 0 {
        opts.Heartbeat = 15 * time.Second
    }
    log := opts.Logger.With().Str("component", "web").Logger()

    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(requestLogger(log))
    r.Use(middleware.Recoverer)

    h := &handlers{svc: s, tpl: loadTemplates(), log: log, heartbeat: opts.Heartbeat}
    r.Get("/", h.index)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/play", h.play)
        r.Post("/computer", h.computer)
        r.Post("/reset", h.reset)
        r.Get("/state", h.state)
        r.Get("/scores", h.scores)
        r.Get("/events", h.events)
        r.Get("/ws", h.ws)
    })
    return r
}
