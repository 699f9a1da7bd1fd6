package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5/middleware"
    "github.com/rs/zerolog"
)

// requestLogger logs one line per request once the handler returns.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            start := time.Now()
            defer func() {
                log.Info().
                    Str("method", r.Method).
                    Str("path", r.URL.Path).
                    Int("status", ww.Status()).
                    Int("bytes", ww.BytesWritten()).
                    Dur("duration", time.Since(start)).
                    Str("request_id", middleware.GetReqID(r.Context())).
                    Msg("request")
            }()
            next.ServeHTTP(ww, r)
        })
    }
}
