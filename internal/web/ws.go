package web

import (
    "context"
    "encoding/json"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/gorilla/websocket"

    "github.com/jaminalder/tictactoe-ai/internal/app"
)

type wsMessage struct {
    Type    string    `json:"type"`
    Payload *stateDTO `json:"payload,omitempty"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// ws streams the game state as JSON: once on connect, then after every change.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    conn, err := upgrader.Upgrade(w, r, nil)
    if err != nil {
        h.log.Warn().Err(err).Str("game", id).Msg("websocket upgrade failed")
        return
    }
    defer conn.Close()

    ctx, cancel := context.WithCancel(r.Context())
    defer cancel()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        return
    }
    defer unsub()

    // Client messages are ignored; a read error means the peer went away.
    go func() {
        defer cancel()
        for {
            if _, _, err := conn.ReadMessage(); err != nil {
                return
            }
        }
    }()

    if err := writeState(conn, *gs); err != nil {
        return
    }
    if err := writeWSWithHeartbeat(ctx, conn, ch, h.heartbeat); err != nil {
        h.log.Debug().Err(err).Str("game", id).Msg("websocket closed")
    }
}

func writeState(conn *websocket.Conn, gs app.GameState) error {
    dto := newStateDTO(gs)
    b, err := json.Marshal(wsMessage{Type: "state", Payload: &dto})
    if err != nil {
        return err
    }
    return conn.WriteMessage(websocket.TextMessage, b)
}

func writeWSWithHeartbeat(ctx context.Context, conn *websocket.Conn, updates <-chan app.GameState, interval time.Duration) error {
    ticker := time.NewTicker(interval)
    defer ticker.Stop()
    lastWrite := time.Now()
    ping, _ := json.Marshal(wsMessage{Type: "ping"})

    for {
        select {
        case <-ctx.Done():
            return nil
        case gs, ok := <-updates:
            if !ok {
                return nil
            }
            if err := writeState(conn, gs); err != nil {
                return err
            }
            lastWrite = time.Now()
        case <-ticker.C:
            if time.Since(lastWrite) < interval {
                continue
            }
            if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
                return err
            }
            lastWrite = time.Now()
        }
    }
}
