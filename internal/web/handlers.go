package web

import (
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/rs/zerolog"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

type handlers struct {
    svc       *app.Service
    tpl       *templates
    log       zerolog.Logger
    heartbeat time.Duration
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardData(gs, errMsg))
}

func (h *handlers) writeBoard(w http.ResponseWriter, gs app.GameState, errMsg string) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(gs, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "base", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    _ = r.ParseForm()
    mode, err := engine.ParseMode(r.Form.Get("mode"))
    if err != nil {
        http.Error(w, "unknown mode", http.StatusBadRequest)
        return
    }
    gs, err := h.svc.CreateGame(mode)
    if err != nil {
        h.log.Error().Err(err).Msg("create game")
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    // Render page with embedded board container
    _, _ = w.Write(renderTemplate(h.tpl.game, "base", newBoardData(*gs, "")))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    _ = r.ParseForm()
    idx, err := strconv.Atoi(r.Form.Get("cell"))
    if err != nil {
        idx = -1
    }
    gs, err := h.svc.Play(id, idx)
    h.respond(w, r, gs, err)
}

func (h *handlers) computer(w http.ResponseWriter, r *http.Request) {
    gs, err := h.svc.ComputerOpen(chi.URLParam(r, "id"))
    h.respond(w, r, gs, err)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    gs, err := h.svc.Reset(chi.URLParam(r, "id"))
    h.respond(w, r, gs, err)
}

// respond renders the board fragment, with an inline message when the
// action was rejected.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, gs *app.GameState, err error) {
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    var errMsg string
    if err != nil {
        errMsg = errorText(err)
    }
    h.writeBoard(w, *gs, errMsg)
}

func errorText(err error) string {
    switch {
    case errors.Is(err, domain.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, domain.ErrOccupied):
        return "Cell is occupied"
    case errors.Is(err, domain.ErrOutOfBounds):
        return "Out of bounds"
    case errors.Is(err, domain.ErrGameOver):
        return "Game is over"
    default:
        return "Invalid move"
    }
}

type stateDTO struct {
    ID         string    `json:"id"`
    Mode       string    `json:"mode"`
    Board      [9]string `json:"board"`
    Turn       string    `json:"turn"`
    Moves      int       `json:"moves"`
    Status     string    `json:"status"`
    Winner     string    `json:"winner,omitempty"`
    LastMove   *int      `json:"last_move,omitempty"`
    LastReason string    `json:"last_reason,omitempty"`
}

func newStateDTO(gs app.GameState) stateDTO {
    dto := stateDTO{
        ID:     gs.ID,
        Mode:   string(gs.Mode),
        Turn:   gs.Turn.String(),
        Moves:  gs.Moves,
        Status: gs.Outcome.Status.String(),
        Winner: gs.Outcome.Winner.String(),
    }
    for i, c := range gs.Board {
        dto.Board[i] = c.String()
    }
    if gs.Last != nil {
        cell := gs.Last.Cell
        dto.LastMove = &cell
        dto.LastReason = gs.Last.Reason.String()
    }
    return dto
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(v)
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        writeJSON(w, http.StatusNotFound, map[string]string{"error": app.ErrNotFound.Error()})
        return
    }
    writeJSON(w, http.StatusOK, newStateDTO(*gs))
}

func (h *handlers) scores(w http.ResponseWriter, r *http.Request) {
    scores, err := h.svc.Scores(chi.URLParam(r, "id"))
    if err != nil {
        writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
        return
    }
    out := make(map[string]int, len(scores))
    for k, v := range scores {
        out[strconv.Itoa(k)] = v
    }
    writeJSON(w, http.StatusOK, out)
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, _, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    ticker := time.NewTicker(h.heartbeat)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case gs, ok := <-ch:
            if !ok {
                return
            }
            writeSSE(w, "board", h.renderBoard(gs, ""))
            flusher.Flush()
        }
    }
}

// writeSSE emits one event; every payload line gets its own data field.
func writeSSE(w io.Writer, event string, payload []byte) {
    _, _ = fmt.Fprintf(w, "event: %s\n", event)
    for _, line := range strings.Split(string(payload), "\n") {
        _, _ = fmt.Fprintf(w, "data: %s\n", line)
    }
    _, _ = io.WriteString(w, "\n")
}
