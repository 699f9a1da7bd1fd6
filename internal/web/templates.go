package web

import (
    "bytes"
    "html/template"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter": func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(c domain.Cell) string { return c.String() },
        "add": func(a, b int) int { return a + b },
        "mul": func(a, b int) int { return a * b },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>TicTacToe</h1>
<form action="/game" method="post">
  <select name="mode">
    <option value="heuristic">Heuristic</option>
    <option value="optimal">Optimal</option>
  </select>
  <button>Create</button>
</form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <div class="status">{{.Status}}</div>
  {{/* 3x3 grid */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}{{$i := add (mul $r 3) $c}}{{$sym := cellSymbol (index $.Board $i)}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="cell" value="{{$i}}">
        <button type="submit"{{if or $.Over (ne $sym "")}} disabled{{end}}>{{$sym}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  {{if .CanOpen}}
  <form hx-post="/game/{{.ID}}/computer" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">Computer starts</button>
  </form>
  {{end}}
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">New game</button>
  </form>
</div>
`

// boardData is what the board template renders.
type boardData struct {
    ID      string
    Board   domain.Board
    Over    bool
    CanOpen bool
    Status  string
    Error   string
}

func newBoardData(gs app.GameState, errMsg string) boardData {
    return boardData{
        ID:      gs.ID,
        Board:   gs.Board,
        Over:    gs.Over(),
        CanOpen: gs.Moves == 0,
        Status:  statusText(gs.Outcome),
        Error:   errMsg,
    }
}

func statusText(out domain.Outcome) string {
    switch out.Status {
    case domain.Draw:
        return "Draw"
    case domain.Win:
        if out.Winner == engine.Computer {
            return "Computer wins"
        }
        return "You win"
    default:
        return "Your move"
    }
}
