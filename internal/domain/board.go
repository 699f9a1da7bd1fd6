package domain

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    X
    O
)

// String returns the printable mark, or "" for an empty cell.
func (c Cell) String() string {
    switch c {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

// Opponent returns the other playable mark.
func (c Cell) Opponent() Cell {
    switch c {
    case X:
        return O
    case O:
        return X
    default:
        return Empty
    }
}

// Size is the number of cells on the board.
const Size = 9

// Board is a fixed 3x3 board stored row-major.
type Board [Size]Cell

// Lines holds every winning triple: rows, then columns, then the two diagonals.
var Lines = [8][3]int{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// Index converts a row and column (0..2) into a cell index.
func Index(r, c int) (int, error) {
    if r < 0 || r > 2 || c < 0 || c > 2 {
        return 0, ErrOutOfBounds
    }
    return r*3 + c, nil
}

// InBounds reports whether idx addresses a cell.
func InBounds(idx int) bool { return idx >= 0 && idx < Size }

// HasWin reports whether side occupies all three cells of any line.
func (b *Board) HasWin(side Cell) bool {
    if side == Empty {
        return false
    }
    for _, ln := range Lines {
        if b[ln[0]] == side && b[ln[1]] == side && b[ln[2]] == side {
            return true
        }
    }
    return false
}

// IsFull reports whether no cell is empty.
func (b *Board) IsFull() bool {
    for _, c := range b {
        if c == Empty {
            return false
        }
    }
    return true
}

// EmptyCells returns the empty cell indices in ascending order.
func (b *Board) EmptyCells() []int {
    out := make([]int, 0, Size)
    for i, c := range b {
        if c == Empty {
            out = append(out, i)
        }
    }
    return out
}

// Count returns how many cells hold side.
func (b *Board) Count(side Cell) int {
    n := 0
    for _, c := range b {
        if c == side {
            n++
        }
    }
    return n
}

// String renders the board as three rows, using '.' for empty cells.
func (b Board) String() string {
    buf := make([]byte, 0, 12)
    for i, c := range b {
        if i > 0 && i%3 == 0 {
            buf = append(buf, '\n')
        }
        if c == Empty {
            buf = append(buf, '.')
        } else {
            buf = append(buf, c.String()...)
        }
    }
    return string(buf)
}

// ParseBoard builds a board from nine characters of 'X', 'O' and '.' or '_'.
// Whitespace is ignored.
func ParseBoard(s string) (Board, error) {
    var b Board
    i := 0
    for _, r := range s {
        switch r {
        case ' ', '\n', '\t', '\r', '|':
            continue
        }
        if i >= Size {
            return Board{}, ErrBadBoard
        }
        switch r {
        case 'X', 'x':
            b[i] = X
        case 'O', 'o':
            b[i] = O
        case '.', '_', '-':
            b[i] = Empty
        default:
            return Board{}, ErrBadBoard
        }
        i++
    }
    if i != Size {
        return Board{}, ErrBadBoard
    }
    return b, nil
}
