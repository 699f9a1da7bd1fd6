package domain

// FindTacticalMove returns the empty cell that would complete a line holding
// exactly two of side's marks. Lines are scanned rows first, then columns,
// then diagonals, and the first hit wins. ok is false when no line qualifies.
func FindTacticalMove(b *Board, side Cell) (idx int, ok bool) {
    if side == Empty {
        return 0, false
    }
    for _, ln := range Lines {
        own, empty := 0, -1
        for _, i := range ln {
            switch b[i] {
            case side:
                own++
            case Empty:
                empty = i
            }
        }
        if own == 2 && empty >= 0 {
            return empty, true
        }
    }
    return 0, false
}
