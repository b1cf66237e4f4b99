package main

const (
	boardWidth  = 10
	boardHeight = 20
)

// Board is the settled stack: 0 means empty, kind+1 marks a filled cell so
// the render layer can recover the piece's palette color.
type Board [][]int

func newBoard() Board {
	board := make(Board, boardHeight)
	for y := range board {
		board[y] = make([]int, boardWidth)
	}
	return board
}

// collides reports whether piece, shifted by (dx, dy), overlaps a wall, the
// floor or the stack. Rows above the board never collide so pieces may
// spawn partially off the top.
func (b Board) collides(piece Piece, dx, dy int) bool {
	for y, row := range piece.Matrix {
		for x, cell := range row {
			if cell == 0 {
				continue
			}
			bx := piece.X + x + dx
			by := piece.Y + y + dy
			if bx < 0 || bx >= boardWidth || by >= boardHeight {
				return true
			}
			if by >= 0 && b[by][bx] != 0 {
				return true
			}
		}
	}
	return false
}

// merge writes the piece's filled cells into the stack. Cells still above
// the board are dropped silently.
func (b Board) merge(piece Piece) {
	for y, row := range piece.Matrix {
		for x, cell := range row {
			if cell == 0 {
				continue
			}
			bx := piece.X + x
			by := piece.Y + y
			if by >= 0 && by < boardHeight && bx >= 0 && bx < boardWidth {
				b[by][bx] = int(piece.Kind) + 1
			}
		}
	}
}

// fullRows lists the row indices that are completely filled, top to bottom.
func (b Board) fullRows() []int {
	var rows []int
	for y := 0; y < boardHeight; y++ {
		full := true
		for x := 0; x < boardWidth; x++ {
			if b[y][x] == 0 {
				full = false
				break
			}
		}
		if full {
			rows = append(rows, y)
		}
	}
	return rows
}

// clearLines removes every full row, inserting fresh empty rows at the top,
// and returns how many were removed.
func (b Board) clearLines() int {
	cleared := 0
	for y := boardHeight - 1; y >= 0; y-- {
		full := true
		for x := 0; x < boardWidth; x++ {
			if b[y][x] == 0 {
				full = false
				break
			}
		}
		if full {
			cleared++
			copy(b[1:y+1], b[0:y])
			b[0] = make([]int, boardWidth)
			y++
		}
	}
	return cleared
}

func (b Board) isPerfectClear() bool {
	for y := range b {
		for x := range b[y] {
			if b[y][x] != 0 {
				return false
			}
		}
	}
	return true
}
