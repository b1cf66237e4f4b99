package main

import "math/rand"

// PieceKind identifies one of the seven tetrominoes.
type PieceKind int

const (
	KindI PieceKind = iota
	KindJ
	KindL
	KindO
	KindS
	KindT
	KindZ
	kindCount
)

func (k PieceKind) String() string {
	switch k {
	case KindI:
		return "I"
	case KindJ:
		return "J"
	case KindL:
		return "L"
	case KindO:
		return "O"
	case KindS:
		return "S"
	case KindT:
		return "T"
	case KindZ:
		return "Z"
	default:
		return "?"
	}
}

// Canonical rotation-state-0 shapes, trimmed to their bounding matrix.
// These tables are shared; spawn deep-copies before handing a matrix to
// the active piece.
var pieceShapes = [kindCount][][]int{
	KindI: {
		{1, 1, 1, 1},
	},
	KindJ: {
		{1, 0, 0},
		{1, 1, 1},
	},
	KindL: {
		{0, 0, 1},
		{1, 1, 1},
	},
	KindO: {
		{1, 1},
		{1, 1},
	},
	KindS: {
		{0, 1, 1},
		{1, 1, 0},
	},
	KindT: {
		{0, 1, 0},
		{1, 1, 1},
	},
	KindZ: {
		{1, 1, 0},
		{0, 1, 1},
	},
}

// Piece is the single active tetromino. X/Y address the matrix's top-left
// cell on the board; Y is negative while the piece is still entering.
type Piece struct {
	Kind   PieceKind
	Matrix [][]int
	X      int
	Y      int
}

func newPiece(kind PieceKind) Piece {
	matrix := copyMatrix(pieceShapes[kind])
	return Piece{
		Kind:   kind,
		Matrix: matrix,
		X:      (boardWidth - len(matrix[0])) / 2,
		Y:      -(len(matrix) - 1),
	}
}

func copyMatrix(matrix [][]int) [][]int {
	out := make([][]int, len(matrix))
	for y, row := range matrix {
		out[y] = make([]int, len(row))
		copy(out[y], row)
	}
	return out
}

// rotateCW maps input cell (y, x) to output cell (x, h-1-y).
func rotateCW(matrix [][]int) [][]int {
	h := len(matrix)
	w := len(matrix[0])
	out := make([][]int, w)
	for y := range out {
		out[y] = make([]int, h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[x][h-1-y] = matrix[y][x]
		}
	}
	return out
}

// rotateCCW maps input cell (y, x) to output cell (w-1-x, y).
func rotateCCW(matrix [][]int) [][]int {
	h := len(matrix)
	w := len(matrix[0])
	out := make([][]int, w)
	for y := range out {
		out[y] = make([]int, h)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[w-1-x][y] = matrix[y][x]
		}
	}
	return out
}

// newBag returns a Fisher-Yates shuffled permutation of all seven kinds.
func newBag(rng *rand.Rand) []PieceKind {
	bag := []PieceKind{KindI, KindJ, KindL, KindO, KindS, KindT, KindZ}
	for i := len(bag) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		bag[i], bag[j] = bag[j], bag[i]
	}
	return bag
}
