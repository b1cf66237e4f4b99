package main

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotateCW(t *testing.T) {
	matrix := [][]int{
		{1, 0, 0},
		{1, 1, 1},
	}
	rotated := rotateCW(matrix)
	assert.Equal(t, [][]int{
		{1, 1},
		{1, 0},
		{1, 0},
	}, rotated)
}

func TestRotateCCW(t *testing.T) {
	matrix := [][]int{
		{1, 0, 0},
		{1, 1, 1},
	}
	rotated := rotateCCW(matrix)
	assert.Equal(t, [][]int{
		{0, 1},
		{0, 1},
		{1, 1},
	}, rotated)
}

func TestRotateRoundTrip(t *testing.T) {
	for kind := PieceKind(0); kind < kindCount; kind++ {
		t.Run(kind.String(), func(t *testing.T) {
			original := copyMatrix(pieceShapes[kind])
			assert.Equal(t, original, rotateCCW(rotateCW(original)))
			assert.Equal(t, original, rotateCW(rotateCCW(original)))
		})
	}
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	matrix := [][]int{
		{1, 1, 0, 1},
		{0, 1, 1, 0},
	}
	rotated := copyMatrix(matrix)
	for i := 0; i < 4; i++ {
		rotated = rotateCW(rotated)
	}
	assert.Equal(t, matrix, rotated)
}

func TestNewPieceCopiesCanonicalShape(t *testing.T) {
	piece := newPiece(KindT)
	piece.Matrix[0][0] = 9
	assert.Equal(t, 0, pieceShapes[KindT][0][0], "canonical shape must not alias the active piece")
}

func TestNewPieceSpawnPosition(t *testing.T) {
	tests := []struct {
		kind PieceKind
		x    int
		y    int
	}{
		{KindI, 3, 0},
		{KindO, 4, -1},
		{KindT, 3, -1},
		{KindS, 3, -1},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			piece := newPiece(tt.kind)
			assert.Equal(t, tt.x, piece.X)
			assert.Equal(t, tt.y, piece.Y)
		})
	}
}

func TestNewBagIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		bag := newBag(rng)
		require.Len(t, bag, int(kindCount))
		seen := make(map[PieceKind]bool)
		for _, kind := range bag {
			assert.False(t, seen[kind], "kind %v repeated in bag", kind)
			seen[kind] = true
		}
	}
}

func TestNewBagIsUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const draws = 7000
	counts := make(map[PieceKind]int)
	for i := 0; i < draws; i++ {
		counts[newBag(rng)[0]]++
	}
	expected := draws / int(kindCount)
	for kind := PieceKind(0); kind < kindCount; kind++ {
		assert.InDelta(t, expected, counts[kind], float64(expected)/4,
			fmt.Sprintf("kind %v appears first too unevenly", kind))
	}
}
