package main

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame() Game {
	return newGameWithRand(rand.New(rand.NewSource(42)))
}

// verticalI is an I piece rotated upright, one column wide.
func verticalI(x, y int) Piece {
	piece := newPiece(KindI)
	piece.Matrix = rotateCW(piece.Matrix)
	piece.X = x
	piece.Y = y
	return piece
}

func TestNewGameSpawnsPlayablePiece(t *testing.T) {
	g := newTestGame()
	assert.False(t, g.Over)
	assert.False(t, g.Board.collides(g.Active, 0, 0))
	assert.Equal(t, 1, g.Level)
	assert.Less(t, int(g.Active.Kind), int(kindCount))
}

func TestSpawnConsumesBagWithoutRepeats(t *testing.T) {
	g := newTestGame()
	seen := map[PieceKind]bool{g.Active.Kind: true}
	for i := 0; i < int(kindCount)-1; i++ {
		g.spawn()
		require.False(t, g.Over)
		assert.False(t, seen[g.Active.Kind], "kind %v repeated inside one bag", g.Active.Kind)
		seen[g.Active.Kind] = true
	}
	assert.Len(t, seen, int(kindCount))
}

func TestSpawnBlockedEndsRun(t *testing.T) {
	g := newTestGame()
	fillRow(g.Board, 0)
	fillRow(g.Board, 1)
	before := g.Active
	g.spawn()
	assert.True(t, g.Over)
	assert.Equal(t, before, g.Active, "a blocked spawn must not install the piece")
}

func TestMoveStopsAtWalls(t *testing.T) {
	g := newTestGame()
	g.Active = verticalI(0, 5)
	assert.False(t, g.Move(-1))
	assert.Equal(t, 0, g.Active.X)
	assert.True(t, g.Move(1))
	assert.Equal(t, 1, g.Active.X)

	g.Active = verticalI(boardWidth-1, 5)
	assert.False(t, g.Move(1))
	assert.Equal(t, boardWidth-1, g.Active.X)
}

func TestMoveReversedUnderChallenge(t *testing.T) {
	g := newTestGame()
	g.Active = verticalI(4, 5)
	g.Challenge.Type = ChallengeReverse
	g.Challenge.until = time.Now().Add(time.Minute)
	assert.True(t, g.Move(1))
	assert.Equal(t, 3, g.Active.X, "reverse negates the intent")
	assert.True(t, g.Move(-1))
	assert.Equal(t, 4, g.Active.X)
}

func TestSuspendedGameIgnoresInput(t *testing.T) {
	g := newTestGame()
	g.Paused = true
	x := g.Active.X
	assert.False(t, g.Move(1))
	assert.False(t, g.Rotate(1))
	assert.Equal(t, LockResult{}, g.SoftDrop())
	assert.Equal(t, LockResult{}, g.HardDrop())
	assert.Equal(t, LockResult{}, g.Step())
	assert.Equal(t, x, g.Active.X)

	g.Paused = false
	g.Challenge.Pending = ChallengeSpeed
	g.Challenge.Countdown = 3
	assert.False(t, g.Move(1))
	assert.Equal(t, LockResult{}, g.Step())
}

func TestStepDescendsAndSpeedChallengeDoubles(t *testing.T) {
	g := newTestGame()
	g.Active = verticalI(4, 2)
	result := g.Step()
	assert.False(t, result.Locked)
	assert.Equal(t, 3, g.Active.Y)

	g.Challenge.Type = ChallengeSpeed
	g.Challenge.until = time.Now().Add(time.Minute)
	result = g.Step()
	assert.False(t, result.Locked)
	assert.Equal(t, 5, g.Active.Y)
}

func TestSoftDropScoresPerCellAndLocksAtRest(t *testing.T) {
	g := newTestGame()
	g.Active = verticalI(4, boardHeight-5)
	base := g.Score
	assert.False(t, g.SoftDrop().Locked)
	assert.Equal(t, base+1, g.Score)
	// Resting on the floor now, next soft drop locks.
	result := g.SoftDrop()
	assert.True(t, result.Locked)
	assert.Equal(t, 0, result.Cleared)
}

func TestHardDropSingleClear(t *testing.T) {
	g := newTestGame()
	g.Active = newPiece(KindO)
	fillRow(g.Board, boardHeight-1, 8, 9)
	for i := 0; i < 4; i++ {
		require.True(t, g.Move(1))
	}
	require.Equal(t, 8, g.Active.X)
	result := g.HardDrop()
	require.True(t, result.Locked)
	assert.Equal(t, 1, result.Cleared)
	assert.Equal(t, []int{boardHeight - 1}, result.ClearedRows)
	assert.Equal(t, 110, result.ScoreDelta)
	// 19 cells of hard drop at two points each, plus the clear.
	assert.Equal(t, 38+110, g.Score)
	assert.Equal(t, 1, g.Lines)
	assert.Equal(t, 1, result.Combo)
	assert.False(t, result.BackToBack)
	assert.False(t, result.PerfectClear)
}

func prepareTetrisWell(g *Game) {
	for y := boardHeight - 4; y < boardHeight; y++ {
		fillRow(g.Board, y, 9)
	}
	// A survivor cell above the well keeps the clear from being perfect.
	g.Board[boardHeight-5][0] = 1
}

func TestBackToBackTetris(t *testing.T) {
	g := newTestGame()

	prepareTetrisWell(&g)
	g.Active = verticalI(9, 0)
	first := g.HardDrop()
	require.True(t, first.Locked)
	assert.Equal(t, 4, first.Cleared)
	assert.Equal(t, 810, first.ScoreDelta)
	assert.False(t, first.BackToBack)
	assert.Equal(t, 1, g.B2BChain)

	prepareTetrisWell(&g)
	g.Active = verticalI(9, 0)
	second := g.HardDrop()
	require.True(t, second.Locked)
	assert.Equal(t, 4, second.Cleared)
	assert.Equal(t, 1215, second.ScoreDelta)
	assert.True(t, second.BackToBack)
	assert.Equal(t, 2, g.B2BChain)
	assert.Equal(t, 2, g.Combo)
}

func TestPerfectClearWithBackToBackTetris(t *testing.T) {
	g := newTestGame()
	for y := boardHeight - 4; y < boardHeight; y++ {
		fillRow(g.Board, y, 9)
	}
	g.backToBack = true
	g.Active = verticalI(9, 0)
	result := g.HardDrop()
	require.True(t, result.Locked)
	assert.True(t, result.PerfectClear)
	assert.True(t, result.BackToBack)
	assert.Equal(t, 1215+2000+1200, result.ScoreDelta)
	assert.True(t, g.Board.isPerfectClear())
}

func TestTSpinMiniLock(t *testing.T) {
	g := newTestGame()
	piece := newPiece(KindT)
	piece.X = 0
	piece.Y = boardHeight - 2
	g.Active = piece
	fillRow(g.Board, boardHeight-1, 0, 1, 2)
	g.Board[boardHeight-2][0] = 1
	g.lastAction = actionRotate
	g.lastRotationKicked = true

	result := g.Step()
	require.True(t, result.Locked)
	assert.Equal(t, TSpinMini, result.TSpin)
	assert.Equal(t, 1, result.Cleared)
	assert.Equal(t, 210, result.ScoreDelta)
}

func TestTSpinRequiresRotationLast(t *testing.T) {
	g := newTestGame()
	piece := newPiece(KindT)
	piece.X = 0
	piece.Y = boardHeight - 2
	g.Active = piece
	fillRow(g.Board, boardHeight-1, 0, 1, 2)
	g.Board[boardHeight-2][0] = 1
	g.lastAction = actionMove

	result := g.Step()
	require.True(t, result.Locked)
	assert.Equal(t, TSpinNone, result.TSpin)
	assert.Equal(t, 110, result.ScoreDelta)
}

func TestTSpinFullWhenUnkicked(t *testing.T) {
	g := newTestGame()
	piece := newPiece(KindT)
	piece.X = 0
	piece.Y = boardHeight - 2
	g.Active = piece
	g.Board[boardHeight-2][0] = 1
	g.lastAction = actionRotate
	g.lastRotationKicked = false

	result := g.Step()
	require.True(t, result.Locked)
	assert.Equal(t, TSpinFull, result.TSpin)
	assert.Equal(t, 0, result.Cleared)
	assert.Equal(t, 400, result.ScoreDelta)
}

func TestTCenterFollowsOrientation(t *testing.T) {
	tests := []struct {
		name      string
		rotations int
		x         int
		y         int
	}{
		{"stem up", 0, 1, 1},
		{"stem right", 1, 0, 1},
		{"stem down", 2, 1, 0},
		{"stem left", 3, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matrix := copyMatrix(pieceShapes[KindT])
			for i := 0; i < tt.rotations; i++ {
				matrix = rotateCW(matrix)
			}
			x, y := tCenter(matrix)
			assert.Equal(t, tt.x, x)
			assert.Equal(t, tt.y, y)
		})
	}
}

func TestTSpinFullStemDownAtFloor(t *testing.T) {
	g := newTestGame()
	piece := newPiece(KindT)
	piece.Matrix = rotateCW(rotateCW(piece.Matrix))
	piece.X = 3
	piece.Y = boardHeight - 2
	g.Active = piece
	fillRow(g.Board, boardHeight-1, 4)
	g.Board[boardHeight-3][3] = 1
	g.lastAction = actionRotate

	result := g.Step()
	require.True(t, result.Locked)
	assert.Equal(t, TSpinFull, result.TSpin)
	assert.Equal(t, 1, result.Cleared)
	// Single-row full T-spin scores only the level bonus.
	assert.Equal(t, 10, result.ScoreDelta)
	assert.True(t, g.backToBack, "a clearing T-spin arms the back-to-back flag")
}

func TestTSpinFullStemSideways(t *testing.T) {
	g := newTestGame()
	piece := newPiece(KindT)
	piece.Matrix = rotateCW(piece.Matrix)
	piece.X = 8
	piece.Y = boardHeight - 3
	g.Active = piece
	g.Board[boardHeight-3][7] = 1
	g.Board[boardHeight-1][7] = 1
	g.Board[boardHeight-1][9] = 1
	g.lastAction = actionRotate

	result := g.Step()
	require.True(t, result.Locked)
	assert.Equal(t, TSpinFull, result.TSpin)
	assert.Equal(t, 0, result.Cleared)
	assert.Equal(t, 400, result.ScoreDelta)
}

func TestRotateKicksOffTheWall(t *testing.T) {
	g := newTestGame()
	piece := newPiece(KindT)
	piece.Matrix = rotateCW(piece.Matrix)
	piece.X = boardWidth - 2
	piece.Y = 5
	g.Active = piece

	require.True(t, g.Rotate(1))
	assert.Equal(t, boardWidth-3, g.Active.X)
	assert.True(t, g.lastRotationKicked)
}

func TestRotateRejectedWhenNoOffsetFits(t *testing.T) {
	g := newTestGame()
	g.Active = verticalI(boardWidth-1, 5)
	before := g.Active
	assert.False(t, g.Rotate(1))
	assert.Equal(t, before, g.Active)
}

func TestHoldSwapsOncePerLock(t *testing.T) {
	g := newTestGame()
	first := g.Active.Kind
	next := g.NextKind()

	g.Hold()
	assert.True(t, g.HasHold)
	assert.Equal(t, first, g.HoldKind)
	assert.Equal(t, next, g.Active.Kind)

	// A second hold before locking is ignored.
	g.Hold()
	assert.Equal(t, first, g.HoldKind)
	assert.Equal(t, next, g.Active.Kind)

	g.HardDrop()
	stashed := g.Active.Kind
	g.Hold()
	assert.Equal(t, stashed, g.HoldKind)
	assert.Equal(t, first, g.Active.Kind, "hold swaps the stashed piece back in")
}

func TestGhostY(t *testing.T) {
	g := newTestGame()
	g.Active = verticalI(4, 0)
	assert.Equal(t, boardHeight-4, g.GhostY())
	g.Board[boardHeight-1][4] = 1
	assert.Equal(t, boardHeight-5, g.GhostY())
}

func TestLevelAdvancesWithLines(t *testing.T) {
	g := newTestGame()
	g.Lines = 9
	g.ChallengesEnabled = false
	g.Active = newPiece(KindO)
	fillRow(g.Board, boardHeight-1, 4, 5)
	fillRow(g.Board, boardHeight-2, 4, 5)
	result := g.HardDrop()
	require.True(t, result.Locked)
	require.Equal(t, 2, result.Cleared)
	assert.Equal(t, 11, g.Lines)
	assert.Equal(t, 2, g.Level)
}

func TestEpochAdvancesPerGame(t *testing.T) {
	a := newTestGame()
	b := newTestGame()
	assert.Greater(t, b.Epoch, a.Epoch)
}
