package main

import (
	"math/rand"
	"time"
)

type playerAction int

const (
	actionNone playerAction = iota
	actionMove
	actionSoftDrop
	actionHardDrop
	actionRotate
)

// LockResult describes what happened when a piece settled. Zero value
// means the piece is still falling.
type LockResult struct {
	Locked       bool
	Cleared      int
	ClearedRows  []int
	ScoreDelta   int
	TSpin        TSpinKind
	BackToBack   bool
	PerfectClear bool
	Combo        int
}

var gameEpoch int

// Game owns all mutable run state: the stack, the active piece, the
// upcoming queue, counters and the challenge scheduler. The Bubbletea
// model drives it with ticks and key intents and only reads it back for
// rendering.
type Game struct {
	Board             Board
	Active            Piece
	HoldKind          PieceKind
	HasHold           bool
	Score             int
	Lines             int
	Level             int
	Combo             int
	B2BChain          int
	Over              bool
	Paused            bool
	Challenge         challengeState
	ChallengesEnabled bool
	// Epoch tags tick messages so timers scheduled against an abandoned
	// run are ignored.
	Epoch int

	queue              []PieceKind
	canHold            bool
	backToBack         bool
	lastAction         playerAction
	lastRotationKicked bool
	rng                *rand.Rand
	now                func() time.Time
}

func NewGame() Game {
	return newGameWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newGameWithRand(rng *rand.Rand) Game {
	gameEpoch++
	game := Game{
		Board:             newBoard(),
		Level:             1,
		Challenge:         newChallengeState(),
		ChallengesEnabled: true,
		Epoch:             gameEpoch,
		canHold:           true,
		rng:               rng,
		now:               time.Now,
	}
	game.spawn()
	return game
}

// NextKind previews the head of the upcoming queue.
func (g *Game) NextKind() PieceKind {
	return g.queue[0]
}

func (g *Game) suspended() bool {
	return g.Over || g.Paused || g.CountdownActive()
}

// Move shifts the active piece horizontally if the target cells are free.
// An active reverse challenge negates the intent before collision testing.
func (g *Game) Move(dx int) bool {
	if g.suspended() {
		return false
	}
	if g.Challenge.Type == ChallengeReverse {
		dx = -dx
	}
	if g.Board.collides(g.Active, dx, 0) {
		return false
	}
	g.Active.X += dx
	g.lastAction = actionMove
	return true
}

// SoftDrop descends one row for a point, or locks the piece when it
// cannot descend.
func (g *Game) SoftDrop() LockResult {
	if g.suspended() {
		return LockResult{}
	}
	g.lastAction = actionSoftDrop
	if !g.Board.collides(g.Active, 0, 1) {
		g.Active.Y++
		g.Score++
		return LockResult{}
	}
	return g.lock()
}

// HardDrop descends until collision, two points per cell, then locks.
func (g *Game) HardDrop() LockResult {
	if g.suspended() {
		return LockResult{}
	}
	g.lastAction = actionHardDrop
	distance := 0
	for !g.Board.collides(g.Active, 0, 1) {
		g.Active.Y++
		distance++
	}
	g.Score += distance * 2
	return g.lock()
}

// Rotate turns the active piece, searching the fixed kick offsets for a
// position the rotated shape fits. dir > 0 rotates clockwise. A rotation
// with no valid offset is a silent no-op.
func (g *Game) Rotate(dir int) bool {
	if g.suspended() {
		return false
	}
	rotated := rotateCW(g.Active.Matrix)
	if dir < 0 {
		rotated = rotateCCW(g.Active.Matrix)
	}
	trial := g.Active
	trial.Matrix = rotated
	for _, dx := range []int{0, -1, 1, -2, 2} {
		if g.Board.collides(trial, dx, 0) {
			continue
		}
		g.Active.Matrix = rotated
		g.Active.X += dx
		g.lastRotationKicked = dx != 0
		g.lastAction = actionRotate
		return true
	}
	return false
}

// Hold stashes the active piece, swapping with a previously held one.
// Allowed once per lock.
func (g *Game) Hold() {
	if g.suspended() || !g.canHold {
		return
	}
	kind := g.Active.Kind
	if g.HasHold {
		g.install(newPiece(g.HoldKind))
	} else {
		g.HasHold = true
		g.spawn()
	}
	g.HoldKind = kind
	g.canHold = false
	g.lastAction = actionNone
}

// Step applies one gravity tick: descend a row or lock. A speed challenge
// doubles the descent. Challenge expiry is polled here so no independent
// timer mutates the run.
func (g *Game) Step() LockResult {
	if g.suspended() {
		return LockResult{}
	}
	g.expireChallenge()
	steps := 1
	if g.Challenge.Type == ChallengeSpeed {
		steps = 2
	}
	for i := 0; i < steps; i++ {
		if g.Board.collides(g.Active, 0, 1) {
			return g.lock()
		}
		g.Active.Y++
	}
	return LockResult{}
}

// GhostY is the row the active piece would rest on, for shadow rendering.
func (g *Game) GhostY() int {
	dy := 0
	for !g.Board.collides(g.Active, 0, dy+1) {
		dy++
	}
	return g.Active.Y + dy
}

// lock merges the active piece, scores the clear event and spawns the
// next piece. T-spin classification runs before the merge mutates the
// corner cells it inspects.
func (g *Game) lock() LockResult {
	spin := g.classifyTSpin()
	g.Board.merge(g.Active)
	rows := g.Board.fullRows()
	cleared := g.Board.clearLines()
	perfect := cleared > 0 && g.Board.isPerfectClear()
	carried := g.backToBack
	points, carry := scoreClear(cleared, spin, carried, perfect, g.Level)
	g.backToBack = carry
	eligible := cleared == 4 || (spin != TSpinNone && cleared > 0)
	if cleared > 0 {
		switch {
		case eligible && carried:
			g.B2BChain++
		case eligible:
			g.B2BChain = 1
		default:
			g.B2BChain = 0
		}
		g.Combo++
	} else {
		g.Combo = 0
	}
	g.Score += points
	g.Lines += cleared
	prevLevel := g.Level
	g.Level = levelForLines(g.Lines)
	g.maybeTriggerChallenge(prevLevel)
	g.lastAction = actionNone
	g.lastRotationKicked = false
	g.canHold = true
	g.spawn()
	return LockResult{
		Locked:       true,
		Cleared:      cleared,
		ClearedRows:  rows,
		ScoreDelta:   points,
		TSpin:        spin,
		BackToBack:   eligible && carried,
		PerfectClear: perfect,
		Combo:        g.Combo,
	}
}

// classifyTSpin inspects the diagonal corners around the T's center. Only
// a lock immediately following a rotation qualifies; a kicked rotation
// downgrades to mini.
func (g *Game) classifyTSpin() TSpinKind {
	if g.Active.Kind != KindT || g.lastAction != actionRotate {
		return TSpinNone
	}
	ox, oy := tCenter(g.Active.Matrix)
	cx := g.Active.X + ox
	cy := g.Active.Y + oy
	blocked := 0
	for _, corner := range [4][2]int{{cx - 1, cy - 1}, {cx + 1, cy - 1}, {cx - 1, cy + 1}, {cx + 1, cy + 1}} {
		x, y := corner[0], corner[1]
		if x < 0 || x >= boardWidth || y < 0 || y >= boardHeight {
			blocked++
			continue
		}
		if g.Board[y][x] != 0 {
			blocked++
		}
	}
	if blocked < 3 {
		return TSpinNone
	}
	if g.lastRotationKicked {
		return TSpinMini
	}
	return TSpinFull
}

// tCenter locates the junction cell of the trimmed T matrix, the one cell
// with three filled orthogonal neighbors. The trimmed matrices shift the
// bar between orientations, so the center cannot be a fixed offset.
func tCenter(matrix [][]int) (int, int) {
	for y, row := range matrix {
		for x, cell := range row {
			if cell == 0 {
				continue
			}
			neighbors := 0
			if y > 0 && matrix[y-1][x] != 0 {
				neighbors++
			}
			if y < len(matrix)-1 && matrix[y+1][x] != 0 {
				neighbors++
			}
			if x > 0 && row[x-1] != 0 {
				neighbors++
			}
			if x < len(row)-1 && row[x+1] != 0 {
				neighbors++
			}
			if neighbors == 3 {
				return x, y
			}
		}
	}
	return 1, 1
}

// spawn dequeues the next kind, topping the queue up with a fresh bag
// when it runs low. A spawn that collides immediately ends the run
// without installing the piece.
func (g *Game) spawn() {
	if len(g.queue) <= 2 {
		g.queue = append(g.queue, newBag(g.rng)...)
	}
	kind := g.queue[0]
	g.queue = g.queue[1:]
	g.install(newPiece(kind))
}

func (g *Game) install(piece Piece) {
	if g.Board.collides(piece, 0, 0) {
		g.Over = true
		return
	}
	g.Active = piece
}
