package main

import (
	"math"
	"time"
)

// TSpinKind classifies the lock that produced a clear event.
type TSpinKind int

const (
	TSpinNone TSpinKind = iota
	TSpinMini
	TSpinFull
)

var (
	normalClearScore  = map[int]int{1: 100, 2: 300, 3: 500, 4: 800}
	tSpinMiniScore    = map[int]int{0: 100, 1: 200}
	tSpinFullScore    = map[int]int{0: 400, 2: 1200, 3: 1600}
	perfectClearBonus = map[int]int{1: 800, 2: 1200, 3: 1800, 4: 2000}
)

const backToBackTetrisPCBonus = 1200

// scoreClear converts one clear event into points. b2bCarried is whether
// the previous back-to-back-eligible event landed; the returned carry is
// the flag to store for the next event (unchanged when cleared == 0).
func scoreClear(cleared int, spin TSpinKind, b2bCarried, perfectClear bool, level int) (points int, b2bCarry bool) {
	switch spin {
	case TSpinMini:
		points = tSpinMiniScore[cleared]
	case TSpinFull:
		points = tSpinFullScore[cleared]
	default:
		points = normalClearScore[cleared]
	}
	if cleared > 0 {
		points += level * 10
	}
	eligible := cleared == 4 || (spin != TSpinNone && cleared > 0)
	if eligible && b2bCarried {
		points = int(math.Round(float64(points) * 1.5))
	}
	b2bCarry = b2bCarried
	if cleared > 0 {
		b2bCarry = eligible
	}
	if perfectClear && cleared > 0 {
		points += perfectClearBonus[cleared]
		if cleared == 4 && b2bCarried {
			points += backToBackTetrisPCBonus
		}
		b2bCarry = true
	}
	return points, b2bCarry
}

// levelForLines derives the level from cumulative cleared lines.
func levelForLines(lines int) int {
	return 1 + lines/10
}

// fallInterval is the gravity period for a level.
func fallInterval(level int) time.Duration {
	interval := 800*time.Millisecond - time.Duration(level-1)*60*time.Millisecond
	if interval < 120*time.Millisecond {
		return 120 * time.Millisecond
	}
	return interval
}
