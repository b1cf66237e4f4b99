package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScoreClearNormalTable(t *testing.T) {
	tests := []struct {
		cleared int
		want    int
	}{
		{1, 110},
		{2, 310},
		{3, 510},
		{4, 810},
	}
	for _, tt := range tests {
		points, _ := scoreClear(tt.cleared, TSpinNone, false, false, 1)
		assert.Equal(t, tt.want, points, "cleared=%d", tt.cleared)
	}
}

func TestScoreClearLevelBonus(t *testing.T) {
	points, _ := scoreClear(1, TSpinNone, false, false, 5)
	assert.Equal(t, 150, points)
	// No clear, no level bonus.
	points, _ = scoreClear(0, TSpinFull, false, false, 5)
	assert.Equal(t, 400, points)
}

func TestScoreClearTSpinTables(t *testing.T) {
	points, _ := scoreClear(0, TSpinMini, false, false, 1)
	assert.Equal(t, 100, points)
	points, _ = scoreClear(1, TSpinMini, false, false, 1)
	assert.Equal(t, 210, points)
	points, _ = scoreClear(0, TSpinFull, false, false, 1)
	assert.Equal(t, 400, points)
	points, _ = scoreClear(2, TSpinFull, false, false, 1)
	assert.Equal(t, 1210, points)
	points, _ = scoreClear(3, TSpinFull, false, false, 1)
	assert.Equal(t, 1610, points)
	// Single-row full T-spin has no base entry, only the level bonus.
	points, _ = scoreClear(1, TSpinFull, false, false, 1)
	assert.Equal(t, 10, points)
}

func TestScoreClearBackToBack(t *testing.T) {
	// First Tetris arms the flag without the multiplier.
	points, carry := scoreClear(4, TSpinNone, false, false, 1)
	assert.Equal(t, 810, points)
	assert.True(t, carry)
	// Second Tetris lands boosted.
	points, carry = scoreClear(4, TSpinNone, carry, false, 1)
	assert.Equal(t, 1215, points)
	assert.True(t, carry)
	// A plain single breaks the chain and gets no multiplier.
	points, carry = scoreClear(1, TSpinNone, carry, false, 1)
	assert.Equal(t, 110, points)
	assert.False(t, carry)
}

func TestScoreClearTSpinIsBackToBackEligible(t *testing.T) {
	_, carry := scoreClear(2, TSpinFull, false, false, 1)
	assert.True(t, carry)
	points, carry := scoreClear(4, TSpinNone, carry, false, 1)
	assert.Equal(t, 1215, points)
	assert.True(t, carry)
}

func TestScoreClearZeroRowsKeepsCarry(t *testing.T) {
	_, carry := scoreClear(0, TSpinNone, true, false, 1)
	assert.True(t, carry)
	_, carry = scoreClear(0, TSpinFull, false, false, 1)
	assert.False(t, carry, "a no-clear T-spin must not arm the flag")
}

func TestScoreClearPerfectClear(t *testing.T) {
	points, carry := scoreClear(1, TSpinNone, false, true, 1)
	assert.Equal(t, 110+800, points)
	assert.True(t, carry, "a perfect clear forces the flag on")
	points, _ = scoreClear(4, TSpinNone, false, true, 1)
	assert.Equal(t, 810+2000, points)
}

func TestScoreClearBackToBackTetrisPerfectClear(t *testing.T) {
	points, carry := scoreClear(4, TSpinNone, true, true, 1)
	assert.Equal(t, 1215+2000+1200, points)
	assert.True(t, carry)
}

func TestLevelForLines(t *testing.T) {
	assert.Equal(t, 1, levelForLines(0))
	assert.Equal(t, 1, levelForLines(9))
	assert.Equal(t, 2, levelForLines(10))
	assert.Equal(t, 5, levelForLines(40))
}

func TestFallInterval(t *testing.T) {
	assert.Equal(t, 800*time.Millisecond, fallInterval(1))
	assert.Equal(t, 740*time.Millisecond, fallInterval(2))
	assert.Equal(t, 200*time.Millisecond, fallInterval(11))
	assert.Equal(t, 120*time.Millisecond, fallInterval(13), "gravity bottoms out")
	assert.Equal(t, 120*time.Millisecond, fallInterval(50))
}
