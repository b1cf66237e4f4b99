package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameOverGoesToNameEntry(t *testing.T) {
	isolateStorage(t)
	m := Model{screen: screenGame, game: newTestGame(), profile: Profile{Name: "KAI"}}
	m.game.Over = true
	m.game.Score = 321

	model, _ := m.afterStep(LockResult{Locked: true}, nil)
	next, ok := model.(Model)
	require.True(t, ok)
	assert.Equal(t, screenNameEntry, next.screen)
	assert.Equal(t, 321, next.profile.Best)
	assert.Equal(t, "KAI", next.nameInput, "name entry is prefilled with the saved name")

	// The best score is persisted before the name is confirmed.
	profile, err := loadProfile()
	require.NoError(t, err)
	assert.Equal(t, 321, profile.Best)
}
