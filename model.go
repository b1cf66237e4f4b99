package main

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type Screen int

const (
	screenMenu Screen = iota
	screenGame
	screenScores
	screenConfig
	screenNameEntry
)

// Gravity, start-countdown and challenge-countdown ticks all carry the
// epoch of the run they were scheduled for; a tick for a finished or
// restarted run is dropped on arrival.
type tickMsg struct{ epoch int }
type startTickMsg struct{ epoch int }
type challengeTickMsg struct{ epoch int }

type soundMsg struct{}
type syncTickMsg struct{}

type scoresLoadedMsg struct {
	scores []ScoreEntry
	err    error
}

type scoreUploadedMsg struct {
	err error
}

const (
	lineClearFlashDuration = 140 * time.Millisecond
	bigClearFlashDuration  = 180 * time.Millisecond
	eventLabelDuration     = 1200 * time.Millisecond
)

type Model struct {
	screen       Screen
	width        int
	height       int
	menuIndex    int
	configIndex  int
	scoresOffset int
	config       Config
	profile      Profile
	scores       []ScoreEntry
	game         Game
	nameInput    string
	sound        *SoundEngine
	music        *MusicPlayer
	syncer       *ScoreSync
	syncWarning  string
	syncLoading  bool
	syncDots     int
	flashRows    []int
	flashUntil   time.Time
	lastDelta    int
	lastEvent    string
	lastEventTil time.Time
	startCount   int
}

func NewModel() Model {
	config, _ := loadConfig()
	if themeIndexByName(config.Theme) < 0 {
		config.Theme = themes[0].Name
	}
	profile, _ := loadProfile()
	syncer := NewScoreSyncFromEnv(config.Sync)
	scores := []ScoreEntry{}
	if !syncer.Enabled() {
		scores, _ = loadScores()
	}
	ctx, sampleRate, err := initAudioContext()
	if err != nil {
		DebugLogf("audio context init error: %v", err)
	}
	sound := NewSoundEngine(ctx, sampleRate, config.Sound)
	sound.SetVolume(volumeFromPercent(config.Volume))
	music := NewMusicPlayer(ctx, volumeFromPercent(config.Volume))
	return Model{
		screen:  screenMenu,
		config:  config,
		profile: profile,
		scores:  scores,
		game:    NewGame(),
		sound:   sound,
		music:   music,
		syncer:  syncer,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m.updateGravity(msg)
	case startTickMsg:
		return m.updateStartCountdown(msg)
	case challengeTickMsg:
		return m.updateChallengeCountdown(msg)
	case soundMsg:
		return m, nil
	case syncTickMsg:
		if m.syncLoading {
			m.syncDots = (m.syncDots + 1) % 4
			return m, syncTickCmd()
		}
		return m, nil
	case scoresLoadedMsg:
		if msg.err != nil {
			DebugLogf("scores fetch error: %v", msg.err)
			m.syncWarning = "Offline: scores not synced."
			m.syncLoading = false
			return m, nil
		}
		m.syncWarning = ""
		m.scores = msg.scores
		m.syncLoading = false
		return m, nil
	case scoreUploadedMsg:
		if msg.err != nil {
			DebugLogf("score upload error: %v", msg.err)
			m.syncWarning = "Offline: scores not synced."
		} else {
			m.syncWarning = ""
		}
		m.syncLoading = false
		return m, nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		switch m.screen {
		case screenMenu:
			cmd = m.updateMenu(msg)
		case screenGame:
			return m.updateGame(msg)
		case screenScores:
			cmd = m.updateScores(msg)
		case screenConfig:
			cmd = m.updateConfig(msg)
		case screenNameEntry:
			cmd = m.updateNameEntry(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.screen {
	case screenMenu:
		return viewMenu(m)
	case screenGame:
		return viewGame(m)
	case screenScores:
		return viewScores(m)
	case screenConfig:
		return viewConfig(m)
	case screenNameEntry:
		return viewNameEntry(m)
	default:
		return ""
	}
}

func (m Model) updateGravity(msg tickMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenGame || msg.epoch != m.game.Epoch || m.game.Over {
		return m, nil
	}
	next := tickCmd(fallInterval(m.game.Level), m.game.Epoch)
	if m.startCount > 0 || m.game.Paused || m.game.CountdownActive() {
		// Gravity keeps ticking but banks nothing while suspended.
		return m, next
	}
	m.expireFlash()
	result := m.game.Step()
	return m.afterStep(result, next)
}

func (m Model) updateStartCountdown(msg startTickMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenGame || msg.epoch != m.game.Epoch || m.game.Over {
		return m, nil
	}
	if m.startCount <= 0 {
		return m, nil
	}
	m.startCount--
	if m.startCount > 0 {
		return m, startTickCmd(m.game.Epoch)
	}
	cmds := []tea.Cmd{tickCmd(fallInterval(m.game.Level), m.game.Epoch)}
	if m.config.Sound {
		cmds = append(cmds, playSound(m.sound, SoundMenuSelect))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateChallengeCountdown(msg challengeTickMsg) (tea.Model, tea.Cmd) {
	if m.screen != screenGame || msg.epoch != m.game.Epoch || m.game.Over {
		return m, nil
	}
	if !m.game.CountdownActive() {
		return m, nil
	}
	if m.game.CountdownTick() {
		cmds := []tea.Cmd{challengeTickCmd(m.game.Epoch)}
		if m.config.Sound {
			cmds = append(cmds, playSound(m.sound, SoundMenuMove))
		}
		return m, tea.Batch(cmds...)
	}
	// Countdown hit zero: the challenge is live now.
	if m.config.Sound {
		return m, playSound(m.sound, SoundChallenge)
	}
	return m, nil
}

// afterStep folds a step/drop result into the model: animation state,
// cue sounds, challenge countdown start and the game-over transition.
func (m Model) afterStep(result LockResult, next tea.Cmd) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.game.Over {
		return m.finishRun()
	}
	if next != nil {
		cmds = append(cmds, next)
	}
	if result.Locked {
		m.applyScoreEvent(result)
		if m.game.CountdownActive() {
			cmds = append(cmds, challengeTickCmd(m.game.Epoch))
		}
		if m.config.Sound {
			cmds = append(cmds, playSound(m.sound, soundEventForResult(result)))
			if result.Combo > 1 {
				cmds = append(cmds, playComboSound(m.sound, result.Combo, m.game.B2BChain))
			}
		}
	}
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

// finishRun handles the terminal transition: persist a new best score
// immediately, then collect the player name for the score table.
func (m Model) finishRun() (tea.Model, tea.Cmd) {
	if profile, changed := updateBest(m.profile, m.game.Score); changed {
		m.profile = profile
		if err := saveProfile(m.profile); err != nil {
			DebugLogf("profile save error: %v", err)
		}
	}
	m.nameInput = m.profile.Name
	cmds := []tea.Cmd{m.setScreen(screenNameEntry)}
	if m.config.Sound {
		cmds = append(cmds, playSound(m.sound, SoundGameOver))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateGame(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.startCount > 0 {
		if key := msg.String(); key == "q" || key == "esc" {
			cmd := m.setScreen(screenMenu)
			return m, cmd
		}
		return m, nil
	}
	switch msg.String() {
	case "left", "h":
		if m.game.Move(-1) && m.config.Sound {
			return m, playSound(m.sound, SoundMove)
		}
	case "right", "l":
		if m.game.Move(1) && m.config.Sound {
			return m, playSound(m.sound, SoundMove)
		}
	case "down", "j":
		return m.afterStep(m.game.SoftDrop(), nil)
	case " ":
		result := m.game.HardDrop()
		if result.Locked && result.Cleared == 0 && result.TSpin == TSpinNone && m.config.Sound && !m.game.Over {
			model, cmd := m.afterStep(result, nil)
			return model, tea.Batch(cmd, playSound(m.sound, SoundDrop))
		}
		return m.afterStep(result, nil)
	case "up", "x":
		if m.game.Rotate(1) && m.config.Sound {
			return m, playSound(m.sound, SoundRotate)
		}
	case "z":
		if m.game.Rotate(-1) && m.config.Sound {
			return m, playSound(m.sound, SoundRotate)
		}
	case "c":
		m.game.Hold()
		if m.game.Over {
			return m.finishRun()
		}
	case "p":
		if !m.game.Over && !m.game.CountdownActive() {
			m.game.Paused = !m.game.Paused
		}
	case "q", "esc":
		cmd := m.setScreen(screenMenu)
		return m, cmd
	}
	return m, nil
}

func (m *Model) startRun() tea.Cmd {
	m.game = NewGame()
	m.game.ChallengesEnabled = m.config.Challenges
	m.flashRows = nil
	m.flashUntil = time.Time{}
	m.lastEvent = ""
	m.lastDelta = 0
	m.startCount = 2
	return tea.Batch(m.setScreen(screenGame), startTickCmd(m.game.Epoch))
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
			if m.config.Sound {
				cmd = playSound(m.sound, SoundMenuMove)
			}
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
			if m.config.Sound {
				cmd = playSound(m.sound, SoundMenuMove)
			}
		}
	case "enter":
		if m.config.Sound {
			cmd = playSound(m.sound, SoundMenuSelect)
		}
		switch m.menuIndex {
		case 0:
			return tea.Batch(cmd, m.startRun())
		case 1:
			m.scoresOffset = 0
			if m.syncer.Enabled() {
				m.syncLoading = true
				m.syncDots = 0
				return tea.Batch(cmd, m.setScreen(screenScores), m.syncer.FetchScoresCmd(), syncTickCmd())
			}
			return tea.Batch(cmd, m.setScreen(screenScores))
		case 2:
			return tea.Batch(cmd, m.setScreen(screenConfig))
		case 3:
			return tea.Quit
		}
	case "q", "esc":
		return tea.Quit
	}
	return cmd
}

func (m *Model) updateScores(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "enter":
		return m.setScreen(screenMenu)
	case "up", "k":
		if m.scoresOffset > 0 {
			m.scoresOffset--
		}
	case "down", "j":
		max := len(m.scores) - scoresPageSize
		if max < 0 {
			max = 0
		}
		if m.scoresOffset < max {
			m.scoresOffset++
		}
	}
	return nil
}

func (m *Model) updateConfig(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.configIndex > 0 {
			m.configIndex--
		}
	case "down", "j":
		if m.configIndex < len(configItems)-1 {
			m.configIndex++
		}
	case "enter", "left", "right", "h", "l":
		delta := 1
		if key := msg.String(); key == "left" || key == "h" {
			delta = -1
		}
		return m.adjustConfigItem(m.configIndex, delta)
	case "q", "esc":
		return m.setScreen(screenMenu)
	}
	return nil
}

func (m *Model) adjustConfigItem(index, delta int) tea.Cmd {
	switch index {
	case 0:
		m.config.Sound = !m.config.Sound
		m.sound.SetEnabled(m.config.Sound)
	case 1:
		m.config.Music = !m.config.Music
		if !m.config.Music {
			m.music.Stop()
		}
	case 2:
		m.adjustVolume(delta * 5)
	case 3:
		m.cycleTheme(delta)
	case 4:
		m.config.Shadow = !m.config.Shadow
	case 5:
		m.config.Fog = !m.config.Fog
	case 6:
		m.config.Challenges = !m.config.Challenges
	case 7:
		m.config.Scale = clampScale(m.config.Scale + delta)
	case 8:
		m.config.Sync = !m.config.Sync
		m.syncer.SetEnabled(m.config.Sync)
	}
	if err := saveConfig(m.config); err != nil {
		DebugLogf("config save error: %v", err)
	}
	if m.config.Sound {
		return playSound(m.sound, SoundMenuSelect)
	}
	return nil
}

func (m *Model) cycleTheme(delta int) {
	index := themeIndexByName(m.config.Theme)
	if index < 0 {
		index = 0
	}
	index = (index + delta + len(themes)) % len(themes)
	m.config.Theme = themes[index].Name
}

func (m *Model) adjustVolume(delta int) {
	volume := clampVolumePercent(m.config.Volume + delta)
	if volume == m.config.Volume {
		return
	}
	m.config.Volume = volume
	m.sound.SetVolume(volumeFromPercent(volume))
	m.music.SetVolume(volumeFromPercent(volume))
}

func (m *Model) updateNameEntry(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameInput)
		if name == "" {
			name = defaultPlayerName
		}
		m.profile.Name = name
		if err := saveProfile(m.profile); err != nil {
			DebugLogf("profile save error: %v", err)
		}
		entry := ScoreEntry{
			Name:  name,
			Score: m.game.Score,
			Lines: m.game.Lines,
			Level: m.game.Level,
			When:  time.Now().Format("2006-01-02 15:04"),
		}
		m.scoresOffset = 0
		cmd := m.setScreen(screenScores)
		if m.syncer.Enabled() {
			m.syncLoading = true
			m.syncDots = 0
			return tea.Batch(cmd, m.syncer.UploadScoreCmd(entry), m.syncer.FetchScoresCmd(), syncTickCmd())
		}
		m.scores = insertScore(m.scores, entry)
		if err := saveScores(m.scores); err != nil {
			DebugLogf("scores save error: %v", err)
		}
		return cmd
	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.nameInput) > 0 {
			m.nameInput = m.nameInput[:len(m.nameInput)-1]
		}
	case tea.KeyRunes:
		if len(m.nameInput) < 12 {
			m.nameInput += string(msg.Runes)
		}
	case tea.KeyEsc:
		return m.setScreen(screenMenu)
	}
	return nil
}

func (m *Model) setScreen(screen Screen) tea.Cmd {
	m.screen = screen
	if m.music == nil {
		return nil
	}
	if m.config.Music && screen == screenGame {
		return m.music.StartCmd()
	}
	m.music.Stop()
	return nil
}

func (m *Model) applyScoreEvent(result LockResult) {
	if len(result.ClearedRows) > 0 {
		m.flashRows = append([]int{}, result.ClearedRows...)
		flash := lineClearFlashDuration
		if result.TSpin != TSpinNone || result.Cleared >= 4 {
			flash = bigClearFlashDuration
		}
		m.flashUntil = time.Now().Add(flash)
	}
	if result.ScoreDelta > 0 {
		m.lastDelta = result.ScoreDelta
		m.lastEvent = eventLabel(result)
		m.lastEventTil = time.Now().Add(eventLabelDuration)
	}
}

func eventLabel(result LockResult) string {
	switch {
	case result.PerfectClear:
		return "PERFECT CLEAR"
	case result.TSpin == TSpinMini:
		return "T-SPIN MINI"
	case result.TSpin == TSpinFull:
		return "T-SPIN"
	case result.Cleared >= 4:
		return "TETRIS"
	default:
		return "LINE CLEAR"
	}
}

func (m *Model) expireFlash() {
	now := time.Now()
	if !m.flashUntil.IsZero() && now.After(m.flashUntil) {
		m.flashRows = nil
		m.flashUntil = time.Time{}
	}
	if !m.lastEventTil.IsZero() && now.After(m.lastEventTil) {
		m.lastEvent = ""
		m.lastDelta = 0
		m.lastEventTil = time.Time{}
	}
}

func tickCmd(interval time.Duration, epoch int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg { return tickMsg{epoch: epoch} })
}

func startTickCmd(epoch int) tea.Cmd {
	return tea.Tick(600*time.Millisecond, func(time.Time) tea.Msg { return startTickMsg{epoch: epoch} })
}

func challengeTickCmd(epoch int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return challengeTickMsg{epoch: epoch} })
}

func syncTickCmd() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg { return syncTickMsg{} })
}

func playSound(engine *SoundEngine, event SoundEvent) tea.Cmd {
	return func() tea.Msg {
		if engine != nil {
			engine.Play(event)
		}
		return soundMsg{}
	}
}

func playComboSound(engine *SoundEngine, combo, chain int) tea.Cmd {
	return func() tea.Msg {
		if engine != nil {
			engine.PlayCombo(combo, chain)
		}
		return soundMsg{}
	}
}

func soundEventForResult(result LockResult) SoundEvent {
	if result.TSpin != TSpinNone {
		return SoundTSpin
	}
	switch result.Cleared {
	case 0:
		return SoundLock
	case 1:
		return SoundLine1
	case 2:
		return SoundLine2
	case 3:
		return SoundLine3
	default:
		return SoundLine4
	}
}

var menuItems = []string{
	"Start Game",
	"Scores",
	"Config",
	"Quit",
}

var configItems = []string{
	"Sound Effects",
	"Music",
	"Volume",
	"Theme",
	"Shadow",
	"Fog Mode",
	"Challenges",
	"Game Scale",
	"Score Sync",
}
