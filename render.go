package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Name        string
	BorderColor lipgloss.Color
	TextColor   lipgloss.Color
	AccentColor lipgloss.Color
	PieceColors []lipgloss.Color
}

const levelShiftThemeName = "Level Shift"

// PieceColors is indexed by PieceKind: I, J, L, O, S, T, Z.
var themes = []Theme{
	{
		Name:        "Classic",
		BorderColor: lipgloss.Color("15"),
		TextColor:   lipgloss.Color("250"),
		AccentColor: lipgloss.Color("226"),
		PieceColors: []lipgloss.Color{"51", "21", "208", "226", "46", "93", "196"},
	},
	{
		Name:        "Amber Terminal",
		BorderColor: lipgloss.Color("214"),
		TextColor:   lipgloss.Color("223"),
		AccentColor: lipgloss.Color("208"),
		PieceColors: []lipgloss.Color{"220", "214", "222", "208", "215", "216", "223"},
	},
	{
		Name:        "Ocean Neon",
		BorderColor: lipgloss.Color("33"),
		TextColor:   lipgloss.Color("159"),
		AccentColor: lipgloss.Color("39"),
		PieceColors: []lipgloss.Color{"45", "39", "51", "44", "50", "75", "81"},
	},
	{
		Name:        "Mono Matrix",
		BorderColor: lipgloss.Color("250"),
		TextColor:   lipgloss.Color("245"),
		AccentColor: lipgloss.Color("82"),
		PieceColors: []lipgloss.Color{"236", "239", "242", "245", "248", "251", "254"},
	},
	{
		Name:        "Volcanic",
		BorderColor: lipgloss.Color("203"),
		TextColor:   lipgloss.Color("223"),
		AccentColor: lipgloss.Color("214"),
		PieceColors: []lipgloss.Color{"52", "88", "124", "160", "196", "202", "208"},
	},
	{
		Name:        levelShiftThemeName,
		BorderColor: lipgloss.Color("15"),
		TextColor:   lipgloss.Color("250"),
		AccentColor: lipgloss.Color("226"),
		PieceColors: []lipgloss.Color{"51", "21", "208", "226", "46", "93", "196"},
	},
}

func themeIndexByName(name string) int {
	for i, theme := range themes {
		if theme.Name == name {
			return i
		}
	}
	return -1
}

func viewMenu(m Model) string {
	theme := currentTheme(m)
	content := renderMenu("TETRIS", menuItems, m.menuIndex, "Enter to select, Q to quit", theme)
	if m.profile.Best > 0 {
		best := helpStyle(theme).Render(fmt.Sprintf("Best: %d (%s)", m.profile.Best, m.profile.Name))
		content = lipgloss.JoinVertical(lipgloss.Center, content, "", best)
	}
	return center(m.width, m.height, content)
}

const scoresPageSize = 20

func viewScores(m Model) string {
	theme := currentTheme(m)
	var b strings.Builder
	b.WriteString(titleStyle(theme).Render("Scores"))
	b.WriteString("\n\n")
	if len(m.scores) == 0 {
		b.WriteString("No scores yet.\n")
	} else {
		start := m.scoresOffset
		end := start + scoresPageSize
		if end > len(m.scores) {
			end = len(m.scores)
		}
		for i, score := range m.scores[start:end] {
			line := fmt.Sprintf("%2d. %-12s %7d  L%2d  %s", start+i+1, score.Name, score.Score, score.Level, score.When)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	if m.syncWarning != "" {
		b.WriteString("\n")
		b.WriteString(warningStyle().Render(m.syncWarning))
		b.WriteString("\n")
	}
	if m.syncLoading {
		b.WriteString("\n")
		b.WriteString(helpStyle(theme).Render("Syncing" + strings.Repeat(".", m.syncDots%4)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle(theme).Render("Enter to back"))
	return center(m.width, m.height, b.String())
}

func viewConfig(m Model) string {
	theme := currentTheme(m)
	items := make([]string, 0, len(configItems))
	for i, item := range configItems {
		items = append(items, fmt.Sprintf("%s: %s", item, configValueLabel(m.config, i)))
	}
	content := renderMenu("Config", items, m.configIndex, "Enter to toggle, Left/Right to adjust, Esc to back", theme)
	return center(m.width, m.height, content)
}

func configValueLabel(config Config, index int) string {
	onOff := func(v bool) string {
		if v {
			return "ON"
		}
		return "OFF"
	}
	switch index {
	case 0:
		return onOff(config.Sound)
	case 1:
		return onOff(config.Music)
	case 2:
		return fmt.Sprintf("%d%%", clampVolumePercent(config.Volume))
	case 3:
		return config.Theme
	case 4:
		return onOff(config.Shadow)
	case 5:
		return onOff(config.Fog)
	case 6:
		return onOff(config.Challenges)
	case 7:
		return fmt.Sprintf("%dx", clampScale(config.Scale))
	case 8:
		return onOff(config.Sync)
	default:
		return ""
	}
}

func viewNameEntry(m Model) string {
	theme := currentTheme(m)
	var b strings.Builder
	b.WriteString(titleStyle(theme).Render("Game Over"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Score: %d  Lines: %d  Level: %d\n", m.game.Score, m.game.Lines, m.game.Level))
	if m.game.Score >= m.profile.Best && m.game.Score > 0 {
		b.WriteString(highlightStyle(theme).Render("New best!"))
		b.WriteString("\n")
	}
	b.WriteString("\nEnter your name: ")
	b.WriteString(highlightStyle(theme).Render(m.nameInput))
	b.WriteString("\n\n")
	b.WriteString(helpStyle(theme).Render("Enter to save, Esc to skip"))
	return center(m.width, m.height, b.String())
}

func viewGame(m Model) string {
	theme := gameTheme(m)
	scale := clampScale(m.config.Scale)
	minWidth, minHeight := minGameSize(scale)
	if m.width > 0 && m.height > 0 && (m.width < minWidth || m.height < minHeight) {
		message := fmt.Sprintf("Terminal too small. Need at least %dx%d.", minWidth, minHeight)
		return center(m.width, m.height, message)
	}
	board := renderBoard(m, theme, scale)
	info := renderInfo(m, theme, scale)
	content := lipgloss.JoinHorizontal(lipgloss.Top, board, info)
	if m.width > 0 && m.width < minWidth+26 {
		content = lipgloss.JoinVertical(lipgloss.Left, board, info)
	}
	return center(m.width, m.height, content)
}

func currentTheme(m Model) Theme {
	index := themeIndexByName(m.config.Theme)
	if index < 0 {
		index = 0
	}
	return themes[index]
}

// gameTheme resolves the Level Shift pseudo-theme, which cycles through
// the concrete palettes as the level climbs.
func gameTheme(m Model) Theme {
	selected := currentTheme(m)
	if selected.Name != levelShiftThemeName {
		return selected
	}
	concrete := make([]Theme, 0, len(themes))
	for _, theme := range themes {
		if theme.Name != levelShiftThemeName {
			concrete = append(concrete, theme)
		}
	}
	if len(concrete) == 0 {
		return selected
	}
	return concrete[(m.game.Level-1)%len(concrete)]
}

func renderBoard(m Model, theme Theme, scale int) string {
	g := m.game
	border := lipgloss.NewStyle().Foreground(theme.BorderColor)
	cellText := strings.Repeat(" ", cellWidth(scale))
	flashStyle := lipgloss.NewStyle().Background(lipgloss.Color("15"))
	fogStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	fogText := strings.Repeat("░", cellWidth(scale))

	grid := make([][]int, boardHeight)
	for y := range grid {
		grid[y] = make([]int, boardWidth)
		copy(grid[y], g.Board[y])
	}
	ghost := make(map[Point]bool)
	if m.config.Shadow && !g.Over {
		ghostY := g.GhostY()
		if ghostY != g.Active.Y {
			for y, row := range g.Active.Matrix {
				for x, cell := range row {
					if cell == 0 {
						continue
					}
					bx := g.Active.X + x
					by := ghostY + y
					if by >= 0 && by < boardHeight && bx >= 0 && bx < boardWidth && grid[by][bx] == 0 {
						ghost[Point{X: bx, Y: by}] = true
					}
				}
			}
		}
	}
	if !g.Over {
		for y, row := range g.Active.Matrix {
			for x, cell := range row {
				if cell == 0 {
					continue
				}
				bx := g.Active.X + x
				by := g.Active.Y + y
				if by >= 0 && by < boardHeight && bx >= 0 && bx < boardWidth {
					grid[by][bx] = -(int(g.Active.Kind) + 1)
				}
			}
		}
	}
	flashRows := make(map[int]bool)
	if !m.flashUntil.IsZero() && time.Now().Before(m.flashUntil) {
		for _, row := range m.flashRows {
			flashRows[row] = true
		}
	}

	var b strings.Builder
	b.WriteString(border.Render("+" + strings.Repeat("-", boardWidth*cellWidth(scale)) + "+"))
	b.WriteString("\n")
	for y := 0; y < boardHeight; y++ {
		for repeat := 0; repeat < scale; repeat++ {
			b.WriteString(border.Render("|"))
			for x := 0; x < boardWidth; x++ {
				val := grid[y][x]
				switch {
				case flashRows[y]:
					b.WriteString(flashStyle.Render(cellText))
				case val < 0:
					// Active piece, always in full color.
					color := theme.PieceColors[(-val-1)%len(theme.PieceColors)]
					b.WriteString(lipgloss.NewStyle().Background(color).Render(cellText))
				case val > 0 && m.config.Fog:
					b.WriteString(fogStyle.Render(fogText))
				case val > 0:
					color := theme.PieceColors[(val-1)%len(theme.PieceColors)]
					b.WriteString(lipgloss.NewStyle().Background(color).Render(cellText))
				case ghost[Point{X: x, Y: y}]:
					color := theme.PieceColors[int(g.Active.Kind)%len(theme.PieceColors)]
					ghostText := strings.Repeat(".", cellWidth(scale))
					b.WriteString(lipgloss.NewStyle().Foreground(color).Faint(true).Render(ghostText))
				default:
					b.WriteString(cellText)
				}
			}
			b.WriteString(border.Render("|"))
			b.WriteString("\n")
		}
	}
	b.WriteString(border.Render("+" + strings.Repeat("-", boardWidth*cellWidth(scale)) + "+"))
	return b.String()
}

// Point addresses a board cell in render maps.
type Point struct {
	X int
	Y int
}

func renderInfo(m Model, theme Theme, scale int) string {
	g := m.game
	var b strings.Builder
	pad := lipgloss.NewStyle().PaddingLeft(2)
	if m.startCount > 0 {
		label := "GO"
		if m.startCount > 1 {
			label = "READY"
		}
		b.WriteString(pad.Render(highlightStyle(theme).Render(label)))
		b.WriteString("\n\n")
	}
	if g.CountdownActive() {
		banner := fmt.Sprintf("%s in %d", g.Challenge.Pending, g.Challenge.Countdown)
		b.WriteString(pad.Render(warningStyle().Render(banner)))
		b.WriteString("\n\n")
	} else if g.Challenge.Type != ChallengeNone {
		banner := fmt.Sprintf("%s %ds", g.Challenge.Type, int(g.ChallengeRemaining().Seconds())+1)
		b.WriteString(pad.Render(warningStyle().Render(banner)))
		b.WriteString("\n\n")
	}
	b.WriteString(pad.Render(titleStyle(theme).Render("Next")))
	b.WriteString("\n")
	b.WriteString(pad.Render(renderMiniPiece(g.NextKind(), theme, scale)))
	b.WriteString("\n\n")
	b.WriteString(pad.Render(titleStyle(theme).Render("Hold")))
	b.WriteString("\n")
	if g.HasHold {
		b.WriteString(pad.Render(renderMiniPiece(g.HoldKind, theme, scale)))
	} else {
		b.WriteString(pad.Render("(empty)"))
	}
	b.WriteString("\n\n")
	b.WriteString(pad.Render(fmt.Sprintf("Score: %d", g.Score)))
	b.WriteString("\n")
	b.WriteString(pad.Render(fmt.Sprintf("Best:  %d", m.profile.Best)))
	b.WriteString("\n")
	b.WriteString(pad.Render(fmt.Sprintf("Lines: %d", g.Lines)))
	b.WriteString("\n")
	b.WriteString(pad.Render(fmt.Sprintf("Level: %d", g.Level)))
	b.WriteString("\n\n")
	if m.lastEvent != "" && time.Now().Before(m.lastEventTil) {
		b.WriteString(pad.Render(highlightStyle(theme).Render(m.lastEvent)))
		b.WriteString("\n")
		b.WriteString(pad.Render(highlightStyle(theme).Render(fmt.Sprintf("+%d", m.lastDelta))))
		b.WriteString("\n\n")
	}
	if g.Combo > 1 {
		b.WriteString(pad.Render(highlightStyle(theme).Render(fmt.Sprintf("Combo x%d", g.Combo))))
		b.WriteString("\n")
	}
	if g.B2BChain > 1 {
		b.WriteString(pad.Render(highlightStyle(theme).Render(fmt.Sprintf("B2B x%d", g.B2BChain))))
		b.WriteString("\n")
	}
	keys := []string{
		"Arrows/HJKL: move",
		"Z/X or Up: rotate",
		"Space: hard drop",
		"C: hold",
		"P: pause",
		"Q: menu",
	}
	for _, line := range keys {
		b.WriteString(pad.Render(helpStyle(theme).Render(line)))
		b.WriteString("\n")
	}
	if g.Paused {
		b.WriteString("\n")
		b.WriteString(pad.Render(highlightStyle(theme).Render("Paused")))
	}
	return b.String()
}

func renderMiniPiece(kind PieceKind, theme Theme, scale int) string {
	shape := pieceShapes[kind]
	cellText := strings.Repeat(" ", cellWidth(scale))
	color := theme.PieceColors[int(kind)%len(theme.PieceColors)]
	filled := lipgloss.NewStyle().Background(color)
	var b strings.Builder
	for _, row := range shape {
		for repeat := 0; repeat < scale; repeat++ {
			for _, cell := range row {
				if cell == 0 {
					b.WriteString(cellText)
				} else {
					b.WriteString(filled.Render(cellText))
				}
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func minGameSize(scale int) (int, int) {
	width := boardWidth*cellWidth(scale) + 4
	height := boardHeight*scale + 4
	return width, height
}

func titleStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.AccentColor).Bold(true)
}

func highlightStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.AccentColor).Bold(true)
}

func helpStyle(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.TextColor)
}

func warningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
}

func center(width, height int, content string) string {
	if width == 0 || height == 0 {
		return content
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func clampScale(value int) int {
	if value < 1 {
		return 1
	}
	if value > 3 {
		return 3
	}
	return value
}

func clampVolumePercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

func volumeFromPercent(value int) float64 {
	return float64(clampVolumePercent(value)) / 100
}

func cellWidth(scale int) int {
	if scale < 1 {
		scale = 1
	}
	return 2 * scale
}

func renderMenu(title string, items []string, selected int, footer string, theme Theme) string {
	maxWidth := lipgloss.Width(title)
	for _, item := range items {
		if width := lipgloss.Width(item); width > maxWidth {
			maxWidth = width
		}
	}
	if width := lipgloss.Width(footer); width > maxWidth {
		maxWidth = width
	}
	lineStyle := lipgloss.NewStyle().Width(maxWidth).Align(lipgloss.Center)
	var b strings.Builder
	b.WriteString(lineStyle.Render(titleStyle(theme).Render(title)))
	b.WriteString("\n\n")
	for i, item := range items {
		if i == selected {
			b.WriteString(lineStyle.Render(highlightStyle(theme).Render(item)))
		} else {
			b.WriteString(lineStyle.Render(item))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lineStyle.Render(helpStyle(theme).Render(footer)))
	return b.String()
}
