package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/zeroplay/internal/game"
)

// playerMarks are the display characters for players 0..3.
var playerMarks = []rune{'X', 'O', 'A', 'B'}

// playerStyles maps a player index to its mark style.
var playerStyles = map[int]lipgloss.Style{
	0: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	1: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	2: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
	3: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
}

var (
	emptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

var (
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeTabStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1)
)

var boardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

// MarkRune returns the display character of player, or '.' for no player.
func MarkRune(player int) rune {
	if player < 0 || player >= len(playerMarks) {
		return '.'
	}
	return playerMarks[player]
}

// RenderBoard draws g inside a rounded border. The cell at cursor is
// highlighted; pass -1 to hide the cursor.
func RenderBoard(g game.Grid, cursor int) string {
	rows, cols := g.Dims()

	var sb strings.Builder
	sb.Grow(rows * (cols*4 + 1))
	for r := range rows {
		if r > 0 {
			sb.WriteRune('\n')
		}
		for c := range cols {
			if c > 0 {
				sb.WriteRune(' ')
			}
			cell := r*cols + c
			owner := g.Owner(cell)

			style, ok := playerStyles[owner]
			if !ok {
				style = emptyStyle
			}
			if cell == cursor {
				style = style.Reverse(true)
			}
			sb.WriteString(style.Render(" " + string(MarkRune(owner)) + " "))
		}
	}
	return boardStyle.Render(sb.String())
}

// centerText pads text so that it is centered in width columns.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
