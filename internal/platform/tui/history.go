package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/storage"
)

// History layout constants
const (
	maxHistory      = 500 // Max games to load
	actionsColWidth = 28
)

// GameSource is the part of the store the history browser reads.
type GameSource interface {
	RecentGames(limit int) ([]storage.GameEntry, error)
	OutcomeStats(variant game.Variant) (storage.Stats, error)
}

// HistoryModel is the Bubble Tea model for browsing stored self-play games.
type HistoryModel struct {
	variants []game.Variant
	cursor   int
	source   GameSource
	all      []storage.GameEntry
	entries  []storage.GameEntry // games of the selected variant
	stats    storage.Stats
	err      error
	table    table.Model
	help     help.Model
	keys     HistoryKeyMap
	width    int
	height   int
	quitting bool
}

// NewHistoryModel loads the most recent games from source.
func NewHistoryModel(source GameSource, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		variants: game.Variants(),
		source:   source,
		keys:     DefaultHistoryKeyMap(),
		help:     h,
		width:    width,
		height:   height,
	}
	m.table = m.createTable()

	if source != nil {
		m.all, m.err = source.RecentGames(maxHistory)
	}
	m.selectVariant(0)
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Stream", Width: 8},
		{Title: "Outcome", Width: 9},
		{Title: "Moves", Width: 6},
		{Title: "Actions", Width: actionsColWidth},
	}

	height := m.height - 10 // Leave room for header, stats, and help
	if height < 5 {
		height = 5
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// selectVariant filters the loaded games and refreshes the outcome totals.
func (m *HistoryModel) selectVariant(i int) {
	m.cursor = i
	v := m.variants[i]

	m.entries = nil
	for _, e := range m.all {
		if e.Record.Variant == v {
			m.entries = append(m.entries, e)
		}
	}

	m.stats = storage.Stats{Variant: v}
	if m.source != nil && m.err == nil {
		if stats, err := m.source.OutcomeStats(v); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the selected games.
func (m *HistoryModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		outcome := e.Record.Result.Outcome()
		if p, ok := e.Record.Result.Winner(); ok {
			outcome = fmt.Sprintf("%c wins", MarkRune(p))
		}
		actions := storage.EncodeActions(e.Record.Actions)
		if len(actions) > actionsColWidth {
			actions = actions[:actionsColWidth-1] + "."
		}
		rows[i] = table.Row{
			strconv.FormatInt(e.ID, 10),
			strconv.FormatUint(e.Record.Stream, 10),
			outcome,
			strconv.Itoa(e.Record.Moves()),
			actions,
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

// Selected returns the highlighted game, if any.
func (m HistoryModel) Selected() (storage.GameEntry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return storage.GameEntry{}, false
	}
	return m.entries[i], true
}

// Variant returns the variant being shown.
func (m HistoryModel) Variant() game.Variant {
	return m.variants[m.cursor]
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history browser.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextVariant):
			m.selectVariant((m.cursor + 1) % len(m.variants))
			return m, nil

		case key.Matches(msg, m.keys.PrevVariant):
			m.selectVariant((m.cursor + len(m.variants) - 1) % len(m.variants))
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := fmt.Sprintf("SELF-PLAY HISTORY - %s", m.Variant())
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.variants))
	for i, v := range m.variants {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(v.String())
		} else {
			tabs[i] = tabStyle.Render(" " + v.String() + " ")
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	b.WriteString(statusStyle.Render(m.statsLine()))
	b.WriteString("\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes the stored outcomes of the selected variant.
func (m HistoryModel) statsLine() string {
	if m.err != nil {
		return errorStyle.Render(m.err.Error())
	}
	s := m.stats
	var b strings.Builder
	fmt.Fprintf(&b, "%d games", s.Games)
	for p := range len(playerMarks) {
		if n, ok := s.Wins[p]; ok {
			fmt.Fprintf(&b, "  %c %d", MarkRune(p), n)
		}
	}
	fmt.Fprintf(&b, "  draws %d  mean length %.2f", s.Draws, s.MeanLength())
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.entries) == 0 {
		placeholder := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return placeholder.Render("No games stored yet.\nRun `zeroplay selfplay --save` to record some.")
	}

	return m.table.View()
}

// RunHistory runs the history browser.
func RunHistory(source GameSource, width, height int) error {
	model := NewHistoryModel(source, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
