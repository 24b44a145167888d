package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/session"
)

// DefaultOpponentDelay is how long the random policy appears to think.
const DefaultOpponentDelay = 400 * time.Millisecond

// BoardConfig configures an interactive game.
type BoardConfig struct {
	NewGame func() game.Game
	Seed    uint64
	Stream  uint64        // stream of the first game; each restart uses the next
	Human   int           // player index driven by the keyboard
	Delay   time.Duration // pause before each random move
}

// BoardModel is the Bubble Tea model for one human against the random policy.
type BoardModel struct {
	cfg      BoardConfig
	session  *session.Session
	grid     game.Grid
	stream   uint64
	cursor   int
	keys     BoardKeyMap
	help     help.Model
	width    int
	status   string
	err      error
	waiting  bool // a random move is scheduled
	quitting bool
}

// NewBoardModel starts the first game. The game must be a grid game.
func NewBoardModel(cfg BoardConfig) (BoardModel, error) {
	m := BoardModel{
		cfg:    cfg,
		stream: cfg.Stream,
		keys:   DefaultBoardKeyMap(),
		help:   help.New(),
	}
	if err := m.newGame(); err != nil {
		return BoardModel{}, err
	}
	if m.grid.NumPlayers() <= cfg.Human || cfg.Human < 0 {
		return BoardModel{}, fmt.Errorf("tui: human player %d out of range", cfg.Human)
	}
	return m, nil
}

// newGame replaces the session with a fresh game on the current stream.
func (m *BoardModel) newGame() error {
	g := m.cfg.NewGame()
	grid, ok := g.(game.Grid)
	if !ok {
		return fmt.Errorf("tui: %s is not a board game", g.Variant())
	}
	m.grid = grid
	m.session = session.New(g, session.WithSeed(m.cfg.Seed, m.stream))
	m.cursor = firstValid(g.ValidActions())
	m.err = nil
	m.waiting = false
	return nil
}

// Init schedules the opening random moves when the human does not start.
func (m BoardModel) Init() tea.Cmd {
	if m.grid.CurrentPlayer() != m.cfg.Human {
		return opponentCmd(m.cfg.Delay)
	}
	return nil
}

// Update handles messages and updates the model state.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case OpponentMsg:
		return m.handleOpponent()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m BoardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows, cols := m.grid.Dims()
	r, c := m.cursor/cols, m.cursor%cols

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		m.cursor = max(r-1, 0)*cols + c
	case key.Matches(msg, m.keys.Down):
		m.cursor = min(r+1, rows-1)*cols + c
	case key.Matches(msg, m.keys.Left):
		m.cursor = r*cols + max(c-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.cursor = r*cols + min(c+1, cols-1)

	case key.Matches(msg, m.keys.Place):
		return m.place()

	case key.Matches(msg, m.keys.Restart):
		if !m.Over() {
			return m, nil
		}
		m.stream++
		if err := m.newGame(); err != nil {
			m.err = err
			return m, nil
		}
		return m, m.Init()
	}

	return m, nil
}

// place puts the human's mark under the cursor.
func (m BoardModel) place() (tea.Model, tea.Cmd) {
	if m.waiting || m.Over() || m.grid.CurrentPlayer() != m.cfg.Human {
		return m, nil
	}
	if err := m.session.Apply(m.cursor); err != nil {
		if errors.Is(err, game.ErrIllegalAction) {
			m.err = errors.New("that cell is taken")
		} else {
			m.err = err
		}
		return m, nil
	}
	m.err = nil
	return m.afterMove()
}

// handleOpponent lets the random policy make one move.
func (m BoardModel) handleOpponent() (tea.Model, tea.Cmd) {
	if m.Over() || m.grid.CurrentPlayer() == m.cfg.Human {
		m.waiting = false
		return m, nil
	}
	if _, err := m.session.Step(); err != nil {
		m.err = err
		m.waiting = false
		return m, nil
	}
	return m.afterMove()
}

// afterMove schedules the next random move unless the game ended or it is the
// human's turn.
func (m BoardModel) afterMove() (tea.Model, tea.Cmd) {
	if m.Over() || m.grid.CurrentPlayer() == m.cfg.Human {
		m.waiting = false
		return m, nil
	}
	m.waiting = true
	return m, opponentCmd(m.cfg.Delay)
}

// Over reports whether the current game has ended.
func (m BoardModel) Over() bool {
	return m.grid.IsTerminal().Done()
}

// Result returns the terminal flags of the current game.
func (m BoardModel) Result() game.TerminalResult {
	return m.grid.IsTerminal()
}

// Record returns the replayable trace of the current game.
func (m BoardModel) Record() session.Record {
	return m.session.Record()
}

// Cursor returns the highlighted cell.
func (m BoardModel) Cursor() int {
	return m.cursor
}

// Status describes whose turn it is or how the game ended.
func (m BoardModel) Status() string {
	result := m.grid.IsTerminal()
	switch {
	case result.Draw():
		return "Draw. Press r for a new game."
	case result.Done():
		p, _ := result.Winner()
		if p == m.cfg.Human {
			return "You win! Press r for a new game."
		}
		return fmt.Sprintf("Player %d (%c) wins. Press r for a new game.", p, MarkRune(p))
	case m.grid.CurrentPlayer() == m.cfg.Human:
		return fmt.Sprintf("Your move (%c)", MarkRune(m.cfg.Human))
	default:
		return fmt.Sprintf("Player %d (%c) is thinking...", m.grid.CurrentPlayer(), MarkRune(m.grid.CurrentPlayer()))
	}
}

// View renders the current state to a string for display.
func (m BoardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	title := fmt.Sprintf("%s  seed %d  stream %d", m.grid.Variant(), m.cfg.Seed, m.stream)
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	cursor := m.cursor
	if m.Over() {
		cursor = -1
	}
	b.WriteString(RenderBoard(m.grid, cursor))
	b.WriteString("\n\n")

	b.WriteString(statusStyle.Render(m.Status()))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// firstValid returns the first legal action, or 0 if there is none.
func firstValid(mask []bool) int {
	if a := game.NthValid(mask, 0); a >= 0 {
		return a
	}
	return 0
}

// RunBoard starts the interactive board and returns the record of the last
// game shown.
func RunBoard(cfg BoardConfig) (session.Record, error) {
	model, err := NewBoardModel(cfg)
	if err != nil {
		return session.Record{}, err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return session.Record{}, err
	}
	m, ok := finalModel.(BoardModel)
	if !ok {
		return session.Record{}, nil
	}
	return m.Record(), nil
}
