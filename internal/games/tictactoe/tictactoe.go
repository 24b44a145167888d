// Package tictactoe implements the 3x3 tic-tac-toe state machine.
package tictactoe

import (
	"strings"

	"github.com/vovakirdan/zeroplay/internal/game"
)

const (
	// Cells is the number of board cells and the size of the action space.
	Cells   = 9
	Players = 2

	fullBoard uint16 = 0b111111111
)

// Mark is the content of one cell.
type Mark uint8

const (
	Empty Mark = iota
	PlayerA
	PlayerB
)

// Rune returns the display character for a mark.
func (m Mark) Rune() rune {
	switch m {
	case PlayerA:
		return 'X'
	case PlayerB:
		return 'O'
	default:
		return '.'
	}
}

// markFor maps a player index to its mark.
func markFor(player int) Mark {
	return Mark(player + 1)
}

// Rows, columns and diagonals as cell bitmasks (bit i = cell i, row-major).
var winningLines = [8]uint16{
	0b000000111, 0b000111000, 0b111000000,
	0b001001001, 0b010010010, 0b100100100,
	0b100010001, 0b001010100,
}

// State is one tic-tac-toe game. The zero value is not ready; use New.
type State struct {
	cells [Cells]Mark
	moves uint8
}

var _ game.Grid = (*State)(nil)

// New returns an empty board with player 0 to move.
func New() *State {
	return &State{}
}

// Variant returns game.VariantTicTacToe.
func (s *State) Variant() game.Variant {
	return game.VariantTicTacToe
}

func (s *State) NumPlayers() int { return Players }
func (s *State) NumActions() int { return Cells }

// CurrentPlayer returns 0 after an even number of moves, 1 otherwise.
func (s *State) CurrentPlayer() int {
	return int(s.moves % Players)
}

// ValidActions marks every empty cell while the game is ongoing.
func (s *State) ValidActions() []bool {
	mask := make([]bool, Cells)
	if s.IsTerminal().Done() {
		return mask
	}
	for i, m := range s.cells {
		mask[i] = m == Empty
	}
	return mask
}

// ApplyAction places the current player's mark on cell action.
func (s *State) ApplyAction(action int) error {
	if action < 0 || action >= Cells {
		return s.illegal(action, game.ReasonOutOfRange)
	}
	if s.IsTerminal().Done() {
		return s.illegal(action, game.ReasonTerminal)
	}
	if s.cells[action] != Empty {
		return s.illegal(action, game.ReasonOccupied)
	}

	s.cells[action] = markFor(s.CurrentPlayer())
	s.moves++
	return nil
}

func (s *State) illegal(action int, reason game.Reason) error {
	return &game.IllegalActionError{Variant: game.VariantTicTacToe, Action: action, Reason: reason}
}

// IsTerminal checks the eight lines for each player in order, then the draw.
// A winner always takes precedence over a full board. Legal play can never
// produce two winners; should a malformed board contain both, player 0 is
// reported.
func (s *State) IsTerminal() game.TerminalResult {
	var boards [Players]uint16
	for i, m := range s.cells {
		if m != Empty {
			boards[m-1] |= 1 << i
		}
	}

	for p, bb := range boards {
		for _, line := range winningLines {
			if bb&line == line {
				return game.WinResult(Players, p)
			}
		}
	}

	if boards[0]|boards[1] == fullBoard {
		return game.DrawResult(Players)
	}
	return game.NewTerminalResult(Players)
}

// Clone returns an independent copy.
func (s *State) Clone() game.Game {
	c := *s
	return &c
}

// Cells returns a copy of the board.
func (s *State) Cells() [Cells]Mark {
	return s.cells
}

// Dims returns the board shape.
func (s *State) Dims() (rows, cols int) { return 3, 3 }

// Owner returns the player holding cell, or -1.
func (s *State) Owner(cell int) int {
	if cell < 0 || cell >= Cells {
		return -1
	}
	return int(s.cells[cell]) - 1
}

// Moves returns the number of marks placed.
func (s *State) Moves() int {
	return int(s.moves)
}

// String renders the board as three lines of X, O and '.'.
func (s *State) String() string {
	var sb strings.Builder
	for row := range 3 {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := range 3 {
			sb.WriteRune(s.cells[row*3+col].Rune())
		}
	}
	return sb.String()
}
