// Package mnk implements generalized k-in-a-row games on an m x n board for
// two to four players. Tic-tac-toe is the 3,3,3 two-player case; this package
// exists for larger boards and more players under the same game contract.
package mnk

import (
	"strings"

	"github.com/vovakirdan/zeroplay/internal/game"
)

// empty marks a free cell; players occupy cells with 1..Players.
const empty uint8 = 0

var marks = [MaxPlayers + 1]rune{'.', 'X', 'O', 'A', 'B'}

// directions to scan for lines: right, down, down-right, down-left.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// State is one m,n,k game.
type State struct {
	opts  Options
	cells []uint8
	moves int
}

var _ game.Grid = (*State)(nil)

// New returns an empty board, or a *game.ConstructionError for invalid options.
func New(opts Options) (*State, error) {
	if err := opts.Validate(); err != nil {
		return nil, &game.ConstructionError{Variant: game.VariantMNK, Err: err}
	}
	return &State{
		opts:  opts,
		cells: make([]uint8, opts.Cells()),
	}, nil
}

func (s *State) Variant() game.Variant { return game.VariantMNK }
func (s *State) NumPlayers() int { return s.opts.Players }
func (s *State) NumActions() int { return len(s.cells) }

// Options returns the board configuration.
func (s *State) Options() Options {
	return s.opts
}

// CurrentPlayer rotates through players by move count.
func (s *State) CurrentPlayer() int {
	return s.moves % s.opts.Players
}

// ValidActions marks every empty cell while the game is ongoing.
func (s *State) ValidActions() []bool {
	mask := make([]bool, len(s.cells))
	if s.IsTerminal().Done() {
		return mask
	}
	for i, c := range s.cells {
		mask[i] = c == empty
	}
	return mask
}

// ApplyAction places the current player's mark on cell action.
func (s *State) ApplyAction(action int) error {
	if action < 0 || action >= len(s.cells) {
		return s.illegal(action, game.ReasonOutOfRange)
	}
	if s.IsTerminal().Done() {
		return s.illegal(action, game.ReasonTerminal)
	}
	if s.cells[action] != empty {
		return s.illegal(action, game.ReasonOccupied)
	}

	s.cells[action] = uint8(s.CurrentPlayer() + 1)
	s.moves++
	return nil
}

func (s *State) illegal(action int, reason game.Reason) error {
	return &game.IllegalActionError{Variant: game.VariantMNK, Action: action, Reason: reason}
}

// IsTerminal reports the lowest-numbered player owning a line of K, then a
// draw when the board is full.
func (s *State) IsTerminal() game.TerminalResult {
	players := s.opts.Players
	for p := 1; p <= players; p++ {
		if s.hasLine(uint8(p)) {
			return game.WinResult(players, p-1)
		}
	}
	if s.moves >= len(s.cells) {
		return game.DrawResult(players)
	}
	return game.NewTerminalResult(players)
}

func (s *State) hasLine(mark uint8) bool {
	rows, cols, k := s.opts.Rows, s.opts.Cols, s.opts.K
	for r := range rows {
		for c := range cols {
			if s.cells[r*cols+c] != mark {
				continue
			}
			for _, d := range directions {
				// Only start counting at the first cell of a run.
				pr, pc := r-d[0], c-d[1]
				if pr >= 0 && pr < rows && pc >= 0 && pc < cols && s.cells[pr*cols+pc] == mark {
					continue
				}
				n := 0
				for rr, cc := r, c; rr >= 0 && rr < rows && cc >= 0 && cc < cols && s.cells[rr*cols+cc] == mark; rr, cc = rr+d[0], cc+d[1] {
					n++
				}
				if n >= k {
					return true
				}
			}
		}
	}
	return false
}

// Clone returns an independent copy.
func (s *State) Clone() game.Game {
	c := *s
	c.cells = append([]uint8(nil), s.cells...)
	return &c
}

// Dims returns the board shape.
func (s *State) Dims() (rows, cols int) { return s.opts.Rows, s.opts.Cols }

// Owner returns the player holding cell, or -1.
func (s *State) Owner(cell int) int {
	if cell < 0 || cell >= len(s.cells) {
		return -1
	}
	return int(s.cells[cell]) - 1
}

// Moves returns the number of marks placed.
func (s *State) Moves() int {
	return s.moves
}

// String renders the board one row per line.
func (s *State) String() string {
	var sb strings.Builder
	for r := range s.opts.Rows {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := range s.opts.Cols {
			sb.WriteRune(marks[s.cells[r*s.opts.Cols+c]])
		}
	}
	return sb.String()
}
