package tictactoe

import "github.com/vovakirdan/zeroplay/internal/game"

// Snapshot captures the complete state for determinism tests and replay checks.
type Snapshot struct {
	Cells    [Cells]Mark
	Moves    int
	Player   int
	Valid    []bool
	Terminal game.TerminalResult
}

// Snapshot returns the current state of the game.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Cells:    s.cells,
		Moves:    s.Moves(),
		Player:   s.CurrentPlayer(),
		Valid:    s.ValidActions(),
		Terminal: s.IsTerminal(),
	}
}
