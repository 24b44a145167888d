// Package game defines the capability contract shared by every turn-based,
// perfect-information, fixed-action-count game in the engine.
// Games contain pure logic: they never consume randomness, never block and
// never perform I/O. Whoever drives a game owns it exclusively.
package game

// Game is the state machine of one game instance.
// Implementations mutate themselves in place through pointer receivers;
// only ApplyAction changes state, every other method is a pure query.
type Game interface {
	// Variant identifies which game this is.
	Variant() Variant

	// NumPlayers is constant for a variant instance.
	NumPlayers() int

	// NumActions is the fixed size of the action space.
	NumActions() int

	// CurrentPlayer returns the player to move, in [0, NumPlayers).
	CurrentPlayer() int

	// ValidActions returns a fresh mask of length NumActions, true for each
	// action that is legal right now. Terminal states report no legal actions.
	ValidActions() []bool

	// ApplyAction performs action for the current player and passes the turn.
	// It returns an *IllegalActionError if the action is out of range, not
	// currently valid, or the game is already over. On error the state is
	// left exactly as it was.
	ApplyAction(action int) error

	// IsTerminal reports the outcome flags of the current state.
	IsTerminal() TerminalResult

	// Clone returns an independent copy sharing no memory with the receiver.
	Clone() Game
}

// CountValid returns the number of true entries in an action mask.
func CountValid(mask []bool) int {
	n := 0
	for _, ok := range mask {
		if ok {
			n++
		}
	}
	return n
}

// NthValid returns the action index of the n-th (0-based) true entry in mask,
// or -1 if the mask has fewer than n+1 legal actions.
func NthValid(mask []bool, n int) int {
	if n < 0 {
		return -1
	}
	for action, ok := range mask {
		if !ok {
			continue
		}
		if n == 0 {
			return action
		}
		n--
	}
	return -1
}

// Grid is implemented by games played on a rectangular board where action i
// places a mark on cell i, row-major.
type Grid interface {
	Game
	Dims() (rows, cols int)
	// Owner returns the player holding cell, or -1 if it is empty.
	Owner(cell int) int
}
