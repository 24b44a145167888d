package game

// TerminalResult holds one win flag per player followed by a draw flag,
// so its length is NumPlayers+1. All flags false means the game is ongoing.
// Well-formed results have at most one flag set.
type TerminalResult []bool

// NewTerminalResult returns an all-false (ongoing) result for players.
func NewTerminalResult(players int) TerminalResult {
	return make(TerminalResult, players+1)
}

// WinResult returns a result flagging player as the winner.
func WinResult(players, player int) TerminalResult {
	r := NewTerminalResult(players)
	r[player] = true
	return r
}

// DrawResult returns a result flagging a draw.
func DrawResult(players int) TerminalResult {
	r := NewTerminalResult(players)
	r[players] = true
	return r
}

// Players returns the number of player flags.
func (r TerminalResult) Players() int {
	return len(r) - 1
}

// Ongoing reports whether no flag is set.
func (r TerminalResult) Ongoing() bool {
	for _, f := range r {
		if f {
			return false
		}
	}
	return true
}

// Done reports whether the game has ended.
func (r TerminalResult) Done() bool {
	return !r.Ongoing()
}

// Draw reports whether the draw flag is set.
func (r TerminalResult) Draw() bool {
	return len(r) > 0 && r[len(r)-1]
}

// Winner returns the winning player, if any.
func (r TerminalResult) Winner() (int, bool) {
	for p := 0; p < r.Players(); p++ {
		if r[p] {
			return p, true
		}
	}
	return -1, false
}

// Valid reports whether at most one flag is set.
func (r TerminalResult) Valid() bool {
	n := 0
	for _, f := range r {
		if f {
			n++
		}
	}
	return n <= 1
}

// Outcome returns "win", "draw" or "ongoing".
func (r TerminalResult) Outcome() string {
	switch {
	case r.Draw():
		return "draw"
	case r.Done():
		return "win"
	default:
		return "ongoing"
	}
}

// Equal reports whether two results have identical flags.
func (r TerminalResult) Equal(other TerminalResult) bool {
	if len(r) != len(other) {
		return false
	}
	for i := range r {
		if r[i] != other[i] {
			return false
		}
	}
	return true
}
