package mnk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/rng"
)

func newGame(t *testing.T, opts Options, actions ...int) *State {
	t.Helper()
	s, err := New(opts)
	require.NoError(t, err)
	for i, a := range actions {
		require.NoErrorf(t, s.ApplyAction(a), "move %d (action %d)", i, a)
	}
	return s
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"default", DefaultOptions(), true},
		{"tic-tac-toe", Options{Rows: 3, Cols: 3, K: 3, Players: 2}, true},
		{"gomoku", Options{Rows: 15, Cols: 15, K: 5, Players: 2}, true},
		{"three players", Options{Rows: 5, Cols: 5, K: 4, Players: 3}, true},
		{"zero rows", Options{Rows: 0, Cols: 3, K: 3, Players: 2}, false},
		{"too wide", Options{Rows: 3, Cols: 17, K: 3, Players: 2}, false},
		{"k too large", Options{Rows: 3, Cols: 3, K: 4, Players: 2}, false},
		{"one player", Options{Rows: 3, Cols: 3, K: 3, Players: 1}, false},
		{"five players", Options{Rows: 3, Cols: 3, K: 3, Players: 5}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.opts.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewInvalidOptions(t *testing.T) {
	_, err := New(Options{Rows: 0, Cols: 0, K: 0, Players: 9})
	require.Error(t, err)

	var ce *game.ConstructionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, game.VariantMNK, ce.Variant)
}

func TestInitialState(t *testing.T) {
	s := newGame(t, DefaultOptions())

	assert.Equal(t, 2, s.NumPlayers())
	assert.Equal(t, 16, s.NumActions())
	assert.Equal(t, 0, s.CurrentPlayer())
	assert.Equal(t, 16, game.CountValid(s.ValidActions()))
	assert.Equal(t, game.TerminalResult{false, false, false}, s.IsTerminal())
}

func TestMatchesTicTacToe(t *testing.T) {
	opts := Options{Rows: 3, Cols: 3, K: 3, Players: 2}

	win := newGame(t, opts, 4, 0, 6, 1, 2)
	assert.Equal(t, game.TerminalResult{true, false, false}, win.IsTerminal())

	draw := newGame(t, opts, 4, 0, 1, 7, 2, 6, 3, 5, 8)
	assert.Equal(t, game.TerminalResult{false, false, true}, draw.IsTerminal())
	assert.Equal(t, 0, game.CountValid(draw.ValidActions()))
}

func TestLines(t *testing.T) {
	opts := DefaultOptions() // 4x4, k=3
	tests := []struct {
		name    string
		actions []int
		want    game.TerminalResult
	}{
		{"horizontal", []int{5, 0, 6, 3, 7}, game.TerminalResult{true, false, false}},
		{"vertical", []int{1, 0, 5, 3, 9}, game.TerminalResult{true, false, false}},
		{"diagonal", []int{0, 1, 5, 2, 10}, game.TerminalResult{true, false, false}},
		{"anti-diagonal", []int{3, 0, 6, 1, 9}, game.TerminalResult{true, false, false}},
		{"player 1 edge row", []int{0, 12, 5, 13, 15, 14}, game.TerminalResult{false, true, false}},
		{"broken run", []int{0, 2, 1, 4, 3}, game.TerminalResult{false, false, false}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newGame(t, opts, tc.actions...)
			assert.Equal(t, tc.want, s.IsTerminal())
		})
	}
}

func TestThreePlayers(t *testing.T) {
	opts := Options{Rows: 4, Cols: 4, K: 3, Players: 3}
	s := newGame(t, opts)

	assert.Len(t, s.IsTerminal(), 4)
	for i, a := range []int{0, 4, 8, 1, 5, 9} {
		assert.Equal(t, i%3, s.CurrentPlayer())
		require.NoError(t, s.ApplyAction(a))
	}
	require.NoError(t, s.ApplyAction(15))
	require.NoError(t, s.ApplyAction(12))
	// Player 2 completes 8-9-10.
	require.NoError(t, s.ApplyAction(10))
	assert.Equal(t, game.TerminalResult{false, false, true, false}, s.IsTerminal())
}

func TestIllegalActions(t *testing.T) {
	s := newGame(t, DefaultOptions(), 5)

	tests := []struct {
		action int
		reason game.Reason
	}{
		{-1, game.ReasonOutOfRange},
		{16, game.ReasonOutOfRange},
		{5, game.ReasonOccupied},
	}
	for _, tc := range tests {
		before := s.String()
		err := s.ApplyAction(tc.action)
		require.ErrorIs(t, err, game.ErrIllegalAction)

		var iae *game.IllegalActionError
		require.True(t, errors.As(err, &iae))
		assert.Equal(t, tc.reason, iae.Reason)
		assert.Equal(t, before, s.String())
		assert.Equal(t, 1, s.Moves())
	}

	done := newGame(t, DefaultOptions(), 5, 0, 6, 3, 7)
	err := done.ApplyAction(15)
	var iae *game.IllegalActionError
	require.True(t, errors.As(err, &iae))
	assert.Equal(t, game.ReasonTerminal, iae.Reason)
}

func TestCloneIsIndependent(t *testing.T) {
	s := newGame(t, DefaultOptions(), 0)
	c := s.Clone()
	require.NoError(t, c.ApplyAction(1))

	assert.Equal(t, 1, s.Moves())
	assert.True(t, s.ValidActions()[1])
	assert.False(t, c.ValidActions()[1])
}

func TestString(t *testing.T) {
	s := newGame(t, Options{Rows: 2, Cols: 3, K: 2, Players: 3}, 0, 1, 2)
	assert.Equal(t, "XOA\n...", s.String())
}

func TestGrid(t *testing.T) {
	s := newGame(t, Options{Rows: 2, Cols: 3, K: 2, Players: 3}, 0, 1, 2)
	rows, cols := s.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []int{0, 1, 2, -1, -1, -1}, []int{s.Owner(0), s.Owner(1), s.Owner(2), s.Owner(3), s.Owner(4), s.Owner(5)})
	assert.Equal(t, -1, s.Owner(6))
	assert.Equal(t, -1, s.Owner(-1))
}

func TestRandomPlayInvariants(t *testing.T) {
	configs := []Options{
		DefaultOptions(),
		{Rows: 5, Cols: 5, K: 4, Players: 3},
		{Rows: 6, Cols: 7, K: 4, Players: 2},
		{Rows: 3, Cols: 3, K: 3, Players: 4},
	}

	for _, opts := range configs {
		for stream := range uint64(50) {
			r := rng.New(7, stream)
			s := newGame(t, opts)

			for turn := 0; s.IsTerminal().Ongoing(); turn++ {
				require.Less(t, turn, s.NumActions())
				valid := s.ValidActions()
				n := game.CountValid(valid)
				require.Greater(t, n, 0)
				require.NoError(t, s.ApplyAction(game.NthValid(valid, int(r.Float32()*float32(n)))))
			}

			result := s.IsTerminal()
			require.True(t, result.Valid())
			require.True(t, result.Done())
			if result.Draw() {
				assert.Equal(t, 0, game.CountValid(s.ValidActions()))
			}
		}
	}
}
