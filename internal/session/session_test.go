package session

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/games/mnk"
	"github.com/vovakirdan/zeroplay/internal/games/tictactoe"
	"github.com/vovakirdan/zeroplay/internal/rng"
)

// cycleGame never ends and always offers every action, to exercise the cap.
type cycleGame struct {
	moves int
}

func (c *cycleGame) Variant() game.Variant { return game.VariantUnknown }
func (c *cycleGame) NumPlayers() int { return 2 }
func (c *cycleGame) NumActions() int { return 3 }
func (c *cycleGame) CurrentPlayer() int { return c.moves % 2 }
func (c *cycleGame) ValidActions() []bool { return []bool{true, true, true} }
func (c *cycleGame) ApplyAction(int) error { c.moves++; return nil }
func (c *cycleGame) IsTerminal() game.TerminalResult { return game.NewTerminalResult(2) }
func (c *cycleGame) Clone() game.Game { cp := *c; return &cp }

// stuckGame is ongoing but has no legal actions.
type stuckGame struct{ cycleGame }

func (s *stuckGame) ValidActions() []bool { return make([]bool, 3) }

func TestReplayWin(t *testing.T) {
	result, err := Replay(tictactoe.New(), []int{4, 0, 6, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, game.TerminalResult{true, false, false}, result)
}

func TestReplayDraw(t *testing.T) {
	result, err := Replay(tictactoe.New(), []int{4, 0, 1, 7, 2, 6, 3, 5, 8})
	require.NoError(t, err)
	assert.Equal(t, game.TerminalResult{false, false, true}, result)
}

func TestReplayIllegalAction(t *testing.T) {
	g := tictactoe.New()
	result, err := Replay(g, []int{4, 0, 4, 1})
	require.Error(t, err)

	var re *ReplayError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 2, re.Index)
	assert.ErrorIs(t, err, game.ErrIllegalAction)

	// Stopped before the illegal action; nothing after it was applied.
	assert.Equal(t, 2, g.Moves())
	assert.True(t, result.Ongoing())
}

func TestSessionApplyRecordsActions(t *testing.T) {
	s := New(tictactoe.New())
	for _, a := range []int{4, 0, 6} {
		require.NoError(t, s.Apply(a))
	}
	require.ErrorIs(t, s.Apply(4), game.ErrIllegalAction)

	assert.Equal(t, []int{4, 0, 6}, s.Actions())
	assert.Equal(t, 3, s.Turns())
}

func TestStepWithoutSeed(t *testing.T) {
	s := New(tictactoe.New())
	_, err := s.Step()
	assert.ErrorIs(t, err, ErrNoRand)
}

func TestStepAfterGameOver(t *testing.T) {
	g := tictactoe.New()
	_, err := Replay(g, []int{4, 0, 6, 1, 2})
	require.NoError(t, err)

	s := New(g, WithSeed(1, 1))
	_, err = s.Step()
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestRunDeterminism(t *testing.T) {
	for stream := range uint64(20) {
		a := New(tictactoe.New(), WithSeed(42, stream))
		b := New(tictactoe.New(), WithSeed(42, stream))

		ra, err := a.Run()
		require.NoError(t, err)
		rb, err := b.Run()
		require.NoError(t, err)

		assert.Equal(t, ra, rb)
		assert.Equal(t, a.Actions(), b.Actions())
	}
}

func TestRandomSelfPlayProperties(t *testing.T) {
	outcomes := map[string]int{}
	for stream := range uint64(500) {
		s := New(tictactoe.New(), WithSeed(2024, stream))
		result, err := s.Run()
		require.NoError(t, err)

		flags := 0
		for _, f := range result {
			if f {
				flags++
			}
		}
		require.Equal(t, 1, flags, "stream %d", stream)
		if result.Draw() {
			assert.Equal(t, 0, game.CountValid(s.Game().ValidActions()))
		}
		assert.LessOrEqual(t, s.Turns(), 9)
		outcomes[result.Outcome()]++
	}

	// Uniform random play produces both wins and draws over 500 games.
	assert.Greater(t, outcomes["win"], 0)
	assert.Greater(t, outcomes["draw"], 0)
}

func TestRunTurnLimit(t *testing.T) {
	s := New(&cycleGame{}, WithSeed(1, 1), WithMaxTurns(10))
	_, err := s.Run()
	assert.ErrorIs(t, err, ErrTurnLimit)
	assert.Equal(t, 10, s.Turns())

	// Explicit actions respect the cap too.
	assert.ErrorIs(t, s.Apply(0), ErrTurnLimit)
}

func TestRunDefaultTurnLimitIsActionCount(t *testing.T) {
	s := New(&cycleGame{}, WithSeed(1, 1))
	_, err := s.Run()
	assert.ErrorIs(t, err, ErrTurnLimit)
	assert.Equal(t, 3, s.Turns())
}

func TestRunNoValidActions(t *testing.T) {
	s := New(&stuckGame{}, WithSeed(1, 1))
	_, err := s.Run()
	assert.ErrorIs(t, err, ErrNoValidActions)
}

func TestSampleActionUniformOverValidSet(t *testing.T) {
	mask := []bool{false, true, false, false, true, false, false, false, true}
	r := rng.New(99, 1)

	counts := map[int]int{}
	const n = 30000
	for range n {
		a, ok := SampleAction(mask, &r)
		require.True(t, ok)
		require.True(t, mask[a], "sampled illegal action %d", a)
		counts[a]++
	}

	require.Len(t, counts, 3)
	for a, c := range counts {
		assert.InDeltaf(t, n/3, c, n*0.02, "action %d", a)
	}

	_, ok := SampleAction(make([]bool, 9), &r)
	assert.False(t, ok)
}

func TestRunRandomGame(t *testing.T) {
	r1 := rng.New(5, 9)
	r2 := rng.New(5, 9)

	g1, g2 := tictactoe.New(), tictactoe.New()
	res1, err := RunRandomGame(g1, &r1)
	require.NoError(t, err)
	res2, err := RunRandomGame(g2, &r2)
	require.NoError(t, err)

	assert.Equal(t, res1, res2)
	assert.Equal(t, g1.Snapshot(), g2.Snapshot())
	assert.True(t, res1.Done())
}

func TestRunRandomGameTurnLimit(t *testing.T) {
	r := rng.New(1, 1)
	_, err := RunRandomGame(&cycleGame{}, &r)
	assert.ErrorIs(t, err, ErrTurnLimit)
}

func TestRecordVerifyAndRerun(t *testing.T) {
	s := New(tictactoe.New(), WithSeed(7, 3))
	_, err := s.Run()
	require.NoError(t, err)

	rec := s.Record()
	assert.Equal(t, game.VariantTicTacToe, rec.Variant)
	assert.Equal(t, uint64(7), rec.Seed)
	assert.Equal(t, uint64(3), rec.Stream)
	assert.Equal(t, s.Turns(), rec.Moves())

	require.NoError(t, Verify(rec, tictactoe.New()))
	require.NoError(t, Rerun(rec, tictactoe.New()))

	tampered := rec
	tampered.Result = game.NewTerminalResult(2)
	assert.ErrorIs(t, Verify(tampered, tictactoe.New()), ErrReplayMismatch)

	// The variant must match before any action is replayed.
	g, err := mnk.New(mnk.DefaultOptions())
	require.NoError(t, err)
	assert.ErrorIs(t, Verify(rec, g), ErrReplayMismatch)
}

func TestRerunTurnCappedRecord(t *testing.T) {
	s := New(tictactoe.New(), WithSeed(7, 3), WithMaxTurns(3))
	_, err := s.Run()
	require.ErrorIs(t, err, ErrTurnLimit)

	rec := s.Record()
	require.Len(t, rec.Actions, 3)
	require.True(t, rec.Result.Ongoing())

	require.NoError(t, Verify(rec, tictactoe.New()))
	require.NoError(t, Rerun(rec, tictactoe.New()))
	require.NoError(t, Rerun(rec, tictactoe.New(), WithMaxTurns(3)))

	// A legal but different last move is not what the seed produces.
	edited := rec
	edited.Actions = append([]int(nil), rec.Actions...)
	for cell := range tictactoe.Cells {
		if !slices.Contains(rec.Actions, cell) {
			edited.Actions[2] = cell
			break
		}
	}
	require.NoError(t, Verify(edited, tictactoe.New()))
	assert.ErrorIs(t, Rerun(edited, tictactoe.New()), ErrReplayMismatch)
}

func TestSessionsAreIndependent(t *testing.T) {
	opts := mnk.Options{Rows: 5, Cols: 5, K: 4, Players: 3}
	g, err := mnk.New(opts)
	require.NoError(t, err)

	a := New(g.Clone(), WithSeed(11, 1))
	b := New(g.Clone(), WithSeed(11, 1))
	_, err = a.Run()
	require.NoError(t, err)

	// Running a left b untouched.
	assert.Equal(t, 0, b.Turns())
	assert.True(t, b.Game().IsTerminal().Ongoing())

	_, err = b.Run()
	require.NoError(t, err)
	assert.Equal(t, a.Actions(), b.Actions())
}
