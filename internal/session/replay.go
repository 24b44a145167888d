package session

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/zeroplay/internal/game"
)

// ErrReplayMismatch is returned when a replayed record ends in a different
// outcome than the one it was recorded with.
var ErrReplayMismatch = errors.New("session: replay result mismatch")

// Record is the trace of one game: enough to rebuild it from scratch.
type Record struct {
	Variant game.Variant
	Seed    uint64
	Stream  uint64
	Actions []int
	Result  game.TerminalResult
}

// Moves returns the number of recorded actions.
func (r Record) Moves() int {
	return len(r.Actions)
}

// ReplayError reports which action of a sequence was rejected.
type ReplayError struct {
	Index int
	Err   error
}

func (e *ReplayError) Error() string {
	return fmt.Sprintf("session: replay action %d: %v", e.Index, e.Err)
}

func (e *ReplayError) Unwrap() error {
	return e.Err
}

// Replay applies actions in order to a fresh game g and returns its final
// flags. It stops at the first illegal action.
func Replay(g game.Game, actions []int) (game.TerminalResult, error) {
	for i, a := range actions {
		if err := g.ApplyAction(a); err != nil {
			return g.IsTerminal(), &ReplayError{Index: i, Err: err}
		}
	}
	return g.IsTerminal(), nil
}

// Verify replays rec into the fresh game g and checks it reproduces the
// recorded outcome.
func Verify(rec Record, g game.Game) error {
	if g.Variant() != rec.Variant {
		return fmt.Errorf("%w: record is %s, game is %s", ErrReplayMismatch, rec.Variant, g.Variant())
	}
	got, err := Replay(g, rec.Actions)
	if err != nil {
		return err
	}
	if !got.Equal(rec.Result) {
		return fmt.Errorf("%w: recorded %v, replayed %v", ErrReplayMismatch, rec.Result, got)
	}
	return nil
}

// Rerun plays g with a fresh generator for the record's seed and stream and
// checks the sampled actions and outcome match the record exactly.
// An unfinished record stopped at its turn cap, so the rerun stops after the
// same number of actions.
func Rerun(rec Record, g game.Game, opts ...Option) error {
	opts = append(opts, WithSeed(rec.Seed, rec.Stream))
	if rec.Result.Ongoing() {
		opts = append(opts, WithMaxTurns(len(rec.Actions)))
	}
	s := New(g, opts...)
	if _, err := s.Run(); err != nil && !(rec.Result.Ongoing() && errors.Is(err, ErrTurnLimit)) {
		return err
	}
	got := s.Record()
	if len(got.Actions) != len(rec.Actions) {
		return fmt.Errorf("%w: recorded %d actions, rerun %d", ErrReplayMismatch, len(rec.Actions), len(got.Actions))
	}
	for i := range got.Actions {
		if got.Actions[i] != rec.Actions[i] {
			return fmt.Errorf("%w: action %d recorded %d, rerun %d", ErrReplayMismatch, i, rec.Actions[i], got.Actions[i])
		}
	}
	if !got.Result.Equal(rec.Result) {
		return fmt.Errorf("%w: recorded %v, rerun %v", ErrReplayMismatch, rec.Result, got.Result)
	}
	return nil
}
