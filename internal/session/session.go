// Package session drives game instances through action sequences, either
// explicitly (replay) or by sampling uniformly among legal actions with a
// seeded generator (random self-play).
package session

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/rng"
)

var (
	// ErrTurnLimit is returned when a game is still ongoing after the
	// session's turn cap.
	ErrTurnLimit = errors.New("session: turn limit reached")

	// ErrNoValidActions is returned when an ongoing game offers no legal action.
	ErrNoValidActions = errors.New("session: no valid actions in ongoing game")

	// ErrGameOver is returned when stepping a game that has already ended.
	ErrGameOver = errors.New("session: game is over")

	// ErrNoRand is returned when sampling from a session built without a seed.
	ErrNoRand = errors.New("session: no random source configured")
)

// Session owns one game and, for random play, one generator.
// A Session is not safe for concurrent use; run one per goroutine.
type Session struct {
	game     game.Game
	rand     *rng.PCG
	seed     uint64
	stream   uint64
	actions  []int
	maxTurns int
}

// Option configures a Session.
type Option func(*Session)

// WithSeed gives the session its own generator for (seed, stream).
func WithSeed(seed, stream uint64) Option {
	return func(s *Session) {
		r := rng.New(seed, stream)
		s.rand = &r
		s.seed = seed
		s.stream = stream
	}
}

// WithMaxTurns caps the number of actions the session will apply.
// Games whose cells are never freed end within NumActions turns, which is the
// default; games that can cycle need an explicit cap.
func WithMaxTurns(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxTurns = n
		}
	}
}

// New wraps g. The session takes ownership of g.
func New(g game.Game, opts ...Option) *Session {
	s := &Session{
		game:     g,
		maxTurns: g.NumActions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.actions = make([]int, 0, s.maxTurns)
	return s
}

// Game returns the driven game.
func (s *Session) Game() game.Game {
	return s.game
}

// Actions returns a copy of the actions applied so far.
func (s *Session) Actions() []int {
	return append([]int(nil), s.actions...)
}

// Turns returns the number of actions applied so far.
func (s *Session) Turns() int {
	return len(s.actions)
}

// Apply plays an explicit action and records it.
func (s *Session) Apply(action int) error {
	if len(s.actions) >= s.maxTurns {
		return ErrTurnLimit
	}
	if err := s.game.ApplyAction(action); err != nil {
		return err
	}
	s.actions = append(s.actions, action)
	return nil
}

// SampleAction picks one legal action uniformly at random without applying it.
// It consumes exactly one draw from the session's generator.
func (s *Session) SampleAction() (int, error) {
	if s.rand == nil {
		return -1, ErrNoRand
	}
	if s.game.IsTerminal().Done() {
		return -1, ErrGameOver
	}
	action, ok := SampleAction(s.game.ValidActions(), s.rand)
	if !ok {
		return -1, ErrNoValidActions
	}
	return action, nil
}

// Step samples and applies one action, then reports the outcome flags.
func (s *Session) Step() (game.TerminalResult, error) {
	action, err := s.SampleAction()
	if err != nil {
		return s.game.IsTerminal(), err
	}
	if err := s.Apply(action); err != nil {
		return s.game.IsTerminal(), err
	}
	return s.game.IsTerminal(), nil
}

// Run steps until the game ends.
func (s *Session) Run() (game.TerminalResult, error) {
	result := s.game.IsTerminal()
	for result.Ongoing() {
		if len(s.actions) >= s.maxTurns {
			return result, ErrTurnLimit
		}
		var err error
		if result, err = s.Step(); err != nil {
			return result, err
		}
	}
	return result, nil
}

// Record returns the replayable trace of the session so far.
func (s *Session) Record() Record {
	return Record{
		Variant: s.game.Variant(),
		Seed:    s.seed,
		Stream:  s.stream,
		Actions: s.Actions(),
		Result:  s.game.IsTerminal(),
	}
}

// SampleAction maps one uniform draw onto the legal entries of mask.
// Every legal action is equally likely; illegal ones are never chosen.
// It returns false if mask has no legal action.
func SampleAction(mask []bool, r *rng.PCG) (int, bool) {
	n := game.CountValid(mask)
	if n == 0 {
		return -1, false
	}
	idx := int(r.Float32() * float32(n))
	if idx >= n {
		idx = n - 1
	}
	return game.NthValid(mask, idx), true
}

// RunRandomGame plays g to the end with uniformly random legal actions drawn
// from r, capped at g.NumActions() turns.
func RunRandomGame(g game.Game, r *rng.PCG) (game.TerminalResult, error) {
	limit := g.NumActions()
	for turn := 0; ; turn++ {
		result := g.IsTerminal()
		if result.Done() {
			return result, nil
		}
		if turn >= limit {
			return result, ErrTurnLimit
		}
		action, ok := SampleAction(g.ValidActions(), r)
		if !ok {
			return result, ErrNoValidActions
		}
		if err := g.ApplyAction(action); err != nil {
			return result, fmt.Errorf("session: turn %d: %w", turn, err)
		}
	}
}
