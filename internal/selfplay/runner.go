// Package selfplay runs batches of uniformly random games in parallel.
//
// Game i of a batch always uses the generator for (Seed, StreamBase+i), so a
// batch produces the same records regardless of worker count or scheduling.
package selfplay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/metrics"
	"github.com/vovakirdan/zeroplay/internal/registry"
	"github.com/vovakirdan/zeroplay/internal/session"
)

// Sink receives the records of a completed batch, in game order, in a single
// call. A failed call should leave nothing stored.
type Sink interface {
	SaveRecords(recs []session.Record) error
}

// Config describes one batch.
type Config struct {
	Variant    game.Variant
	Options    registry.Options
	Games      int
	Workers    int // 0 means GOMAXPROCS
	Seed       uint64
	StreamBase uint64
	MaxTurns   int // 0 means the variant's action count
}

// Runner plays batches described by a Config.
type Runner struct {
	cfg     Config
	newGame func() game.Game
	players int

	sink    Sink
	metrics *metrics.Collector
	logger  *log.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithSink stores every record in sink.
func WithSink(sink Sink) Option {
	return func(r *Runner) { r.sink = sink }
}

// WithMetrics reports outcomes to c.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) { r.metrics = c }
}

// WithLogger sets the progress logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New validates cfg and builds a runner.
func New(cfg Config, opts ...Option) (*Runner, error) {
	if cfg.Games < 0 {
		return nil, fmt.Errorf("selfplay: games must be non-negative, got %d", cfg.Games)
	}
	if cfg.MaxTurns < 0 {
		return nil, fmt.Errorf("selfplay: max turns must be non-negative, got %d", cfg.MaxTurns)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	newGame, err := registry.Factory(cfg.Variant, cfg.Options)
	if err != nil {
		return nil, fmt.Errorf("selfplay: %w", err)
	}

	r := &Runner{
		cfg:     cfg,
		newGame: newGame,
		players: newGame().NumPlayers(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Config returns the effective configuration.
func (r *Runner) Config() Config {
	return r.cfg
}

// Run plays every game of the batch and returns the records ordered by game
// index. A game that hits the turn cap is kept as unfinished; any other
// failure aborts the batch before anything reaches the sink. The sink gets the
// whole batch at once, so it decides whether a save is all-or-nothing.
func (r *Runner) Run(ctx context.Context) ([]session.Record, Summary, error) {
	records := make([]session.Record, r.cfg.Games)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	r.logger.Info("self-play started",
		"variant", r.cfg.Variant,
		"games", r.cfg.Games,
		"workers", r.cfg.Workers,
		"seed", r.cfg.Seed,
	)

	for i := range r.cfg.Games {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := r.play(i)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Summary{}, err
	}

	summary := NewSummary(r.players)
	for _, rec := range records {
		summary.Add(rec)
	}
	if r.sink != nil {
		if err := r.sink.SaveRecords(records); err != nil {
			return nil, Summary{}, fmt.Errorf("selfplay: save games: %w", err)
		}
	}
	r.logger.Info("self-play finished", "summary", summary.String())
	return records, summary, nil
}

// play runs game i to completion.
func (r *Runner) play(i int) (session.Record, error) {
	opts := []session.Option{session.WithSeed(r.cfg.Seed, r.cfg.StreamBase+uint64(i))}
	if r.cfg.MaxTurns > 0 {
		opts = append(opts, session.WithMaxTurns(r.cfg.MaxTurns))
	}
	s := session.New(r.newGame(), opts...)

	_, err := s.Run()
	switch {
	case err == nil, errors.Is(err, session.ErrTurnLimit):
	case errors.Is(err, game.ErrIllegalAction):
		r.metrics.ObserveIllegal(r.cfg.Variant)
		return session.Record{}, fmt.Errorf("selfplay: game %d: %w", i, err)
	default:
		return session.Record{}, fmt.Errorf("selfplay: game %d: %w", i, err)
	}

	rec := s.Record()
	r.metrics.ObserveGame(rec.Variant, rec.Result, rec.Moves())
	r.logger.Debug("game finished",
		"index", i,
		"stream", rec.Stream,
		"outcome", rec.Result.Outcome(),
		"moves", rec.Moves(),
	)
	return rec, nil
}
