package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/zeroplay/internal/metrics"
	"github.com/vovakirdan/zeroplay/internal/selfplay"
	"github.com/vovakirdan/zeroplay/internal/storage"
)

var (
	flagVariant     string
	flagGames       int
	flagWorkers     int
	flagMaxTurns    int
	flagStore       bool
	flagMetricsFile string
)

var selfplayCmd = &cobra.Command{
	Use:   "selfplay",
	Short: "Run a batch of uniformly random games",
	Long: `Plays a batch of games where every player picks uniformly among its
legal actions. Game i uses stream (stream + i), so the batch is identical for
any worker count.

Examples:
  zeroplay selfplay --games 10000
  zeroplay selfplay --variant mnk --rows 5 --cols 5 --k 4 --players 3
  zeroplay selfplay --games 500 --save
  zeroplay selfplay --metrics-file /var/lib/node_exporter/zeroplay.prom`,
	Args:         cobra.NoArgs,
	RunE:         runSelfplay,
	SilenceUsage: true,
}

func init() {
	selfplayCmd.Flags().StringVar(&flagVariant, "variant", "", "Variant to play (overrides config)")
	selfplayCmd.Flags().IntVar(&flagGames, "games", 0, "Number of games (overrides config)")
	selfplayCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel games, 0 = one per CPU (overrides config)")
	selfplayCmd.Flags().IntVar(&flagMaxTurns, "max-turns", 0, "Turn cap per game, 0 = action count (overrides config)")
	selfplayCmd.Flags().BoolVar(&flagStore, "save", false, "Store every game in the database")
	selfplayCmd.Flags().StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus metrics to this file when done")
}

func runSelfplay(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	flags := cmd.Flags()
	if flags.Changed("variant") {
		cfg.Variant = flagVariant
	}
	if flags.Changed("games") {
		cfg.Games = flagGames
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("max-turns") {
		cfg.MaxTurns = flagMaxTurns
	}
	variant := resolveVariant(&cfg, nil)
	validate(cfg)

	logger := newLogger(cfg)
	reg := prometheus.NewRegistry()

	opts := []selfplay.Option{
		selfplay.WithLogger(logger),
		selfplay.WithMetrics(metrics.NewCollector(reg)),
	}

	runCfg := selfplay.Config{
		Variant:    variant,
		Options:    cfg.RegistryOptions(),
		Games:      cfg.Games,
		Workers:    cfg.Workers,
		Seed:       cfg.Seed,
		StreamBase: cfg.Stream,
		MaxTurns:   cfg.MaxTurns,
	}

	var store *storage.Store
	if flagStore {
		var err error
		store, err = storage.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening games database: %w", err)
		}
		defer store.Close()
		opts = append(opts, selfplay.WithSink(store))
	}

	runner, err := selfplay.New(runCfg, opts...)
	if err != nil {
		return err
	}

	// The run row is written only once the batch is known to be valid.
	if store != nil {
		run, err := store.CreateRun(storage.Run{
			Variant:    runCfg.Variant,
			Options:    runCfg.Options,
			Seed:       runCfg.Seed,
			StreamBase: runCfg.StreamBase,
			Games:      runCfg.Games,
			MaxTurns:   runCfg.MaxTurns,
		})
		if err != nil {
			return err
		}
		logger.Info("storing games", "run", run.ID, "db", cfg.DBPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	_, summary, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("self-play failed: %w", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("Variant:     %s\n", variant)
	fmt.Printf("Seed/stream: %d/%d\n", cfg.Seed, cfg.Stream)
	fmt.Printf("Games:       %d\n", summary.Games)
	for p, w := range summary.Wins {
		fmt.Printf("  player %d:  %d (%.1f%%)\n", p, w, percent(w, summary.Games))
	}
	fmt.Printf("  draws:     %d (%.1f%%)\n", summary.Draws, percent(summary.Draws, summary.Games))
	if summary.Unfinished > 0 {
		fmt.Printf("  unfinished: %d\n", summary.Unfinished)
	}
	fmt.Printf("Mean length: %.2f moves\n", summary.MeanLength())
	fmt.Printf("Elapsed:     %s\n", elapsed.Round(time.Millisecond))

	if flagMetricsFile != "" {
		if err := prometheus.WriteToTextfile(flagMetricsFile, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}
