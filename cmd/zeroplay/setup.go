package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/zeroplay/internal/config"
	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/registry"
)

// loadConfig reads the config file and environment, applies the flags the
// user set explicitly, and validates the result. It exits on error.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("stream") {
		cfg.Stream = flagStream
	}
	if flags.Changed("db") {
		cfg.DBPath = flagDBPath
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("rows") {
		cfg.MNK.Rows = flagRows
	}
	if flags.Changed("cols") {
		cfg.MNK.Cols = flagCols
	}
	if flags.Changed("k") {
		cfg.MNK.K = flagK
	}
	if flags.Changed("players") {
		cfg.MNK.Players = flagPlayers
	}
	return cfg
}

// validate exits with every problem in cfg.
func validate(cfg config.Config) {
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger builds the stderr logger at the configured level.
func newLogger(cfg config.Config) *log.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "zeroplay",
		Level:           level,
	})
}

// resolveVariant picks the variant named in args, falling back to the config.
func resolveVariant(cfg *config.Config, args []string) game.Variant {
	if len(args) > 0 {
		cfg.Variant = args[0]
	}
	v, err := cfg.GameVariant()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'zeroplay list' to see available variants.")
		os.Exit(1)
	}
	return v
}

// newGame creates a fresh game or exits.
func newGame(v game.Variant, opts registry.Options) game.Game {
	g, err := registry.New(v, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	return g
}

// printBoard writes the board of g, if it has a text form.
func printBoard(g game.Game) {
	if s, ok := g.(fmt.Stringer); ok {
		fmt.Println(s.String())
		fmt.Println()
	}
}

// describeResult renders terminal flags for humans.
func describeResult(r game.TerminalResult) string {
	if p, ok := r.Winner(); ok {
		return fmt.Sprintf("player %d wins %v", p, []bool(r))
	}
	if r.Draw() {
		return fmt.Sprintf("draw %v", []bool(r))
	}
	return fmt.Sprintf("unfinished %v", []bool(r))
}
