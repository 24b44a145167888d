package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/platform/tui"
	"github.com/vovakirdan/zeroplay/internal/registry"
	"github.com/vovakirdan/zeroplay/internal/session"
	"github.com/vovakirdan/zeroplay/internal/storage"
)

var (
	flagHuman int
	flagDelay time.Duration
	flagSave  bool
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play against the uniform-random policy",
	Long: `Play a game against the uniform-random policy. The opponent draws from
the generator for (seed, stream); each new game moves to the next stream.

When stdout is not a terminal, one random game is played and printed.

Controls:
  Arrows/hjkl  - Move cursor
  Enter/Space  - Place mark
  R            - New game (after game over)
  ?            - Toggle help
  Q/Ctrl+C     - Quit

Examples:
  zeroplay play
  zeroplay play tictactoe --human 1
  zeroplay play mnk --rows 5 --cols 5 --k 4
  zeroplay play --seed 42 --stream 54 | cat`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagHuman, "human", 0, "Player index controlled by the keyboard")
	playCmd.Flags().DurationVar(&flagDelay, "delay", tui.DefaultOpponentDelay, "Pause before each random move")
	playCmd.Flags().BoolVar(&flagSave, "save", false, "Store the finished game in the database")
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)
	variant := resolveVariant(&cfg, args)
	validate(cfg)
	opts := cfg.RegistryOptions()

	factory, err := registry.Factory(variant, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	var rec session.Record
	if term.IsTerminal(int(os.Stdout.Fd())) {
		rec, err = tui.RunBoard(tui.BoardConfig{
			NewGame: factory,
			Seed:    cfg.Seed,
			Stream:  cfg.Stream,
			Human:   flagHuman,
			Delay:   flagDelay,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		rec = playRandom(factory(), cfg.Seed, cfg.Stream)
	}

	if flagSave && rec.Result.Done() {
		saveRecord(cfg.DBPath, variant, opts, rec)
	}
}

// playRandom plays one uniformly random game and prints it.
func playRandom(g game.Game, seed, stream uint64) session.Record {
	s := session.New(g, session.WithSeed(seed, stream))
	result, err := s.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rec := s.Record()
	fmt.Printf("%s  seed %d  stream %d\n\n", g.Variant(), seed, stream)
	printBoard(g)
	fmt.Printf("Actions: %s\n", storage.EncodeActions(rec.Actions))
	fmt.Printf("Result:  %s\n", describeResult(result))
	return rec
}

// saveRecord stores a single game as a one-game run.
func saveRecord(dbPath string, v game.Variant, opts registry.Options, rec session.Record) {
	store, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open games database: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.CreateRun(storage.Run{
		Variant:    v,
		Options:    opts,
		Seed:       rec.Seed,
		StreamBase: rec.Stream,
		Games:      1,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return
	}
	if err := store.SaveRecord(rec); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
}
