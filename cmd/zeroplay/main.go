// zeroplay runs seeded self-play for small board games and replays the
// results deterministically.
//
// Usage:
//
//	zeroplay list                  - List available variants
//	zeroplay play [variant]        - Play against the random policy
//	zeroplay selfplay              - Run a batch of random games
//	zeroplay replay [game-id]      - Replay a stored game or an action list
//	zeroplay sample                - Print uniform draws for a seed/stream
//	zeroplay stats [variant]       - Show stored outcome totals
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.zeroplay, ./configs)
//	--seed <value>      - Generator seed
//	--stream <value>    - Generator stream
//	--db <path>         - Database path (default: ~/.zeroplay/zeroplay.db)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     uint64
	flagStream   uint64
	flagDBPath   string
	flagLogLevel string

	// Board flags
	flagRows    int
	flagCols    int
	flagK       int
	flagPlayers int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "zeroplay",
	Short: "Seeded self-play for small board games",
	Long: `zeroplay plays tic-tac-toe and m,n,k games with a counter-based
PCG generator keyed by (seed, stream), so every game can be replayed exactly.

Available commands:
  list      - Show all variants
  play      - Play against the uniform-random policy
  selfplay  - Run a batch of random games, optionally storing them
  replay    - Replay an action list or a stored game
  sample    - Print uniform draws from the generator
  stats     - Show outcome totals of stored games

Examples:
  zeroplay list
  zeroplay play tictactoe
  zeroplay selfplay --games 10000 --workers 8 --save
  zeroplay replay --actions 4,0,6,1,2
  zeroplay sample --seed 42 --stream 54 -n 5
  zeroplay stats`,
	// main prints the error once.
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Generator seed (overrides config)")
	rootCmd.PersistentFlags().Uint64Var(&flagStream, "stream", 1, "Generator stream (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to games database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.PersistentFlags().IntVar(&flagRows, "rows", 0, "m,n,k board rows (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagCols, "cols", 0, "m,n,k board columns (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagK, "k", 0, "m,n,k marks in a row to win (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagPlayers, "players", 0, "m,n,k player count (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(selfplayCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(statsCmd)
}
