package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/games/mnk"
	"github.com/vovakirdan/zeroplay/internal/platform/tui"
	"github.com/vovakirdan/zeroplay/internal/storage"
)

var (
	flagRecent int
	flagBrowse bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [variant]",
	Short: "Show outcome totals of stored games",
	Long: `Shows win, draw and length totals of every stored game, per variant.

Examples:
  zeroplay stats
  zeroplay stats tictactoe --recent 10
  zeroplay stats --browse`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagRecent, "recent", 0, "Also list the N most recent games")
	statsCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive history browser")
}

func runStats(cmd *cobra.Command, args []string) {
	cfg := loadConfig(cmd)

	variants := game.Variants()
	if len(args) > 0 {
		variants = []game.Variant{resolveVariant(&cfg, args)}
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening games database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagBrowse && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunHistory(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("  %-10s  %8s  %-24s  %8s  %10s\n", "Variant", "Games", "Wins", "Draws", "Mean moves")
	fmt.Printf("  %-10s  %8s  %-24s  %8s  %10s\n", "-------", "-----", "----", "-----", "----------")
	for _, v := range variants {
		s, err := store.OutcomeStats(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  %-10s  %8d  %-24s  %8d  %10.2f\n", v, s.Games, formatWins(s.Wins), s.Draws, s.MeanLength())
	}

	if flagRecent <= 0 {
		return
	}

	games, err := store.RecentGames(flagRecent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving games: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
	fmt.Printf("  %-6s  %-10s  %-10s  %-20s  %s\n", "ID", "Variant", "Stream", "Result", "Actions")
	fmt.Printf("  %-6s  %-10s  %-10s  %-20s  %s\n", "--", "-------", "------", "------", "-------")
	for _, e := range games {
		if len(args) > 0 && e.Record.Variant != variants[0] {
			continue
		}
		fmt.Printf("  %-6d  %-10s  %-10d  %-20s  %s\n",
			e.ID, e.Record.Variant, e.Record.Stream, e.Record.Result.Outcome()+winnerSuffix(e.Record.Result),
			storage.EncodeActions(e.Record.Actions))
	}
}

func formatWins(wins map[int]int) string {
	s := ""
	for p := range mnk.MaxPlayers {
		n, ok := wins[p]
		if !ok {
			continue
		}
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("p%d=%d", p, n)
	}
	if s == "" {
		return "-"
	}
	return s
}

func winnerSuffix(r game.TerminalResult) string {
	if p, ok := r.Winner(); ok {
		return fmt.Sprintf(" (p%d)", p)
	}
	return ""
}
