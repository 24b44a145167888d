package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/zeroplay/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available variants",
	Long:  `Shows every playable variant with its default player and action counts.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	variants := registry.List()

	if len(variants) == 0 {
		fmt.Println("No variants available.")
		return
	}

	fmt.Println("Available variants:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	maxTitleLen := 5
	for _, v := range variants {
		maxIDLen = max(maxIDLen, len(v.ID))
		maxTitleLen = max(maxTitleLen, len(v.Title))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %7s  %7s\n", maxIDLen, "ID", maxTitleLen, "Title", "Players", "Actions")
	fmt.Printf("  %-*s  %-*s  %7s  %7s\n", maxIDLen, "--", maxTitleLen, "-----", "-------", "-------")

	for _, v := range variants {
		fmt.Printf("  %-*s  %-*s  %7d  %7d\n", maxIDLen, v.ID, maxTitleLen, v.Title, v.Players, v.Actions)
	}

	fmt.Println()
	fmt.Println("m,n,k sizes are set with --rows, --cols, --k and --players.")
	fmt.Println("Run 'zeroplay play <id>' to play a game.")
}
