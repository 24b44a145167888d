package main

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/zeroplay/internal/game"
	"github.com/vovakirdan/zeroplay/internal/storage"
)

func TestDescribeResult(t *testing.T) {
	assert.Equal(t, "player 0 wins [true false false]", describeResult(game.WinResult(2, 0)))
	assert.Equal(t, "draw [false false true]", describeResult(game.DrawResult(2)))
	assert.Equal(t, "unfinished [false false false]", describeResult(game.NewTerminalResult(2)))
}

func TestFormatWins(t *testing.T) {
	assert.Equal(t, "-", formatWins(nil))
	assert.Equal(t, "p0=5 p2=1", formatWins(map[int]int{2: 1, 0: 5}))
}

func TestPercent(t *testing.T) {
	assert.Zero(t, percent(3, 0))
	assert.InDelta(t, 25.0, percent(1, 4), 1e-9)
}

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"list", "play", "selfplay", "replay", "sample", "stats"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if assert.NoError(t, err, name) {
			assert.Equal(t, name, cmd.Name())
		}
	}
}

func TestSelfplaySaveThenReplayTurnCappedGames(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "games.db")
	t.Cleanup(func() {
		flagStore = false
		flagRunID = ""
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"selfplay", "--db", dbPath, "--seed", "7", "--games", "4", "--workers", "2", "--max-turns", "3", "--save"})
	require.NoError(t, rootCmd.Execute())

	store, err := storage.Open(dbPath)
	require.NoError(t, err)
	games, err := store.RecentGames(10)
	require.NoError(t, err)
	require.Len(t, games, 4)
	run, err := store.RunByID(games[0].RunID)
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NotNil(t, run)
	assert.Equal(t, 3, run.MaxTurns)

	rootCmd.SetArgs([]string{"replay", "--db", dbPath, strconv.FormatInt(games[0].ID, 10)})
	assert.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"replay", "--db", dbPath, "--run", run.ID})
	assert.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"replay", "--db", dbPath, "--run", "no-such-run"})
	assert.ErrorContains(t, rootCmd.Execute(), "no run with id")
}
