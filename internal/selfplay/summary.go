package selfplay

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/zeroplay/internal/session"
)

// Summary aggregates the outcomes of a batch.
type Summary struct {
	Games      int
	Wins       []int // by player
	Draws      int
	Unfinished int
	TotalMoves int
}

// NewSummary returns an empty summary for a game with the given number of
// players.
func NewSummary(players int) Summary {
	return Summary{Wins: make([]int, players)}
}

// Add folds one record into the summary.
func (s *Summary) Add(rec session.Record) {
	s.Games++
	s.TotalMoves += rec.Moves()
	switch {
	case rec.Result.Draw():
		s.Draws++
	case rec.Result.Done():
		p, _ := rec.Result.Winner()
		for len(s.Wins) <= p {
			s.Wins = append(s.Wins, 0)
		}
		s.Wins[p]++
	default:
		s.Unfinished++
	}
}

// MeanLength returns the average number of moves per game.
func (s Summary) MeanLength() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalMoves) / float64(s.Games)
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "games=%d", s.Games)
	for p, w := range s.Wins {
		fmt.Fprintf(&b, " p%d=%d", p, w)
	}
	fmt.Fprintf(&b, " draws=%d", s.Draws)
	if s.Unfinished > 0 {
		fmt.Fprintf(&b, " unfinished=%d", s.Unfinished)
	}
	fmt.Fprintf(&b, " mean_moves=%.2f", s.MeanLength())
	return b.String()
}
