// Package metrics exposes Prometheus instrumentation for self-play runs.
// Collectors are registered on a caller-supplied registerer, never on the
// process-wide default.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vovakirdan/zeroplay/internal/game"
)

// Collector records game outcomes.
type Collector struct {
	games   *prometheus.CounterVec
	wins    *prometheus.CounterVec
	length  *prometheus.HistogramVec
	illegal *prometheus.CounterVec
}

// NewCollector creates and registers the self-play metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		games: f.NewCounterVec(prometheus.CounterOpts{
			Name: "zeroplay_games_total",
			Help: "Finished games by variant and outcome",
		}, []string{"variant", "outcome"}),

		wins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "zeroplay_wins_total",
			Help: "Won games by variant and winning player",
		}, []string{"variant", "player"}),

		length: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "zeroplay_game_length_moves",
			Help:    "Number of moves per finished game",
			Buckets: prometheus.ExponentialBuckets(1, 2, 9), // 1 to 256 moves
		}, []string{"variant"}),

		illegal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "zeroplay_illegal_actions_total",
			Help: "Rejected actions by variant",
		}, []string{"variant"}),
	}
}

// ObserveGame records one finished game.
func (c *Collector) ObserveGame(v game.Variant, result game.TerminalResult, moves int) {
	if c == nil {
		return
	}
	variant := v.String()
	c.games.WithLabelValues(variant, result.Outcome()).Inc()
	if p, ok := result.Winner(); ok {
		c.wins.WithLabelValues(variant, strconv.Itoa(p)).Inc()
	}
	c.length.WithLabelValues(variant).Observe(float64(moves))
}

// ObserveIllegal records a rejected action.
func (c *Collector) ObserveIllegal(v game.Variant) {
	if c == nil {
		return
	}
	c.illegal.WithLabelValues(v.String()).Inc()
}
