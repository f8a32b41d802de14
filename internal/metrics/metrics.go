// Package metrics exposes Prometheus collectors for progression activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/playperu/geodash/internal/geodash"
)

// ─── Exploration ────────────────────────────────────────────────────────────

var CaptureAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "geodash",
	Subsystem: "exploration",
	Name:      "capture_attempts_total",
	Help:      "Capture attempts by outcome.",
}, []string{"outcome"})

var TerritoryUnlocks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "geodash",
	Subsystem: "exploration",
	Name:      "territory_unlocks_total",
	Help:      "Territories unlocked.",
}, []string{"territory"})

var TotalPoints = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "geodash",
	Subsystem: "exploration",
	Name:      "total_points",
	Help:      "Points accumulated from captures.",
})

var Level = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "geodash",
	Subsystem: "exploration",
	Name:      "level",
	Help:      "Current player level.",
})

// ─── Games ──────────────────────────────────────────────────────────────────

var ScoreReports = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "geodash",
	Subsystem: "games",
	Name:      "score_reports_total",
	Help:      "Finished plays reported, by game.",
}, []string{"game"})

var GameUnlocks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "geodash",
	Subsystem: "games",
	Name:      "unlocks_total",
	Help:      "Games unlocked.",
}, []string{"game"})

var Wins = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "geodash",
	Subsystem: "games",
	Name:      "wins_total",
	Help:      "Wins recorded.",
})

var TotalScore = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "geodash",
	Subsystem: "games",
	Name:      "total_score",
	Help:      "Cumulative score across all games.",
})

var Resets = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "geodash",
	Name:      "resets_total",
	Help:      "Progress resets, by track.",
}, []string{"track"})

// Observe updates the collectors from a progression event. It is registered
// as an observer on both progression components.
func Observe(e geodash.Event) {
	switch e.Type {
	case geodash.EventPOICaptured:
		TotalPoints.Set(float64(e.TotalPoints))
		Level.Set(float64(e.Level))
	case geodash.EventTerritoryUnlocked:
		TerritoryUnlocks.WithLabelValues(e.TerritoryID).Inc()
	case geodash.EventProgressReset:
		Resets.WithLabelValues("exploration").Inc()
		TotalPoints.Set(0)
		Level.Set(1)
	case geodash.EventScoreReported:
		ScoreReports.WithLabelValues(e.GameID).Inc()
		TotalScore.Set(float64(e.TotalScore))
	case geodash.EventGameUnlocked:
		GameUnlocks.WithLabelValues(e.GameID).Inc()
	case geodash.EventWinRecorded:
		Wins.Inc()
	case geodash.EventGamesReset:
		Resets.WithLabelValues("games").Inc()
		TotalScore.Set(0)
	}
}

// Seed sets the gauges from loaded state at startup.
func Seed(u geodash.UserData, s geodash.PlayerStats) {
	TotalPoints.Set(float64(u.TotalPoints))
	Level.Set(float64(u.Level))
	TotalScore.Set(float64(s.TotalScore))
}

func CaptureAttempt(outcome string) {
	CaptureAttempts.WithLabelValues(outcome).Inc()
}
