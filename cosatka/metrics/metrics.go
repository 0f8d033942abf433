// Package metrics exposes economy telemetry to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	operations   *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	earnings     *prometheus.CounterVec
	achievements *prometheus.CounterVec
	commands     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosatka_operations_total",
			Help: "Economy operations by game, operation and outcome",
		}, []string{"game", "op", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cosatka_operation_duration_seconds",
			Help:    "Economy operation latency including storage",
			Buckets: prometheus.DefBuckets,
		}, []string{"game", "op"}),
		earnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosatka_currency_earned_total",
			Help: "Currency credited to users by source",
		}, []string{"game", "source"}),
		achievements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosatka_achievements_unlocked_total",
			Help: "Achievements unlocked",
		}, []string{"game", "achievement"}),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cosatka_commands_total",
			Help: "Slash commands handled by status",
		}, []string{"command", "status"}),
	}

	m.registry.MustRegister(
		m.operations,
		m.duration,
		m.earnings,
		m.achievements,
		m.commands,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveOperation(game, op, outcome string, d time.Duration) {
	m.operations.WithLabelValues(game, op, outcome).Inc()
	m.duration.WithLabelValues(game, op).Observe(d.Seconds())
}

func (m *Metrics) AddEarnings(game, source string, amount int64) {
	if amount <= 0 {
		return
	}
	m.earnings.WithLabelValues(game, source).Add(float64(amount))
}

func (m *Metrics) AchievementUnlocked(game, id string) {
	m.achievements.WithLabelValues(game, id).Inc()
}

func (m *Metrics) CommandHandled(command, status string) {
	m.commands.WithLabelValues(command, status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
