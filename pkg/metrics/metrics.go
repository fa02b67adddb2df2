// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	QuestionsServed prometheus.Counter
	QuestionsAdded  prometheus.Counter
	ScoreUpdates    *prometheus.CounterVec
	FeedClients     prometheus.Gauge
}

// New builds a private registry so repeated construction (tests, CLI
// subcommands) never collides on the global one.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: registry,
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		QuestionsServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_questions_served_total",
			Help: "Questions handed out by POST /quiz",
		}),
		QuestionsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_questions_added_total",
			Help: "Questions appended by POST /addq",
		}),
		ScoreUpdates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quiz_score_updates_total",
				Help: "Score changes by outcome",
			},
			[]string{"outcome"},
		),
		FeedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "quiz_leaderboard_feed_clients",
			Help: "Connected live leaderboard websocket clients",
		}),
	}

	registry.MustRegister(m.RequestsTotal, m.RequestDuration, m.QuestionsServed, m.QuestionsAdded, m.ScoreUpdates, m.FeedClients)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
