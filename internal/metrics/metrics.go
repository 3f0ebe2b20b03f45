package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gamemaster/internal/domain"
)

// Metrics holds the engine counters on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	sessionsCreated       prometheus.Counter
	eventsResolved        *prometheus.CounterVec
	eventsSkipped         prometheus.Counter
	competitorsEliminated prometheus.Counter
	sessionsCompleted     *prometheus.CounterVec
	earningsCollected     prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	f := promauto.With(registry)
	return &Metrics{
		registry: registry,
		sessionsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "gamemaster_sessions_created_total",
			Help: "Total number of game sessions created.",
		}),
		eventsResolved: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gamemaster_events_resolved_total",
			Help: "Total number of events resolved, partitioned by event type.",
		}, []string{"type"}),
		eventsSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "gamemaster_events_skipped_total",
			Help: "Total number of events skipped without resolution.",
		}),
		competitorsEliminated: f.NewCounter(prometheus.CounterOpts{
			Name: "gamemaster_competitors_eliminated_total",
			Help: "Total number of competitors eliminated across all sessions.",
		}),
		sessionsCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gamemaster_sessions_completed_total",
			Help: "Total number of completed sessions, partitioned by outcome.",
		}, []string{"outcome"}),
		earningsCollected: f.NewCounter(prometheus.CounterOpts{
			Name: "gamemaster_earnings_collected_total",
			Help: "Sum of earnings credited by collect operations.",
		}),
	}
}

func (m *Metrics) SessionCreated() {
	if m == nil {
		return
	}
	m.sessionsCreated.Inc()
}

// EventResolved records one resolution and its eliminations.
func (m *Metrics) EventResolved(eventType string, eliminated int) {
	if m == nil {
		return
	}
	m.eventsResolved.WithLabelValues(typeLabel(eventType)).Inc()
	m.competitorsEliminated.Add(float64(eliminated))
}

// typeLabel keeps the label set bounded: catalog types outside the three
// stat-based ones share a single "other" series.
func typeLabel(eventType string) string {
	switch domain.EventType(eventType) {
	case domain.EventIntelligence, domain.EventForce, domain.EventAgilite:
		return eventType
	}
	return "other"
}

func (m *Metrics) EventSkipped() {
	if m == nil {
		return
	}
	m.eventsSkipped.Inc()
}

// SessionCompleted records a finished session; hasWinner selects the outcome label.
func (m *Metrics) SessionCompleted(hasWinner bool) {
	if m == nil {
		return
	}
	outcome := "winner"
	if !hasWinner {
		outcome = "wipeout"
	}
	m.sessionsCompleted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) EarningsCollected(amount int) {
	if m == nil {
		return
	}
	m.earningsCollected.Add(float64(amount))
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
