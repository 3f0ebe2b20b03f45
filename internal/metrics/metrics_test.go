package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.SessionCreated()
	m.EventResolved("force", 12)
	m.EventResolved("force", 3)
	m.EventResolved("", 0)
	m.EventResolved("chaos", 4)
	m.EventResolved("hide-and-seek", 0)
	m.SessionCompleted(false)
	m.EarningsCollected(11500)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.eventsResolved.WithLabelValues("force")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.eventsResolved.WithLabelValues("other")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.eventsResolved))
	assert.Equal(t, 19.0, testutil.ToFloat64(m.competitorsEliminated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsCompleted.WithLabelValues("wipeout")))
	assert.Equal(t, 11500.0, testutil.ToFloat64(m.earningsCollected))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.SessionCreated()
	m.EventResolved("force", 1)
	m.EventSkipped()
	m.SessionCompleted(true)
	m.EarningsCollected(1)
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.SessionCreated()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), "gamemaster_sessions_created_total 1"))
}
