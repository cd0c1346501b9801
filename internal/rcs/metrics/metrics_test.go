package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	t.Parallel()
	m := New()

	m.ObserveCreate("DOMESTIC_PAYMENT", OutcomeCreated)
	m.ObserveCreate("DOMESTIC_PAYMENT", OutcomeReplayed)
	m.ObserveCreate("DOMESTIC_PAYMENT", OutcomeReplayed)
	m.ObserveTransition("DOMESTIC_PAYMENT", "Authorised")
	m.ObserveError("NOT_FOUND")

	require.Equal(t, 1.0, testutil.ToFloat64(m.created.WithLabelValues("DOMESTIC_PAYMENT", OutcomeCreated)))
	require.Equal(t, 2.0, testutil.ToFloat64(m.created.WithLabelValues("DOMESTIC_PAYMENT", OutcomeReplayed)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("DOMESTIC_PAYMENT", "Authorised")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("NOT_FOUND")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()
	var m *Metrics

	require.NotPanics(t, func() {
		m.ObserveCreate("x", OutcomeCreated)
		m.ObserveTransition("x", "Rejected")
		m.ObserveError("x")
		m.ObserveRequest(http.MethodGet, "/livez", http.StatusOK, time.Millisecond)
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()
	m := New()
	m.ObserveError("ILLEGAL_STATE_TRANSITION")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `rcs_consent_errors_total{kind="ILLEGAL_STATE_TRANSITION"} 1`))
}
