package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveRefresh(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	// --- Act ---
	r.ObserveRefresh(OutcomeSuccess, 10*time.Millisecond, RefreshStats{Definitions: 3, Resources: 2, Overrides: 1})
	r.ObserveRefresh(OutcomeFailure, 5*time.Millisecond, RefreshStats{Definitions: 1, Resources: 1})

	// --- Assert ---
	assert.Equal(t, 1.0, testutil.ToFloat64(r.refreshes.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.refreshes.WithLabelValues("failure")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.definitions), "a failed refresh must not replace the gauge")
	assert.Equal(t, 3.0, testutil.ToFloat64(r.resources))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.overrides))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()

	var r *Recorder
	require.NotPanics(t, func() {
		r.ObserveRefresh(OutcomeSuccess, time.Second, RefreshStats{})
	})
}

func TestNewRecorder_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	require.Error(t, err)
}

func TestHandler_ServesMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)
	r.ObserveRefresh(OutcomeSuccess, time.Millisecond, RefreshStats{Definitions: 7})

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fsctx_definitions 7")
	assert.Contains(t, rec.Body.String(), `fsctx_refreshes_total{outcome="success"} 1`)
}
