package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Transition("authenticated")
	m.Transition("authenticated")
	m.Startup("verified")
	m.ErrorReported("handleLogin")
	m.ReportDropped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("authenticated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.startup.WithLabelValues("verified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reported.WithLabelValues("handleLogin")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped))
}

func TestMetrics_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) })
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Startup("no_credentials")

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), `sakhi_session_startup_total{outcome="no_credentials"} 1`))
}
