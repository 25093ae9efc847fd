package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookiesession/pkg/metrics"
	"github.com/dmitrymomot/cookiesession/pkg/session"
)

func TestObserver_Direct(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	obs := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("test"))

	obs.SessionLoaded(session.LoadRestored, 5*time.Millisecond)
	obs.SessionLoaded(session.LoadRestored, time.Millisecond)
	obs.SessionLoaded(session.LoadExpired, time.Millisecond)
	obs.KeyAttemptFailed(0, session.ReasonDecrypt)
	obs.KeyAttemptFailed(12, session.ReasonTimeout)
	obs.SessionSaved(session.SaveWritten, 900)
	obs.SessionSaved(session.SaveTooLarge, 0)

	expected := `
# HELP test_loads_total Total number of session loads by outcome
# TYPE test_loads_total counter
test_loads_total{outcome="expired"} 1
test_loads_total{outcome="restored"} 2
# HELP test_key_attempt_failures_total Total number of failed decrypt attempts by key index and reason
# TYPE test_key_attempt_failures_total counter
test_key_attempt_failures_total{key_index="0",reason="decrypt"} 1
test_key_attempt_failures_total{key_index="10+",reason="timeout"} 1
# HELP test_saves_total Total number of session saves by outcome
# TYPE test_saves_total counter
test_saves_total{outcome="too_large"} 1
test_saves_total{outcome="written"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"test_loads_total", "test_key_attempt_failures_total", "test_saves_total"))

	n, err := testutil.GatherAndCount(reg, "test_load_duration_seconds", "test_cookie_bytes")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestObserver_WithManager(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := session.New([]string{"k2", "k1"},
		session.WithObserver(metrics.New(metrics.WithRegistry(reg))))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	s := m.Load(context.Background(), rec, httptest.NewRequest(http.MethodGet, "/", nil))
	s.Set("a", 1)
	require.NoError(t, s.Save(context.Background()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultName, Value: "AAAA"})
	m.Load(context.Background(), httptest.NewRecorder(), req)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(mfs))
	for _, mf := range mfs {
		names = append(names, mf.GetName())
	}
	assert.Contains(t, names, "cookiesession_loads_total")
	assert.Contains(t, names, "cookiesession_saves_total")
	assert.Contains(t, names, "cookiesession_key_attempt_failures_total")

	expected := `
# HELP cookiesession_key_attempt_failures_total Total number of failed decrypt attempts by key index and reason
# TYPE cookiesession_key_attempt_failures_total counter
cookiesession_key_attempt_failures_total{key_index="0",reason="decrypt"} 1
cookiesession_key_attempt_failures_total{key_index="1",reason="decrypt"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"cookiesession_key_attempt_failures_total"))
}

func TestNew_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics.New(metrics.WithRegistry(reg))
	assert.Panics(t, func() { metrics.New(metrics.WithRegistry(reg)) })
}
