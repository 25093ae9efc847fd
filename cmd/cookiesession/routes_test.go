package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookiesession/pkg/logger"
	"github.com/dmitrymomot/cookiesession/pkg/metrics"
	"github.com/dmitrymomot/cookiesession/pkg/session"
)

func newTestRouter(t *testing.T, opts ...session.Option) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	opts = append(opts, session.WithObserver(metrics.New(metrics.WithRegistry(reg))))
	m, err := session.New([]string{"k1"}, opts...)
	require.NoError(t, err)
	return newRouter(m, reg, logger.Discard())
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values, cookies ...*http.Cookie) (*httptest.ResponseRecorder, sessionView) {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var view sessionView
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	}
	return rec, view
}

func TestRouter_SessionFlow(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec, view := do(t, h, http.MethodGet, "/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new", view.State)
	assert.Empty(t, view.Data)

	rec, view = do(t, h, http.MethodPost, "/session", url.Values{"user": {"u1"}, "role": {"admin"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", view.Data["role"])
	require.NotNil(t, view.ExpiresAt)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	sessionCookie := cookies[0]

	rec, view = do(t, h, http.MethodGet, "/session", nil, sessionCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "restored", view.State)
	assert.Equal(t, "u1", view.Data["user"])

	rec, view = do(t, h, http.MethodPost, "/session/regenerate", nil, sessionCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new", view.State)
	assert.Empty(t, view.Data)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")

	rec, _ = do(t, h, http.MethodDelete, "/session", nil, sessionCookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestRouter_TooLarge(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t, session.WithMaxCookieSize(200))

	rec, _ := do(t, h, http.MethodPost, "/session", url.Values{"blob": {strings.Repeat("x", 400)}})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, rec.Header().Values("Set-Cookie"))
}

func TestRouter_Probes(t *testing.T) {
	t.Parallel()
	h := newTestRouter(t)

	rec, _ := do(t, h, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	rec, _ = do(t, h, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "READY", rec.Body.String())

	do(t, h, http.MethodGet, "/session", nil)
	rec, _ = do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `cookiesession_loads_total{outcome="missing"}`)
}
