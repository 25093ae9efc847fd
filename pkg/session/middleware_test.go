package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cookiesession/pkg/session"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	m := newManager(t, []string{"k1"})
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.MustFromContext(r.Context())
		visits, _ := s.GetInt("visits")
		s.Set("visits", visits+1)
		if err := s.Save(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	var last *http.Cookie
	for i := 1; i <= 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if last != nil {
			req.AddCookie(last)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		last = cookies[0]

		visits, ok := loadWith(m, last).GetInt("visits")
		require.True(t, ok)
		assert.Equal(t, i, visits)
	}
}

func TestRequireRestored(t *testing.T) {
	t.Parallel()

	m := newManager(t, []string{"k1"})
	c := saveCookie(t, m, func(s *session.Session) { s.Set("user", "u1") })

	protected := m.RequireRestored(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := session.MustFromContext(r.Context())
		user, _ := s.GetString("user")
		_, _ = w.Write([]byte(user))
	}))

	tests := []struct {
		name     string
		cookie   *http.Cookie
		wrap     bool
		wantCode int
		wantBody string
	}{
		{name: "no cookie", wantCode: http.StatusUnauthorized},
		{name: "garbage", cookie: &http.Cookie{Name: session.DefaultName, Value: "x"}, wantCode: http.StatusUnauthorized},
		{name: "valid", cookie: c, wantCode: http.StatusOK, wantBody: "u1"},
		{name: "valid behind middleware", cookie: c, wrap: true, wantCode: http.StatusOK, wantBody: "u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}
			rec := httptest.NewRecorder()

			var h http.Handler = protected
			if tt.wrap {
				h = m.Middleware(protected)
			}
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestContext(t *testing.T) {
	t.Parallel()

	_, ok := session.FromContext(context.Background())
	assert.False(t, ok)
	assert.Panics(t, func() { session.MustFromContext(context.Background()) })

	m := newManager(t, []string{"k1"})
	s := loadWith(m, nil)
	ctx := session.WithSession(context.Background(), s)

	got, ok := session.FromContext(ctx)
	require.True(t, ok)
	assert.Same(t, s, got)
}
