package session

import (
	"net/http"
)

// Middleware loads the request's session and stores it in the request
// context. Loading never fails; a missing or unreadable cookie yields an
// empty session. Handlers call Save to persist changes.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := m.Load(r.Context(), w, r)
		ctx := WithSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRestored rejects requests that do not carry a valid session cookie.
func (m *Manager) RequireRestored(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := FromContext(r.Context())
		if !ok {
			session = m.Load(r.Context(), w, r)
		}
		if session.State() != StateRestored {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := WithSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
