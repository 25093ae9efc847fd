package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/cookiesession/pkg/httpserver"
	"github.com/dmitrymomot/cookiesession/pkg/keyring"
	"github.com/dmitrymomot/cookiesession/pkg/logger"
	"github.com/dmitrymomot/cookiesession/pkg/session"
)

type sessionView struct {
	State     string         `json:"state"`
	Data      map[string]any `json:"data"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
}

func newRouter(m *session.Manager, reg *prometheus.Registry, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.Liveness())
	r.Get("/readyz", httpserver.Readiness(log, 2*m.Resolver().Timeout()+time.Second,
		httpserver.Check{Name: "session", Fn: m.SelfCheck}))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	h := &sessionHandlers{log: log}
	r.Route("/session", func(r chi.Router) {
		r.Use(m.Middleware)
		r.Get("/", h.show)
		r.Post("/", h.update)
		r.Delete("/", h.clear)
		r.Post("/regenerate", h.regenerate)
	})
	return r
}

type sessionHandlers struct {
	log *slog.Logger
}

func (h *sessionHandlers) show(w http.ResponseWriter, r *http.Request) {
	writeSession(w, http.StatusOK, session.MustFromContext(r.Context()))
}

// update stores every submitted form field in the session.
func (h *sessionHandlers) update(w http.ResponseWriter, r *http.Request) {
	s := session.MustFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	for key := range r.PostForm {
		s.Set(key, r.PostForm.Get(key))
	}
	h.save(w, r, s, http.StatusOK)
}

func (h *sessionHandlers) clear(w http.ResponseWriter, r *http.Request) {
	s := session.MustFromContext(r.Context())
	s.Clear()
	h.save(w, r, s, http.StatusOK)
}

func (h *sessionHandlers) regenerate(w http.ResponseWriter, r *http.Request) {
	s := session.MustFromContext(r.Context())
	if err := s.Regenerate(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.save(w, r, s, http.StatusOK)
}

func (h *sessionHandlers) save(w http.ResponseWriter, r *http.Request, s *session.Session, status int) {
	if err := s.Save(r.Context()); err != nil {
		h.log.WarnContext(r.Context(), "save failed", logger.Error(err))
		code := http.StatusInternalServerError
		if errors.Is(err, keyring.ErrTooLarge) {
			code = http.StatusRequestEntityTooLarge
		}
		http.Error(w, http.StatusText(code), code)
		return
	}
	writeSession(w, status, s)
}

func writeSession(w http.ResponseWriter, status int, s *session.Session) {
	view := sessionView{State: s.State().String(), Data: s.Values()}
	if exp := s.ExpiresAt(); !exp.IsZero() {
		view.ExpiresAt = &exp
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(view)
}
