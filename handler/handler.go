package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/zeroprod/newsletter/ops"
)

const (
	HealthCheckPath   = "/health_check"
	SubscriptionsPath = "/subscriptions"
)

// NewHandler returns the router serving the newsletter's HTTP API.
func NewHandler(agent ops.SubscriptionAgent, logger *zerolog.Logger) http.Handler {
	h := &intakeHandler{agent: agent}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get(HealthCheckPath, healthCheck)
	r.Post(SubscriptionsPath, h.subscribe)
	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
