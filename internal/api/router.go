package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/medpoint/practice-scheduling/internal/localization"
)

type RouterConfig struct {
	Handlers  *AppointmentHandlers
	Messages  *localization.Catalog
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	JWTSecret string
	Env       string
	Version   string
	Log       *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	h := cfg.Handlers
	r.Route("/appointments", func(r chi.Router) {
		// The public booking form posts here; keep it rate limited.
		r.With(httprate.LimitByIP(30, time.Minute)).Post("/", h.Create)

		// Everything else is staff only.
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.JWTSecret, cfg.Messages))
			r.Get("/", h.List)
			r.Get("/todays", h.Todays)
			r.Get("/{id}", h.Get)
			r.Put("/{id}", h.Update)
			r.Put("/{id}/approve", h.Approve)
			r.Put("/{id}/reject", h.Reject)
			r.Put("/{id}/cancel", h.Cancel)
		})
	})

	return r
}
