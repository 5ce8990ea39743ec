package api

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Pinger probes one dependency.
type Pinger func(ctx context.Context) error

// HealthHandler reports on the two things bookings need: the appointment
// store and the Redis-backed doctor-calendar lock.
type HealthHandler struct {
	store   Pinger
	lock    Pinger
	env     string
	version string
}

func NewHealthHandler(pgPool *pgxpool.Pool, rdb *redis.Client, env, version string) *HealthHandler {
	return &HealthHandler{
		store:   pgPool.Ping,
		lock:    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		env:     env,
		version: version,
	}
}

type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Env     string `json:"env,omitempty"`
}

type ReadinessResponse struct {
	Status       string            `json:"status"`
	Version      string            `json:"version,omitempty"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{
		Status:  "ok",
		Version: h.version,
		Env:     h.env,
	})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	deps := map[string]string{
		"appointment_store": "ok",
		"booking_lock":      "ok",
	}
	status := "ok"

	if err := probe(ctx, h.store); err != nil {
		deps["appointment_store"] = "down"
		status = "error"
	}

	// Without the lock new bookings are refused, but reads and the status
	// lifecycle keep working.
	if err := probe(ctx, h.lock); err != nil {
		deps["booking_lock"] = "down"
		if status == "ok" {
			status = "degraded"
		}
	}

	httpStatus := http.StatusOK
	if status == "error" {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, ReadinessResponse{
		Status:       status,
		Version:      h.version,
		Env:          h.env,
		Dependencies: deps,
	})
}

func probe(ctx context.Context, p Pinger) error {
	probeCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	return p(probeCtx)
}
