package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/alexgrant/todo-api/internal/cache"
	"github.com/alexgrant/todo-api/internal/config"
	"gorm.io/gorm"
)

const version = "1.0.0"

// HealthHandler reports process uptime plus store and cache connectivity.
// Readiness tracks the database; liveness only that the process responds.
type HealthHandler struct {
	db        *gorm.DB
	cache     *cache.Cache
	cfg       *config.Config
	startedAt time.Time
}

func NewHealthHandler(db *gorm.DB, cacheClient *cache.Cache, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cache:     cacheClient,
		cfg:       cfg,
		startedAt: time.Now(),
	}
}

type serviceStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	services := map[string]serviceStatus{}

	if err := h.pingDB(ctx); err != nil {
		services["postgres"] = serviceStatus{Status: "unhealthy", Error: err.Error()}
	} else {
		services["postgres"] = serviceStatus{Status: "healthy"}
	}

	if h.cache.Enabled() {
		if err := h.cache.Ping(ctx); err != nil {
			services["redis"] = serviceStatus{Status: "unhealthy", Error: err.Error()}
		} else {
			services["redis"] = serviceStatus{Status: "healthy"}
		}
	}

	healthy := true
	for _, s := range services {
		if s.Status != "healthy" {
			healthy = false
		}
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, Response{
		Success: healthy,
		Data: map[string]interface{}{
			"uptime":      time.Since(h.startedAt).Seconds(),
			"timestamp":   time.Now().UTC(),
			"environment": h.cfg.Environment,
			"version":     version,
			"services":    services,
		},
	})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.pingDB(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Service is not ready")
		return
	}

	writeMessage(w, http.StatusOK, "Service is ready", nil)
}

func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, http.StatusOK, "Service is alive", map[string]interface{}{
		"uptime": time.Since(h.startedAt).Seconds(),
	})
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
