// Package monitor provides the HTTP monitoring server.
package monitor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/ckptkit-go/internal/infra/buildinfo"
	"github.com/yndnr/ckptkit-go/internal/telemetry/logger"
	"github.com/yndnr/ckptkit-go/internal/telemetry/metric"
	"github.com/yndnr/ckptkit-go/internal/train"
)

// RouterConfig holds configuration for the monitor router.
type RouterConfig struct {
	// Status is the live run status published by the trainer.
	Status *train.Status

	// Metrics serves the /metrics endpoint; nil disables it.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger logger.Logger
}

// NewRouter creates the monitor HTTP handler with all routes and
// middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Status == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"error": "no training run attached",
			})
			return
		}
		writeJSON(w, http.StatusOK, cfg.Status.Snapshot())
	})

	mux.HandleFunc("GET /buildinfo", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, buildinfo.Get())
	})

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	return Chain(mux, RequestID(), Recover(log), AccessLog(log))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
