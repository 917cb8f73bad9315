// Package monitor provides the read-only HTTP monitoring endpoint for
// a training run.
//
// It exposes:
//
//   - GET /healthz   liveness probe
//   - GET /status    live run status (epoch, metrics, last snapshot)
//   - GET /buildinfo build version information
//   - GET /metrics   Prometheus metrics
//
// The server never mutates training state; it only observes it.
package monitor
