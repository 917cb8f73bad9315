// Package shutdown provides graceful shutdown for ckptkit.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Timeout-based forced shutdown
//   - Cleanup callback registration
//   - Programmatic shutdown for runs that finish on their own
//
// Usage:
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(server.Stop)
//	err := h.Wait() // blocks until signal or h.Trigger()
package shutdown
