// Package metric provides Prometheus metrics for ckptkit.
//
// It exposes checkpoint I/O and training-loop metrics so long runs can
// be watched from the monitor endpoint: snapshot write latencies and
// sizes, checksum throughput, restart counts, and the current
// epoch/loss/best-stat values.
package metric
