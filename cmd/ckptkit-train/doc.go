// Package main provides the entry point for ckptkit-train.
//
// The trainer is the benchmark process that exercises the
// checkpoint/restart subsystem:
//
//   - fits a hashed bag-of-words classifier on a synthetic task
//   - consults the save policy and rotates snapshots every epoch
//   - resumes from the last good snapshot after a crash or restart
//   - exposes a read-only HTTP monitor with status and metrics
//
// Usage:
//
//	ckptkit-train [flags]
//	ckptkit-train --config /path/to/config.yaml
//
// Configuration is loaded from defaults, then the YAML file, then
// CKPTKIT_* environment variables.
package main
