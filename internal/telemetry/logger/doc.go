// Package logger provides structured logging for ckptkit.
//
// It wraps the standard library log/slog to provide structured JSON
// logging with a dynamically adjustable level, so long training runs
// can switch between info and debug without restarting.
package logger
