// Package command provides CLI command definitions for ckptkit-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - inspect: show the descriptor and generations of a snapshot root
//   - verify:  recompute the weights checksum against the descriptor
//   - prune:   remove stale work/old generations
//   - status:  query a running trainer's monitor endpoint
//
// Commands operate directly on the snapshot directory triple, except
// status which talks to the monitor HTTP server.
package command
