// Package main provides the entry point for ckptkit-cli.
//
// ckptkit-cli is the command-line tool for inspecting, verifying and
// pruning checkpoint snapshot directories, and for querying a running
// trainer's monitor endpoint.
package main
