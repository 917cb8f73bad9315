// Package params resolves named values from loosely typed parameter
// maps, the shape produced by YAML configuration files and benchmark
// parameter dictionaries.
//
// Boolean flags are deliberately tri-state: a key can be absent,
// explicitly true, or explicitly false, and Enabled/Disabled let the
// caller tell "explicitly turned off" apart from "not configured".
package params
