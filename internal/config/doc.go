// Package config defines the typed configuration for ckptkit.
//
// Dynamic parameter dictionaries from the benchmark world are folded
// into one structure with enumerated options and explicit defaults;
// the raw map survives only at the boundary, where tri-state flags
// (absent / explicitly on / explicitly off) are resolved.
package config
