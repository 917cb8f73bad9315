// Package checksum computes streaming CRC-32 checksums of files.
//
// Files are read in fixed-size chunks and folded into a running
// CRC-32 (IEEE) accumulator, so arbitrarily large weight artifacts are
// checksummed without loading them into memory. The result is the
// accumulator rendered as a decimal string; identical byte contents
// always yield the identical string, independent of chunk boundaries.
package checksum
