// Package adaptive provides authenticated encryption with automatic
// algorithm selection, used for at-rest protection of checkpoint
// weight artifacts.
//
// It selects the optimal cipher for the host:
//   - AES-GCM where AES hardware acceleration is available
//   - ChaCha20-Poly1305 otherwise
//
// Both produce a nonce-prefixed ciphertext. A file encrypted on one
// host decrypts on another regardless of which algorithm is picked for
// local writes; the algorithm is recorded by the caller, not inferred.
package adaptive
