// Package checkpoint provides crash-safe checkpoint/restart for
// training loops.
//
// A snapshot is a weights artifact plus a JSON descriptor, written to
// a working directory and promoted with an atomic directory rotation:
//
//  1. Write current state to ckpt-work
//  2. Rename ckpt-good to ckpt-old
//  3. Rename ckpt-work to ckpt-good
//  4. Delete ckpt-old
//
// Because a rename is atomic and ckpt-work is fully populated before
// promotion, ckpt-good always holds either the previous valid snapshot
// or the new one; a crash can orphan ckpt-work or ckpt-old but never
// corrupt ckpt-good. The caller owns the training loop and invokes
// ShouldSave/WriteSnapshot once per epoch, and Restart once before the
// loop starts.
package checkpoint
