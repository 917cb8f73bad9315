// Package train implements the synthetic benchmark trainer.
//
// The trainer exists to exercise the checkpoint/restart subsystem with
// a realistic training loop: a hashed bag-of-words classifier is fit on
// a deterministic synthetic clinical-note task, and the checkpoint save
// policy is consulted after every epoch. Killing the process mid-run
// and starting it again resumes from the last good snapshot.
package train
