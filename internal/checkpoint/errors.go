package checkpoint

import "errors"

var (
	// ErrMetricMissing means save_best_only is requested but the
	// tracked statistic is absent from the epoch's metric map. This is
	// a configuration error and fatal: retrying cannot produce the
	// metric.
	ErrMetricMissing = errors.New("checkpoint: tracked metric missing from logs")

	// ErrMissingDescriptor means a weights artifact exists in the good
	// directory without its descriptor, and strict mode requires one.
	ErrMissingDescriptor = errors.New("checkpoint: weights present but descriptor missing")

	// ErrChecksumMismatch means the weights artifact does not match
	// the checksum recorded in its descriptor. The artifact is never
	// loaded in that case.
	ErrChecksumMismatch = errors.New("checkpoint: checksum mismatch")

	// ErrNoSnapshot means restart was required but no good snapshot
	// exists.
	ErrNoSnapshot = errors.New("checkpoint: no good snapshot available")

	// ErrEncryptedSnapshot means the artifact was written encrypted
	// and no decryption key is configured.
	ErrEncryptedSnapshot = errors.New("checkpoint: snapshot is encrypted and no key is configured")
)
