package config

// Config is the root configuration for ckptkit-train.
type Config struct {
	Checkpoint CheckpointSection `koanf:"checkpoint"`
	Train      TrainSection      `koanf:"train"`
	Monitor    MonitorSection    `koanf:"monitor"`
	Log        LogSection        `koanf:"log"`
}

// CheckpointSection configures the checkpoint/restart subsystem.
type CheckpointSection struct {
	// SaveDir is the snapshot root; the ckpt-work/good/old triple
	// lives under it.
	SaveDir string `koanf:"save_dir"`

	// SkipEpochs suppresses saves for the first N epochs.
	SkipEpochs int `koanf:"skip_epochs"`

	// SaveBestOnly saves only when SaveBestStat improved.
	SaveBestOnly bool `koanf:"save_best_only"`

	// SaveBestStat is the tracked metric (lower is better).
	SaveBestStat string `koanf:"save_best_stat"`

	// SaveWeightsOnly omits trainer state from the artifact.
	SaveWeightsOnly bool `koanf:"save_weights_only"`

	// Checksum enables CRC-32 verification of weight artifacts.
	Checksum bool `koanf:"checksum"`

	// Metadata is a free-form string recorded in each descriptor.
	Metadata string `koanf:"metadata"`

	// Clean deletes the displaced generation immediately after each
	// rotation instead of keeping one extra on disk.
	Clean bool `koanf:"clean"`

	// Restart is the restart mode: off, auto or required.
	Restart string `koanf:"restart"`

	// RequireJSON makes a weights artifact without a descriptor a
	// fatal inconsistency on restart.
	RequireJSON bool `koanf:"require_json"`

	// EncryptionKey, when set, encrypts weight artifacts at rest.
	// Hex-encoded 32-byte key.
	EncryptionKey string `koanf:"encryption_key"`
}

// TrainSection configures the synthetic benchmark trainer.
type TrainSection struct {
	Epochs       int     `koanf:"epochs"`
	BatchSize    int     `koanf:"batch_size"`
	LearningRate float64 `koanf:"learning_rate"`

	TrainSamples int `koanf:"train_samples"`
	ValidSamples int `koanf:"valid_samples"`

	// Classes is the number of label classes in the synthetic
	// clinical-note task.
	Classes int `koanf:"classes"`

	// Features is the hashed feature-space dimension.
	Features int `koanf:"features"`

	// Seed makes the synthetic dataset and initialization
	// reproducible.
	Seed int64 `koanf:"seed"`
}

// MonitorSection configures the read-only monitoring endpoint.
type MonitorSection struct {
	// Addr is the listen address; empty disables the server.
	Addr string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
