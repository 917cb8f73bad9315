package config

// Default configuration values.
const (
	DefaultSaveDir      = "save"
	DefaultSaveBestStat = "loss"
	DefaultRestart      = "auto"

	DefaultEpochs       = 10
	DefaultBatchSize    = 10
	DefaultLearningRate = 1e-3
	DefaultTrainSamples = 100
	DefaultValidSamples = 100
	DefaultClasses      = 10
	DefaultFeatures     = 1 << 14
	DefaultSeed         = 7

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Checkpoint: CheckpointSection{
			SaveDir:         DefaultSaveDir,
			SaveBestStat:    DefaultSaveBestStat,
			SaveWeightsOnly: true,
			Checksum:        true,
			Restart:         DefaultRestart,
			RequireJSON:     true,
		},
		Train: TrainSection{
			Epochs:       DefaultEpochs,
			BatchSize:    DefaultBatchSize,
			LearningRate: DefaultLearningRate,
			TrainSamples: DefaultTrainSamples,
			ValidSamples: DefaultValidSamples,
			Classes:      DefaultClasses,
			Features:     DefaultFeatures,
			Seed:         DefaultSeed,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
