package config

import (
	"errors"
	"fmt"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyCheckpoint(&cfg.Checkpoint); err != nil {
		return err
	}
	if err := verifyTrain(&cfg.Train); err != nil {
		return err
	}
	return nil
}

func verifyCheckpoint(cfg *CheckpointSection) error {
	if cfg.SaveDir == "" {
		return errors.New("checkpoint.save_dir is required")
	}
	if cfg.SkipEpochs < 0 {
		return fmt.Errorf("checkpoint.skip_epochs must be non-negative, got %d", cfg.SkipEpochs)
	}
	if cfg.SaveBestOnly && cfg.SaveBestStat == "" {
		return errors.New("checkpoint.save_best_only requires checkpoint.save_best_stat")
	}
	switch cfg.Restart {
	case "off", "auto", "required":
	default:
		return fmt.Errorf("checkpoint.restart must be off, auto or required, got %q", cfg.Restart)
	}
	return nil
}

func verifyTrain(cfg *TrainSection) error {
	if cfg.Epochs < 1 {
		return errors.New("train.epochs must be at least 1")
	}
	if cfg.BatchSize < 1 {
		return errors.New("train.batch_size must be at least 1")
	}
	if cfg.LearningRate <= 0 {
		return errors.New("train.learning_rate must be positive")
	}
	if cfg.Classes < 2 {
		return errors.New("train.classes must be at least 2")
	}
	if cfg.Features < 1 {
		return errors.New("train.features must be at least 1")
	}
	return nil
}
