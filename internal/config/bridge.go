package config

import (
	"fmt"

	"github.com/yndnr/ckptkit-go/internal/checkpoint"
	"github.com/yndnr/ckptkit-go/pkg/crypto/adaptive"
)

// Build converts the section into the checkpoint subsystem's
// configuration, constructing the at-rest cipher when a key is set.
func (s *CheckpointSection) Build() (checkpoint.Config, error) {
	cfg := checkpoint.DefaultConfig(s.SaveDir)
	cfg.SkipEpochs = s.SkipEpochs
	cfg.SaveBestOnly = s.SaveBestOnly
	if s.SaveBestStat != "" {
		cfg.SaveBestStat = s.SaveBestStat
	}
	cfg.SaveWeightsOnly = s.SaveWeightsOnly
	cfg.Checksum = s.Checksum
	cfg.Metadata = s.Metadata
	cfg.Clean = s.Clean
	cfg.Restart = checkpoint.RestartMode(s.Restart)
	cfg.RequireDescriptor = s.RequireJSON

	if s.EncryptionKey != "" {
		key, err := adaptive.ParseKey(s.EncryptionKey)
		if err != nil {
			return checkpoint.Config{}, fmt.Errorf("checkpoint.encryption_key: %w", err)
		}
		cipher, err := adaptive.New(key)
		if err != nil {
			return checkpoint.Config{}, fmt.Errorf("checkpoint.encryption_key: %w", err)
		}
		cfg.Cipher = cipher
	}
	return cfg, nil
}
