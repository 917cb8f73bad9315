package checkpoint

import (
	"fmt"
	"strings"

	"github.com/yndnr/ckptkit-go/pkg/crypto/adaptive"
	"github.com/yndnr/ckptkit-go/pkg/params"
)

// Directory and file names inside the snapshot root.
const (
	DirWork = "ckpt-work"
	DirGood = "ckpt-good"
	DirOld  = "ckpt-old"

	WeightsFile    = "model.bin"
	DescriptorFile = "ckpt-info.json"
)

// Sentinel values persisted in descriptors.
const (
	// ChecksumDisabled is stored in the checksum field when
	// checksumming is turned off.
	ChecksumDisabled = "__DISABLED__"
)

// DefaultSaveBestStat is the metric tracked when none is configured.
const DefaultSaveBestStat = "loss"

// RestartMode controls whether Restart attempts to resume.
type RestartMode string

const (
	// RestartOff disables restart entirely.
	RestartOff RestartMode = "off"
	// RestartAuto resumes from a good snapshot when one exists.
	RestartAuto RestartMode = "auto"
	// RestartRequired fails when no good snapshot can be loaded.
	RestartRequired RestartMode = "required"
)

// Config configures the checkpointer.
type Config struct {
	// Dir is the snapshot root; the ckpt-work/ckpt-good/ckpt-old
	// triple lives directly under it.
	Dir string

	// SkipEpochs suppresses saves for the first N epochs.
	SkipEpochs int

	// SaveBestOnly writes a snapshot only when SaveBestStat improved.
	SaveBestOnly bool

	// SaveBestStat is the metric tracked for improvement. Lower is
	// better, consistent with loss-style metrics.
	SaveBestStat string

	// SaveWeightsOnly omits trainer state from the artifact.
	SaveWeightsOnly bool

	// Checksum enables CRC-32 verification of the weights artifact.
	Checksum bool

	// Metadata is a free-form string recorded in each descriptor
	// (job ID, hardware info).
	Metadata string

	// Clean removes ckpt-old immediately after rotation. When false,
	// one extra generation stays on disk until the next save event.
	Clean bool

	// Restart selects the restart mode.
	Restart RestartMode

	// RequireDescriptor makes a weights artifact without a descriptor
	// a fatal inconsistency on restart.
	RequireDescriptor bool

	// Cipher, when set, encrypts the weights artifact at rest.
	Cipher adaptive.Cipher
}

// DefaultConfig returns the default checkpointer configuration rooted
// at dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:               dir,
		SaveBestStat:      DefaultSaveBestStat,
		SaveWeightsOnly:   true,
		Checksum:          true,
		Restart:           RestartAuto,
		RequireDescriptor: true,
	}
}

// ConfigFromParams builds a Config from a loosely typed parameter map,
// preserving the tri-state semantics of boolean flags: checksum,
// restart and require_json stay at their defaults unless explicitly
// turned off.
func ConfigFromParams(dir string, p params.Map) Config {
	cfg := DefaultConfig(dir)
	cfg.SkipEpochs = params.Int(p, "skip_epochs", 0)
	cfg.SaveBestOnly = params.Enabled(p, "save_best_only")
	cfg.SaveBestStat = params.Param(p, "save_best_stat", DefaultSaveBestStat)
	cfg.SaveWeightsOnly = !params.Disabled(p, "save_weights_only")
	cfg.Checksum = !params.Disabled(p, "checksum")
	cfg.Metadata = params.Param(p, "metadata", "")
	cfg.Clean = params.Enabled(p, "clean")
	cfg.RequireDescriptor = !params.Disabled(p, "require_json")
	cfg.Restart = restartMode(p)
	return cfg
}

// restartMode folds the restart parameter into a mode. Absent means
// auto: restart is attempted unless explicitly turned off.
func restartMode(p params.Map) RestartMode {
	if params.Disabled(p, "restart") {
		return RestartOff
	}
	if s, ok := p["restart"].(string); ok {
		switch strings.ToLower(s) {
		case string(RestartRequired):
			return RestartRequired
		case string(RestartAuto):
			return RestartAuto
		}
	}
	return RestartAuto
}

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if cfg.Dir == "" {
		return fmt.Errorf("checkpoint: dir is required")
	}
	if cfg.SkipEpochs < 0 {
		return fmt.Errorf("checkpoint: skip_epochs must be non-negative, got %d", cfg.SkipEpochs)
	}
	if cfg.SaveBestOnly && cfg.SaveBestStat == "" {
		return fmt.Errorf("checkpoint: save_best_only requires save_best_stat")
	}
	switch cfg.Restart {
	case RestartOff, RestartAuto, RestartRequired:
	default:
		return fmt.Errorf("checkpoint: unknown restart mode %q", cfg.Restart)
	}
	return nil
}
