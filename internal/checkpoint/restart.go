package checkpoint

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/ckptkit-go/pkg/checksum"
)

// Restart loads the most recent valid snapshot into model, when one
// exists and restart is enabled. It returns the snapshot's descriptor
// so the caller can resume its epoch counter at epoch+1 and seed the
// policy state via StateFromDescriptor; a nil descriptor means no
// restart happened.
//
// The weights artifact is verified against the descriptor's checksum
// before it is loaded; a corrupted artifact is never loaded silently.
func (c *Checkpointer) Restart(model Model) (*Descriptor, error) {
	if c.cfg.Restart == RestartOff {
		c.log.Debug("restart disabled by configuration")
		return nil, nil
	}

	good := c.goodDir()
	weightsPath := filepath.Join(good, WeightsFile)
	if !dirExists(weightsPath) {
		if c.cfg.Restart == RestartRequired {
			return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, good)
		}
		// First run.
		return nil, nil
	}

	c.log.Info("restarting", "path", weightsPath)

	desc, err := c.loadDescriptor(good, weightsPath)
	if err != nil {
		return nil, err
	}
	if desc != nil {
		c.log.Info("restarting from snapshot",
			"epoch", desc.Epoch,
			"timestamp", desc.Timestamp)
	}

	if err := c.loadWeights(model, desc, weightsPath); err != nil {
		return nil, err
	}

	if c.metrics != nil {
		c.metrics.Restarts.Inc()
	}

	if desc == nil {
		// Relaxed mode: weights were loaded without metadata. The
		// synthetic descriptor restarts the epoch counter from zero.
		desc = &Descriptor{
			ModelFile:    WeightsFile,
			Checksum:     ChecksumDisabled,
			BestStatLast: Stat(math.Inf(1)),
		}
	}
	return desc, nil
}

// loadDescriptor reads and validates the descriptor in dir. A missing
// descriptor is fatal unless RequireDescriptor was relaxed, in which
// case it returns nil and the caller proceeds without metadata.
func (c *Checkpointer) loadDescriptor(dir, weightsPath string) (*Descriptor, error) {
	desc, err := ReadDescriptor(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if c.cfg.RequireDescriptor {
			return nil, fmt.Errorf("%w: %s", ErrMissingDescriptor, dir)
		}
		c.log.Warn("weights exist without descriptor; loading without metadata validation",
			"dir", dir)
		return nil, nil
	}

	c.log.Debug("descriptor loaded", "descriptor", fmt.Sprintf("%+v", *desc))

	if c.cfg.Checksum && desc.Checksum != ChecksumDisabled {
		sum, err := checksum.SumLogged(weightsPath, c.log.Slog())
		if err != nil {
			return nil, err
		}
		if sum != desc.Checksum {
			return nil, fmt.Errorf("%w: directory %s: expected %s, actual %s",
				ErrChecksumMismatch, dir, desc.Checksum, sum)
		}
	}
	return desc, nil
}

// loadWeights streams the artifact into the model, decrypting first
// when the snapshot was written encrypted.
func (c *Checkpointer) loadWeights(model Model, desc *Descriptor, path string) error {
	start := time.Now()

	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("checkpoint: stat weights: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("checkpoint: open weights: %w", err)
	}
	defer f.Close()

	encrypted := c.cfg.Cipher != nil
	if desc != nil {
		encrypted = desc.Encrypted
	}

	var src io.Reader = f
	if encrypted {
		if c.cfg.Cipher == nil {
			return fmt.Errorf("%w: %s", ErrEncryptedSnapshot, path)
		}
		sealed, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("checkpoint: read weights: %w", err)
		}
		plain, err := c.cfg.Cipher.Decrypt(sealed, nil)
		if err != nil {
			return fmt.Errorf("checkpoint: decrypt weights: %w", err)
		}
		src = bytes.NewReader(plain)
	}

	if err := c.deserialize(model, src); err != nil {
		return err
	}

	elapsed := time.Since(start).Seconds()
	mb := float64(stat.Size()) / (1 << 20)
	rate := 0.0
	if elapsed > 0 {
		rate = mb / elapsed
	}
	c.log.Info("model read",
		"path", path,
		"mb", fmt.Sprintf("%.3f", mb),
		"seconds", fmt.Sprintf("%.3f", elapsed),
		"mb_per_sec", fmt.Sprintf("%.2f", rate))
	return nil
}

// deserialize mirrors serialize: full state when configured and
// supported, weights only otherwise.
func (c *Checkpointer) deserialize(model Model, r io.Reader) error {
	if !c.cfg.SaveWeightsOnly {
		if fm, ok := model.(FullStateModel); ok {
			if err := fm.LoadFull(r); err != nil {
				return fmt.Errorf("checkpoint: load full state: %w", err)
			}
			return nil
		}
	}
	if err := model.LoadWeights(r); err != nil {
		return fmt.Errorf("checkpoint: load weights: %w", err)
	}
	return nil
}
