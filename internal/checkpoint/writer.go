package checkpoint

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/ckptkit-go/pkg/checksum"
)

// WriteSnapshot persists a snapshot for epoch and atomically promotes
// it to ckpt-good. It must only be called after ShouldSave returned
// true for the epoch. The returned state carries the new
// TimestampLast.
func (c *Checkpointer) WriteSnapshot(model Model, epoch int, st State) (State, error) {
	start := time.Now()

	work := c.workDir()
	if err := os.MkdirAll(work, 0750); err != nil {
		return st, fmt.Errorf("checkpoint: create work dir: %w", err)
	}

	weightsPath := filepath.Join(work, WeightsFile)
	size, err := c.writeWeights(model, weightsPath)
	if err != nil {
		return st, err
	}

	sum := ChecksumDisabled
	if c.cfg.Checksum {
		ckStart := time.Now()
		sum, err = checksum.SumLogged(weightsPath, c.log.Slog())
		if err != nil {
			return st, err
		}
		if c.metrics != nil {
			if secs := time.Since(ckStart).Seconds(); secs > 0 {
				c.metrics.ChecksumMBPerSec.Set(float64(size) / (1 << 20) / secs)
			}
		}
	}

	now := time.Now()
	elapsed := Elapsed{First: true}
	if !st.TimestampLast.IsZero() {
		elapsed = Elapsed{Seconds: now.Sub(st.TimestampLast).Seconds()}
	}

	desc := &Descriptor{
		Epoch:        epoch,
		SaveBestOnly: c.cfg.SaveBestOnly,
		SaveBestStat: c.cfg.SaveBestStat,
		BestStatLast: Stat(st.BestStatLast),
		ModelFile:    WeightsFile,
		Checksum:     sum,
		Encrypted:    c.cfg.Cipher != nil,
		Timestamp:    now.Format(TimestampLayout),
		TimeElapsed:  elapsed,
		Metadata:     c.cfg.Metadata,
	}
	if err := WriteDescriptor(work, desc); err != nil {
		return st, err
	}

	if err := c.rotate(); err != nil {
		return st, err
	}
	st.TimestampLast = now

	if c.metrics != nil {
		c.metrics.SnapshotWrites.Inc()
		c.metrics.SnapshotWriteSeconds.Observe(time.Since(start).Seconds())
		c.metrics.SnapshotBytes.Set(float64(size))
	}
	c.log.Info("snapshot promoted",
		"epoch", epoch,
		"dir", c.goodDir(),
		"bytes", size,
		"checksum", sum)
	return st, nil
}

// writeWeights serializes the model into path and reports the artifact
// size. The file is synced and closed before returning: partial work
// content must never be observable as a finished artifact.
func (c *Checkpointer) writeWeights(model Model, path string) (int64, error) {
	start := time.Now()

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("checkpoint: create weights file: %w", err)
	}

	if c.cfg.Cipher != nil {
		// Serialize to memory first; the cipher seals whole buffers.
		var buf bytes.Buffer
		if err := c.serialize(model, &buf); err != nil {
			f.Close()
			return 0, err
		}
		sealed, err := c.cfg.Cipher.Encrypt(buf.Bytes(), nil)
		if err != nil {
			f.Close()
			return 0, fmt.Errorf("checkpoint: encrypt weights: %w", err)
		}
		if _, err := f.Write(sealed); err != nil {
			f.Close()
			return 0, fmt.Errorf("checkpoint: write weights: %w", err)
		}
	} else if err := c.serialize(model, f); err != nil {
		f.Close()
		return 0, err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		return 0, fmt.Errorf("checkpoint: sync weights: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("checkpoint: close weights: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("checkpoint: stat weights: %w", err)
	}

	elapsed := time.Since(start).Seconds()
	mb := float64(stat.Size()) / (1 << 20)
	rate := 0.0
	if elapsed > 0 {
		rate = mb / elapsed
	}
	c.log.Debug("model wrote",
		"path", path,
		"mb", fmt.Sprintf("%.3f", mb),
		"seconds", fmt.Sprintf("%.3f", elapsed),
		"mb_per_sec", fmt.Sprintf("%.2f", rate))
	return stat.Size(), nil
}

// serialize picks full-state serialization when configured and the
// model supports it, weights-only otherwise.
func (c *Checkpointer) serialize(model Model, w io.Writer) error {
	if !c.cfg.SaveWeightsOnly {
		if fm, ok := model.(FullStateModel); ok {
			if err := fm.SaveFull(w); err != nil {
				return fmt.Errorf("checkpoint: serialize full state: %w", err)
			}
			return nil
		}
		c.log.Warn("save_weights_only=false but model has no trainer state; saving weights only")
	}
	if err := model.SaveWeights(w); err != nil {
		return fmt.Errorf("checkpoint: serialize weights: %w", err)
	}
	return nil
}

// rotate promotes ckpt-work to ckpt-good:
//
//	delete stale ckpt-old → ckpt-good becomes ckpt-old → ckpt-work
//	becomes ckpt-good → delete ckpt-old (clean policy permitting)
//
// The work→good rename is the single commit point; everything before
// it is invisible and everything after it only removes the displaced
// generation.
func (c *Checkpointer) rotate() error {
	work, good, old := c.workDir(), c.goodDir(), c.oldDir()

	// A stale ckpt-old means a previous rotation never finished its
	// cleanup; clear it before displacing ckpt-good again.
	if dirExists(old) {
		c.log.Debug("removing stale directory", "dir", old)
		if err := os.RemoveAll(old); err != nil {
			return fmt.Errorf("checkpoint: remove stale old dir: %w", err)
		}
	}

	doClean := c.cfg.Clean
	if dirExists(good) {
		c.log.Debug("renaming", "from", good, "to", old)
		if err := os.Rename(good, old); err != nil {
			return fmt.Errorf("checkpoint: displace good dir: %w", err)
		}
	} else {
		// Nothing was displaced, so there is nothing to clean.
		doClean = false
	}

	c.log.Debug("renaming", "from", work, "to", good)
	if err := os.Rename(work, good); err != nil {
		return fmt.Errorf("checkpoint: promote work dir: %w", err)
	}

	if doClean {
		c.log.Debug("removing", "dir", old)
		if err := os.RemoveAll(old); err != nil {
			return fmt.Errorf("checkpoint: clean old dir: %w", err)
		}
	}
	return nil
}

func dirExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
