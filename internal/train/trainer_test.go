package train

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/ckptkit-go/internal/checkpoint"
	"github.com/yndnr/ckptkit-go/internal/config"
	"github.com/yndnr/ckptkit-go/internal/telemetry/logger"
)

func testConfig(dir string) *config.Config {
	cfg := config.Default()
	cfg.Checkpoint.SaveDir = dir
	cfg.Train.Epochs = 2
	cfg.Train.BatchSize = 8
	cfg.Train.LearningRate = 0.5
	cfg.Train.TrainSamples = 40
	cfg.Train.ValidSamples = 20
	cfg.Train.Classes = 3
	cfg.Train.Features = 1 << 10
	return cfg
}

func quietLogger(t *testing.T) logger.Logger {
	t.Helper()
	l, err := logger.New(logger.Config{Level: "error", Format: "text", Output: io.Discard})
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return l
}

func TestTrainer_Run_WritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	tr, err := New(cfg, WithLogger(quietLogger(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.RunID() == "" {
		t.Fatal("RunID is empty")
	}

	if err := tr.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	desc, err := checkpoint.ReadDescriptor(filepath.Join(dir, checkpoint.DirGood))
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	if desc.Epoch != cfg.Train.Epochs-1 {
		t.Errorf("descriptor epoch = %d, want %d", desc.Epoch, cfg.Train.Epochs-1)
	}
	if !strings.Contains(desc.Metadata, "run_id="+tr.RunID()) {
		t.Errorf("metadata %q does not carry the run ID", desc.Metadata)
	}

	s := tr.Status().Snapshot()
	if s.Phase != "done" {
		t.Errorf("phase = %q, want done", s.Phase)
	}
	if s.LastSnapshotEpoch == nil || *s.LastSnapshotEpoch != cfg.Train.Epochs-1 {
		t.Errorf("LastSnapshotEpoch = %v, want %d", s.LastSnapshotEpoch, cfg.Train.Epochs-1)
	}
}

func TestTrainer_Run_ResumesAfterRestart(t *testing.T) {
	dir := t.TempDir()

	// First process trains 2 epochs, then stops.
	cfg := testConfig(dir)
	first, err := New(cfg, WithLogger(quietLogger(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := first.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	// Second process asks for 4 epochs; it must resume at epoch 2,
	// not retrain from zero.
	cfg2 := testConfig(dir)
	cfg2.Train.Epochs = 4
	second, err := New(cfg2, WithLogger(quietLogger(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := second.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	desc, err := checkpoint.ReadDescriptor(filepath.Join(dir, checkpoint.DirGood))
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	if desc.Epoch != 3 {
		t.Errorf("descriptor epoch = %d, want 3", desc.Epoch)
	}
	// The latest snapshot belongs to the second run.
	if !strings.Contains(desc.Metadata, "run_id="+second.RunID()) {
		t.Errorf("metadata %q does not carry the resuming run's ID", desc.Metadata)
	}
}

func TestTrainer_Run_NothingToDo(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)

	first, err := New(cfg, WithLogger(quietLogger(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := first.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	before, err := checkpoint.ReadDescriptor(filepath.Join(dir, checkpoint.DirGood))
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}

	// Same epoch budget: the snapshot already covers it.
	second, err := New(testConfig(dir), WithLogger(quietLogger(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := second.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	after, err := checkpoint.ReadDescriptor(filepath.Join(dir, checkpoint.DirGood))
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	if after.Timestamp != before.Timestamp || after.Epoch != before.Epoch {
		t.Errorf("snapshot rewritten on a no-op run: before %+v, after %+v", before, after)
	}
}

func TestTrainer_Run_RestartRequired_NoSnapshot(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Checkpoint.Restart = "required"

	tr, err := New(cfg, WithLogger(quietLogger(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = tr.Run(context.Background())
	if !errors.Is(err, checkpoint.ErrNoSnapshot) {
		t.Fatalf("Run error = %v, want ErrNoSnapshot", err)
	}
	if s := tr.Status().Snapshot(); s.Phase != "failed" {
		t.Errorf("phase = %q, want failed", s.Phase)
	}
}

func TestTrainer_Run_ContextCanceled(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Train.Epochs = 50

	tr, err := New(cfg, WithLogger(quietLogger(t)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := tr.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
}
