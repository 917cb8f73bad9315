package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/ckptkit-go/pkg/checksum"
)

func TestWriteSnapshot_GoodContainsVerifiedArtifact(t *testing.T) {
	root := t.TempDir()
	c := newTestCheckpointer(t, DefaultConfig(root))

	st, err := c.WriteSnapshot(newTestModel(), 0, NewState())
	if err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	if st.TimestampLast.IsZero() {
		t.Fatal("TimestampLast not updated")
	}

	good := filepath.Join(root, DirGood)
	desc, err := ReadDescriptor(good)
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	if desc.Epoch != 0 {
		t.Fatalf("Epoch = %d, want 0", desc.Epoch)
	}
	if !desc.TimeElapsed.First {
		t.Fatal("first snapshot not marked __FIRST__")
	}

	sum, err := checksum.Sum(filepath.Join(good, desc.ModelFile))
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if sum != desc.Checksum {
		t.Fatalf("checksum = %s, descriptor says %s", sum, desc.Checksum)
	}

	// The work directory was consumed by promotion.
	if dirExists(filepath.Join(root, DirWork)) {
		t.Fatal("ckpt-work left behind after promotion")
	}
}

func TestWriteSnapshot_SecondSaveSetsElapsed(t *testing.T) {
	root := t.TempDir()
	c := newTestCheckpointer(t, DefaultConfig(root))

	st, err := c.WriteSnapshot(newTestModel(), 0, NewState())
	if err != nil {
		t.Fatalf("WriteSnapshot(0): %v", err)
	}
	if _, err := c.WriteSnapshot(newTestModel(), 1, st); err != nil {
		t.Fatalf("WriteSnapshot(1): %v", err)
	}

	desc, err := ReadDescriptor(filepath.Join(root, DirGood))
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	if desc.Epoch != 1 {
		t.Fatalf("Epoch = %d, want 1", desc.Epoch)
	}
	if desc.TimeElapsed.First {
		t.Fatal("second snapshot still marked __FIRST__")
	}
	if desc.TimeElapsed.Seconds < 0 {
		t.Fatalf("TimeElapsed = %v", desc.TimeElapsed.Seconds)
	}
}

func TestWriteSnapshot_RetainsOldGenerationWithoutClean(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig(root) // Clean: false
	c := newTestCheckpointer(t, cfg)

	st, err := c.WriteSnapshot(newTestModel(), 0, NewState())
	if err != nil {
		t.Fatalf("WriteSnapshot(0): %v", err)
	}
	if dirExists(filepath.Join(root, DirOld)) {
		t.Fatal("ckpt-old exists after first save; nothing was displaced")
	}

	if _, err := c.WriteSnapshot(newTestModel(), 1, st); err != nil {
		t.Fatalf("WriteSnapshot(1): %v", err)
	}
	if !dirExists(filepath.Join(root, DirOld)) {
		t.Fatal("ckpt-old missing; clean=false keeps one extra generation")
	}

	// The retained generation is the displaced epoch-0 snapshot.
	oldDesc, err := ReadDescriptor(filepath.Join(root, DirOld))
	if err != nil {
		t.Fatalf("ReadDescriptor(old): %v", err)
	}
	if oldDesc.Epoch != 0 {
		t.Fatalf("old Epoch = %d, want 0", oldDesc.Epoch)
	}
}

func TestWriteSnapshot_CleanRemovesOldImmediately(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig(root)
	cfg.Clean = true
	c := newTestCheckpointer(t, cfg)

	st, err := c.WriteSnapshot(newTestModel(), 0, NewState())
	if err != nil {
		t.Fatalf("WriteSnapshot(0): %v", err)
	}
	if _, err := c.WriteSnapshot(newTestModel(), 1, st); err != nil {
		t.Fatalf("WriteSnapshot(1): %v", err)
	}
	if dirExists(filepath.Join(root, DirOld)) {
		t.Fatal("ckpt-old exists with clean=true")
	}
}

func TestWriteSnapshot_ClearsStaleOldBeforeRotation(t *testing.T) {
	root := t.TempDir()
	c := newTestCheckpointer(t, DefaultConfig(root))

	// Simulate a previous incomplete cleanup.
	stale := filepath.Join(root, DirOld)
	if err := os.MkdirAll(stale, 0750); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(stale, "junk"), []byte("x"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	st, err := c.WriteSnapshot(newTestModel(), 0, NewState())
	if err != nil {
		t.Fatalf("WriteSnapshot(0): %v", err)
	}
	if dirExists(filepath.Join(stale, "junk")) {
		t.Fatal("stale ckpt-old content survived rotation")
	}
	if _, err := c.WriteSnapshot(newTestModel(), 1, st); err != nil {
		t.Fatalf("WriteSnapshot(1): %v", err)
	}
}

func TestWriteSnapshot_ChecksumDisabledSentinel(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig(root)
	cfg.Checksum = false
	c := newTestCheckpointer(t, cfg)

	if _, err := c.WriteSnapshot(newTestModel(), 0, NewState()); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	desc, err := ReadDescriptor(filepath.Join(root, DirGood))
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	if desc.Checksum != ChecksumDisabled {
		t.Fatalf("Checksum = %q, want %q", desc.Checksum, ChecksumDisabled)
	}
}
