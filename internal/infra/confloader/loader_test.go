package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Checkpoint struct {
		SaveDir    string `koanf:"save_dir"`
		SkipEpochs int    `koanf:"skip_epochs"`
		Checksum   bool   `koanf:"checksum"`
	} `koanf:"checkpoint"`
	Train struct {
		Epochs int `koanf:"epochs"`
	} `koanf:"train"`
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.filePath != "/path/to/config.yaml" {
		t.Errorf("filePath = %q, want %q", l.filePath, "/path/to/config.yaml")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
checkpoint:
  save_dir: "/data/save"
  checksum: true
train:
  epochs: 50
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader()
	if err := l.LoadFile(configPath); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if dir := l.GetString("checkpoint.save_dir"); dir != "/data/save" {
		t.Errorf("checkpoint.save_dir = %q, want %q", dir, "/data/save")
	}
	if epochs := l.GetString("train.epochs"); epochs != "50" {
		t.Errorf("train.epochs = %q, want %q", epochs, "50")
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	err := l.LoadFile("/nonexistent/config.yaml")
	if err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	// Empty path should not error
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("CKPTKIT_CHECKPOINT_SAVE__DIR", "/env/save")
	t.Setenv("CKPTKIT_TRAIN_EPOCHS", "25")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	// Double underscore maps to an underscore inside the key.
	if dir := l.GetString("checkpoint.save_dir"); dir != "/env/save" {
		t.Errorf("checkpoint.save_dir = %q, want %q", dir, "/env/save")
	}
	if epochs := l.GetString("train.epochs"); epochs != "25" {
		t.Errorf("train.epochs = %q, want %q", epochs, "25")
	}
}

func TestLoader_LoadEnv_CustomPrefix(t *testing.T) {
	t.Setenv("MYAPP_TRAIN_SEED", "99")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if seed := l.GetString("train.seed"); seed != "99" {
		t.Errorf("train.seed = %q, want %q", seed, "99")
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()

	data := map[string]any{
		"checkpoint.save_dir": "/flag/save",
		"train.epochs":        3,
	}

	if err := l.LoadMap(data); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if dir := l.GetString("checkpoint.save_dir"); dir != "/flag/save" {
		t.Errorf("checkpoint.save_dir = %q, want %q", dir, "/flag/save")
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
checkpoint:
  save_dir: "from-file"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("CKPTKIT_CHECKPOINT_SAVE__DIR", "from-env")

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Environment should override file
	if cfg.Checkpoint.SaveDir != "from-env" {
		t.Errorf("SaveDir = %q, want %q (env should override file)",
			cfg.Checkpoint.SaveDir, "from-env")
	}
}

func TestLoader_Unmarshal(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
checkpoint:
  save_dir: "/data/save"
  skip_epochs: 2
  checksum: true
train:
  epochs: 7
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	l := NewLoader(WithConfigFile(configPath))

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Checkpoint.SaveDir != "/data/save" {
		t.Errorf("SaveDir = %q, want %q", cfg.Checkpoint.SaveDir, "/data/save")
	}
	if cfg.Checkpoint.SkipEpochs != 2 {
		t.Errorf("SkipEpochs = %d, want 2", cfg.Checkpoint.SkipEpochs)
	}
	if !cfg.Checkpoint.Checksum {
		t.Error("Checksum should be true")
	}
	if cfg.Train.Epochs != 7 {
		t.Errorf("Epochs = %d, want 7", cfg.Train.Epochs)
	}
}

func TestLoader_IsLoaded(t *testing.T) {
	l := NewLoader()

	if l.IsLoaded() {
		t.Error("IsLoaded() should be false before Load()")
	}

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !l.IsLoaded() {
		t.Error("IsLoaded() should be true after Load()")
	}
}

func TestLoader_All(t *testing.T) {
	l := NewLoader()
	l.LoadMap(map[string]any{
		"key1": "value1",
		"key2": "value2",
	})

	all := l.All()
	if len(all) < 2 {
		t.Errorf("All() returned %d keys, want at least 2", len(all))
	}
}
