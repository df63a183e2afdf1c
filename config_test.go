package jobsys

import (
	"os"
	"path/filepath"
	"testing"
)

// ============================================================================
// Validation Tests
// ============================================================================

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.NumWorkers = -1 },
			wantErr: true,
		},
		{
			name:    "negative capacity",
			mutate:  func(c *Config) { c.QueueCapacity = -1 },
			wantErr: true,
		},
		{
			name:    "capacity of one",
			mutate:  func(c *Config) { c.QueueCapacity = 1 },
			wantErr: true,
		},
		{
			name:   "zero capacity selects default",
			mutate: func(c *Config) { c.QueueCapacity = 0 },
		},
		{
			name:   "non power of two capacity",
			mutate: func(c *Config) { c.QueueCapacity = 100 },
		},
		{
			name:    "negative rate",
			mutate:  func(c *Config) { c.SubmitRate = -0.5 },
			wantErr: true,
		},
		{
			name:    "negative burst",
			mutate:  func(c *Config) { c.SubmitBurst = -2 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// ============================================================================
// File Loading Tests
// ============================================================================

func TestLoadConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobsys.yaml")
	data := "num_workers: 6\nqueue_capacity: 128\nsubmit_rate: 500\nsubmit_burst: 16\npin_worker_threads: true\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.NumWorkers != 6 {
		t.Errorf("NumWorkers = %d, want 6", cfg.NumWorkers)
	}
	if cfg.QueueCapacity != 128 {
		t.Errorf("QueueCapacity = %d, want 128", cfg.QueueCapacity)
	}
	if cfg.SubmitRate != 500 {
		t.Errorf("SubmitRate = %v, want 500", cfg.SubmitRate)
	}
	if cfg.SubmitBurst != 16 {
		t.Errorf("SubmitBurst = %d, want 16", cfg.SubmitBurst)
	}
	if !cfg.PinWorkerThreads {
		t.Error("PinWorkerThreads = false, want true")
	}
}

func TestLoadConfig_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobsys.json")
	data := `{"num_workers": 3, "queue_capacity": 64}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.NumWorkers != 3 || cfg.QueueCapacity != 64 {
		t.Errorf("Got workers=%d capacity=%d, want 3/64", cfg.NumWorkers, cfg.QueueCapacity)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "jobsys.toml")
	if err := os.WriteFile(path, []byte("num_workers = 2"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for unsupported format")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("num_workers: [not a number"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

// ============================================================================
// Option Merge Tests
// ============================================================================

func TestWithConfig_OptionsApplyOver(t *testing.T) {
	sys, err := New(
		WithConfig(Config{NumWorkers: 2, QueueCapacity: 64}),
		WithNumWorkers(5),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Shutdown(false)

	if sys.NumWorkers() != 5 {
		t.Errorf("Expected option to override config, got %d workers", sys.NumWorkers())
	}
	if sys.QueueCapacity() != 63 {
		t.Errorf("Expected capacity 63 from config, got %d", sys.QueueCapacity())
	}
}
