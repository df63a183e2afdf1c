package jobsys

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config contains all configuration options for the job system.
type Config struct {
	// NumWorkers is the number of worker goroutines.
	// If 0, defaults to runtime.NumCPU(), floored at 1.
	NumWorkers int `yaml:"num_workers" json:"num_workers"`

	// QueueCapacity is the slot count of the shared job ring buffer. The
	// buffer holds at most QueueCapacity-1 jobs at once; a full buffer
	// throttles submitters. If 0, defaults to 256. Minimum 2.
	QueueCapacity int `yaml:"queue_capacity" json:"queue_capacity"`

	// SubmitRate is the maximum sustained submissions per second, applied
	// as a token bucket across Execute calls and dispatched groups.
	// Zero disables rate limiting.
	SubmitRate float64 `yaml:"submit_rate" json:"submit_rate"`

	// SubmitBurst is the burst size for the submission token bucket.
	// Defaults to 1 if SubmitRate is set but SubmitBurst is zero.
	SubmitBurst int `yaml:"submit_burst" json:"submit_burst"`

	// PinWorkerThreads locks each worker goroutine to an OS thread.
	// This can improve cache locality for long CPU-bound jobs but reduces
	// Go scheduler flexibility. Affinity beyond the OS thread is left to
	// the operating system.
	PinWorkerThreads bool `yaml:"pin_worker_threads" json:"pin_worker_threads"`

	// Logger receives structured lifecycle and panic logs. If nil, the
	// system is silent.
	Logger logrus.FieldLogger `yaml:"-" json:"-"`

	// PanicHandler is called when a job panics. If nil, panics are logged
	// through Logger with a stack trace.
	PanicHandler func(recovered interface{}) `yaml:"-" json:"-"`

	// OnWorkerStart is called on the worker goroutine when it starts.
	// Useful for initialization, logging, or tracing.
	OnWorkerStart func(workerID int) `yaml:"-" json:"-"`

	// OnWorkerStop is called on the worker goroutine before it exits.
	OnWorkerStop func(workerID int) `yaml:"-" json:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		NumWorkers:    0, // will be set to runtime.NumCPU()
		QueueCapacity: 256,
	}
}

// Validate checks the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.NumWorkers < 0 {
		return errInvalidConfig("NumWorkers must be >= 0")
	}

	if c.QueueCapacity < 0 {
		return errInvalidConfig("QueueCapacity must be >= 0")
	}

	if c.QueueCapacity == 1 {
		return errInvalidConfig("QueueCapacity must be at least 2")
	}

	if c.SubmitRate < 0 {
		return errInvalidConfig("SubmitRate must be >= 0")
	}

	if c.SubmitBurst < 0 {
		return errInvalidConfig("SubmitBurst must be >= 0")
	}

	return nil
}

// LoadConfig reads a Config from a YAML or JSON file, chosen by extension.
// Fields absent from the file keep their zero values, so callers usually
// merge the result over DefaultConfig via WithConfig.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse JSON config: %w", err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format: %s", filepath.Ext(path))
	}

	return cfg, nil
}
