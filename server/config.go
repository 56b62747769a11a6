package server

import (
	"fmt"
	"time"

	"github.com/AjayThorve/MRC/types"
)

// Config is the configuration for a Server.
//
// All duration fields accept standard Go duration strings like "30s", "5m".
type Config struct {
	// ListenAddress is the address the server reports in its startup log;
	// streams arrive through the Acceptor passed to New, which does not read it.
	ListenAddress string `yaml:"listenAddress"`

	// UpdatePeriod is the update scheduler's timeout wake interval.
	// Default: 30 seconds.
	UpdatePeriod time.Duration `yaml:"updatePeriod"`

	// MaxConcurrentStreams caps the number of simultaneously accepted
	// client streams. Zero means unbounded.
	MaxConcurrentStreams int `yaml:"maxConcurrentStreams"`

	// EventQueueSize is the buffer depth of the dispatcher's event
	// channel shared by every accepted stream.
	EventQueueSize int `yaml:"eventQueueSize"`

	// StartupTimeout is carried in the configuration only; Server.Start
	// does not block and does not read it.
	StartupTimeout time.Duration `yaml:"startupTimeout"`

	// ShutdownTimeout is the deadline cmd/controlplaned gives the context
	// it passes to Server.Stop; Server itself does not read it.
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddress:        "0.0.0.0:4430",
		UpdatePeriod:         30 * time.Second,
		MaxConcurrentStreams: 0,
		EventQueueSize:       1024,
		StartupTimeout:       30 * time.Second,
		ShutdownTimeout:      10 * time.Second,
	}
}

// SetDefaults fills in missing configuration values with production defaults.
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.UpdatePeriod == 0 {
		cfg.UpdatePeriod = defaults.UpdatePeriod
	}
	if cfg.EventQueueSize == 0 {
		cfg.EventQueueSize = defaults.EventQueueSize
	}
	if cfg.StartupTimeout == 0 {
		cfg.StartupTimeout = defaults.StartupTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	// MaxConcurrentStreams of 0 is valid (unbounded), so we don't apply a default.
}

// Validate checks configuration constraints and returns an error for
// invalid values.
func (cfg *Config) Validate() error {
	if cfg.ListenAddress == "" {
		return types.ErrListenAddressRequired
	}
	if cfg.UpdatePeriod <= 0 {
		return fmt.Errorf("UpdatePeriod must be > 0, got %v", cfg.UpdatePeriod)
	}
	if cfg.MaxConcurrentStreams < 0 {
		return fmt.Errorf("MaxConcurrentStreams must be >= 0, got %d", cfg.MaxConcurrentStreams)
	}
	if cfg.EventQueueSize <= 0 {
		return fmt.Errorf("EventQueueSize must be > 0, got %d", cfg.EventQueueSize)
	}
	return nil
}

// ValidateWithWarnings checks configuration and logs warnings for
// non-recommended values. Called after Validate() in New() to provide
// operator guidance.
func (cfg *Config) ValidateWithWarnings(logger types.Logger) {
	if cfg.UpdatePeriod < time.Second {
		logger.Warn(
			"UpdatePeriod is very short, may cause frequent diffusion passes",
			"updatePeriod", cfg.UpdatePeriod,
			"recommended", "30s or higher",
		)
	}
	if cfg.MaxConcurrentStreams == 0 {
		logger.Warn("MaxConcurrentStreams is unbounded")
	}
}

// TestConfig returns a configuration optimized for fast test execution.
func TestConfig() Config {
	cfg := DefaultConfig()

	cfg.ListenAddress = "127.0.0.1:0"
	cfg.UpdatePeriod = 50 * time.Millisecond
	cfg.StartupTimeout = 2 * time.Second
	cfg.ShutdownTimeout = 2 * time.Second

	return cfg
}
