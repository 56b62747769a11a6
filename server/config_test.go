package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayThorve/MRC/internal/logging"
	"github.com/AjayThorve/MRC/types"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestSetDefaultsFillsZeroValuesOnly(t *testing.T) {
	cfg := Config{ListenAddress: "127.0.0.1:4430", UpdatePeriod: 5 * time.Second}
	SetDefaults(&cfg)

	assert.Equal(t, 5*time.Second, cfg.UpdatePeriod, "explicit value must survive defaulting")
	assert.Equal(t, DefaultConfig().EventQueueSize, cfg.EventQueueSize)
	assert.Equal(t, DefaultConfig().StartupTimeout, cfg.StartupTimeout)
	assert.Equal(t, DefaultConfig().ShutdownTimeout, cfg.ShutdownTimeout)
	assert.Equal(t, 0, cfg.MaxConcurrentStreams, "zero MaxConcurrentStreams means unbounded and must not be defaulted away")
}

func TestConfigValidate(t *testing.T) {
	t.Run("missing listen address", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ListenAddress = ""
		require.ErrorIs(t, cfg.Validate(), types.ErrListenAddressRequired)
	})

	t.Run("non-positive update period", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.UpdatePeriod = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("negative max concurrent streams", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxConcurrentStreams = -1
		require.Error(t, cfg.Validate())
	})

	t.Run("non-positive event queue size", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EventQueueSize = 0
		require.Error(t, cfg.Validate())
	})
}

func TestConfigValidateWithWarningsDoesNotPanic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UpdatePeriod = time.Millisecond
	cfg.MaxConcurrentStreams = 0

	require.NotPanics(t, func() {
		cfg.ValidateWithWarnings(logging.NewNop())
	})
}

func TestTestConfigIsValidAndFast(t *testing.T) {
	cfg := TestConfig()
	require.NoError(t, cfg.Validate())
	assert.Less(t, cfg.UpdatePeriod, time.Second)
}
