package server

import (
	"github.com/AjayThorve/MRC/internal/clientregistry"
	"github.com/AjayThorve/MRC/internal/hooks"
	"github.com/AjayThorve/MRC/internal/logging"
	"github.com/AjayThorve/MRC/internal/metrics"
	"github.com/AjayThorve/MRC/types"
)

// Option configures a Server with optional dependencies.
type Option func(*serverOptions)

// serverOptions holds optional Server configuration.
type serverOptions struct {
	logger       types.Logger
	metrics      types.MetricsCollector
	hooks        *types.Hooks
	addressStore clientregistry.AddressStore
	machineID    uint64
}

// WithLogger sets a logger.
func WithLogger(logger types.Logger) Option {
	return func(o *serverOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
func WithMetrics(collector types.MetricsCollector) Option {
	return func(o *serverOptions) {
		o.metrics = collector
	}
}

// WithHooks sets lifecycle event hooks.
func WithHooks(h *types.Hooks) Option {
	return func(o *serverOptions) {
		o.hooks = h
	}
}

// WithAddressStore sets the KV-backed store used to persist claimed UCX
// worker addresses across restarts. Defaults to nil (in-memory only).
func WithAddressStore(store clientregistry.AddressStore) Option {
	return func(o *serverOptions) {
		o.addressStore = store
	}
}

// WithMachineID pins the server's process-lifetime machine id, echoed on
// every RegisterWorkersResponse. Intended for deterministic tests; a
// production server leaves this unset and gets a random id.
func WithMachineID(id uint64) Option {
	return func(o *serverOptions) {
		o.machineID = id
	}
}

func defaultOptions() serverOptions {
	nopHooks := hooks.NewNop()
	return serverOptions{
		logger:  logging.NewNop(),
		metrics: metrics.NewNop(),
		hooks:   &nopHooks,
	}
}
