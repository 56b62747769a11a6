package mrc

import (
	"github.com/AjayThorve/MRC/internal/clientregistry"
	"github.com/AjayThorve/MRC/server"
)

// WithLogger sets a logger. See server.WithLogger.
func WithLogger(logger Logger) Option {
	return server.WithLogger(logger)
}

// WithMetrics sets a metrics collector. See server.WithMetrics.
func WithMetrics(collector MetricsCollector) Option {
	return server.WithMetrics(collector)
}

// WithHooks sets lifecycle event hooks. See server.WithHooks.
func WithHooks(h *Hooks) Option {
	return server.WithHooks(h)
}

// WithAddressStore sets the KV-backed store used to persist claimed UCX
// worker addresses across restarts. See server.WithAddressStore.
func WithAddressStore(store clientregistry.AddressStore) Option {
	return server.WithAddressStore(store)
}

// WithMachineID pins the server's process-lifetime machine id. See
// server.WithMachineID.
func WithMachineID(id uint64) Option {
	return server.WithMachineID(id)
}
