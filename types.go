package mrc

import (
	"github.com/AjayThorve/MRC/server"
	"github.com/AjayThorve/MRC/types"
)

// Re-export the core domain types and interfaces from the internal
// types package.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on this root
// package, while still providing a convenient `mrc.Tag`, `mrc.Logger`,
// etc. for users.
type (
	Tag        = types.Tag
	InstanceID = types.InstanceID
	StreamID   = types.StreamID

	SegmentState  = types.SegmentState
	ManifoldState = types.ManifoldState

	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export the server's public surface: Config, Option, Server, and
// the stream-acceptor abstraction.
type (
	Config   = server.Config
	Option   = server.Option
	Server   = server.Server
	Acceptor = server.Acceptor
)

// New constructs a Server. See server.New.
func New(cfg Config, acceptor Acceptor, opts ...Option) (*Server, error) {
	return server.New(cfg, acceptor, opts...)
}

// DefaultConfig returns a Config with sensible defaults. See
// server.DefaultConfig.
func DefaultConfig() Config {
	return server.DefaultConfig()
}

// NewChannelAcceptor returns an in-process Acceptor useful for tests and
// for transports that hand off already-accepted streams directly. See
// server.NewChannelAcceptor.
func NewChannelAcceptor(backlog int) *server.ChannelAcceptor {
	return server.NewChannelAcceptor(backlog)
}
