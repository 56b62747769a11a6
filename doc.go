// Package mrc provides the control plane of a distributed dataflow
// runtime: a server that brokers worker discovery and membership over
// persistent bidirectional event streams, plus a client-side reconciler
// that converges a pipeline instance's segments and manifolds to a
// declared target state.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import "github.com/AjayThorve/MRC"
//
//	cfg := mrc.DefaultConfig()
//	cfg.ListenAddress = "0.0.0.0:4430"
//
//	srv, err := mrc.New(cfg, mrc.NewChannelAcceptor(64))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//	defer srv.Stop(context.Background())
//
// # Key Features
//
//   - Tagged subscription services: role-based many-to-many discovery
//     with nonce-diffused updates, coalesced on a single update scheduler.
//   - A single-threaded event dispatcher: every mutation is serialized
//     under one mutex, so handlers never need their own locking.
//   - A client-side pipeline instance reconciler: declarative
//     segment/manifold convergence with a two-phase stage-then-start
//     contract.
//
// # Architecture
//
// A client registers its workers, declares or joins subscription
// services, and receives diffused membership updates as the fleet
// changes:
//
//	RegisterWorkers → RegisterSubscriptionService → (diffused) SubscriptionServiceUpdate
//
// On the client side, a Reconciler takes the resulting membership
// snapshot and converges its own PipelineInstance's segments and
// manifolds to match.
//
// # Advanced Usage
//
// Custom dependencies via options:
//
//	hooks := &mrc.Hooks{
//	    OnInstanceRegistered: func(ctx context.Context, streamID mrc.StreamID, ids []mrc.InstanceID) error {
//	        return nil
//	    },
//	}
//
//	srv, err := mrc.New(cfg, mrc.NewChannelAcceptor(64),
//	    mrc.WithHooks(hooks),
//	    mrc.WithMetrics(myCollector),
//	)
//
// See cmd/controlplaned and cmd/worker for complete working examples.
package mrc
