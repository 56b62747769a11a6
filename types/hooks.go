package types

import "context"

// Hooks defines callbacks for Server lifecycle events.
//
// All hooks are optional and called asynchronously in background goroutines
// to avoid blocking the event dispatcher or the update scheduler. Hooks
// receive the owning component's lifecycle context, which is cancelled
// during shutdown.
//
// IMPORTANT: Hook execution behavior:
//   - Hooks run concurrently and may not complete before Stop() returns
//   - The context passed to hooks is cancelled when the component stops
//   - Hook errors are logged but never fail the triggering operation
//
// Best practices for hook implementation:
//   - Complete quickly (< 1 second recommended)
//   - Respect context cancellation
//   - Don't block on long I/O operations
//   - Make hooks idempotent (may be called multiple times)
//   - Handle errors gracefully (return error for logging)
type Hooks struct {
	// OnInstanceRegistered is called after RegisterWorkers binds one or
	// more new instance ids to a stream.
	OnInstanceRegistered func(ctx context.Context, streamID StreamID, instanceIDs []InstanceID) error

	// OnStreamDropped is called after the drop-stream cascade for a
	// disconnected stream has completed.
	OnStreamDropped func(ctx context.Context, streamID StreamID) error

	// OnError is called whenever a request handler returns an error,
	// including the tag-exhaustion failure that shuts the server down.
	OnError func(ctx context.Context, err error) error
}
