package hooks

import (
	"context"

	"github.com/AjayThorve/MRC/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, types.StreamID, []types.InstanceID) error = (*NopHooks)(nil).OnInstanceRegistered
	_ func(context.Context, types.StreamID) error                     = (*NopHooks)(nil).OnStreamDropped
	_ func(context.Context, error) error                              = (*NopHooks)(nil).OnError
)

// NewNop creates a new no-op hooks implementation.
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnInstanceRegistered: h.OnInstanceRegistered,
		OnStreamDropped:      h.OnStreamDropped,
		OnError:              h.OnError,
	}
}

// OnInstanceRegistered is a no-op implementation.
func (h *NopHooks) OnInstanceRegistered(ctx context.Context, streamID types.StreamID, instanceIDs []types.InstanceID) error {
	return nil
}

// OnStreamDropped is a no-op implementation.
func (h *NopHooks) OnStreamDropped(ctx context.Context, streamID types.StreamID) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}
