package hooks

import (
	"context"
	"testing"

	"github.com/AjayThorve/MRC/types"
	"github.com/stretchr/testify/require"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()

	require.NotNil(t, hooks.OnInstanceRegistered)
	require.NotNil(t, hooks.OnStreamDropped)
	require.NotNil(t, hooks.OnError)
}

func TestNopHooks_OnInstanceRegistered(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	err := hooks.OnInstanceRegistered(ctx, types.StreamID(1), []types.InstanceID{1, 2})
	require.NoError(t, err)
}

func TestNopHooks_OnStreamDropped(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	err := hooks.OnStreamDropped(ctx, types.StreamID(1))
	require.NoError(t, err)
}

func TestNopHooks_OnError(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()

	testErr := context.Canceled
	err := hooks.OnError(ctx, testErr)
	require.NoError(t, err)
}
