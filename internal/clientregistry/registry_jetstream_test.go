package clientregistry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mrctest "github.com/AjayThorve/MRC/testing"
	"github.com/AjayThorve/MRC/types"
)

func TestClaimAddressPersistsAcrossRegistryRestart(t *testing.T) {
	_, nc := mrctest.StartEmbeddedNATS(t)
	kv := mrctest.CreateJetStreamKV(t, nc, "ucx-addresses")
	ctx := context.Background()

	r := New(NewJetStreamAddressStore(kv))
	require.NoError(t, r.ClaimAddress(ctx, "ucx://a", 1))

	// A fresh Registry backed by the same bucket still sees the claim: a
	// restarted server must not let a second client reuse the address.
	restarted := New(NewJetStreamAddressStore(kv))
	err := restarted.ClaimAddress(ctx, "ucx://a", 2)
	assert.ErrorIs(t, err, types.ErrDuplicateUCXAddress)
}

func TestReleaseAddressRemovesFromKVStore(t *testing.T) {
	_, nc := mrctest.StartEmbeddedNATS(t)
	kv := mrctest.CreateJetStreamKV(t, nc, "ucx-addresses")
	ctx := context.Background()

	r := New(NewJetStreamAddressStore(kv))
	require.NoError(t, r.ClaimAddress(ctx, "ucx://a", 1))
	r.ReleaseAddress(ctx, "ucx://a")

	restarted := New(NewJetStreamAddressStore(kv))
	require.NoError(t, restarted.ClaimAddress(ctx, "ucx://a", 2))
}
