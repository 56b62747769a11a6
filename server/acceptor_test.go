package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayThorve/MRC/transport"
	"github.com/AjayThorve/MRC/types"
)

func TestChannelAcceptorOfferThenAccept(t *testing.T) {
	acc := NewChannelAcceptor(1)
	client, srv := transport.NewFakePair()
	_ = client

	require.NoError(t, acc.Offer(srv))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	got, err := acc.Accept(ctx)
	require.NoError(t, err)
	assert.Same(t, srv, got)
}

func TestChannelAcceptorAcceptBlocksUntilOffer(t *testing.T) {
	acc := NewChannelAcceptor(0)
	_, srv := transport.NewFakePair()

	resultCh := make(chan transport.Stream, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		stream, err := acc.Accept(ctx)
		require.NoError(t, err)
		resultCh <- stream
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, acc.Offer(srv))

	select {
	case got := <-resultCh:
		assert.Same(t, srv, got)
	case <-time.After(time.Second):
		t.Fatal("accept never returned")
	}
}

func TestChannelAcceptorAcceptRespectsContextCancellation(t *testing.T) {
	acc := NewChannelAcceptor(0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := acc.Accept(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestChannelAcceptorCloseFailsSubsequentOfferAndAccept(t *testing.T) {
	acc := NewChannelAcceptor(1)
	require.NoError(t, acc.Close())
	require.NoError(t, acc.Close(), "Close must be idempotent")

	_, srv := transport.NewFakePair()
	require.ErrorIs(t, acc.Offer(srv), types.ErrStreamClosed)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := acc.Accept(ctx)
	require.ErrorIs(t, err, types.ErrStreamClosed)
}
