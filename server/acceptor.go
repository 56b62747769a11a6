package server

import (
	"context"
	"fmt"

	"github.com/AjayThorve/MRC/transport"
	"github.com/AjayThorve/MRC/types"
)

// Acceptor produces newly connected client streams. A production
// deployment backs this with a NATS rendezvous subject (a client
// publishes a connect request naming the subjects it will use, the
// acceptor replies with an ack and wraps the pair in a
// transport.NATSStream); tests use ChannelAcceptor instead.
type Acceptor interface {
	Accept(ctx context.Context) (transport.Stream, error)
}

// ChannelAcceptor is an Acceptor fed by pushing streams onto a channel.
// Used by tests and by any deployment where stream establishment is
// handled outside this package (e.g. an HTTP upgrade handler or a NATS
// rendezvous subscription) and simply handed off once connected.
type ChannelAcceptor struct {
	streams chan transport.Stream
	closed  chan struct{}
}

// NewChannelAcceptor constructs a ChannelAcceptor with the given
// backlog capacity.
func NewChannelAcceptor(backlog int) *ChannelAcceptor {
	return &ChannelAcceptor{
		streams: make(chan transport.Stream, backlog),
		closed:  make(chan struct{}),
	}
}

var _ Acceptor = (*ChannelAcceptor)(nil)

// Offer hands a newly connected stream to the server's accept loop.
func (a *ChannelAcceptor) Offer(stream transport.Stream) error {
	select {
	case a.streams <- stream:
		return nil
	case <-a.closed:
		return fmt.Errorf("channel acceptor closed: %w", types.ErrStreamClosed)
	}
}

// Accept implements Acceptor.
func (a *ChannelAcceptor) Accept(ctx context.Context) (transport.Stream, error) {
	select {
	case stream := <-a.streams:
		return stream, nil
	case <-a.closed:
		return nil, fmt.Errorf("channel acceptor closed: %w", types.ErrStreamClosed)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the acceptor; subsequent Accept/Offer calls fail.
func (a *ChannelAcceptor) Close() error {
	select {
	case <-a.closed:
	default:
		close(a.closed)
	}
	return nil
}
