package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/AjayThorve/MRC/types"
)

// FakeStream is an in-memory Stream used by tests. Two FakeStreams constructed by
// NewFakePair are connected back to back: sending on one delivers to the
// other's Recv.
type FakeStream struct {
	outbound chan Event
	inbound  chan Event

	closeOnce sync.Once
	closed    chan struct{}
}

// NewFakePair returns two connected FakeStreams: clientSide and
// serverSide. Events sent on one arrive via Recv on the other.
func NewFakePair() (clientSide, serverSide *FakeStream) {
	c2s := make(chan Event, 64)
	s2c := make(chan Event, 64)
	clientSide = &FakeStream{outbound: c2s, inbound: s2c, closed: make(chan struct{})}
	serverSide = &FakeStream{outbound: s2c, inbound: c2s, closed: make(chan struct{})}
	return clientSide, serverSide
}

var _ Stream = (*FakeStream)(nil)

// Send implements Stream.
func (f *FakeStream) Send(ctx context.Context, event Event) error {
	select {
	case <-f.closed:
		return fmt.Errorf("fake stream send: %w", types.ErrStreamClosed)
	default:
	}
	select {
	case f.outbound <- event:
		return nil
	case <-f.closed:
		return fmt.Errorf("fake stream send: %w", types.ErrStreamClosed)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv implements Stream.
func (f *FakeStream) Recv(ctx context.Context) (Event, error) {
	select {
	case ev, ok := <-f.inbound:
		if !ok {
			return Event{}, fmt.Errorf("fake stream recv: %w", types.ErrStreamClosed)
		}
		return ev, nil
	case <-f.closed:
		return Event{}, fmt.Errorf("fake stream recv: %w", types.ErrStreamClosed)
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Close implements Stream. Idempotent.
func (f *FakeStream) Close() error {
	f.closeOnce.Do(func() { close(f.closed) })
	return nil
}
