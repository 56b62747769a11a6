package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/AjayThorve/MRC/types"
)

// NATSStream is a Stream backed by a pair of NATS core subjects: one the
// peer publishes requests/updates on, one this side publishes on.
type NATSStream struct {
	nc *nats.Conn

	sendSubject string
	sub         *nats.Subscription
	msgs        chan *nats.Msg

	closeOnce sync.Once
	closed    chan struct{}
}

// NewNATSStream subscribes to recvSubject and returns a Stream that
// publishes outbound events to sendSubject.
func NewNATSStream(nc *nats.Conn, sendSubject, recvSubject string) (*NATSStream, error) {
	msgs := make(chan *nats.Msg, 256)
	sub, err := nc.ChanSubscribe(recvSubject, msgs)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", recvSubject, err)
	}
	return &NATSStream{
		nc:          nc,
		sendSubject: sendSubject,
		sub:         sub,
		msgs:        msgs,
		closed:      make(chan struct{}),
	}, nil
}

var _ Stream = (*NATSStream)(nil)

// Send implements Stream.
func (s *NATSStream) Send(ctx context.Context, event Event) error {
	select {
	case <-s.closed:
		return fmt.Errorf("nats stream send: %w", types.ErrStreamClosed)
	default:
	}

	data, err := encodeEvent(event)
	if err != nil {
		return err
	}
	if err := s.nc.Publish(s.sendSubject, data); err != nil {
		return fmt.Errorf("nats stream send: %w", err)
	}
	return nil
}

// Recv implements Stream.
func (s *NATSStream) Recv(ctx context.Context) (Event, error) {
	select {
	case msg, ok := <-s.msgs:
		if !ok {
			return Event{}, fmt.Errorf("nats stream recv: %w", types.ErrStreamClosed)
		}
		return decodeEvent(msg.Data)
	case <-s.closed:
		return Event{}, fmt.Errorf("nats stream recv: %w", types.ErrStreamClosed)
	case <-ctx.Done():
		return Event{}, ctx.Err()
	}
}

// Close implements Stream. Idempotent.
func (s *NATSStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.sub.Unsubscribe()
		close(s.closed)
	})
	return err
}
