package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/AjayThorve/MRC/types"
)

// connectRequest is published by a connecting client on the acceptor's
// well-known subject. ClientSubject and ServerSubject name the pair of
// per-client subjects the resulting NATSStream will use; the client
// picks them so two clients connecting concurrently never collide.
type connectRequest struct {
	ClientSubject string `json:"client_subject"`
	ServerSubject string `json:"server_subject"`
}

type connectResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NATSAcceptor is an Acceptor backed by a NATS rendezvous subject: a
// client publishes a connectRequest naming the two subjects it will use,
// the acceptor replies with an ack and hands the server's end of the
// resulting NATSStream to whoever is calling Accept.
type NATSAcceptor struct {
	nc      *nats.Conn
	sub     *nats.Subscription
	streams chan Stream
	closed  chan struct{}
}

// NewNATSAcceptor subscribes to connectSubject and returns an Acceptor.
// backlog bounds how many accepted-but-not-yet-consumed streams may
// queue before Accept falls behind.
func NewNATSAcceptor(nc *nats.Conn, connectSubject string, backlog int) (*NATSAcceptor, error) {
	a := &NATSAcceptor{
		nc:      nc,
		streams: make(chan Stream, backlog),
		closed:  make(chan struct{}),
	}

	sub, err := nc.Subscribe(connectSubject, a.handleConnect)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", connectSubject, err)
	}
	a.sub = sub
	return a, nil
}

// NATSAcceptor implements server.Acceptor structurally via Accept below;
// it cannot assert that here without importing server, which would
// create a cycle (server already imports transport).

func (a *NATSAcceptor) handleConnect(msg *nats.Msg) {
	var req connectRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		a.replyConnect(msg, fmt.Errorf("decode connect request: %w", err))
		return
	}
	if req.ClientSubject == "" || req.ServerSubject == "" {
		a.replyConnect(msg, fmt.Errorf("connect request missing subject"))
		return
	}

	// The acceptor listens on the subject the client publishes to
	// (ClientSubject) and publishes on the subject the client listens on
	// (ServerSubject): the two sides of the pair are named from the
	// client's perspective.
	stream, err := NewNATSStream(a.nc, req.ServerSubject, req.ClientSubject)
	if err != nil {
		a.replyConnect(msg, err)
		return
	}

	select {
	case a.streams <- stream:
		a.replyConnect(msg, nil)
	case <-a.closed:
		_ = stream.Close()
		a.replyConnect(msg, fmt.Errorf("acceptor closed: %w", types.ErrStreamClosed))
	default:
		_ = stream.Close()
		a.replyConnect(msg, fmt.Errorf("connect backlog full"))
	}
}

func (a *NATSAcceptor) replyConnect(msg *nats.Msg, err error) {
	if msg.Reply == "" {
		return
	}
	resp := connectResponse{OK: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	data, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		return
	}
	_ = a.nc.Publish(msg.Reply, data)
}

// Accept implements Acceptor.
func (a *NATSAcceptor) Accept(ctx context.Context) (Stream, error) {
	select {
	case stream := <-a.streams:
		return stream, nil
	case <-a.closed:
		return nil, fmt.Errorf("nats acceptor closed: %w", types.ErrStreamClosed)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close unsubscribes from the connect subject; in-flight streams already
// handed to Accept are unaffected.
func (a *NATSAcceptor) Close() error {
	select {
	case <-a.closed:
		return nil
	default:
		close(a.closed)
	}
	return a.sub.Unsubscribe()
}
