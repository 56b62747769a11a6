package transport

import "context"

// StreamWriter is the narrow send-only capability a Role's subscribers
// need; it is what gets stored against a tag instead of a full Stream,
// matching the data model's "back-pointer to the stream-writer" note.
type StreamWriter interface {
	Send(ctx context.Context, event Event) error
}

// Stream is a bidirectional, ordered, typed event channel between one
// client and the server. Implementations must deliver events from a
// single stream in the order they were sent; events across different
// streams may interleave.
type Stream interface {
	StreamWriter

	// Recv blocks until the next inbound Event is available, the stream
	// is closed, or ctx is done.
	Recv(ctx context.Context) (Event, error)

	// Close tears the stream down. Subsequent Send/Recv return
	// types.ErrStreamClosed (wrapped).
	Close() error
}
