package transport

import "github.com/AjayThorve/MRC/types"

// EventType classifies an Event envelope.
type EventType int

const (
	// EventRequest is a client-initiated request awaiting a response.
	EventRequest EventType = iota

	// EventResponse answers a prior EventRequest, echoing its correlation id.
	EventResponse

	// EventUpdate is a server-initiated SubscriptionServiceUpdate push.
	EventUpdate

	// EventError answers a prior EventRequest with a soft failure.
	EventError

	// EventClientStreamDisconnect is synthesized locally by the server's
	// per-stream read loop when Recv fails, and when a diffusion write to
	// a stream fails; it never crosses the wire.
	EventClientStreamDisconnect
)

// String returns the wire-level name of the event type.
func (t EventType) String() string {
	switch t {
	case EventRequest:
		return "Request"
	case EventResponse:
		return "Response"
	case EventUpdate:
		return "Update"
	case EventError:
		return "Error"
	case EventClientStreamDisconnect:
		return "ClientEventStreamDisconnect"
	default:
		return "Unknown"
	}
}

// Event is the envelope carried on every stream. CorrelationID is chosen
// by the sender of a request and echoed by the responder; server-
// initiated updates carry a fresh id chosen by the server.
type Event struct {
	CorrelationID uint64
	Type          EventType
	Payload       any
}

// Error is the payload of an EventError envelope.
type Error struct {
	Code    types.ErrorCode
	Message string
}

func (e Error) Error() string { return e.Code.String() + ": " + e.Message }

// Ack is an empty success payload for requests that have no interesting
// response value (e.g. DropFromSubscriptionService).
type Ack struct{}
