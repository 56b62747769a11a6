package transport

import (
	"encoding/json"
	"errors"
	"fmt"
)

// errUnsupportedPayload is returned when an Event carries a payload type
// (or a decoded envelope names a kind) this package does not know how to
// frame.
var errUnsupportedPayload = errors.New("unsupported event payload")

// wireEnvelope is the JSON framing used by the NATS-backed Stream. The
// module treats serialization framing as an external concern per scope;
// JSON is used here only because no binary framing library appears
// anywhere in the example pack this module was grounded on (see
// DESIGN.md) and a length-prefixed typed blob, per the wire protocol
// description, is exactly what encoding/json already gives for free over
// NATS's own message framing.
type wireEnvelope struct {
	CorrelationID uint64          `json:"correlation_id"`
	Type          EventType       `json:"type"`
	Kind          string          `json:"kind"`
	Payload       json.RawMessage `json:"payload"`
}

func encodeEvent(e Event) ([]byte, error) {
	kind, err := payloadKind(e.Payload)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, fmt.Errorf("encode event payload: %w", err)
	}
	env := wireEnvelope{
		CorrelationID: e.CorrelationID,
		Type:          e.Type,
		Kind:          kind,
		Payload:       payload,
	}
	return json.Marshal(env)
}

func decodeEvent(data []byte) (Event, error) {
	var env wireEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Event{}, fmt.Errorf("decode event envelope: %w", err)
	}
	payload, err := unmarshalPayload(env.Kind, env.Payload)
	if err != nil {
		return Event{}, err
	}
	return Event{
		CorrelationID: env.CorrelationID,
		Type:          env.Type,
		Payload:       payload,
	}, nil
}

func payloadKind(payload any) (string, error) {
	switch payload.(type) {
	case RegisterWorkersRequest:
		return "RegisterWorkersRequest", nil
	case RegisterWorkersResponse:
		return "RegisterWorkersResponse", nil
	case CreateSubscriptionServiceRequest:
		return "CreateSubscriptionServiceRequest", nil
	case RegisterSubscriptionServiceRequest:
		return "RegisterSubscriptionServiceRequest", nil
	case RegisterSubscriptionServiceResponse:
		return "RegisterSubscriptionServiceResponse", nil
	case DropFromSubscriptionServiceRequest:
		return "DropFromSubscriptionServiceRequest", nil
	case SubscriptionServiceUpdate:
		return "SubscriptionServiceUpdate", nil
	case Ack:
		return "Ack", nil
	case Error:
		return "Error", nil
	default:
		return "", fmt.Errorf("encode event payload: %w: %T", errUnsupportedPayload, payload)
	}
}

func unmarshalPayload(kind string, raw json.RawMessage) (any, error) {
	switch kind {
	case "RegisterWorkersRequest":
		var v RegisterWorkersRequest
		err := unmarshalInto(kind, raw, &v)
		return v, err
	case "RegisterWorkersResponse":
		var v RegisterWorkersResponse
		err := unmarshalInto(kind, raw, &v)
		return v, err
	case "CreateSubscriptionServiceRequest":
		var v CreateSubscriptionServiceRequest
		err := unmarshalInto(kind, raw, &v)
		return v, err
	case "RegisterSubscriptionServiceRequest":
		var v RegisterSubscriptionServiceRequest
		err := unmarshalInto(kind, raw, &v)
		return v, err
	case "RegisterSubscriptionServiceResponse":
		var v RegisterSubscriptionServiceResponse
		err := unmarshalInto(kind, raw, &v)
		return v, err
	case "DropFromSubscriptionServiceRequest":
		var v DropFromSubscriptionServiceRequest
		err := unmarshalInto(kind, raw, &v)
		return v, err
	case "SubscriptionServiceUpdate":
		var v SubscriptionServiceUpdate
		err := unmarshalInto(kind, raw, &v)
		return v, err
	case "Ack":
		var v Ack
		err := unmarshalInto(kind, raw, &v)
		return v, err
	case "Error":
		var v Error
		err := unmarshalInto(kind, raw, &v)
		return v, err
	default:
		return nil, fmt.Errorf("decode event payload: %w: kind %q", errUnsupportedPayload, kind)
	}
}

func unmarshalInto(kind string, raw json.RawMessage, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return nil
}
