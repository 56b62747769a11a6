package types

// ErrorCode classifies a soft failure reported back to a client on an
// Error event. A hard failure is reported to every open stream as
// ErrCodeInstanceError just before the server shuts down.
type ErrorCode int

const (
	// ErrCodeInstanceError is a generic server-side failure attributable
	// to one instance's request.
	ErrCodeInstanceError ErrorCode = iota

	// ErrCodeInvalidRole indicates a request referenced a role name the
	// subscription service does not have.
	ErrCodeInvalidRole

	// ErrCodeDuplicateUCXAddress indicates a RegisterWorkers request
	// collided with an address already claimed, either within the same
	// request or against the global registry.
	ErrCodeDuplicateUCXAddress

	// ErrCodeTagExhausted indicates a service's 65535-tag space is full.
	ErrCodeTagExhausted

	// ErrCodeServiceMismatch indicates a CreateSubscriptionService request
	// named an existing service with a different role set.
	ErrCodeServiceMismatch
)

// String returns the wire-level name of the error code.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInstanceError:
		return "InstanceError"
	case ErrCodeInvalidRole:
		return "InvalidRole"
	case ErrCodeDuplicateUCXAddress:
		return "DuplicateUcxAddress"
	case ErrCodeTagExhausted:
		return "TagExhausted"
	case ErrCodeServiceMismatch:
		return "ServiceMismatch"
	default:
		return "Unknown"
	}
}
