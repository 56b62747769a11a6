package types

import "errors"

// Sentinel errors shared across packages.
//
// These provide type-safe error checking using errors.Is()/errors.As().
// Components wrap external errors with context using
// fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with the Err prefix
//   - Group by component
//   - Use consistent messages across similar error types

// Server errors - returned by the root Server type.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrAlreadyStarted is returned when Start is called on an already
	// running server.
	ErrAlreadyStarted = errors.New("server already started")

	// ErrNotStarted is returned when operations require a started server.
	ErrNotStarted = errors.New("server not started")

	// ErrListenAddressRequired is returned when no listen address was
	// configured.
	ErrListenAddressRequired = errors.New("listen address is required")
)

// Tag allocator / tagged-service errors.
var (
	// ErrServiceIDExhausted is returned when the process-global 32-bit
	// service id counter has been exhausted. Fatal at the caller's
	// discretion; the allocator itself never aborts the process.
	ErrServiceIDExhausted = errors.New("service id space exhausted")

	// ErrTagExhausted is returned when a service's 65535-tag space is
	// full.
	ErrTagExhausted = errors.New("tag space exhausted for service")

	// ErrTagNotFound is returned when drop_tag targets an unknown tag.
	ErrTagNotFound = errors.New("tag not found")
)

// Subscription service errors.
var (
	// ErrInvalidRole is returned when a request names a role the
	// subscription service does not have.
	ErrInvalidRole = errors.New("invalid role")

	// ErrEmptyRoleSet is returned when constructing a subscription
	// service with no roles.
	ErrEmptyRoleSet = errors.New("subscription service requires at least one role")

	// ErrServiceMismatch is returned when a CreateSubscriptionService
	// request names an existing service with a different role set.
	ErrServiceMismatch = errors.New("subscription service role set mismatch")

	// ErrServiceNotFound is returned when a request targets an unknown
	// subscription service.
	ErrServiceNotFound = errors.New("subscription service not found")
)

// Client registry errors.
var (
	// ErrDuplicateUCXAddress is returned when a UCX worker address
	// collides with one already registered, or with another address in
	// the same request.
	ErrDuplicateUCXAddress = errors.New("duplicate UCX worker address")

	// ErrInstanceNotFound is returned when an instance id is not
	// registered.
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrStreamNotFound is returned when a stream id is not registered.
	ErrStreamNotFound = errors.New("stream not found")
)

// Event dispatcher / transport errors.
var (
	// ErrUnexpectedMessageType is returned when an event's payload does
	// not match any request type the dispatcher knows how to handle.
	ErrUnexpectedMessageType = errors.New("unexpected message type")

	// ErrDuplicateField is returned by checkUniqueRepeatedField when a
	// repeated field contains duplicate entries.
	ErrDuplicateField = errors.New("duplicate value in repeated field")

	// ErrStreamClosed is returned by a Stream's Send/Recv after Close.
	ErrStreamClosed = errors.New("stream closed")
)

// Reconciler errors.
var (
	// ErrSegmentNotFound is returned when an operation targets an
	// unknown segment address.
	ErrSegmentNotFound = errors.New("segment not found")

	// ErrSegmentNotJoined is returned by remove_segment when the segment
	// has not reached SegmentJoined.
	ErrSegmentNotJoined = errors.New("segment not joined")
)
