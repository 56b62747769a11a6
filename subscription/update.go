package subscription

import "github.com/AjayThorve/MRC/types"

// Entry is one (tag, instance_id) pair diffused as part of a role's
// membership snapshot.
type Entry struct {
	Tag        types.Tag
	InstanceID types.InstanceID
}

// Update is the message a Role diffuses to its subscribers whenever its
// membership changes. ServiceName/RoleName let a subscriber with many
// registrations demultiplex the update without extra round trips.
type Update struct {
	ServiceName string
	RoleName    string
	Nonce       uint64
	Entries     []Entry
}

// Subscriber is anything that can receive a Role's diffused Update. The
// server wraps each registered client instance's stream in one; tests use
// an in-memory fake.
type Subscriber interface {
	// InstanceID identifies the subscribing instance, for logging and for
	// cleanup bookkeeping.
	InstanceID() types.InstanceID

	// Deliver sends one Update. A non-nil error is logged by the caller
	// and does not abort diffusion to the remaining subscribers.
	Deliver(Update) error
}
