package subscription

import (
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/AjayThorve/MRC/types"
)

// Role holds the members and subscribers for one (service_name,
// role_name) pair and diffuses membership changes to subscribers.
//
// Members and subscribers are stored in concurrent maps (the same shape
// the dispatcher already uses for the client registry's tables) because
// metrics and debug introspection read them without taking the
// dispatcher's lock; all mutation still happens on the single dispatcher
// goroutine, so there is never concurrent writing to race over.
type Role struct {
	serviceName string
	roleName    string

	mu           sync.Mutex // protects memberOrder and last/nonce pairing
	members      *xsync.MapOf[types.Tag, types.InstanceID]
	memberOrder  []types.Tag
	subscribers  *xsync.MapOf[types.Tag, Subscriber]

	nonce      atomic.Uint64
	lastUpdate atomic.Uint64
}

// NewRole constructs an empty Role. nonce and lastUpdate both start at 1,
// matching the unique-id numbering convention used elsewhere: a zero
// value must never be mistaken for "has diffused".
func NewRole(serviceName, roleName string) *Role {
	r := &Role{
		serviceName: serviceName,
		roleName:    roleName,
		members:     xsync.NewMapOf[types.Tag, types.InstanceID](),
		subscribers: xsync.NewMapOf[types.Tag, Subscriber](),
	}
	r.nonce.Store(1)
	r.lastUpdate.Store(1)
	return r
}

// Name returns the role's name.
func (r *Role) Name() string { return r.roleName }

// AddMember records (tag, instance) as a member of the role. A repeat
// registration for an already-present tag is a no-op and does not bump
// the nonce.
func (r *Role) AddMember(tag types.Tag, instance types.InstanceID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, loaded := r.members.LoadOrStore(tag, instance); loaded {
		return
	}
	r.memberOrder = append(r.memberOrder, tag)
	r.nonce.Add(1)
}

// AddSubscriber registers sub to receive diffused updates for the role.
func (r *Role) AddSubscriber(tag types.Tag, sub Subscriber) {
	if _, loaded := r.subscribers.LoadOrStore(tag, sub); loaded {
		return
	}
	r.mu.Lock()
	r.nonce.Add(1)
	r.mu.Unlock()
}

// DropTag removes tag from either the member or subscriber table. If the
// tag was present in either, the nonce advances.
func (r *Role) DropTag(tag types.Tag) {
	_, memberRemoved := r.members.LoadAndDelete(tag)
	_, subRemoved := r.subscribers.LoadAndDelete(tag)
	if !memberRemoved && !subRemoved {
		return
	}
	r.mu.Lock()
	if memberRemoved {
		r.removeFromOrder(tag)
	}
	r.nonce.Add(1)
	r.mu.Unlock()
}

// removeFromOrder deletes tag from memberOrder. Must be called with mu held.
func (r *Role) removeFromOrder(tag types.Tag) {
	for i, t := range r.memberOrder {
		if t == tag {
			r.memberOrder = append(r.memberOrder[:i], r.memberOrder[i+1:]...)
			return
		}
	}
}

// IssueUpdate diffuses the role's current membership to every subscriber
// if the nonce has advanced since the last diffusion. Write failures to
// individual subscribers are returned via the onFailure callback and do
// not stop diffusion to the rest.
//
// Returns true if a diffusion actually occurred (the role was dirty).
func (r *Role) IssueUpdate(onFailure func(sub Subscriber, serviceName, roleName string, err error)) bool {
	r.mu.Lock()
	nonce := r.nonce.Load()
	if r.lastUpdate.Load() == nonce {
		r.mu.Unlock()
		return false
	}

	entries := make([]Entry, 0, len(r.memberOrder))
	for _, tag := range r.memberOrder {
		if instanceID, ok := r.members.Load(tag); ok {
			entries = append(entries, Entry{Tag: tag, InstanceID: instanceID})
		}
	}
	r.mu.Unlock()

	update := Update{
		ServiceName: r.serviceName,
		RoleName:    r.roleName,
		Nonce:       nonce,
		Entries:     entries,
	}

	r.subscribers.Range(func(_ types.Tag, sub Subscriber) bool {
		if err := sub.Deliver(update); err != nil && onFailure != nil {
			onFailure(sub, r.serviceName, r.roleName, err)
		}
		return true
	})

	r.lastUpdate.Store(nonce)
	return true
}
