package clientregistry

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/AjayThorve/MRC/transport"
	"github.com/AjayThorve/MRC/types"
)

// ClientInstance is a registered worker endpoint.
type ClientInstance struct {
	InstanceID types.InstanceID
	StreamID   types.StreamID
	Writer     transport.StreamWriter
	UCXAddress string
}

// AddressStore persists claimed UCX worker addresses so uniqueness
// survives a server restart. jetstream.KeyValue satisfies this
// narrowed-down interface directly.
type AddressStore interface {
	Create(ctx context.Context, key string, value []byte) (uint64, error)
	Delete(ctx context.Context, key string) error
}

type jetstreamAddressStore struct {
	kv jetstream.KeyValue
}

func (j jetstreamAddressStore) Create(ctx context.Context, key string, value []byte) (uint64, error) {
	return j.kv.Create(ctx, key, value)
}

func (j jetstreamAddressStore) Delete(ctx context.Context, key string) error {
	return j.kv.Delete(ctx, key)
}

// NewJetStreamAddressStore adapts a jetstream.KeyValue bucket to AddressStore.
func NewJetStreamAddressStore(kv jetstream.KeyValue) AddressStore {
	return jetstreamAddressStore{kv: kv}
}

// Registry is the control plane's client bookkeeping: streams,
// instances, the instance-by-stream index, and the UCX address set.
type Registry struct {
	streams   *xsync.MapOf[types.StreamID, transport.StreamWriter]
	instances *xsync.MapOf[types.InstanceID, *ClientInstance]

	// instancesByStream is a plain map guarded by streamMu rather than a
	// concurrent map: every mutation already happens on the dispatcher's
	// single goroutine, and the value type (a set) needs atomic
	// read-modify-write semantics a concurrent map's Store/Load pair
	// cannot give without its own extra locking anyway.
	streamMu          sync.Mutex
	instancesByStream map[types.StreamID]map[types.InstanceID]struct{}

	ucxAddresses *xsync.MapOf[string, types.InstanceID]

	addressStore AddressStore // nil is valid: address uniqueness is then process-lifetime only

	nextInstanceID atomic.Uint64
}

// New constructs an empty Registry. addressStore may be nil, in which
// case UCX address uniqueness is enforced only in memory (no KV-backed
// persistence across restarts).
func New(addressStore AddressStore) *Registry {
	return &Registry{
		streams:           xsync.NewMapOf[types.StreamID, transport.StreamWriter](),
		instances:         xsync.NewMapOf[types.InstanceID, *ClientInstance](),
		instancesByStream: make(map[types.StreamID]map[types.InstanceID]struct{}),
		ucxAddresses:      xsync.NewMapOf[string, types.InstanceID](),
		addressStore:      addressStore,
	}
}

// NextInstanceID allocates the next globally-unique instance id. Starts
// at 1 so a zero value never collides with a real instance.
func (r *Registry) NextInstanceID() types.InstanceID {
	return types.InstanceID(r.nextInstanceID.Add(1))
}

// BindStream records streamID's writer.
func (r *Registry) BindStream(streamID types.StreamID, writer transport.StreamWriter) {
	r.streams.Store(streamID, writer)
}

// StreamWriter looks up the writer bound to streamID.
func (r *Registry) StreamWriter(streamID types.StreamID) (transport.StreamWriter, bool) {
	return r.streams.Load(streamID)
}

// ClaimAddress atomically claims address for instanceID, both in memory
// and (if configured) in the KV-backed store. Returns
// types.ErrDuplicateUCXAddress if already claimed.
func (r *Registry) ClaimAddress(ctx context.Context, address string, instanceID types.InstanceID) error {
	if _, loaded := r.ucxAddresses.LoadOrStore(address, instanceID); loaded {
		return fmt.Errorf("claim address %q: %w", address, types.ErrDuplicateUCXAddress)
	}
	if r.addressStore != nil {
		if _, err := r.addressStore.Create(ctx, addressKey(address), []byte{}); err != nil {
			r.ucxAddresses.Delete(address)
			return fmt.Errorf("claim address %q: %w", address, types.ErrDuplicateUCXAddress)
		}
	}
	return nil
}

// HasAddress reports whether address is currently claimed.
func (r *Registry) HasAddress(address string) bool {
	_, ok := r.ucxAddresses.Load(address)
	return ok
}

// ReleaseAddress undoes a ClaimAddress, used to roll back a partially
// claimed RegisterWorkers batch that later failed.
func (r *Registry) ReleaseAddress(ctx context.Context, address string) {
	r.releaseAddress(ctx, address)
}

// RegisterInstance records a new ClientInstance and indexes it by
// stream.
func (r *Registry) RegisterInstance(instance *ClientInstance) {
	r.instances.Store(instance.InstanceID, instance)

	r.streamMu.Lock()
	set, ok := r.instancesByStream[instance.StreamID]
	if !ok {
		set = make(map[types.InstanceID]struct{})
		r.instancesByStream[instance.StreamID] = set
	}
	set[instance.InstanceID] = struct{}{}
	r.streamMu.Unlock()
}

// Instance looks up a registered instance.
func (r *Registry) Instance(id types.InstanceID) (*ClientInstance, bool) {
	return r.instances.Load(id)
}

// InstancesForStream returns the instance ids currently bound to
// streamID.
func (r *Registry) InstancesForStream(streamID types.StreamID) []types.InstanceID {
	r.streamMu.Lock()
	set, ok := r.instancesByStream[streamID]
	ids := make([]types.InstanceID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	r.streamMu.Unlock()
	if !ok {
		return nil
	}
	return ids
}

// DropStream removes streamID, every instance bound to it, and releases
// their UCX addresses. It does not touch subscription services: callers
// must drop an instance's tags from every subscription service *before*
// calling DropStream, per the service-first, registry-last cascade
// ordering.
func (r *Registry) DropStream(ctx context.Context, streamID types.StreamID) []types.InstanceID {
	ids := r.InstancesForStream(streamID)
	for _, id := range ids {
		if instance, ok := r.instances.LoadAndDelete(id); ok {
			r.releaseAddress(ctx, instance.UCXAddress)
		}
	}
	r.streamMu.Lock()
	delete(r.instancesByStream, streamID)
	r.streamMu.Unlock()
	r.streams.Delete(streamID)
	return ids
}

func (r *Registry) releaseAddress(ctx context.Context, address string) {
	if address == "" {
		return
	}
	r.ucxAddresses.Delete(address)
	if r.addressStore != nil {
		_ = r.addressStore.Delete(ctx, addressKey(address))
	}
}

// InstanceCount returns the number of registered instances.
func (r *Registry) InstanceCount() int {
	return r.instances.Size()
}

// addressKey encodes address so the key stays within the KV key alphabet
// (letters, digits, '-', '_', '/', '=', '.'); raw UCX addresses carry ':'.
func addressKey(address string) string {
	return "ucx." + base64.RawURLEncoding.EncodeToString([]byte(address))
}
