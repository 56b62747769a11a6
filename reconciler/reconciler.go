package reconciler

import (
	"context"
	"fmt"
	"sync"

	"github.com/AjayThorve/MRC/internal/logging"
	"github.com/AjayThorve/MRC/types"
)

// TargetSegment is one segment in a declarative target state: the
// address and partition it should run on, plus the manifold ports its
// ingress/egress connect to.
type TargetSegment struct {
	Address     SegmentAddress
	PartitionID uint32
	Ports       []PortName
}

// TargetState is the declarative snapshot a Reconciler converges toward.
type TargetState struct {
	Segments []TargetSegment
}

// UpdateResult reports what a single Update call changed, for logging
// and tests; it is not part of the convergence contract itself.
type UpdateResult struct {
	Created []SegmentAddress
	Removed []SegmentAddress
}

// Reconciler is a PipelineInstance's convergence engine. It owns the
// live segment and manifold maps and drives them toward whatever target
// state Update is last given.
//
// Its own mutex guards the segment and manifold maps only; no lock is
// held across a JoinSegment wait, since that wait can be arbitrarily
// long and must not block unrelated CreateSegment/GetManifold calls.
type Reconciler struct {
	instanceID uint64
	logger     types.Logger

	mu        sync.Mutex
	segments  map[SegmentAddress]*SegmentInstance
	manifolds map[PortName]*ManifoldInstance

	joinableOnce sync.Once
	joinableCh   chan struct{}
}

// New creates a Reconciler for the pipeline instance identified by
// instanceID. A nil logger falls back to a no-op logger.
func New(instanceID uint64, logger types.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Reconciler{
		instanceID: instanceID,
		logger:     logger,
		segments:   make(map[SegmentAddress]*SegmentInstance),
		manifolds:  make(map[PortName]*ManifoldInstance),
		joinableCh: make(chan struct{}),
	}
}

// InstanceID returns the pipeline instance id this reconciler belongs to.
func (r *Reconciler) InstanceID() uint64 { return r.instanceID }

// CreateSegment instantiates a SegmentInstance at address on partitionID
// and inserts it into the owning map. Idempotent: if a segment already
// exists at address, it is returned unchanged.
func (r *Reconciler) CreateSegment(address SegmentAddress, partitionID uint32, ports []PortName) *SegmentInstance {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seg, ok := r.segments[address]; ok {
		return seg
	}

	seg := newSegmentInstance(address, partitionID, ports)
	r.segments[address] = seg

	return seg
}

func (r *Reconciler) lookupSegment(address SegmentAddress) (*SegmentInstance, error) {
	r.mu.Lock()
	seg, ok := r.segments[address]
	r.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrSegmentNotFound, address)
	}

	return seg, nil
}

// StopSegment signals address to begin cooperative shutdown.
func (r *Reconciler) StopSegment(address SegmentAddress) error {
	seg, err := r.lookupSegment(address)
	if err != nil {
		return err
	}

	return seg.Stop()
}

// JoinSegment waits until address's workers have quiesced. The
// reconciler's mutex is released before the lookup returns, so this can
// block indefinitely without stalling the rest of the reconciler.
func (r *Reconciler) JoinSegment(ctx context.Context, address SegmentAddress) error {
	seg, err := r.lookupSegment(address)
	if err != nil {
		return err
	}

	return seg.Join(ctx)
}

// RemoveSegment removes address from the owning map. Precondition:
// address must be SegmentJoined.
func (r *Reconciler) RemoveSegment(address SegmentAddress) error {
	seg, err := r.lookupSegment(address)
	if err != nil {
		return err
	}

	if seg.State() != types.SegmentJoined {
		return fmt.Errorf("%w: %s", types.ErrSegmentNotJoined, address)
	}

	r.mu.Lock()
	delete(r.segments, address)
	manifolds := make([]*ManifoldInstance, 0, len(seg.Ports()))
	for _, port := range seg.Ports() {
		if manifold, ok := r.manifolds[port]; ok {
			manifolds = append(manifolds, manifold)
		}
	}
	r.mu.Unlock()

	for _, manifold := range manifolds {
		_ = manifold.Disconnect(address)
	}

	return nil
}

// GetManifold returns the shared manifold for port, constructing it
// lazily under the reconciler's lock if it does not exist yet.
func (r *Reconciler) GetManifold(port PortName) *ManifoldInstance {
	r.mu.Lock()
	defer r.mu.Unlock()

	manifold, ok := r.manifolds[port]
	if !ok {
		manifold = newManifoldInstance(port)
		r.manifolds[port] = manifold
	}

	return manifold
}

// Update is the convergence step: given target, it
//  1. creates every target segment absent locally and stages it for a
//     mass start,
//  2. stops, joins, and removes every local segment absent from target,
//  3. resolves the manifold for every port a staged segment references,
//  4. starts every staged segment, now that all its manifolds exist.
//
// Calling Update twice with the same target is a no-op on the second
// call: no segment absent from the first pass is created or staged
// again.
func (r *Reconciler) Update(ctx context.Context, target TargetState) (UpdateResult, error) {
	var result UpdateResult

	wanted := make(map[SegmentAddress]struct{}, len(target.Segments))
	for _, ts := range target.Segments {
		wanted[ts.Address] = struct{}{}
	}

	r.mu.Lock()
	var stale []SegmentAddress
	for addr := range r.segments {
		if _, ok := wanted[addr]; !ok {
			stale = append(stale, addr)
		}
	}
	r.mu.Unlock()

	var staged []*SegmentInstance
	for _, ts := range target.Segments {
		r.mu.Lock()
		_, existed := r.segments[ts.Address]
		r.mu.Unlock()
		if existed {
			continue
		}

		seg := r.CreateSegment(ts.Address, ts.PartitionID, ts.Ports)
		staged = append(staged, seg)
		result.Created = append(result.Created, ts.Address)
	}

	for _, addr := range stale {
		if err := r.StopSegment(addr); err != nil {
			return result, err
		}
		if err := r.JoinSegment(ctx, addr); err != nil {
			return result, err
		}
		if err := r.RemoveSegment(addr); err != nil {
			return result, err
		}
		result.Removed = append(result.Removed, addr)
	}

	for _, seg := range staged {
		for _, port := range seg.Ports() {
			if err := r.GetManifold(port).Connect(seg.Address()); err != nil {
				return result, err
			}
		}
	}

	for _, seg := range staged {
		if err := seg.Start(); err != nil {
			return result, err
		}
	}

	if len(result.Created) > 0 || len(result.Removed) > 0 {
		r.logger.Info("pipeline instance reconciled",
			"instance_id", r.instanceID,
			"created", len(result.Created),
			"removed", len(result.Removed),
		)
	}

	return result, nil
}

// MarkJoinable performs the terminal transition: it fulfills the
// joinable promise exactly once. Subsequent calls are no-ops.
func (r *Reconciler) MarkJoinable() {
	r.joinableOnce.Do(func() { close(r.joinableCh) })
}

// Joinable returns a channel that is closed once MarkJoinable has been
// called, mirroring a one-shot future a caller can wait on.
func (r *Reconciler) Joinable() <-chan struct{} {
	return r.joinableCh
}
