package reconciler

import (
	"context"
	"fmt"
	"sync"

	"github.com/AjayThorve/MRC/types"
)

// SegmentAddress identifies a segment instance within a pipeline instance:
// the segment's name paired with the partition it runs on.
type SegmentAddress struct {
	Name        string
	PartitionID uint32
}

// String renders the address as "name@partitionN".
func (a SegmentAddress) String() string {
	return fmt.Sprintf("%s@partition%d", a.Name, a.PartitionID)
}

// PortName identifies a manifold: the named connector a segment's
// ingress/egress ports resolve to.
type PortName string

var segmentTransitions = map[types.SegmentState][]types.SegmentState{
	types.SegmentCreated:  {types.SegmentRunning},
	types.SegmentRunning:  {types.SegmentStopping, types.SegmentJoined},
	types.SegmentStopping: {types.SegmentJoined},
	types.SegmentJoined:   {types.SegmentRemoved},
	types.SegmentRemoved:  {},
}

func validSegmentTransition(from, to types.SegmentState) bool {
	for _, allowed := range segmentTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// SegmentInstance is the reconciler's handle on one running (or
// converging) segment. It owns its own state and is safe for concurrent
// use; the reconciler's mutex never needs to be held while waiting on it.
type SegmentInstance struct {
	address     SegmentAddress
	partitionID uint32
	ports       []PortName

	mu    sync.Mutex
	state types.SegmentState

	joinedCh   chan struct{}
	joinedOnce sync.Once
}

func newSegmentInstance(address SegmentAddress, partitionID uint32, ports []PortName) *SegmentInstance {
	return &SegmentInstance{
		address:     address,
		partitionID: partitionID,
		ports:       ports,
		state:       types.SegmentCreated,
		joinedCh:    make(chan struct{}),
	}
}

// Address returns the segment's address.
func (s *SegmentInstance) Address() SegmentAddress { return s.address }

// PartitionID returns the partition the segment runs on.
func (s *SegmentInstance) PartitionID() uint32 { return s.partitionID }

// Ports returns the manifold ports this segment's ingress/egress
// connect to.
func (s *SegmentInstance) Ports() []PortName { return s.ports }

// State returns the segment's current lifecycle state.
func (s *SegmentInstance) State() types.SegmentState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *SegmentInstance) transition(to types.SegmentState) error {
	s.mu.Lock()
	from := s.state
	if !validSegmentTransition(from, to) {
		s.mu.Unlock()
		return fmt.Errorf("segment %s: invalid transition %s -> %s", s.address, from, to)
	}
	s.state = to
	s.mu.Unlock()

	if to == types.SegmentJoined {
		s.joinedOnce.Do(func() { close(s.joinedCh) })
	}

	return nil
}

// Start transitions the segment from created to running.
func (s *SegmentInstance) Start() error {
	return s.transition(types.SegmentRunning)
}

// Stop signals cooperative shutdown. This package does not drive any
// real dataflow, so the transition to joined follows shortly after on
// its own goroutine, standing in for the worker drain a real execution
// backend would perform before calling NotifyQuiesced itself.
func (s *SegmentInstance) Stop() error {
	if err := s.transition(types.SegmentStopping); err != nil {
		return err
	}

	go func() { _ = s.NotifyQuiesced() }()

	return nil
}

// NotifyQuiesced marks the segment joined. It is exposed so a real
// execution backend can report a segment that quiesced on its own (e.g.
// source exhaustion) without stop_segment ever being called; the segment
// still remains in the reconciler's map until an explicit RemoveSegment.
func (s *SegmentInstance) NotifyQuiesced() error {
	s.mu.Lock()
	from := s.state
	s.mu.Unlock()

	if from == types.SegmentJoined {
		return nil
	}

	return s.transition(types.SegmentJoined)
}

// Join blocks until the segment reaches SegmentJoined or ctx is done.
// Callers must not hold the reconciler's mutex while calling this.
func (s *SegmentInstance) Join(ctx context.Context) error {
	select {
	case <-s.joinedCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
