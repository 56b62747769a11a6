package reconciler

import (
	"fmt"
	"sync"

	"github.com/AjayThorve/MRC/types"
)

var manifoldTransitions = map[types.ManifoldState][]types.ManifoldState{
	types.ManifoldCreated:   {types.ManifoldConnected},
	types.ManifoldConnected: {types.ManifoldDraining},
	types.ManifoldDraining:  {types.ManifoldClosed},
	types.ManifoldClosed:    {},
}

func validManifoldTransition(from, to types.ManifoldState) bool {
	for _, allowed := range manifoldTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ManifoldInstance is the shared connector backing one named port. It is
// lazily created by the reconciler the first time any segment references
// the port and is reference-counted by the set of segments currently
// connected to it.
type ManifoldInstance struct {
	port PortName

	mu        sync.Mutex
	state     types.ManifoldState
	connected map[SegmentAddress]struct{}
}

func newManifoldInstance(port PortName) *ManifoldInstance {
	return &ManifoldInstance{
		port:      port,
		state:     types.ManifoldCreated,
		connected: make(map[SegmentAddress]struct{}),
	}
}

// Port returns the manifold's port name.
func (m *ManifoldInstance) Port() PortName { return m.port }

// State returns the manifold's current lifecycle state.
func (m *ManifoldInstance) State() types.ManifoldState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// RefCount returns the number of segments currently connected.
func (m *ManifoldInstance) RefCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.connected)
}

func (m *ManifoldInstance) transitionLocked(to types.ManifoldState) error {
	if !validManifoldTransition(m.state, to) {
		return fmt.Errorf("manifold %s: invalid transition %s -> %s", m.port, m.state, to)
	}
	m.state = to

	return nil
}

// Connect attaches a segment to the manifold. Idempotent: connecting the
// same address twice is a no-op.
func (m *ManifoldInstance) Connect(address SegmentAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.connected[address]; ok {
		return nil
	}

	if m.state == types.ManifoldCreated {
		if err := m.transitionLocked(types.ManifoldConnected); err != nil {
			return err
		}
	}
	m.connected[address] = struct{}{}

	return nil
}

// Disconnect detaches a segment from the manifold. Once the last
// connected segment is gone, the manifold drains and closes; this
// package has no real data plane to drain, so draining and closing
// happen back to back rather than as observably separate phases.
func (m *ManifoldInstance) Disconnect(address SegmentAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.connected, address)
	if len(m.connected) > 0 || m.state != types.ManifoldConnected {
		return nil
	}

	if err := m.transitionLocked(types.ManifoldDraining); err != nil {
		return err
	}

	return m.transitionLocked(types.ManifoldClosed)
}
