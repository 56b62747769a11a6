package types

// SegmentState represents the lifecycle state of a client-side segment
// instance.
//
// Segments progress linearly under the reconciler's control:
//
//	SegmentCreated → SegmentRunning → SegmentStopping → SegmentJoined → SegmentRemoved
//
// A segment that quiesces on its own (source exhaustion) stops at
// SegmentJoined and stays there until the reconciler is told to remove it;
// it never transitions to SegmentRemoved without an explicit remove_segment
// call, preserving "observed state = controller-approved state".
type SegmentState int

const (
	// SegmentCreated indicates the segment instance exists but has not started.
	SegmentCreated SegmentState = iota

	// SegmentRunning indicates the segment is actively processing.
	SegmentRunning

	// SegmentStopping indicates cooperative shutdown has been signaled.
	SegmentStopping

	// SegmentJoined indicates the segment's workers have quiesced.
	SegmentJoined

	// SegmentRemoved is terminal: the segment has been removed from the
	// owning pipeline instance.
	SegmentRemoved
)

// String returns the human-readable name of the segment state.
func (s SegmentState) String() string {
	switch s {
	case SegmentCreated:
		return "Created"
	case SegmentRunning:
		return "Running"
	case SegmentStopping:
		return "Stopping"
	case SegmentJoined:
		return "Joined"
	case SegmentRemoved:
		return "Removed"
	default:
		return "Unknown"
	}
}

// ManifoldState represents the lifecycle state of a client-side manifold
// instance (a named cross-segment queue).
//
//	ManifoldCreated → ManifoldConnected → ManifoldDraining → ManifoldClosed
type ManifoldState int

const (
	// ManifoldCreated indicates the manifold has been lazily constructed
	// but has no connected segments yet.
	ManifoldCreated ManifoldState = iota

	// ManifoldConnected indicates at least one segment is attached.
	ManifoldConnected

	// ManifoldDraining indicates the manifold is shedding connections.
	ManifoldDraining

	// ManifoldClosed is terminal: no segments reference the manifold.
	ManifoldClosed
)

// String returns the human-readable name of the manifold state.
func (m ManifoldState) String() string {
	switch m {
	case ManifoldCreated:
		return "Created"
	case ManifoldConnected:
		return "Connected"
	case ManifoldDraining:
		return "Draining"
	case ManifoldClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
