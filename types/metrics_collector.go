package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods are called from internal goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces for better
// modularity, matching the shape (not the domain) of a manager-level
// metrics collector: one sub-interface per major component.
type MetricsCollector interface {
	DispatcherMetrics
	SchedulerMetrics
	RegistryMetrics
	ReconcilerMetrics
}

// DispatcherMetrics defines metrics for the event dispatcher.
type DispatcherMetrics interface {
	// RecordEventHandled records a single dispatched event.
	//
	// Parameters:
	//   - eventType: the wire event type name ("RegisterWorkers", ...)
	//   - duration: handler wall time in seconds
	//   - success: whether the handler returned a success response
	RecordEventHandled(eventType string, duration float64, success bool)

	// RecordQueueDepth sets the current pending-event queue depth.
	RecordQueueDepth(depth int)
}

// SchedulerMetrics defines metrics for the update scheduler.
type SchedulerMetrics interface {
	// RecordUpdateTick records one scheduler tick.
	//
	// Parameters:
	//   - dirtyRoles: number of roles whose issue_update actually diffused
	//   - duration: wall time to walk every subscription service
	RecordUpdateTick(dirtyRoles int, duration float64)

	// RecordDiffusionFailure records a failed write to a subscriber
	// during update diffusion.
	RecordDiffusionFailure(serviceName, roleName string)
}

// RegistryMetrics defines metrics for the client registry.
type RegistryMetrics interface {
	// RecordInstanceCount sets the current registered instance count.
	RecordInstanceCount(count int)

	// RecordStreamDropped records a stream-disconnect cascade.
	RecordStreamDropped(instancesDropped int)
}

// ReconcilerMetrics defines metrics for the client-side pipeline instance
// reconciler.
type ReconcilerMetrics interface {
	// RecordReconcileDuration records the wall time of one Update() call.
	RecordReconcileDuration(duration float64)

	// RecordSegmentTransition records a segment state-machine transition.
	RecordSegmentTransition(from, to SegmentState)

	// RecordManifoldCount sets the current live manifold count.
	RecordManifoldCount(count int)
}
