package metrics

import "github.com/AjayThorve/MRC/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// DispatcherMetrics implementation

func (n *NopMetrics) RecordEventHandled(_ /* eventType */ string, _ /* duration */ float64, _ /* success */ bool) {
}

func (n *NopMetrics) RecordQueueDepth(_ /* depth */ int) {}

// SchedulerMetrics implementation

func (n *NopMetrics) RecordUpdateTick(_ /* dirtyRoles */ int, _ /* duration */ float64) {}

func (n *NopMetrics) RecordDiffusionFailure(_ /* serviceName */, _ /* roleName */ string) {}

// RegistryMetrics implementation

func (n *NopMetrics) RecordInstanceCount(_ /* count */ int) {}

func (n *NopMetrics) RecordStreamDropped(_ /* instancesDropped */ int) {}

// ReconcilerMetrics implementation

func (n *NopMetrics) RecordReconcileDuration(_ /* duration */ float64) {}

func (n *NopMetrics) RecordSegmentTransition(_ /* from */, _ /* to */ types.SegmentState) {}

func (n *NopMetrics) RecordManifoldCount(_ /* count */ int) {}
