package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AjayThorve/MRC/types"
)

func TestNewNop(t *testing.T) {
	metrics := NewNop()

	require.NotNil(t, metrics)
	require.IsType(t, &NopMetrics{}, metrics)
}

func TestNopMetrics_RecordEventHandled(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordEventHandled("RegisterWorkers", 0.01, true)
		metrics.RecordEventHandled("", 0, false)
	})
}

func TestNopMetrics_RecordQueueDepth(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordQueueDepth(0)
		metrics.RecordQueueDepth(42)
	})
}

func TestNopMetrics_RecordUpdateTick(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordUpdateTick(3, 0.02)
		metrics.RecordUpdateTick(0, 0)
	})
}

func TestNopMetrics_RecordDiffusionFailure(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordDiffusionFailure("demo", "sub")
	})
}

func TestNopMetrics_RecordInstanceCount(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordInstanceCount(5)
	})
}

func TestNopMetrics_RecordStreamDropped(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordStreamDropped(2)
	})
}

func TestNopMetrics_RecordSegmentTransition(t *testing.T) {
	metrics := NewNop()

	require.NotPanics(t, func() {
		metrics.RecordSegmentTransition(types.SegmentCreated, types.SegmentRunning)
	})
}

func BenchmarkNopMetrics_RecordEventHandled(b *testing.B) {
	metrics := NewNop()
	for i := 0; i < b.N; i++ {
		metrics.RecordEventHandled("RegisterWorkers", 0.01, true)
	}
}

func BenchmarkNopMetrics_RecordUpdateTick(b *testing.B) {
	metrics := NewNop()
	for i := 0; i < b.N; i++ {
		metrics.RecordUpdateTick(3, 0.02)
	}
}
