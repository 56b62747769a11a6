package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/AjayThorve/MRC/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	*NopMetrics

	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	// event dispatcher
	eventsHandled *prometheus.CounterVec
	eventDuration *prometheus.HistogramVec
	queueDepth    prometheus.Gauge

	// update scheduler
	updateTicks        prometheus.Counter
	updateDirtyRoles    prometheus.Histogram
	updateDuration     prometheus.Histogram
	diffusionFailures  *prometheus.CounterVec

	// client registry
	instanceCount   prometheus.Gauge
	streamsDropped  prometheus.Counter
	instancesDropped prometheus.Counter

	// reconciler
	reconcileDuration  prometheus.Histogram
	segmentTransitions *prometheus.CounterVec
	manifoldCount      prometheus.Gauge
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// reg defaults to prometheus.DefaultRegisterer when nil; namespace
// defaults to "mrc" when empty.
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "mrc"
	}

	return &PrometheusCollector{NopMetrics: NewNop(), reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.eventsHandled = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "dispatcher",
			Name:      "events_handled_total",
			Help:      "Total events handled by the dispatcher, by event type and outcome.",
		}, []string{"event_type", "success"})

		p.eventDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "dispatcher",
			Name:      "event_duration_seconds",
			Help:      "Handler wall time in seconds by event type.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event_type"})

		p.queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "dispatcher",
			Name:      "queue_depth",
			Help:      "Current pending-event queue depth.",
		})

		p.updateTicks = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "update_ticks_total",
			Help:      "Total update scheduler ticks.",
		})

		p.updateDirtyRoles = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "update_dirty_roles",
			Help:      "Number of roles whose issue_update actually diffused per tick.",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		})

		p.updateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "update_duration_seconds",
			Help:      "Wall time to walk every subscription service in one tick.",
			Buckets:   prometheus.DefBuckets,
		})

		p.diffusionFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "scheduler",
			Name:      "diffusion_failures_total",
			Help:      "Failed writes to a subscriber during update diffusion, by service and role.",
		}, []string{"service", "role"})

		p.instanceCount = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "instance_count",
			Help:      "Current registered instance count.",
		})

		p.streamsDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "streams_dropped_total",
			Help:      "Total stream-disconnect cascades.",
		})

		p.instancesDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "registry",
			Name:      "instances_dropped_total",
			Help:      "Total instances removed by stream-disconnect cascades.",
		})

		p.reconcileDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "reconciler",
			Name:      "reconcile_duration_seconds",
			Help:      "Wall time of one Update() convergence pass.",
			Buckets:   prometheus.DefBuckets,
		})

		p.segmentTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "reconciler",
			Name:      "segment_transitions_total",
			Help:      "Segment state-machine transitions, by from/to state.",
		}, []string{"from", "to"})

		p.manifoldCount = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "reconciler",
			Name:      "manifold_count",
			Help:      "Current live manifold count.",
		})

		p.reg.MustRegister(p.eventsHandled)
		p.reg.MustRegister(p.eventDuration)
		p.reg.MustRegister(p.queueDepth)
		p.reg.MustRegister(p.updateTicks)
		p.reg.MustRegister(p.updateDirtyRoles)
		p.reg.MustRegister(p.updateDuration)
		p.reg.MustRegister(p.diffusionFailures)
		p.reg.MustRegister(p.instanceCount)
		p.reg.MustRegister(p.streamsDropped)
		p.reg.MustRegister(p.instancesDropped)
		p.reg.MustRegister(p.reconcileDuration)
		p.reg.MustRegister(p.segmentTransitions)
		p.reg.MustRegister(p.manifoldCount)
	})
}

// DispatcherMetrics implementation

func (p *PrometheusCollector) RecordEventHandled(eventType string, duration float64, success bool) {
	p.ensureRegistered()
	p.eventsHandled.WithLabelValues(eventType, boolLabel(success)).Inc()
	p.eventDuration.WithLabelValues(eventType).Observe(duration)
}

func (p *PrometheusCollector) RecordQueueDepth(depth int) {
	p.ensureRegistered()
	p.queueDepth.Set(float64(depth))
}

// SchedulerMetrics implementation

func (p *PrometheusCollector) RecordUpdateTick(dirtyRoles int, duration float64) {
	p.ensureRegistered()
	p.updateTicks.Inc()
	p.updateDirtyRoles.Observe(float64(dirtyRoles))
	p.updateDuration.Observe(duration)
}

func (p *PrometheusCollector) RecordDiffusionFailure(serviceName, roleName string) {
	p.ensureRegistered()
	p.diffusionFailures.WithLabelValues(serviceName, roleName).Inc()
}

// RegistryMetrics implementation

func (p *PrometheusCollector) RecordInstanceCount(count int) {
	p.ensureRegistered()
	p.instanceCount.Set(float64(count))
}

func (p *PrometheusCollector) RecordStreamDropped(instancesDropped int) {
	p.ensureRegistered()
	p.streamsDropped.Inc()
	p.instancesDropped.Add(float64(instancesDropped))
}

// ReconcilerMetrics implementation

func (p *PrometheusCollector) RecordReconcileDuration(duration float64) {
	p.ensureRegistered()
	p.reconcileDuration.Observe(duration)
}

func (p *PrometheusCollector) RecordSegmentTransition(from, to types.SegmentState) {
	p.ensureRegistered()
	p.segmentTransitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (p *PrometheusCollector) RecordManifoldCount(count int) {
	p.ensureRegistered()
	p.manifoldCount.Set(float64(count))
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
