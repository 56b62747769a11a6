// Package reconciler implements the client-side pipeline instance
// reconciler: a convergence loop that takes a declarative target
// segment/manifold set and mutates a live PipelineInstance to match it.
//
// The actual execution of a segment's dataflow graph is out of scope for
// this package; a SegmentInstance models only the lifecycle a controller
// observes (created, running, stopping, joined, removed), and quiescence
// is signaled back through NotifyQuiesced rather than driven by a real
// worker loop.
package reconciler
