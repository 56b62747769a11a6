// Package types provides core type definitions and interfaces for the control
// plane and its client-side reconciler.
//
// This package contains shared types used across multiple packages in the
// module. By keeping these types in a separate package, we avoid import
// cycles between the root package and its internal implementations.
//
// Key types:
//   - Tag: 64-bit service-scoped subscription identifier
//   - InstanceID, StreamID: opaque registry identifiers
//   - SegmentState, ManifoldState: client-side pipeline lifecycle states
//   - Logger: structured logging interface
//   - MetricsCollector: metrics recording interface
//   - Hooks: lifecycle callbacks
package types
