// Package tagalloc allocates the 64-bit tags used to identify a role
// participation across a subscription service.
//
// A tag combines a process-global, monotonically increasing service id
// (assigned once per Tagged object at construction) with a per-service
// counter of up to 65535 values. Exhausting either space is a fatal
// configuration error, never a wraparound.
package tagalloc
