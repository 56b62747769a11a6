package tagalloc

import (
	"math"
	"sync/atomic"

	"github.com/AjayThorve/MRC/types"
)

// nextServiceID is the process-global service-id counter. It starts at 1
// so that a zero value never collides with a real service id.
var nextServiceID atomic.Uint32

// NextServiceID returns the next globally-unique 32-bit service id.
//
// Returns ErrServiceIDExhausted once the 32-bit space is spent; callers
// decide how to treat that (the allocator itself never aborts the
// process).
func NextServiceID() (uint32, error) {
	for {
		cur := nextServiceID.Load()
		if cur == math.MaxUint32 {
			// the counter stays pinned here: every later call fails too
			return 0, types.ErrServiceIDExhausted
		}
		if nextServiceID.CompareAndSwap(cur, cur+1) {
			return cur + 1, nil
		}
	}
}

// Counter allocates per-service unique-ids. It is not internally
// synchronized: callers hold the same lock that protects the owning
// service's tag table, matching the tagged-service base's "not
// internally synchronized" rule.
type Counter struct {
	next uint32 // wider than uint16 so overflow is detectable before masking
}

// Next returns the next tag for serviceID, or ErrTagExhausted once 65535
// unique-ids have been issued.
func (c *Counter) Next(serviceID uint32) (types.Tag, error) {
	c.next++
	if c.next > 0xFFFF {
		c.next--
		return 0, types.ErrTagExhausted
	}
	return types.NewTag(serviceID, uint16(c.next)), nil
}
