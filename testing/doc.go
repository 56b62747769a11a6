// Package testing provides test utilities for this module.
//
// It offers helpers for setting up test environments, in particular an
// embedded single-node NATS server with JetStream enabled, for
// components that persist state through a jetstream.KeyValue bucket
// (the client registry's UCX address store). It follows Go's convention
// of providing testing utilities in a dedicated package (similar to
// net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: single NATS server with JetStream
//   - CreateJetStreamKV: convenience wrapper for KV bucket creation
//
// Example usage:
//
//	import (
//	    "testing"
//	    mrctest "github.com/AjayThorve/MRC/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := mrctest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
