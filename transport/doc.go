// Package transport defines the wire-level Event envelope exchanged over
// a bidirectional client/server stream, and the Stream abstraction the
// rest of the module programs against.
//
// The underlying RPC transport is treated as an external collaborator
// per the control plane's scope: transport only needs to provide
// bidirectional, reliable, ordered, typed message delivery with
// backpressure. The NATS-backed implementation here is one such
// provider; tests use an in-memory fake that satisfies the same
// interface.
package transport
