// Package clientregistry holds the control plane's three core tables:
// streams, instances, and the instance-by-stream index, plus the global
// set of claimed UCX worker addresses.
//
// The stream, instance and address tables are concurrent maps so metrics
// and debug introspection can read them without serializing behind the
// dispatcher; the instance-by-stream index is a plain map under its own
// mutex. Every mutating call in this package is nonetheless only
// ever invoked from the dispatcher's single goroutine, per the server's
// concurrency model.
package clientregistry
