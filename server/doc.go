// Package server implements the control plane's event dispatcher and
// update scheduler: the single-threaded event pump that accepts client
// streams, classifies and handles their requests, mutates the client
// registry and subscription services under one global mutex, and
// periodically diffuses subscription updates.
package server
