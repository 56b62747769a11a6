package logging

import "github.com/AjayThorve/MRC/types"

// NopLogger discards every log message. Useful in tests and for a
// server started with logging handled externally.
type NopLogger struct{}

var _ types.Logger = (*NopLogger)(nil)

// NewNop creates a no-op logger.
func NewNop() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(string, ...any) {}
func (n *NopLogger) Info(string, ...any)  {}
func (n *NopLogger) Warn(string, ...any)  {}
func (n *NopLogger) Error(string, ...any) {}

// Fatal discards the message; unlike SlogLogger it does not call
// os.Exit, so tests exercising failure paths don't kill the process.
func (n *NopLogger) Fatal(string, ...any) {}
