package logging

import (
	"testing"

	"github.com/AjayThorve/MRC/types"
)

func TestNopLoggerImplementsInterface(t *testing.T) {
	var _ types.Logger = (*NopLogger)(nil)
}

func TestNopLoggerDiscardsMessages(t *testing.T) {
	logger := NewNop()

	// None of these should panic; there is nothing to assert on
	// since the whole point of NopLogger is to do nothing.
	logger.Debug("debug", "k", "v")
	logger.Info("info", "k", "v")
	logger.Warn("warn", "k", "v")
	logger.Error("error", "k", "v")
	logger.Fatal("fatal", "k", "v")
}
