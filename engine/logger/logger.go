// Package logger holds the engine-wide structured logger.
package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var current atomic.Pointer[zap.Logger]

func init() {
	l, err := zap.NewDevelopment()
	if err != nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// Log returns the engine logger.
//
// Returns:
//   - *zap.Logger: the active logger
func Log() *zap.Logger {
	return current.Load()
}

// SetLogger replaces the engine logger. Passing nil installs a no-op logger.
//
// Parameters:
//   - l: the logger to install
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// Named returns a child of the engine logger scoped to a subsystem name.
//
// Parameters:
//   - name: the subsystem name (e.g. "renderer", "material")
//
// Returns:
//   - *zap.Logger: the named logger
func Named(name string) *zap.Logger {
	return current.Load().Named(name)
}
