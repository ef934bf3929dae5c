package material

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/logger"
	"go.uber.org/zap"
)

// Level controls how a uniform binding mismatch is reported.
type Level int

const (
	// LevelIgnore drops mismatches silently.
	LevelIgnore Level = iota

	// LevelWarn logs mismatches at warn level and continues.
	LevelWarn

	// LevelPanic panics with the UniformBindingMismatch error.
	LevelPanic
)

func (l Level) String() string {
	switch l {
	case LevelIgnore:
		return "ignore"
	case LevelWarn:
		return "warn"
	case LevelPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Report escalates err according to the level. A nil err is a no-op.
//
// Parameters:
//   - err: the mismatch to report
func (l Level) Report(err error) {
	if err == nil {
		return
	}
	switch l {
	case LevelWarn:
		logger.Named("material").Warn("uniform binding mismatch", zap.Error(err))
	case LevelPanic:
		panic(err)
	}
}
