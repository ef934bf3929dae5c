package engine

// LoopBuilderOption is a functional option for configuring a Loop.
type LoopBuilderOption func(*Loop)

// WithLoopRate sets the tick rate in ticks per second.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - hz: ticks per second
//
// Returns:
//   - LoopBuilderOption: option function to apply
func WithLoopRate(hz float64) LoopBuilderOption {
	return func(l *Loop) {
		l.step = rateToStep(hz)
	}
}

// WithMaxSteps caps the ticks run by a single Advance.
//
// Parameters:
//   - n: the cap, ignored unless positive
//
// Returns:
//   - LoopBuilderOption: option function to apply
func WithMaxSteps(n int) LoopBuilderOption {
	return func(l *Loop) {
		if n > 0 {
			l.maxSteps = n
		}
	}
}

// WithTickFunc sets the function run once per tick.
//
// Parameters:
//   - callback: receives the fixed step in seconds
//
// Returns:
//   - LoopBuilderOption: option function to apply
func WithTickFunc(callback func(deltaTime float32)) LoopBuilderOption {
	return func(l *Loop) {
		l.onTick = callback
	}
}
