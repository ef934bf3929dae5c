package engine

import "time"

// DefaultTickRate is the fixed update rate in ticks per second.
const DefaultTickRate = 60

// DefaultMaxStepsPerAdvance bounds how many ticks a single Advance may run before the
// remaining backlog is dropped.
const DefaultMaxStepsPerAdvance = 8

// Loop is a fixed-timestep accumulator. Variable frame times are added to the accumulator
// and the tick callback runs once per whole step, so logic advances at a constant rate
// independent of how often frames are rendered.
type Loop struct {
	step        time.Duration
	accumulator time.Duration
	maxSteps    int
	ticks       uint64
	onTick      func(deltaTime float32)
}

// NewLoop creates a Loop running at DefaultTickRate.
//
// Parameters:
//   - options: functional options for the rate, step cap and tick callback
//
// Returns:
//   - *Loop: the new loop with an empty accumulator
func NewLoop(options ...LoopBuilderOption) *Loop {
	l := &Loop{
		step:     rateToStep(DefaultTickRate),
		maxSteps: DefaultMaxStepsPerAdvance,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// rateToStep converts ticks per second to a step duration, falling back to the default rate.
func rateToStep(hz float64) time.Duration {
	if hz <= 0 {
		hz = DefaultTickRate
	}
	return time.Duration(float64(time.Second) / hz)
}

// Advance adds elapsed time to the accumulator and runs one tick per whole step.
// Negative elapsed time is ignored. When more than the step cap is owed, the extra
// whole steps are discarded and only the fractional remainder is kept.
//
// Parameters:
//   - elapsed: wall time since the previous Advance
//
// Returns:
//   - int: the number of ticks run
func (l *Loop) Advance(elapsed time.Duration) int {
	if elapsed > 0 {
		l.accumulator += elapsed
	}

	dt := float32(l.step.Seconds())
	n := 0
	for l.accumulator >= l.step && n < l.maxSteps {
		if l.onTick != nil {
			l.onTick(dt)
		}
		l.accumulator -= l.step
		l.ticks++
		n++
	}
	if l.accumulator >= l.step {
		l.accumulator %= l.step
	}
	return n
}

// SetRate changes the tick rate. The accumulator is kept.
//
// Parameters:
//   - hz: ticks per second (defaults to 60 if <= 0)
func (l *Loop) SetRate(hz float64) {
	l.step = rateToStep(hz)
}

// SetTickCallback registers the function run once per tick with the fixed step in seconds.
func (l *Loop) SetTickCallback(callback func(deltaTime float32)) {
	l.onTick = callback
}

// Step returns the fixed step duration.
func (l *Loop) Step() time.Duration {
	return l.step
}

// Ticks returns the total number of ticks run.
func (l *Loop) Ticks() uint64 {
	return l.ticks
}

// Alpha returns how far the accumulator is into the next step, in [0, 1).
// Renderers may use it to interpolate between the last two logical states.
func (l *Loop) Alpha() float32 {
	return float32(float64(l.accumulator) / float64(l.step))
}
