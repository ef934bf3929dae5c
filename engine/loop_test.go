package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoopDefaults(t *testing.T) {
	l := NewLoop()
	assert.Equal(t, time.Duration(16666666), l.Step())
	assert.Zero(t, l.Ticks())
	assert.Zero(t, l.Alpha())
}

func TestLoopAdvanceAccumulates(t *testing.T) {
	var deltas []float32
	l := NewLoop(WithLoopRate(100), WithTickFunc(func(dt float32) { deltas = append(deltas, dt) }))

	assert.Equal(t, 2, l.Advance(25*time.Millisecond))
	assert.InDelta(t, 0.5, l.Alpha(), 1e-6)

	assert.Equal(t, 0, l.Advance(4*time.Millisecond))
	assert.Equal(t, 1, l.Advance(time.Millisecond))
	assert.InDelta(t, 0, l.Alpha(), 1e-6)

	assert.Equal(t, uint64(3), l.Ticks())
	for _, dt := range deltas {
		assert.InDelta(t, 0.01, dt, 1e-7)
	}
}

func TestLoopIgnoresNegativeElapsed(t *testing.T) {
	l := NewLoop(WithLoopRate(100))
	assert.Equal(t, 0, l.Advance(-time.Second))
	assert.Zero(t, l.Alpha())
}

func TestLoopDropsBacklogBeyondCap(t *testing.T) {
	l := NewLoop(WithLoopRate(100), WithMaxSteps(3))
	assert.Equal(t, 3, l.Advance(time.Second+5*time.Millisecond))
	assert.InDelta(t, 0.5, l.Alpha(), 1e-6)

	assert.Equal(t, 0, l.Advance(4*time.Millisecond))
}

func TestLoopSetRate(t *testing.T) {
	l := NewLoop()
	l.SetRate(0)
	assert.Equal(t, time.Duration(16666666), l.Step())
	l.SetRate(50)
	assert.Equal(t, 20*time.Millisecond, l.Step())
}
