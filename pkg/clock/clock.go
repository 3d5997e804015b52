// Package clock provides the monotonic time source used by the timers.
package clock

import "time"

// Clock reads the current time as seconds. Only differences between two
// readings are meaningful.
type Clock interface {
	Now() float64
}

// Func adapts a plain function to Clock.
type Func func() float64

// Now calls f.
func (f Func) Now() float64 {
	return f()
}

var epoch = time.Now()

type monotonic struct{}

func (monotonic) Now() float64 {
	// time.Since uses the monotonic reading captured in epoch
	return time.Since(epoch).Seconds()
}

// Monotonic returns the process-wide high resolution clock.
func Monotonic() Clock {
	return monotonic{}
}
