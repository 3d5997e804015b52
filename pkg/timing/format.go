// Package timing holds the time-unit policy shared by the scoped timer and
// the auto-calibrating timer.
package timing

import (
	"errors"
	"fmt"
)

// Unit is the label attached to a scaled timing value.
type Unit string

const (
	USec Unit = "usec"
	MSec Unit = "msec"
	Sec  Unit = "sec"
)

// DefaultPrecision is the number of significant digits used in reports.
const DefaultPrecision = 3

func (u Unit) String() string {
	return string(u)
}

// ErrInvalidLoopCount is returned (or panicked with, from Format) when the
// loop count is below one.
var ErrInvalidLoopCount = errors.New("loop count must be >= 1")

// ValidateLoops checks the Format precondition.
func ValidateLoops(loops int) error {
	if loops < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidLoopCount, loops)
	}
	return nil
}

// Format converts a duration in seconds, measured over loops iterations, into
// a per-loop value and its unit.
//
// Values below a millisecond per loop are reported in usec, values below a
// second per loop in msec. Anything slower is reported in sec, but as the raw
// seconds argument: it is NOT divided by loops. Callers that measured more
// than one loop get total time in that branch. This matches the historical
// output of the tool and is kept on purpose; see DESIGN.md.
//
// loops must be >= 1; Format panics otherwise.
func Format(seconds float64, loops int) (float64, Unit) {
	if err := ValidateLoops(loops); err != nil {
		panic(err)
	}

	usec := seconds * 1e6 / float64(loops)
	if usec < 1000 {
		return usec, USec
	}
	msec := usec / 1000
	if msec < 1000 {
		return msec, MSec
	}
	return seconds, Sec
}

// Sprint renders value with precision significant digits (%.*g).
func Sprint(value float64, precision int) string {
	return fmt.Sprintf("%.*g", precision, value)
}
