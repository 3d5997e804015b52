package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/psantana5/benchtime/pkg/timing"
)

// LegacySentinel is what older callers got back instead of a timing when the
// target failed. New code should check the error from the calibration.
const LegacySentinel = 1.0

// ErrNoTrials is returned when a calibration is built without trial data.
var ErrNoTrials = errors.New("no trial durations")

// Probe is one step of the iteration-count search.
type Probe struct {
	Loops   int     `json:"loops" yaml:"loops"`
	Seconds float64 `json:"seconds" yaml:"seconds"`
}

// Calibration is the immutable outcome of one auto-calibration run.
type Calibration struct {
	ID     string `json:"id" yaml:"id"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`

	Loops  int       `json:"loops" yaml:"loops"`
	Repeat int       `json:"repeat" yaml:"repeat"`
	Probes []Probe   `json:"probes" yaml:"probes"`
	Trials []float64 `json:"trials" yaml:"trials"`

	// Best is the raw minimum trial total in seconds
	Best  float64     `json:"best_seconds" yaml:"best_seconds"`
	Value float64     `json:"per_loop_value" yaml:"per_loop_value"`
	Unit  timing.Unit `json:"per_loop_unit" yaml:"per_loop_unit"`

	StartTime time.Time `json:"start_time" yaml:"start_time"`
	EndTime   time.Time `json:"end_time" yaml:"end_time"`

	Host *Host `json:"host,omitempty" yaml:"host,omitempty"`
}

// NewCalibration aggregates trials run at loops iterations each.
func NewCalibration(target string, loops int, probes []Probe, trials []float64, start, end time.Time) (*Calibration, error) {
	if len(trials) == 0 {
		return nil, ErrNoTrials
	}
	if err := timing.ValidateLoops(loops); err != nil {
		return nil, err
	}

	best := trials[0]
	for _, t := range trials[1:] {
		if t < best {
			best = t
		}
	}
	value, unit := timing.Format(best, loops)

	return &Calibration{
		ID:        uuid.NewString(),
		Target:    target,
		Loops:     loops,
		Repeat:    len(trials),
		Probes:    append([]Probe(nil), probes...),
		Trials:    append([]float64(nil), trials...),
		Best:      best,
		Value:     value,
		Unit:      unit,
		StartTime: start,
		EndTime:   end,
	}, nil
}

// Summary is the line always printed after a calibration.
func (c *Calibration) Summary(precision int) string {
	return fmt.Sprintf("%d loops, best of %d: %.*g %s per loop", c.Loops, c.Repeat, precision, c.Value, c.Unit)
}

// RawTimes lists every trial total, printed in verbose mode.
func (c *Calibration) RawTimes(precision int) string {
	parts := make([]string, len(c.Trials))
	for i, t := range c.Trials {
		parts[i] = timing.Sprint(t, precision)
	}
	return "raw times: " + strings.Join(parts, " ")
}

// Line renders a probe the way verbose calibration prints it.
func (p Probe) Line(precision int) string {
	return fmt.Sprintf("%d loops -> %.*g secs", p.Loops, precision, p.Seconds)
}

// BestOrSentinel collapses a calibration outcome into the single number
// older callers expect: the best time, or LegacySentinel on failure.
func BestOrSentinel(c *Calibration, err error) float64 {
	if err != nil || c == nil {
		return LegacySentinel
	}
	return c.Best
}
