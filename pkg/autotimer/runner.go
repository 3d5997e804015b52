package autotimer

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/psantana5/benchtime/pkg/clock"
	"github.com/psantana5/benchtime/pkg/gcctl"
	"github.com/psantana5/benchtime/pkg/timing"
)

// Func is a benchmark target. A non-nil error aborts the measurement.
type Func func() error

// Wrap adapts a function that cannot fail.
func Wrap(f func()) Func {
	return func() error {
		f()
		return nil
	}
}

// ErrTargetFailed matches every *TargetError with errors.Is.
var ErrTargetFailed = errors.New("benchmark target failed")

// TargetError reports a target (or setup) that returned an error or panicked
// while being measured.
type TargetError struct {
	Phase string // "probe" or "repeat" once seen by AutoTimer
	Setup bool
	Loops int

	Err   error
	Panic interface{}
	Stack []byte
}

func (e *TargetError) Error() string {
	what := "target"
	if e.Setup {
		what = "setup"
	}
	where := fmt.Sprintf("at %d loops", e.Loops)
	if e.Phase != "" {
		where = e.Phase + " " + where
	}
	if e.Panic != nil {
		return fmt.Sprintf("%s panicked %s: %v", what, where, e.Panic)
	}
	return fmt.Sprintf("%s failed %s: %v", what, where, e.Err)
}

func (e *TargetError) Unwrap() error { return e.Err }

func (e *TargetError) Is(target error) bool { return target == ErrTargetFailed }

// Runner executes a target a fixed number of times and measures the total.
type Runner struct {
	target    Func
	setup     Func
	clock     clock.Clock
	collector gcctl.Collector
	suspendGC bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerSetup runs setup once before every timed batch, outside the
// measured interval.
func WithRunnerSetup(setup Func) RunnerOption {
	return func(r *Runner) { r.setup = setup }
}

// WithRunnerClock replaces the monotonic clock batches are measured with.
func WithRunnerClock(c clock.Clock) RunnerOption {
	return func(r *Runner) { r.clock = c }
}

// WithRunnerCollector replaces the runtime collector used by
// WithSuspendedGC.
func WithRunnerCollector(c gcctl.Collector) RunnerOption {
	return func(r *Runner) { r.collector = c }
}

// WithSuspendedGC turns the garbage collector off while a batch is timed.
// A full collection runs before each batch, outside the measured interval,
// so garbage from earlier batches is freed. Off by default: a target that
// allocates inside one very long batch still grows the heap unbounded.
func WithSuspendedGC(suspend bool) RunnerOption {
	return func(r *Runner) { r.suspendGC = suspend }
}

// NewRunner creates a Runner for target.
func NewRunner(target Func, opts ...RunnerOption) *Runner {
	r := &Runner{
		target:    target,
		clock:     clock.Monotonic(),
		collector: gcctl.Runtime(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Timeit runs the target loops times and returns the total in seconds.
func (r *Runner) Timeit(loops int) (float64, error) {
	if err := timing.ValidateLoops(loops); err != nil {
		return 0, err
	}

	if r.setup != nil {
		if err := call(r.setup, 1); err != nil {
			err.Setup = true
			err.Loops = loops
			return 0, err
		}
	}

	if r.suspendGC {
		wasOn := r.collector.Enabled()
		r.collector.Collect()
		r.collector.Disable()
		if wasOn {
			defer r.collector.Enable()
		}
	}

	start := r.clock.Now()
	terr := call(r.target, loops)
	end := r.clock.Now()
	if terr != nil {
		return 0, terr
	}
	return end - start, nil
}

// Repeat runs repeat independent batches of loops iterations.
func (r *Runner) Repeat(repeat, loops int) ([]float64, error) {
	trials := make([]float64, 0, repeat)
	for i := 0; i < repeat; i++ {
		t, err := r.Timeit(loops)
		if err != nil {
			return nil, err
		}
		trials = append(trials, t)
	}
	return trials, nil
}

// call runs fn n times, converting errors and panics into a *TargetError.
func call(fn Func, n int) (terr *TargetError) {
	defer func() {
		if p := recover(); p != nil {
			terr = &TargetError{Loops: n, Panic: p, Stack: debug.Stack()}
		}
	}()

	for i := 0; i < n; i++ {
		if err := fn(); err != nil {
			return &TargetError{Loops: n, Err: err}
		}
	}
	return nil
}
