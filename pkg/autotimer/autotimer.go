package autotimer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/psantana5/benchtime/pkg/clock"
	"github.com/psantana5/benchtime/pkg/gcctl"
	"github.com/psantana5/benchtime/pkg/logging"
	"github.com/psantana5/benchtime/pkg/report"
	"github.com/psantana5/benchtime/pkg/timing"
)

// Calibration defaults.
const (
	DefaultRepeat      = 3
	DefaultPrecision   = timing.DefaultPrecision
	DefaultThreshold   = 0.2
	DefaultMaxExponent = 9

	// MaxExponent keeps 10^exponent inside an int64.
	MaxExponent = 18
)

const tracerName = "github.com/psantana5/benchtime/pkg/autotimer"

// ErrInvalidOption is returned by Auto when the timer was misconfigured.
var ErrInvalidOption = errors.New("invalid autotimer option")

// AutoTimer calibrates and benchmarks one target.
type AutoTimer struct {
	runner *Runner

	name        string
	repeat      int
	verbose     bool
	precision   int
	threshold   float64
	maxExponent int
	host        bool

	out     io.Writer
	logger  *logging.Logger
	metrics *report.Metrics
	tracer  trace.Tracer

	runnerOpts []RunnerOption
}

// Option configures an AutoTimer.
type Option func(*AutoTimer)

// WithName labels the target in reports, metrics and spans.
func WithName(name string) Option {
	return func(a *AutoTimer) { a.name = name }
}

// WithRepeat sets the number of trials. Default 3.
func WithRepeat(n int) Option {
	return func(a *AutoTimer) { a.repeat = n }
}

// WithVerbose prints every probe and the raw trial times. Default true.
func WithVerbose(v bool) Option {
	return func(a *AutoTimer) { a.verbose = v }
}

// WithPrecision sets the significant digits of every printed number.
func WithPrecision(p int) Option {
	return func(a *AutoTimer) { a.precision = p }
}

// WithThreshold sets the batch duration, in seconds, that ends probing.
func WithThreshold(seconds float64) Option {
	return func(a *AutoTimer) { a.threshold = seconds }
}

// WithMaxExponent caps probing at 10^n loops.
func WithMaxExponent(n int) Option {
	return func(a *AutoTimer) { a.maxExponent = n }
}

// WithHost attaches host details to the calibration result.
func WithHost(enabled bool) Option {
	return func(a *AutoTimer) { a.host = enabled }
}

// WithWriter replaces stdout for the printed report.
func WithWriter(w io.Writer) Option {
	return func(a *AutoTimer) { a.out = w }
}

// WithLogger sets where target failure diagnostics go.
func WithLogger(l *logging.Logger) Option {
	return func(a *AutoTimer) { a.logger = l }
}

// WithMetrics records calibrations and failures on m.
func WithMetrics(m *report.Metrics) Option {
	return func(a *AutoTimer) { a.metrics = m }
}

// WithTracer replaces the global otel tracer.
func WithTracer(t trace.Tracer) Option {
	return func(a *AutoTimer) { a.tracer = t }
}

// WithSetup runs setup before every timed batch, outside the measurement.
func WithSetup(setup Func) Option {
	return func(a *AutoTimer) { a.runnerOpts = append(a.runnerOpts, WithRunnerSetup(setup)) }
}

// WithClock replaces the monotonic clock.
func WithClock(c clock.Clock) Option {
	return func(a *AutoTimer) { a.runnerOpts = append(a.runnerOpts, WithRunnerClock(c)) }
}

// WithCollector replaces the runtime collector used by WithDisableGC.
func WithCollector(c gcctl.Collector) Option {
	return func(a *AutoTimer) { a.runnerOpts = append(a.runnerOpts, WithRunnerCollector(c)) }
}

// WithDisableGC suspends the collector while each batch is timed. Default
// false. See WithSuspendedGC.
func WithDisableGC(disable bool) Option {
	return func(a *AutoTimer) { a.runnerOpts = append(a.runnerOpts, WithSuspendedGC(disable)) }
}

// New creates an AutoTimer for target.
func New(target Func, opts ...Option) *AutoTimer {
	a := &AutoTimer{
		repeat:      DefaultRepeat,
		verbose:     true,
		precision:   DefaultPrecision,
		threshold:   DefaultThreshold,
		maxExponent: DefaultMaxExponent,
		out:         os.Stdout,
		logger:      logging.NewLogger(logging.INFO, false),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.runner = NewRunner(target, a.runnerOpts...)
	return a
}

// Runner returns the underlying run-N-times primitive.
func (a *AutoTimer) Runner() *Runner {
	return a.runner
}

func (a *AutoTimer) validate() error {
	switch {
	case a.repeat < 1:
		return fmt.Errorf("%w: repeat must be >= 1, got %d", ErrInvalidOption, a.repeat)
	case a.precision < 1:
		return fmt.Errorf("%w: precision must be >= 1, got %d", ErrInvalidOption, a.precision)
	case a.threshold <= 0:
		return fmt.Errorf("%w: threshold must be > 0, got %g", ErrInvalidOption, a.threshold)
	case a.maxExponent < 1 || a.maxExponent > MaxExponent:
		return fmt.Errorf("%w: max exponent must be in 1..%d, got %d", ErrInvalidOption, MaxExponent, a.maxExponent)
	}
	return nil
}

// Auto calibrates the loop count, runs the trials and prints the result.
// There is no timeout: a target that never returns blocks Auto forever.
func (a *AutoTimer) Auto() (*report.Calibration, error) {
	if err := a.validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	ctx, span := a.tracer.Start(context.Background(), "autotimer.calibrate",
		trace.WithAttributes(attribute.String("benchtime.target", a.name)))
	defer span.End()

	// probe with 10^i loops until a batch is long enough
	var probes []report.Probe
	loops := 0
	for i := 1; i <= a.maxExponent; i++ {
		loops = pow10(i)

		seconds, err := a.probe(ctx, loops)
		if err != nil {
			return nil, a.fail(span, "probe", err)
		}

		p := report.Probe{Loops: loops, Seconds: seconds}
		probes = append(probes, p)
		if a.verbose {
			fmt.Fprintln(a.out, p.Line(a.precision))
		}
		if seconds >= a.threshold {
			break
		}
	}

	trials, err := a.trials(ctx, loops)
	if err != nil {
		return nil, a.fail(span, "repeat", err)
	}

	c, err := report.NewCalibration(a.name, loops, probes, trials, started, time.Now())
	if err != nil {
		return nil, err
	}
	if a.host {
		if h, err := report.DetectHost(); err == nil {
			c.Host = h
		} else {
			a.logger.Warn("host detection failed", map[string]interface{}{"error": err.Error()})
		}
	}

	if a.verbose {
		fmt.Fprintln(a.out, c.RawTimes(a.precision))
	}
	fmt.Fprintln(a.out, c.Summary(a.precision))

	span.SetAttributes(
		attribute.Int("benchtime.loops", c.Loops),
		attribute.Float64("benchtime.best_seconds", c.Best),
	)
	a.metrics.RecordCalibration(c)
	return c, nil
}

func (a *AutoTimer) probe(ctx context.Context, loops int) (float64, error) {
	_, span := a.tracer.Start(ctx, "autotimer.probe",
		trace.WithAttributes(attribute.Int("benchtime.loops", loops)))
	defer span.End()

	seconds, err := a.runner.Timeit(loops)
	if err == nil {
		span.SetAttributes(attribute.Float64("benchtime.seconds", seconds))
	}
	return seconds, err
}

func (a *AutoTimer) trials(ctx context.Context, loops int) ([]float64, error) {
	_, span := a.tracer.Start(ctx, "autotimer.repeat", trace.WithAttributes(
		attribute.Int("benchtime.loops", loops),
		attribute.Int("benchtime.repeat", a.repeat),
	))
	defer span.End()

	return a.runner.Repeat(a.repeat, loops)
}

// fail emits the diagnostic for a failed target and returns err.
func (a *AutoTimer) fail(span trace.Span, phase string, err error) error {
	fields := map[string]interface{}{"phase": phase}
	if a.name != "" {
		fields["target"] = a.name
	}

	var terr *TargetError
	if errors.As(err, &terr) {
		terr.Phase = phase
		fields["loops"] = terr.Loops
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	a.metrics.RecordFailure(phase)

	a.logger.Error(err.Error(), fields)
	if terr != nil && terr.Stack != nil {
		a.logger.Debug("target stack\n" + string(terr.Stack))
	}
	return err
}

func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
