package timer

import (
	"fmt"
	"io"
	"os"

	"github.com/psantana5/benchtime/pkg/clock"
	"github.com/psantana5/benchtime/pkg/gcctl"
	"github.com/psantana5/benchtime/pkg/logging"
	"github.com/psantana5/benchtime/pkg/report"
	"github.com/psantana5/benchtime/pkg/timing"
)

// DefaultPrecision is the number of significant digits in reports.
const DefaultPrecision = timing.DefaultPrecision

// Timer is a single-use measurement session. It must not be shared between
// goroutines or nested; after Exit it can be entered again.
type Timer struct {
	label     string
	template  string
	precision int
	disableGC bool
	sink      report.Sink
	out       io.Writer

	collector gcctl.Collector
	clock     clock.Clock
	metrics   *report.Metrics
	logger    *logging.Logger

	active   bool
	gcWasOn  bool
	start    float64
	end      float64
	seconds  float64
	interval float64
	unit     timing.Unit
}

// Option configures a Timer.
type Option func(*Timer)

// WithLabel names the region in the report.
func WithLabel(label string) Option {
	return func(t *Timer) { t.label = label }
}

// WithSink sends the report to s instead of the default writer.
func WithSink(s report.Sink) Option {
	return func(t *Timer) { t.sink = s }
}

// WithDisableGC controls GC suspension during the region. Default true.
func WithDisableGC(disable bool) Option {
	return func(t *Timer) { t.disableGC = disable }
}

// WithPrecision sets the significant digits of the reported value.
func WithPrecision(p int) Option {
	return func(t *Timer) { t.precision = p }
}

// WithCollector replaces the runtime garbage collector control.
func WithCollector(c gcctl.Collector) Option {
	return func(t *Timer) { t.collector = c }
}

// WithClock replaces the monotonic clock.
func WithClock(c clock.Clock) Option {
	return func(t *Timer) { t.clock = c }
}

// WithWriter replaces stdout as the default report channel.
func WithWriter(w io.Writer) Option {
	return func(t *Timer) { t.out = w }
}

// WithMetrics observes every region on m.
func WithMetrics(m *report.Metrics) Option {
	return func(t *Timer) { t.metrics = m }
}

// WithLogger receives a debug entry for every finished region.
func WithLogger(l *logging.Logger) Option {
	return func(t *Timer) { t.logger = l }
}

// New creates a Timer. Nothing is measured until Enter.
func New(opts ...Option) *Timer {
	t := &Timer{
		precision: DefaultPrecision,
		disableGC: true,
		out:       os.Stdout,
		collector: gcctl.Runtime(),
		clock:     clock.Monotonic(),
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.template = report.ScopedTemplate(t.label)
	return t
}

// Enter starts the region.
func (t *Timer) Enter() *Timer {
	if t.disableGC {
		t.gcWasOn = t.collector.Enabled()
		t.collector.Disable()
	}
	t.active = true
	t.start = t.clock.Now()
	return t
}

// Exit ends the region and reports it. Only the first Exit after an Enter
// has any effect.
func (t *Timer) Exit() {
	if !t.active {
		return
	}
	t.end = t.clock.Now()
	t.active = false

	if t.disableGC && t.gcWasOn {
		t.collector.Enable()
	}

	t.seconds = t.end - t.start
	t.interval, t.unit = timing.Format(t.seconds, 1)
	t.metrics.ObserveScoped(t.label, t.seconds)
	t.logger.Debug("region finished", map[string]interface{}{
		"label":   t.label,
		"seconds": t.seconds,
	})

	if t.sink != nil {
		t.sink(t.template, t.precision, t.interval, t.unit)
		return
	}
	fmt.Fprintf(t.out, t.template+"\n", t.precision, t.interval, t.unit)
}

// Do runs fn inside the region. Whatever fn returns, or panics with, reaches
// the caller unchanged after the report has been written.
func (t *Timer) Do(fn func() error) error {
	t.Enter()
	defer t.Exit()
	return fn()
}

// Seconds is the raw elapsed time of the last region.
func (t *Timer) Seconds() float64 { return t.seconds }

// Interval is the elapsed time scaled to Unit.
func (t *Timer) Interval() float64 { return t.interval }

// Unit is the unit Interval is expressed in.
func (t *Timer) Unit() timing.Unit { return t.unit }

// Start and End are the clock readings of the last region.
func (t *Timer) Start() float64 { return t.start }

func (t *Timer) End() float64 { return t.end }

// Message renders the report line of the last region.
func (t *Timer) Message() string {
	return fmt.Sprintf(t.template, t.precision, t.interval, t.unit)
}
