package report

import (
	"fmt"
	"io"

	"github.com/psantana5/benchtime/pkg/logging"
	"github.com/psantana5/benchtime/pkg/timing"
)

// Sink receives a finished scoped-timer measurement. template takes the
// precision, value and unit in that order (%.*g %s).
type Sink func(template string, precision int, value float64, unit timing.Unit)

// ScopedTemplate builds the message template for a scoped timer.
func ScopedTemplate(label string) string {
	msg := "Executed in:"
	if label != "" {
		msg = fmt.Sprintf("Executed '%s' in:", label)
	}
	return msg + " %.*g %s"
}

// WriterSink writes one formatted line per measurement to w. It is the
// default report channel with w = os.Stdout.
func WriterSink(w io.Writer) Sink {
	return func(template string, precision int, value float64, unit timing.Unit) {
		fmt.Fprintf(w, template+"\n", precision, value, unit)
	}
}

// LoggerSink forwards measurements to l at INFO.
func LoggerSink(l *logging.Logger) Sink {
	return func(template string, precision int, value float64, unit timing.Unit) {
		l.Info(fmt.Sprintf(template, precision, value, unit), map[string]interface{}{
			"value": value,
			"unit":  unit.String(),
		})
	}
}
