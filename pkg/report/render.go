package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/benchtime/pkg/timing"
)

// Output formats accepted by Render.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// ValidFormat reports whether f is a known output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatTable, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Render writes a finished calibration to w.
func Render(w io.Writer, c *Calibration, format string, precision int) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(c)

	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(c); err != nil {
			return err
		}
		return encoder.Close()

	case FormatTable:
		return renderTable(w, c, precision)

	case FormatText:
		_, err := fmt.Fprintln(w, c.Summary(precision))
		return err

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderTable(w io.Writer, c *Calibration, precision int) error {
	table := tablewriter.NewWriter(w)
	table.Header("Trial", "Total (s)", "Per loop", "")

	for i, t := range c.Trials {
		value, unit := timing.Format(t, c.Loops)
		mark := ""
		if t == c.Best {
			mark = "best"
		}
		if err := table.Append(
			fmt.Sprintf("%d", i+1),
			timing.Sprint(t, precision),
			timing.Sprint(value, precision)+" "+unit.String(),
			mark,
		); err != nil {
			return err
		}
	}

	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", c.Summary(precision))
	return err
}

// RenderHost writes host details to w.
func RenderHost(w io.Writer, h *Host, format string) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(h)

	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(h); err != nil {
			return err
		}
		return encoder.Close()

	default:
		table := tablewriter.NewWriter(w)
		table.Header("Property", "Value")
		rows := [][]string{
			{"CPU", h.CPUModel},
			{"Threads", fmt.Sprintf("%d", h.CPUThreads)},
			{"RAM", FormatRAM(h.RAMTotalBytes)},
			{"OS", h.OS + "/" + h.Architecture},
			{"Go", h.GoVersion},
		}
		for _, row := range rows {
			if err := table.Append(row[0], row[1]); err != nil {
				return err
			}
		}
		return table.Render()
	}
}
