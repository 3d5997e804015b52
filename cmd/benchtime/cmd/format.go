package cmd

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/psantana5/benchtime/pkg/timing"
)

var formatLoops int

var formatCmd = &cobra.Command{
	Use:   "format <seconds>",
	Short: "Scale a duration to usec, msec or sec",
	Long: `Format applies the unit policy used in every report. With --loops the
value is per loop; note that values of a second or more are printed as the
raw total, not divided by the loop count.

Example:
  benchtime format 0.0025
  benchtime format 0.5 --loops 1000`,
	Args: cobra.ExactArgs(1),
	RunE: runFormat,
}

func init() {
	rootCmd.AddCommand(formatCmd)

	formatCmd.Flags().IntVar(&formatLoops, "loops", 1, "number of loops the duration covers")
	formatCmd.Flags().Int("precision", timing.DefaultPrecision, "significant digits")
}

func runFormat(cmd *cobra.Command, args []string) error {
	seconds, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", args[0], err)
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return fmt.Errorf("invalid duration %q: must be finite", args[0])
	}
	if seconds < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", args[0])
	}
	if err := timing.ValidateLoops(formatLoops); err != nil {
		return err
	}

	value, unit := timing.Format(seconds, formatLoops)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", timing.Sprint(value, cfg.Precision), unit)
	return err
}
