package cmd

import (
	"github.com/spf13/cobra"

	"github.com/psantana5/benchtime/internal/target"
	"github.com/psantana5/benchtime/pkg/timer"
)

var (
	blockLabel  string
	blockKeepGC bool
	blockShell  bool
)

var blockCmd = &cobra.Command{
	Use:   "block [flags] -- <command> [args...]",
	Short: "Time a single run of a command",
	Long: `Block runs the command once and reports the elapsed wall-clock time.
The command's output is passed through. Suited to things that take
milliseconds or longer; use "auto" for anything faster.

Example:
  benchtime block -- make build
  benchtime block --label compile --precision 5 -- go build ./...`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBlock,
}

func init() {
	rootCmd.AddCommand(blockCmd)

	blockCmd.Flags().StringVar(&blockLabel, "label", "", "name shown in the report (default: the command line)")
	blockCmd.Flags().Int("precision", timer.DefaultPrecision, "significant digits in the report")
	blockCmd.Flags().BoolVar(&blockKeepGC, "gc", false, "keep the Go garbage collector running while timing")
	blockCmd.Flags().BoolVar(&blockShell, "shell", false, "run the command through /bin/sh -c")
}

func runBlock(cmd *cobra.Command, args []string) error {
	tgt, err := target.New(args, blockShell)
	if err != nil {
		return err
	}
	tgt.Stdout = cmd.OutOrStdout()
	tgt.Stderr = cmd.ErrOrStderr()

	label := blockLabel
	if !cmd.Flags().Changed("label") {
		label = tgt.String()
	}

	tm := timer.New(
		timer.WithLabel(label),
		timer.WithPrecision(cfg.Precision),
		timer.WithDisableGC(cfg.DisableGC && !blockKeepGC),
		timer.WithWriter(cmd.ErrOrStderr()),
		timer.WithLogger(logger),
	)
	return tm.Do(tgt.Run)
}
