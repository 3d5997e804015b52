package cmd

import (
	"github.com/spf13/cobra"

	"github.com/psantana5/benchtime/pkg/report"
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Show the machine details recorded with results",
	RunE:  runHost,
}

func init() {
	rootCmd.AddCommand(hostCmd)
}

func runHost(cmd *cobra.Command, args []string) error {
	h, err := report.DetectHost()
	if err != nil {
		logger.Warn("partial host information", map[string]interface{}{"error": err.Error()})
	}
	return report.RenderHost(cmd.OutOrStdout(), h, cfg.Output)
}
