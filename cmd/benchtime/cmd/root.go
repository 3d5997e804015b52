package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/psantana5/benchtime/internal/config"
	"github.com/psantana5/benchtime/pkg/logging"
)

// Version is set at build time with -ldflags "-X ...cmd.Version=...".
var Version = "dev"

var (
	cfgFile string

	v      = viper.New()
	cfg    *config.Config
	logger *logging.Logger
)

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"output":        "output",
	"log-level":     "log_level",
	"log-format":    "log_format",
	"precision":     "precision",
	"repeat":        "repeat",
	"verbose":       "verbose",
	"threshold":     "threshold",
	"max-exponent":  "max_exponent",
	"metrics-addr":  "metrics_addr",
	"hold":          "hold",
	"otlp-endpoint": "otlp_endpoint",
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "benchtime",
	Short: "Time commands and code blocks",
	Long: `benchtime measures how long things take.

"block" times a single run of a command. "auto" works out how many runs are
needed for a stable measurement and reports the best of several trials.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.benchtime/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format: text, table, json or yaml")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	rootCmd.Version = Version
}

// initConfig merges flags, environment and config file for the command
// about to run.
func initConfig(cmd *cobra.Command, args []string) error {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			v.BindPFlag(key, f)
		}
	})

	config.Prepare(v, cfgFile)
	c, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = c

	logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat == "json")
	logger.SetOutput(cmd.ErrOrStderr())
	logger.Debug("configuration loaded", map[string]interface{}{
		"config": v.ConfigFileUsed(),
		"output": cfg.Output,
	})
	return nil
}
