package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/psantana5/benchtime/internal/exporter"
	"github.com/psantana5/benchtime/internal/target"
	"github.com/psantana5/benchtime/pkg/autotimer"
	"github.com/psantana5/benchtime/pkg/report"
	"github.com/psantana5/benchtime/pkg/shutdown"
	"github.com/psantana5/benchtime/pkg/tracing"
)

var (
	autoShell     bool
	autoDisableGC bool
)

var autoCmd = &cobra.Command{
	Use:   "auto [flags] -- <command> [args...]",
	Short: "Calibrate and benchmark a command",
	Long: `Auto runs the command 10, 100, 1000, ... times until one batch takes at
least the threshold (0.2s by default), then runs that many iterations
--repeat times and reports the best trial per loop.

Example:
  benchtime auto -- true
  benchtime auto --repeat 5 --shell -- 'echo hi | wc -c'
  benchtime auto -o json --metrics-addr :9100 --hold -- ./tool --quick`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAuto,
}

func init() {
	rootCmd.AddCommand(autoCmd)

	autoCmd.Flags().Int("repeat", autotimer.DefaultRepeat, "number of trials")
	autoCmd.Flags().Bool("verbose", true, "print every probe and the raw trial times")
	autoCmd.Flags().Int("precision", autotimer.DefaultPrecision, "significant digits in reports")
	autoCmd.Flags().Float64("threshold", autotimer.DefaultThreshold, "batch duration in seconds that ends probing")
	autoCmd.Flags().Int("max-exponent", autotimer.DefaultMaxExponent, "probe at most 10^N loops")
	autoCmd.Flags().String("metrics-addr", "", "serve /metrics and /results/latest on this address")
	autoCmd.Flags().Bool("hold", false, "keep the metrics endpoint up after the run until interrupted")
	autoCmd.Flags().String("otlp-endpoint", "", "export traces to this OTLP HTTP collector (host:port)")
	autoCmd.Flags().BoolVar(&autoShell, "shell", false, "run the command through /bin/sh -c")
	autoCmd.Flags().BoolVar(&autoDisableGC, "disable-gc", false, "suspend the Go garbage collector while each batch is timed")
}

func runAuto(cmd *cobra.Command, args []string) error {
	if cfg.Hold && cfg.MetricsAddr == "" {
		return fmt.Errorf("--hold needs --metrics-addr")
	}

	tgt, err := target.New(args, autoShell)
	if err != nil {
		return err
	}

	provider, err := tracing.InitTracer(tracing.Config{
		ServiceName:    "benchtime",
		ServiceVersion: Version,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTLPEndpoint != "",
	})
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			logger.Warn("tracer shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	metrics := report.NewMetrics()
	var srv *exporter.Server
	if cfg.MetricsAddr != "" {
		srv = exporter.NewServer(cfg.MetricsAddr, metrics, logger)
		if _, err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
	}

	// progress lines go to stderr when stdout carries a structured report
	out := cmd.OutOrStdout()
	progress := out
	if cfg.Output != report.FormatText {
		progress = cmd.ErrOrStderr()
	}

	at := autotimer.New(tgt.Func(),
		autotimer.WithName(tgt.String()),
		autotimer.WithRepeat(cfg.Repeat),
		autotimer.WithVerbose(cfg.Verbose),
		autotimer.WithPrecision(cfg.Precision),
		autotimer.WithThreshold(cfg.Threshold),
		autotimer.WithMaxExponent(cfg.MaxExponent),
		autotimer.WithDisableGC(autoDisableGC),
		autotimer.WithHost(cfg.Output != report.FormatText),
		autotimer.WithWriter(progress),
		autotimer.WithLogger(logger),
		autotimer.WithMetrics(metrics),
		autotimer.WithTracer(provider.Tracer()),
	)

	c, err := at.Auto()
	if err != nil {
		stopServer(srv)
		return fmt.Errorf("calibration aborted: %w", err)
	}

	if cfg.Output != report.FormatText {
		if err := report.Render(out, c, cfg.Output, cfg.Precision); err != nil {
			stopServer(srv)
			return err
		}
	}

	if srv == nil {
		return nil
	}
	srv.SetLatest(c)
	if !cfg.Hold {
		stopServer(srv)
		return nil
	}
	return holdServer(cmd.Context(), srv, cmd.ErrOrStderr())
}

func holdServer(ctx context.Context, srv *exporter.Server, w io.Writer) error {
	fmt.Fprintln(w, "metrics endpoint is up, press Ctrl+C to exit")
	mgr := shutdown.New(5*time.Second, logger)
	mgr.Register(shutdown.StopHTTPServer(srv, "metrics"))
	return mgr.WaitWithContext(ctx)
}

func stopServer(srv *exporter.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}
