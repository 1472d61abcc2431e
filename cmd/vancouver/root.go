package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/arloliu/vancouver"
	"github.com/arloliu/vancouver/internal/logging"
	"github.com/arloliu/vancouver/internal/metrics"
	"github.com/arloliu/vancouver/internal/report"
)

// app holds state shared by all subcommands, filled in by the root command's
// PersistentPreRunE.
type app struct {
	configPath  string
	logLevel    string
	logFormat   string
	format      string
	natsURL     string
	metricsFile string

	cfg      *vancouver.Config
	logger   vancouver.Logger
	mode     report.Mode
	registry *prometheus.Registry
	metrics  *metrics.PrometheusCollector
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "vancouver",
		Short: "Peer review assignment and grade estimation",
		Long: "vancouver generates peer review assignments under exclusion constraints and\n" +
			"estimates submission grades and reviewer reliability with the Vancouver algorithm.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return a.writeMetrics()
		},
	}

	f := root.PersistentFlags()
	f.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	f.StringVar(&a.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	f.StringVar(&a.logFormat, "log-format", "console", "Log format: console or json")
	f.StringVarP(&a.format, "format", "f", "ascii", "Table format: ascii or markdown")
	f.StringVar(&a.natsURL, "nats-url", "", "NATS server URL for publishing and reading KV data")
	f.StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	root.AddCommand(newAssignCmd(a))
	root.AddCommand(newEstimateCmd(a))
	root.AddCommand(newSimulateCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	a.logger = logging.NewZerolog(logging.ZerologConfig{
		Level:  a.logLevel,
		Format: a.logFormat,
		Output: cmd.ErrOrStderr(),
	})

	mode, err := report.ParseMode(a.format)
	if err != nil {
		return err
	}
	a.mode = mode

	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.NewPrometheus(a.registry, "")

	return nil
}

// engine builds an Engine from the loaded config after flag overrides.
func (a *app) engine() (*vancouver.Engine, error) {
	cfg := *a.cfg

	return vancouver.New(&cfg, vancouver.WithLogger(a.logger), vancouver.WithMetrics(a.metrics))
}

func (a *app) writeMetrics() error {
	if a.metricsFile == "" || a.registry == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.metricsFile, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}

	return nil
}

// operationContext bounds one command's I/O by the configured timeout.
func (a *app) operationContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.cfg.OperationTimeout)
}
