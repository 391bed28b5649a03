// Command regionforecast forecasts per-entity yearly metrics and ranks
// forecasting methods by backtested accuracy.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sartorproj/regionforecast/forecast"
	"github.com/sartorproj/regionforecast/internal/config"
	"github.com/sartorproj/regionforecast/internal/export"
	"github.com/sartorproj/regionforecast/internal/metrics"
	"github.com/sartorproj/regionforecast/internal/service"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dataDir    string
	workers    int
	exportDir  string
	jsonOut    bool
	prom       bool
	verbose    bool
}

// app is the state built once flags are parsed.
type app struct {
	cfg       *config.Config
	svc       *service.Service
	collector *metrics.Collector
	logger    zerolog.Logger
	flags     *globalFlags
	out       io.Writer
}

func main() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "regionforecast",
		Short: "Forecast regional yearly metrics and backtest forecasting methods",
		Long: `regionforecast reads processed per-entity yearly tables, forecasts every
entity independently and compares forecasting methods on held-out years.`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "regionforecast.yaml", "Path to the YAML configuration file")
	pf.StringVar(&flags.dataDir, "data-dir", "", "Directory of processed metric tables (overrides config)")
	pf.IntVar(&flags.workers, "workers", 0, "Concurrent entity fits (0 = config or GOMAXPROCS)")
	pf.StringVar(&flags.exportDir, "export-dir", "", "Write CSV/XLSX/PNG exports into this directory")
	pf.BoolVar(&flags.jsonOut, "json", false, "Print results as JSON")
	pf.BoolVar(&flags.prom, "prom", false, "Print Prometheus metrics after the run")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(newPredictCmd(flags), newCompareCmd(flags), newMetricsCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	return cfg, nil
}

// newApp loads configuration and data and builds the service.
func newApp(cmd *cobra.Command, flags *globalFlags) (*app, error) {
	logger := newLogger(flags.verbose)

	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	collector, err := metrics.NewCollector()
	if err != nil {
		return nil, err
	}
	snap, err := service.LoadSnapshot(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := service.New(cfg, snap, collector, logger)
	if err != nil {
		return nil, err
	}

	logger.Debug().Str("data_dir", cfg.DataDir).Int("workers", cfg.Workers).Msg("data loaded")
	return &app{
		cfg:       cfg,
		svc:       svc,
		collector: collector,
		logger:    logger,
		flags:     flags,
		out:       cmd.OutOrStdout(),
	}, nil
}

// finish prints the optional Prometheus dump.
func (a *app) finish() error {
	if !a.flags.prom {
		return nil
	}
	return a.collector.WriteText(a.out)
}

// exported logs the files an export wrote. An export with no rows is only
// worth a warning.
func (a *app) exported(paths []string, err error) error {
	switch {
	case errors.Is(err, export.ErrNoRows):
		a.logger.Warn().Msg("nothing to export")
	case err != nil:
		return err
	}
	for _, p := range paths {
		a.logger.Info().Str("path", p).Msg("exported")
	}
	return nil
}

// parseMethodFlag resolves --method; empty means auto.
func parseMethodFlag(s string) (forecast.Method, error) {
	if strings.TrimSpace(s) == "" {
		return forecast.MethodAuto, nil
	}
	return forecast.ParseMethod(s)
}

func methodList(methods []forecast.Method) string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newMetricsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the configured metric tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range cfg.MetricNames() {
				m := cfg.Metrics[name]
				fmt.Fprintf(out, "%-16s %-40s %-28s %s\n", name, cfg.MetricPath(m), m.ValueColumn, m.Bounds)
			}
			return nil
		},
	}
}
