package cmd

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tarediiran-industries.com/train-dispatch/internal/common"
	"tarediiran-industries.com/train-dispatch/internal/config"
	"tarediiran-industries.com/train-dispatch/internal/console"
	"tarediiran-industries.com/train-dispatch/internal/register"
)

type DispatchApp struct {
	ConfigPath    string
	Verbose       bool
	TelemetryAddr string

	cfg       config.ConfigFile
	logger    *zap.Logger
	metrics   *common.Metrics
	telemetry *common.TelemetryServer
}

func Execute() error {
	app := &DispatchApp{}
	return app.execute(NewRootCmd(app))
}

// execute runs the command tree and always tears the app down afterwards.
// Cobra skips post-run hooks when RunE fails, so teardown cannot live there.
func (app *DispatchApp) execute(rootCmd *cobra.Command) error {
	err := rootCmd.Execute()
	if teardownErr := app.teardown(); err == nil {
		err = teardownErr
	}
	return err
}

func NewRootCmd(app *DispatchApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "train-dispatch",
		Short:         "Console register of scheduled train departures",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup()
		},
		// without a subcommand, start the interactive console
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runConsole(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.PersistentFlags().StringVar(
		&app.ConfigPath,
		"config",
		"",
		"Path to a TOML, YAML or CSV departures file (demo timetable if empty)",
	)
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(
		&app.TelemetryAddr,
		"telemetry",
		"",
		"Serve Prometheus metrics on this address, e.g. :9090",
	)

	cmd.AddCommand(NewRunCmd(app))
	cmd.AddCommand(NewDeparturesCmd(app))
	cmd.AddCommand(NewSearchCmd(app))
	cmd.AddCommand(NewDepartCmd(app))
	cmd.AddCommand(NewVersionCmd(app))

	return cmd
}

func (app *DispatchApp) setup() error {
	logger, err := common.NewLogger(app.Verbose)
	if err != nil {
		return fmt.Errorf("NewLogger: %w", err)
	}
	app.logger = logger

	cfg, err := app.loadConfig()
	if err != nil {
		return err
	}
	app.cfg = cfg
	if app.TelemetryAddr == "" {
		app.TelemetryAddr = cfg.TelemetryAddress
	}

	if app.TelemetryAddr == "" {
		app.metrics = common.NewMetrics(prometheus.NewRegistry())
		return nil
	}

	app.telemetry = common.NewTelemetryServer(app.TelemetryAddr, logger)
	app.metrics = common.NewMetrics(app.telemetry.GetRegistry())
	if err := app.telemetry.Start(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

func (app *DispatchApp) teardown() error {
	var err error
	if app.telemetry != nil {
		err = app.telemetry.Stop()
		app.telemetry = nil
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	return err
}

func (app *DispatchApp) loadConfig() (config.ConfigFile, error) {
	if app.ConfigPath == "" {
		return config.Default(), nil
	}
	return config.Load(app.ConfigPath)
}

func (app *DispatchApp) newRegister() (*register.Register, error) {
	reg, err := common.RuntimeBenchmark(app.logger, "load-register", app.cfg.NewRegister)
	if err != nil {
		return nil, err
	}
	app.metrics.DeparturesAddedTotal.Add(float64(reg.Len()))
	app.metrics.RegisterSize.Set(float64(reg.Len()))
	app.logger.Debug("register loaded",
		zap.String("config", app.ConfigPath),
		zap.Int("departures", reg.Len()),
		zap.Stringer("clock", reg.Clock()),
	)
	return reg, nil
}

func writeTable(out io.Writer, title string, departures []register.Departure) {
	if len(departures) == 0 {
		fmt.Fprintf(out, "%s: none\n", title)
		return
	}
	fmt.Fprintf(out, "%s:\n%s", title, console.DepartureTable(departures))
}
