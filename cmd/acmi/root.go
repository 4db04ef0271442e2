package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/OCAP2/acmi/internal/config"
	"github.com/OCAP2/acmi/internal/logging"
	intOtel "github.com/OCAP2/acmi/internal/otel"
	"github.com/OCAP2/acmi/internal/parser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries what every subcommand shares for one run.
type app struct {
	configDir string
	logLevel  string

	slogManager *logging.SlogManager
	logger      *slog.Logger
	otel        *intOtel.Provider
	closers     []io.Closer
	start       time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "acmi",
		Short: "Read Tacview ACMI telemetry recordings",
		Long: `acmi reads Tacview ACMI recordings (plain text or zip archives) and
reconstructs every entity property at any instant of the recording.

Examples:
  acmi info sortie.zip.acmi
  acmi query sortie.txt.acmi 102 Altitude --time 12.5
  acmi export csv sortie.txt.acmi -o out/sortie.csv
  acmi store sortie.zip.acmi
  acmi stored query 1 102 Altitude --time 12.5`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config", ".", "directory holding "+config.FileName)
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (DEBUG, INFO, WARN, ERROR); overrides logLevel")

	root.AddCommand(
		newInfoCmd(a),
		newQueryCmd(a),
		newEntitiesCmd(a),
		newExportCmd(a),
		newStoreCmd(a),
		newStoredCmd(a),
	)
	return root
}

// setup loads the config and wires logging: console or file output, plus the
// OTel bridge and the Graylog sink when enabled.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.start = time.Now()
	configErr := config.Load(a.configDir)

	opts := logging.Options{
		Level:   viper.GetString("logLevel"),
		Console: cmd.ErrOrStderr(),
	}

	logsDir := viper.GetString("logsDir")
	if viper.GetBool("logToFile") {
		f, err := a.createInLogsDir(logging.LogFilePath(logsDir, logging.ServiceName, a.start))
		if err != nil {
			return err
		}
		opts.File = f
	}

	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		otelFile, err := a.createInLogsDir(logging.LogFilePath(logsDir, logging.ServiceName+".otel", a.start))
		if err != nil {
			return err
		}
		metricsFile, err := a.createInLogsDir(logging.LogFilePath(logsDir, logging.ServiceName+".metrics", a.start))
		if err != nil {
			return err
		}
		a.otel, err = intOtel.New(cmd.Context(), intOtel.Config{
			Enabled:      true,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    otelFile,
			MetricWriter: metricsFile,
			Endpoint:     otelCfg.Endpoint,
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize OTel provider: %w", err)
		}
		opts.Provider = a.otel.LoggerProvider()
	}

	graylogCfg := config.GetGraylogConfig()
	if graylogCfg.Enabled {
		w, err := logging.NewGraylogWriter(graylogCfg.Address)
		if err != nil {
			return fmt.Errorf("failed to connect to graylog at %s: %w", graylogCfg.Address, err)
		}
		if c, ok := any(w).(io.Closer); ok {
			a.closers = append(a.closers, c)
		}
		opts.Graylog = w
	}

	a.slogManager = logging.NewSlogManager()
	a.slogManager.Setup(opts)
	if a.logLevel != "" {
		a.slogManager.SetLevel(a.logLevel)
	}
	a.logger = a.slogManager.Logger()

	if configErr != nil {
		a.logger.Warn("Config file not loaded, using defaults", "dir", a.configDir, "error", configErr)
	}
	a.logger.Debug("Starting", "command", cmd.CommandPath(), "version", version)
	return nil
}

// level is the effective log level: --log-level, else the logLevel key.
func (a *app) level() string {
	if a.logLevel != "" {
		return a.logLevel
	}
	return viper.GetString("logLevel")
}

func (a *app) createInLogsDir(path string) (*os.File, error) {
	if err := os.MkdirAll(viper.GetString("logsDir"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	a.closers = append(a.closers, f)
	return f, nil
}

func (a *app) teardown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var errs []error
	if a.logger != nil {
		a.logger.Debug("Finished", "duration", time.Since(a.start))
	}
	if a.slogManager != nil {
		errs = append(errs, a.slogManager.Flush(ctx))
	}
	if a.otel != nil {
		errs = append(errs, a.otel.Shutdown(ctx))
	}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

// parse reads every recording of path.
func (a *app) parse(ctx context.Context, path string) ([]parser.Result, error) {
	var opts []parser.Option
	if a.otel != nil {
		opts = append(opts, parser.WithMeter(a.otel.Meter(parser.InstrumentationName)))
	}
	results, err := parser.New(a.logger, opts...).ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		if n := len(r.Recording.Diagnostics()); n > 0 {
			a.logger.Warn("Recording has unrecognized properties", "source", r.Source, "properties", n)
		}
	}
	return results, nil
}
