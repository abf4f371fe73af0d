package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ansibridge/ansibridge/pkg/history"
	"github.com/ansibridge/ansibridge/pkg/registry"
	"github.com/ansibridge/ansibridge/pkg/runner"
	"github.com/ansibridge/ansibridge/pkg/server"
	"github.com/ansibridge/ansibridge/pkg/session"
	"github.com/ansibridge/ansibridge/pkg/telemetry"
	"github.com/ansibridge/ansibridge/pkg/tools"
)

// serverDependencies lists the external binaries the server drives,
// announced to the client in the serverInfo message.
var serverDependencies = []string{"ansible-runner", "ansible-inventory"}

func newServeCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the tool server on stdin/stdout",
		Long: `Serve reads tool requests from stdin and writes responses to stdout,
one JSON document per line. All diagnostics go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, version)
		},
	}

	cmd.Flags().String("data-dir", "", "base data directory (default: $ANSIBRIDGE_DATA_DIR or ~/.ansibridge)")
	cmd.Flags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	cmd.Flags().String("log-format", "json", "log format (json, console)")
	cmd.Flags().String("runner-path", "", "path to the ansible-runner binary")
	cmd.Flags().String("inventory-path", "", "path to the ansible-inventory binary")
	cmd.Flags().String("history-db", "", "SQLite database recording run history (disabled when empty)")
	cmd.Flags().String("metrics-addr", "", "listen address for the Prometheus endpoint (disabled when empty)")

	for _, flag := range []string{
		"data-dir", "log-level", "log-format", "runner-path",
		"inventory-path", "history-db", "metrics-addr",
	} {
		_ = viper.BindPFlag(flag, cmd.Flags().Lookup(flag))
	}

	return cmd
}

func runServe(cmd *cobra.Command, version string) error {
	ctx := cmd.Context()

	logCfg := telemetry.DefaultLoggingConfig()
	logCfg.Level = flagOrEnv(cmd, "log-level")
	logCfg.Format = flagOrEnv(cmd, "log-format")
	if err := logCfg.Validate(); err != nil {
		return err
	}
	logger, err := telemetry.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	state, err := server.NewState(flagOrEnv(cmd, "data-dir"))
	if err != nil {
		return fmt.Errorf("failed to initialize data directory: %w", err)
	}
	defer func() {
		if err := state.Close(); err != nil {
			logger.WithError(err).Warn("failed to close lifespan state")
		}
	}()

	logger.WithField("data_dir", state.BaseDir).Info("data directory ready")

	metricsCfg := telemetry.DefaultMetricsConfig()
	if addr := flagOrEnv(cmd, "metrics-addr"); addr != "" {
		metricsCfg.Enabled = true
		metricsCfg.ListenAddress = addr
	}
	metrics, err := telemetry.NewMetrics(metricsCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	if err := metrics.Serve(); err != nil {
		return fmt.Errorf("failed to start metrics endpoint: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metrics.Shutdown(shutdownCtx)
	}()

	engine := runner.NewExecEngine(flagOrEnv(cmd, "runner-path"), flagOrEnv(cmd, "inventory-path"), logger)

	managerOpts := []session.Option{session.WithMetrics(metrics)}
	if dbPath := flagOrEnv(cmd, "history-db"); dbPath != "" {
		store, err := history.NewStore(dbPath)
		if err != nil {
			return fmt.Errorf("failed to create history store: %w", err)
		}
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("failed to initialize history store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn("failed to close history store")
			}
		}()
		managerOpts = append(managerOpts, session.WithHistory(store))
		logger.WithField("history_db", dbPath).Info("run history enabled")
	}

	sessions := session.NewManager(state.PrivateDataDir, engine, logger, managerOpts...)

	reg := registry.New()
	if err := tools.RegisterAll(reg, tools.Deps{
		State:    state,
		Sessions: sessions,
		Logger:   logger,
	}); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}

	srv := server.New("ansibridge", version, serverDependencies, reg, state, logger,
		server.WithMetrics(metrics))

	logger.Info("serving on stdin/stdout")
	return srv.Serve(ctx, os.Stdin, os.Stdout)
}
