package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"log-sentinel/internal/archive"
	"log-sentinel/internal/audit"
	"log-sentinel/internal/config"
	"log-sentinel/internal/detect"
	"log-sentinel/internal/ingest"
	"log-sentinel/internal/logging"
	"log-sentinel/internal/metrics"
	"log-sentinel/internal/output"
	"log-sentinel/internal/parser"
	"log-sentinel/internal/pipeline"
	"log-sentinel/internal/stats"
	"log-sentinel/internal/types"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const summaryTopIPs = 5

type runOptions struct {
	configPath      string
	file            string
	stdin           bool
	follow          bool
	poll            bool
	json            bool
	summary         bool
	bruteThreshold  int
	bruteWindowSecs int
	maxTracked      int
	auditLog        string
	archive         string
	metricsAddr     string
	logLevel        string
}

// resolveConfig loads the config file, if any, and applies the flags the
// user actually set on top of it.
func resolveConfig(cmd *cobra.Command, opts *runOptions) (*types.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(opts.configPath); err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.Input.File = opts.file
	}
	if flags.Changed("stdin") {
		cfg.Input.Stdin = opts.stdin
	}
	if flags.Changed("follow") {
		cfg.Input.Follow = opts.follow
	}
	if flags.Changed("poll") {
		cfg.Input.Poll = opts.poll
	}
	if flags.Changed("json") {
		cfg.Output.Format = "text"
		if opts.json {
			cfg.Output.Format = "json"
		}
	}
	if flags.Changed("summary") {
		cfg.Output.Summary = opts.summary
	}
	if flags.Changed("brute-threshold") {
		cfg.Detection.BruteThreshold = opts.bruteThreshold
	}
	if flags.Changed("brute-window-secs") {
		cfg.Detection.BruteWindowSecs = opts.bruteWindowSecs
	}
	if flags.Changed("max-tracked") {
		cfg.Detection.MaxTrackedAddresses = opts.maxTracked
	}
	if flags.Changed("audit-log") {
		cfg.Output.AuditLogPath = opts.auditLog
	}
	if flags.Changed("archive") {
		cfg.Output.ArchivePath = opts.archive
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.ListenAddr = opts.metricsAddr
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSentinel(cmd *cobra.Command, opts *runOptions) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
}

// run wires the components for one configuration and processes input until
// it ends or ctx is cancelled.
func run(ctx context.Context, cfg *types.Config, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	engine, err := detect.NewEngine(
		cfg.Detection.BruteThreshold,
		cfg.BruteWindow(),
		detect.WithMaxTrackedAddresses(cfg.Detection.MaxTrackedAddresses),
	)
	if err != nil {
		return err
	}

	primary, err := output.New(cfg.Output.Format, stdout)
	if err != nil {
		return err
	}
	collector := stats.NewCollector()
	sinks := []output.Sink{primary, collector}

	if cfg.Output.AuditLogPath != "" {
		sinks = append(sinks, audit.NewLogger(cfg.Output.AuditLogPath))
	}
	if cfg.Output.ArchivePath != "" {
		store, err := archive.NewStore(cfg.Output.ArchivePath)
		if err != nil {
			return err
		}
		defer store.Close()
		sinks = append(sinks, store)
	}

	if addr := cfg.Metrics.ListenAddr; addr != "" {
		go func() {
			logger.Info("Starting metrics server", zap.String("addr", addr))
			if err := metrics.StartServer(addr); err != nil {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	src, err := ingest.Open(cfg, stdin, logger)
	if err != nil {
		return err
	}
	defer src.Close()

	logger.Debug("Starting",
		zap.String("file", cfg.Input.File),
		zap.Bool("stdin", cfg.Input.Stdin),
		zap.Bool("follow", cfg.Input.Follow),
		zap.Int("brute_threshold", cfg.Detection.BruteThreshold),
		zap.Duration("brute_window", cfg.BruteWindow()),
	)

	err = pipeline.New(src, parser.NewEventParser(), engine, logger, sinks...).Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("Shutting down")
		err = nil
	}
	if err != nil {
		return err
	}

	if cfg.Output.Summary {
		if err := collector.WriteSummary(stdout, summaryTopIPs); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}
