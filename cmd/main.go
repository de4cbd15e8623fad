package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"shenanigigs/statistics/internal/cli"
	"shenanigigs/statistics/internal/config"
	"shenanigigs/statistics/internal/errors"
	"shenanigigs/statistics/internal/logging"
	"shenanigigs/statistics/internal/parser"
	"shenanigigs/statistics/internal/processor"
	"shenanigigs/statistics/internal/telemetry"
)

func newLogger(cfg *config.Config, lc fx.Lifecycle) (*zap.Logger, error) {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync on stderr reports EINVAL on some terminals.
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}

func newTracer(cfg *config.Config, lc fx.Lifecycle, logger *zap.Logger) (trace.Tracer, error) {
	shutdown, err := telemetry.Setup(context.Background(), cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}
	if cfg.OTLPEndpoint != "" {
		logger.Debug("exporting traces", zap.String("endpoint", cfg.OTLPEndpoint))
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.TelemetryTimeout)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				logger.Warn("failed to flush traces", zap.Error(err))
			}
			return nil
		},
	})
	return telemetry.GetTracer("shenanigigs/statistics/processor"), nil
}

func run(args []string, stdout io.Writer) int {
	parsed, err := cli.ParseArgs(args, stdout)
	if err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stdout, errors.UserMessage(err))
		return 1
	}

	cfg, err := config.LoadConfig(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintln(stdout, err)
		return 1
	}

	opts, err := parsed.Options(cfg, time.Now())
	if err != nil {
		fmt.Fprintln(stdout, errors.UserMessage(err))
		return 1
	}

	var (
		chatProcessor *processor.ChatProcessor
		logger        *zap.Logger
	)
	app := fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		fx.Provide(
			func() io.Writer { return stdout },
			newLogger,
			newTracer,
			parser.NewSegmenter,
			processor.NewChatProcessor,
		),
		fx.Populate(&chatProcessor, &logger),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintln(stdout, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ProcessingTimeout)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		fmt.Fprintln(stdout, err)
		return 1
	}

	code := 0
	if err := chatProcessor.Run(ctx, opts); err != nil {
		logger.Error("Run failed",
			zap.String("error_type", string(errors.TypeOf(err))),
			zap.Error(err))
		fmt.Fprintln(stdout, errors.UserMessage(err))
		code = 1
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return code
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}
