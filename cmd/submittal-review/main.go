package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/joseph-ayodele/submittal-review/internal/common"
	"github.com/joseph-ayodele/submittal-review/internal/export"
	"github.com/joseph-ayodele/submittal-review/internal/health"
	"github.com/joseph-ayodele/submittal-review/internal/otel"
	"github.com/joseph-ayodele/submittal-review/internal/pipeline"
	"github.com/joseph-ayodele/submittal-review/internal/server"
)

func main() {
	cfg := common.LoadConfig()
	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Telemetry, logger)
	if err != nil {
		logger.Error("tracing init", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	proc, err := pipeline.Build(cfg, reg, logger)
	if err != nil {
		logger.Error("build pipeline", "error", err)
		os.Exit(1)
	}

	app, err := server.New(server.Deps{
		Config:   cfg.Server,
		Reviewer: proc,
		Exporter: export.NewService(logger),
		Registry: reg,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("build http server", "error", err)
		os.Exit(1)
	}

	var hs *health.Server
	if cfg.Server.GRPCHealthAddr != "" {
		hs, err = health.Listen(cfg.Server.GRPCHealthAddr, logger)
		if err != nil {
			logger.Error("grpc health listen", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := hs.Serve(); err != nil {
				logger.Error("grpc health serve", "error", err)
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http.serving", "addr", cfg.Server.HTTPAddr, "static_dir", cfg.Server.StaticDir)
		serveErr <- app.Listen(cfg.Server.HTTPAddr)
	}()
	if hs != nil {
		hs.SetServing(true)
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case err := <-serveErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("http serve", "error", err)
		}
	}

	if hs != nil {
		hs.Stop()
	}
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Error("tracing shutdown", "error", err)
	}
	logger.Info("stopped")
}
