package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"covidtracker/internal/api"
	"covidtracker/internal/config"
	"covidtracker/internal/diseasesh"
	"covidtracker/internal/logging"
	"covidtracker/internal/metrics"
	"covidtracker/internal/state"
	"covidtracker/internal/view"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Wire the dashboard
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	client := diseasesh.New(cfg.APIBaseURL, cfg.RequestTimeout,
		diseasesh.WithLogger(logger.Named("diseasesh")),
		diseasesh.WithMetrics(m))
	store := state.NewStore(state.WithStoreLogger(logger.Named("state")), state.WithStoreMetrics(m))
	dash := state.NewDashboard(client, store, cfg.HistoryDays, logger.Named("dashboard"))

	renderer, err := view.NewRenderer()
	if err != nil {
		logger.Fatal("failed to load templates", zap.Error(err))
	}

	// 2. Start Echo immediately; JSON endpoints answer 503 until data arrives
	e := api.NewServer(api.NewHandler(dash, logger.Named("api"), cfg.RateLimit), renderer, reg)
	// Cancels open event streams on shutdown.
	e.Server.BaseContext = func(net.Listener) context.Context { return ctx }

	// 3. Initial fetches in the background
	go func() {
		logger.Info("loading dashboard data", zap.String("base_url", cfg.APIBaseURL))
		t0 := time.Now()
		if err := dash.Load(ctx); err != nil {
			logger.Warn("initial load incomplete", zap.Error(err), zap.Duration("took", time.Since(t0)))
			return
		}
		logger.Info("dashboard ready", zap.Duration("took", time.Since(t0)))
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("server starting", zap.String("addr", cfg.Port))
	if err := e.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
