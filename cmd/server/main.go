package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"energy_forecaster/internal/config"
	"energy_forecaster/internal/features"
	"energy_forecaster/internal/forecast"
	"energy_forecaster/internal/metrics"
	"energy_forecaster/internal/model"
	"energy_forecaster/internal/predictor"
	"energy_forecaster/internal/web"
	"energy_forecaster/internal/ws"
	"energy_forecaster/pkg/logger"
)

// HTTP server timeouts. Read and write timeouts stay unset because they
// would also cut long-lived WebSocket connections.
const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	configPath := flag.String("config", "", "YAML config file (default $ENERGY_CONFIG)")
	flag.Parse()

	// .env is optional
	_ = godotenv.Load()

	logger.Init()
	log := logger.Named("server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		os.Exit(1)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel))
	}

	// Without a model nothing can be served.
	cm, err := predictor.LoadModel(cfg.ModelPath)
	if err != nil {
		log.Error(ctx, "failed to load model", logger.String("path", cfg.ModelPath), logger.Error(err))
		os.Exit(1)
	}
	log.Info(ctx, "model loaded", logger.String("path", cfg.ModelPath))
	for _, gap := range catalogGaps(cm) {
		log.Warn(ctx, "selector option unknown to the model; predictions for it will fail", logger.String("option", gap))
	}

	mgr := metrics.NewManager()
	svc := forecast.New(cm, forecast.WithRecorder(mgr))

	hub := ws.NewHub()
	handler := ws.NewHandler(hub, svc,
		ws.WithMetrics(mgr),
		ws.WithLogger(logger.Named("ws")),
		ws.WithSendBuffer(cfg.SendBuffer),
	)

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = mgr.Handler()
	}
	mux := newMux(handler, metricsHandler, cfg.FrontendDir)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	hub.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	log.Info(shutdownCtx, "server stopped")
}

// newMux wires the routes. A nil metrics handler leaves /metrics unrouted.
func newMux(wsHandler, metricsHandler http.Handler, frontendDir string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.Handle("/ws", wsHandler)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	web.Register(mux, frontendDir)
	return mux
}

type categorySource interface {
	Categories(column string) []string
}

// catalogGaps lists selector options the model has no category for.
func catalogGaps(m categorySource) []string {
	var gaps []string
	gaps = appendGaps(gaps, features.ColumnAppliance, m.Categories(features.ColumnAppliance), model.Appliances)
	gaps = appendGaps(gaps, features.ColumnSeason, m.Categories(features.ColumnSeason), model.Seasons)
	return gaps
}

func appendGaps[T ~string](gaps []string, column string, known []string, options []T) []string {
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}
	for _, o := range options {
		if !set[string(o)] {
			gaps = append(gaps, column+"="+string(o))
		}
	}
	return gaps
}
