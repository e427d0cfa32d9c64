package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/a010145456/FitTrackApp/internal/api"
	"github.com/a010145456/FitTrackApp/internal/auth"
	"github.com/a010145456/FitTrackApp/internal/bootstrap"
	"github.com/a010145456/FitTrackApp/internal/config"
	"github.com/a010145456/FitTrackApp/internal/logging"
	httptransport "github.com/a010145456/FitTrackApp/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open document store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warn("close document store", zap.Error(err))
		}
	}()

	pub := bootstrap.NewPublisher(cfg, "fittrack-api", logger)
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Warn("close publisher", zap.Error(err))
		}
	}()

	service := bootstrap.NewService(store, cfg, pub, logger)
	handler := api.NewHandler(service, logger)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	middleware := auth.NewMiddleware(
		auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer},
		auth.SkipPaths("/healthz", "/metrics"),
	)

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  60 * time.Second,
	}, httptransport.Chain(mux,
		httptransport.CORS(cfg.CORSOrigin),
		httptransport.RequestLogger(logger),
		middleware.Wrap,
	))

	go func() {
		logger.Info("fittrack api listening",
			zap.String("address", cfg.HTTPAddress),
			zap.String("backend", store.Backend()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}
