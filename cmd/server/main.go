// Package main initializes and starts the subway server, setting up
// configuration, logging, database connections, repositories, services,
// handlers, and optional TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/atinyakov/subwaymap/internal/config"
	"github.com/atinyakov/subwaymap/internal/db"
	"github.com/atinyakov/subwaymap/internal/logger"
	"github.com/atinyakov/subwaymap/internal/middleware"
	"github.com/atinyakov/subwaymap/internal/repository"
	"github.com/atinyakov/subwaymap/internal/server/handler/http"
	"github.com/atinyakov/subwaymap/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	db.StartTokenCleaner(ctx, postgresDB, options.CleanupInterval.Duration, zapLogger)

	authRepo := repository.NewPostgresAuthRepository(postgresDB)
	lineRepo := repository.NewPostgresLineRepository(postgresDB)

	authService := service.NewAuthService(authRepo, options.TokenTTL.Duration)
	lineService := service.NewLineService(lineRepo)

	authHandler := &http.AuthHandler{AuthService: authService}
	lineHandler := &http.LineHandler{LineService: lineService}

	var (
		metricsHandler nethttp.Handler
		extra          []func(nethttp.Handler) nethttp.Handler
	)
	if options.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		httpMetrics, err := middleware.NewHTTPMetrics(reg)
		if err != nil {
			zapLogger.Fatal("failed to register metrics", zap.Error(err))
		}
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		extra = append(extra, httpMetrics.Handler)
	}

	router := http.NewRouter(authHandler, lineHandler, authService, zapLogger, metricsHandler, extra...)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	useTLS := options.TLSCert != "" && options.TLSKey != ""
	if useTLS {
		cert, err := tls.LoadX509KeyPair(options.TLSCert, options.TLSKey)
		if err != nil {
			zapLogger.Fatal("failed to load server TLS cert/key", zap.Error(err))
		}
		server.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("shutdown failed", zap.Error(err))
		}
	}()

	zapLogger.Info("starting server", zap.String("addr", options.Port), zap.Bool("tls", useTLS))
	if useTLS {
		err = server.ListenAndServeTLS("", "")
	} else {
		err = server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("server failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
