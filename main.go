package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-locator/internal/config"
	"github.com/fakhrymubarak/weather-locator/internal/handler"
	"github.com/fakhrymubarak/weather-locator/internal/preference"
	"github.com/fakhrymubarak/weather-locator/internal/service"
)

func main() {
	_ = godotenv.Load()
	logger := config.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	prefs, closer := preference.Open(ctx)
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Warnw("Error closing preference store", "error", err)
		}
	}()

	weatherService := service.NewWeatherService(service.Deps{Prefs: prefs})
	srv := newServer(handler.NewRouter(handler.NewWeatherHandler(weatherService)))

	go func() {
		logger.Infow("Starting weather server", "address", srv.Addr, "preference_backend", config.GetPreferenceBackend())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("HTTP server ListenAndServe error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Infow("Shutdown signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		config.GetServerTimeoutDuration("shutdown_timeout", 10*time.Second))
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("HTTP server graceful shutdown failed", "error", err)
		return
	}
	logger.Infow("HTTP server gracefully stopped")
}

func newServer(h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + config.GetServerPort(),
		Handler:           h,
		ReadHeaderTimeout: config.GetServerTimeoutDuration("read_header_timeout", 15*time.Second),
		ReadTimeout:       config.GetServerTimeoutDuration("read_timeout", 15*time.Second),
		WriteTimeout:      config.GetServerTimeoutDuration("write_timeout", 10*time.Second),
		IdleTimeout:       config.GetServerTimeoutDuration("idle_timeout", 30*time.Second),
		ErrorLog:          zap.NewStdLog(config.GetLogger().Desugar()),
	}
}
