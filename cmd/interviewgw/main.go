// Package main is the entry point for the interview gateway server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"interviewgw/config"
	"interviewgw/internal/core"
	"interviewgw/internal/gateway"
	"interviewgw/internal/observability"
	"interviewgw/internal/registry"
	"interviewgw/internal/server"
)

func main() {
	// Optional .env file; ignored when absent
	_ = godotenv.Load() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.Server.LogFormat)

	// Credential resolution happens per request, so a missing credential
	// is not fatal here; warn so the deployment fault is visible early.
	if provider := registry.Resolve(config.Snapshot()); provider == core.ProviderNone {
		slog.Warn("no LLM provider credential configured; /chat will fail until one is set",
			"expected_one_of", []string{
				config.EnvOpenAIKey,
				config.EnvAnthropicKey,
				config.EnvOllamaBaseURL,
				config.EnvHuggingFaceKey,
			},
		)
	} else {
		slog.Info("active provider resolved", "provider", provider)
	}

	metrics := observability.New()
	dispatcher := gateway.New(cfg, gateway.WithMetrics(metrics))

	srv := server.New(dispatcher, &server.Config{
		Metrics: metrics,
	})

	// Handle graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	slog.Info("starting server", "address", addr)

	if err := srv.Start(addr); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			slog.Info("server stopped gracefully")
		} else {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}
}

// setupLogging installs the default slog handler: JSON in production,
// tinted human-readable output when LOG_FORMAT=pretty.
func setupLogging(format string) {
	var handler slog.Handler
	if format == "pretty" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			TimeFormat: time.TimeOnly,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
