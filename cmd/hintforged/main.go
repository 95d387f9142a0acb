// Command hintforged runs the HintForge tutoring API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hintforge/hintforge/internal/api"
	"github.com/hintforge/hintforge/internal/config"
)

const localConfigFile = "hintforge.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("daemon error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env for local development; a missing file is fine.
	_ = godotenv.Load()

	local, err := config.LoadLocalConfig(localConfigFile)
	if err != nil {
		return fmt.Errorf("load local config: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	local.Apply(cfg)

	setupLogging(local.LogLevel(), cfg.Debug)

	ctx := context.Background()
	app, err := api.NewApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	defer app.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port),
		Handler:      api.NewRouter(app),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		slog.Info("received signal, shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		close(done)
	}()

	slog.Info("starting server",
		"addr", server.Addr,
		"provider", app.LLM.DefaultName(),
		"debug", cfg.Debug,
	)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	slog.Info("daemon stopped")
	return nil
}

func setupLogging(level string, debug bool) {
	logLevel := parseLogLevel(level)
	if debug && logLevel > slog.LevelDebug {
		logLevel = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
