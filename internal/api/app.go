package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hintforge/hintforge/internal/config"
	"github.com/hintforge/hintforge/internal/llm"
	"github.com/hintforge/hintforge/internal/queue"
	"github.com/hintforge/hintforge/internal/ratelimit"
	"github.com/hintforge/hintforge/internal/stats"
	"github.com/hintforge/hintforge/internal/storage/postgres"
	"github.com/hintforge/hintforge/internal/storage/sqlite"
	"github.com/hintforge/hintforge/internal/tutor"
)

// App holds all application dependencies
type App struct {
	Config  *config.Config
	Tutor   *tutor.Service
	Stats   *stats.Aggregator
	LLM     *llm.Registry
	Limiter *ratelimit.Limiter

	// Ready probes the active database for the readiness endpoint.
	Ready func(ctx context.Context) error

	closers []func() error
}

// NewApp creates a new application instance with all dependencies wired
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		Config:  cfg,
		Limiter: ratelimit.NewInMemory(),
	}

	// Initialize storage. A postgres URL selects the hosted backend;
	// anything else is a SQLite file path.
	var (
		sessions tutor.SessionStore
		hints    tutor.HintStore
		attempts tutor.AttemptStore
		statsDB  stats.Store
	)
	if isPostgresURL(cfg.DatabaseURL) {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.Bootstrap(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("bootstrap postgres schema: %w", err)
		}
		sessions = postgres.NewSessionStore(db)
		hints = postgres.NewHintStore(db)
		attempts = postgres.NewAttemptStore(db)
		statsDB = postgres.NewStatStore(db)
		app.Ready = db.Pool.Ping
		app.closers = append(app.closers, func() error {
			db.Close()
			return nil
		})
	} else {
		db, err := sqlite.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		sessions = sqlite.NewSessionStore(db)
		hints = sqlite.NewHintStore(db)
		attempts = sqlite.NewAttemptStore(db)
		statsDB = sqlite.NewStatStore(db)
		app.Ready = db.PingContext
		app.closers = append(app.closers, db.Close)
	}

	// Initialize the pattern stats aggregator
	app.Stats = stats.NewAggregator(statsDB, slog.Default())

	// Initialize the AI provider registry
	app.LLM = llm.NewRegistry()
	if err := initLLMProviders(app.LLM, cfg); err != nil {
		app.Close()
		return nil, fmt.Errorf("init LLM providers: %w", err)
	}
	provider, err := app.LLM.Default()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("select default provider: %w", err)
	}
	gateway := llm.NewResilientProvider(provider, llm.DefaultResilientConfig())
	app.closers = append(app.closers, gateway.Close)

	// Stat updates flow through RabbitMQ when configured; otherwise the
	// tutor service records them in-process.
	var recorder tutor.AttemptRecorder = app.Stats
	if cfg.RabbitMQURL != "" {
		conn, err := queue.NewConnection(cfg.RabbitMQURL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		app.closers = append(app.closers, conn.Close)

		consumer := queue.NewConsumer(conn, func(ctx context.Context, event *queue.AttemptEvent) error {
			return app.Stats.RecordAttempt(ctx, event.SessionID, event.UserID, event.Patterns, event.Correct)
		}, queue.DefaultConsumerConfig())
		if err := consumer.Start(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("start attempt consumer: %w", err)
		}
		app.closers = append(app.closers, func() error {
			consumer.Stop()
			return nil
		})

		recorder = queue.NewProducer(conn)
	}

	app.Tutor = tutor.NewService(gateway, sessions, hints, attempts, recorder, slog.Default())

	return app, nil
}

func isPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// initLLMProviders sets up AI providers based on configuration
func initLLMProviders(registry *llm.Registry, cfg *config.Config) error {
	switch cfg.LLMProvider {
	case "openrouter":
		if cfg.APIKey == "" && !cfg.Debug {
			return fmt.Errorf("OPENROUTER_API_KEY required for openrouter provider")
		}
		provider := llm.NewOpenRouterProvider(llm.OpenRouterConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
		registry.Register("openrouter", provider)
		return registry.SetDefault("openrouter")

	case "ollama":
		model := cfg.Model
		if strings.Contains(model, "/") {
			// An OpenRouter model slug left at its default; let the
			// provider pick its local default instead.
			model = ""
		}
		provider := llm.NewOllamaProvider(llm.OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   model,
		})
		registry.Register("ollama", provider)
		return registry.SetDefault("ollama")

	default:
		// Register whatever is usable and prefer openrouter when keyed
		if cfg.APIKey != "" {
			provider := llm.NewOpenRouterProvider(llm.OpenRouterConfig{
				APIKey:  cfg.APIKey,
				BaseURL: cfg.BaseURL,
				Model:   cfg.Model,
			})
			registry.Register("openrouter", provider)
		}
		registry.Register("ollama", llm.NewOllamaProvider(llm.OllamaConfig{
			BaseURL: cfg.OllamaURL,
		}))
		if cfg.APIKey != "" {
			return registry.SetDefault("openrouter")
		}
		return registry.SetDefault("ollama")
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
