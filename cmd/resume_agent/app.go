package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/events"
	"github.com/jonathan/resume-builder/internal/generation"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/pipeline"
	"github.com/jonathan/resume-builder/internal/templates"
	"github.com/jonathan/resume-builder/internal/tracker"
)

// loadConfig resolves configuration: file, then defaults, then environment.
// Command flags are applied by each command afterwards.
func loadConfig() (config.Config, error) {
	var cfg config.Config
	if configFile != "" {
		loaded, err := config.LoadConfig(configFile)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}
	cfg = cfg.MergeWithDefaults(config.Defaults())
	cfg.ApplyEnv()
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// app holds the wired components shared by the commands
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	registry  *templates.Registry
	generator *generation.Pipeline
	service   *pipeline.Service
	database  *db.DB

	closers []func() error
}

// Close releases provider clients, the database pool and the Redis connection
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", slog.String("error", err.Error()))
		}
	}
}

// buildApp wires registry, providers, store, events and the service from configuration
func buildApp(ctx context.Context, cfg config.Config) (*app, error) {
	level := config.ParseLogLevel(cfg.LogLevel)
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger, closeLog := config.SetupLogger(cfg.LogFile, level)
	a := &app{cfg: cfg, logger: logger, closers: []func() error{closeLog}}

	a.registry = templates.NewDefaultRegistry()
	if cfg.TemplatesFile != "" {
		n, err := a.registry.LoadFile(cfg.TemplatesFile)
		if err != nil {
			a.Close()
			return nil, err
		}
		logger.Info("loaded styles", slog.String("file", cfg.TemplatesFile), slog.Int("count", n))
	}

	primary := a.provider(ctx, cfg.Provider, cfg.APIKey)
	var secondary llm.Client
	if cfg.SecondaryProvider != "" {
		secondary = a.provider(ctx, cfg.SecondaryProvider, cfg.SecondaryAPIKey)
	}

	var cache *generation.ResultCache
	if cfg.CacheTTLMinutes > 0 {
		cache = generation.NewResultCache(time.Duration(cfg.CacheTTLMinutes) * time.Minute)
	}
	gen, err := generation.New(a.registry, generation.Options{
		Stages:         generation.DefaultStages(primary, secondary),
		AttemptTimeout: time.Duration(cfg.AttemptTimeoutSec) * time.Second,
		Cache:          cache,
		Logger:         logger,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.generator = gen

	var store tracker.Store = tracker.NewMemoryStore()
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() error { database.Close(); return nil })
		if err := database.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		a.database = database
		store = database
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RedisURL != "" {
		client, err := events.Connect(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		publisher = events.NewRedisPublisher(client, logger)
	}

	tr := tracker.New(store, a.registry, tracker.WithPublisher(publisher), tracker.WithLogger(logger))
	a.service = pipeline.NewService(a.registry, tr, gen, pipeline.Options{Logger: logger})
	return a, nil
}

// provider creates a rate-limited client, or nil when it cannot be configured.
// A missing provider leaves the rule-based extractor as the last resort.
func (a *app) provider(ctx context.Context, name, apiKey string) llm.Client {
	conf, err := llm.DefaultConfigFor(llm.Provider(name))
	if err != nil {
		a.logger.Warn("provider skipped", slog.String("provider", name), slog.String("error", err.Error()))
		return nil
	}
	if conf.Provider == llm.ProviderOllama {
		conf.ServerURL = a.cfg.OllamaURL
	}
	client, err := llm.NewClient(ctx, conf, apiKey)
	if err != nil {
		a.logger.Warn("provider skipped", slog.String("provider", name), slog.String("error", err.Error()))
		return nil
	}
	a.closers = append(a.closers, client.Close)
	return llm.NewRateLimited(client, a.cfg.RequestsPerSecond, 1)
}
