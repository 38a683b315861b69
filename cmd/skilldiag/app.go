package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/skill-diagnostic/internal/client"
	"github.com/jonathan/skill-diagnostic/internal/config"
	"github.com/jonathan/skill-diagnostic/internal/logger"
	"github.com/jonathan/skill-diagnostic/internal/render"
	"github.com/jonathan/skill-diagnostic/internal/session"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app bundles everything a command needs for one invocation.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	session *session.Session
	printer *render.Printer
	cache   *client.RedisCache
}

// resolveConfig layers built-in defaults, the config file, SKILLDIAG_* env
// vars and explicitly set flags, in increasing precedence.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return config.Config{}, err
	}

	changed := func(name string) bool {
		f := cmd.Flag(name)
		return f != nil && f.Changed
	}
	if changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if changed("timeout") {
		cfg.TimeoutSeconds = timeout
	}
	if changed("page-size") {
		cfg.PageSize = pageSize
	}
	if changed("redis-addr") {
		cfg.RedisAddr = redisAddr
	}
	if changed("verbose") {
		cfg.Verbose = verbose
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg.MergeWithDefaults(config.Defaults()), nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.Verbose)

	opts := client.DefaultOptions()
	opts.Timeout = cfg.Timeout()
	opts.Logger = log
	httpClient, err := client.New(cfg.BaseURL, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	a := &app{
		cfg:     cfg,
		log:     log,
		printer: render.NewPrinter(cmd.OutOrStdout()),
	}

	var svc session.Service = httpClient

	if cfg.CacheEnabled() {
		a.cache = client.NewRedisCache(commandContext(cmd), cfg.RedisAddr, log)
		if a.cache.Available() {
			svc = client.NewCachedService(httpClient, a.cache, cfg.CacheTTL(), log)
		}
	}

	a.session = session.New(svc, session.Options{PageSize: cfg.PageSize, Logger: log})
	log.Debug().Str("base_url", cfg.BaseURL).Str("session", a.session.ID()).Bool("cache", a.cache.Available()).Msg("client ready")
	return a, nil
}

func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close redis")
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
