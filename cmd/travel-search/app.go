package main

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/travel-search/internal/geo"
	"github.com/pdiddy/travel-search/internal/logging"
	"github.com/pdiddy/travel-search/internal/search"
	"github.com/pdiddy/travel-search/internal/secrets"
	"github.com/pdiddy/travel-search/internal/upstream"
	"github.com/pdiddy/travel-search/pkg/types"
)

const secretsDir = ".secrets/"

// setDefaults registers every config key so environment variables are
// picked up by Unmarshal even when no config file sets them.
func setDefaults(v *viper.Viper) {
	d := types.DefaultAppConfig()

	v.SetDefault("upstream.base_url", d.Upstream.BaseURL)
	v.SetDefault("upstream.timeout", d.Upstream.Timeout)
	v.SetDefault("upstream.user_agent", d.Upstream.UserAgent)
	v.SetDefault("upstream.page_size", d.Upstream.PageSize)
	v.SetDefault("upstream.max_retries", d.Upstream.MaxRetries)
	v.SetDefault("upstream.requests_per_second", d.Upstream.RequestsPerSecond)
	v.SetDefault("upstream.burst", d.Upstream.Burst)
	v.SetDefault("upstream.token", d.Upstream.Token)

	v.SetDefault("search.sample_cap", d.Search.SampleCap)
	v.SetDefault("search.fan_out", d.Search.FanOut)

	v.SetDefault("geo.codes_file", d.Geo.CodesFile)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.dir", d.Log.Dir)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
	v.SetDefault("log.console", d.Log.Console)

	v.SetDefault("server.addr", d.Server.Addr)
}

// loadConfig decodes v into an AppConfig and fills the upstream token from
// the secrets directory when none is configured.
func loadConfig(v *viper.Viper, dir string) (types.AppConfig, error) {
	cfg := types.DefaultAppConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	s, err := secrets.Load(dir, nil)
	if err != nil {
		return cfg, err
	}
	s.ApplyTo(&cfg.Upstream)

	if cfg.Upstream.BaseURL == "" {
		return cfg, fmt.Errorf("upstream base URL is not set (upstream.base_url, TRAVEL_SEARCH_UPSTREAM_BASE_URL or --base-url)")
	}
	return cfg, nil
}

// app holds the wired components for one command run.
type app struct {
	cfg      types.AppConfig
	log      *zap.Logger
	closeLog func()
	facade   *search.Facade
}

func newApp() (*app, error) {
	cfg, err := loadConfig(viper.GetViper(), secretsDir)
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	resolver, err := geo.Load(cfg.Geo.CodesFile)
	if err != nil {
		closeLog()
		return nil, err
	}

	client := upstream.NewClient(cfg.Upstream, upstream.WithLogger(log))
	log.Info("starting",
		zap.String("version", version),
		zap.String("base_url", cfg.Upstream.BaseURL),
		zap.Bool("token", cfg.Upstream.Token != ""),
		zap.Int("sample_cap", cfg.Search.SampleCap),
		zap.Int("fan_out", cfg.Search.FanOut))

	return &app{
		cfg:      cfg,
		log:      log,
		closeLog: closeLog,
		facade:   search.New(client, resolver, cfg.Search, log),
	}, nil
}

func (a *app) Close() { a.closeLog() }
