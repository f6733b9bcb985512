// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
)

// Loader assembles the effective configuration. Precedence, lowest to
// highest: built-in defaults, optional YAML file, environment variables.
type Loader struct {
	filePath string
	version  string
}

// NewLoader creates a loader. filePath may be empty; the file layer is then
// skipped entirely.
func NewLoader(filePath, version string) *Loader {
	return &Loader{filePath: filePath, version: version}
}

// Load merges the three configuration layers and validates the result.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()
	cfg.Version = l.version

	if l.filePath != "" {
		if err := mergeFile(&cfg, l.filePath); err != nil {
			return AppConfig{}, err
		}
	}

	mergeEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mergeEnv overlays PHANTOM_* environment variables onto cfg.
func mergeEnv(cfg *AppConfig) {
	cfg.LogLevel = ParseString("PHANTOM_LOG_LEVEL", cfg.LogLevel)
	cfg.AppEnv = ParseString("PHANTOM_APP_ENV", cfg.AppEnv)
	cfg.StoreMode = ParseString("PHANTOM_STORE_MODE", cfg.StoreMode)
	cfg.DataDir = ParseString("PHANTOM_DATA", cfg.DataDir)

	cfg.ListenAddr = ParseString("PHANTOM_LISTEN", cfg.ListenAddr)

	cfg.ProviderURL = ParseString("PHANTOM_PROVIDER_URL", cfg.ProviderURL)
	cfg.ProviderTimeout = ParseDuration("PHANTOM_PROVIDER_TIMEOUT", cfg.ProviderTimeout)
	cfg.Currency = ParseString("PHANTOM_CURRENCY", cfg.Currency)
	cfg.QuoteStaleAfter = ParseDuration("PHANTOM_QUOTE_STALE_AFTER", cfg.QuoteStaleAfter)

	cfg.BackendURL = ParseString("PHANTOM_BACKEND_URL", cfg.BackendURL)
	cfg.CatalogCacheTTL = ParseDuration("PHANTOM_CATALOG_CACHE_TTL", cfg.CatalogCacheTTL)

	cfg.RedisAddr = ParseString("PHANTOM_REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = ParseString("PHANTOM_REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = ParseInt("PHANTOM_REDIS_DB", cfg.RedisDB)
	cfg.BusPublishTimeout = ParseDuration("PHANTOM_BUS_PUBLISH_TIMEOUT", cfg.BusPublishTimeout)
	cfg.BusStreamMaxLen = int64(ParseInt("PHANTOM_BUS_STREAM_MAXLEN", int(cfg.BusStreamMaxLen)))

	cfg.RecorderBackend = ParseString("PHANTOM_RECORDER_BACKEND", cfg.RecorderBackend)
	cfg.RecorderURL = ParseString("PHANTOM_RECORDER_URL", cfg.RecorderURL)
	cfg.RecorderToken = ParseString("PHANTOM_RECORDER_TOKEN", cfg.RecorderToken)

	cfg.RateLimitEnabled = ParseBool("PHANTOM_RATELIMIT_ENABLED", cfg.RateLimitEnabled)
	cfg.RateLimitPerMin = ParseInt("PHANTOM_RATELIMIT_PER_MINUTE", cfg.RateLimitPerMin)
	cfg.SessionEventRate = ParseFloat("PHANTOM_SESSION_EVENT_RATE", cfg.SessionEventRate)
	cfg.SessionEventBurst = ParseInt("PHANTOM_SESSION_EVENT_BURST", cfg.SessionEventBurst)

	cfg.TracingEnabled = ParseBool("PHANTOM_TRACING_ENABLED", cfg.TracingEnabled)
	cfg.TracingEndpoint = ParseString("PHANTOM_TRACING_ENDPOINT", cfg.TracingEndpoint)
}
