// SPDX-License-Identifier: MIT

// Package config loads and validates the phantomd configuration with the
// precedence ENV > file > defaults.
package config

import (
	"fmt"
	"time"
)

// Store modes recognised by the storefront.
const (
	ModeHotel   = "hotel"
	ModeAirline = "airline"
)

// AppConfig is the effective daemon configuration after merging defaults,
// the optional YAML file and environment variables.
type AppConfig struct {
	// Runtime identity
	LogLevel   string
	LogService string
	AppEnv     string // "dev" or "prod"
	Version    string

	// Storefront
	StoreMode string // "hotel" or "airline"
	DataDir   string

	// HTTP server
	ListenAddr string

	// Pricing provider
	ProviderURL     string
	ProviderTimeout time.Duration
	Currency        string
	QuoteStaleAfter time.Duration

	// Catalog backend
	BackendURL      string
	CatalogCacheTTL time.Duration

	// Event bus
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	BusPublishTimeout time.Duration
	BusStreamMaxLen   int64

	// Session system-of-record
	RecorderBackend string // "none", "http" or "badger"
	RecorderURL     string
	RecorderToken   string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitPerMin   int     // per-IP request budget on ingest, per minute
	SessionEventRate  float64 // per-session events per second
	SessionEventBurst int

	// Tracing
	TracingEnabled  bool
	TracingEndpoint string
}

// Defaults returns the built-in configuration baseline.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:   "info",
		LogService: "phantom",
		AppEnv:     "prod",

		StoreMode: ModeHotel,
		DataDir:   "/var/lib/phantom",

		ListenAddr: ":8080",

		ProviderURL:     "http://localhost:5001",
		ProviderTimeout: 3 * time.Second,
		Currency:        "EUR",
		QuoteStaleAfter: 60 * time.Second,

		BackendURL:      "http://localhost:5000",
		CatalogCacheTTL: 30 * time.Second,

		BusPublishTimeout: 2 * time.Second,
		BusStreamMaxLen:   100_000,

		RecorderBackend: "none",

		RateLimitEnabled:  true,
		RateLimitPerMin:   600,
		SessionEventRate:  20,
		SessionEventBurst: 40,
	}
}

// IsDev reports whether the daemon runs in developer mode.
func (c AppConfig) IsDev() bool {
	return c.AppEnv == "dev"
}

// Validate checks the merged configuration for values the daemon cannot
// start with. It fails fast rather than limping along.
func (c AppConfig) Validate() error {
	if c.StoreMode != ModeHotel && c.StoreMode != ModeAirline {
		return fmt.Errorf("config: store mode must be %q or %q, got %q", ModeHotel, ModeAirline, c.StoreMode)
	}
	if c.AppEnv != "dev" && c.AppEnv != "prod" {
		return fmt.Errorf("config: app env must be \"dev\" or \"prod\", got %q", c.AppEnv)
	}
	if c.ProviderURL == "" {
		return fmt.Errorf("config: provider URL must not be empty")
	}
	if c.ProviderTimeout <= 0 {
		return fmt.Errorf("config: provider timeout must be positive, got %s", c.ProviderTimeout)
	}
	if c.BusPublishTimeout <= 0 {
		return fmt.Errorf("config: bus publish timeout must be positive, got %s", c.BusPublishTimeout)
	}
	if len(c.Currency) != 3 {
		return fmt.Errorf("config: currency must be a 3-letter ISO code, got %q", c.Currency)
	}
	switch c.RecorderBackend {
	case "none", "http", "badger":
	default:
		return fmt.Errorf("config: recorder backend must be one of none/http/badger, got %q", c.RecorderBackend)
	}
	if c.RecorderBackend == "http" && c.RecorderURL == "" {
		return fmt.Errorf("config: recorder backend \"http\" requires a recorder URL")
	}
	if c.TracingEnabled && c.TracingEndpoint == "" {
		return fmt.Errorf("config: tracing enabled but no endpoint configured")
	}
	return nil
}
