// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config file layout. All fields are optional;
// zero values mean "not set" and leave the current value untouched.
type fileConfig struct {
	LogLevel  string `yaml:"logLevel"`
	AppEnv    string `yaml:"appEnv"`
	StoreMode string `yaml:"storeMode"`
	DataDir   string `yaml:"dataDir"`

	API struct {
		ListenAddr string `yaml:"listenAddr"`
	} `yaml:"api"`

	Provider struct {
		URL             string `yaml:"url"`
		Timeout         string `yaml:"timeout"`
		Currency        string `yaml:"currency"`
		QuoteStaleAfter string `yaml:"quoteStaleAfter"`
	} `yaml:"provider"`

	Backend struct {
		URL      string `yaml:"url"`
		CacheTTL string `yaml:"cacheTTL"`
	} `yaml:"backend"`

	Bus struct {
		RedisAddr      string `yaml:"redisAddr"`
		RedisPassword  string `yaml:"redisPassword"`
		RedisDB        *int   `yaml:"redisDB"`
		PublishTimeout string `yaml:"publishTimeout"`
		StreamMaxLen   *int64 `yaml:"streamMaxLen"`
	} `yaml:"bus"`

	Recorder struct {
		Backend string `yaml:"backend"`
		URL     string `yaml:"url"`
		Token   string `yaml:"token"`
	} `yaml:"recorder"`

	RateLimit struct {
		Enabled           *bool    `yaml:"enabled"`
		PerMinute         *int     `yaml:"perMinute"`
		SessionEventRate  *float64 `yaml:"sessionEventRate"`
		SessionEventBurst *int     `yaml:"sessionEventBurst"`
	} `yaml:"rateLimit"`

	Tracing struct {
		Enabled  *bool  `yaml:"enabled"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"tracing"`
}

// mergeFile overlays values from the YAML file at path onto cfg.
func mergeFile(cfg *AppConfig, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.AppEnv, fc.AppEnv)
	setString(&cfg.StoreMode, fc.StoreMode)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.ListenAddr, fc.API.ListenAddr)

	setString(&cfg.ProviderURL, fc.Provider.URL)
	if err := setDuration(&cfg.ProviderTimeout, fc.Provider.Timeout); err != nil {
		return fmt.Errorf("config: provider.timeout: %w", err)
	}
	setString(&cfg.Currency, fc.Provider.Currency)
	if err := setDuration(&cfg.QuoteStaleAfter, fc.Provider.QuoteStaleAfter); err != nil {
		return fmt.Errorf("config: provider.quoteStaleAfter: %w", err)
	}

	setString(&cfg.BackendURL, fc.Backend.URL)
	if err := setDuration(&cfg.CatalogCacheTTL, fc.Backend.CacheTTL); err != nil {
		return fmt.Errorf("config: backend.cacheTTL: %w", err)
	}

	setString(&cfg.RedisAddr, fc.Bus.RedisAddr)
	setString(&cfg.RedisPassword, fc.Bus.RedisPassword)
	if fc.Bus.RedisDB != nil {
		cfg.RedisDB = *fc.Bus.RedisDB
	}
	if err := setDuration(&cfg.BusPublishTimeout, fc.Bus.PublishTimeout); err != nil {
		return fmt.Errorf("config: bus.publishTimeout: %w", err)
	}
	if fc.Bus.StreamMaxLen != nil {
		cfg.BusStreamMaxLen = *fc.Bus.StreamMaxLen
	}

	setString(&cfg.RecorderBackend, fc.Recorder.Backend)
	setString(&cfg.RecorderURL, fc.Recorder.URL)
	setString(&cfg.RecorderToken, fc.Recorder.Token)

	if fc.RateLimit.Enabled != nil {
		cfg.RateLimitEnabled = *fc.RateLimit.Enabled
	}
	if fc.RateLimit.PerMinute != nil {
		cfg.RateLimitPerMin = *fc.RateLimit.PerMinute
	}
	if fc.RateLimit.SessionEventRate != nil {
		cfg.SessionEventRate = *fc.RateLimit.SessionEventRate
	}
	if fc.RateLimit.SessionEventBurst != nil {
		cfg.SessionEventBurst = *fc.RateLimit.SessionEventBurst
	}

	if fc.Tracing.Enabled != nil {
		cfg.TracingEnabled = *fc.Tracing.Enabled
	}
	setString(&cfg.TracingEndpoint, fc.Tracing.Endpoint)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}
