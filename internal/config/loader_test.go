// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ModeHotel, cfg.StoreMode)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.Equal(t, 3*time.Second, cfg.ProviderTimeout)
}

func TestLoadPrecedenceEnvOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	file := `
storeMode: airline
appEnv: dev
provider:
  url: http://file-provider:5001
  timeout: 5s
bus:
  redisAddr: file-redis:6379
`
	require.NoError(t, os.WriteFile(path, []byte(file), 0o600))

	t.Setenv("PHANTOM_PROVIDER_URL", "http://env-provider:5001")

	cfg, err := NewLoader(path, "test").Load()
	require.NoError(t, err)

	// ENV wins over file, file wins over defaults.
	assert.Equal(t, "http://env-provider:5001", cfg.ProviderURL)
	assert.Equal(t, ModeAirline, cfg.StoreMode)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 5*time.Second, cfg.ProviderTimeout)
	assert.Equal(t, "file-redis:6379", cfg.RedisAddr)
	// Untouched values keep their defaults.
	assert.Equal(t, ":8080", cfg.ListenAddr)
}

func TestLoadRejectsInvalidStoreMode(t *testing.T) {
	t.Setenv("PHANTOM_STORE_MODE", "cruise")
	_, err := NewLoader("", "test").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store mode")
}

func TestLoadRejectsHTTPRecorderWithoutURL(t *testing.T) {
	t.Setenv("PHANTOM_RECORDER_BACKEND", "http")
	_, err := NewLoader("", "test").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recorder")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [broken"), 0o600))

	_, err := NewLoader(path, "test").Load()
	require.Error(t, err)
}

func TestParseHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("PHANTOM_TEST_INT", "not-a-number")
	t.Setenv("PHANTOM_TEST_BOOL", "not-a-bool")
	t.Setenv("PHANTOM_TEST_DUR", "not-a-duration")

	assert.Equal(t, 7, ParseInt("PHANTOM_TEST_INT", 7))
	assert.Equal(t, true, ParseBool("PHANTOM_TEST_BOOL", true))
	assert.Equal(t, time.Second, ParseDuration("PHANTOM_TEST_DUR", time.Second))
}
