// SPDX-License-Identifier: MIT

package bus

import (
	"github.com/phantomlabs/phantom/internal/config"
	"github.com/phantomlabs/phantom/internal/log"
)

// New selects the bus backend from configuration. Without a Redis address
// the daemon runs against an in-process bus; events then do not survive a
// restart, which is acceptable for development only and logged as such.
func New(cfg config.AppConfig) (Publisher, error) {
	logger := log.WithComponent("bus")

	if cfg.RedisAddr == "" {
		logger.Warn().Msg("no redis address configured, using in-process event bus")
		return NewMemoryBus(), nil
	}

	return NewRedisBus(RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		MaxLen:   cfg.BusStreamMaxLen,
	}, logger)
}
