// SPDX-License-Identifier: MIT

package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisBus publishes events onto Redis streams, one stream per topic.
// Streams are capped approximately at MaxLen so an unattended daemon cannot
// grow them without bound.
type RedisBus struct {
	client *redis.Client
	maxLen int64
	logger zerolog.Logger
}

// RedisConfig holds Redis connection settings for the bus.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	MaxLen   int64
}

// NewRedisBus connects to Redis and verifies the connection with a ping.
func NewRedisBus(cfg RedisConfig, logger zerolog.Logger) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("bus: redis connection failed: %w", err)
	}

	logger.Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("connected to redis event bus")

	return &RedisBus{client: client, maxLen: cfg.MaxLen, logger: logger}, nil
}

// Publish appends the payload to the topic's stream. The caller bounds the
// call with its context deadline.
func (b *RedisBus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("bus: marshal payload for %s: %w", topic, err)
	}

	err = b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: topic,
		MaxLen: b.maxLen,
		Approx: true,
		Values: map[string]any{"payload": data},
	}).Err()
	if err != nil {
		publishFailures.WithLabelValues(topic).Inc()
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, topic, err)
	}

	publishTotal.WithLabelValues(topic).Inc()
	return nil
}

// Ping reports sink reachability, used by readiness checks.
func (b *RedisBus) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}
