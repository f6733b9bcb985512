// SPDX-License-Identifier: MIT

package bus

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *RedisBus) {
	t.Helper()

	mr := miniredis.NewMiniRedis()
	if err := mr.Start(); err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := &RedisBus{client: client, maxLen: 1000, logger: zerolog.Nop()}
	t.Cleanup(func() { _ = b.Close() })

	return mr, b
}

func TestRedisBusPublishLandsOnStream(t *testing.T) {
	mr, b := setupMiniRedis(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	payload := map[string]any{"sessionId": "s-1", "eventName": "page_view"}
	if err := b.Publish(ctx, TopicInteractions, payload); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	entries, err := mr.Stream(TopicInteractions)
	if err != nil {
		t.Fatalf("stream read failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 stream entry, got %d", len(entries))
	}
}

func TestRedisBusPublishFailsWhenServerDown(t *testing.T) {
	mr, b := setupMiniRedis(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	err := b.Publish(ctx, TopicInteractions, map[string]any{"k": "v"})
	if err == nil {
		t.Fatal("expected publish to fail against closed server")
	}
}

func TestRedisBusPing(t *testing.T) {
	_, b := setupMiniRedis(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := b.Ping(ctx); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}
