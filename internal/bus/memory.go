// SPDX-License-Identifier: MIT

package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryBus is an in-process sink used for tests and for local development
// without Redis. It keeps published payloads per topic, in arrival order.
type MemoryBus struct {
	mu     sync.RWMutex
	topics map[string][][]byte
	closed bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{topics: make(map[string][][]byte)}
}

func (b *MemoryBus) Publish(ctx context.Context, topic string, payload any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnavailable, topic, err)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("bus: marshal payload for %s: %w", topic, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fmt.Errorf("%w: %s: bus closed", ErrUnavailable, topic)
	}
	b.topics[topic] = append(b.topics[topic], data)
	publishTotal.WithLabelValues(topic).Inc()
	return nil
}

// Messages returns a copy of everything published to topic so far.
func (b *MemoryBus) Messages(topic string) [][]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([][]byte, len(b.topics[topic]))
	copy(out, b.topics[topic])
	return out
}

func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
