// SPDX-License-Identifier: MIT

// Package bus connects the core to the durable downstream event sink.
package bus

import (
	"context"
	"errors"
)

// Topics the core publishes to.
const (
	TopicInteractions      = "events.interactions"
	TopicPriceObservations = "events.price_observations"
)

// ErrUnavailable is returned when the sink cannot accept a publish within
// the caller's deadline.
var ErrUnavailable = errors.New("bus: sink unreachable or publish failed")

// Publisher is the write side of the event bus. Payloads must be
// JSON-serialisable; the bus does not inspect them.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
	Close() error
}
