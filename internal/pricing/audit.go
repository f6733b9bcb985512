// SPDX-License-Identifier: MIT

package pricing

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/phantomlabs/phantom/internal/bus"
	"github.com/phantomlabs/phantom/internal/log"
)

// Observation is the price-observation audit record emitted per quote that
// carries a session.
type Observation struct {
	ProductID    string  `json:"productId"`
	Price        float64 `json:"price"`
	SessionID    string  `json:"sessionId"`
	ExperimentID string  `json:"experimentId,omitempty"`
	StoreMode    string  `json:"storeMode"`
	TS           string  `json:"ts"`
}

const (
	auditQueueSize = 256
	auditTimeout   = 5 * time.Second
	dropLogEvery   = 100
)

// AuditEmitter publishes observations to the event bus off the request
// path. Emit never blocks; completion and failure are unobservable to the
// caller and only diagnosable via logs and metrics.
type AuditEmitter struct {
	bus       bus.Publisher
	queue     chan Observation
	wg        sync.WaitGroup
	closeOnce sync.Once
	dropCount atomic.Uint64
}

// NewAuditEmitter starts the background worker.
func NewAuditEmitter(publisher bus.Publisher) *AuditEmitter {
	e := &AuditEmitter{
		bus:   publisher,
		queue: make(chan Observation, auditQueueSize),
	}
	e.wg.Add(1)
	go e.run()
	return e
}

// Emit enqueues an observation. A full queue drops the record rather than
// delaying the quote response.
func (e *AuditEmitter) Emit(obs Observation) {
	select {
	case e.queue <- obs:
	default:
		auditDropped.Inc()
		if e.dropCount.Add(1)%dropLogEvery == 1 {
			logger := log.WithComponent("pricing")
			logger.Warn().
				Str(log.FieldProductID, obs.ProductID).
				Msg("audit queue full, price observation dropped")
		}
	}
}

func (e *AuditEmitter) run() {
	defer e.wg.Done()
	logger := log.WithComponent("pricing")
	for obs := range e.queue {
		ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
		if err := e.bus.Publish(ctx, bus.TopicPriceObservations, obs); err != nil {
			auditFailures.Inc()
			logger.Warn().Err(err).
				Str(log.FieldProductID, obs.ProductID).
				Str(log.FieldSessionID, obs.SessionID).
				Msg("price observation publish failed")
		}
		cancel()
	}
}

// Close drains the queue and stops the worker.
func (e *AuditEmitter) Close() {
	e.closeOnce.Do(func() {
		close(e.queue)
		e.wg.Wait()
	})
}
