// Package events delivers committed outbox events to their subscribers.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Satheshwaran26/rentr/internal/config"
	"github.com/Satheshwaran26/rentr/internal/domain"
	"github.com/Satheshwaran26/rentr/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultMaxAttempts = 5
	defaultBatchSize   = 100
)

// Subscriber consumes dispatched events. Delivery is at-least-once, so Handle must be idempotent.
type Subscriber interface {
	Name() string
	Handle(ctx context.Context, event *domain.Event) error
}

// Dispatcher drains the event outbox. Commands call Kick after commit and the
// redelivery job calls DispatchPending to retry failed deliveries.
type Dispatcher struct {
	events      *repository.EventRepository
	subscribers []Subscriber
	maxAttempts int
	batchSize   int
	now         func() time.Time
	logger      *zap.Logger

	kick chan struct{}
	mu   sync.Mutex
}

func NewDispatcher(store *repository.Store, cfg config.EventsConfig, logger *zap.Logger, subscribers ...Subscriber) *Dispatcher {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Dispatcher{
		events:      store.Repos().Events,
		subscribers: subscribers,
		maxAttempts: maxAttempts,
		batchSize:   batchSize,
		now:         time.Now,
		logger:      logger,
		kick:        make(chan struct{}, 1),
	}
}

// Kick asks the dispatcher to run soon. It never blocks.
func (d *Dispatcher) Kick() {
	select {
	case d.kick <- struct{}{}:
	default:
	}
}

// Run dispatches pending events every time the dispatcher is kicked, until ctx is done
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("event dispatcher started", zap.Int("subscribers", len(d.subscribers)))
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("event dispatcher stopped")
			return
		case <-d.kick:
			if _, err := d.DispatchPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Error("event dispatch failed", zap.Error(err))
			}
		}
	}
}

// DispatchPending delivers undispatched events, oldest first, and returns how many were
// delivered. An event that fails stays in the outbox with its attempt counted and is
// retried on a later call until it runs out of attempts.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delivered := 0
	for {
		batch, err := d.events.ListUndispatched(ctx, d.maxAttempts, d.batchSize)
		if err != nil {
			return delivered, fmt.Errorf("failed to load outbox: %w", err)
		}

		failed := 0
		for i := range batch {
			ok, err := d.deliver(ctx, &batch[i])
			if err != nil {
				return delivered, err
			}
			if ok {
				delivered++
			} else {
				failed++
			}
		}

		// A failed event would be listed again right away, so retries wait for the next call
		if len(batch) < d.batchSize || failed > 0 {
			return delivered, nil
		}
	}
}

// deliver hands one event to every subscriber and records the outcome
func (d *Dispatcher) deliver(ctx context.Context, event *domain.Event) (bool, error) {
	var failures []string
	for _, sub := range d.subscribers {
		if err := sub.Handle(ctx, event); err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			d.logger.Warn("subscriber failed",
				zap.String("subscriber", sub.Name()),
				zap.String("event_id", event.ID.String()),
				zap.String("event_type", string(event.Type)),
				zap.Int("attempt", event.Attempts+1),
				zap.Error(err),
			)
			failures = append(failures, sub.Name()+": "+err.Error())
		}
	}

	if len(failures) > 0 {
		if err := d.events.MarkFailed(ctx, event.ID, strings.Join(failures, "; ")); err != nil {
			return false, fmt.Errorf("failed to record delivery failure: %w", err)
		}
		if event.Attempts+1 >= d.maxAttempts {
			d.logger.Error("event delivery abandoned",
				zap.String("event_id", event.ID.String()),
				zap.String("event_type", string(event.Type)),
				zap.Int("attempts", event.Attempts+1),
			)
		}
		return false, nil
	}

	if err := d.events.MarkDispatched(ctx, event.ID, d.now().UTC()); err != nil {
		return false, fmt.Errorf("failed to mark event dispatched: %w", err)
	}
	return true, nil
}
