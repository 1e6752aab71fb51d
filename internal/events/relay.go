package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/farmart/livestock-api/internal/metrics"
	"github.com/farmart/livestock-api/internal/repository"
)

const (
	defaultInterval = time.Second
	defaultBatch    = 100
)

// Relay polls the outbox and publishes pending events in insertion order.
// Delivery is at least once: an event published but not yet marked sent is
// published again on the next tick.
type Relay struct {
	outbox    repository.OutboxRepository
	publisher Publisher
	breaker   *gobreaker.CircuitBreaker[struct{}]
	interval  time.Duration
	batch     int
	log       *slog.Logger
	metrics   *metrics.OrderMetrics
}

type RelayConfig struct {
	Interval time.Duration
	Batch    int
}

func NewRelay(outbox repository.OutboxRepository, publisher Publisher, cfg RelayConfig, log *slog.Logger, m *metrics.OrderMetrics) *Relay {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Batch <= 0 {
		cfg.Batch = defaultBatch
	}
	if log == nil {
		log = slog.Default()
	}
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "outbox-relay",
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &Relay{
		outbox:    outbox,
		publisher: publisher,
		breaker:   breaker,
		interval:  cfg.Interval,
		batch:     cfg.Batch,
		log:       log,
		metrics:   m,
	}
}

// Run relays on every tick until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("outbox relay started", "interval", r.interval.String())
	for {
		select {
		case <-ctx.Done():
			r.log.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.RelayOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
				r.log.Error("relay outbox", "error", err)
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many events were marked sent.
// It stops at the first failed publish so later events of the same order are
// not delivered ahead of it.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	records, err := r.outbox.FetchPending(ctx, r.batch)
	if err != nil {
		return 0, fmt.Errorf("fetch pending: %w", err)
	}

	sent := 0
	for _, rec := range records {
		_, err := r.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, r.publisher.Publish(ctx, rec)
		})
		r.metrics.ObservePublish(err)
		if err != nil {
			return sent, fmt.Errorf("publish event %s: %w", rec.EventID, err)
		}
		if err := r.outbox.MarkSent(ctx, rec.ID); err != nil {
			return sent, fmt.Errorf("mark event %s sent: %w", rec.EventID, err)
		}
		sent++
		r.log.Debug("event relayed", "event_id", rec.EventID, "type", rec.Topic)
	}
	return sent, nil
}
