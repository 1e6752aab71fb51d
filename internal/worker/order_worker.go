package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/farmart/livestock-api/internal/events"
	"github.com/farmart/livestock-api/internal/model"
)

const (
	orderQueueName = "orders.notifications"
	orderBindKey   = "order.#"
	dlxExchange    = "orders.dlx"
	dlqQueueName   = "orders.notifications.dlq"
	idempotencyTTL = 24 * time.Hour
)

// CacheInvalidator drops cached catalog reads for animals an event touched.
type CacheInvalidator interface {
	InvalidateAnimals(ctx context.Context, ids []uuid.UUID) error
}

// OrderWorker consumes order events: it refreshes the animal cache and
// notifies the parties of an order.
type OrderWorker struct {
	channel     *amqp.Channel
	cache       CacheInvalidator
	redisClient *redis.Client
	log         *slog.Logger
	done        chan struct{}
}

func NewOrderWorker(ch *amqp.Channel, cache CacheInvalidator, redisClient *redis.Client, log *slog.Logger) *OrderWorker {
	return &OrderWorker{
		channel:     ch,
		cache:       cache,
		redisClient: redisClient,
		log:         log,
		done:        make(chan struct{}),
	}
}

// SetupRabbitMQ declares the events exchange, the notification queue and its
// dead letter queue.
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := events.DeclareExchange(ch); err != nil {
		return err
	}
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, orderQueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(orderQueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": orderQueueName,
	}); err != nil {
		return fmt.Errorf("declare order queue: %w", err)
	}
	if err := ch.QueueBind(orderQueueName, orderBindKey, events.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind order queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *OrderWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(orderQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("order worker started")
	return nil
}

func (w *OrderWorker) Stop() { close(w.done) }

func (w *OrderWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var evt model.OrderEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil || evt.EventID == uuid.Nil {
		w.log.Error("unmarshal order event", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("event_id", evt.EventID, "order_id", evt.OrderID, "type", evt.Type)

	idempotencyKey := "order_event_processed:" + evt.EventID.String()
	exists, err := w.redisClient.Exists(ctx, idempotencyKey).Result()
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if exists > 0 {
		log.Info("event already processed, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.handleEvent(ctx, log, evt); err != nil {
		log.Error("handle order event failed", "error", err)
		_ = msg.Nack(false, false) // to DLQ
		return
	}

	if err := w.redisClient.Set(ctx, idempotencyKey, "1", idempotencyTTL).Err(); err != nil {
		log.Error("set idempotency key", "error", err)
	}

	_ = msg.Ack(false)
	log.Info("order event processed")
}

func (w *OrderWorker) handleEvent(ctx context.Context, log *slog.Logger, evt model.OrderEvent) error {
	switch evt.Type {
	case model.EventOrderCreated:
		for _, farmerID := range evt.FarmerIDs {
			log.Info("notify farmer of new order", "user_id", farmerID)
		}
	case model.EventOrderStatusChanged:
		if err := w.cache.InvalidateAnimals(ctx, evt.AnimalIDs); err != nil {
			return fmt.Errorf("invalidate animals: %w", err)
		}
		log.Info("notify customer of status change",
			"user_id", evt.CustomerID, "from", evt.FromStatus, "to", evt.Status)
	default:
		return fmt.Errorf("unknown event type %q", evt.Type)
	}
	return nil
}
