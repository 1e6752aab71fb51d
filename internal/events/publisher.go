// Package events relays order events from the transactional outbox to a
// message broker.
package events

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"

	"github.com/farmart/livestock-api/internal/model"
)

// Exchange is the topic exchange order events are published to. Routing keys
// are event types such as "order.created".
const Exchange = "orders.events"

type Publisher interface {
	Publish(ctx context.Context, rec model.OutboxRecord) error
	Close() error
}

type AMQPPublisher struct {
	channel *amqp.Channel
}

// NewAMQPPublisher declares the events exchange on ch and publishes to it.
func NewAMQPPublisher(ch *amqp.Channel) (*AMQPPublisher, error) {
	if err := DeclareExchange(ch); err != nil {
		return nil, err
	}
	return &AMQPPublisher{channel: ch}, nil
}

func DeclareExchange(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare events exchange: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, rec model.OutboxRecord) error {
	err := p.channel.PublishWithContext(ctx, Exchange, rec.Topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    rec.EventID.String(),
		Type:         rec.Topic,
		Timestamp:    rec.CreatedAt,
		Body:         rec.Payload,
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", rec.Topic, err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error { return p.channel.Close() }

type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher writes every event to one topic keyed by order id, so
// events of the same order stay in one partition.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

func (p *KafkaPublisher) Publish(ctx context.Context, rec model.OutboxRecord) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(rec.Key),
		Value: rec.Payload,
		Time:  time.Now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(rec.Topic)},
			{Key: "event_id", Value: []byte(rec.EventID.String())},
		},
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", rec.Topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }
