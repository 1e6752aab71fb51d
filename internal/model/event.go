package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the payload written to the outbox and delivered to consumers.
type OrderEvent struct {
	EventID    uuid.UUID   `json:"event_id"`
	Type       string      `json:"type"`
	OrderID    uuid.UUID   `json:"order_id"`
	CustomerID uuid.UUID   `json:"customer_id"`
	ActorID    uuid.UUID   `json:"actor_id"`
	FromStatus OrderStatus `json:"from_status,omitempty"`
	Status     OrderStatus `json:"status"`
	FarmerIDs  []uuid.UUID `json:"farmer_ids,omitempty"`
	AnimalIDs  []uuid.UUID `json:"animal_ids,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// OutboxRecord is an event persisted alongside the state change it describes.
type OutboxRecord struct {
	ID        int64
	EventID   uuid.UUID
	Topic     string
	Key       string
	Payload   []byte
	CreatedAt time.Time
	SentAt    *time.Time
}
