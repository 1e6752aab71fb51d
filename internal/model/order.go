package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusRejected  OrderStatus = "rejected"
	OrderStatusCompleted OrderStatus = "completed"
)

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusRejected, OrderStatusCompleted:
		return st, true
	}
	return "", false
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusRejected},
	OrderStatusConfirmed: {OrderStatusRejected, OrderStatusCompleted},
}

// CanTransitionTo reports whether an order in status s may move to next.
// Re-applying the current status is always allowed: in a multi-farmer order
// every co-seller confirms (or rejects) their own items separately.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

type Order struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	Status      OrderStatus
	TotalAmount decimal.Decimal
	FarmerNotes *string
	Items       []OrderItem
	// ItemsCount is filled by summary queries that do not load Items.
	ItemsCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type OrderItem struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	AnimalID uuid.UUID
	FarmerID uuid.UUID
	Quantity int
	Price    decimal.Decimal
	Animal   *Animal
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// RecomputeTotal derives TotalAmount from the item snapshots.
func (o *Order) RecomputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	o.TotalAmount = total
	return total
}

func (o *Order) ItemsOwnedBy(farmerID uuid.UUID) []OrderItem {
	var owned []OrderItem
	for _, item := range o.Items {
		if item.FarmerID == farmerID {
			owned = append(owned, item)
		}
	}
	return owned
}

func (o *Order) HasSeller(farmerID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.FarmerID == farmerID {
			return true
		}
	}
	return false
}

// AnimalIDsOwnedBy returns the distinct animals of farmerID referenced by the order.
func (o *Order) AnimalIDsOwnedBy(farmerID uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, item := range o.ItemsOwnedBy(farmerID) {
		if _, ok := seen[item.AnimalID]; ok {
			continue
		}
		seen[item.AnimalID] = struct{}{}
		ids = append(ids, item.AnimalID)
	}
	return ids
}

// Count returns the number of line items, loaded or summarized.
func (o *Order) Count() int {
	if len(o.Items) > 0 {
		return len(o.Items)
	}
	return o.ItemsCount
}

// OrderFilter narrows order listings. Zero values mean "any".
type OrderFilter struct {
	Status     OrderStatus
	CustomerID uuid.UUID
	Limit      int
	Offset     int
}
