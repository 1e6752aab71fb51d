package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/farmart/livestock-api/internal/apperr"
	"github.com/farmart/livestock-api/internal/dto"
	"github.com/farmart/livestock-api/internal/metrics"
	"github.com/farmart/livestock-api/internal/model"
	"github.com/farmart/livestock-api/internal/repository"
)

type OrderService struct {
	store   repository.Store
	logger  *slog.Logger
	metrics *metrics.OrderMetrics
	now     func() time.Time
}

func NewOrderService(store repository.Store, logger *slog.Logger, m *metrics.OrderMetrics) *OrderService {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{store: store, logger: logger, metrics: m, now: time.Now}
}

// CreateOrder turns the customer's cart into a pending order. Prices are
// snapshotted from the catalog and the cart is drained in the same
// transaction; on any failure nothing is persisted.
func (s *OrderService) CreateOrder(ctx context.Context, actor model.Actor) (*model.Order, error) {
	if err := AuthorizeCreateOrder(actor).Err(); err != nil {
		return nil, err
	}

	var order *model.Order
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		cartItems, err := tx.Carts().ListItems(ctx, actor.UserID)
		if err != nil {
			return fmt.Errorf("list cart items: %w", err)
		}
		if len(cartItems) == 0 {
			return ErrEmptyCart
		}

		ids := make([]uuid.UUID, 0, len(cartItems))
		for _, ci := range cartItems {
			ids = append(ids, ci.AnimalID)
		}
		animals, err := tx.Animals().LockByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("lock animals: %w", err)
		}

		items := make([]model.OrderItem, 0, len(cartItems))
		for _, ci := range cartItems {
			animal, ok := animals[ci.AnimalID]
			if !ok {
				return apperr.Errorf(ErrAnimalUnavailable, "animal %s no longer exists", ci.AnimalID)
			}
			if !animal.IsAvailable {
				return unavailable(animal)
			}
			items = append(items, model.OrderItem{
				AnimalID: animal.ID,
				FarmerID: animal.FarmerID,
				Quantity: ci.Quantity,
				Price:    animal.Price,
				Animal:   animal,
			})
		}

		order = &model.Order{
			CustomerID: actor.UserID,
			Status:     model.OrderStatusPending,
			Items:      items,
		}
		order.RecomputeTotal()
		if err := tx.Orders().Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		cleared, err := tx.Carts().Clear(ctx, actor.UserID)
		if err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		if cleared != int64(len(cartItems)) {
			return ErrCartChanged
		}

		return s.recordEvent(ctx, tx, s.newEvent(model.EventOrderCreated, order, actor, ""))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveCreated()
	s.logger.Info("order created",
		"order_id", order.ID, "user_id", actor.UserID,
		"items", len(order.Items), "total_amount", order.TotalAmount.String())
	return order, nil
}

// UpdateOrderStatus moves an order through its lifecycle on behalf of a
// co-selling farmer. Availability side effects touch only the acting farmer's
// animals: confirming reserves them, rejecting releases them.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actor model.Actor, orderID uuid.UUID, req dto.UpdateOrderStatusRequest) (*model.Order, error) {
	if actor.Role != model.RoleFarmer {
		return nil, ErrFarmersOnly
	}
	next, ok := model.ParseOrderStatus(req.Status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	var (
		order *model.Order
		from  model.OrderStatus
	)
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		order, err = tx.Orders().GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("get order: %w", err)
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if err := AuthorizeStatusUpdate(actor, order).Err(); err != nil {
			return err
		}
		from = order.Status
		if !from.CanTransitionTo(next) {
			return apperr.Errorf(ErrInvalidTransition, "cannot change order status from %s to %s", from, next)
		}

		owned := order.AnimalIDsOwnedBy(actor.UserID)
		switch next {
		case model.OrderStatusConfirmed:
			s.warnUnavailable(order, actor.UserID)
			if err := s.setAvailability(ctx, tx, order, actor.UserID, owned, false); err != nil {
				return err
			}
		case model.OrderStatusRejected:
			if err := s.setAvailability(ctx, tx, order, actor.UserID, owned, true); err != nil {
				return err
			}
		}

		if req.FarmerNotes != nil {
			notes := *req.FarmerNotes
			order.FarmerNotes = &notes
		}
		order.Status = next
		order.RecomputeTotal()
		if err := tx.Orders().UpdateStatus(ctx, order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		evt := s.newEvent(model.EventOrderStatusChanged, order, actor, from)
		evt.AnimalIDs = owned
		return s.recordEvent(ctx, tx, evt)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveTransition(from, next)
	s.logger.Info("order status updated",
		"order_id", order.ID, "user_id", actor.UserID, "from", from, "to", next)
	return order, nil
}

func (s *OrderService) setAvailability(ctx context.Context, tx repository.Tx, order *model.Order, farmerID uuid.UUID, ids []uuid.UUID, available bool) error {
	if _, err := tx.Animals().SetAvailability(ctx, ids, available); err != nil {
		return fmt.Errorf("set animal availability: %w", err)
	}
	for i := range order.Items {
		if order.Items[i].FarmerID == farmerID && order.Items[i].Animal != nil {
			order.Items[i].Animal.IsAvailable = available
		}
	}
	return nil
}

// warnUnavailable logs confirmations of animals that another order already
// reserved. Confirmation does not re-check availability.
func (s *OrderService) warnUnavailable(order *model.Order, farmerID uuid.UUID) {
	if order.Status == model.OrderStatusConfirmed {
		return
	}
	for _, item := range order.ItemsOwnedBy(farmerID) {
		if item.Animal != nil && !item.Animal.IsAvailable {
			s.logger.Warn("confirming order with unavailable animal",
				"order_id", order.ID, "animal_id", item.AnimalID, "user_id", farmerID)
		}
	}
}

func (s *OrderService) newEvent(eventType string, order *model.Order, actor model.Actor, from model.OrderStatus) model.OrderEvent {
	evt := model.OrderEvent{
		EventID:    uuid.New(),
		Type:       eventType,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		ActorID:    actor.UserID,
		FromStatus: from,
		Status:     order.Status,
		OccurredAt: s.now().UTC(),
	}
	seen := make(map[uuid.UUID]struct{})
	for _, item := range order.Items {
		if _, ok := seen[item.FarmerID]; !ok {
			seen[item.FarmerID] = struct{}{}
			evt.FarmerIDs = append(evt.FarmerIDs, item.FarmerID)
		}
		evt.AnimalIDs = append(evt.AnimalIDs, item.AnimalID)
	}
	return evt
}

func (s *OrderService) recordEvent(ctx context.Context, tx repository.Tx, evt model.OrderEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	rec := &model.OutboxRecord{
		EventID: evt.EventID,
		Topic:   evt.Type,
		Key:     evt.OrderID.String(),
		Payload: payload,
	}
	if err := tx.Outbox().Insert(ctx, rec); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

func unavailable(animal *model.Animal) error {
	return apperr.Errorf(ErrAnimalUnavailable, "animal %q (%s) is no longer available", animal.Name, animal.ID)
}
