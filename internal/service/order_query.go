package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/farmart/livestock-api/internal/model"
	"github.com/farmart/livestock-api/internal/repository"
)

// ListQuery selects a page of orders, optionally narrowed to one status.
type ListQuery struct {
	Page       model.Page
	Status     string
	CustomerID uuid.UUID
}

func (q ListQuery) filter() (model.OrderFilter, error) {
	f := model.OrderFilter{
		CustomerID: q.CustomerID,
		Limit:      q.Page.PerPage,
		Offset:     q.Page.Offset(),
	}
	if q.Status != "" {
		status, ok := model.ParseOrderStatus(q.Status)
		if !ok {
			return f, ErrInvalidStatus
		}
		f.Status = status
	}
	return f, nil
}

// OrderQueryService serves role-scoped order reads.
type OrderQueryService struct {
	store repository.Store
}

func NewOrderQueryService(store repository.Store) *OrderQueryService {
	return &OrderQueryService{store: store}
}

// GetOrder returns the order with its items if the actor may see it.
func (s *OrderQueryService) GetOrder(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := AuthorizeViewOrder(actor, order).Err(); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders lists the customer's own orders, or for a farmer every order
// containing at least one of their animals, each order once.
func (s *OrderQueryService) ListOrders(ctx context.Context, actor model.Actor, q ListQuery) ([]model.Order, model.Pagination, error) {
	q.CustomerID = uuid.Nil
	switch actor.Role {
	case model.RoleCustomer:
		return s.list(q, func(f model.OrderFilter) ([]model.Order, int, error) {
			return s.store.Orders().ListForCustomer(ctx, actor.UserID, f)
		})
	case model.RoleFarmer:
		return s.list(q, func(f model.OrderFilter) ([]model.Order, int, error) {
			return s.store.Orders().ListForFarmer(ctx, actor.UserID, f)
		})
	}
	return nil, model.Pagination{}, ErrOrderAccessDenied
}

func (s *OrderQueryService) ListFarmerOrders(ctx context.Context, actor model.Actor, q ListQuery) ([]model.Order, model.Pagination, error) {
	if err := AuthorizeFarmerView(actor).Err(); err != nil {
		return nil, model.Pagination{}, err
	}
	return s.ListOrders(ctx, actor, q)
}

func (s *OrderQueryService) ListUserOrders(ctx context.Context, actor model.Actor, userID uuid.UUID, q ListQuery) ([]model.Order, model.Pagination, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, model.Pagination{}, ErrUserNotFound
	}
	if err := AuthorizeUserOrders(actor, user).Err(); err != nil {
		return nil, model.Pagination{}, err
	}
	return s.ListOrders(ctx, model.Actor{UserID: user.ID, Role: user.Role}, q)
}

// ItemsForAnimal returns every order line referencing the animal, for its
// owning farmer only.
func (s *OrderQueryService) ItemsForAnimal(ctx context.Context, actor model.Actor, animalID uuid.UUID) (*model.Animal, []model.OrderItem, error) {
	animal, err := s.store.Animals().GetByID(ctx, animalID)
	if err != nil {
		return nil, nil, fmt.Errorf("get animal: %w", err)
	}
	if animal == nil {
		return nil, nil, ErrAnimalNotFound
	}
	if err := AuthorizeAnimalOwner(actor, animal).Err(); err != nil {
		return nil, nil, err
	}
	items, err := s.store.Orders().ItemsForAnimal(ctx, animalID)
	if err != nil {
		return nil, nil, fmt.Errorf("get order items: %w", err)
	}
	return animal, items, nil
}

// ListAll is the unscoped administrative listing. Callers gate it.
func (s *OrderQueryService) ListAll(ctx context.Context, q ListQuery) ([]model.Order, model.Pagination, error) {
	return s.list(q, func(f model.OrderFilter) ([]model.Order, int, error) {
		return s.store.Orders().List(ctx, f)
	})
}

func (s *OrderQueryService) list(q ListQuery, fetch func(model.OrderFilter) ([]model.Order, int, error)) ([]model.Order, model.Pagination, error) {
	q.Page = model.NewPage(q.Page.Number, q.Page.PerPage)
	f, err := q.filter()
	if err != nil {
		return nil, model.Pagination{}, err
	}
	orders, total, err := fetch(f)
	if err != nil {
		return nil, model.Pagination{}, fmt.Errorf("list orders: %w", err)
	}
	return orders, model.NewPagination(total, q.Page), nil
}
