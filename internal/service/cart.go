package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/farmart/livestock-api/internal/dto"
	"github.com/farmart/livestock-api/internal/model"
	"github.com/farmart/livestock-api/internal/repository"
)

type CartService struct {
	store repository.Store
}

func NewCartService(store repository.Store) *CartService {
	return &CartService{store: store}
}

func (s *CartService) GetCart(ctx context.Context, actor model.Actor) (*dto.CartResponse, error) {
	if err := AuthorizeCart(actor).Err(); err != nil {
		return nil, err
	}
	items, err := s.store.Carts().ListItems(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return toCartResponse(items), nil
}

// AddItem puts an available animal into the cart. Adding an animal already in
// the cart increments its quantity.
func (s *CartService) AddItem(ctx context.Context, actor model.Actor, req dto.AddCartItemRequest) (*dto.CartItemResponse, error) {
	if err := AuthorizeCart(actor).Err(); err != nil {
		return nil, err
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	animal, err := s.store.Animals().GetByID(ctx, req.AnimalID)
	if err != nil {
		return nil, fmt.Errorf("get animal: %w", err)
	}
	if animal == nil {
		return nil, ErrAnimalNotFound
	}
	if !animal.IsAvailable {
		return nil, unavailable(animal)
	}

	item := &model.CartItem{CustomerID: actor.UserID, AnimalID: animal.ID, Quantity: quantity}
	if err := s.store.Carts().AddItem(ctx, item); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}
	item.Animal = animal
	resp := toCartItemResponse(*item)
	return &resp, nil
}

func (s *CartService) UpdateItem(ctx context.Context, actor model.Actor, itemID uuid.UUID, quantity int) (*dto.CartItemResponse, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	var item *model.CartItem
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		item, err = s.ownedItem(ctx, tx, actor, itemID)
		if err != nil {
			return err
		}
		item.Quantity = quantity
		if err := tx.Carts().UpdateItem(ctx, item); err != nil {
			return fmt.Errorf("update cart item: %w", err)
		}
		item.Animal, err = tx.Animals().GetByID(ctx, item.AnimalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	resp := toCartItemResponse(*item)
	return &resp, nil
}

func (s *CartService) DeleteItem(ctx context.Context, actor model.Actor, itemID uuid.UUID) error {
	return s.store.WithinTx(ctx, func(tx repository.Tx) error {
		if _, err := s.ownedItem(ctx, tx, actor, itemID); err != nil {
			return err
		}
		if err := tx.Carts().DeleteItem(ctx, itemID); err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}
		return nil
	})
}

func (s *CartService) Clear(ctx context.Context, actor model.Actor) error {
	if err := AuthorizeCart(actor).Err(); err != nil {
		return err
	}
	if _, err := s.store.Carts().Clear(ctx, actor.UserID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *CartService) ownedItem(ctx context.Context, tx repository.Tx, actor model.Actor, itemID uuid.UUID) (*model.CartItem, error) {
	if err := AuthorizeCart(actor).Err(); err != nil {
		return nil, err
	}
	item, err := tx.Carts().GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	if err := AuthorizeCartItem(actor, item).Err(); err != nil {
		return nil, err
	}
	return item, nil
}

func toCartResponse(items []model.CartItem) *dto.CartResponse {
	resp := &dto.CartResponse{
		Items:       make([]dto.CartItemResponse, 0, len(items)),
		TotalAmount: model.CartTotal(items),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toCartItemResponse(item))
		resp.TotalItems += item.Quantity
	}
	return resp
}

func toCartItemResponse(item model.CartItem) dto.CartItemResponse {
	return dto.CartItemResponse{
		ID:       item.ID,
		AnimalID: item.AnimalID,
		Quantity: item.Quantity,
		Animal:   dto.ToAnimalSummary(item.Animal),
	}
}
