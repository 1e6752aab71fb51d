package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmart/livestock-api/internal/model"
)

type CartRepository interface {
	ListItems(ctx context.Context, customerID uuid.UUID) ([]model.CartItem, error)
	GetItem(ctx context.Context, itemID uuid.UUID) (*model.CartItem, error)
	// AddItem inserts the line or increments the quantity of an existing
	// (customer, animal) line.
	AddItem(ctx context.Context, item *model.CartItem) error
	UpdateItem(ctx context.Context, item *model.CartItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	Clear(ctx context.Context, customerID uuid.UUID) (int64, error)
}

type pgCartRepo struct{ db DBTX }

func NewCartRepository(db DBTX) CartRepository {
	return &pgCartRepo{db: db}
}

func (r *pgCartRepo) ListItems(ctx context.Context, customerID uuid.UUID) ([]model.CartItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ci.id, ci.customer_id, ci.animal_id, ci.quantity, ci.created_at, ci.updated_at,
		        a.id, a.farmer_id, a.name, a.type, a.breed, a.price, a.is_available, a.created_at, a.updated_at
		 FROM cart_items ci
		 JOIN animals a ON a.id = ci.animal_id
		 WHERE ci.customer_id = $1
		 ORDER BY ci.created_at, ci.id`, customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		a := &model.Animal{}
		if err := rows.Scan(
			&item.ID, &item.CustomerID, &item.AnimalID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
			&a.ID, &a.FarmerID, &a.Name, &a.Type, &a.Breed, &a.Price, &a.IsAvailable, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		item.Animal = a
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *pgCartRepo) GetItem(ctx context.Context, itemID uuid.UUID) (*model.CartItem, error) {
	item := &model.CartItem{}
	err := r.db.QueryRow(ctx,
		`SELECT id, customer_id, animal_id, quantity, created_at, updated_at FROM cart_items WHERE id = $1`, itemID,
	).Scan(&item.ID, &item.CustomerID, &item.AnimalID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return item, nil
}

func (r *pgCartRepo) AddItem(ctx context.Context, item *model.CartItem) error {
	item.ID = uuid.New()
	query := `INSERT INTO cart_items (id, customer_id, animal_id, quantity, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())
			  ON CONFLICT (customer_id, animal_id) DO UPDATE SET quantity = cart_items.quantity + $4, updated_at = NOW()
			  RETURNING id, quantity, created_at, updated_at`
	err := r.db.QueryRow(ctx, query, item.ID, item.CustomerID, item.AnimalID, item.Quantity).
		Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *pgCartRepo) UpdateItem(ctx context.Context, item *model.CartItem) error {
	err := r.db.QueryRow(ctx,
		`UPDATE cart_items SET quantity = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		item.ID, item.Quantity,
	).Scan(&item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return nil
}

func (r *pgCartRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

func (r *pgCartRepo) Clear(ctx context.Context, customerID uuid.UUID) (int64, error) {
	ct, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE customer_id = $1`, customerID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return ct.RowsAffected(), nil
}
