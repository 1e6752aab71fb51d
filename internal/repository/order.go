package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmart/livestock-api/internal/model"
)

type OrderRepository interface {
	// Create inserts the order row and its items. Call it inside WithinTx.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// GetByIDForUpdate row-locks the order until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, order *model.Order) error
	ItemsForOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error)
	ItemsForAnimal(ctx context.Context, animalID uuid.UUID) ([]model.OrderItem, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, f model.OrderFilter) ([]model.Order, int, error)
	ListForFarmer(ctx context.Context, farmerID uuid.UUID, f model.OrderFilter) ([]model.Order, int, error)
	List(ctx context.Context, f model.OrderFilter) ([]model.Order, int, error)
}

type pgOrderRepo struct{ db DBTX }

func NewOrderRepository(db DBTX) OrderRepository {
	return &pgOrderRepo{db: db}
}

func (r *pgOrderRepo) Create(ctx context.Context, order *model.Order) error {
	order.ID = uuid.New()
	err := r.db.QueryRow(ctx,
		`INSERT INTO orders (id, customer_id, status, total_amount, farmer_notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING created_at, updated_at`,
		order.ID, order.CustomerID, order.Status, order.TotalAmount, order.FarmerNotes,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].OrderID = order.ID
		_, err = r.db.Exec(ctx,
			`INSERT INTO order_items (id, order_id, animal_id, quantity, price) VALUES ($1, $2, $3, $4, $5)`,
			order.Items[i].ID, order.ID, order.Items[i].AnimalID, order.Items[i].Quantity, order.Items[i].Price,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	order.ItemsCount = len(order.Items)
	return nil
}

func (r *pgOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.get(ctx, id, "")
}

func (r *pgOrderRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *pgOrderRepo) get(ctx context.Context, id uuid.UUID, lock string) (*model.Order, error) {
	order := &model.Order{}
	err := r.db.QueryRow(ctx,
		`SELECT id, customer_id, status, total_amount, farmer_notes, created_at, updated_at
		 FROM orders WHERE id = $1`+lock, id,
	).Scan(&order.ID, &order.CustomerID, &order.Status, &order.TotalAmount, &order.FarmerNotes, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	order.Items, err = r.ItemsForOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.ItemsCount = len(order.Items)
	return order, nil
}

func (r *pgOrderRepo) UpdateStatus(ctx context.Context, order *model.Order) error {
	err := r.db.QueryRow(ctx,
		`UPDATE orders SET status = $2, farmer_notes = $3, total_amount = $4, updated_at = NOW()
		 WHERE id = $1 RETURNING updated_at`,
		order.ID, order.Status, order.FarmerNotes, order.TotalAmount,
	).Scan(&order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

const orderItemSelect = `SELECT oi.id, oi.order_id, oi.animal_id, oi.quantity, oi.price,
	a.id, a.farmer_id, a.name, a.type, a.breed, a.price, a.is_available, a.created_at, a.updated_at
	FROM order_items oi
	JOIN animals a ON a.id = oi.animal_id`

func (r *pgOrderRepo) ItemsForOrder(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	return r.queryItems(ctx, orderItemSelect+` WHERE oi.order_id = $1 ORDER BY oi.id`, orderID)
}

func (r *pgOrderRepo) ItemsForAnimal(ctx context.Context, animalID uuid.UUID) ([]model.OrderItem, error) {
	return r.queryItems(ctx, orderItemSelect+` WHERE oi.animal_id = $1 ORDER BY oi.id`, animalID)
}

func (r *pgOrderRepo) queryItems(ctx context.Context, query string, arg any) ([]model.OrderItem, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		a := &model.Animal{}
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.AnimalID, &item.Quantity, &item.Price,
			&a.ID, &a.FarmerID, &a.Name, &a.Type, &a.Breed, &a.Price, &a.IsAvailable, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		item.FarmerID = a.FarmerID
		item.Animal = a
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *pgOrderRepo) ListForCustomer(ctx context.Context, customerID uuid.UUID, f model.OrderFilter) ([]model.Order, int, error) {
	return r.list(ctx, `o.customer_id = $1`, []any{customerID}, f)
}

// ListForFarmer returns each order containing at least one of the farmer's
// animals exactly once, however many of their items it holds.
func (r *pgOrderRepo) ListForFarmer(ctx context.Context, farmerID uuid.UUID, f model.OrderFilter) ([]model.Order, int, error) {
	return r.list(ctx,
		`EXISTS (SELECT 1 FROM order_items oi JOIN animals a ON a.id = oi.animal_id
		         WHERE oi.order_id = o.id AND a.farmer_id = $1)`,
		[]any{farmerID}, f)
}

func (r *pgOrderRepo) List(ctx context.Context, f model.OrderFilter) ([]model.Order, int, error) {
	if f.CustomerID != uuid.Nil {
		return r.ListForCustomer(ctx, f.CustomerID, f)
	}
	return r.list(ctx, `TRUE`, nil, f)
}

func (r *pgOrderRepo) list(ctx context.Context, cond string, args []any, f model.OrderFilter) ([]model.Order, int, error) {
	n := len(args)
	where := fmt.Sprintf("%s AND ($%d = '' OR o.status = $%d)", cond, n+1, n+1)
	args = append(args, string(f.Status))

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders o WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`SELECT o.id, o.customer_id, o.status, o.total_amount, o.farmer_notes, o.created_at, o.updated_at,
		(SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id)
		FROM orders o
		WHERE %s
		ORDER BY o.created_at DESC, o.id LIMIT $%d OFFSET $%d`, where, n+2, n+3)

	rows, err := r.db.Query(ctx, query, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Status, &o.TotalAmount, &o.FarmerNotes, &o.CreatedAt, &o.UpdatedAt, &o.ItemsCount); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}
