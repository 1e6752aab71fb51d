package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/farmart/livestock-api/internal/model"
)

type AnimalRepository interface {
	Create(ctx context.Context, animal *model.Animal) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Animal, error)
	Update(ctx context.Context, animal *model.Animal) error
	// LockByIDs share-locks the given rows until the surrounding transaction
	// ends. Missing ids are absent from the result.
	LockByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Animal, error)
	SetAvailability(ctx context.Context, ids []uuid.UUID, available bool) (int64, error)
}

type pgAnimalRepo struct{ db DBTX }

func NewAnimalRepository(db DBTX) AnimalRepository {
	return &pgAnimalRepo{db: db}
}

const animalColumns = `id, farmer_id, name, type, breed, price, is_available, created_at, updated_at`

func (r *pgAnimalRepo) Create(ctx context.Context, animal *model.Animal) error {
	animal.ID = uuid.New()
	query := `INSERT INTO animals (id, farmer_id, name, type, breed, price, is_available, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW()) RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		animal.ID, animal.FarmerID, animal.Name, animal.Type, animal.Breed, animal.Price, animal.IsAvailable,
	).Scan(&animal.CreatedAt, &animal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create animal: %w", err)
	}
	return nil
}

func (r *pgAnimalRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Animal, error) {
	a := &model.Animal{}
	err := r.db.QueryRow(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id).Scan(
		&a.ID, &a.FarmerID, &a.Name, &a.Type, &a.Breed, &a.Price, &a.IsAvailable, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get animal: %w", err)
	}
	return a, nil
}

// Update writes descriptive fields and price. Availability is owned by order
// status changes and is not touched here.
func (r *pgAnimalRepo) Update(ctx context.Context, animal *model.Animal) error {
	query := `UPDATE animals SET name=$2, type=$3, breed=$4, price=$5, updated_at=NOW()
			  WHERE id=$1 RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		animal.ID, animal.Name, animal.Type, animal.Breed, animal.Price,
	).Scan(&animal.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update animal: %w", err)
	}
	return nil
}

func (r *pgAnimalRepo) LockByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Animal, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+animalColumns+` FROM animals WHERE id = ANY($1) ORDER BY id FOR SHARE`, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("lock animals: %w", err)
	}
	defer rows.Close()

	animals := make(map[uuid.UUID]*model.Animal, len(ids))
	for rows.Next() {
		a := &model.Animal{}
		if err := rows.Scan(&a.ID, &a.FarmerID, &a.Name, &a.Type, &a.Breed, &a.Price, &a.IsAvailable, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		animals[a.ID] = a
	}
	return animals, rows.Err()
}

func (r *pgAnimalRepo) SetAvailability(ctx context.Context, ids []uuid.UUID, available bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ct, err := r.db.Exec(ctx,
		`UPDATE animals SET is_available = $2, updated_at = NOW() WHERE id = ANY($1)`, ids, available,
	)
	if err != nil {
		return 0, fmt.Errorf("set availability: %w", err)
	}
	return ct.RowsAffected(), nil
}
