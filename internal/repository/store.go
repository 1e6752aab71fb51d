package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Tx exposes the repositories bound to a single unit of work.
type Tx interface {
	Users() UserRepository
	Animals() AnimalRepository
	Carts() CartRepository
	Orders() OrderRepository
	Outbox() OutboxRepository
}

// Store serves autocommit reads through its Tx methods and runs multi-statement
// writes through WithinTx. fn's writes commit together or not at all.
type Store interface {
	Tx
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

type repos struct{ db DBTX }

func (r repos) Users() UserRepository     { return NewUserRepository(r.db) }
func (r repos) Animals() AnimalRepository { return NewAnimalRepository(r.db) }
func (r repos) Carts() CartRepository     { return NewCartRepository(r.db) }
func (r repos) Orders() OrderRepository   { return NewOrderRepository(r.db) }
func (r repos) Outbox() OutboxRepository  { return NewOutboxRepository(r.db) }

type PgStore struct {
	repos
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{repos: repos{db: pool}, pool: pool}
}

func (s *PgStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(repos{db: tx})
	})
}
