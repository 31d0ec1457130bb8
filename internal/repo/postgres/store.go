package postgres

import (
	"context"

	"github.com/geocoder89/adminpanel/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store serves both the admins and users tables from one pool. Every
// logical op is timed through Prom when one is supplied.
type Store struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewStore(pool *pgxpool.Pool, prom *observability.Prom) *Store {
	return &Store{pool: pool, prom: prom}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
