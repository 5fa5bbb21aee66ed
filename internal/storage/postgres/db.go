package postgres

import (
	"context"
	"fmt"

	"github.com/gatelog/server/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository bundles the per-table repositories behind one shared pool. The
// pool is the only cross-request shared state in the process; every query
// acquires and releases a connection independently.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) (*Repository, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres repository: pool is nil")
	}
	return &Repository{pool: pool}, nil
}

func (r *Repository) Access() *AccessRepository {
	return &AccessRepository{pool: r.pool}
}

func (r *Repository) Roster() *RosterRepository {
	return &RosterRepository{pool: r.pool}
}

// NewPool builds the process-wide connection pool. MaxConnections keeps the
// pool small; edge devices produce a trickle of traffic, not a flood.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConnections)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return pool, nil
}
