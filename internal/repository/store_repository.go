package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// StoreRepository tracks the store version. Every mutation bumps it; report
// caching keys off the version so derived views are recomputed whenever the
// raw collections change.
type StoreRepository struct {
	db *sqlx.DB
}

// NewStoreRepository constructs a StoreRepository.
func NewStoreRepository(db *sqlx.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// Version reads the current store version.
func (r *StoreRepository) Version(ctx context.Context) (int64, error) {
	var version int64
	if err := r.db.GetContext(ctx, &version, "SELECT version FROM store_meta"); err != nil {
		return 0, fmt.Errorf("read store version: %w", err)
	}
	return version, nil
}

// Bump increments and returns the store version.
func (r *StoreRepository) Bump(ctx context.Context) (int64, error) {
	var version int64
	if err := r.db.GetContext(ctx, &version, "UPDATE store_meta SET version = version + 1 RETURNING version"); err != nil {
		return 0, fmt.Errorf("bump store version: %w", err)
	}
	return version, nil
}
