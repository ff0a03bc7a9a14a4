// Package repository provides PostgreSQL-backed persistence for onboarding
// state. All values live in a single onboarding_state table with one typed
// column per value kind, keyed by the condition author's chosen key.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/matt-riley/onboardz/migrations"
)

// PostgresStore implements store.Store and store.Incrementer backed by a
// pgxpool connection pool. Absent keys follow the store contract: integers
// read as 0, booleans as false, timestamps report ok=false.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a [PostgresStore] over an existing pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Connect opens a pgxpool for the given connection string and verifies
// connectivity with a ping.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Migrate applies the embedded goose migrations to the pool's database.
func Migrate(pool *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetInt(ctx context.Context, key string) (int64, error) {
	var value *int64
	err := s.pool.QueryRow(ctx, `
		SELECT int_value FROM onboarding_state WHERE key = $1
	`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get int %q: %w", key, err)
	}
	if value == nil {
		return 0, nil
	}

	return *value, nil
}

func (s *PostgresStore) SetInt(ctx context.Context, key string, value int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO onboarding_state (key, int_value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET int_value = EXCLUDED.int_value, updated_at = NOW()
	`, key, value)
	if err != nil {
		return fmt.Errorf("set int %q: %w", key, err)
	}

	return nil
}

// IncrInt adjusts the integer at key atomically in a single upsert, so
// concurrent handles on the same key never lose updates.
func (s *PostgresStore) IncrInt(ctx context.Context, key string, delta int64) (int64, error) {
	var value int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO onboarding_state (key, int_value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET int_value = COALESCE(onboarding_state.int_value, 0) + $2,
		    updated_at = NOW()
		RETURNING int_value
	`, key, delta).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("increment int %q: %w", key, err)
	}

	return value, nil
}

func (s *PostgresStore) GetBool(ctx context.Context, key string) (bool, error) {
	var value *bool
	err := s.pool.QueryRow(ctx, `
		SELECT bool_value FROM onboarding_state WHERE key = $1
	`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get bool %q: %w", key, err)
	}
	if value == nil {
		return false, nil
	}

	return *value, nil
}

func (s *PostgresStore) SetBool(ctx context.Context, key string, value bool) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO onboarding_state (key, bool_value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET bool_value = EXCLUDED.bool_value, updated_at = NOW()
	`, key, value)
	if err != nil {
		return fmt.Errorf("set bool %q: %w", key, err)
	}

	return nil
}

func (s *PostgresStore) GetTime(ctx context.Context, key string) (time.Time, bool, error) {
	var value *time.Time
	err := s.pool.QueryRow(ctx, `
		SELECT time_value FROM onboarding_state WHERE key = $1
	`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get time %q: %w", key, err)
	}
	if value == nil {
		return time.Time{}, false, nil
	}

	return *value, true, nil
}

func (s *PostgresStore) SetTime(ctx context.Context, key string, value time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO onboarding_state (key, time_value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET time_value = EXCLUDED.time_value, updated_at = NOW()
	`, key, value)
	if err != nil {
		return fmt.Errorf("set time %q: %w", key, err)
	}

	return nil
}
