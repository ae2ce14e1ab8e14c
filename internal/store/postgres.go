package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the snapshot in a single-row key-value table. Still a
// one-slot store — Postgres just makes the slot durable across hosts.
type PostgresStore struct {
	pool *pgxpool.Pool
	key  string
}

// NewPostgresStore creates a PostgreSQL-backed store. An empty key falls
// back to DefaultKey.
func NewPostgresStore(pool *pgxpool.Pool, key string) *PostgresStore {
	if key == "" {
		key = DefaultKey
	}
	return &PostgresStore{pool: pool, key: key}
}

// Migrate creates the snapshot table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS ledger_snapshots (
			key        TEXT PRIMARY KEY,
			snapshot   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("migrate ledger_snapshots: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, snapshot []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO ledger_snapshots (key, snapshot, updated_at)
		 VALUES ($1, $2::JSONB, now())
		 ON CONFLICT (key) DO UPDATE
		 SET snapshot = EXCLUDED.snapshot, updated_at = now()`,
		s.key, snapshot,
	)
	if err != nil {
		return fmt.Errorf("postgres save %s: %w", s.key, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT snapshot FROM ledger_snapshots WHERE key = $1`, s.key).
		Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("postgres load %s: %w", s.key, err)
	}
	return data, nil
}
