package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"trapscan/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS trapped_bonds (
	source      TEXT NOT NULL,
	error_key   TEXT NOT NULL,
	bond_id     TEXT NOT NULL,
	is_null     BOOLEAN NOT NULL,
	check_error TEXT NOT NULL DEFAULT '',
	checked_at  TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (source, error_key, bond_id)
)`

// Store provides Postgres persistence for bond checks.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the trapped_bonds table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

const upsertBondCheck = `
INSERT INTO trapped_bonds (
	source, error_key, bond_id, is_null, check_error, checked_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (source, error_key, bond_id)
DO UPDATE SET
	is_null = EXCLUDED.is_null,
	check_error = EXCLUDED.check_error,
	checked_at = EXCLUDED.checked_at,
	updated_at = now()`

// PutBondChecks inserts or updates the latest check for each bond.
func (s *Store) PutBondChecks(ctx context.Context, checks []model.BondCheck) error {
	if len(checks) == 0 {
		return nil
	}
	batch := bondCheckBatch(checks)

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, c := range checks {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert trapped bond %s/%s: %w", c.Source, c.BondID, err)
		}
	}
	return nil
}

func bondCheckBatch(checks []model.BondCheck) *pgx.Batch {
	batch := &pgx.Batch{}
	for _, c := range checks {
		batch.Queue(upsertBondCheck,
			c.Source,
			c.Key,
			c.BondID,
			c.Null,
			c.Error,
			checkedAt(c.CheckedAt),
		)
	}
	return batch
}

func checkedAt(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Now().UTC()
	}
	return ts
}
