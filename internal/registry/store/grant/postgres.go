package grant

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps the access matrix alongside the record table, for
// deployments that want a single durable store.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS access_grants (
    record_id BIGINT NOT NULL,
    accessor  TEXT NOT NULL,
    PRIMARY KEY (record_id, accessor)
);`

// EnsureSchema creates the table when absent. Dev and integration-test use.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure access_grants schema: %w", err)
	}
	return nil
}

func (s *Postgres) Grant(ctx context.Context, recordID uint64, accessor string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO access_grants (record_id, accessor)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, recordID, accessor)
	if err != nil {
		return fmt.Errorf("insert grant: %w", err)
	}
	return nil
}

func (s *Postgres) Revoke(ctx context.Context, recordID uint64, accessor string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM access_grants WHERE record_id = $1 AND accessor = $2`, recordID, accessor)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	return nil
}

func (s *Postgres) Authorized(ctx context.Context, recordID uint64, accessor string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM access_grants WHERE record_id = $1 AND accessor = $2)`,
		recordID, accessor).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check grant: %w", err)
	}
	return exists, nil
}
