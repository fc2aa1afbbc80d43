package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"provreg/internal/registry/models"
	"provreg/pkg/platform/sentinel"
)

// Postgres persists records in a provenance_records table with a database
// sequence for identifier allocation. Postgres sequences never hand out the
// same value twice, which gives the no-reuse guarantee for free.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const schema = `
CREATE SEQUENCE IF NOT EXISTS provenance_record_id_seq;
CREATE TABLE IF NOT EXISTS provenance_records (
    id                    BIGINT PRIMARY KEY,
    asset_designation     TEXT NOT NULL,
    custodian             TEXT NOT NULL,
    binary_footprint      BIGINT NOT NULL,
    genesis_timestamp     TIMESTAMPTZ NOT NULL,
    descriptive_summary   TEXT NOT NULL,
    classification_labels TEXT[] NOT NULL
);`

// EnsureSchema creates the table and sequence when absent. Intended for dev
// and integration tests; production deployments run migrations out of band.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure provenance_records schema: %w", err)
	}
	return nil
}

func (s *Postgres) Register(ctx context.Context, rec *models.ProvenanceRecord) (uint64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin register tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uint64
	if err := tx.QueryRow(ctx, `SELECT nextval('provenance_record_id_seq')`).Scan(&id); err != nil {
		return 0, fmt.Errorf("allocate record id: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO provenance_records
		    (id, asset_designation, custodian, binary_footprint, genesis_timestamp, descriptive_summary, classification_labels)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, rec.AssetDesignation, rec.Custodian, rec.BinaryFootprint,
		rec.GenesisTimestamp, rec.DescriptiveSummary, rec.ClassificationLabels)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit register tx: %w", err)
	}
	rec.ID = id
	return id, nil
}

func (s *Postgres) FindByID(ctx context.Context, id uint64) (*models.ProvenanceRecord, error) {
	return scanRecord(s.pool.QueryRow(ctx, selectRecord+` WHERE id = $1`, id))
}

const selectRecord = `
	SELECT id, asset_designation, custodian, binary_footprint, genesis_timestamp, descriptive_summary, classification_labels
	FROM provenance_records`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.ProvenanceRecord, error) {
	var rec models.ProvenanceRecord
	err := row.Scan(&rec.ID, &rec.AssetDesignation, &rec.Custodian, &rec.BinaryFootprint,
		&rec.GenesisTimestamp, &rec.DescriptiveSummary, &rec.ClassificationLabels)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan record: %w", err)
	}
	return &rec, nil
}

// Execute holds a row lock (SELECT ... FOR UPDATE) across validate and
// mutate, the transactional equivalent of the in-memory store's mutex.
func (s *Postgres) Execute(
	ctx context.Context,
	id uint64,
	validate func(*models.ProvenanceRecord) error,
	mutate func(*models.ProvenanceRecord),
) (*models.ProvenanceRecord, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin execute tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rec, err := scanRecord(tx.QueryRow(ctx, selectRecord+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if err := validate(rec); err != nil {
		return nil, err
	}
	mutate(rec)

	_, err = tx.Exec(ctx, `
		UPDATE provenance_records
		SET asset_designation = $2, custodian = $3, binary_footprint = $4,
		    descriptive_summary = $5, classification_labels = $6
		WHERE id = $1`,
		rec.ID, rec.AssetDesignation, rec.Custodian, rec.BinaryFootprint,
		rec.DescriptiveSummary, rec.ClassificationLabels)
	if err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit execute tx: %w", err)
	}
	return rec, nil
}

func (s *Postgres) Delete(
	ctx context.Context,
	id uint64,
	validate func(*models.ProvenanceRecord) error,
) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rec, err := scanRecord(tx.QueryRow(ctx, selectRecord+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return err
	}
	if err := validate(rec); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM provenance_records WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return tx.Commit(ctx)
}

// Sequence reads the current sequence value. A sequence that has never been
// advanced reports 0, matching the freshly initialized registry.
func (s *Postgres) Sequence(ctx context.Context) (uint64, error) {
	var value uint64
	err := s.pool.QueryRow(ctx, `
		SELECT CASE WHEN is_called THEN last_value ELSE 0 END
		FROM provenance_record_id_seq`).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("read record sequence: %w", err)
	}
	return value, nil
}
