package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"workledger/internal/registry/models"
	"workledger/internal/sentinel"
)

// PostgresStore persists work records in PostgreSQL. Id allocation locks the
// single counter row inside the insert transaction, so ids stay unique and
// gap-free under concurrent submission; a rolled-back insert never burns an id.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Add(ctx context.Context, record *models.WorkRecord) (uint64, error) {
	if record == nil {
		return 0, fmt.Errorf("work record is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin add record tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var id int64
	err = tx.QueryRowContext(ctx, `
		UPDATE registry_counter SET next_id = next_id + 1
		WHERE singleton
		RETURNING next_id - 1
	`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("allocate record id: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO work_records (id, owner, employer_name, title, description, start_date, end_date, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, false, $8)
	`,
		id,
		record.Owner,
		record.EmployerName,
		record.Title,
		record.Description,
		record.StartDate,
		nullString(record.EndDate),
		record.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert work record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit add record: %w", err)
	}
	return uint64(id), nil
}

func (s *PostgresStore) Get(ctx context.Context, id uint64) (*models.WorkRecord, error) {
	query := `
		SELECT id, owner, employer_name, title, description, start_date, end_date, verified, verifier, created_at, verified_at
		FROM work_records
		WHERE id = $1
	`
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, int64(id)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find work record: %w", err)
	}
	return record, nil
}

func (s *PostgresStore) Verify(ctx context.Context, id uint64, verifier string, at time.Time) (*models.WorkRecord, error) {
	query := `
		UPDATE work_records
		SET verified = true, verifier = $2, verified_at = $3
		WHERE id = $1 AND verified = false
		RETURNING id, owner, employer_name, title, description, start_date, end_date, verified, verifier, created_at, verified_at
	`
	record, err := scanRecord(s.db.QueryRowContext(ctx, query, int64(id), verifier, at))
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("verify work record: %w", err)
	}

	// Zero rows updated: distinguish a missing record from a lost race.
	// Verification is one-way, so a record seen verified here stays verified.
	var verified bool
	err = s.db.QueryRowContext(ctx, `SELECT verified FROM work_records WHERE id = $1`, int64(id)).Scan(&verified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("inspect work record: %w", err)
	}
	if verified {
		return nil, sentinel.ErrAlreadyVerified
	}
	return nil, fmt.Errorf("verify work record %d: update matched no rows", id)
}

func (s *PostgresStore) Total(ctx context.Context) (uint64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT next_id FROM registry_counter WHERE singleton`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("read record counter: %w", err)
	}
	return uint64(total), nil
}

type recordRow interface {
	Scan(dest ...any) error
}

func scanRecord(row recordRow) (*models.WorkRecord, error) {
	var record models.WorkRecord
	var id int64
	var endDate sql.NullString
	var verifier sql.NullString
	var verifiedAt sql.NullTime
	err := row.Scan(
		&id,
		&record.Owner,
		&record.EmployerName,
		&record.Title,
		&record.Description,
		&record.StartDate,
		&endDate,
		&record.Verified,
		&verifier,
		&record.CreatedAt,
		&verifiedAt,
	)
	if err != nil {
		return nil, err
	}
	record.ID = uint64(id)
	if endDate.Valid {
		record.EndDate = endDate.String
	}
	if verifier.Valid {
		record.Verifier = verifier.String
	}
	if verifiedAt.Valid {
		record.VerifiedAt = &verifiedAt.Time
	}
	return &record, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
