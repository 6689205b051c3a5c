package authz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresAllowlist answers verifier capability checks from the verifiers table.
type PostgresAllowlist struct {
	db *sql.DB
}

func NewPostgresAllowlist(db *sql.DB) *PostgresAllowlist {
	return &PostgresAllowlist{db: db}
}

func (a *PostgresAllowlist) IsVerifier(ctx context.Context, subject string) (bool, error) {
	var exists bool
	err := a.db.QueryRowContext(ctx,
		`SELECT true FROM verifiers WHERE subject = $1 AND revoked_at IS NULL`,
		subject,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check verifier capability: %w", err)
	}
	return exists, nil
}

// Seed inserts the bootstrap verifier subjects, ignoring ones already present.
func (a *PostgresAllowlist) Seed(ctx context.Context, subjects []string) error {
	for _, subject := range subjects {
		if subject == "" {
			continue
		}
		_, err := a.db.ExecContext(ctx,
			`INSERT INTO verifiers (subject) VALUES ($1) ON CONFLICT (subject) DO NOTHING`,
			subject,
		)
		if err != nil {
			return fmt.Errorf("seed verifier %s: %w", subject, err)
		}
	}
	return nil
}
