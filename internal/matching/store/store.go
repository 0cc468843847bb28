package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindPayer returns the payer of the longest alias contained in identifier, or ""
// when no alias matches.
func (s *Store) FindPayer(ctx context.Context, identifier string) (string, error) {
	query := `
		SELECT payer_id
		FROM payer_aliases
		WHERE $1 ILIKE '%' || identifier || '%'
		ORDER BY LENGTH(identifier) DESC, created_at DESC
		LIMIT 1
	`

	var payerID string

	err := s.db.QueryRowContext(ctx, query, identifier).Scan(&payerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding payer alias: %w", err)
	}

	return payerID, nil
}

func (s *Store) SaveAlias(ctx context.Context, identifier, payerID string) error {
	query := `
		INSERT INTO payer_aliases (identifier, payer_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (identifier) DO UPDATE SET payer_id = EXCLUDED.payer_id, created_at = NOW()
	`

	_, err := s.db.ExecContext(ctx, query, identifier, payerID)
	if err != nil {
		return fmt.Errorf("saving payer alias: %w", err)
	}

	return nil
}
