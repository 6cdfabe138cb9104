package firm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"trustlens/pkg/sentinel"
)

// PostgresStore reads firm rows maintained by the onboarding process.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an existing database handle.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Firm, error) {
	query := `
		SELECT firm_id, display_name, country, website
		FROM firms
		WHERE firm_id = $1
	`
	var f Firm
	err := s.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.Name, &f.Country, &f.Website)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find firm: %w", err)
	}
	return &f, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]Firm, error) {
	query := `
		SELECT firm_id, display_name, country, website
		FROM firms
		ORDER BY firm_id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list firms: %w", err)
	}
	defer rows.Close()

	var out []Firm
	for rows.Next() {
		var f Firm
		if err := rows.Scan(&f.ID, &f.Name, &f.Country, &f.Website); err != nil {
			return nil, fmt.Errorf("scan firm: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
