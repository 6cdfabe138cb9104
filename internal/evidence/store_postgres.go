package evidence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	dErrors "trustlens/pkg/domain-errors"
)

// PostgresStore keeps the evidence log in Postgres. The payload is stored
// through the envelope encoding so each row round-trips to its concrete
// type; content_hash carries a unique index for append idempotency.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres pool is required")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Append(ctx context.Context, ev Evidence) error {
	if ev.FirmID == "" || ev.ContentHash == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "evidence firm id and content hash are required")
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode evidence: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO evidence (id, firm_id, kind, content_hash, confidence, source, collected_at, body)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (content_hash) DO NOTHING
	`, ev.ID, ev.FirmID, string(ev.Kind()), ev.ContentHash, ev.Confidence, string(ev.Source), ev.CollectedAt, body)
	if err != nil {
		return fmt.Errorf("append evidence: %w", err)
	}
	return nil
}

func (s *PostgresStore) ByFirm(ctx context.Context, firmID string) ([]Evidence, error) {
	return s.query(ctx, `
		SELECT body FROM evidence WHERE firm_id = $1 ORDER BY collected_at
	`, firmID)
}

func (s *PostgresStore) ByFirmAndKind(ctx context.Context, firmID string, kind Kind) ([]Evidence, error) {
	return s.query(ctx, `
		SELECT body FROM evidence WHERE firm_id = $1 AND kind = $2 ORDER BY collected_at
	`, firmID, string(kind))
}

func (s *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]Evidence, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query evidence: %w", err)
	}
	defer rows.Close()

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Evidence, error) {
		var body []byte
		if err := row.Scan(&body); err != nil {
			return Evidence{}, err
		}
		var ev Evidence
		if err := json.Unmarshal(body, &ev); err != nil {
			return Evidence{}, fmt.Errorf("decode evidence: %w", err)
		}
		return ev, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
