package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	dErrors "trustlens/pkg/domain-errors"

	"trustlens/internal/scoring"
)

// PostgresStore persists configurations and snapshots in Postgres. The
// configuration body is stored as JSONB alongside the columns needed for
// lookups; snapshots keep their pillar breakdown the same way.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store over the given pool.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres pool is required")
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) PublishConfig(ctx context.Context, cfg *scoring.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	stored := *cfg
	stored.IsActive = false
	body, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("encode scoring config: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO scoring_configs (version_key, description, body, is_active)
		VALUES ($1, $2, $3, FALSE)
		ON CONFLICT (version_key) DO NOTHING
	`, cfg.VersionKey, cfg.Description, body)
	if err != nil {
		return fmt.Errorf("publish scoring config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dErrors.New(dErrors.CodeConflict, fmt.Sprintf("scoring config version %s already published", cfg.VersionKey))
	}
	return nil
}

func (s *PostgresStore) ConfigByVersion(ctx context.Context, versionKey string) (*scoring.Config, error) {
	return s.scanConfig(ctx, `
		SELECT body, is_active FROM scoring_configs WHERE version_key = $1
	`, versionKey)
}

func (s *PostgresStore) ActiveConfig(ctx context.Context) (*scoring.Config, error) {
	cfg, err := s.scanConfig(ctx, `
		SELECT body, is_active FROM scoring_configs WHERE is_active = TRUE
	`)
	if err != nil && dErrors.CodeOf(err) == dErrors.CodeNotFound {
		return nil, dErrors.New(dErrors.CodeNotFound, "no active scoring config")
	}
	return cfg, err
}

func (s *PostgresStore) scanConfig(ctx context.Context, query string, args ...any) (*scoring.Config, error) {
	var (
		body     []byte
		isActive bool
	)
	err := s.pool.QueryRow(ctx, query, args...).Scan(&body, &isActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, dErrors.New(dErrors.CodeNotFound, "scoring config not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load scoring config: %w", err)
	}

	var cfg scoring.Config
	if err := json.Unmarshal(body, &cfg); err != nil {
		return nil, fmt.Errorf("decode scoring config: %w", err)
	}
	cfg.IsActive = isActive
	return &cfg, nil
}

func (s *PostgresStore) ListConfigs(ctx context.Context) ([]*scoring.Config, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT body, is_active FROM scoring_configs ORDER BY published_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list scoring configs: %w", err)
	}
	defer rows.Close()

	var out []*scoring.Config
	for rows.Next() {
		var (
			body     []byte
			isActive bool
		)
		if err := rows.Scan(&body, &isActive); err != nil {
			return nil, fmt.Errorf("scan scoring config: %w", err)
		}
		var cfg scoring.Config
		if err := json.Unmarshal(body, &cfg); err != nil {
			return nil, fmt.Errorf("decode scoring config: %w", err)
		}
		cfg.IsActive = isActive
		out = append(out, &cfg)
	}
	return out, rows.Err()
}

// Activate swaps the active version in one transaction: every version is
// deactivated, then the named one activated. Readers on the committed state
// never observe zero or two active versions.
func (s *PostgresStore) Activate(ctx context.Context, versionKey string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin activation: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE scoring_configs SET is_active = FALSE WHERE is_active = TRUE`); err != nil {
		return fmt.Errorf("deactivate scoring configs: %w", err)
	}

	tag, err := tx.Exec(ctx, `UPDATE scoring_configs SET is_active = TRUE WHERE version_key = $1`, versionKey)
	if err != nil {
		return fmt.Errorf("activate scoring config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("scoring config version %s not found", versionKey))
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap *scoring.Snapshot) error {
	pillars, err := json.Marshal(snap.PillarScores)
	if err != nil {
		return fmt.Errorf("encode pillar scores: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO score_snapshots (id, firm_id, version_key, score, pillar_scores, firm_na_rate, review_flag, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, snap.ID, snap.FirmID, snap.VersionKey, snap.Score, pillars, snap.FirmNARate, snap.ReviewFlag, snap.ComputedAt)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *PostgresStore) LatestSnapshot(ctx context.Context, firmID string) (*scoring.Snapshot, error) {
	snap, err := s.scanSnapshot(s.pool.QueryRow(ctx, `
		SELECT id, firm_id, version_key, score, pillar_scores, firm_na_rate, review_flag, computed_at
		FROM score_snapshots
		WHERE firm_id = $1
		ORDER BY computed_at DESC
		LIMIT 1
	`, firmID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no snapshots for firm %s", firmID))
	}
	return snap, err
}

func (s *PostgresStore) SnapshotsByFirm(ctx context.Context, firmID string) ([]*scoring.Snapshot, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, firm_id, version_key, score, pillar_scores, firm_na_rate, review_flag, computed_at
		FROM score_snapshots
		WHERE firm_id = $1
		ORDER BY computed_at DESC
	`, firmID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*scoring.Snapshot
	for rows.Next() {
		snap, err := s.scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *PostgresStore) scanSnapshot(row pgx.Row) (*scoring.Snapshot, error) {
	var (
		snap    scoring.Snapshot
		pillars []byte
	)
	err := row.Scan(&snap.ID, &snap.FirmID, &snap.VersionKey, &snap.Score, &pillars, &snap.FirmNARate, &snap.ReviewFlag, &snap.ComputedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(pillars, &snap.PillarScores); err != nil {
		return nil, fmt.Errorf("decode pillar scores: %w", err)
	}
	return &snap, nil
}
