package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ops-portal/internal/models"
)

// DigestRunRepo is a PostgreSQL implementation of the repository.DigestRunRepository interface
type DigestRunRepo struct {
	db *sql.DB
}

// NewDigestRunRepository creates a new DigestRunRepo
func NewDigestRunRepository(db *sql.DB) *DigestRunRepo {
	return &DigestRunRepo{db: db}
}

// Create records a digest run
func (r *DigestRunRepo) Create(ctx context.Context, run *models.DigestRun) error {
	query := `INSERT INTO digest_runs (id, period_start, period_end, status, error)
	         VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, run.ID, run.PeriodStart, run.PeriodEnd, run.Status, run.Error)
	if err != nil {
		return fmt.Errorf("failed to create digest run: %w", err)
	}

	return nil
}

// GetLatest returns the most recent digest run, or nil when no digest has
// ever been sent
func (r *DigestRunRepo) GetLatest(ctx context.Context) (*models.DigestRun, error) {
	query := `SELECT id, period_start, period_end, status, error, created_at
	         FROM digest_runs ORDER BY created_at DESC LIMIT 1`

	run := &models.DigestRun{}
	err := r.db.QueryRowContext(ctx, query).Scan(
		&run.ID,
		&run.PeriodStart,
		&run.PeriodEnd,
		&run.Status,
		&run.Error,
		&run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest digest run: %w", err)
	}

	return run, nil
}
