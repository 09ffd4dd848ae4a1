package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/safeyatra/safeyatra/internal/pkg/models"
)

type historyRepo struct {
	db *sqlx.DB
}

// NewHistoryRepository creates the Postgres-backed fix archive.
func NewHistoryRepository(db *sqlx.DB) *historyRepo {
	return &historyRepo{db: db}
}

// AppendFix appends one fix to the archive.
func (r *historyRepo) AppendFix(ctx context.Context, userID, area string, fix models.Fix) error {
	query := `
		INSERT INTO location_history (
			user_id, area, latitude, longitude, accuracy, speed, heading,
			altitude, battery, tour_id, captured_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	var tourID *string
	if fix.TourID != "" {
		tourID = &fix.TourID
	}

	_, err := r.db.ExecContext(ctx, query,
		userID, area, fix.Latitude, fix.Longitude, fix.Accuracy, fix.Speed,
		fix.Heading, fix.Altitude, fix.Battery, tourID, fix.CapturedAt)
	if err != nil {
		return fmt.Errorf("failed to append fix: %w", err)
	}

	return nil
}

// RecentFixes returns the newest archived fixes for a device, newest first.
func (r *historyRepo) RecentFixes(ctx context.Context, userID string, limit int) ([]models.Fix, error) {
	query := `
		SELECT latitude, longitude, accuracy, speed, heading, altitude,
		       battery, tour_id, captured_at
		FROM location_history
		WHERE user_id = $1
		ORDER BY captured_at DESC
		LIMIT $2`

	rows, err := r.db.QueryxContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixes: %w", err)
	}
	defer rows.Close()

	var fixes []models.Fix
	for rows.Next() {
		var fix models.Fix
		var tourID *string
		if err := rows.Scan(
			&fix.Latitude, &fix.Longitude, &fix.Accuracy, &fix.Speed,
			&fix.Heading, &fix.Altitude, &fix.Battery, &tourID, &fix.CapturedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fix: %w", err)
		}
		if tourID != nil {
			fix.TourID = *tourID
		}
		fixes = append(fixes, fix)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fixes: %w", err)
	}

	return fixes, nil
}
