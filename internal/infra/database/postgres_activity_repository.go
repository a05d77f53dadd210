// internal/infra/database/postgres_activity_repository.go
package database

import (
	"context"
	"database/sql"
	"fmt"

	"reminder_assistant_bot/internal/domain/activity"
)

type PostgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

// Append inserts a log entry. Entries are never updated afterwards.
func (r *PostgresActivityRepository) Append(ctx context.Context, rec *activity.Record) error {
	meta, err := encodeMetadata(rec.Metadata)
	if err != nil {
		return err
	}
	query := `INSERT INTO activities (owner_id, activity_type, description, occurred_at, reminder_id, metadata_info)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, created_at`
	err = r.db.QueryRowContext(ctx, query,
		rec.OwnerID, rec.Type, rec.Description, rec.OccurredAt, rec.ReminderID, meta,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("error appending activity: %w", err)
	}
	return nil
}

func (r *PostgresActivityRepository) CountByType(ctx context.Context, ownerID int64, activityType string) (int, error) {
	query := `SELECT COUNT(*) FROM activities WHERE owner_id = $1 AND activity_type = $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, ownerID, activityType).Scan(&count); err != nil {
		// COUNT(*) always returns a row, so any error here is a real DB failure.
		return 0, fmt.Errorf("error counting activities: %w", err)
	}
	return count, nil
}
