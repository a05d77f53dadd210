// internal/infra/database/postgres_reminder_repository.go
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"reminder_assistant_bot/internal/domain/reminder"

	"github.com/lib/pq" // For pq.Array and driver registration
)

const reminderColumns = `id, owner_id, text, scheduled_at, completed, reaction_status, context_metadata, last_notified_at, created_at, updated_at`

type PostgresReminderRepository struct {
	db *sql.DB
}

func NewPostgresReminderRepository(db *sql.DB) *PostgresReminderRepository {
	return &PostgresReminderRepository{db: db}
}

func (r *PostgresReminderRepository) Create(ctx context.Context, rem *reminder.Reminder) error {
	meta, err := encodeMetadata(rem.Metadata)
	if err != nil {
		return err
	}
	query := `INSERT INTO reminders (owner_id, text, scheduled_at, completed, reaction_status, context_metadata, last_notified_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7)
               RETURNING id, created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query,
		rem.OwnerID, rem.Text, rem.ScheduledAt, rem.Completed, rem.Status, meta, rem.LastNotifiedAt,
	).Scan(&rem.ID, &rem.CreatedAt, &rem.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating reminder: %w", err)
	}
	return nil
}

func (r *PostgresReminderRepository) GetByID(ctx context.Context, id int64) (*reminder.Reminder, error) {
	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`
	rem, err := scanReminder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reminder.ErrNotFound
		}
		return nil, fmt.Errorf("error getting reminder by ID: %w", err)
	}
	return rem, nil
}

// Update writes the mutable columns. Concurrent updates to the same row are last-write-wins.
func (r *PostgresReminderRepository) Update(ctx context.Context, rem *reminder.Reminder) error {
	meta, err := encodeMetadata(rem.Metadata)
	if err != nil {
		return err
	}
	query := `UPDATE reminders
               SET text = $1, scheduled_at = $2, completed = $3, reaction_status = $4,
                   context_metadata = $5, last_notified_at = $6, updated_at = NOW()
               WHERE id = $7
               RETURNING updated_at`
	err = r.db.QueryRowContext(ctx, query,
		rem.Text, rem.ScheduledAt, rem.Completed, rem.Status, meta, rem.LastNotifiedAt, rem.ID,
	).Scan(&rem.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reminder.ErrNotFound
		}
		return fmt.Errorf("error updating reminder: %w", err)
	}
	return nil
}

func (r *PostgresReminderRepository) ListPendingByOwner(ctx context.Context, ownerID int64) ([]*reminder.Reminder, error) {
	query := `SELECT ` + reminderColumns + `
               FROM reminders
               WHERE owner_id = $1 AND completed = FALSE
               ORDER BY scheduled_at, id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying pending reminders: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (r *PostgresReminderRepository) ListDue(ctx context.Context, now time.Time, statuses []reminder.ReactionStatus) ([]*reminder.Reminder, error) {
	if len(statuses) == 0 {
		return []*reminder.Reminder{}, nil
	}
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}

	query := `SELECT ` + reminderColumns + `
               FROM reminders
               WHERE completed = FALSE
                 AND reaction_status = ANY($1::varchar[])
                 AND scheduled_at <= $2
                 AND (last_notified_at IS NULL OR last_notified_at < scheduled_at)
               ORDER BY scheduled_at ASC, id` // Oldest first
	rows, err := r.db.QueryContext(ctx, query, pq.Array(names), now)
	if err != nil {
		return nil, fmt.Errorf("error querying due reminders: %w", err)
	}
	defer rows.Close()
	return scanReminders(rows)
}

func (r *PostgresReminderRepository) MarkNotified(ctx context.Context, id int64, at time.Time) error {
	query := `UPDATE reminders SET last_notified_at = $1, updated_at = NOW() WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("error marking reminder %d notified: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows for reminder %d: %w", id, err)
	}
	if n == 0 {
		return reminder.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(row rowScanner) (*reminder.Reminder, error) {
	rem := reminder.Reminder{}
	var meta []byte
	if err := row.Scan(
		&rem.ID, &rem.OwnerID, &rem.Text, &rem.ScheduledAt, &rem.Completed, &rem.Status,
		&meta, &rem.LastNotifiedAt, &rem.CreatedAt, &rem.UpdatedAt,
	); err != nil {
		return nil, err
	}
	decoded, err := decodeMetadata(meta)
	if err != nil {
		return nil, fmt.Errorf("error decoding metadata of reminder %d: %w", rem.ID, err)
	}
	rem.Metadata = decoded
	return &rem, nil
}

// Helper to scan multiple rows
func scanReminders(rows *sql.Rows) ([]*reminder.Reminder, error) {
	reminders := make([]*reminder.Reminder, 0)
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reminder row: %w", err)
		}
		reminders = append(reminders, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder rows: %w", err)
	}
	return reminders, nil
}

// encodeMetadata maps a nil map to SQL NULL.
func encodeMetadata[M ~map[string]any](m M) (any, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("error encoding metadata: %w", err)
	}
	return b, nil
}

func decodeMetadata(b []byte) (map[string]any, error) {
	if len(b) == 0 {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
