// internal/domain/activity/activity.go
package activity

import (
	"database/sql"
	"time"
)

// TypeCompletedReminder is logged once per successful "complete" transition.
const TypeCompletedReminder = "completed_reminder"

// Record is an append-only entry in a user's activity log.
// Corresponds to the 'activities' table.
type Record struct {
	ID          int64
	OwnerID     int64
	Type        string // Free-form tag, e.g. TypeCompletedReminder
	Description string
	OccurredAt  time.Time
	ReminderID  sql.NullInt64 // Non-owning back-reference
	Metadata    map[string]any
	CreatedAt   time.Time
}
