// internal/domain/reminder/reminder.go
package reminder

import (
	"database/sql"
	"errors"
	"time"
)

// MetaInitialTone is the contextMetadata key holding the tone generated at creation time.
const MetaInitialTone = "initial_tone"

// ErrNotFound is returned by repositories when the referenced reminder does not exist.
var ErrNotFound = errors.New("reminder not found")

// Metadata is an open, schema-less payload stored alongside a reminder.
type Metadata map[string]any

// Reminder is a single user reminder.
// Corresponds to the 'reminders' table.
type Reminder struct {
	ID             int64
	OwnerID        int64 // Telegram user ID of the owner, never reassigned
	Text           string
	ScheduledAt    time.Time // Next time the reminder should fire
	Completed      bool
	Status         ReactionStatus
	Metadata       Metadata
	LastNotifiedAt sql.NullTime // Set by the due sweep after a successful send
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InitialTone returns the tone stored at creation, or "" if none was stored.
func (r *Reminder) InitialTone() string {
	if r.Metadata == nil {
		return ""
	}
	tone, _ := r.Metadata[MetaInitialTone].(string)
	return tone
}

// Action is a lifecycle trigger applied to a reminder.
type Action string

const (
	ActionComplete Action = "complete"
	ActionSnooze   Action = "snooze"
	ActionIgnore   Action = "ignore"
	ActionDelay    Action = "delay" // Not emitted by any current trigger
)
