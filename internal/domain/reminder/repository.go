// internal/domain/reminder/repository.go
package reminder

import (
	"context"
	"time"
)

// Repository defines persistence operations for reminders.
type Repository interface {
	Create(ctx context.Context, r *Reminder) error
	GetByID(ctx context.Context, id int64) (*Reminder, error)
	// Update overwrites the mutable fields of an existing reminder. Last write wins.
	Update(ctx context.Context, r *Reminder) error
	// ListPendingByOwner returns the owner's reminders that are not completed, oldest schedule first.
	ListPendingByOwner(ctx context.Context, ownerID int64) ([]*Reminder, error)
	// ListDue returns uncompleted reminders in one of statuses whose schedule has passed
	// and that have not been notified since they were last scheduled.
	ListDue(ctx context.Context, now time.Time, statuses []ReactionStatus) ([]*Reminder, error)
	// MarkNotified sets only lastNotifiedAt, leaving every other column untouched.
	MarkNotified(ctx context.Context, id int64, at time.Time) error
}
