// internal/app/lifecycle.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"reminder_assistant_bot/internal/domain/activity"
	"reminder_assistant_bot/internal/domain/reminder"

	"github.com/sirupsen/logrus"
)

var (
	ErrUnsupportedAction = errors.New("unsupported lifecycle action")
	ErrEmptyReminderText = errors.New("reminder text must not be empty")
)

// Transition describes one applied lifecycle action.
type Transition struct {
	Reminder *reminder.Reminder
	Previous reminder.ReactionStatus
	Action   reminder.Action
	Activity *activity.Record // Non-nil only for actions that log activity
	// Performance is recomputed after a completion; zero otherwise.
	Performance Performance
}

// Lifecycle applies actions to reminders. Every action is accepted from every state.
type Lifecycle struct {
	reminders   reminder.Repository
	activities  activity.Repository
	perf        *PerformanceAggregator
	snoozeDelay time.Duration
	now         func() time.Time
	logger      *logrus.Entry
}

func NewLifecycle(
	reminders reminder.Repository,
	activities activity.Repository,
	perf *PerformanceAggregator,
	snoozeDelay time.Duration,
	logger *logrus.Entry,
) *Lifecycle {
	return &Lifecycle{
		reminders:   reminders,
		activities:  activities,
		perf:        perf,
		snoozeDelay: snoozeDelay,
		now:         time.Now,
		logger:      logger,
	}
}

// SnoozeDelay is how far a snooze pushes the schedule from the moment of snoozing.
func (l *Lifecycle) SnoozeDelay() time.Duration {
	return l.snoozeDelay
}

// Create stores a new pending reminder.
func (l *Lifecycle) Create(ctx context.Context, ownerID int64, text string, scheduledAt time.Time, meta reminder.Metadata) (*reminder.Reminder, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyReminderText
	}

	r := &reminder.Reminder{
		OwnerID:     ownerID,
		Text:        text,
		ScheduledAt: scheduledAt,
		Status:      reminder.StatusPending,
		Metadata:    meta,
	}
	if err := l.reminders.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	l.logger.WithFields(logrus.Fields{"reminder_id": r.ID, "owner_id": ownerID}).Info("Reminder created")
	return r, nil
}

// Apply runs action against reminder id. A missing reminder yields reminder.ErrNotFound
// and nothing is written.
func (l *Lifecycle) Apply(ctx context.Context, id int64, action reminder.Action) (*Transition, error) {
	switch action {
	case reminder.ActionComplete, reminder.ActionSnooze, reminder.ActionIgnore, reminder.ActionDelay:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAction, action)
	}

	logCtx := l.logger.WithFields(logrus.Fields{"reminder_id": id, "action": action})

	r, err := l.reminders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reminder.ErrNotFound) {
			logCtx.Warn("Reminder not found. Possibly a stale callback.")
		}
		return nil, err
	}

	now := l.now()
	t := &Transition{Reminder: r, Previous: r.Status, Action: action}

	switch action {
	case reminder.ActionComplete:
		r.Completed = true
		r.Status = reminder.StatusCompleted
	case reminder.ActionSnooze:
		r.ScheduledAt = now.Add(l.snoozeDelay)
		r.Status = reminder.StatusSnoozed
	case reminder.ActionIgnore:
		r.Status = reminder.StatusIgnored
	case reminder.ActionDelay:
		r.Status = reminder.StatusDelayed
	}

	if err := l.reminders.Update(ctx, r); err != nil {
		logCtx.WithError(err).Error("Failed to update reminder")
		return nil, fmt.Errorf("failed to update reminder %d: %w", id, err)
	}

	if action == reminder.ActionComplete {
		rec := &activity.Record{
			OwnerID:     r.OwnerID,
			Type:        activity.TypeCompletedReminder,
			Description: fmt.Sprintf("Completó: %s", r.Text),
			OccurredAt:  now,
			ReminderID:  sql.NullInt64{Int64: r.ID, Valid: true},
			Metadata: map[string]any{
				"action":    string(action),
				"timestamp": now.Format(time.RFC3339),
			},
		}
		if err := l.activities.Append(ctx, rec); err != nil {
			logCtx.WithError(err).Error("Failed to append completion activity")
			return nil, fmt.Errorf("failed to log completion of reminder %d: %w", id, err)
		}
		t.Activity = rec

		perf, err := l.perf.Snapshot(ctx, r.OwnerID)
		if err != nil {
			return nil, err
		}
		t.Performance = perf
	}

	logCtx.WithFields(logrus.Fields{
		"from": t.Previous.String(),
		"to":   r.Status.String(),
	}).Info("Reminder transition applied")
	return t, nil
}
