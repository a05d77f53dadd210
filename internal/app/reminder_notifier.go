// internal/app/reminder_notifier.go
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reminder_assistant_bot/internal/domain/reminder"
	domainTelegram "reminder_assistant_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// NotificationService sends reminders whose schedule has come due.
type NotificationService interface {
	ProcessDueReminders(ctx context.Context) error
}

// markNotifiedTimeout bounds the write that records a delivered reminder. It runs
// detached from the sweep context so a delivered message is always recorded.
const markNotifiedTimeout = 5 * time.Second

// dueStatuses are the states in which a reminder still fires.
var dueStatuses = []reminder.ReactionStatus{reminder.StatusPending, reminder.StatusSnoozed}

// ReminderNotifier implements NotificationService.
type ReminderNotifier struct {
	reminders      reminder.Repository
	perf           *PerformanceAggregator
	tone           *ToneEngine
	telegramClient domainTelegram.Client
	snoozeDelay    time.Duration
	now            func() time.Time
	logger         *logrus.Entry
}

func NewReminderNotifier(
	reminders reminder.Repository,
	perf *PerformanceAggregator,
	tone *ToneEngine,
	tc domainTelegram.Client,
	snoozeDelay time.Duration,
	logger *logrus.Entry,
) *ReminderNotifier {
	return &ReminderNotifier{
		reminders:      reminders,
		perf:           perf,
		tone:           tone,
		telegramClient: tc,
		snoozeDelay:    snoozeDelay,
		now:            time.Now,
		logger:         logger,
	}
}

// ProcessDueReminders sends every due reminder once. A failed send is retried on the
// next run; a store failure or a cancelled ctx stops the run before the next send.
func (n *ReminderNotifier) ProcessDueReminders(ctx context.Context) error {
	now := n.now()
	due, err := n.reminders.ListDue(ctx, now, dueStatuses)
	if err != nil {
		n.logger.WithError(err).Error("Failed to list due reminders")
		return fmt.Errorf("failed to list due reminders: %w", err)
	}
	if len(due) == 0 {
		n.logger.Debug("No due reminders")
		return nil
	}
	n.logger.WithField("count", len(due)).Info("Processing due reminders")

	sent := 0
	for _, r := range due {
		logCtx := n.logger.WithFields(logrus.Fields{"reminder_id": r.ID, "owner_id": r.OwnerID})
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("due reminder run interrupted after %d of %d: %w", sent, len(due), err)
		}

		perf, err := n.perf.Snapshot(ctx, r.OwnerID)
		if err != nil {
			return err
		}
		advice := n.tone.EvaluateContext(ctx, map[string]any{
			"reminder":      r.Text,
			"streak_count":  perf.StreakCount,
			"failure_count": perf.FailureCount,
			"status":        r.Status.String(),
			"scheduled_at":  r.ScheduledAt.Format(time.RFC3339),
		})

		if err := n.telegramClient.SendMessage(r.OwnerID, dueMessage(r, advice), ReminderButtons(r.ID, n.snoozeDelay)); err != nil {
			logCtx.WithError(err).Error("Failed to send due reminder")
			continue
		}

		if err := n.markNotified(ctx, r.ID, now); err != nil {
			logCtx.WithError(err).Error("Failed to mark reminder as notified")
			return fmt.Errorf("failed to mark reminder %d notified: %w", r.ID, err)
		}
		sent++
		logCtx.WithField("urgency", advice.Urgency).Info("Due reminder sent")
	}

	n.logger.WithFields(logrus.Fields{"sent": sent, "due": len(due)}).Info("Due reminder run finished")
	return nil
}

// markNotified records a delivery on a context the sweep's cancellation cannot reach.
func (n *ReminderNotifier) markNotified(ctx context.Context, id int64, at time.Time) error {
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markNotifiedTimeout)
	defer cancel()
	return n.reminders.MarkNotified(markCtx, id, at)
}

func dueMessage(r *reminder.Reminder, advice ContextAdvice) string {
	var b strings.Builder
	if advice.Urgency == UrgencyHigh {
		b.WriteString("🔴 ")
	}
	fmt.Fprintf(&b, "⏰ Recordatorio: %s", r.Text)
	if tone := r.InitialTone(); tone != "" {
		b.WriteString("\n\n")
		b.WriteString(tone)
	}
	if advice.Advice != "" {
		b.WriteString("\n💡 ")
		b.WriteString(advice.Advice)
	}
	return b.String()
}
