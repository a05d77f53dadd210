package scheduler

import (
	"context"
	"fmt"
	"time"

	"reminder_assistant_bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const dueRunTimeout = 1 * time.Minute

// ReminderScheduler triggers the due-reminder sweep on a cron schedule.
type ReminderScheduler struct {
	cronEngine   *cron.Cron
	notifService app.NotificationService
	logger       *logrus.Entry
	cronSpecDue  string // e.g. "* * * * *" (every minute)
}

func NewReminderScheduler(notifService app.NotificationService, logger *logrus.Entry, cronSpecDue string) *ReminderScheduler {
	return &ReminderScheduler{
		cronEngine: cron.New(
			cron.WithLocation(time.Local),
			// A slow sweep must not overlap the next one.
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		notifService: notifService,
		logger:       logger,
		cronSpecDue:  cronSpecDue,
	}
}

// Start registers the sweep job and starts the cron engine.
func (s *ReminderScheduler) Start() error {
	s.logger.Info("Starting reminder scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecDue, s.runDueSweep)
	if err != nil {
		return fmt.Errorf("could not add due reminder cron job %q: %w", s.cronSpecDue, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecDue).Info("Reminder scheduler started")
	return nil
}

func (s *ReminderScheduler) runDueSweep() {
	s.logger.Debug("Cron job triggered for due reminders")
	ctx, cancel := context.WithTimeout(context.Background(), dueRunTimeout)
	defer cancel()
	if err := s.notifService.ProcessDueReminders(ctx); err != nil {
		s.logger.WithError(err).Error("Error during due reminder processing")
	}
}

// Stop halts scheduling and waits for a running sweep to finish.
func (s *ReminderScheduler) Stop() {
	s.logger.Info("Stopping reminder scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Reminder scheduler gracefully stopped")
}
