// Package storetest holds a behavioral test suite shared by every repository
// implementation, so the memory and Postgres stores stay interchangeable.
package storetest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"reminder_assistant_bot/internal/domain/activity"
	"reminder_assistant_bot/internal/domain/reminder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Repos is one freshly emptied pair of repositories.
type Repos struct {
	Reminders  reminder.Repository
	Activities activity.Repository
}

// RunRepositoryContract runs the suite. newRepos is called once per subtest and
// must return empty repositories.
func RunRepositoryContract(t *testing.T, newRepos func(t *testing.T) Repos) {
	t.Run("GetByIDMissing", func(t *testing.T) {
		repos := newRepos(t)
		_, err := repos.Reminders.GetByID(context.Background(), 987654)
		assert.ErrorIs(t, err, reminder.ErrNotFound)
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		repos := newRepos(t)
		err := repos.Reminders.Update(context.Background(), &reminder.Reminder{ID: 987654, Text: "x", ScheduledAt: time.Now()})
		assert.ErrorIs(t, err, reminder.ErrNotFound)
	})

	t.Run("MarkNotifiedMissing", func(t *testing.T) {
		repos := newRepos(t)
		err := repos.Reminders.MarkNotified(context.Background(), 987654, time.Now())
		assert.ErrorIs(t, err, reminder.ErrNotFound)
	})

	t.Run("CreateUpdateRoundTrip", func(t *testing.T) {
		ctx := context.Background()
		repos := newRepos(t)
		at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

		r := &reminder.Reminder{
			OwnerID:     7,
			Text:        "Tomar agua",
			ScheduledAt: at,
			Metadata:    reminder.Metadata{reminder.MetaInitialTone: "¡Hidrátate!"},
		}
		require.NoError(t, repos.Reminders.Create(ctx, r))
		require.NotZero(t, r.ID)

		got, err := repos.Reminders.GetByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, "Tomar agua", got.Text)
		assert.Equal(t, reminder.StatusPending, got.Status)
		assert.True(t, at.Equal(got.ScheduledAt))
		assert.Equal(t, "¡Hidrátate!", got.InitialTone())
		assert.False(t, got.LastNotifiedAt.Valid)

		got.Status = reminder.StatusSnoozed
		got.ScheduledAt = at.Add(20 * time.Minute)
		require.NoError(t, repos.Reminders.Update(ctx, got))

		again, err := repos.Reminders.GetByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, reminder.StatusSnoozed, again.Status)
		assert.True(t, at.Add(20*time.Minute).Equal(again.ScheduledAt))
		assert.False(t, again.Completed)
	})

	t.Run("ListPendingByOwner", func(t *testing.T) {
		ctx := context.Background()
		repos := newRepos(t)
		base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

		for _, r := range []*reminder.Reminder{
			{OwnerID: 1, Text: "later", ScheduledAt: base.Add(time.Hour)},
			{OwnerID: 1, Text: "sooner", ScheduledAt: base},
			{OwnerID: 1, Text: "done", ScheduledAt: base, Completed: true, Status: reminder.StatusCompleted},
			{OwnerID: 2, Text: "other", ScheduledAt: base},
		} {
			require.NoError(t, repos.Reminders.Create(ctx, r))
		}

		pending, err := repos.Reminders.ListPendingByOwner(ctx, 1)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, "sooner", pending[0].Text)
		assert.Equal(t, "later", pending[1].Text)
	})

	t.Run("ListDueAndMarkNotified", func(t *testing.T) {
		ctx := context.Background()
		repos := newRepos(t)
		now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

		due := &reminder.Reminder{OwnerID: 1, Text: "due", ScheduledAt: now.Add(-time.Minute)}
		snoozed := &reminder.Reminder{
			OwnerID:        1,
			Text:           "snoozed",
			ScheduledAt:    now.Add(-2 * time.Minute),
			Status:         reminder.StatusSnoozed,
			LastNotifiedAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
		}
		for _, r := range []*reminder.Reminder{
			due,
			snoozed,
			{OwnerID: 1, Text: "future", ScheduledAt: now.Add(time.Minute)},
			{OwnerID: 1, Text: "ignored", ScheduledAt: now.Add(-time.Minute), Status: reminder.StatusIgnored},
			{OwnerID: 1, Text: "done", ScheduledAt: now.Add(-time.Minute), Completed: true, Status: reminder.StatusCompleted},
			{
				OwnerID:        1,
				Text:           "notified",
				ScheduledAt:    now.Add(-time.Hour),
				LastNotifiedAt: sql.NullTime{Time: now.Add(-30 * time.Minute), Valid: true},
			},
		} {
			require.NoError(t, repos.Reminders.Create(ctx, r))
		}

		statuses := []reminder.ReactionStatus{reminder.StatusPending, reminder.StatusSnoozed}
		got, err := repos.Reminders.ListDue(ctx, now, statuses)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "snoozed", got[0].Text)
		assert.Equal(t, "due", got[1].Text)

		require.NoError(t, repos.Reminders.MarkNotified(ctx, due.ID, now))
		marked, err := repos.Reminders.GetByID(ctx, due.ID)
		require.NoError(t, err)
		assert.True(t, marked.LastNotifiedAt.Valid)
		assert.Equal(t, reminder.StatusPending, marked.Status)

		got, err = repos.Reminders.ListDue(ctx, now, statuses)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "snoozed", got[0].Text)
	})

	t.Run("ActivityCount", func(t *testing.T) {
		ctx := context.Background()
		repos := newRepos(t)
		at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

		for i := 0; i < 3; i++ {
			rec := &activity.Record{
				OwnerID:     1,
				Type:        activity.TypeCompletedReminder,
				Description: "Completó: x",
				OccurredAt:  at,
				ReminderID:  sql.NullInt64{Int64: int64(i + 1), Valid: true},
				Metadata:    map[string]any{"action": "complete"},
			}
			require.NoError(t, repos.Activities.Append(ctx, rec))
			assert.NotZero(t, rec.ID)
		}
		require.NoError(t, repos.Activities.Append(ctx, &activity.Record{OwnerID: 1, Type: "note", OccurredAt: at}))
		require.NoError(t, repos.Activities.Append(ctx, &activity.Record{OwnerID: 2, Type: activity.TypeCompletedReminder, OccurredAt: at}))

		n, err := repos.Activities.CountByType(ctx, 1, activity.TypeCompletedReminder)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		n, err = repos.Activities.CountByType(ctx, 3, activity.TypeCompletedReminder)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
