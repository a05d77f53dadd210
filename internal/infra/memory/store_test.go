package memory

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"reminder_assistant_bot/internal/domain/activity"
	"reminder_assistant_bot/internal/domain/reminder"
	"reminder_assistant_bot/internal/infra/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreReminderRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	r := &reminder.Reminder{
		OwnerID:     10,
		Text:        "Buy milk",
		ScheduledAt: time.Now(),
		Metadata:    reminder.Metadata{reminder.MetaInitialTone: "hi"},
	}
	require.NoError(t, s.Create(ctx, r))
	require.NotZero(t, r.ID)
	assert.False(t, r.CreatedAt.IsZero())

	got, err := s.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Text)
	assert.Equal(t, "hi", got.InitialTone())

	got.Metadata["initial_tone"] = "mutated"
	again, err := s.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi", again.InitialTone(), "callers must not alias stored state")

	_, err = s.GetByID(ctx, 999)
	assert.ErrorIs(t, err, reminder.ErrNotFound)

	assert.ErrorIs(t, s.Update(ctx, &reminder.Reminder{ID: 999}), reminder.ErrNotFound)
}

func TestStoreListPendingByOwner(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	later := &reminder.Reminder{OwnerID: 1, Text: "later", ScheduledAt: base.Add(time.Hour)}
	sooner := &reminder.Reminder{OwnerID: 1, Text: "sooner", ScheduledAt: base}
	done := &reminder.Reminder{OwnerID: 1, Text: "done", ScheduledAt: base, Completed: true}
	other := &reminder.Reminder{OwnerID: 2, Text: "other", ScheduledAt: base}
	for _, r := range []*reminder.Reminder{later, sooner, done, other} {
		require.NoError(t, s.Create(ctx, r))
	}

	pending, err := s.ListPendingByOwner(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "sooner", pending[0].Text)
	assert.Equal(t, "later", pending[1].Text)
}

func TestStoreListDue(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	due := &reminder.Reminder{OwnerID: 1, Text: "due", ScheduledAt: now.Add(-time.Minute)}
	future := &reminder.Reminder{OwnerID: 1, Text: "future", ScheduledAt: now.Add(time.Minute)}
	ignored := &reminder.Reminder{OwnerID: 1, Text: "ignored", ScheduledAt: now.Add(-time.Minute), Status: reminder.StatusIgnored}
	notified := &reminder.Reminder{
		OwnerID:        1,
		Text:           "notified",
		ScheduledAt:    now.Add(-time.Hour),
		LastNotifiedAt: sql.NullTime{Time: now.Add(-30 * time.Minute), Valid: true},
	}
	resnoozed := &reminder.Reminder{
		OwnerID:        1,
		Text:           "resnoozed",
		ScheduledAt:    now.Add(-2 * time.Minute),
		Status:         reminder.StatusSnoozed,
		LastNotifiedAt: sql.NullTime{Time: now.Add(-time.Hour), Valid: true},
	}
	for _, r := range []*reminder.Reminder{due, future, ignored, notified, resnoozed} {
		require.NoError(t, s.Create(ctx, r))
	}

	got, err := s.ListDue(ctx, now, []reminder.ReactionStatus{reminder.StatusPending, reminder.StatusSnoozed})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "resnoozed", got[0].Text)
	assert.Equal(t, "due", got[1].Text)
}

func TestStoreActivities(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Append(ctx, &activity.Record{OwnerID: 1, Type: activity.TypeCompletedReminder}))
	}
	require.NoError(t, s.Append(ctx, &activity.Record{OwnerID: 1, Type: "note"}))
	require.NoError(t, s.Append(ctx, &activity.Record{OwnerID: 2, Type: activity.TypeCompletedReminder}))

	n, err := s.CountByType(ctx, 1, activity.TypeCompletedReminder)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Len(t, s.Activities(), 5)
}

func TestStoreMarkNotified(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	r := &reminder.Reminder{OwnerID: 1, Text: "due", ScheduledAt: now.Add(-time.Minute), Status: reminder.StatusSnoozed}
	require.NoError(t, s.Create(ctx, r))
	require.NoError(t, s.MarkNotified(ctx, r.ID, now))

	got, err := s.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, got.LastNotifiedAt.Valid)
	assert.Equal(t, reminder.StatusSnoozed, got.Status, "only the notification marker changes")

	due, err := s.ListDue(ctx, now, []reminder.ReactionStatus{reminder.StatusSnoozed})
	require.NoError(t, err)
	assert.Empty(t, due)

	assert.ErrorIs(t, s.MarkNotified(ctx, 404, now), reminder.ErrNotFound)
}

func TestStoreRepositoryContract(t *testing.T) {
	storetest.RunRepositoryContract(t, func(*testing.T) storetest.Repos {
		s := NewStore()
		return storetest.Repos{Reminders: s, Activities: s}
	})
}
