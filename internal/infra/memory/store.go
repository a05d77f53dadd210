// Package memory keeps reminders and activities in process memory.
// It backs the "memory" storage driver and the application tests.
package memory

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"reminder_assistant_bot/internal/domain/activity"
	"reminder_assistant_bot/internal/domain/reminder"
)

// Store implements reminder.Repository and activity.Repository.
type Store struct {
	mu         sync.Mutex
	now        func() time.Time
	reminders  map[int64]*reminder.Reminder
	activities []*activity.Record
	nextRemID  int64
	nextActID  int64
}

func NewStore() *Store {
	return &Store{
		now:       time.Now,
		reminders: make(map[int64]*reminder.Reminder),
	}
}

// SetClock overrides the clock used for createdAt/updatedAt stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Create(_ context.Context, r *reminder.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextRemID++
	now := s.now()
	r.ID = s.nextRemID
	r.CreatedAt = now
	r.UpdatedAt = now
	s.reminders[r.ID] = cloneReminder(r)
	return nil
}

func (s *Store) GetByID(_ context.Context, id int64) (*reminder.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reminders[id]
	if !ok {
		return nil, reminder.ErrNotFound
	}
	return cloneReminder(r), nil
}

func (s *Store) Update(_ context.Context, r *reminder.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.reminders[r.ID]
	if !ok {
		return reminder.ErrNotFound
	}
	r.CreatedAt = existing.CreatedAt
	r.OwnerID = existing.OwnerID
	r.UpdatedAt = s.now()
	s.reminders[r.ID] = cloneReminder(r)
	return nil
}

func (s *Store) ListPendingByOwner(_ context.Context, ownerID int64) ([]*reminder.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*reminder.Reminder, 0)
	for _, r := range s.reminders {
		if r.OwnerID == ownerID && !r.Completed {
			out = append(out, cloneReminder(r))
		}
	}
	sortBySchedule(out)
	return out, nil
}

func (s *Store) ListDue(_ context.Context, now time.Time, statuses []reminder.ReactionStatus) ([]*reminder.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	want := make(map[reminder.ReactionStatus]bool, len(statuses))
	for _, st := range statuses {
		want[st] = true
	}

	out := make([]*reminder.Reminder, 0)
	for _, r := range s.reminders {
		if r.Completed || !want[r.Status] || r.ScheduledAt.After(now) {
			continue
		}
		if r.LastNotifiedAt.Valid && !r.LastNotifiedAt.Time.Before(r.ScheduledAt) {
			continue
		}
		out = append(out, cloneReminder(r))
	}
	sortBySchedule(out)
	return out, nil
}

func (s *Store) MarkNotified(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reminders[id]
	if !ok {
		return reminder.ErrNotFound
	}
	r.LastNotifiedAt = sql.NullTime{Time: at, Valid: true}
	r.UpdatedAt = s.now()
	return nil
}

func (s *Store) Append(_ context.Context, rec *activity.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextActID++
	rec.ID = s.nextActID
	rec.CreatedAt = s.now()
	cp := *rec
	cp.Metadata = cloneMap(rec.Metadata)
	s.activities = append(s.activities, &cp)
	return nil
}

func (s *Store) CountByType(_ context.Context, ownerID int64, activityType string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, a := range s.activities {
		if a.OwnerID == ownerID && a.Type == activityType {
			count++
		}
	}
	return count, nil
}

// Activities returns a snapshot of the activity log in append order.
func (s *Store) Activities() []activity.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]activity.Record, len(s.activities))
	for i, a := range s.activities {
		out[i] = *a
	}
	return out
}

// ReminderCount returns the number of stored reminders.
func (s *Store) ReminderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reminders)
}

func sortBySchedule(rs []*reminder.Reminder) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].ScheduledAt.Equal(rs[j].ScheduledAt) {
			return rs[i].ID < rs[j].ID
		}
		return rs[i].ScheduledAt.Before(rs[j].ScheduledAt)
	})
}

func cloneReminder(r *reminder.Reminder) *reminder.Reminder {
	cp := *r
	cp.Metadata = reminder.Metadata(cloneMap(r.Metadata))
	return &cp
}

func cloneMap[M ~map[string]any](m M) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
