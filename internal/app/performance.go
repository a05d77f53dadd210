// internal/app/performance.go
package app

import (
	"context"
	"fmt"

	"reminder_assistant_bot/internal/domain/activity"
)

// Performance is the input snapshot for ToneEngine.
type Performance struct {
	// StreakCount is the lifetime number of completed reminders, not a consecutive-day streak.
	StreakCount int
	// FailureCount is reserved; nothing aggregates failures yet, so it is always 0.
	FailureCount int
}

// PerformanceAggregator derives Performance from the activity log.
type PerformanceAggregator struct {
	activities activity.Repository
}

func NewPerformanceAggregator(activities activity.Repository) *PerformanceAggregator {
	return &PerformanceAggregator{activities: activities}
}

func (a *PerformanceAggregator) Snapshot(ctx context.Context, ownerID int64) (Performance, error) {
	streak, err := a.activities.CountByType(ctx, ownerID, activity.TypeCompletedReminder)
	if err != nil {
		return Performance{}, fmt.Errorf("failed to count completed reminders for owner %d: %w", ownerID, err)
	}
	return Performance{StreakCount: streak}, nil
}
