// internal/domain/activity/repository.go
package activity

import "context"

// Repository defines the append-only activity log.
type Repository interface {
	Append(ctx context.Context, rec *Record) error
	CountByType(ctx context.Context, ownerID int64, activityType string) (int, error)
}
