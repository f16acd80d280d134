// internal/domain/lesson/repository.go
package lesson

import (
	"context"
	"time"
)

// Repository defines the read-only operations the insights core needs.
// The core borrows per-request snapshots and never writes lessons back.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]*Lesson, error)
	ListByUserInRange(ctx context.Context, userID int64, start, end time.Time) ([]*Lesson, error)
}
