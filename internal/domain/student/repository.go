// internal/domain/student/repository.go
package student

import "context"

// Repository defines the read-only roster operations the insights core needs.
type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]*Student, error)
	GetByID(ctx context.Context, id int64) (*Student, error)
}
