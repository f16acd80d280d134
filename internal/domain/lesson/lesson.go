// internal/domain/lesson/lesson.go
package lesson

import "time"

// Lesson represents one scheduled (and possibly completed) tutoring session.
// Corresponds to the 'lessons' table. Date carries no time component and is
// immutable once created; Completed toggles independently as attendance is
// marked. Amount and duration are never negative.
type Lesson struct {
	ID              int64
	StudentID       int64
	Date            time.Time // date-only, UTC midnight
	DurationMinutes int
	AmountCents     int64 // integer minor currency units
	Completed       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Hours is the lesson duration expressed in hours.
func (l *Lesson) Hours() float64 {
	return float64(l.DurationMinutes) / 60.0
}
