// internal/domain/student/student.go
package student

import (
	"database/sql"
	"time"
)

// Student represents a student on the studio roster.
// Corresponds to the 'students' table. The default schedule fields describe the
// recurring weekly slot; the ScheduleChange* fields, when set, replace them on
// and after ScheduleChangeFrom, so at most one schedule is active at a time.
type Student struct {
	ID        int64
	UserID    int64 // owning tutor/tenant
	FirstName string
	LastName  string

	ScheduleDay          time.Weekday
	ScheduleTime         string // "16:00"
	ScheduleDurationMins int
	ScheduleRateCents    int64 // per hour

	ScheduleChangeFrom     sql.NullTime
	NewScheduleDay         sql.NullInt64
	NewScheduleTime        sql.NullString
	NewScheduleDurationMin sql.NullInt64
	NewScheduleRateCents   sql.NullInt64

	TerminatedOn sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName is the display name ("First Last").
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// RateCentsOn returns the hourly rate in effect on the given date, honouring a
// pending schedule change once its effective date is reached.
func (s *Student) RateCentsOn(date time.Time) int64 {
	if s.ScheduleChangeFrom.Valid && !date.Before(s.ScheduleChangeFrom.Time) && s.NewScheduleRateCents.Valid {
		return s.NewScheduleRateCents.Int64
	}
	return s.ScheduleRateCents
}

// ActiveOn reports whether the student had not yet terminated on the given date.
func (s *Student) ActiveOn(date time.Time) bool {
	return !s.TerminatedOn.Valid || date.Before(s.TerminatedOn.Time)
}
