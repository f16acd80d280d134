package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tutor_insights_bot/internal/domain/student"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Custom errors
var ErrStudentNotFound = fmt.Errorf("student not found")

// PostgresStudentRepository is the read-only roster store.
type PostgresStudentRepository struct {
	db *sql.DB
}

func NewPostgresStudentRepository(db *sql.DB) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db}
}

const studentColumns = `id, user_id, first_name, last_name,
               schedule_day, schedule_time, schedule_duration_minutes, schedule_rate_cents,
               schedule_change_from, new_schedule_day, new_schedule_time, new_schedule_duration_minutes, new_schedule_rate_cents,
               terminated_on, created_at, updated_at`

func scanStudent(scan func(dest ...any) error) (*student.Student, error) {
	s := &student.Student{}
	var day int
	err := scan(&s.ID, &s.UserID, &s.FirstName, &s.LastName,
		&day, &s.ScheduleTime, &s.ScheduleDurationMins, &s.ScheduleRateCents,
		&s.ScheduleChangeFrom, &s.NewScheduleDay, &s.NewScheduleTime, &s.NewScheduleDurationMin, &s.NewScheduleRateCents,
		&s.TerminatedOn, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.ScheduleDay = time.Weekday(day % 7)
	return s, nil
}

func (r *PostgresStudentRepository) ListByUser(ctx context.Context, userID int64) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + `
               FROM students
               WHERE user_id = $1
               ORDER BY first_name, last_name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	students := make([]*student.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}
	return students, nil
}

func (r *PostgresStudentRepository) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	query := `SELECT ` + studentColumns + `
               FROM students WHERE id = $1`
	s, err := scanStudent(r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("error getting student by ID: %w", err)
	}
	return s, nil
}
