package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tutor_insights_bot/internal/domain/lesson"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresLessonRepository is the read-only lesson store the insights core
// borrows snapshots from. No write path: lessons are owned by the studio app.
type PostgresLessonRepository struct {
	db *sql.DB
}

func NewPostgresLessonRepository(db *sql.DB) *PostgresLessonRepository {
	return &PostgresLessonRepository{db: db}
}

const lessonColumns = `id, student_id, lesson_date, duration_minutes, amount_cents, completed, created_at, updated_at`

func scanLesson(scan func(dest ...any) error) (*lesson.Lesson, error) {
	l := &lesson.Lesson{}
	err := scan(&l.ID, &l.StudentID, &l.Date, &l.DurationMinutes, &l.AmountCents, &l.Completed, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *PostgresLessonRepository) ListByUser(ctx context.Context, userID int64) ([]*lesson.Lesson, error) {
	query := `SELECT ` + lessonColumns + `
               FROM lessons
               WHERE user_id = $1
               ORDER BY lesson_date, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing lessons: %w", err)
	}
	defer rows.Close()

	lessons := make([]*lesson.Lesson, 0)
	for rows.Next() {
		l, err := scanLesson(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("error scanning lesson: %w", err)
		}
		lessons = append(lessons, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lessons: %w", err)
	}
	return lessons, nil
}

func (r *PostgresLessonRepository) ListByUserInRange(ctx context.Context, userID int64, start, end time.Time) ([]*lesson.Lesson, error) {
	query := `SELECT ` + lessonColumns + `
               FROM lessons
               WHERE user_id = $1 AND lesson_date BETWEEN $2 AND $3
               ORDER BY lesson_date, id`

	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error listing lessons in range: %w", err)
	}
	defer rows.Close()

	lessons := make([]*lesson.Lesson, 0)
	for rows.Next() {
		l, err := scanLesson(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("error scanning lesson in range: %w", err)
		}
		lessons = append(lessons, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lessons in range: %w", err)
	}
	return lessons, nil
}
