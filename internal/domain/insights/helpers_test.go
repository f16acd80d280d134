package insights

import (
	"time"

	"tutor_insights_bot/internal/domain/lesson"
	"tutor_insights_bot/internal/domain/student"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mkStudent(id int64, first, last string, rateCents int64) *student.Student {
	return &student.Student{
		ID:                   id,
		UserID:               1,
		FirstName:            first,
		LastName:             last,
		ScheduleDay:          time.Tuesday,
		ScheduleTime:         "16:00",
		ScheduleDurationMins: 60,
		ScheduleRateCents:    rateCents,
	}
}

func mkLesson(id, studentID int64, date time.Time, mins int, cents int64, completed bool) *lesson.Lesson {
	return &lesson.Lesson{
		ID:              id,
		StudentID:       studentID,
		Date:            date,
		DurationMinutes: mins,
		AmountCents:     cents,
		Completed:       completed,
	}
}

// studioDataset is the canonical fixture: four students with a full January
// 2026 of lessons (one missed), plus a little 2025 history for comparisons.
// Today is 2026-02-21.
//
// January 2026 completed totals: Anna $240.00 (4x60min Mondays), Ben $292.50
// (3x90min Tuesdays), Leo $100.00 (2 of 3 Wednesdays, one missed), Mia $90.00
// (1x60min Thursday). Grand total $722.50 across 10 completed lessons.
func studioDataset() *Dataset {
	students := []*student.Student{
		mkStudent(1, "Anna", "Lee", 6000),
		mkStudent(2, "Ben", "Ortiz", 6500),
		mkStudent(3, "Leo", "Chen", 5000),
		mkStudent(4, "Mia", "Chen", 9000),
	}
	lessons := []*lesson.Lesson{
		// Anna: Mondays.
		mkLesson(1, 1, day(2026, time.January, 5), 60, 6000, true),
		mkLesson(2, 1, day(2026, time.January, 12), 60, 6000, true),
		mkLesson(3, 1, day(2026, time.January, 19), 60, 6000, true),
		mkLesson(4, 1, day(2026, time.January, 26), 60, 6000, true),
		// Ben: Tuesdays, 90 minutes.
		mkLesson(5, 2, day(2026, time.January, 6), 90, 9750, true),
		mkLesson(6, 2, day(2026, time.January, 13), 90, 9750, true),
		mkLesson(7, 2, day(2026, time.January, 20), 90, 9750, true),
		// Leo: Wednesdays, one missed.
		mkLesson(8, 3, day(2026, time.January, 7), 60, 5000, true),
		mkLesson(9, 3, day(2026, time.January, 14), 60, 5000, false),
		mkLesson(10, 3, day(2026, time.January, 21), 60, 5000, true),
		// Mia: one Thursday.
		mkLesson(11, 4, day(2026, time.January, 8), 60, 9000, true),
		// 2025 history for year comparisons.
		mkLesson(12, 1, day(2025, time.March, 10), 60, 5000, true),
		mkLesson(13, 1, day(2025, time.March, 17), 60, 5000, true),
	}
	return &Dataset{
		Lessons:  lessons,
		Students: students,
		Today:    day(2026, time.February, 21),
	}
}

func januaryPlan(key string, slots map[string]float64) *QueryPlan {
	if slots == nil {
		slots = map[string]float64{}
	}
	return &QueryPlan{
		TimeRange: monthRange(2026, time.January),
		TruthKey:  key,
		Slots:     slots,
	}
}
