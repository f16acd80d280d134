package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutor_insights_bot/internal/domain/classifier"
	"tutor_insights_bot/internal/domain/insights"
	"tutor_insights_bot/internal/domain/lesson"
	"tutor_insights_bot/internal/domain/student"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLessonRepo struct {
	lessons []*lesson.Lesson
	err     error
}

func (r *stubLessonRepo) ListByUser(_ context.Context, _ int64) ([]*lesson.Lesson, error) {
	return r.lessons, r.err
}

func (r *stubLessonRepo) ListByUserInRange(_ context.Context, _ int64, start, end time.Time) ([]*lesson.Lesson, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*lesson.Lesson
	for _, l := range r.lessons {
		if !l.Date.Before(start) && !l.Date.After(end) {
			out = append(out, l)
		}
	}
	return out, nil
}

type stubStudentRepo struct {
	students []*student.Student
	err      error
}

func (r *stubStudentRepo) ListByUser(_ context.Context, _ int64) ([]*student.Student, error) {
	return r.students, r.err
}

func (r *stubStudentRepo) GetByID(_ context.Context, id int64) (*student.Student, error) {
	for _, s := range r.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, errors.New("not found")
}

type stubClassifier struct {
	cls   *classifier.Classification
	err   error
	calls int
}

func (c *stubClassifier) Classify(_ context.Context, _ string, _ time.Time, _ string) (*classifier.Classification, error) {
	c.calls++
	return c.cls, c.err
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func mkStudent(id int64, first, last string, rateCents int64) *student.Student {
	return &student.Student{
		ID:                   id,
		UserID:               1,
		FirstName:            first,
		LastName:             last,
		ScheduleDay:          time.Tuesday,
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

func janDay(d int) time.Time {
	return time.Date(2026, time.January, d, 0, 0, 0, 0, time.UTC)
}

var testToday = time.Date(2026, time.February, 21, 0, 0, 0, 0, time.UTC)

func fixtureRepos() (*stubLessonRepo, *stubStudentRepo) {
	students := []*student.Student{
		mkStudent(1, "Anna", "Lee", 6000),
		mkStudent(2, "Ben", "Ortiz", 6500),
		mkStudent(3, "Leo", "Chen", 5000),
		mkStudent(4, "Mia", "Chen", 9000),
	}
	lessons := []*lesson.Lesson{
		mkLesson(1, 1, janDay(5), 60, 6000, true),
		mkLesson(2, 1, janDay(12), 60, 6000, true),
		mkLesson(3, 1, janDay(19), 60, 6000, true),
		mkLesson(4, 1, janDay(26), 60, 6000, true),
		mkLesson(5, 2, janDay(6), 90, 9750, true),
		mkLesson(6, 2, janDay(13), 90, 9750, true),
		mkLesson(7, 2, janDay(20), 90, 9750, true),
		mkLesson(8, 3, janDay(7), 60, 5000, true),
		mkLesson(9, 3, janDay(14), 60, 5000, false),
		mkLesson(10, 3, janDay(21), 60, 5000, true),
		mkLesson(11, 4, janDay(8), 60, 9000, true),
	}
	return &stubLessonRepo{lessons: lessons}, &stubStudentRepo{students: students}
}

func newTestService(fb classifier.Classifier) *InsightsService {
	lr, sr := fixtureRepos()
	return NewInsightsService(lr, sr, fb, testLogger())
}

func TestAskQuestionSimpleTotal(t *testing.T) {
	svc := newTestService(nil)

	resp, err := svc.AskQuestion(context.Background(), AskRequest{
		UserID:   1,
		Question: "How much did I earn last month?",
		Today:    testToday,
	})
	require.NoError(t, err)

	assert.False(t, resp.NeedsClarification)
	assert.Equal(t, "You earned $722.50 across 10 completed lessons (11.5 hours).", resp.Text)
	assert.Equal(t, "January 2026", resp.Metadata.RangeLabel)
	assert.Equal(t, 11, resp.Metadata.LessonsConsidered)
	assert.Equal(t, "sum of completed lesson amounts in range", resp.Metadata.Aggregation)

	require.NotNil(t, resp.Trace)
	assert.Equal(t, "earnings_in_period", resp.Trace.TruthKey)
	assert.Equal(t, insights.IntentEarningsInPeriod, resp.Trace.RoutedIntent)

	require.NotNil(t, resp.Next)
	assert.Equal(t, insights.StateAnswered, resp.Next.State)
}

func TestAskQuestionClarificationRoundTrip(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	// Turn one: two Chens on the roster, the surname alone cannot resolve.
	first, err := svc.AskQuestion(ctx, AskRequest{
		UserID:   1,
		Question: "How much did Chen pay me last month?",
		Today:    testToday,
	})
	require.NoError(t, err)
	assert.True(t, first.NeedsClarification)
	assert.Equal(t, "Which student do you mean? Please give a name.", first.Text)
	require.NotNil(t, first.Next)
	assert.Equal(t, insights.StateAwaitingClarification, first.Next.State)

	// Turn two: the bare reply resumes the original question.
	second, err := svc.AskQuestion(ctx, AskRequest{
		UserID:   1,
		Question: "Leo Chen",
		Prior:    first.Next,
		Today:    testToday,
	})
	require.NoError(t, err)
	assert.False(t, second.NeedsClarification)
	assert.Equal(t, "**Leo Chen** — $100.00 across 2 completed lessons.", second.Text)
	assert.Equal(t, insights.StateAnswered, second.Next.State)
}

func TestAskQuestionFallbackClassifierResolvesIntent(t *testing.T) {
	fb := &stubClassifier{cls: &classifier.Classification{
		Intent: "sim_weeks_off",
		Slots:  map[string]float64{"weeks_off": 2},
	}}
	svc := newTestService(fb)

	resp, err := svc.AskQuestion(context.Background(), AskRequest{
		UserID:   1,
		Question: "thinking about a short pause from teaching",
		Today:    testToday,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fb.calls)
	assert.False(t, resp.NeedsClarification)
	assert.Equal(t, insights.KindSimulation, resp.Result.Outputs.Kind)
	assert.Contains(t, resp.Text, "Taking 2 weeks off")
	assert.True(t, resp.Trace.FallbackTried)
	assert.Equal(t, "sim_weeks_off", resp.Trace.FallbackIntent)
}

func TestAskQuestionFallbackUnavailableDegradesToClarification(t *testing.T) {
	fb := &stubClassifier{err: classifier.ErrUnavailable}
	svc := newTestService(fb)

	resp, err := svc.AskQuestion(context.Background(), AskRequest{
		UserID:   1,
		Question: "thinking about a short pause from teaching",
		Today:    testToday,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, fb.calls)
	assert.True(t, resp.NeedsClarification)
	assert.Contains(t, resp.Text, "Could you rephrase")
}

func TestAskQuestionFallbackNotConsultedWhenRouterResolves(t *testing.T) {
	fb := &stubClassifier{cls: &classifier.Classification{Intent: "earnings_period"}}
	svc := newTestService(fb)

	_, err := svc.AskQuestion(context.Background(), AskRequest{
		UserID:   1,
		Question: "How much did I earn last month?",
		Today:    testToday,
	})
	require.NoError(t, err)

	assert.Zero(t, fb.calls)
}

func TestAskQuestionSnapshotLoadErrorPropagates(t *testing.T) {
	lr := &stubLessonRepo{err: errors.New("connection refused")}
	_, sr := fixtureRepos()
	svc := NewInsightsService(lr, sr, nil, testLogger())

	_, err := svc.AskQuestion(context.Background(), AskRequest{
		UserID:   1,
		Question: "How much did I earn last month?",
		Today:    testToday,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load lessons")
}

func TestAskQuestionUsesProvidedSnapshot(t *testing.T) {
	// Repos that would fail prove the snapshot short-circuits the load.
	lr := &stubLessonRepo{err: errors.New("should not be called")}
	sr := &stubStudentRepo{err: errors.New("should not be called")}
	svc := NewInsightsService(lr, sr, nil, testLogger())

	snapLr, snapSr := fixtureRepos()
	resp, err := svc.AskQuestion(context.Background(), AskRequest{
		UserID:   1,
		Question: "How much did I earn last month?",
		Snapshot: &insights.Dataset{Lessons: snapLr.lessons, Students: snapSr.students, Today: testToday},
		Today:    testToday,
	})
	require.NoError(t, err)
	assert.Equal(t, "You earned $722.50 across 10 completed lessons (11.5 hours).", resp.Text)
}
