package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunClarificationShortCircuits(t *testing.T) {
	plan := &QueryPlan{
		Intent:          IntentClarification,
		TruthKey:        "clarification",
		ClarifyQuestion: "Which year should I look at?",
		MissingParams:   []string{"year"},
	}
	res := Run("clarification", studioDataset(), plan)

	assert.Equal(t, KindClarify, res.Outputs.Kind)
	require.NotNil(t, res.Outputs.Clarify)
	assert.Equal(t, "Which year should I look at?", res.Outputs.Clarify.Question)
	assert.Equal(t, []string{"year"}, res.Outputs.Clarify.Missing)
}

func TestRunUnknownKeyIsLowConfidenceError(t *testing.T) {
	res := Run("no_such_key", studioDataset(), januaryPlan("no_such_key", nil))

	assert.Equal(t, KindError, res.Outputs.Kind)
	assert.Equal(t, ConfidenceLow, res.Confidence)
}

func TestEarningsInPeriod(t *testing.T) {
	res := Run("earnings_in_period", studioDataset(), januaryPlan("earnings_in_period", nil))

	require.Equal(t, KindTotal, res.Outputs.Kind)
	total := res.Outputs.Total
	assert.Equal(t, int64(72250), total.Cents)
	assert.Equal(t, 10, total.LessonCount)
	assert.InDelta(t, 11.5, total.Hours, 0.001)
	assert.Equal(t, ZeroCauseNone, total.Cause)
	assert.Equal(t, ConfidenceHigh, res.Confidence)
}

func TestEarningsZeroCauses(t *testing.T) {
	ds := studioDataset()

	// Nothing at all in range.
	plan := &QueryPlan{TimeRange: monthRange(2020, time.June), TruthKey: "earnings_in_period", Slots: map[string]float64{}}
	res := Run("earnings_in_period", ds, plan)
	assert.Equal(t, ZeroCauseNoRows, res.Outputs.Total.Cause)

	// Rows exist but none completed: Leo's missed Jan 14 lesson.
	only := studioDataset()
	only.Lessons = only.Lessons[8:9]
	res = Run("earnings_in_period", only, januaryPlan("earnings_in_period", nil))
	assert.Equal(t, ZeroCauseNoneCompleted, res.Outputs.Total.Cause)

	// Completed rows that genuinely sum to zero.
	free := studioDataset()
	free.Lessons = free.Lessons[:1]
	free.Lessons[0].AmountCents = 0
	res = Run("earnings_in_period", free, januaryPlan("earnings_in_period", nil))
	assert.Equal(t, ZeroCauseZeroAmounts, res.Outputs.Total.Cause)
}

func TestStudentEarnings(t *testing.T) {
	ds := studioDataset()
	plan := januaryPlan("student_earnings_in_period", nil)
	plan.Student = &StudentFilter{Name: "ben", StudentID: 2, Confidence: ConfidenceHigh}

	res := Run("student_earnings_in_period", ds, plan)

	require.Equal(t, KindTotal, res.Outputs.Kind)
	assert.Equal(t, int64(29250), res.Outputs.Total.Cents)
	assert.Equal(t, 3, res.Outputs.Total.LessonCount)
	assert.Equal(t, "Ben Ortiz", res.Outputs.Total.StudentName)
}

func TestStudentEarningsUnresolvedFilterFailsClosed(t *testing.T) {
	plan := januaryPlan("student_earnings_in_period", nil)
	plan.Student = &StudentFilter{Name: "chen", Confidence: ConfidenceLow}

	res := Run("student_earnings_in_period", studioDataset(), plan)

	assert.Equal(t, KindError, res.Outputs.Kind)
	assert.Equal(t, ConfidenceLow, res.Confidence)
}

func TestLessonsAndHoursCountIncludeMissed(t *testing.T) {
	ds := studioDataset()

	res := Run("lessons_count_in_period", ds, januaryPlan("lessons_count_in_period", nil))
	require.Equal(t, KindCount, res.Outputs.Kind)
	// Attendance counts all 11 January lessons, missed included.
	assert.Equal(t, 11, res.Outputs.Count.Lessons)

	res = Run("hours_total_in_period", ds, januaryPlan("hours_total_in_period", nil))
	assert.Equal(t, "hours", res.Outputs.Count.Unit)
	assert.InDelta(t, 12.5, res.Outputs.Count.Hours, 0.001)
}

func TestAverageHourlyRate(t *testing.T) {
	res := Run("average_hourly_rate", studioDataset(), januaryPlan("average_hourly_rate", nil))

	require.Equal(t, KindRate, res.Outputs.Kind)
	assert.True(t, res.Outputs.Rate.Defined)
	// 72250 cents over 690 completed minutes, scaled to an hour.
	assert.Equal(t, int64(6283), res.Outputs.Rate.CentsPerUnit)
	assert.Equal(t, "hour", res.Outputs.Rate.Unit)
}

func TestAverageHourlyRateUndefinedOnEmptyRange(t *testing.T) {
	plan := &QueryPlan{TimeRange: monthRange(2020, time.June), TruthKey: "average_hourly_rate", Slots: map[string]float64{}}
	res := Run("average_hourly_rate", studioDataset(), plan)

	assert.False(t, res.Outputs.Rate.Defined)
}

func TestRevenuePerLesson(t *testing.T) {
	res := Run("revenue_per_lesson", studioDataset(), januaryPlan("revenue_per_lesson", nil))

	// 72250 cents over 10 completed lessons.
	assert.Equal(t, int64(7225), res.Outputs.Rate.CentsPerUnit)
	assert.Equal(t, "lesson", res.Outputs.Rate.Unit)
}

func TestRevenuePerStudentRanking(t *testing.T) {
	res := Run("revenue_per_student_in_period", studioDataset(), januaryPlan("revenue_per_student_in_period", nil))

	require.Equal(t, KindRanking, res.Outputs.Kind)
	rows := res.Outputs.Ranking.Rows
	require.Len(t, rows, 4)
	assert.Equal(t, "Ben Ortiz", rows[0].Name)
	assert.Equal(t, int64(29250), rows[0].Cents)
	assert.Equal(t, "Anna Lee", rows[1].Name)
	assert.Equal(t, "Leo Chen", rows[2].Name)
	assert.Equal(t, "Mia Chen", rows[3].Name)

	// The per-student rows must sum back to the period total.
	var sum int64
	for _, r := range rows {
		sum += r.Cents
	}
	total := Run("earnings_in_period", studioDataset(), januaryPlan("earnings_in_period", nil))
	assert.Equal(t, total.Outputs.Total.Cents, sum)
}

func TestRevenuePerStudentTopN(t *testing.T) {
	plan := januaryPlan("revenue_per_student_in_period", map[string]float64{SlotTopN: 2})
	res := Run("revenue_per_student_in_period", studioDataset(), plan)

	rows := res.Outputs.Ranking.Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Ben Ortiz", rows[0].Name)
	assert.Equal(t, "Anna Lee", rows[1].Name)
	assert.False(t, res.Outputs.Ranking.Truncated)
}

func TestRevenuePerStudentTopNTruncated(t *testing.T) {
	plan := januaryPlan("revenue_per_student_in_period", map[string]float64{SlotTopN: 9})
	res := Run("revenue_per_student_in_period", studioDataset(), plan)

	require.Len(t, res.Outputs.Ranking.Rows, 4)
	assert.True(t, res.Outputs.Ranking.Truncated)
	assert.Equal(t, 9, res.Outputs.Ranking.Requested)
}

func TestRevenuePerStudentAscending(t *testing.T) {
	plan := januaryPlan("revenue_per_student_in_period", map[string]float64{SlotTopN: 1, SlotAscending: 1})
	res := Run("revenue_per_student_in_period", studioDataset(), plan)

	rows := res.Outputs.Ranking.Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "Mia Chen", rows[0].Name)
}

func TestHourlyRateArgmax(t *testing.T) {
	res := Run("highest_hourly_rate_student", studioDataset(), januaryPlan("highest_hourly_rate_student", nil))
	rows := res.Outputs.Ranking.Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "Mia Chen", rows[0].Name)
	assert.Equal(t, int64(9000), rows[0].RateCentsPHr)

	res = Run("lowest_hourly_rate_student", studioDataset(), januaryPlan("lowest_hourly_rate_student", nil))
	rows = res.Outputs.Ranking.Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "Leo Chen", rows[0].Name)
	assert.Equal(t, int64(5000), rows[0].RateCentsPHr)
}

func TestRateRankingUsesConfiguredRateWithoutHistory(t *testing.T) {
	ds := studioDataset()
	ds.Students = append(ds.Students, mkStudent(5, "Noah", "Kim", 12000))

	res := Run("highest_hourly_rate_student", ds, januaryPlan("highest_hourly_rate_student", nil))
	rows := res.Outputs.Ranking.Rows
	require.Len(t, rows, 1)
	// Noah has no lessons yet; his configured $120/hr still ranks highest.
	assert.Equal(t, "Noah Kim", rows[0].Name)
	assert.Equal(t, int64(12000), rows[0].RateCentsPHr)
}

func TestAttendanceArgmax(t *testing.T) {
	res := Run("most_missed_lessons_student", studioDataset(), januaryPlan("most_missed_lessons_student", nil))
	rows := res.Outputs.Ranking.Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "Leo Chen", rows[0].Name)
	assert.Equal(t, 1, rows[0].Lessons)
	assert.True(t, res.Outputs.Ranking.ByMissed)

	res = Run("most_completed_lessons_student", studioDataset(), januaryPlan("most_completed_lessons_student", nil))
	rows = res.Outputs.Ranking.Rows
	require.Len(t, rows, 1)
	assert.Equal(t, "Anna Lee", rows[0].Name)
	assert.Equal(t, 4, rows[0].Lessons)
}

func TestMostMissedEmptyRange(t *testing.T) {
	plan := &QueryPlan{TimeRange: monthRange(2020, time.June), TruthKey: "most_missed_lessons_student", Slots: map[string]float64{}}
	res := Run("most_missed_lessons_student", studioDataset(), plan)

	assert.Empty(t, res.Outputs.Ranking.Rows)
	assert.True(t, res.Outputs.Ranking.ByMissed)
}

func TestBelowAverageRate(t *testing.T) {
	res := Run("students_below_average_rate", studioDataset(), januaryPlan("students_below_average_rate", nil))

	rows := res.Outputs.Ranking.Rows
	// Weighted average is $62.83/hr; Leo ($50) and Anna ($60) sit below it,
	// ascending.
	require.Len(t, rows, 2)
	assert.Equal(t, "Leo Chen", rows[0].Name)
	assert.Equal(t, "Anna Lee", rows[1].Name)
}

func TestDayOfWeekMax(t *testing.T) {
	res := Run("day_of_week_max_earnings", studioDataset(), januaryPlan("day_of_week_max_earnings", nil))

	require.Equal(t, KindDayOfWeek, res.Outputs.Kind)
	assert.True(t, res.Outputs.DayOfWeek.Found)
	// Ben's three 90-minute Tuesdays beat Anna's four Mondays.
	assert.Equal(t, time.Tuesday, res.Outputs.DayOfWeek.Day)
	assert.Equal(t, int64(29250), res.Outputs.DayOfWeek.Cents)
}

func TestPercentChangeYoY(t *testing.T) {
	plan := januaryPlan("percent_change_yoy", map[string]float64{SlotYearA: 2025, SlotYearB: 2026})
	res := Run("percent_change_yoy", studioDataset(), plan)

	require.Equal(t, KindYoY, res.Outputs.Kind)
	y := res.Outputs.YoY
	assert.Equal(t, int64(10000), y.TotalACnts)
	assert.Equal(t, int64(72250), y.TotalBCnts)
	require.NotNil(t, y.Percent)
	assert.InDelta(t, 622.5, *y.Percent, 0.001)
}

func TestPercentChangeYoYZeroBaseIsUndefined(t *testing.T) {
	plan := januaryPlan("percent_change_yoy", map[string]float64{SlotYearA: 2024, SlotYearB: 2025})
	res := Run("percent_change_yoy", studioDataset(), plan)

	y := res.Outputs.YoY
	assert.Equal(t, int64(0), y.TotalACnts)
	// Undefined, never 0% and never an error.
	assert.Nil(t, y.Percent)
	assert.Equal(t, KindYoY, res.Outputs.Kind)
}

func TestAnnualForecast(t *testing.T) {
	res := Run("annual_income_forecast", studioDataset(), januaryPlan("annual_income_forecast", nil))

	require.Equal(t, KindProjection, res.Outputs.Kind)
	p := res.Outputs.Projection
	assert.Equal(t, int64(72250), p.YTDCents)
	// Feb 21 is day 52 of 2026.
	assert.Equal(t, 52, p.ElapsedDays)
	assert.Equal(t, int64(507139), p.ProjectedCents)
}

func TestGoalProjectionBehind(t *testing.T) {
	plan := januaryPlan("goal_projection", map[string]float64{SlotGoalDollars: 80000})
	res := Run("goal_projection", studioDataset(), plan)

	p := res.Outputs.Projection
	assert.False(t, p.OnTrack)
	assert.Equal(t, int64(8000000), p.GoalCents)
	assert.Equal(t, int64(8000000-507139), p.GapCents)
	assert.Equal(t, int64(177298), p.WeeklyPaceCents)
	assert.Equal(t, int64(759848), p.MonthlyPaceCents)
}

func TestGoalProjectionOnTrack(t *testing.T) {
	plan := januaryPlan("goal_projection", map[string]float64{SlotGoalDollars: 5000})
	res := Run("goal_projection", studioDataset(), plan)

	p := res.Outputs.Projection
	assert.True(t, p.OnTrack)
	assert.Zero(t, p.WeeklyPaceCents)
}

func TestTaxGuidance(t *testing.T) {
	res := Run("tax_reserve_guidance", studioDataset(), januaryPlan("tax_reserve_guidance", nil))

	require.Equal(t, KindGuidance, res.Outputs.Kind)
	g := res.Outputs.Guidance
	assert.Equal(t, int64(72250), g.BaseCents)
	assert.Equal(t, int64(18063), g.ReserveLowCents)
	assert.Equal(t, int64(21675), g.ReserveHiCents)
}

func TestWeeklyBuckets(t *testing.T) {
	ds := studioDataset()
	buckets := weeklyBuckets(ds, monthRange(2026, time.January))

	// Jan 2026 spans five Sunday-start weeks, the first beginning Dec 28.
	require.Len(t, buckets, 5)
	assert.Equal(t, day(2025, time.December, 28), buckets[0].Start)
	assert.Equal(t, int64(0), buckets[0].Cents)
	assert.Equal(t, int64(29750), buckets[1].Cents)
	assert.Equal(t, int64(15750), buckets[2].Cents)
	assert.Equal(t, int64(20750), buckets[3].Cents)
	assert.Equal(t, int64(6000), buckets[4].Cents)

	var sum int64
	for _, b := range buckets {
		sum += b.Cents
	}
	assert.Equal(t, int64(72250), sum)
}

func TestCashFlowTrend(t *testing.T) {
	res := Run("cash_flow_trend", studioDataset(), januaryPlan("cash_flow_trend", nil))

	require.Equal(t, KindTrend, res.Outputs.Kind)
	tr := res.Outputs.Trend
	assert.True(t, tr.Sufficient)
	assert.Equal(t, TrendDown, tr.Direction)
	assert.Equal(t, int64(14875), tr.FirstHalfAvg)
	assert.Equal(t, int64(14167), tr.SecondHalfAvg)
}

func TestCashFlowTrendInsufficient(t *testing.T) {
	plan := &QueryPlan{TimeRange: RollingDaysRange(day(2026, time.January, 10), 3), TruthKey: "cash_flow_trend", Slots: map[string]float64{}}
	res := Run("cash_flow_trend", studioDataset(), plan)

	assert.False(t, res.Outputs.Trend.Sufficient)
}

func TestIncomeStability(t *testing.T) {
	res := Run("income_stability", studioDataset(), januaryPlan("income_stability", nil))

	require.Equal(t, KindStability, res.Outputs.Kind)
	s := res.Outputs.Stability
	assert.Equal(t, StabilityVolatile, s.Class)
	assert.Equal(t, 5, s.Weeks)
	assert.Equal(t, int64(14450), s.WeeklyMean)
	assert.InDelta(t, 0.7296, s.CoV, 0.001)
}

func TestIncomeStabilityInsufficientOnEmptyRange(t *testing.T) {
	plan := &QueryPlan{TimeRange: monthRange(2020, time.June), TruthKey: "income_stability", Slots: map[string]float64{}}
	res := Run("income_stability", studioDataset(), plan)

	assert.Equal(t, StabilityInsufficient, res.Outputs.Stability.Class)
}

func TestIncomeStabilityZeroRevenueWeeks(t *testing.T) {
	zero := studioDataset()
	for i := range zero.Lessons {
		zero.Lessons[i].AmountCents = 0
	}
	res := Run("income_stability", zero, januaryPlan("income_stability", nil))

	// Weeks exist but all total zero; reported as such, not as missing data.
	require.Equal(t, KindStability, res.Outputs.Kind)
	assert.Equal(t, StabilityZeroRevenue, res.Outputs.Stability.Class)
	assert.Equal(t, 5, res.Outputs.Stability.Weeks)
}

func TestSimRateChange(t *testing.T) {
	plan := januaryPlan("sim_rate_change", map[string]float64{SlotRateDelta: 10})
	res := Run("sim_rate_change", studioDataset(), plan)

	require.Equal(t, KindSimulation, res.Outputs.Kind)
	s := res.Outputs.Simulation
	assert.Equal(t, "rate_change", s.Scenario)
	assert.Equal(t, int64(72250), s.BaseCents)
	assert.InDelta(t, 11.5, s.HoursInRange, 0.001)
	// 11.5 completed hours times $10/hr.
	assert.Equal(t, int64(11500), s.DeltaCents)
	assert.Equal(t, int64(83750), s.ProjectedCents)
}

func TestSimAddStudents(t *testing.T) {
	plan := januaryPlan("sim_add_students", map[string]float64{SlotAddStudents: 2})
	res := Run("sim_add_students", studioDataset(), plan)

	s := res.Outputs.Simulation
	assert.Equal(t, "add_students", s.Scenario)
	// 72250 over 4 active students, rounded.
	assert.Equal(t, int64(18063), s.PerStudentCents)
	assert.Equal(t, int64(36126), s.DeltaCents)
	assert.Equal(t, int64(72250+36126), s.ProjectedCents)
}

func TestSimWeeksOff(t *testing.T) {
	plan := januaryPlan("sim_weeks_off", map[string]float64{SlotWeeksOff: 2})
	res := Run("sim_weeks_off", studioDataset(), plan)

	s := res.Outputs.Simulation
	assert.Equal(t, int64(14450), s.WeeklyAvgCents)
	assert.Equal(t, int64(-28900), s.DeltaCents)
	assert.Equal(t, int64(43350), s.ProjectedCents)
}

func TestSimLoseTop(t *testing.T) {
	plan := januaryPlan("sim_lose_top_students", map[string]float64{SlotTopN: 1})
	res := Run("sim_lose_top_students", studioDataset(), plan)

	s := res.Outputs.Simulation
	require.Len(t, s.LostStudents, 1)
	assert.Equal(t, "Ben Ortiz", s.LostStudents[0].Name)
	assert.Equal(t, int64(-29250), s.DeltaCents)
	assert.Equal(t, int64(72250-29250), s.ProjectedCents)
}

func TestSimStudentsNeeded(t *testing.T) {
	plan := januaryPlan("sim_students_needed", map[string]float64{
		SlotGoalDollars: 50000,
		SlotAssumedRate: 60,
	})
	res := Run("sim_students_needed", studioDataset(), plan)

	s := res.Outputs.Simulation
	// $60/hr, 1 scheduled hour/week, 52 weeks = $3,120 per student per year;
	// ceil($50,000 / $3,120) = 17.
	assert.Equal(t, 17, s.StudentsNeeded)
	assert.Equal(t, int64(6000), s.AssumedRateCents)
	assert.InDelta(t, 1.0, s.AssumedWeeklyHours, 0.001)
}

func TestSimStudentsNeededDerivesRateFromHistory(t *testing.T) {
	plan := januaryPlan("sim_students_needed", map[string]float64{SlotGoalDollars: 50000})
	res := Run("sim_students_needed", studioDataset(), plan)

	s := res.Outputs.Simulation
	// Falls back to the weighted average rate of $62.83/hr.
	assert.Equal(t, int64(6283), s.AssumedRateCents)
}

func TestSimMissingInputsError(t *testing.T) {
	res := Run("sim_add_students", studioDataset(), januaryPlan("sim_add_students", nil))
	assert.Equal(t, KindError, res.Outputs.Kind)

	res = Run("sim_weeks_off", studioDataset(), januaryPlan("sim_weeks_off", nil))
	assert.Equal(t, KindError, res.Outputs.Kind)

	res = Run("goal_projection", studioDataset(), januaryPlan("goal_projection", nil))
	assert.Equal(t, KindError, res.Outputs.Kind)
}

func TestWeeklySeries(t *testing.T) {
	res := Run("weekly_revenue_series", studioDataset(), januaryPlan("weekly_revenue_series", nil))

	require.Equal(t, KindSeries, res.Outputs.Kind)
	assert.Len(t, res.Outputs.Series.Buckets, 5)
}
