// internal/domain/insights/engine.go
package insights

import (
	"math"
	"sort"

	"tutor_insights_bot/internal/domain/lesson"
	"tutor_insights_bot/internal/domain/student"
)

// truthQuery computes one deterministic aggregation. Implementations never
// return prose and never panic; failures come back as error-tagged outputs.
type truthQuery func(ds *Dataset, plan *QueryPlan) Outputs

var truthQueries = map[string]truthQuery{
	"earnings_in_period":             queryEarningsInPeriod,
	"student_earnings_in_period":     queryStudentEarnings,
	"lessons_count_in_period":        queryLessonsCount,
	"hours_total_in_period":          queryHoursTotal,
	"average_hourly_rate":            queryAverageHourlyRate,
	"revenue_per_lesson":             queryRevenuePerLesson,
	"revenue_per_student_in_period":  queryRevenuePerStudent,
	"highest_hourly_rate_student":    queryHighestHourlyRate,
	"lowest_hourly_rate_student":     queryLowestHourlyRate,
	"most_missed_lessons_student":    queryMostMissed,
	"most_completed_lessons_student": queryMostCompleted,
	"students_below_average_rate":    queryBelowAverageRate,
	"day_of_week_max_earnings":       queryDayOfWeekMax,
	"percent_change_yoy":             queryPercentChangeYoY,
	"annual_income_forecast":         queryAnnualForecast,
	"goal_projection":                queryGoalProjection,
	"tax_reserve_guidance":           queryTaxGuidance,
	"cash_flow_trend":                queryCashFlowTrend,
	"income_stability":               queryIncomeStability,
	"weekly_revenue_series":          queryWeeklySeries,
	"sim_rate_change":                querySimRateChange,
	"sim_add_students":               querySimAddStudents,
	"sim_weeks_off":                  querySimWeeksOff,
	"sim_lose_top_students":          querySimLoseTop,
	"sim_students_needed":            querySimStudentsNeeded,
}

// Run executes exactly one truth query for the plan. It never raises: an
// unknown key or an internal failure comes back as an error-tagged output
// that the verifier downgrades.
func Run(key string, ds *Dataset, plan *QueryPlan) *Result {
	res := &Result{Intent: plan.Intent, TruthKey: key, Confidence: ConfidenceHigh}

	if key == "clarification" {
		res.Outputs = Outputs{Kind: KindClarify, Clarify: &ClarifyOutput{
			Question: plan.ClarifyQuestion,
			Missing:  plan.MissingParams,
		}}
		return res
	}

	q, ok := truthQueries[key]
	if !ok {
		res.Confidence = ConfidenceLow
		res.Outputs = errorOutput("unknown_truth_query", "no aggregation is registered for key "+key)
		return res
	}

	res.Outputs = q(ds, plan)
	if res.Outputs.Kind == KindError {
		res.Confidence = ConfidenceLow
	}
	return res
}

func errorOutput(code, msg string) Outputs {
	return Outputs{Kind: KindError, Error: &ErrorOutput{Code: code, Message: msg}}
}

// --- shared aggregation helpers -------------------------------------------

func lessonsInRange(ds *Dataset, tr *TimeRange, studentID int64) []*lesson.Lesson {
	var out []*lesson.Lesson
	for _, l := range ds.Lessons {
		if studentID != 0 && l.StudentID != studentID {
			continue
		}
		if tr != nil && !tr.Contains(DateOnly(l.Date)) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func completedOnly(ls []*lesson.Lesson) []*lesson.Lesson {
	var out []*lesson.Lesson
	for _, l := range ls {
		if l.Completed {
			out = append(out, l)
		}
	}
	return out
}

func sumCents(ls []*lesson.Lesson) int64 {
	var total int64
	for _, l := range ls {
		total += l.AmountCents
	}
	return total
}

func sumMinutes(ls []*lesson.Lesson) int {
	var total int
	for _, l := range ls {
		total += l.DurationMinutes
	}
	return total
}

// diagnoseZero distinguishes the three reasons a financial sum can be zero.
func diagnoseZero(all, completed []*lesson.Lesson, totalCents int64) ZeroCause {
	if totalCents != 0 {
		return ZeroCauseNone
	}
	if len(all) == 0 {
		return ZeroCauseNoRows
	}
	if len(completed) == 0 {
		return ZeroCauseNoneCompleted
	}
	return ZeroCauseZeroAmounts
}

func findStudent(ds *Dataset, id int64) *student.Student {
	for _, s := range ds.Students {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// perStudentRows aggregates completed lessons per student over the range.
// Students with no completed history in range are omitted; effective hourly
// rate falls back to the configured schedule rate when minutes are zero.
func perStudentRows(ds *Dataset, tr *TimeRange) []RankRow {
	type agg struct {
		cents   int64
		minutes int
		lessons int
	}
	byStudent := map[int64]*agg{}
	for _, l := range completedOnly(lessonsInRange(ds, tr, 0)) {
		a := byStudent[l.StudentID]
		if a == nil {
			a = &agg{}
			byStudent[l.StudentID] = a
		}
		a.cents += l.AmountCents
		a.minutes += l.DurationMinutes
		a.lessons++
	}

	rows := make([]RankRow, 0, len(byStudent))
	for id, a := range byStudent {
		row := RankRow{StudentID: id, Cents: a.cents, Minutes: a.minutes, Lessons: a.lessons}
		if s := findStudent(ds, id); s != nil {
			row.Name = s.FullName()
		}
		row.RateCentsPHr = effectiveRate(ds, id, a.cents, a.minutes)
		rows = append(rows, row)
	}
	// Deterministic order before any ranking-specific sort.
	sort.Slice(rows, func(i, j int) bool { return rows[i].StudentID < rows[j].StudentID })
	return rows
}

// effectiveRate is completed revenue scaled to an hour, falling back to the
// student's configured rate when there is no lesson history to derive it from.
func effectiveRate(ds *Dataset, studentID int64, cents int64, minutes int) int64 {
	if minutes > 0 {
		return int64(math.Round(float64(cents) / float64(minutes) * 60.0))
	}
	if s := findStudent(ds, studentID); s != nil {
		return s.RateCentsOn(ds.Today)
	}
	return 0
}

// weightedAverageRate is the cohort's total completed revenue over total
// completed minutes, scaled to an hour. ok is false when no minutes exist.
func weightedAverageRate(ds *Dataset, tr *TimeRange) (int64, bool) {
	completed := completedOnly(lessonsInRange(ds, tr, 0))
	minutes := sumMinutes(completed)
	if minutes == 0 {
		return 0, false
	}
	return int64(math.Round(float64(sumCents(completed)) / float64(minutes) * 60.0)), true
}

// weeklyBuckets slices the range into calendar weeks starting Sunday,
// inclusive of partial boundary weeks, and sums completed revenue per week.
func weeklyBuckets(ds *Dataset, tr *TimeRange) []WeekBucket {
	if tr == nil || tr.End.Before(tr.Start) {
		return nil
	}
	start := tr.Start.AddDate(0, 0, -int(tr.Start.Weekday())) // back to Sunday
	var buckets []WeekBucket
	for ws := start; !ws.After(tr.End); ws = ws.AddDate(0, 0, 7) {
		buckets = append(buckets, WeekBucket{Start: ws, End: ws.AddDate(0, 0, 6)})
	}
	for _, l := range completedOnly(lessonsInRange(ds, tr, 0)) {
		d := DateOnly(l.Date)
		idx := int(d.Sub(start).Hours() / 24 / 7)
		if idx >= 0 && idx < len(buckets) {
			buckets[idx].Cents += l.AmountCents
		}
	}
	return buckets
}
