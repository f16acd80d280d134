// internal/domain/insights/outputs.go
package insights

import "time"

// OutputKind discriminates the Outputs variant. Exactly one pointer field of
// Outputs is non-nil, matching the Kind, so the formatter's switch is total.
type OutputKind string

const (
	KindTotal      OutputKind = "total"
	KindCount      OutputKind = "count"
	KindRate       OutputKind = "rate"
	KindRanking    OutputKind = "ranking"
	KindDayOfWeek  OutputKind = "day_of_week"
	KindYoY        OutputKind = "yoy"
	KindSeries     OutputKind = "series"
	KindTrend      OutputKind = "trend"
	KindStability  OutputKind = "stability"
	KindProjection OutputKind = "projection"
	KindSimulation OutputKind = "simulation"
	KindGuidance   OutputKind = "guidance"
	KindClarify    OutputKind = "clarify"
	KindError      OutputKind = "error"
)

// ZeroCause diagnoses why a monetary aggregate came out to zero. The three
// causes have different remediation and must never be presented identically.
type ZeroCause string

const (
	ZeroCauseNone          ZeroCause = ""               // total is non-zero
	ZeroCauseNoRows        ZeroCause = "no_rows"        // nothing in range at all
	ZeroCauseNoneCompleted ZeroCause = "none_completed" // rows exist, none completed
	ZeroCauseZeroAmounts   ZeroCause = "zero_amounts"   // completed rows sum to $0
)

// Outputs is the tagged union of every truth-query result shape.
type Outputs struct {
	Kind       OutputKind
	Total      *TotalOutput
	Count      *CountOutput
	Rate       *RateOutput
	Ranking    *RankingOutput
	DayOfWeek  *DayOfWeekOutput
	YoY        *YoYOutput
	Series     *SeriesOutput
	Trend      *TrendOutput
	Stability  *StabilityOutput
	Projection *ProjectionOutput
	Simulation *SimulationOutput
	Guidance   *GuidanceOutput
	Clarify    *ClarifyOutput
	Error      *ErrorOutput
}

// TotalOutput carries a summed monetary amount. StudentName is set when the
// total was scoped to a single student.
type TotalOutput struct {
	Cents       int64
	LessonCount int
	Hours       float64
	StudentName string
	Cause       ZeroCause
}

// CountOutput carries a lesson or hour count.
type CountOutput struct {
	Lessons int
	Hours   float64
	Unit    string // "lessons" or "hours"
}

// RateOutput carries a per-hour or per-lesson money rate.
type RateOutput struct {
	CentsPerUnit int64
	Unit         string // "hour" or "lesson"
	Defined      bool   // false when the denominator was zero
}

// RankRow is one row of a per-student ranking.
type RankRow struct {
	StudentID    int64
	Name         string
	Cents        int64
	Minutes      int
	Lessons      int
	RateCentsPHr int64 // effective hourly rate; 0 when undefined
}

// RankingOutput is an ordered per-student breakdown, possibly truncated to N.
type RankingOutput struct {
	Rows       []RankRow
	Requested  int  // requested top-N; 0 means "all"
	Truncated  bool // true when Requested exceeded the available rows
	Ascending  bool
	ByRate     bool // ranked by effective hourly rate rather than revenue
	ByMissed   bool
	ByAttended bool
}

// DayOfWeekOutput names the weekday with the highest revenue.
type DayOfWeekOutput struct {
	Day   time.Weekday
	Cents int64
	Found bool
}

// YoYOutput is a year-over-year percent comparison. Percent is nil when the
// earlier year's total is exactly zero: the change is undefined, not 0%.
type YoYOutput struct {
	YearA      int
	YearB      int
	TotalACnts int64
	TotalBCnts int64
	Percent    *float64
}

// WeekBucket is one calendar week (Sunday start) of revenue.
type WeekBucket struct {
	Start time.Time
	End   time.Time
	Cents int64
}

// SeriesOutput is a weekly revenue time series over a range.
type SeriesOutput struct {
	Buckets []WeekBucket
}

// TrendDirection classifies a cash-flow trend.
type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// TrendOutput compares first-half vs second-half weekly averages.
type TrendOutput struct {
	Direction     TrendDirection
	FirstHalfAvg  int64 // cents
	SecondHalfAvg int64 // cents
	Weeks         int
	Sufficient    bool
}

// StabilityClass buckets the coefficient of variation of weekly totals.
type StabilityClass string

const (
	StabilityStable       StabilityClass = "stable"
	StabilityModerate     StabilityClass = "moderate"
	StabilityVolatile     StabilityClass = "volatile"
	StabilityZeroRevenue  StabilityClass = "zero_revenue"
	StabilityInsufficient StabilityClass = "insufficient_data"
)

// StabilityOutput is the income-stability classification.
type StabilityOutput struct {
	Class      StabilityClass
	CoV        float64
	WeeklyMean int64 // cents
	Weeks      int
}

// ProjectionOutput is the "on track for a goal" linear extrapolation.
type ProjectionOutput struct {
	YTDCents         int64
	ElapsedDays      int
	ProjectedCents   int64 // YTD scaled to a 365-day year
	GoalCents        int64 // 0 when no goal was stated
	GapCents         int64 // goal minus projection; negative means ahead
	OnTrack          bool
	WeeklyPaceCents  int64 // required weekly earnings to close the gap
	MonthlyPaceCents int64
}

// SimulationOutput is the result of a what-if scenario.
type SimulationOutput struct {
	Scenario string // "rate_change", "add_students", "weeks_off", "lose_top_students", "students_needed"

	BaseCents      int64 // current total the scenario starts from
	DeltaCents     int64 // signed change the scenario produces
	ProjectedCents int64 // base plus delta

	// rate_change
	RateDeltaCentsPHr int64
	HoursInRange      float64

	// add_students
	StudentsAdded   int
	PerStudentCents int64

	// weeks_off
	WeeksOff       int
	WeeklyAvgCents int64

	// lose_top_students
	LostStudents []RankRow

	// students_needed
	StudentsNeeded     int
	TargetCents        int64
	AssumedRateCents   int64
	AssumedWeeklyHours float64
}

// GuidanceOutput is rule-of-thumb tax-reserve guidance over a base amount.
type GuidanceOutput struct {
	BaseCents       int64
	ReserveLowCents int64 // 25% of base
	ReserveHiCents  int64 // 30% of base
}

// ClarifyOutput is the structured "need more information" result.
type ClarifyOutput struct {
	Question string
	Missing  []string
}

// ErrorOutput tags a computation failure. The engine returns this instead of
// raising; the verifier forces low confidence on it.
type ErrorOutput struct {
	Code    string
	Message string
}
