// internal/domain/insights/types.go
package insights

import (
	"time"

	"tutor_insights_bot/internal/domain/lesson"
	"tutor_insights_bot/internal/domain/student"
)

// Intent is one of the closed set of question categories the pipeline can answer.
type Intent string

const (
	// Tier A (structured, high-precision) intents. Checked before Tier B because
	// their phrasing overlaps with the broader earnings patterns.
	IntentWhoEarnedMost           Intent = "WHO_EARNED_MOST"
	IntentWhoEarnedLeast          Intent = "WHO_EARNED_LEAST"
	IntentOnTrackGoal             Intent = "ON_TRACK_GOAL"
	IntentStudentsNeededForTarget Intent = "STUDENTS_NEEDED_FOR_TARGET"
	IntentWhatIfRateChange        Intent = "WHAT_IF_RATE_CHANGE"

	// Tier B (general) intents.
	IntentEarningsInPeriod     Intent = "EARNINGS_IN_PERIOD"
	IntentStudentEarnings      Intent = "STUDENT_EARNINGS"
	IntentLessonsCount         Intent = "LESSONS_COUNT"
	IntentHoursTotal           Intent = "HOURS_TOTAL"
	IntentAverageHourlyRate    Intent = "AVERAGE_HOURLY_RATE"
	IntentRevenuePerLesson     Intent = "REVENUE_PER_LESSON"
	IntentRevenuePerStudent    Intent = "REVENUE_PER_STUDENT"
	IntentHighestHourlyRate    Intent = "HIGHEST_HOURLY_RATE"
	IntentLowestHourlyRate     Intent = "LOWEST_HOURLY_RATE"
	IntentMostMissedLessons    Intent = "MOST_MISSED_LESSONS"
	IntentMostCompletedLessons Intent = "MOST_COMPLETED_LESSONS"
	IntentBelowAverageRate     Intent = "BELOW_AVERAGE_RATE"
	IntentDayOfWeekMax         Intent = "DAY_OF_WEEK_MAX"
	IntentPercentChangeYoY     Intent = "PERCENT_CHANGE_YOY"
	IntentForecastAnnual       Intent = "FORECAST_ANNUAL"
	IntentTaxGuidance          Intent = "TAX_GUIDANCE"
	IntentCashFlowTrend        Intent = "CASH_FLOW_TREND"
	IntentIncomeStability      Intent = "INCOME_STABILITY"
	IntentWeeklyRevenue        Intent = "WEEKLY_REVENUE"
	IntentWhatIfAddStudents    Intent = "WHAT_IF_ADD_STUDENTS"
	IntentWhatIfWeeksOff       Intent = "WHAT_IF_WEEKS_OFF"
	IntentWhatIfLoseTop        Intent = "WHAT_IF_LOSE_TOP"

	// Sentinels.
	IntentGeneralFallback Intent = "GENERAL_FALLBACK"
	IntentClarification   Intent = "CLARIFICATION"
)

// MetricShape is the requested shape of the answer's headline value.
type MetricShape string

const (
	ShapeDollars MetricShape = "dollars"
	ShapePercent MetricShape = "percent"
	ShapeWho     MetricShape = "who"
	ShapeCount   MetricShape = "count"
	ShapeRate    MetricShape = "rate"
)

// Confidence of a computed result.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// RangeKind tags how a TimeRange was derived.
type RangeKind string

const (
	RangeCustom      RangeKind = "custom"
	RangeMonth       RangeKind = "month"
	RangeYear        RangeKind = "year"
	RangeYearToDate  RangeKind = "year_to_date"
	RangeRollingDays RangeKind = "rolling_days"
	RangeAll         RangeKind = "all"
)

// TimeRange is a resolved, always-closed inclusive date pair.
type TimeRange struct {
	Kind  RangeKind
	Start time.Time // inclusive, date-only
	End   time.Time // inclusive, date-only
	Label string    // human label, e.g. "January 2026"
}

// Contains reports whether the date d (date-only) falls inside the range.
func (r *TimeRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// StudentFilter is a resolved (or unresolved) student constraint on a plan.
type StudentFilter struct {
	Name       string // the fragment as it appeared in the question
	StudentID  int64  // 0 when unresolved
	Confidence Confidence
}

// Resolved reports whether the filter points at a single student.
func (f *StudentFilter) Resolved() bool {
	return f != nil && f.StudentID != 0
}

// QueryPlan is the fully-resolved, immutable description of what to compute for
// one question. A new plan is built for each turn; never mutated after Build.
type QueryPlan struct {
	Intent             Intent
	Normalized         string
	TimeRange          *TimeRange
	Student            *StudentFilter
	Shape              MetricShape
	NeedsClarification bool
	ClarifyQuestion    string
	MissingParams      []string
	TruthKey           string
	Slots              map[string]float64
}

// PriorContext is the minimal state carried from one conversational turn into
// the next. It is supplied by the caller; the core keeps no session store.
type PriorContext struct {
	Intent           Intent
	TimeRange        *TimeRange
	Student          *StudentFilter
	Slots            map[string]float64
	OriginalQuestion string
	MissingParams    []string
	State            ConversationState
}

// ConversationState of the clarification state machine.
type ConversationState string

const (
	StateAwaitingQuestion      ConversationState = "AWAITING_QUESTION"
	StateAwaitingClarification ConversationState = "AWAITING_CLARIFICATION"
	StateAnswered              ConversationState = "ANSWERED"
)

// Dataset is the per-request read-only snapshot the engine computes over.
// It is borrowed from the persistence layer and never written back.
type Dataset struct {
	Lessons  []*lesson.Lesson
	Students []*student.Student
	Today    time.Time
}

// DebugOptions controls trace verbosity. Threaded explicitly through the
// pipeline instead of living in a global flag.
type DebugOptions struct {
	Verbose bool
}

// Result is the computed outcome for one plan. Produced fresh per request and
// never cached (the underlying financial data may change between turns).
type Result struct {
	Intent     Intent
	TruthKey   string
	Outputs    Outputs
	Confidence Confidence
	Warnings   []string
}

// Trace is the machine-readable explainability record for one turn. It is for
// external observability only and never feeds back into computation.
type Trace struct {
	RawQuestion      string
	Normalized       string
	RoutedIntent     Intent
	MatchedRule      string
	RangeLabel       string
	RangeAmbiguous   bool
	EntityFragment   string
	EntityResolvedID int64
	FallbackTried    bool
	FallbackIntent   string
	VerifyErrors     []string
	TruthKey         string
}
