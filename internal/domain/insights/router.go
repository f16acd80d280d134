// internal/domain/insights/router.go
package insights

import "regexp"

// routeRule is one entry in the ordered intent rule tables. Order is load
// bearing: more-specific patterns must precede more-general ones, and every
// rule records why it sits where it does so reordering is a deliberate act.
// RE2 has no lookahead, so suppression is expressed as an explicit "not"
// pattern instead of being buried in the match expression.
type routeRule struct {
	id     string
	re     *regexp.Regexp
	not    *regexp.Regexp
	intent Intent
	why    string
}

// tierA holds the structured, high-precision intents. They are checked before
// tier B because their phrasing overlaps tier B's broader earnings patterns
// and would be swallowed by them if checked last.
var tierA = []routeRule{
	{
		id:     "a_students_needed_target",
		re:     regexp.MustCompile(`\bhow many (?:more )?students\b.*\b(?:reach|earn|hit|get to|need)\b|\bstudents (?:do i )?need\b`),
		intent: IntentStudentsNeededForTarget,
		why:    "'how many students' would otherwise match the generic lessons/hours count family",
	},
	{
		id:     "a_on_track_goal",
		re:     regexp.MustCompile(`\bon track\b|\b(?:reach|hit|meet)(?:ing)? (?:my |a )?goal\b`),
		intent: IntentOnTrackGoal,
		why:    "goal questions mention dollar targets that the earnings patterns would claim",
	},
	{
		id:     "a_rate_change_sim",
		re:     regexp.MustCompile(`\b(?:raise|raised|increase|increased|lower|lowered|cut|reduce|reduced|bump)\b.*\brates?\b|\brates?\b.*\b(?:went|go|goes) up\b`),
		intent: IntentWhatIfRateChange,
		why:    "rate-change simulations mention 'rate', which the hourly-rate intents also anchor on",
	},
	{
		id:     "a_who_earned_most",
		re:     regexp.MustCompile(`\b(?:who|which student) (?:earned|earns|pays|paid|brought in)\b.*\b(?:most|top)\b|\bwho is (?:my )?(?:top|best) (?:earner|student)\b`),
		not:    regexp.MustCompile(`\b(?:hourly|per hour|/hour|rate)\b`),
		intent: IntentWhoEarnedMost,
		why:    "distinctive 'who ... most' ranking; the hourly qualifier suppresses it in favour of the hourly-rate argmax",
	},
	{
		id:     "a_who_earned_least",
		re:     regexp.MustCompile(`\b(?:who|which student) (?:earned|earns|pays|paid|brought in)\b.*\bleast\b|\bwho is (?:my )?(?:lowest|worst) (?:earner|student)\b`),
		not:    regexp.MustCompile(`\b(?:hourly|per hour|/hour|rate)\b`),
		intent: IntentWhoEarnedLeast,
		why:    "mirror of a_who_earned_most",
	},
}

// tierB holds the general intent catalog, most-specific-first. Rules are
// handwritten to be mutually near-exclusive through phrase anchors.
var tierB = []routeRule{
	{
		id:     "b_highest_hourly_rate",
		re:     regexp.MustCompile(`\b(?:who|which student)\b.*\b(?:highest|most|best)\b.*\b(?:per hour|hourly|rate)\b|\bhighest hourly rate\b|\bwho pays the most per hour\b`),
		intent: IntentHighestHourlyRate,
		why:    "hourly qualifier must win before the generic ranking and average-rate rules",
	},
	{
		id:     "b_lowest_hourly_rate",
		re:     regexp.MustCompile(`\b(?:who|which student)\b.*\b(?:lowest|least|worst)\b.*\b(?:per hour|hourly|rate)\b|\blowest hourly rate\b|\bwho pays the least per hour\b`),
		intent: IntentLowestHourlyRate,
		why:    "mirror of b_highest_hourly_rate",
	},
	{
		id:     "b_below_average_rate",
		re:     regexp.MustCompile(`\bbelow (?:the |my )?average\b|\bunder (?:the |my )?average\b`),
		intent: IntentBelowAverageRate,
		why:    "'below average' is more specific than the average-rate rule it would otherwise hit",
	},
	{
		id:     "b_most_missed",
		re:     regexp.MustCompile(`\b(?:who|which student)\b.*\bmiss(?:ed|es)\b|\bmost missed lessons\b|\bmiss(?:ed|es) the most\b`),
		intent: IntentMostMissedLessons,
		why:    "attendance argmax; must precede the generic lessons-count rule",
	},
	{
		id:     "b_most_completed",
		re:     regexp.MustCompile(`\b(?:who|which student)\b.*\b(?:attend(?:ed|s)|completed?)\b|\bmost (?:completed|attended) lessons\b|\battend(?:ed|s) the most\b`),
		intent: IntentMostCompletedLessons,
		why:    "attendance argmax; must precede the generic lessons-count rule",
	},
	{
		id:     "b_percent_change_yoy",
		re:     regexp.MustCompile(`\byear over year\b|\bpercent(?:age)? change\b|\b(?:compare|compared|vs|versus)\b.*\b(?:19|20)\d{2}\b.*\b(?:19|20)\d{2}\b|\b(?:grow|grew|growth)\b`),
		intent: IntentPercentChangeYoY,
		why:    "two-year comparisons mention years the time resolver would otherwise claim as a single range",
	},
	{
		id:     "b_day_of_week_max",
		re:     regexp.MustCompile(`\b(?:what|which) day\b.*\b(?:earn|earnings)\b|\bbest day of the week\b|\bbusiest day\b`),
		intent: IntentDayOfWeekMax,
		why:    "'earn the most' overlaps the ranking family; the day anchor disambiguates",
	},
	{
		id:     "b_cash_flow_trend",
		re:     regexp.MustCompile(`\bcash flow\b|\btrend(?:ing)?\b|\b(?:going|heading) (?:up|down)\b`),
		intent: IntentCashFlowTrend,
		why:    "trend vocabulary is distinctive but mentions earnings words",
	},
	{
		id:     "b_income_stability",
		re:     regexp.MustCompile(`\bstab(?:le|ility)\b|\bconsistent\b|\bconsistency\b|\bvolatil(?:e|ity)\b|\bsteady\b`),
		intent: IntentIncomeStability,
		why:    "stability vocabulary is distinctive but mentions earnings words",
	},
	{
		id:     "b_whatif_weeks_off",
		re:     regexp.MustCompile(`\bweeks? off\b|\btime off\b|\btook? (?:a )?break\b`),
		intent: IntentWhatIfWeeksOff,
		why:    "what-if simulations carry 'earn' vocabulary; scenario anchors must precede earnings",
	},
	{
		id:     "b_whatif_add_students",
		re:     regexp.MustCompile(`\b(?:add(?:ed)?|take on|took on|gain(?:ed)?|sign(?:ed)? up)\b.*\bstudents?\b`),
		intent: IntentWhatIfAddStudents,
		why:    "what-if simulations carry 'students' vocabulary; scenario anchors must precede the ranking rules",
	},
	{
		id:     "b_whatif_lose_top",
		re:     regexp.MustCompile(`\b(?:lose|lost|drop(?:ped)?)\b.*\b(?:top|best|biggest)\b|\b(?:lose|lost|drop(?:ped)?)\b.*\bstudents?\b`),
		intent: IntentWhatIfLoseTop,
		why:    "mentions 'top N students', which the revenue ranking rule would otherwise claim",
	},
	{
		id:     "b_revenue_per_student",
		re:     regexp.MustCompile(`\btop (?:\d{1,2}|one|two|three|four|five|six|seven|eight|nine|ten)\b|\b(?:earnings|revenue) (?:per|by) student\b|\bper student\b|\bbreakdown by student\b|\brank(?:ing)? (?:my )?students\b`),
		intent: IntentRevenuePerStudent,
		why:    "explicit top-N or per-student phrasing; must precede the broad earnings rule",
	},
	{
		id:     "b_student_earnings",
		re:     regexp.MustCompile(`\bhow much (?:did|does|has)\b.*\b(?:pay|paid|pays|earned? me|bring in|brought in)\b|\bearnings from\b`),
		intent: IntentStudentEarnings,
		why:    "third-person payer phrasing; must precede the first-person earnings rule",
	},
	{
		id:     "b_average_hourly_rate",
		re:     regexp.MustCompile(`\baverage (?:hourly )?rate\b|\baverage per hour\b|\b(?:earn|earnings|charge) per hour\b|\bhourly rate\b|\bper hour\b`),
		intent: IntentAverageHourlyRate,
		why:    "per-hour phrasing after the per-student rate argmaxes have had their chance",
	},
	{
		id:     "b_revenue_per_lesson",
		re:     regexp.MustCompile(`\b(?:average|earnings|revenue) per lesson\b|\bper lesson\b`),
		intent: IntentRevenuePerLesson,
		why:    "per-lesson ratio; must precede the lessons-count rule",
	},
	{
		id:     "b_lessons_count",
		re:     regexp.MustCompile(`\bhow many lessons\b|\bnumber of lessons\b|\blesson count\b|\blessons (?:did|have) i\b`),
		intent: IntentLessonsCount,
		why:    "plain attendance count once the argmax and ratio rules have passed",
	},
	{
		id:     "b_hours_total",
		re:     regexp.MustCompile(`\bhow many hours\b|\btotal hours\b|\bhours (?:did|have) i\b`),
		intent: IntentHoursTotal,
		why:    "plain hours count; 'per hour' questions were caught above",
	},
	{
		id:     "b_forecast_annual",
		re:     regexp.MustCompile(`\bforecast\b|\bproject(?:ed|ion)?\b|\b(?:will|going to) (?:i )?earn\b|\bend of (?:the )?year\b|\bannual earnings\b`),
		intent: IntentForecastAnnual,
		why:    "future-tense earnings; must precede the past-tense earnings rule",
	},
	{
		id:     "b_tax_guidance",
		re:     regexp.MustCompile(`\btax(?:es)?\b|\bset aside\b`),
		intent: IntentTaxGuidance,
		why:    "tax vocabulary is unambiguous",
	},
	{
		id:     "b_weekly_revenue",
		re:     regexp.MustCompile(`\bweekly earnings\b|\bearnings (?:by|per) week\b|\bweek (?:by|over) week\b`),
		intent: IntentWeeklyRevenue,
		why:    "weekly series phrasing; must precede the broad earnings rule",
	},
	{
		id:     "b_earnings_in_period",
		re:     regexp.MustCompile(`\bhow much (?:did|have|do) i earn(?:ed)?\b|\bhow much did i get\b|\btotal earnings\b|\bmy earnings\b|\bearnings\b|\bhow much money\b`),
		intent: IntentEarningsInPeriod,
		why:    "broadest money rule; everything more specific has already matched",
	},
}

// Route classifies a normalized question into an intent. Tier A first, then
// tier B, first matching rule wins; no match falls through to the general
// fallback, which downstream becomes a clarification unless the external
// fallback classifier resolves it.
func Route(text string) (Intent, string) {
	for _, tier := range [][]routeRule{tierA, tierB} {
		for _, r := range tier {
			if !r.re.MatchString(text) {
				continue
			}
			if r.not != nil && r.not.MatchString(text) {
				continue
			}
			return r.intent, r.id
		}
	}
	return IntentGeneralFallback, ""
}

// truthKeys maps every answerable intent to its single truth query.
var truthKeys = map[Intent]string{
	IntentWhoEarnedMost:           "revenue_per_student_in_period",
	IntentWhoEarnedLeast:          "revenue_per_student_in_period",
	IntentOnTrackGoal:             "goal_projection",
	IntentStudentsNeededForTarget: "sim_students_needed",
	IntentWhatIfRateChange:        "sim_rate_change",
	IntentEarningsInPeriod:        "earnings_in_period",
	IntentStudentEarnings:         "student_earnings_in_period",
	IntentLessonsCount:            "lessons_count_in_period",
	IntentHoursTotal:              "hours_total_in_period",
	IntentAverageHourlyRate:       "average_hourly_rate",
	IntentRevenuePerLesson:        "revenue_per_lesson",
	IntentRevenuePerStudent:       "revenue_per_student_in_period",
	IntentHighestHourlyRate:       "highest_hourly_rate_student",
	IntentLowestHourlyRate:        "lowest_hourly_rate_student",
	IntentMostMissedLessons:       "most_missed_lessons_student",
	IntentMostCompletedLessons:    "most_completed_lessons_student",
	IntentBelowAverageRate:        "students_below_average_rate",
	IntentDayOfWeekMax:            "day_of_week_max_earnings",
	IntentPercentChangeYoY:        "percent_change_yoy",
	IntentForecastAnnual:          "annual_income_forecast",
	IntentTaxGuidance:             "tax_reserve_guidance",
	IntentCashFlowTrend:           "cash_flow_trend",
	IntentIncomeStability:         "income_stability",
	IntentWeeklyRevenue:           "weekly_revenue_series",
	IntentWhatIfAddStudents:       "sim_add_students",
	IntentWhatIfWeeksOff:          "sim_weeks_off",
	IntentWhatIfLoseTop:           "sim_lose_top_students",
	IntentClarification:           "clarification",
}

// TruthKeyForIntent returns the truth-query key for an intent. Unknown intents
// (including the general fallback) map to the clarification key so the compute
// stage short-circuits instead of guessing.
func TruthKeyForIntent(in Intent) string {
	if k, ok := truthKeys[in]; ok {
		return k
	}
	return "clarification"
}

// shapes maps intents to the requested headline metric shape.
var shapes = map[Intent]MetricShape{
	IntentWhoEarnedMost:           ShapeWho,
	IntentWhoEarnedLeast:          ShapeWho,
	IntentOnTrackGoal:             ShapeDollars,
	IntentStudentsNeededForTarget: ShapeCount,
	IntentWhatIfRateChange:        ShapeDollars,
	IntentEarningsInPeriod:        ShapeDollars,
	IntentStudentEarnings:         ShapeDollars,
	IntentLessonsCount:            ShapeCount,
	IntentHoursTotal:              ShapeCount,
	IntentAverageHourlyRate:       ShapeRate,
	IntentRevenuePerLesson:        ShapeRate,
	IntentRevenuePerStudent:       ShapeWho,
	IntentHighestHourlyRate:       ShapeWho,
	IntentLowestHourlyRate:        ShapeWho,
	IntentMostMissedLessons:       ShapeWho,
	IntentMostCompletedLessons:    ShapeWho,
	IntentBelowAverageRate:        ShapeWho,
	IntentDayOfWeekMax:            ShapeWho,
	IntentPercentChangeYoY:        ShapePercent,
	IntentForecastAnnual:          ShapeDollars,
	IntentTaxGuidance:             ShapeDollars,
	IntentCashFlowTrend:           ShapeWho,
	IntentIncomeStability:         ShapeWho,
	IntentWeeklyRevenue:           ShapeDollars,
	IntentWhatIfAddStudents:       ShapeDollars,
	IntentWhatIfWeeksOff:          ShapeDollars,
	IntentWhatIfLoseTop:           ShapeDollars,
}

// ShapeForIntent returns the metric shape an intent renders as.
func ShapeForIntent(in Intent) MetricShape {
	if s, ok := shapes[in]; ok {
		return s
	}
	return ShapeDollars
}

// externalIntents maps the fallback classifier's fixed external vocabulary
// onto internal intents. Anything outside this map counts as a fallback miss.
var externalIntents = map[string]Intent{
	"earnings_period":     IntentEarningsInPeriod,
	"student_earnings":    IntentStudentEarnings,
	"lessons_count":       IntentLessonsCount,
	"hours_total":         IntentHoursTotal,
	"average_hourly_rate": IntentAverageHourlyRate,
	"revenue_per_lesson":  IntentRevenuePerLesson,
	"top_students":        IntentRevenuePerStudent,
	"highest_hourly_rate": IntentHighestHourlyRate,
	"lowest_hourly_rate":  IntentLowestHourlyRate,
	"most_missed":         IntentMostMissedLessons,
	"most_completed":      IntentMostCompletedLessons,
	"below_average_rate":  IntentBelowAverageRate,
	"best_day":            IntentDayOfWeekMax,
	"yoy_change":          IntentPercentChangeYoY,
	"forecast":            IntentForecastAnnual,
	"tax_guidance":        IntentTaxGuidance,
	"cash_flow_trend":     IntentCashFlowTrend,
	"income_stability":    IntentIncomeStability,
	"weekly_revenue":      IntentWeeklyRevenue,
	"sim_rate_change":     IntentWhatIfRateChange,
	"sim_add_students":    IntentWhatIfAddStudents,
	"sim_weeks_off":       IntentWhatIfWeeksOff,
	"sim_lose_top":        IntentWhatIfLoseTop,
	"sim_students_needed": IntentStudentsNeededForTarget,
	"goal_projection":     IntentOnTrackGoal,
	"who_earned_most":     IntentWhoEarnedMost,
	"who_earned_least":    IntentWhoEarnedLeast,
}

// IntentFromExternal maps a fallback classifier intent name onto the internal
// catalog. ok is false for "unknown" or any name outside the vocabulary.
func IntentFromExternal(name string) (Intent, bool) {
	in, ok := externalIntents[name]
	return in, ok
}
