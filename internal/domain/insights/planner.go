// internal/domain/insights/planner.go
package insights

import "regexp"

// Fixed clarification question per missing parameter. Deterministic text,
// never model-generated.
var clarifyQuestions = map[string]string{
	"student":       "Which student do you mean? Please give a name.",
	"year":          "Which year should I look at?",
	"rate_delta":    "By how much per hour should I change the rate?",
	"goal_amount":   "What annual income goal should I check against?",
	"target_amount": "What income target should I aim for?",
	"student_count": "How many students should I add in this scenario?",
	"weeks":         "How many weeks off should I simulate?",
	"timeframe":     "I found more than one timeframe in your question. Which one should I use?",
	"intent":        "I can answer questions about your earnings, lessons, rates and what-if scenarios. Could you rephrase your question?",
}

// ClarifyQuestionFor returns the fixed question text for a missing parameter.
func ClarifyQuestionFor(param string) string {
	if q, ok := clarifyQuestions[param]; ok {
		return q
	}
	return clarifyQuestions["intent"]
}

var (
	financialVocabRe  = regexp.MustCompile(`\b(?:earn|earned|earnings|pay|paid|pays|money|rate|dollar)\b|\$`)
	attendanceVocabRe = regexp.MustCompile(`\b(?:lesson|lessons|missed|attend|attended|hours|schedule)\b`)
)

// defaultRange supplies the intent-specific default when the question names no
// timeframe. Rate and ranking questions read best over the year so far; plain
// totals read best over a recent window; the weekly-series intents need enough
// weeks to bucket.
func defaultRange(in Intent, ds *Dataset) *TimeRange {
	switch in {
	case IntentEarningsInPeriod, IntentStudentEarnings, IntentLessonsCount,
		IntentHoursTotal, IntentRevenuePerLesson, IntentDayOfWeekMax:
		return RollingDaysRange(ds.Today, 30)
	case IntentCashFlowTrend, IntentIncomeStability, IntentWeeklyRevenue:
		return RollingDaysRange(ds.Today, 90)
	default:
		return YearToDateRange(ds.Today)
	}
}

// Plan assembles router, time-range and entity output into one immutable
// query plan. prior may carry slots from the previous turn; text-extracted
// values always win over inherited ones.
func Plan(normalized string, ds *Dataset, prior *PriorContext) *QueryPlan {
	intent, _ := Route(normalized)
	return PlanWithIntent(normalized, ds, prior, intent)
}

// PlanWithIntent builds a plan for an already-decided intent. The orchestrator
// uses it to re-plan after the fallback classifier resolves an unknown intent;
// slot requirements still apply, so a fallback verdict with a missing required
// slot still comes back as a clarification.
func PlanWithIntent(normalized string, ds *Dataset, prior *PriorContext, intent Intent) *QueryPlan {
	slots := map[string]float64{}
	if prior != nil {
		for k, v := range prior.Slots {
			slots[k] = v
		}
	}

	p := &QueryPlan{
		Intent:     intent,
		Normalized: normalized,
		Shape:      ShapeForIntent(intent),
		Slots:      slots,
	}

	// Timeframe: explicit mention wins, then the intent default. Competing
	// timeframes are never silently reconciled.
	ambiguous := TimeframeMentions(normalized) > 1
	if tr := ResolveTimeRange(normalized, ds.Today); tr != nil {
		p.TimeRange = tr
	} else {
		p.TimeRange = defaultRange(intent, ds)
	}

	// Entity: any roster mention attaches a student filter; an ambiguous
	// mention stays unresolved and fails closed downstream.
	if s, frag := FindStudentMention(ds.Students, normalized); s != nil {
		p.Student = &StudentFilter{Name: frag, StudentID: s.ID, Confidence: ConfidenceHigh}
	} else if frag != "" {
		p.Student = &StudentFilter{Name: frag, Confidence: ConfidenceLow}
	}

	// Slot extraction, intent by intent. A required slot that cannot be
	// extracted becomes a named missing parameter, never a silent default.
	var missing []string
	switch intent {
	case IntentWhoEarnedMost, IntentWhoEarnedLeast:
		n := ExtractTopN(normalized)
		if n == 0 {
			n = 1 // singular "who earned the most" means one student
		}
		slots[SlotTopN] = float64(n)
		if intent == IntentWhoEarnedLeast {
			slots[SlotAscending] = 1
		}
	case IntentRevenuePerStudent:
		if n := ExtractTopN(normalized); n > 0 {
			slots[SlotTopN] = float64(n)
		}
	case IntentStudentEarnings:
		if !p.Student.Resolved() {
			missing = append(missing, "student")
		}
	case IntentPercentChangeYoY:
		if a, b, ok := ExtractYearPair(normalized); ok {
			slots[SlotYearA], slots[SlotYearB] = float64(a), float64(b)
		} else if y, ok := ExtractSingleYear(normalized); ok {
			slots[SlotYearA], slots[SlotYearB] = float64(y-1), float64(y)
		} else if _, haveA := slots[SlotYearA]; !haveA {
			missing = append(missing, "year")
		}
	case IntentWhatIfRateChange:
		if d, ok := ExtractRateDelta(normalized); ok {
			slots[SlotRateDelta] = d
		} else if _, have := slots[SlotRateDelta]; !have {
			missing = append(missing, "rate_delta")
		}
	case IntentOnTrackGoal:
		if g, ok := ExtractDollars(normalized); ok {
			slots[SlotGoalDollars] = g
		} else if _, have := slots[SlotGoalDollars]; !have {
			missing = append(missing, "goal_amount")
		}
	case IntentStudentsNeededForTarget:
		if g, ok := ExtractDollars(normalized); ok {
			slots[SlotGoalDollars] = g
		} else if _, have := slots[SlotGoalDollars]; !have {
			missing = append(missing, "target_amount")
		}
		if r, ok := ExtractPerHourRate(normalized); ok {
			slots[SlotAssumedRate] = r
		}
	case IntentWhatIfAddStudents:
		if n, ok := ExtractAddStudents(normalized); ok {
			slots[SlotAddStudents] = float64(n)
		} else if _, have := slots[SlotAddStudents]; !have {
			missing = append(missing, "student_count")
		}
	case IntentWhatIfWeeksOff:
		if n, ok := ExtractWeeksOff(normalized); ok {
			slots[SlotWeeksOff] = float64(n)
		} else if _, have := slots[SlotWeeksOff]; !have {
			missing = append(missing, "weeks")
		}
	case IntentWhatIfLoseTop:
		n, ok := ExtractLoseTopN(normalized)
		if !ok {
			n = 1
		}
		slots[SlotTopN] = float64(n)
	case IntentGeneralFallback:
		missing = append(missing, "intent")
	}

	if ambiguous {
		missing = append(missing, "timeframe")
	}

	if len(missing) > 0 {
		p.NeedsClarification = true
		p.MissingParams = missing
		p.ClarifyQuestion = clarifyQuestionForPlan(intent, normalized, missing)
		// Overwriting the intent and key guarantees the compute stage
		// short-circuits instead of attempting a default answer.
		p.Intent = IntentClarification
		p.TruthKey = "clarification"
		return p
	}

	p.TruthKey = TruthKeyForIntent(intent)
	return p
}

func clarifyQuestionForPlan(in Intent, normalized string, missing []string) string {
	if in == IntentGeneralFallback &&
		financialVocabRe.MatchString(normalized) && attendanceVocabRe.MatchString(normalized) {
		return "Do you want to know about your earnings, or about lesson attendance?"
	}
	return ClarifyQuestionFor(missing[0])
}
