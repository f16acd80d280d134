// internal/app/insights_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"tutor_insights_bot/internal/domain/classifier"
	"tutor_insights_bot/internal/domain/insights"
	"tutor_insights_bot/internal/domain/lesson"
	"tutor_insights_bot/internal/domain/student"

	"github.com/sirupsen/logrus"
)

// AskRequest carries one question into the pipeline. Snapshot may be supplied
// by the caller (tests, digest) or left nil to trigger a fresh load from the
// repositories; prior is the previous turn's context, if any.
type AskRequest struct {
	UserID   int64
	Question string
	Prior    *insights.PriorContext
	Snapshot *insights.Dataset
	Today    time.Time // zero means time.Now()
	Debug    insights.DebugOptions
}

// Metadata is the human-readable explanation attached to every answer.
type Metadata struct {
	LessonsConsidered int
	RangeLabel        string
	Aggregation       string
}

// AskResponse is the pipeline's complete output for one turn.
type AskResponse struct {
	Text               string
	Result             *insights.Result
	NeedsClarification bool
	ClarifyingQuestion string
	Metadata           Metadata
	Trace              *insights.Trace
	Next               *insights.PriorContext
}

// InsightsService sequences the question-answering pipeline: normalize, route,
// plan, compute, verify, format. The fallback classifier is consulted at most
// once per turn and only when the rule router resolved nothing at all.
type InsightsService struct {
	lessonRepo  lesson.Repository
	studentRepo student.Repository
	fallback    classifier.Classifier // may be nil
	logger      *logrus.Entry
}

func NewInsightsService(
	lr lesson.Repository,
	sr student.Repository,
	fb classifier.Classifier,
	logger *logrus.Entry,
) *InsightsService {
	return &InsightsService{
		lessonRepo:  lr,
		studentRepo: sr,
		fallback:    fb,
		logger:      logger,
	}
}

// aggregationDescriptions explains, per truth-query key, what was computed.
var aggregationDescriptions = map[string]string{
	"earnings_in_period":             "sum of completed lesson amounts in range",
	"student_earnings_in_period":     "sum of one student's completed lesson amounts in range",
	"lessons_count_in_period":        "count of lessons in range",
	"hours_total_in_period":          "sum of lesson minutes in range",
	"average_hourly_rate":            "completed revenue over completed minutes, scaled to an hour",
	"revenue_per_lesson":             "completed revenue over completed lesson count",
	"revenue_per_student_in_period":  "completed revenue grouped by student, ranked",
	"highest_hourly_rate_student":    "argmax of per-student effective hourly rate",
	"lowest_hourly_rate_student":     "argmin of per-student effective hourly rate",
	"most_missed_lessons_student":    "argmax of per-student missed lesson count",
	"most_completed_lessons_student": "argmax of per-student completed lesson count",
	"students_below_average_rate":    "students under the cohort's weighted average hourly rate",
	"day_of_week_max_earnings":       "completed revenue grouped by weekday, argmax",
	"percent_change_yoy":             "two whole-year totals compared as a percentage",
	"annual_income_forecast":         "year-to-date total extrapolated to a 365-day year",
	"goal_projection":                "year-to-date extrapolation compared against the goal",
	"tax_reserve_guidance":           "25-30% reserve band over completed revenue in range",
	"cash_flow_trend":                "weekly buckets, first-half vs second-half averages",
	"income_stability":               "coefficient of variation of weekly totals",
	"weekly_revenue_series":          "completed revenue bucketed by calendar week",
	"sim_rate_change":                "completed hours in range times the rate delta",
	"sim_add_students":               "average revenue per active student times the added count",
	"sim_weeks_off":                  "average weekly revenue times the weeks off",
	"sim_lose_top_students":          "range total minus the top earners' contributions",
	"sim_students_needed":            "target divided by per-student annual yield, rounded up",
	"clarification":                  "no aggregation; more information is needed",
}

// AskQuestion answers one natural-language question. All failures degrade to a
// clarification or low-confidence answer; the only error returned is a failed
// snapshot load.
func (s *InsightsService) AskQuestion(ctx context.Context, req AskRequest) (*AskResponse, error) {
	today := req.Today
	if today.IsZero() {
		today = time.Now()
	}

	// A clarification reply is rewritten into a full question before it
	// re-enters the pipeline; it is never interpreted in isolation.
	question := req.Question
	if req.Prior != nil && req.Prior.State == insights.StateAwaitingClarification {
		question = insights.RewriteReply(req.Prior, req.Question)
		s.logger.WithField("rewritten", question).Debug("Resumed clarification reply")
	}

	ds := req.Snapshot
	if ds == nil {
		loaded, err := s.loadSnapshot(ctx, req.UserID, today)
		if err != nil {
			return nil, err
		}
		ds = loaded
	}
	if ds.Today.IsZero() {
		ds.Today = today
	}

	normalized := insights.Normalize(question)
	routed, ruleID := insights.Route(normalized)
	plan := insights.Plan(normalized, ds, req.Prior)

	trace := &insights.Trace{
		RawQuestion:  question,
		Normalized:   normalized,
		RoutedIntent: routed,
		MatchedRule:  ruleID,
	}
	if plan.TimeRange != nil {
		trace.RangeLabel = plan.TimeRange.Label
	}
	if plan.Student != nil {
		trace.EntityFragment = plan.Student.Name
		trace.EntityResolvedID = plan.Student.StudentID
	}

	// The escape hatch: only an entirely-unknown intent may consult the
	// external classifier, and only once. A miss leaves the clarification
	// plan untouched.
	if plan.NeedsClarification && hasParam(plan.MissingParams, "intent") && s.fallback != nil {
		trace.FallbackTried = true
		if cls, err := s.fallback.Classify(ctx, question, today, string(req.priorIntent())); err == nil {
			if in, ok := insights.IntentFromExternal(cls.Intent); ok {
				trace.FallbackIntent = cls.Intent
				prior := req.Prior
				if len(cls.Slots) > 0 {
					merged := &insights.PriorContext{Slots: map[string]float64{}}
					if prior != nil {
						for k, v := range prior.Slots {
							merged.Slots[k] = v
						}
					}
					for k, v := range cls.Slots {
						merged.Slots[k] = v
					}
					prior = merged
				}
				plan = insights.PlanWithIntent(normalized, ds, prior, in)
				routed = in
			}
		} else if err != classifier.ErrUnavailable {
			s.logger.WithError(err).Warn("Fallback classifier failed")
		}
	}
	trace.TruthKey = plan.TruthKey

	result := insights.Run(plan.TruthKey, ds, plan)
	report := insights.Verify(plan, result)
	result.Confidence = report.Confidence
	result.Warnings = append(result.Warnings, report.Errors...)
	trace.VerifyErrors = report.Errors

	var text string
	if report.Passed || plan.TruthKey == "clarification" {
		text = insights.Format(result)
	} else {
		// A failed sanity check is never shown as a number.
		text = "I'm not confident in that answer. Could you rephrase or narrow the question?"
		s.logger.WithField("errors", report.Errors).Warn("Verifier rejected a computed result")
	}

	resp := &AskResponse{
		Text:               text,
		Result:             result,
		NeedsClarification: plan.NeedsClarification,
		ClarifyingQuestion: plan.ClarifyQuestion,
		Metadata:           s.buildMetadata(ds, plan),
		Trace:              trace,
		Next:               insights.NextContext(question, plan, routed),
	}
	if req.Debug.Verbose {
		s.logger.WithFields(logrus.Fields{
			"intent":  routed,
			"rule":    ruleID,
			"key":     plan.TruthKey,
			"clarify": plan.NeedsClarification,
		}).Info("Answered question")
	}
	return resp, nil
}

func (req AskRequest) priorIntent() insights.Intent {
	if req.Prior == nil {
		return ""
	}
	return req.Prior.Intent
}

func hasParam(params []string, name string) bool {
	for _, p := range params {
		if p == name {
			return true
		}
	}
	return false
}

func (s *InsightsService) loadSnapshot(ctx context.Context, userID int64, today time.Time) (*insights.Dataset, error) {
	lessons, err := s.lessonRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lessons for user %d: %w", userID, err)
	}
	students, err := s.studentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load students for user %d: %w", userID, err)
	}
	return &insights.Dataset{Lessons: lessons, Students: students, Today: today}, nil
}

func (s *InsightsService) buildMetadata(ds *insights.Dataset, plan *insights.QueryPlan) Metadata {
	md := Metadata{Aggregation: aggregationDescriptions[plan.TruthKey]}
	if md.Aggregation == "" {
		md.Aggregation = "unknown aggregation"
	}
	if plan.TimeRange != nil {
		md.RangeLabel = plan.TimeRange.Label
		for _, l := range ds.Lessons {
			if plan.TimeRange.Contains(insights.DateOnly(l.Date)) {
				md.LessonsConsidered++
			}
		}
	} else {
		md.LessonsConsidered = len(ds.Lessons)
	}
	return md
}
