// internal/domain/insights/verifier.go
package insights

import "fmt"

// rateSanityCeilingCents is a generous per-hour ceiling. Anything above it is
// almost certainly a unit bug (cents read as dollars), not a real rate.
const rateSanityCeilingCents = 100_000 // $1,000/hr

// VerifyReport is the verifier's verdict on one computed result.
type VerifyReport struct {
	Passed     bool
	Errors     []string
	Confidence Confidence
}

// Verify sanity-checks a computed result against the plan's invariants and
// downgrades confidence to low whenever any check fails, regardless of the
// confidence the engine reported.
func Verify(plan *QueryPlan, res *Result) VerifyReport {
	var errs []string

	if res.Outputs.Kind == KindError {
		msg := "computation failed"
		if res.Outputs.Error != nil {
			msg = res.Outputs.Error.Code + ": " + res.Outputs.Error.Message
		}
		errs = append(errs, msg)
	}

	// A clarification plan must short-circuit into a clarification result,
	// and only a clarification plan may produce one.
	if plan.TruthKey == "clarification" && res.Outputs.Kind != KindClarify {
		errs = append(errs, "clarification plan produced a non-clarification result")
	}
	if plan.TruthKey != "clarification" && res.Outputs.Kind == KindClarify {
		errs = append(errs, "non-clarification plan produced a clarification result")
	}

	if plan.TruthKey != "clarification" && res.Confidence == ConfidenceLow && !hasMetric(res.Outputs) {
		errs = append(errs, "low-confidence result carries no recognizable metric")
	}

	errs = append(errs, checkNonNegative(res.Outputs)...)
	errs = append(errs, checkRateCeiling(res.Outputs)...)

	report := VerifyReport{Passed: len(errs) == 0, Errors: errs, Confidence: res.Confidence}
	if !report.Passed {
		report.Confidence = ConfidenceLow
	}
	return report
}

func hasMetric(o Outputs) bool {
	switch o.Kind {
	case KindTotal:
		return o.Total != nil
	case KindCount:
		return o.Count != nil
	case KindRate:
		return o.Rate != nil
	case KindRanking:
		return o.Ranking != nil
	case KindDayOfWeek:
		return o.DayOfWeek != nil
	case KindYoY:
		return o.YoY != nil
	case KindSeries:
		return o.Series != nil
	case KindTrend:
		return o.Trend != nil
	case KindStability:
		return o.Stability != nil
	case KindProjection:
		return o.Projection != nil
	case KindSimulation:
		return o.Simulation != nil
	case KindGuidance:
		return o.Guidance != nil
	}
	return false
}

func checkNonNegative(o Outputs) []string {
	var errs []string
	if o.Total != nil && o.Total.Cents < 0 {
		errs = append(errs, fmt.Sprintf("negative total: %d cents", o.Total.Cents))
	}
	if o.Ranking != nil {
		for _, r := range o.Ranking.Rows {
			if r.Cents < 0 {
				errs = append(errs, fmt.Sprintf("negative per-student total for %s: %d cents", r.Name, r.Cents))
			}
		}
	}
	if o.Projection != nil && o.Projection.YTDCents < 0 {
		errs = append(errs, fmt.Sprintf("negative year-to-date total: %d cents", o.Projection.YTDCents))
	}
	if o.Guidance != nil && o.Guidance.BaseCents < 0 {
		errs = append(errs, fmt.Sprintf("negative guidance base: %d cents", o.Guidance.BaseCents))
	}
	return errs
}

func checkRateCeiling(o Outputs) []string {
	var errs []string
	if o.Rate != nil && o.Rate.Unit == "hour" && o.Rate.CentsPerUnit > rateSanityCeilingCents {
		errs = append(errs, fmt.Sprintf("hourly rate %d cents exceeds sanity ceiling", o.Rate.CentsPerUnit))
	}
	if o.Ranking != nil {
		for _, r := range o.Ranking.Rows {
			if r.RateCentsPHr > rateSanityCeilingCents {
				errs = append(errs, fmt.Sprintf("hourly rate %d cents for %s exceeds sanity ceiling", r.RateCentsPHr, r.Name))
			}
		}
	}
	return errs
}
