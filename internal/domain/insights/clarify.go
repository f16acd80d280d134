// internal/domain/insights/clarify.go
package insights

import "strings"

// RewriteReply deterministically turns a short clarification reply ("Leo
// Chen", "2024", "$10") into a full restated question using the prior turn's
// missing-parameter signature. The rewritten text re-enters the pipeline from
// the normalizer; a reply is never interpreted in isolation.
func RewriteReply(prior *PriorContext, reply string) string {
	reply = strings.TrimSpace(reply)
	if prior == nil || prior.OriginalQuestion == "" || len(prior.MissingParams) == 0 {
		return reply
	}

	question := prior.OriginalQuestion
	for _, p := range prior.MissingParams {
		if p == "timeframe" {
			// The retained question still names the competing timeframes;
			// strip them so the reply's choice is the only one left.
			question = stripTimeframes(Normalize(question))
			break
		}
	}
	switch prior.MissingParams[0] {
	case "student":
		return question + " for student " + reply
	case "year":
		return question + " in " + reply
	case "rate_delta":
		return question + " by " + reply
	default:
		return question + " " + reply
	}
}

// NextContext builds the context the caller should carry into the next turn.
// originalQuestion is the question as asked this turn (pre-normalization).
func NextContext(originalQuestion string, plan *QueryPlan, routed Intent) *PriorContext {
	next := &PriorContext{
		Intent:           routed,
		TimeRange:        plan.TimeRange,
		Student:          plan.Student,
		Slots:            plan.Slots,
		OriginalQuestion: originalQuestion,
	}
	if plan.NeedsClarification {
		next.State = StateAwaitingClarification
		next.MissingParams = plan.MissingParams
	} else {
		next.State = StateAnswered
	}
	return next
}
