// internal/domain/insights/formatter.go
package insights

import (
	"fmt"
	"strings"
)

// FormatCents renders integer minor units as display dollars, with thousands
// grouping and always two decimals. This is the only place cents become
// dollars; everything upstream stays in integers.
func FormatCents(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	dollars := cents / 100
	rem := cents % 100
	s := groupThousands(dollars)
	out := fmt.Sprintf("$%s.%02d", s, rem)
	if neg {
		return "-" + out
	}
	return out
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// Format renders a verified result as short deterministic text. One template
// per output kind; zero-result states get a specific empty-state sentence so a
// genuine $0 is never indistinguishable from "no data".
func Format(res *Result) string {
	o := res.Outputs
	switch o.Kind {
	case KindClarify:
		return o.Clarify.Question
	case KindError:
		return "I'm not confident in that answer. Could you rephrase or narrow the question?"
	case KindTotal:
		return formatTotal(o.Total)
	case KindCount:
		return formatCount(o.Count)
	case KindRate:
		return formatRate(o.Rate)
	case KindRanking:
		return formatRanking(o.Ranking)
	case KindDayOfWeek:
		return formatDayOfWeek(o.DayOfWeek)
	case KindYoY:
		return formatYoY(o.YoY)
	case KindSeries:
		return formatSeries(o.Series)
	case KindTrend:
		return formatTrend(o.Trend)
	case KindStability:
		return formatStability(o.Stability)
	case KindProjection:
		return formatProjection(o.Projection)
	case KindSimulation:
		return formatSimulation(o.Simulation)
	case KindGuidance:
		return formatGuidance(o.Guidance)
	}
	return "I'm not confident in that answer. Could you rephrase or narrow the question?"
}

func formatTotal(t *TotalOutput) string {
	switch t.Cause {
	case ZeroCauseNoRows:
		if t.StudentName != "" {
			return fmt.Sprintf("I found no lessons for **%s** in that period.", t.StudentName)
		}
		return "I found no lessons in that period."
	case ZeroCauseNoneCompleted:
		return "There are lessons in that period, but none are marked completed yet."
	case ZeroCauseZeroAmounts:
		return "Completed lessons exist in that period, but their recorded amounts add up to $0.00."
	}
	if t.StudentName != "" {
		return fmt.Sprintf("**%s** — %s across %d completed lessons.", t.StudentName, FormatCents(t.Cents), t.LessonCount)
	}
	return fmt.Sprintf("You earned %s across %d completed lessons (%.1f hours).", FormatCents(t.Cents), t.LessonCount, t.Hours)
}

func formatCount(c *CountOutput) string {
	if c.Lessons == 0 {
		return "I found no lessons in that period."
	}
	if c.Unit == "hours" {
		return fmt.Sprintf("You taught %.1f hours across %d lessons.", c.Hours, c.Lessons)
	}
	return fmt.Sprintf("You had %d lessons (%.1f hours).", c.Lessons, c.Hours)
}

func formatRate(r *RateOutput) string {
	if !r.Defined {
		return "There is no completed lesson time in that period, so the rate is undefined."
	}
	if r.Unit == "lesson" {
		return fmt.Sprintf("You averaged %s per lesson.", FormatCents(r.CentsPerUnit))
	}
	return fmt.Sprintf("Your average rate is %s/hr.", FormatCents(r.CentsPerUnit))
}

func formatRanking(rk *RankingOutput) string {
	if len(rk.Rows) == 0 {
		switch {
		case rk.ByMissed:
			return "No missed lessons in that period."
		case rk.ByAttended:
			return "No completed lessons in that period."
		case rk.ByRate:
			return "No students are below the average rate in that period."
		}
		return "No students earned anything in that period."
	}

	rowText := func(r RankRow) string {
		switch {
		case rk.ByRate:
			return fmt.Sprintf("**%s** — %s/hr", r.Name, FormatCents(r.RateCentsPHr))
		case rk.ByMissed:
			return fmt.Sprintf("**%s** — %d missed lessons", r.Name, r.Lessons)
		case rk.ByAttended:
			return fmt.Sprintf("**%s** — %d completed lessons", r.Name, r.Lessons)
		}
		return fmt.Sprintf("**%s** — %s", r.Name, FormatCents(r.Cents))
	}

	if len(rk.Rows) == 1 && rk.Requested == 1 {
		return rowText(rk.Rows[0])
	}

	var b strings.Builder
	if rk.Truncated && rk.Requested > len(rk.Rows) {
		fmt.Fprintf(&b, "You only have %d students with results in that period:\n", len(rk.Rows))
	}
	for _, r := range rk.Rows {
		b.WriteString("• ")
		b.WriteString(rowText(r))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatDayOfWeek(d *DayOfWeekOutput) string {
	if !d.Found {
		return "No completed lessons in that period to compare days by."
	}
	return fmt.Sprintf("**%s** is your best day — %s.", d.Day.String(), FormatCents(d.Cents))
}

func formatYoY(y *YoYOutput) string {
	if y.Percent == nil {
		return fmt.Sprintf("%d has no completed earnings, so a percent change to %d is undefined.", y.YearA, y.YearB)
	}
	direction := "up"
	pct := *y.Percent
	if pct < 0 {
		direction = "down"
		pct = -pct
	}
	return fmt.Sprintf("Your earnings went %s **%.1f%%** from %d (%s) to %d (%s).",
		direction, pct, y.YearA, FormatCents(y.TotalACnts), y.YearB, FormatCents(y.TotalBCnts))
}

func formatSeries(s *SeriesOutput) string {
	if len(s.Buckets) == 0 {
		return "No weeks in that period to report."
	}
	var b strings.Builder
	for _, w := range s.Buckets {
		fmt.Fprintf(&b, "• week of %s — %s\n", w.Start.Format("Jan 2"), FormatCents(w.Cents))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatTrend(t *TrendOutput) string {
	if !t.Sufficient {
		return "Not enough weekly data in that period to call a trend."
	}
	switch t.Direction {
	case TrendUp:
		return fmt.Sprintf("Your cash flow is trending **up**: weekly average moved from %s to %s.",
			FormatCents(t.FirstHalfAvg), FormatCents(t.SecondHalfAvg))
	case TrendDown:
		return fmt.Sprintf("Your cash flow is trending **down**: weekly average moved from %s to %s.",
			FormatCents(t.FirstHalfAvg), FormatCents(t.SecondHalfAvg))
	}
	return fmt.Sprintf("Your cash flow is **flat** at about %s per week.", FormatCents(t.SecondHalfAvg))
}

func formatStability(s *StabilityOutput) string {
	if s.Class == StabilityInsufficient {
		return "Not enough weekly data in that period to judge income stability."
	}
	if s.Class == StabilityZeroRevenue {
		return "Every week in that period totals $0.00, so there is no income variation to measure."
	}
	return fmt.Sprintf("Your income is **%s** (weekly variation %.0f%%, around %s per week).",
		string(s.Class), s.CoV*100, FormatCents(s.WeeklyMean))
}

func formatProjection(p *ProjectionOutput) string {
	if p.GoalCents == 0 {
		return fmt.Sprintf("You've earned %s so far this year; at this pace you'd finish the year at **%s**.",
			FormatCents(p.YTDCents), FormatCents(p.ProjectedCents))
	}
	if p.OnTrack {
		return fmt.Sprintf("You're **on track**: %s so far projects to %s against your %s goal.",
			FormatCents(p.YTDCents), FormatCents(p.ProjectedCents), FormatCents(p.GoalCents))
	}
	return fmt.Sprintf("You're **behind**: %s so far projects to %s against your %s goal. You'd need about %s/week (%s/month) to close the gap.",
		FormatCents(p.YTDCents), FormatCents(p.ProjectedCents), FormatCents(p.GoalCents),
		FormatCents(p.WeeklyPaceCents), FormatCents(p.MonthlyPaceCents))
}

func formatSimulation(s *SimulationOutput) string {
	switch s.Scenario {
	case "rate_change":
		return fmt.Sprintf("Raising rates by %s/hr over the same %.1f hours would have added **%s** (total %s).",
			FormatCents(s.RateDeltaCentsPHr), s.HoursInRange, FormatCents(s.DeltaCents), FormatCents(s.ProjectedCents))
	case "add_students":
		return fmt.Sprintf("Adding %d students at your current average of %s each would add about **%s** (total %s).",
			s.StudentsAdded, FormatCents(s.PerStudentCents), FormatCents(s.DeltaCents), FormatCents(s.ProjectedCents))
	case "weeks_off":
		return fmt.Sprintf("Taking %d weeks off at your average of %s/week would cost about **%s** (total %s).",
			s.WeeksOff, FormatCents(s.WeeklyAvgCents), FormatCents(-s.DeltaCents), FormatCents(s.ProjectedCents))
	case "lose_top_students":
		var names []string
		for _, r := range s.LostStudents {
			names = append(names, "**"+r.Name+"**")
		}
		return fmt.Sprintf("Losing %s would cost **%s** (total %s).",
			strings.Join(names, ", "), FormatCents(-s.DeltaCents), FormatCents(s.ProjectedCents))
	case "students_needed":
		return fmt.Sprintf("You'd need about **%d students** at %s/hr (%.1f hrs/week each) to reach %s.",
			s.StudentsNeeded, FormatCents(s.AssumedRateCents), s.AssumedWeeklyHours, FormatCents(s.TargetCents))
	}
	return "I'm not confident in that answer. Could you rephrase or narrow the question?"
}

func formatGuidance(g *GuidanceOutput) string {
	if g.BaseCents == 0 {
		return "No completed earnings in that period, so there's nothing to set aside yet."
	}
	return fmt.Sprintf("On %s of earnings, a common rule of thumb is to set aside %s–%s (25–30%%) for taxes. Not tax advice.",
		FormatCents(g.BaseCents), FormatCents(g.ReserveLowCents), FormatCents(g.ReserveHiCents))
}
