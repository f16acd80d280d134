// internal/domain/insights/queries_rankings.go
//
// Argmax/argmin, group-by and filter truth queries over per-student rows.
package insights

import (
	"sort"
	"time"
)

func queryRevenuePerStudent(ds *Dataset, plan *QueryPlan) Outputs {
	rows := perStudentRows(ds, plan.TimeRange)
	ascending := plan.Slots[SlotAscending] == 1
	sort.SliceStable(rows, func(i, j int) bool {
		if ascending {
			return rows[i].Cents < rows[j].Cents
		}
		return rows[i].Cents > rows[j].Cents
	})

	requested := int(plan.Slots[SlotTopN])
	truncated := false
	if requested > 0 && requested < len(rows) {
		rows = rows[:requested]
	} else if requested > len(rows) {
		truncated = true // fewer earners than asked for; the formatter says "only"
	}
	return Outputs{Kind: KindRanking, Ranking: &RankingOutput{
		Rows:      rows,
		Requested: requested,
		Truncated: truncated,
		Ascending: ascending,
	}}
}

// rateRanking ranks every student by effective hourly rate; students with no
// completed history in range enter at their configured schedule rate.
func rateRanking(ds *Dataset, tr *TimeRange, ascending bool) []RankRow {
	rows := perStudentRows(ds, tr)
	have := make(map[int64]bool, len(rows))
	for _, r := range rows {
		have[r.StudentID] = true
	}
	for _, s := range ds.Students {
		if have[s.ID] || !s.ActiveOn(ds.Today) {
			continue
		}
		rows = append(rows, RankRow{
			StudentID:    s.ID,
			Name:         s.FullName(),
			RateCentsPHr: s.RateCentsOn(ds.Today),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if ascending {
			return rows[i].RateCentsPHr < rows[j].RateCentsPHr
		}
		return rows[i].RateCentsPHr > rows[j].RateCentsPHr
	})
	return rows
}

func queryHighestHourlyRate(ds *Dataset, plan *QueryPlan) Outputs {
	rows := rateRanking(ds, plan.TimeRange, false)
	if len(rows) == 0 {
		return errorOutput("no_students", "no students on the roster")
	}
	return Outputs{Kind: KindRanking, Ranking: &RankingOutput{Rows: rows[:1], Requested: 1, ByRate: true}}
}

func queryLowestHourlyRate(ds *Dataset, plan *QueryPlan) Outputs {
	rows := rateRanking(ds, plan.TimeRange, true)
	if len(rows) == 0 {
		return errorOutput("no_students", "no students on the roster")
	}
	return Outputs{Kind: KindRanking, Ranking: &RankingOutput{Rows: rows[:1], Requested: 1, Ascending: true, ByRate: true}}
}

// attendanceRanking counts lessons per student over all rows in range,
// keeping either the missed or the completed ones.
func attendanceRanking(ds *Dataset, tr *TimeRange, missed bool) []RankRow {
	counts := map[int64]int{}
	for _, l := range lessonsInRange(ds, tr, 0) {
		if l.Completed == missed {
			continue
		}
		counts[l.StudentID]++
	}
	rows := make([]RankRow, 0, len(counts))
	for id, n := range counts {
		row := RankRow{StudentID: id, Lessons: n}
		if s := findStudent(ds, id); s != nil {
			row.Name = s.FullName()
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Lessons != rows[j].Lessons {
			return rows[i].Lessons > rows[j].Lessons
		}
		return rows[i].StudentID < rows[j].StudentID
	})
	return rows
}

func queryMostMissed(ds *Dataset, plan *QueryPlan) Outputs {
	rows := attendanceRanking(ds, plan.TimeRange, true)
	if len(rows) == 0 {
		return Outputs{Kind: KindRanking, Ranking: &RankingOutput{ByMissed: true}}
	}
	return Outputs{Kind: KindRanking, Ranking: &RankingOutput{Rows: rows[:1], Requested: 1, ByMissed: true}}
}

func queryMostCompleted(ds *Dataset, plan *QueryPlan) Outputs {
	rows := attendanceRanking(ds, plan.TimeRange, false)
	if len(rows) == 0 {
		return Outputs{Kind: KindRanking, Ranking: &RankingOutput{ByAttended: true}}
	}
	return Outputs{Kind: KindRanking, Ranking: &RankingOutput{Rows: rows[:1], Requested: 1, ByAttended: true}}
}

func queryBelowAverageRate(ds *Dataset, plan *QueryPlan) Outputs {
	avg, ok := weightedAverageRate(ds, plan.TimeRange)
	if !ok {
		return errorOutput("no_completed_minutes", "no completed lesson time in range to derive an average rate")
	}
	var below []RankRow
	for _, r := range rateRanking(ds, plan.TimeRange, true) {
		if r.RateCentsPHr < avg {
			below = append(below, r)
		}
	}
	return Outputs{Kind: KindRanking, Ranking: &RankingOutput{Rows: below, Ascending: true, ByRate: true}}
}

func queryDayOfWeekMax(ds *Dataset, plan *QueryPlan) Outputs {
	totals := map[time.Weekday]int64{}
	for _, l := range completedOnly(lessonsInRange(ds, plan.TimeRange, 0)) {
		totals[DateOnly(l.Date).Weekday()] += l.AmountCents
	}
	if len(totals) == 0 {
		return Outputs{Kind: KindDayOfWeek, DayOfWeek: &DayOfWeekOutput{Found: false}}
	}
	best := time.Sunday
	var bestCents int64 = -1
	// Iterate in weekday order so ties break deterministically.
	for d := time.Sunday; d <= time.Saturday; d++ {
		if c, ok := totals[d]; ok && c > bestCents {
			best, bestCents = d, c
		}
	}
	return Outputs{Kind: KindDayOfWeek, DayOfWeek: &DayOfWeekOutput{Day: best, Cents: bestCents, Found: true}}
}
