// internal/domain/insights/queries_sim.go
//
// What-if simulation truth queries. Every scenario starts from the actual
// completed totals in range and applies one deterministic adjustment.
package insights

import (
	"math"
	"sort"
)

func querySimRateChange(ds *Dataset, plan *QueryPlan) Outputs {
	deltaPerHour := int64(math.Round(plan.Slots[SlotRateDelta] * 100))
	completed := completedOnly(lessonsInRange(ds, plan.TimeRange, 0))
	hours := float64(sumMinutes(completed)) / 60.0
	base := sumCents(completed)
	delta := int64(math.Round(hours * float64(deltaPerHour)))
	return Outputs{Kind: KindSimulation, Simulation: &SimulationOutput{
		Scenario:          "rate_change",
		BaseCents:         base,
		DeltaCents:        delta,
		ProjectedCents:    base + delta,
		RateDeltaCentsPHr: deltaPerHour,
		HoursInRange:      hours,
	}}
}

func querySimAddStudents(ds *Dataset, plan *QueryPlan) Outputs {
	n := int(plan.Slots[SlotAddStudents])
	if n <= 0 {
		return errorOutput("missing_student_count", "add-students simulation needs a positive count")
	}
	var active int
	for _, s := range ds.Students {
		if s.ActiveOn(ds.Today) {
			active++
		}
	}
	if active == 0 {
		return errorOutput("no_active_students", "no active students to extrapolate average revenue from")
	}
	base := sumCents(completedOnly(lessonsInRange(ds, plan.TimeRange, 0)))
	perStudent := int64(math.Round(float64(base) / float64(active)))
	delta := perStudent * int64(n)
	return Outputs{Kind: KindSimulation, Simulation: &SimulationOutput{
		Scenario:        "add_students",
		BaseCents:       base,
		DeltaCents:      delta,
		ProjectedCents:  base + delta,
		StudentsAdded:   n,
		PerStudentCents: perStudent,
	}}
}

func querySimWeeksOff(ds *Dataset, plan *QueryPlan) Outputs {
	weeks := int(plan.Slots[SlotWeeksOff])
	if weeks <= 0 {
		return errorOutput("missing_weeks", "weeks-off simulation needs a positive week count")
	}
	buckets := weeklyBuckets(ds, plan.TimeRange)
	weeklyAvg := bucketAvg(buckets)
	base := sumCents(completedOnly(lessonsInRange(ds, plan.TimeRange, 0)))
	delta := -weeklyAvg * int64(weeks)
	return Outputs{Kind: KindSimulation, Simulation: &SimulationOutput{
		Scenario:       "weeks_off",
		BaseCents:      base,
		DeltaCents:     delta,
		ProjectedCents: base + delta,
		WeeksOff:       weeks,
		WeeklyAvgCents: weeklyAvg,
	}}
}

func querySimLoseTop(ds *Dataset, plan *QueryPlan) Outputs {
	n := int(plan.Slots[SlotTopN])
	if n <= 0 {
		n = 1
	}
	rows := perStudentRows(ds, plan.TimeRange)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Cents > rows[j].Cents })
	if n > len(rows) {
		n = len(rows)
	}
	lost := rows[:n]
	base := sumCents(completedOnly(lessonsInRange(ds, plan.TimeRange, 0)))
	var lostCents int64
	for _, r := range lost {
		lostCents += r.Cents
	}
	return Outputs{Kind: KindSimulation, Simulation: &SimulationOutput{
		Scenario:       "lose_top_students",
		BaseCents:      base,
		DeltaCents:     -lostCents,
		ProjectedCents: base - lostCents,
		LostStudents:   lost,
	}}
}

// assumedWeeklyHours is the average scheduled lesson length of the active
// roster, the per-student weekly commitment the target simulation assumes.
func assumedWeeklyHours(ds *Dataset) float64 {
	var minutes, count int
	for _, s := range ds.Students {
		if !s.ActiveOn(ds.Today) || s.ScheduleDurationMins <= 0 {
			continue
		}
		minutes += s.ScheduleDurationMins
		count++
	}
	if count == 0 {
		return 1.0
	}
	return float64(minutes) / float64(count) / 60.0
}

func querySimStudentsNeeded(ds *Dataset, plan *QueryPlan) Outputs {
	targetCents := int64(math.Round(plan.Slots[SlotGoalDollars] * 100))
	if targetCents <= 0 {
		return errorOutput("missing_target", "students-needed simulation needs a positive target")
	}

	rateCents := int64(math.Round(plan.Slots[SlotAssumedRate] * 100))
	if rateCents <= 0 {
		if avg, ok := weightedAverageRate(ds, plan.TimeRange); ok {
			rateCents = avg
		}
	}
	if rateCents <= 0 {
		return errorOutput("missing_rate", "no hourly rate stated and none derivable from lesson history")
	}

	weeklyHours := assumedWeeklyHours(ds)
	annualPerStudent := float64(rateCents) * weeklyHours * 52.0
	if annualPerStudent <= 0 {
		return errorOutput("zero_yield", "per-student annual yield is zero")
	}
	needed := int(math.Ceil(float64(targetCents) / annualPerStudent))
	return Outputs{Kind: KindSimulation, Simulation: &SimulationOutput{
		Scenario:           "students_needed",
		StudentsNeeded:     needed,
		TargetCents:        targetCents,
		AssumedRateCents:   rateCents,
		AssumedWeeklyHours: weeklyHours,
	}}
}
