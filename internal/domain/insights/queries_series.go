// internal/domain/insights/queries_series.go
//
// Time-series, comparison and projection truth queries.
package insights

import (
	"math"
	"time"
)

func queryWeeklySeries(ds *Dataset, plan *QueryPlan) Outputs {
	return Outputs{Kind: KindSeries, Series: &SeriesOutput{Buckets: weeklyBuckets(ds, plan.TimeRange)}}
}

// trendDeadZoneCents is the half-vs-half difference below which a cash-flow
// trend reads as flat.
const trendDeadZoneCents = 1

func queryCashFlowTrend(ds *Dataset, plan *QueryPlan) Outputs {
	buckets := weeklyBuckets(ds, plan.TimeRange)
	if len(buckets) < 2 {
		return Outputs{Kind: KindTrend, Trend: &TrendOutput{Weeks: len(buckets), Sufficient: false}}
	}
	half := len(buckets) / 2
	firstAvg := bucketAvg(buckets[:half])
	secondAvg := bucketAvg(buckets[half:])

	dir := TrendFlat
	switch diff := secondAvg - firstAvg; {
	case diff > trendDeadZoneCents:
		dir = TrendUp
	case diff < -trendDeadZoneCents:
		dir = TrendDown
	}
	return Outputs{Kind: KindTrend, Trend: &TrendOutput{
		Direction:     dir,
		FirstHalfAvg:  firstAvg,
		SecondHalfAvg: secondAvg,
		Weeks:         len(buckets),
		Sufficient:    true,
	}}
}

func bucketAvg(buckets []WeekBucket) int64 {
	if len(buckets) == 0 {
		return 0
	}
	var total int64
	for _, b := range buckets {
		total += b.Cents
	}
	return int64(math.Round(float64(total) / float64(len(buckets))))
}

func queryIncomeStability(ds *Dataset, plan *QueryPlan) Outputs {
	buckets := weeklyBuckets(ds, plan.TimeRange)
	if len(buckets) < 2 {
		return Outputs{Kind: KindStability, Stability: &StabilityOutput{
			Class: StabilityInsufficient,
			Weeks: len(buckets),
		}}
	}

	var sum float64
	for _, b := range buckets {
		sum += float64(b.Cents)
	}
	mean := sum / float64(len(buckets))
	// Weeks exist but all total zero: that is a measured outcome, not a lack
	// of data, and gets reported as such.
	if mean == 0 {
		return Outputs{Kind: KindStability, Stability: &StabilityOutput{
			Class: StabilityZeroRevenue,
			Weeks: len(buckets),
		}}
	}

	var sq float64
	for _, b := range buckets {
		d := float64(b.Cents) - mean
		sq += d * d
	}
	cov := math.Sqrt(sq/float64(len(buckets))) / mean

	class := StabilityVolatile
	switch {
	case cov < 0.20:
		class = StabilityStable
	case cov < 0.45:
		class = StabilityModerate
	}
	return Outputs{Kind: KindStability, Stability: &StabilityOutput{
		Class:      class,
		CoV:        cov,
		WeeklyMean: int64(math.Round(mean)),
		Weeks:      len(buckets),
	}}
}

func queryPercentChangeYoY(ds *Dataset, plan *QueryPlan) Outputs {
	yearA := int(plan.Slots[SlotYearA])
	yearB := int(plan.Slots[SlotYearB])
	if yearA == 0 || yearB == 0 {
		return errorOutput("missing_years", "year-over-year comparison needs two years")
	}
	totalA := sumCents(completedOnly(lessonsInRange(ds, yearRange(yearA), 0)))
	totalB := sumCents(completedOnly(lessonsInRange(ds, yearRange(yearB), 0)))

	out := &YoYOutput{YearA: yearA, YearB: yearB, TotalACnts: totalA, TotalBCnts: totalB}
	// A zero base makes the change undefined: nil, never 0% and never an error.
	if totalA != 0 {
		pct := (float64(totalB) - float64(totalA)) / float64(totalA) * 100.0
		out.Percent = &pct
	}
	return Outputs{Kind: KindYoY, YoY: out}
}

// projectYear linearly extrapolates the year-to-date total to a 365-day year.
func projectYear(ds *Dataset) (ytdCents int64, elapsedDays int, projected int64) {
	today := DateOnly(ds.Today)
	ytd := YearToDateRange(today)
	ytdCents = sumCents(completedOnly(lessonsInRange(ds, ytd, 0)))
	jan1 := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	elapsedDays = int(today.Sub(jan1).Hours()/24) + 1
	projected = int64(math.Round(float64(ytdCents) / float64(elapsedDays) * 365.0))
	return ytdCents, elapsedDays, projected
}

func queryAnnualForecast(ds *Dataset, plan *QueryPlan) Outputs {
	ytd, elapsed, projected := projectYear(ds)
	return Outputs{Kind: KindProjection, Projection: &ProjectionOutput{
		YTDCents:       ytd,
		ElapsedDays:    elapsed,
		ProjectedCents: projected,
	}}
}

func queryGoalProjection(ds *Dataset, plan *QueryPlan) Outputs {
	goalCents := int64(math.Round(plan.Slots[SlotGoalDollars] * 100))
	if goalCents <= 0 {
		return errorOutput("missing_goal", "goal projection needs a positive goal amount")
	}
	ytd, elapsed, projected := projectYear(ds)
	out := &ProjectionOutput{
		YTDCents:       ytd,
		ElapsedDays:    elapsed,
		ProjectedCents: projected,
		GoalCents:      goalCents,
		GapCents:       goalCents - projected,
		OnTrack:        projected >= goalCents,
	}
	if remaining := 365 - elapsed; remaining > 0 && out.GapCents > 0 {
		needed := float64(goalCents - ytd)
		out.WeeklyPaceCents = int64(math.Round(needed / float64(remaining) * 7.0))
		out.MonthlyPaceCents = int64(math.Round(needed / float64(remaining) * 30.0))
	}
	return Outputs{Kind: KindProjection, Projection: out}
}
