// internal/domain/insights/queries_totals.go
//
// Sum, count and ratio truth queries. Financial metrics aggregate completed
// lessons only; attendance metrics aggregate all lessons.
package insights

import "math"

func queryEarningsInPeriod(ds *Dataset, plan *QueryPlan) Outputs {
	all := lessonsInRange(ds, plan.TimeRange, 0)
	completed := completedOnly(all)
	total := sumCents(completed)
	return Outputs{Kind: KindTotal, Total: &TotalOutput{
		Cents:       total,
		LessonCount: len(completed),
		Hours:       float64(sumMinutes(completed)) / 60.0,
		Cause:       diagnoseZero(all, completed, total),
	}}
}

func queryStudentEarnings(ds *Dataset, plan *QueryPlan) Outputs {
	if !plan.Student.Resolved() {
		return errorOutput("student_not_resolved", "the student filter did not resolve to a single student")
	}
	all := lessonsInRange(ds, plan.TimeRange, plan.Student.StudentID)
	completed := completedOnly(all)
	total := sumCents(completed)
	name := plan.Student.Name
	if s := findStudent(ds, plan.Student.StudentID); s != nil {
		name = s.FullName()
	}
	return Outputs{Kind: KindTotal, Total: &TotalOutput{
		Cents:       total,
		LessonCount: len(completed),
		Hours:       float64(sumMinutes(completed)) / 60.0,
		StudentName: name,
		Cause:       diagnoseZero(all, completed, total),
	}}
}

func queryLessonsCount(ds *Dataset, plan *QueryPlan) Outputs {
	var studentID int64
	if plan.Student.Resolved() {
		studentID = plan.Student.StudentID
	}
	all := lessonsInRange(ds, plan.TimeRange, studentID)
	return Outputs{Kind: KindCount, Count: &CountOutput{
		Lessons: len(all),
		Hours:   float64(sumMinutes(all)) / 60.0,
		Unit:    "lessons",
	}}
}

func queryHoursTotal(ds *Dataset, plan *QueryPlan) Outputs {
	var studentID int64
	if plan.Student.Resolved() {
		studentID = plan.Student.StudentID
	}
	all := lessonsInRange(ds, plan.TimeRange, studentID)
	return Outputs{Kind: KindCount, Count: &CountOutput{
		Lessons: len(all),
		Hours:   float64(sumMinutes(all)) / 60.0,
		Unit:    "hours",
	}}
}

func queryAverageHourlyRate(ds *Dataset, plan *QueryPlan) Outputs {
	completed := completedOnly(lessonsInRange(ds, plan.TimeRange, 0))
	minutes := sumMinutes(completed)
	if minutes == 0 {
		return Outputs{Kind: KindRate, Rate: &RateOutput{Unit: "hour", Defined: false}}
	}
	rate := int64(math.Round(float64(sumCents(completed)) / float64(minutes) * 60.0))
	return Outputs{Kind: KindRate, Rate: &RateOutput{CentsPerUnit: rate, Unit: "hour", Defined: true}}
}

func queryRevenuePerLesson(ds *Dataset, plan *QueryPlan) Outputs {
	completed := completedOnly(lessonsInRange(ds, plan.TimeRange, 0))
	if len(completed) == 0 {
		return Outputs{Kind: KindRate, Rate: &RateOutput{Unit: "lesson", Defined: false}}
	}
	per := int64(math.Round(float64(sumCents(completed)) / float64(len(completed))))
	return Outputs{Kind: KindRate, Rate: &RateOutput{CentsPerUnit: per, Unit: "lesson", Defined: true}}
}

func queryTaxGuidance(ds *Dataset, plan *QueryPlan) Outputs {
	base := sumCents(completedOnly(lessonsInRange(ds, plan.TimeRange, 0)))
	// Rule-of-thumb self-employment reserve band, not tax advice.
	return Outputs{Kind: KindGuidance, Guidance: &GuidanceOutput{
		BaseCents:       base,
		ReserveLowCents: int64(math.Round(float64(base) * 0.25)),
		ReserveHiCents:  int64(math.Round(float64(base) * 0.30)),
	}}
}
