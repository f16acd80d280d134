// internal/domain/insights/timerange.go
package insights

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthsByName = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var (
	monthYearRe   = regexp.MustCompile(`\b(january|jan|february|feb|march|mar|april|apr|may|june|jun|july|jul|august|aug|september|sept|sep|october|oct|november|nov|december|dec)\b(?: (\d{4}))?`)
	bareYearRe    = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	rollingDaysRe = regexp.MustCompile(`\b(?:last|past) (\d{1,3}) days\b`)
	allTimeRe     = regexp.MustCompile(`\b(?:all time|overall|ever)\b`)

	// A bare "may" is usually the modal verb ("how much may i earn"). It only
	// reads as the month when a year follows or a time word precedes it.
	mayContextRe = regexp.MustCompile(`\b(?:in|for|during|since|of|from|until|before|after|last|next|this|early|late) $`)
)

// findMonthMention locates the first named-month mention in the normalized
// text, skipping a bare "may" that lacks month context.
func findMonthMention(text string) (time.Month, string, bool) {
	for _, loc := range monthYearRe.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2]:loc[3]]
		yearStr := ""
		if loc[4] >= 0 {
			yearStr = text[loc[4]:loc[5]]
		}
		if name == "may" && yearStr == "" && !mayContextRe.MatchString(text[:loc[0]]) {
			continue
		}
		return monthsByName[name], yearStr, true
	}
	return 0, "", false
}

// DateOnly truncates t to UTC midnight. Every date in the pipeline is compared
// at date granularity.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) time.Time {
	// Day 0 of the next month is the last day of this one; handles leap years.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

func monthRange(year int, month time.Month) *TimeRange {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := lastDayOfMonth(year, month)
	return &TimeRange{
		Kind:  RangeMonth,
		Start: start,
		End:   end,
		Label: fmt.Sprintf("%s %d", month.String(), year),
	}
}

func yearRange(year int) *TimeRange {
	return &TimeRange{
		Kind:  RangeYear,
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		Label: strconv.Itoa(year),
	}
}

// AllTimeRange covers every record up to today.
func AllTimeRange(today time.Time) *TimeRange {
	return &TimeRange{
		Kind:  RangeAll,
		Start: time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   DateOnly(today),
		Label: "all time",
	}
}

// YearToDateRange covers Jan 1 of today's year through today.
func YearToDateRange(today time.Time) *TimeRange {
	t := DateOnly(today)
	return &TimeRange{
		Kind:  RangeYearToDate,
		Start: time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   t,
		Label: fmt.Sprintf("%d year to date", t.Year()),
	}
}

// RollingDaysRange covers the trailing n days, inclusive of today.
func RollingDaysRange(today time.Time, n int) *TimeRange {
	t := DateOnly(today)
	return &TimeRange{
		Kind:  RangeRollingDays,
		Start: t.AddDate(0, 0, -(n - 1)),
		End:   t,
		Label: fmt.Sprintf("last %d days", n),
	}
}

// ResolveTimeRange maps a time phrase in the normalized question to a concrete
// inclusive range. First match wins, in this order: named months, relative
// keywords, explicit year mentions, rolling day windows. Absence of any match
// returns nil, a valid outcome; intent-specific defaults apply later, in the
// planner.
func ResolveTimeRange(text string, today time.Time) *TimeRange {
	t := DateOnly(today)

	// A named month binds a relative-year qualifier ("january this year" is
	// one timeframe) before the relative keywords get a look on their own.
	if month, yearStr, ok := findMonthMention(text); ok {
		switch {
		case yearStr != "":
			year, _ := strconv.Atoi(yearStr)
			return monthRange(year, month)
		case strings.Contains(text, "last year"):
			return monthRange(t.Year()-1, month)
		case strings.Contains(text, "this year"):
			return monthRange(t.Year(), month)
		}
		// No year stated: the most recent occurrence of that month.
		year := t.Year()
		if month > t.Month() {
			year--
		}
		return monthRange(year, month)
	}

	// Relative keywords.
	if strings.Contains(text, "year to date") || strings.Contains(text, "this year") || strings.Contains(text, "so far this year") {
		return YearToDateRange(t)
	}
	if strings.Contains(text, "last month") {
		y, m := t.Year(), t.Month()
		// January wraps to December of the previous year.
		if m == time.January {
			return monthRange(y-1, time.December)
		}
		return monthRange(y, m-1)
	}
	if strings.Contains(text, "this month") {
		return monthRange(t.Year(), t.Month())
	}
	if strings.Contains(text, "last year") {
		return yearRange(t.Year() - 1)
	}
	if allTimeRe.MatchString(text) {
		return AllTimeRange(t)
	}

	if m := bareYearRe.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		return yearRange(year)
	}

	// Rolling windows ("last 7 days", "past 30 days").
	if m := rollingDaysRe.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n > 0 {
			return RollingDaysRange(t, n)
		}
	}

	return nil
}

// The independent relative-time families counted for ambiguity detection. Two
// or more distinct families in one question means the caller must ask which
// timeframe was meant instead of silently picking one.
var (
	relativeMonthPhrases = []string{"this month", "last month"}
	relativeYearPhrases  = []string{"year to date", "this year", "last year"}
)

// TimeframeMentions counts how many independent timeframe phrases appear in
// the normalized text. Named months, relative months, relative years and
// rolling windows each count as one family; a relative year qualifying a
// named month ("january this year") is a single timeframe, not two.
func TimeframeMentions(text string) int {
	_, _, hasMonth := findMonthMention(text)
	n := 0
	for _, p := range relativeMonthPhrases {
		if strings.Contains(text, p) {
			n++
		}
	}
	yearFamilies := 0
	for _, p := range relativeYearPhrases {
		if strings.Contains(text, p) {
			yearFamilies++
		}
	}
	if hasMonth {
		n++
		// One relative year qualifies the month instead of competing with it.
		if yearFamilies > 0 {
			yearFamilies--
		}
	}
	n += yearFamilies
	if rollingDaysRe.MatchString(text) {
		n++
	}
	return n
}

// stripTimeframes removes every time phrase from the normalized text so a
// clarification reply can supply the one the asker meant.
func stripTimeframes(text string) string {
	for _, p := range relativeMonthPhrases {
		text = strings.ReplaceAll(text, p, " ")
	}
	for _, p := range relativeYearPhrases {
		text = strings.ReplaceAll(text, p, " ")
	}
	text = monthYearRe.ReplaceAllString(text, " ")
	text = rollingDaysRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}
