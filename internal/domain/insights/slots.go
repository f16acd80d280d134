// internal/domain/insights/slots.go
package insights

import (
	"regexp"
	"strconv"
	"strings"
)

// Slot names used across the planner and engine.
const (
	SlotTopN        = "top_n"
	SlotRateDelta   = "rate_delta_dollars_per_hour"
	SlotGoalDollars = "goal_dollars"
	SlotWeeksOff    = "weeks_off"
	SlotAddStudents = "add_students"
	SlotYearA       = "year_a"
	SlotYearB       = "year_b"
	SlotAssumedRate = "assumed_rate_dollars_per_hour"
	SlotAscending   = "ascending"
)

var spelledNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

var (
	topNRe       = regexp.MustCompile(`\b(?:top|best|bottom|worst) (\d{1,2}|one|two|three|four|five|six|seven|eight|nine|ten)\b`)
	dollarsRe    = regexp.MustCompile(`\$ ?(\d+(?:\.\d+)?)(k)?\b`)
	rateDeltaRe  = regexp.MustCompile(`\bby \$? ?(\d+(?:\.\d+)?)(?: ?(?:/|per ?)hour)?\b`)
	perHourRe    = regexp.MustCompile(`\$ ?(\d+(?:\.\d+)?) ?(?:/|per ?)hour\b`)
	weeksOffRe   = regexp.MustCompile(`\b(\d{1,2}|one|two|three|four|five|six|seven|eight|nine|ten) weeks? off\b`)
	addStudRe    = regexp.MustCompile(`\b(?:add(?:ed)?|gain(?:ed)?|take on|sign(?:ed)? up) (\d{1,2}|one|two|three|four|five|six|seven|eight|nine|ten) (?:more |new )?students?\b`)
	loseTopRe    = regexp.MustCompile(`\b(?:lose|lost|drop(?:ped)?) (?:my )?top (\d{1,2}|one|two|three|four|five|six|seven|eight|nine|ten)?\b`)
	yearPairRe   = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b(?:.*?)\b(19\d{2}|20\d{2})\b`)
	singleYearRe = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
)

func parseCount(s string) (int, bool) {
	if n, ok := spelledNumbers[s]; ok {
		return n, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ExtractTopN pulls a top/bottom-N count (digit or spelled-out 1–10).
// Returns 0 when no count is stated; the caller decides the default.
func ExtractTopN(text string) int {
	if m := topNRe.FindStringSubmatch(text); m != nil {
		if n, ok := parseCount(m[1]); ok {
			return n
		}
	}
	return 0
}

// ExtractDollars pulls the first dollar amount ("$80k" → 80000, "$2,580" style
// commas are already stripped by the normalizer). Returns (dollars, ok).
func ExtractDollars(text string) (float64, bool) {
	m := dollarsRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	if m[2] == "k" {
		v *= 1000
	}
	return v, true
}

// ExtractRateDelta pulls a per-hour rate change ("by $10/hour", "by 10").
func ExtractRateDelta(text string) (float64, bool) {
	if m := rateDeltaRe.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return v, true
		}
	}
	if m := perHourRe.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return v, true
		}
	}
	return 0, false
}

// ExtractPerHourRate pulls an explicit "$Y/hour" rate, as distinct from a
// delta: used by the students-needed-for-target question.
func ExtractPerHourRate(text string) (float64, bool) {
	m := perHourRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ExtractWeeksOff pulls the "take N weeks off" count.
func ExtractWeeksOff(text string) (int, bool) {
	m := weeksOffRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return parseCount(m[1])
}

// ExtractAddStudents pulls the "add N students" count.
func ExtractAddStudents(text string) (int, bool) {
	m := addStudRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return parseCount(m[1])
}

// ExtractLoseTopN pulls the "lose my top N students" count; a bare "lose my
// top student" counts as 1.
func ExtractLoseTopN(text string) (int, bool) {
	m := loseTopRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	if strings.TrimSpace(m[1]) == "" {
		return 1, true
	}
	return parseCount(m[1])
}

// ExtractYearPair pulls two distinct years for a year-over-year comparison,
// ordered earlier-first.
func ExtractYearPair(text string) (int, int, bool) {
	m := yearPairRe.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])
	if a == b {
		return 0, 0, false
	}
	if a > b {
		a, b = b, a
	}
	return a, b, true
}

// ExtractSingleYear pulls one explicit year mention.
func ExtractSingleYear(text string) (int, bool) {
	m := singleYearRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	y, _ := strconv.Atoi(m[1])
	return y, true
}
