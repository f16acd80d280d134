// internal/domain/insights/entity.go
package insights

import (
	"regexp"
	"strings"

	"tutor_insights_bot/internal/domain/student"
)

// ResolveStudent matches a free-text name fragment against the roster and
// returns the single matching student, or nil when the fragment matches zero
// or more than one student. Ambiguity is only broken by an exact full-name
// match among the candidates; the resolver never guesses.
func ResolveStudent(roster []*student.Student, fragment string) *student.Student {
	frag := strings.ToLower(strings.TrimSpace(fragment))
	if frag == "" {
		return nil
	}

	var candidates []*student.Student
	for _, s := range roster {
		full := strings.ToLower(s.FullName())
		first := strings.ToLower(s.FirstName)
		last := strings.ToLower(s.LastName)
		switch {
		case full == frag, first == frag, last != "" && last == frag:
			candidates = append(candidates, s)
		case strings.Contains(full, frag), strings.Contains(frag, full):
			candidates = append(candidates, s)
		}
	}

	if len(candidates) == 1 {
		return candidates[0]
	}
	if len(candidates) > 1 {
		// Exact full name is the only permitted tiebreak.
		var exact *student.Student
		for _, c := range candidates {
			if strings.ToLower(c.FullName()) == frag {
				if exact != nil {
					return nil
				}
				exact = c
			}
		}
		return exact
	}
	return nil
}

var nameSplitRe = regexp.MustCompile(`\s*(?:,|\band\b)\s*`)

// ResolveStudents splits a phrase joined by "and"/commas into independent
// fragments and requires every fragment to resolve to a distinct student.
// Any unresolved fragment fails the whole lookup: no partial answers.
func ResolveStudents(roster []*student.Student, phrase string) []*student.Student {
	parts := nameSplitRe.Split(strings.TrimSpace(phrase), -1)
	resolved := make([]*student.Student, 0, len(parts))
	seen := make(map[int64]bool)
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		s := ResolveStudent(roster, p)
		if s == nil || seen[s.ID] {
			return nil
		}
		seen[s.ID] = true
		resolved = append(resolved, s)
	}
	if len(resolved) == 0 {
		return nil
	}
	return resolved
}

// FindStudentMention scans the normalized question for any roster name and
// returns the matched student plus the fragment that matched. Longer names are
// tried first so "anna lee" wins over a second student named "anna".
func FindStudentMention(roster []*student.Student, text string) (*student.Student, string) {
	type mention struct {
		s    *student.Student
		frag string
	}
	var best *mention
	for _, s := range roster {
		for _, frag := range []string{strings.ToLower(s.FullName()), strings.ToLower(s.FirstName)} {
			if frag == "" || !containsWord(text, frag) {
				continue
			}
			if best == nil || len(frag) > len(best.frag) {
				best = &mention{s: s, frag: frag}
			}
		}
	}
	if best == nil {
		return nil, ""
	}
	// The fragment must still resolve unambiguously against the whole roster
	// (two students sharing a first name stay unresolved).
	if r := ResolveStudent(roster, best.frag); r != nil {
		return r, best.frag
	}
	return nil, best.frag
}

func containsWord(text, word string) bool {
	idx := strings.Index(text, word)
	for idx >= 0 {
		beforeOK := idx == 0 || text[idx-1] == ' '
		after := idx + len(word)
		afterOK := after == len(text) || text[after] == ' '
		if beforeOK && afterOK {
			return true
		}
		next := strings.Index(text[idx+1:], word)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}
