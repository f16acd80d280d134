// internal/domain/insights/normalizer.go
package insights

import (
	"regexp"
	"strings"
)

// synonymRule rewrites one phrase to the vocabulary the router's rule tables
// are written against. Rules are applied in declared order: earlier rewrites
// can create matches for later ones. RE2's \b is an ASCII word boundary and
// never fires between Cyrillic letters, so the Russian rules anchor on
// explicit spaces instead.
type synonymRule struct {
	re   *regexp.Regexp
	repl string
}

var synonymRules = []synonymRule{
	// Abbreviations first, before anything can split them apart.
	{regexp.MustCompile(`\bytd\b`), "year to date"},
	{regexp.MustCompile(`\byoy\b`), "year over year"},
	{regexp.MustCompile(`\bavg\b`), "average"},
	{regexp.MustCompile(`\bhr\b`), "hour"},
	{regexp.MustCompile(`\bhrs\b`), "hours"},
	{regexp.MustCompile(`\bwk\b`), "week"},
	{regexp.MustCompile(`\bmo\b`), "month"},

	// Russian financial/attendance vocabulary → English.
	{regexp.MustCompile(`(^| )сколько я заработала?( |$)`), "${1}how much did i earn${2}"},
	{regexp.MustCompile(`(^| )заработала?( |$)`), "${1}earned${2}"},
	{regexp.MustCompile(`(^| )заработаю( |$)`), "${1}will earn${2}"},
	{regexp.MustCompile(`(^| )доход( |$)`), "${1}income${2}"},
	{regexp.MustCompile(`(^| )выручка( |$)`), "${1}revenue${2}"},
	{regexp.MustCompile(`(^| )платит( |$)`), "${1}pays${2}"},
	{regexp.MustCompile(`(^| )уроки( |$)`), "${1}lessons${2}"},
	{regexp.MustCompile(`(^| )урок[ао]в( |$)`), "${1}lessons${2}"},
	{regexp.MustCompile(`(^| )урок( |$)`), "${1}lesson${2}"},
	{regexp.MustCompile(`(^| )ученики( |$)`), "${1}students${2}"},
	{regexp.MustCompile(`(^| )ученик[ао]в( |$)`), "${1}students${2}"},
	{regexp.MustCompile(`(^| )ученик( |$)`), "${1}student${2}"},
	{regexp.MustCompile(`(^| )пропустила?( |$)`), "${1}missed${2}"},
	{regexp.MustCompile(`(^| )в прошлом месяце( |$)`), "${1}last month${2}"},
	{regexp.MustCompile(`(^| )в этом месяце( |$)`), "${1}this month${2}"},
	{regexp.MustCompile(`(^| )в прошлом году( |$)`), "${1}last year${2}"},
	{regexp.MustCompile(`(^| )в этом году( |$)`), "${1}this year${2}"},

	// Spanish financial/attendance vocabulary → English.
	{regexp.MustCompile(`\bcuanto gane\b`), "how much did i earn"},
	{regexp.MustCompile(`\bgane\b`), "earned"},
	{regexp.MustCompile(`\bganancias\b`), "earnings"},
	{regexp.MustCompile(`\bingresos\b`), "income"},
	{regexp.MustCompile(`\bestudiantes\b`), "students"},
	{regexp.MustCompile(`\bestudiante\b`), "student"},
	{regexp.MustCompile(`\balumnos\b`), "students"},
	{regexp.MustCompile(`\bclases\b`), "lessons"},
	{regexp.MustCompile(`\bclase\b`), "lesson"},
	{regexp.MustCompile(`\bel mes pasado\b`), "last month"},
	{regexp.MustCompile(`\beste mes\b`), "this month"},
	{regexp.MustCompile(`\beste ano\b`), "this year"},
	{regexp.MustCompile(`\bel ano pasado\b`), "last year"},

	// English domain synonyms. "kids"/"clients" → "students" must run before
	// the ranking rules look for the word "students".
	{regexp.MustCompile(`\bkids\b`), "students"},
	{regexp.MustCompile(`\bkid\b`), "student"},
	{regexp.MustCompile(`\bclients\b`), "students"},
	{regexp.MustCompile(`\bclient\b`), "student"},
	{regexp.MustCompile(`\bpupils\b`), "students"},
	{regexp.MustCompile(`\bpupil\b`), "student"},
	{regexp.MustCompile(`\bgot paid\b`), "earned"},
	{regexp.MustCompile(`\bwas paid\b`), "earned"},
	{regexp.MustCompile(`\bpaid me\b`), "earned me"},
	{regexp.MustCompile(`\bmade\b`), "earned"},
	{regexp.MustCompile(`\bmake\b`), "earn"},
	{regexp.MustCompile(`\brevenue\b`), "earnings"},
	{regexp.MustCompile(`\bincome\b`), "earnings"},
	{regexp.MustCompile(`\babsences\b`), "missed lessons"},
	{regexp.MustCompile(`\babsence\b`), "missed lesson"},
	{regexp.MustCompile(`\bno[- ]shows?\b`), "missed lessons"},
	{regexp.MustCompile(`\bcancell?ed\b`), "missed"},
	{regexp.MustCompile(`\bsessions\b`), "lessons"},
	{regexp.MustCompile(`\bsession\b`), "lesson"},
	{regexp.MustCompile(`\bvacation\b`), "weeks off"},
}

var (
	digitCommaRe = regexp.MustCompile(`(\d),(\d)`)
	punctRe      = regexp.MustCompile(`[?!.,;:"()]+`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// Normalize lowercases the question, strips punctuation, collapses whitespace
// and applies the ordered synonym table. Pure and total: it never fails.
func Normalize(raw string) string {
	s := strings.ToLower(raw)
	// "$2,580" must survive as one number before commas are stripped.
	s = digitCommaRe.ReplaceAllString(s, "$1$2")
	// Keep '$', '/', '-' and digits: the slot extractors need them.
	s = punctRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	for _, r := range synonymRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	// Rewrites can join words; collapse again before routing.
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
