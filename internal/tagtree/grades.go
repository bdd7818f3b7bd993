package tagtree

import "strings"

// gradeRule maps an informal grade designator to the canonical root-name
// prefix used by the seeded curriculum.
type gradeRule struct {
	Key    string
	Prefix string
}

// gradeRules is scanned in order and the first key contained in the input
// wins. Two-digit "Grade 1x" keys precede "Grade 1" so the shorter key cannot
// shadow them.
var gradeRules = []gradeRule{
	// Junior high, Chinese ordinal names.
	{"初一", "七年级"},
	{"初二", "八年级"},
	{"初三", "九年级"},

	// Grades 7-12, Arabic numerals.
	{"Grade 10", "高一"},
	{"Grade 11", "高二"},
	{"Grade 12", "高三"},
	{"Grade 7", "七年级"},
	{"Grade 8", "八年级"},
	{"Grade 9", "九年级"},

	// Senior high.
	{"高一", "高一"},
	{"高二", "高二"},
	{"高三", "高三"},

	// Primary, Arabic numerals.
	{"Grade 1", "一年级"},
	{"Grade 2", "二年级"},
	{"Grade 3", "三年级"},
	{"Grade 4", "四年级"},
	{"Grade 5", "五年级"},
	{"Grade 6", "六年级"},

	// Primary, Chinese names.
	{"一年级", "一年级"},
	{"二年级", "二年级"},
	{"三年级", "三年级"},
	{"四年级", "四年级"},
	{"五年级", "五年级"},
	{"六年级", "六年级"},

	// Junior high, already canonical.
	{"七年级", "七年级"},
	{"八年级", "八年级"},
	{"九年级", "九年级"},
}

// Semester suffixes as they appear on root tag names.
const (
	SemesterFirst  = "上"
	SemesterSecond = "下"
)

var (
	firstSemesterMarkers  = []string{"上", "1st", "First"}
	secondSemesterMarkers = []string{"下", "2nd", "Second"}
)

// canonicalPrefix returns the canonical grade prefix for s, or "" when no
// rule matches.
func canonicalPrefix(s string) string {
	for _, r := range gradeRules {
		if strings.Contains(s, r.Key) {
			return r.Prefix
		}
	}
	return ""
}

// semesterSuffix detects a semester marker in s. First-semester markers are
// checked before second-semester ones.
func semesterSuffix(s string) string {
	if containsAny(s, firstSemesterMarkers) {
		return SemesterFirst
	}
	if containsAny(s, secondSemesterMarkers) {
		return SemesterSecond
	}
	return ""
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// candidates builds the ordered list of root names to try for a grade string.
// It returns nil when the grade level is not recognized.
func candidates(s string) []string {
	prefix := canonicalPrefix(s)
	if prefix == "" {
		return nil
	}
	if suffix := semesterSuffix(s); suffix != "" {
		return []string{prefix + suffix, prefix}
	}
	return []string{prefix}
}
