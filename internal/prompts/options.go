package prompts

import "strings"

// Subject identifies one of the subjects whose knowledge points can be
// injected into the analysis prompt.
type Subject string

const (
	SubjectMath      Subject = "math"
	SubjectPhysics   Subject = "physics"
	SubjectChemistry Subject = "chemistry"
	SubjectBiology   Subject = "biology"
	SubjectEnglish   Subject = "english"
)

// Subjects lists the tag-bearing subjects in prompt order.
var Subjects = []Subject{SubjectMath, SubjectPhysics, SubjectChemistry, SubjectBiology, SubjectEnglish}

var subjectNames = map[Subject]string{
	SubjectMath:      "数学",
	SubjectPhysics:   "物理",
	SubjectChemistry: "化学",
	SubjectBiology:   "生物",
	SubjectEnglish:   "英语",
}

// DisplayName returns the Chinese subject name used in tags and prompts.
func (s Subject) DisplayName() string {
	if n, ok := subjectNames[s]; ok {
		return n
	}
	return string(s)
}

// ParseSubject recognizes a subject by its key or Chinese name.
func ParseSubject(s string) (Subject, bool) {
	s = strings.TrimSpace(s)
	for _, sub := range Subjects {
		if strings.EqualFold(s, string(sub)) || s == subjectNames[sub] {
			return sub, true
		}
	}
	return "", false
}

// Options tune a single prompt render. A nil *Options is valid everywhere.
type Options struct {
	// ProviderHints is appended verbatim, e.g. output-format quirks of a model.
	ProviderHints string

	// CustomTemplate replaces the default template text. Placeholder names
	// stay the same.
	CustomTemplate string

	// PrefetchedTags holds knowledge-point names per subject, already
	// filtered for the student's grade by the caller.
	PrefetchedTags map[Subject][]string
}

func (o *Options) providerHints() string {
	if o == nil {
		return ""
	}
	return o.ProviderHints
}

func (o *Options) tags(s Subject) []string {
	if o == nil {
		return nil
	}
	return o.PrefetchedTags[s]
}
