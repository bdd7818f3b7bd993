// Package prompts renders the instructions sent to the vision model. Every
// function here is pure: the same arguments always produce the same prompt.
package prompts

import (
	"fmt"
	"strings"
)

// Mode selects the analysis framing.
type Mode int

const (
	ModeAcademic Mode = iota
	ModeHeritage
)

// ParseMode maps "HERITAGE" (any case) to ModeHeritage and everything else
// to ModeAcademic.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), "heritage") {
		return ModeHeritage
	}
	return ModeAcademic
}

func (m Mode) String() string {
	if m == ModeHeritage {
		return "HERITAGE"
	}
	return "ACADEMIC"
}

// NoTagsSentinel stands in for an empty knowledge-point list.
const NoTagsSentinel = "(no tags available)"

// GenerateAnalyzePrompt renders the single-question analysis prompt.
// grade may be nil when unknown.
func GenerateAnalyzePrompt(lang Language, grade *int, subject string, mode Mode, opts *Options) string {
	switch mode {
	case ModeHeritage:
		return heritagePrompt(lang, opts)
	default:
		return academicPrompt(lang, grade, subject, opts)
	}
}

func heritagePrompt(lang Language, opts *Options) string {
	return render(pick(HeritageTemplate, opts), HeritageVars{
		LanguageInstruction: lang.instruction(),
		ProviderHints:       opts.providerHints(),
	})
}

func academicPrompt(lang Language, grade *int, subject string, opts *Options) string {
	return render(pick(AnalyzeTemplate, opts), AnalyzeVars{
		LanguageInstruction: lang.instruction(),
		KnowledgePointsList: tagsSection(grade, subject, opts),
		ProviderHints:       opts.providerHints(),
	})
}

// tagsSection lists only the given subject's knowledge points when it is
// recognized, and all subjects otherwise.
func tagsSection(grade *int, subject string, opts *Options) string {
	if s, ok := ParseSubject(subject); ok {
		return subjectLine(s, subjectTags(s, grade, opts))
	}
	lines := make([]string, 0, len(Subjects))
	for _, s := range Subjects {
		lines = append(lines, subjectLine(s, subjectTags(s, grade, opts)))
	}
	return strings.Join(lines, "\n")
}

func subjectTags(s Subject, grade *int, opts *Options) []string {
	if s == SubjectMath {
		return GetMathTagsForGrade(grade, opts.tags(SubjectMath))
	}
	return opts.tags(s)
}

func subjectLine(s Subject, tags []string) string {
	return fmt.Sprintf("- %s: %s", s.DisplayName(), quoteList(tags))
}

// quoteList renders tags as "a", "b", "c" or the sentinel when empty.
func quoteList(tags []string) string {
	if len(tags) == 0 {
		return NoTagsSentinel
	}
	quoted := make([]string, len(tags))
	for i, t := range tags {
		quoted[i] = `"` + t + `"`
	}
	return strings.Join(quoted, ", ")
}

// GetMathTagsForGrade returns the prefetched math tags, or an empty slice.
// grade is not consulted: grade-cumulative selection happens where the tags
// are fetched.
func GetMathTagsForGrade(grade *int, prefetched []string) []string {
	if len(prefetched) > 0 {
		return prefetched
	}
	return []string{}
}

// GenerateBatchAnalyzePrompt renders the prompt that extracts every question
// from one image.
func GenerateBatchAnalyzePrompt(lang Language, opts *Options) string {
	return render(pick(BatchAnalyzeTemplate, opts), BatchVars{
		LanguageInstruction: lang.instruction(),
		ProviderHints:       opts.providerHints(),
	})
}
