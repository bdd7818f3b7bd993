package prompts

import (
	"maps"
	"slices"
	"strings"
)

// templateVars is implemented by one struct per template. Each struct lists
// every placeholder its template declares, so a new placeholder needs a new
// field rather than silently rendering as the literal token.
type templateVars interface {
	placeholders() map[string]string
}

// AnalyzeVars fills AnalyzeTemplate.
type AnalyzeVars struct {
	LanguageInstruction string
	KnowledgePointsList string
	ProviderHints       string
}

func (v AnalyzeVars) placeholders() map[string]string {
	return map[string]string{
		phLanguageInstruction: v.LanguageInstruction,
		phKnowledgePointsList: v.KnowledgePointsList,
		phProviderHints:       v.ProviderHints,
	}
}

// HeritageVars fills HeritageTemplate.
type HeritageVars struct {
	LanguageInstruction string
	ProviderHints       string
}

func (v HeritageVars) placeholders() map[string]string {
	return map[string]string{
		phLanguageInstruction: v.LanguageInstruction,
		phProviderHints:       v.ProviderHints,
	}
}

// BatchVars fills BatchAnalyzeTemplate.
type BatchVars struct {
	LanguageInstruction string
	ProviderHints       string
}

func (v BatchVars) placeholders() map[string]string {
	return map[string]string{
		phLanguageInstruction: v.LanguageInstruction,
		phProviderHints:       v.ProviderHints,
	}
}

// SimilarVars fills SimilarQuestionTemplate.
type SimilarVars struct {
	LanguageInstruction   string
	OriginalQuestion      string
	KnowledgePoints       string
	DifficultyLevel       string
	DifficultyInstruction string
	ProviderHints         string
}

func (v SimilarVars) placeholders() map[string]string {
	return map[string]string{
		phLanguageInstruction:   v.LanguageInstruction,
		phOriginalQuestion:      v.OriginalQuestion,
		phKnowledgePoints:       v.KnowledgePoints,
		phDifficultyLevel:       v.DifficultyLevel,
		phDifficultyInstruction: v.DifficultyInstruction,
		phProviderHints:         v.ProviderHints,
	}
}

// ReanswerVars fills ReanswerTemplate.
type ReanswerVars struct {
	LanguageInstruction string
	QuestionText        string
	SubjectHint         string
	ProviderHints       string
}

func (v ReanswerVars) placeholders() map[string]string {
	return map[string]string{
		phLanguageInstruction: v.LanguageInstruction,
		phQuestionText:        v.QuestionText,
		phSubjectHint:         v.SubjectHint,
		phProviderHints:       v.ProviderHints,
	}
}

// render substitutes every {{name}} token declared by vars into tmpl and trims
// the result. Tokens vars does not declare are left as they are.
func render(tmpl string, vars templateVars) string {
	ph := vars.placeholders()
	pairs := make([]string, 0, 2*len(ph))
	for _, name := range slices.Sorted(maps.Keys(ph)) {
		pairs = append(pairs, "{{"+name+"}}", ph[name])
	}
	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(tmpl))
}

// pick returns the caller's custom template when set, else the default.
func pick(def string, opts *Options) string {
	if opts != nil && opts.CustomTemplate != "" {
		return opts.CustomTemplate
	}
	return def
}
