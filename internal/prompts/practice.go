package prompts

import (
	"fmt"
	"strings"
)

// Difficulty of a generated practice question relative to the original.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyHarder Difficulty = "harder"
)

var difficultyInstructions = map[Difficulty]string{
	DifficultyEasy:   "Make it easier than the original: fewer steps, smaller numbers and a direct application of one knowledge point.",
	DifficultyMedium: "Keep the difficulty close to the original: same number of steps, different numbers or context.",
	DifficultyHard:   "Make it harder than the original: add a step or combine the knowledge points with a related concept.",
	DifficultyHarder: "Make it clearly harder: a multi-step problem at competition or final-exam level that requires combining several concepts.",
}

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	_, ok := difficultyInstructions[d]
	return ok
}

// GenerateSimilarQuestionPrompt renders the practice-question prompt. An
// empty difficulty means medium; an unknown one renders no instruction.
func GenerateSimilarQuestionPrompt(lang Language, originalQuestion string, knowledgePoints []string, difficulty Difficulty, opts *Options) string {
	if difficulty == "" {
		difficulty = DifficultyMedium
	}
	return render(pick(SimilarQuestionTemplate, opts), SimilarVars{
		LanguageInstruction:   lang.instruction(),
		OriginalQuestion:      escapeQuoted(originalQuestion),
		KnowledgePoints:       strings.Join(knowledgePoints, ", "),
		DifficultyLevel:       string(difficulty),
		DifficultyInstruction: difficultyInstructions[difficulty],
		ProviderHints:         opts.providerHints(),
	})
}

var quotedEscaper = strings.NewReplacer(
	`"`, `\"`,
	"\n", `\n`,
)

// escapeQuoted makes s safe to embed between double quotes on one line.
// Backslashes are kept so LaTeX such as \frac reaches the model intact.
func escapeQuoted(s string) string {
	return quotedEscaper.Replace(s)
}

// GenerateReanswerPrompt renders the prompt that solves a corrected question
// again. Unlike the original question in GenerateSimilarQuestionPrompt,
// questionText is embedded verbatim.
func GenerateReanswerPrompt(lang Language, questionText, subject string, opts *Options) string {
	return render(pick(ReanswerTemplate, opts), ReanswerVars{
		LanguageInstruction: lang.instruction(),
		QuestionText:        questionText,
		SubjectHint:         subjectHint(lang, subject),
		ProviderHints:       opts.providerHints(),
	})
}

const (
	inferSubjectZH = "请根据题目内容自行判断所属学科。"
	inferSubjectEN = "The subject is not given; infer it from the question content."
)

func subjectHint(lang Language, subject string) string {
	subject = strings.TrimSpace(subject)
	switch {
	case subject == "" && lang.chinese():
		return inferSubjectZH
	case subject == "":
		return inferSubjectEN
	case lang.chinese():
		return fmt.Sprintf("这道题的学科是：%s。", subject)
	default:
		return fmt.Sprintf("The subject of this question is: %s.", subject)
	}
}
