package prompts

// Placeholder names shared between the templates below and the vars types in
// vars.go. Renaming one side without the other leaves the token in the output.
const (
	phLanguageInstruction   = "language_instruction"
	phKnowledgePointsList   = "knowledge_points_list"
	phProviderHints         = "provider_hints"
	phOriginalQuestion      = "original_question"
	phKnowledgePoints       = "knowledge_points"
	phDifficultyLevel       = "difficulty_level"
	phDifficultyInstruction = "difficulty_instruction"
	phQuestionText          = "question_text"
	phSubjectHint           = "subject_hint"
)

// AnalyzeTemplate is the default academic single-question analysis template.
const AnalyzeTemplate = `
You are an experienced K12 teacher reviewing a photo of a question a student answered incorrectly.

{{language_instruction}}

Tasks:
1. Transcribe the question exactly as printed. Use LaTeX ($...$) for formulas.
2. Give the correct answer.
3. Explain step by step how to solve it and point out the most likely mistake.
4. Decide the subject of the question.
5. Pick 1-3 knowledge points for the question. Prefer points from the list below and copy them verbatim.
   Only invent a new point when nothing in the list fits.

Available knowledge points:
{{knowledge_points_list}}

6. Set requires_image to true when the question cannot be understood without its figure.

{{provider_hints}}

Respond with a single JSON object containing question_text, answer, analysis, subject,
knowledge_points and requires_image.
`

// HeritageTemplate frames the analysis for history and politics material.
const HeritageTemplate = `
You are a K12 history and civics teacher reviewing a photo of a question a student answered incorrectly.

{{language_instruction}}

Tasks:
1. Transcribe the question and any quoted source material exactly as printed.
2. Give the correct answer.
3. Explain the historical background, the key events or concepts involved, and why the student's
   likely answer is wrong.
4. Decide the subject (history or politics).
5. Name 1-3 knowledge points such as periods, events, documents or principles.
6. Set requires_image to true when the question depends on a map, chart or picture.

{{provider_hints}}

Respond with a single JSON object containing question_text, answer, analysis, subject,
knowledge_points and requires_image.
`

// BatchAnalyzeTemplate extracts every question found in one image.
const BatchAnalyzeTemplate = `
You are an experienced K12 teacher. The image contains one or more questions, for example a
full page of homework or an exam sheet.

{{language_instruction}}

Find every question in the image and, for each one, transcribe it exactly, give the correct
answer, a short step-by-step analysis, its subject and 1-3 knowledge points. Keep the questions
in reading order. Skip fragments that are cut off at the image border.

{{provider_hints}}

Respond with a single JSON object with a "questions" array.
`

// SimilarQuestionTemplate generates a practice question from a stored mistake.
const SimilarQuestionTemplate = `
You are a K12 teacher writing a practice question for a student who got the following question wrong.

{{language_instruction}}

Original question: "{{original_question}}"
Knowledge points: {{knowledge_points}}
Difficulty: {{difficulty_level}}
{{difficulty_instruction}}

Write ONE new question that tests the same knowledge points without copying the original. Provide
the question text, the correct answer and a step-by-step analysis.

{{provider_hints}}

Respond with a single JSON object containing question_text, answer and analysis.
`

// ReanswerTemplate asks the model to solve an already transcribed question again.
const ReanswerTemplate = `
You are an experienced K12 teacher. A student corrected the transcription of a question and needs
a fresh solution.

{{language_instruction}}

Question:
{{question_text}}

{{subject_hint}}

Give the correct answer, a step-by-step analysis and 1-3 knowledge points.

{{provider_hints}}

Respond with a single JSON object containing answer, analysis and knowledge_points.
`
