package analyzer

import "github.com/abhisek/wrongbook/internal/llm"

func stringProp(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func pointsProp() map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": "1-3 knowledge point names, copied verbatim from the provided list when possible",
	}
}

var questionProps = map[string]any{
	"question_text":    stringProp("The question transcribed exactly, formulas in LaTeX"),
	"answer":           stringProp("The correct answer"),
	"analysis":         stringProp("Step-by-step solution and the most likely mistake"),
	"subject":          stringProp("Subject key such as math, physics, chemistry, biology, english, history or politics"),
	"knowledge_points": pointsProp(),
	"requires_image": map[string]any{
		"type":        "boolean",
		"description": "True when the question cannot be understood without its figure",
	},
}

var questionRequired = []string{"question_text", "answer", "analysis", "subject", "knowledge_points", "requires_image"}

// AnalysisSchema is the reply shape for a single analyzed question.
var AnalysisSchema = &llm.Schema{
	Name:        "question-analysis",
	Description: "Transcription, answer and analysis of one incorrectly answered question",
	Definition: map[string]any{
		"type":                 "object",
		"properties":           questionProps,
		"required":             questionRequired,
		"additionalProperties": false,
	},
}

// BatchSchema is the reply shape for a page of questions.
var BatchSchema = &llm.Schema{
	Name:        "batch-question-analysis",
	Description: "Every question found in one image, in reading order",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"properties":           questionProps,
					"required":             questionRequired,
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"questions"},
		"additionalProperties": false,
	},
}

// PracticeSchema is the reply shape for a generated similar question.
var PracticeSchema = &llm.Schema{
	Name:        "similar-question",
	Description: "A new practice question on the same knowledge points",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_text": stringProp("The new question"),
			"answer":        stringProp("The correct answer"),
			"analysis":      stringProp("Step-by-step solution"),
		},
		"required":             []string{"question_text", "answer", "analysis"},
		"additionalProperties": false,
	},
}

// ReanswerSchema is the reply shape for re-solving a corrected question.
var ReanswerSchema = &llm.Schema{
	Name:        "question-reanswer",
	Description: "A fresh solution for an already transcribed question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer":           stringProp("The correct answer"),
			"analysis":         stringProp("Step-by-step solution"),
			"knowledge_points": pointsProp(),
		},
		"required":             []string{"answer", "analysis", "knowledge_points"},
		"additionalProperties": false,
	},
}
