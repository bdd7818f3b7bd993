// Package analyzer turns photos and stored mistakes into model calls and
// parses the structured replies.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/wrongbook/internal/llm"
	"github.com/abhisek/wrongbook/internal/logger"
	"github.com/abhisek/wrongbook/internal/prompts"
)

// ErrEmptyQuestion is returned when the model could not read a question.
var ErrEmptyQuestion = errors.New("no question found in image")

// ErrUnknownDifficulty is returned for a difficulty outside easy, medium,
// hard and harder.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Config controls prompt rendering and generation parameters.
type Config struct {
	Language    prompts.Language
	MaxTokens   int
	Temperature float64

	// Templates override the built-in prompt text per prompt kind. Empty
	// entries use the default.
	Templates Templates

	ProviderHints string
}

// Templates holds optional custom template text.
type Templates struct {
	Analyze  string `yaml:"analyze"`
	Batch    string `yaml:"batch"`
	Similar  string `yaml:"similar"`
	Reanswer string `yaml:"reanswer"`
}

// DefaultConfig returns Chinese output with room for long analyses.
func DefaultConfig() Config {
	return Config{
		Language:    prompts.LanguageChinese,
		MaxTokens:   4096,
		Temperature: 0.2,
	}
}

// AnalyzeResult is one question read from a photo.
type AnalyzeResult struct {
	QuestionText    string   `json:"question_text"`
	Answer          string   `json:"answer"`
	Analysis        string   `json:"analysis"`
	Subject         string   `json:"subject"`
	KnowledgePoints []string `json:"knowledge_points"`
	RequiresImage   bool     `json:"requires_image"`
}

// SimilarQuestion is a generated question similar to a stored mistake.
type SimilarQuestion struct {
	QuestionText string `json:"question_text"`
	Answer       string `json:"answer"`
	Analysis     string `json:"analysis"`
}

// ReanswerResult is a fresh answer for a corrected question.
type ReanswerResult struct {
	Answer          string   `json:"answer"`
	Analysis        string   `json:"analysis"`
	KnowledgePoints []string `json:"knowledge_points"`
}

// AnalyzeInput carries what is known about the student for one photo.
type AnalyzeInput struct {
	Image   llm.Image
	Grade   *int
	Subject string
	Mode    prompts.Mode

	// Tags are the grade-appropriate knowledge points per subject.
	Tags map[prompts.Subject][]string
}

// Service runs the analysis flows against a Provider.
type Service struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

// New creates a Service. log may be nil.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{provider: provider, config: cfg, log: log.With("component", "analyzer")}
}

func (s *Service) options(custom string, tags map[prompts.Subject][]string) *prompts.Options {
	return &prompts.Options{
		ProviderHints:  s.config.ProviderHints,
		CustomTemplate: custom,
		PrefetchedTags: tags,
	}
}

func (s *Service) call(ctx context.Context, purpose, prompt string, images []llm.Image, schema *llm.Schema, out any) error {
	ctx = llm.WithPurpose(ctx, purpose)
	resp, err := s.provider.Generate(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt, Images: images}},
		Schema:      schema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return fmt.Errorf("%s request failed: %w", purpose, err)
	}
	if err := json.Unmarshal(resp.Content, out); err != nil {
		return fmt.Errorf("parse %s response: %w", purpose, err)
	}
	s.log.Debug("model reply parsed", "purpose", purpose, "model", resp.Model,
		"input_tokens", resp.Usage.InputTokens, "output_tokens", resp.Usage.OutputTokens)
	return nil
}

// AnalyzeImage reads and solves the single question in the photo.
func (s *Service) AnalyzeImage(ctx context.Context, in AnalyzeInput) (*AnalyzeResult, error) {
	prompt := prompts.GenerateAnalyzePrompt(s.config.Language, in.Grade, in.Subject, in.Mode,
		s.options(s.config.Templates.Analyze, in.Tags))

	var a AnalyzeResult
	if err := s.call(ctx, llm.PurposeAnalyze, prompt, []llm.Image{in.Image}, AnalysisSchema, &a); err != nil {
		return nil, err
	}
	a.normalize(in.Subject)
	if a.QuestionText == "" {
		return nil, ErrEmptyQuestion
	}
	return &a, nil
}

// BatchAnalyzeImage reads every question on the page. Entries without a
// question text are dropped.
func (s *Service) BatchAnalyzeImage(ctx context.Context, img llm.Image) ([]AnalyzeResult, error) {
	prompt := prompts.GenerateBatchAnalyzePrompt(s.config.Language, s.options(s.config.Templates.Batch, nil))

	var out struct {
		Questions []AnalyzeResult `json:"questions"`
	}
	if err := s.call(ctx, llm.PurposeBatchAnalyze, prompt, []llm.Image{img}, BatchSchema, &out); err != nil {
		return nil, err
	}

	questions := make([]AnalyzeResult, 0, len(out.Questions))
	for _, q := range out.Questions {
		q.normalize("")
		if q.QuestionText == "" {
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, ErrEmptyQuestion
	}
	if dropped := len(out.Questions) - len(questions); dropped > 0 {
		s.log.Warn("dropped unreadable questions from batch", "dropped", dropped)
	}
	return questions, nil
}

// GenerateSimilarQuestion writes a practice question on the same knowledge
// points as the original.
func (s *Service) GenerateSimilarQuestion(ctx context.Context, original string, points []string, difficulty prompts.Difficulty) (*SimilarQuestion, error) {
	if difficulty != "" && !difficulty.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}
	prompt := prompts.GenerateSimilarQuestionPrompt(s.config.Language, original, points, difficulty,
		s.options(s.config.Templates.Similar, nil))

	var q SimilarQuestion
	if err := s.call(ctx, llm.PurposeSimilar, prompt, nil, PracticeSchema, &q); err != nil {
		return nil, err
	}
	q.QuestionText = strings.TrimSpace(q.QuestionText)
	if q.QuestionText == "" {
		return nil, fmt.Errorf("similar question: model returned an empty question")
	}
	return &q, nil
}

// ReanswerQuestion solves questionText again, e.g. after the student fixed the
// transcription.
func (s *Service) ReanswerQuestion(ctx context.Context, questionText, subject string) (*ReanswerResult, error) {
	prompt := prompts.GenerateReanswerPrompt(s.config.Language, questionText, subject,
		s.options(s.config.Templates.Reanswer, nil))

	var sol ReanswerResult
	if err := s.call(ctx, llm.PurposeReanswer, prompt, nil, ReanswerSchema, &sol); err != nil {
		return nil, err
	}
	sol.Answer = strings.TrimSpace(sol.Answer)
	sol.Analysis = strings.TrimSpace(sol.Analysis)
	sol.KnowledgePoints = cleanPoints(sol.KnowledgePoints)
	return &sol, nil
}

// normalize trims fields, canonicalizes the subject key and dedupes points.
// When the model leaves the subject empty the caller's hint is used.
func (a *AnalyzeResult) normalize(hint string) {
	a.QuestionText = strings.TrimSpace(a.QuestionText)
	a.Answer = strings.TrimSpace(a.Answer)
	a.Analysis = strings.TrimSpace(a.Analysis)
	a.Subject = strings.TrimSpace(a.Subject)
	if a.Subject == "" {
		a.Subject = strings.TrimSpace(hint)
	}
	if sub, ok := prompts.ParseSubject(a.Subject); ok {
		a.Subject = string(sub)
	}
	a.KnowledgePoints = cleanPoints(a.KnowledgePoints)
}

func cleanPoints(points []string) []string {
	out := make([]string, 0, len(points))
	seen := make(map[string]bool, len(points))
	for _, p := range points {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}
