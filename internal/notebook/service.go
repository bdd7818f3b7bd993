// Package notebook is the error notebook itself: it analyzes photos into
// stored error items, keeps the knowledge-tag tree in step with what the
// model found, and drives practice and review.
package notebook

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"

	"github.com/abhisek/wrongbook/internal/analyzer"
	"github.com/abhisek/wrongbook/internal/llm"
	"github.com/abhisek/wrongbook/internal/logger"
	"github.com/abhisek/wrongbook/internal/prompts"
	"github.com/abhisek/wrongbook/internal/review"
	"github.com/abhisek/wrongbook/internal/store"
	"github.com/abhisek/wrongbook/internal/tagtree"
)

// Service ties the store, the tag resolver and the analyzer together.
type Service struct {
	store    *store.Store
	analyzer *analyzer.Service
	resolver *tagtree.Resolver
	log      *logger.Logger
	now      func() time.Time
}

// New creates a Service. log may be nil.
func New(st *store.Store, an *analyzer.Service, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		store:    st,
		analyzer: an,
		resolver: tagtree.NewResolver(rootSource{tags: st.TagRepo()}),
		log:      log.With("component", "notebook"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// AddInput describes one photo submitted by a student.
type AddInput struct {
	UserID        string
	GradeSemester string // free form, e.g. "初二下" or "Grade 8 2nd"
	Subject       string // optional hint
	Mode          prompts.Mode
	Image         llm.Image
}

// AddFromImage analyzes a photo of a single question and stores it.
func (s *Service) AddFromImage(ctx context.Context, in AddInput) (*store.ErrorItem, error) {
	tags, grade, err := s.PrefetchTags(ctx, in.UserID, in.GradeSemester, in.Subject)
	if err != nil {
		return nil, err
	}

	res, err := s.analyzer.AnalyzeImage(ctx, analyzer.AnalyzeInput{
		Image:   in.Image,
		Grade:   grade,
		Subject: in.Subject,
		Mode:    in.Mode,
		Tags:    tags,
	})
	if err != nil {
		return nil, err
	}
	items, err := s.save(ctx, in, *res)
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// AddBatchFromImage analyzes a page with several questions and stores each
// one. Either every question is stored or none is.
func (s *Service) AddBatchFromImage(ctx context.Context, in AddInput) ([]store.ErrorItem, error) {
	results, err := s.analyzer.BatchAnalyzeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}
	return s.save(ctx, in, results...)
}

// save stores the analyzed questions and the custom tags their knowledge
// points need in one transaction.
func (s *Service) save(ctx context.Context, in AddInput, results ...analyzer.AnalyzeResult) ([]store.ErrorItem, error) {
	plan := s.newTagPlan(in.UserID, in.GradeSemester)
	items := make([]store.ErrorItem, len(results))
	for i, res := range results {
		subject := res.Subject
		if subject == "" {
			subject = subjectKey(in.Subject)
		}
		items[i] = store.ErrorItem{
			UserID:          in.UserID,
			Subject:         subject,
			Grade:           in.GradeSemester,
			QuestionText:    res.QuestionText,
			Answer:          res.Answer,
			Analysis:        res.Analysis,
			KnowledgePoints: res.KnowledgePoints,
			RequiresImage:   res.RequiresImage,
			CreatedAt:       s.now(),
		}
		if err := plan.add(ctx, subject, res.KnowledgePoints); err != nil {
			return nil, err
		}
	}

	err := s.store.InTx(ctx, func(tx dialect.Tx) error {
		repo := s.store.ItemRepo().WithTx(tx)
		for i := range items {
			if err := repo.Create(ctx, &items[i]); err != nil {
				return err
			}
		}
		return plan.create(ctx, s.store.TagRepo().WithTx(tx))
	})
	if err != nil {
		return nil, fmt.Errorf("save error items: %w", err)
	}

	plan.logCreated()
	for _, it := range items {
		s.log.Info("error item added", "id", it.ID, "subject", it.Subject, "points", len(it.KnowledgePoints))
	}
	return items, nil
}

// Item returns an item owned by userID.
func (s *Service) Item(ctx context.Context, userID, id string) (*store.ErrorItem, error) {
	item, err := s.store.ItemRepo().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.UserID != userID {
		return nil, fmt.Errorf("error item %s: %w", id, store.ErrNotOwner)
	}
	return item, nil
}

// Items lists userID's items, newest first.
func (s *Service) Items(ctx context.Context, userID, subject string, limit int) ([]store.ErrorItem, error) {
	if subject != "" {
		subject = subjectKey(subject)
	}
	return s.store.ItemRepo().List(ctx, store.ItemFilter{UserID: userID, Subject: subject, Limit: limit})
}

// GeneratePractice writes a new question on the same knowledge points as a
// stored item.
func (s *Service) GeneratePractice(ctx context.Context, userID, itemID string, difficulty prompts.Difficulty) (*analyzer.SimilarQuestion, error) {
	item, err := s.Item(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	return s.analyzer.GenerateSimilarQuestion(ctx, item.QuestionText, item.KnowledgePoints, difficulty)
}

// RecordPractice stores one attempt and returns the item's updated review
// state. The item's mastery flag follows the state.
func (s *Service) RecordPractice(ctx context.Context, userID, itemID string, correct bool) (*review.State, error) {
	item, err := s.Item(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	var state *review.State
	err = s.store.InTx(ctx, func(tx dialect.Tx) error {
		practice := s.store.PracticeRepo().WithTx(tx)
		if err := practice.Append(ctx, &store.PracticeRecord{
			ErrorItemID: item.ID,
			Correct:     correct,
			PracticedAt: s.now(),
		}); err != nil {
			return err
		}
		records, err := practice.ForItem(ctx, item.ID)
		if err != nil {
			return err
		}
		state = review.NewScheduler([]store.ErrorItem{*item}, records).State(item.ID)

		mastery := 0
		if state.Mastered() {
			mastery = 1
		}
		if mastery == item.Mastery {
			return nil
		}
		return s.store.ItemRepo().WithTx(tx).SetMastery(ctx, item.ID, mastery)
	})
	if err != nil {
		return nil, fmt.Errorf("record practice for %s: %w", itemID, err)
	}
	return state, nil
}

// Reanswer solves an item again. A non-empty corrected text replaces the
// stored transcription first.
func (s *Service) Reanswer(ctx context.Context, userID, itemID, corrected string) (*store.ErrorItem, error) {
	item, err := s.Item(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}
	text := item.QuestionText
	if corrected != "" {
		text = corrected
	}

	sol, err := s.analyzer.ReanswerQuestion(ctx, text, item.Subject)
	if err != nil {
		return nil, err
	}

	plan := s.newTagPlan(userID, item.Grade)
	if err := plan.add(ctx, item.Subject, sol.KnowledgePoints); err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx dialect.Tx) error {
		items := s.store.ItemRepo().WithTx(tx)
		if text != item.QuestionText {
			if err := items.UpdateQuestion(ctx, item.ID, text); err != nil {
				return err
			}
		}
		if err := items.UpdateSolution(ctx, item.ID, sol.Answer, sol.Analysis, sol.KnowledgePoints); err != nil {
			return err
		}
		return plan.create(ctx, s.store.TagRepo().WithTx(tx))
	})
	if err != nil {
		return nil, fmt.Errorf("save reanswer for %s: %w", itemID, err)
	}
	plan.logCreated()
	return s.store.ItemRepo().Get(ctx, item.ID)
}

// Review replays userID's practice history into a schedule.
func (s *Service) Review(ctx context.Context, userID string) (*review.Scheduler, error) {
	items, err := s.store.ItemRepo().List(ctx, store.ItemFilter{UserID: userID})
	if err != nil {
		return nil, err
	}
	records, err := s.store.PracticeRepo().ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return review.NewScheduler(items, records), nil
}
