package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// ErrorItem is a question the student got wrong, as stored in the notebook.
type ErrorItem struct {
	ID              string
	UserID          string
	Subject         string
	Grade           string
	QuestionText    string
	Answer          string
	Analysis        string
	KnowledgePoints []string
	RequiresImage   bool
	Mastery         int // 0 = not mastered, 1 = mastered
	CreatedAt       time.Time
}

var itemColumns = []string{
	"id", "user_id", "subject", "grade", "question_text", "answer",
	"analysis", "knowledge_points", "requires_image", "mastery", "created_at",
}

// ItemFilter narrows List results. Zero fields are ignored.
type ItemFilter struct {
	UserID  string
	Subject string
	Limit   int
}

// ItemRepo reads and writes error items.
type ItemRepo struct {
	drv dialect.ExecQuerier
}

// WithTx returns an ItemRepo that runs inside tx.
func (r *ItemRepo) WithTx(tx dialect.Tx) *ItemRepo {
	return &ItemRepo{drv: tx}
}

// Create assigns an ID and timestamp when missing and inserts item.
func (r *ItemRepo) Create(ctx context.Context, item *ErrorItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	kp, err := encodePoints(item.KnowledgePoints)
	if err != nil {
		return err
	}

	query, args := builder().Insert(tableErrorItems).
		Columns(itemColumns...).
		Values(item.ID, item.UserID, item.Subject, item.Grade, item.QuestionText, item.Answer,
			item.Analysis, kp, item.RequiresImage, item.Mastery, item.CreatedAt).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("insert error item: %w", err)
	}
	return nil
}

// Get returns the item with id, or ErrNotFound.
func (r *ItemRepo) Get(ctx context.Context, id string) (*ErrorItem, error) {
	items, err := r.list(ctx, entsql.EQ("id", id), 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("error item %s: %w", id, ErrNotFound)
	}
	return &items[0], nil
}

// List returns items matching f, newest first.
func (r *ItemRepo) List(ctx context.Context, f ItemFilter) ([]ErrorItem, error) {
	var preds []*entsql.Predicate
	if f.UserID != "" {
		preds = append(preds, entsql.EQ("user_id", f.UserID))
	}
	if f.Subject != "" {
		preds = append(preds, entsql.EQ("subject", f.Subject))
	}
	var where *entsql.Predicate
	if len(preds) > 0 {
		where = entsql.And(preds...)
	}
	return r.list(ctx, where, f.Limit)
}

// UpdateSolution replaces the answer, analysis and knowledge points of an item.
func (r *ItemRepo) UpdateSolution(ctx context.Context, id, answer, analysis string, points []string) error {
	kp, err := encodePoints(points)
	if err != nil {
		return err
	}
	query, args := builder().Update(tableErrorItems).
		Set("answer", answer).
		Set("analysis", analysis).
		Set("knowledge_points", kp).
		Where(entsql.EQ("id", id)).
		Query()
	return r.execOne(ctx, id, query, args)
}

// UpdateQuestion replaces the transcribed question text, e.g. after the
// student corrected an OCR mistake.
func (r *ItemRepo) UpdateQuestion(ctx context.Context, id, text string) error {
	query, args := builder().Update(tableErrorItems).
		Set("question_text", text).
		Where(entsql.EQ("id", id)).
		Query()
	return r.execOne(ctx, id, query, args)
}

// SetMastery records whether the student has mastered the item.
func (r *ItemRepo) SetMastery(ctx context.Context, id string, mastery int) error {
	query, args := builder().Update(tableErrorItems).
		Set("mastery", mastery).
		Where(entsql.EQ("id", id)).
		Query()
	return r.execOne(ctx, id, query, args)
}

// Delete removes an item and, through the foreign key, its practice records.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	query, args := builder().Delete(tableErrorItems).
		Where(entsql.EQ("id", id)).
		Query()
	return r.execOne(ctx, id, query, args)
}

func (r *ItemRepo) execOne(ctx context.Context, id, query string, args []any) error {
	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("write error item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("write error item %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("error item %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *ItemRepo) list(ctx context.Context, where *entsql.Predicate, limit int) ([]ErrorItem, error) {
	sel := builder().Select(itemColumns...).
		From(entsql.Table(tableErrorItems)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id"))
	if where != nil {
		sel.Where(where)
	}
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query error items: %w", err)
	}
	defer rows.Close()

	var items []ErrorItem
	for rows.Next() {
		var (
			it ErrorItem
			kp string
		)
		if err := rows.Scan(&it.ID, &it.UserID, &it.Subject, &it.Grade, &it.QuestionText, &it.Answer,
			&it.Analysis, &kp, &it.RequiresImage, &it.Mastery, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan error item: %w", err)
		}
		if err := json.Unmarshal([]byte(kp), &it.KnowledgePoints); err != nil {
			return nil, fmt.Errorf("decode knowledge points of %s: %w", it.ID, err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate error items: %w", err)
	}
	return items, nil
}

func encodePoints(points []string) (string, error) {
	if points == nil {
		points = []string{}
	}
	b, err := json.Marshal(points)
	if err != nil {
		return "", fmt.Errorf("encode knowledge points: %w", err)
	}
	return string(b), nil
}
