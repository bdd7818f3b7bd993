package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// PracticeRecord is one attempt at re-solving an error item.
type PracticeRecord struct {
	ID          int
	ErrorItemID string
	Correct     bool
	PracticedAt time.Time
}

// PracticeRepo appends and reads practice records.
type PracticeRepo struct {
	drv dialect.ExecQuerier
}

// WithTx returns a PracticeRepo that runs inside tx.
func (r *PracticeRepo) WithTx(tx dialect.Tx) *PracticeRepo {
	return &PracticeRepo{drv: tx}
}

// Append stores rec and sets its ID.
func (r *PracticeRepo) Append(ctx context.Context, rec *PracticeRecord) error {
	if rec.PracticedAt.IsZero() {
		rec.PracticedAt = time.Now().UTC()
	}
	query, args := builder().Insert(tablePracticeRecords).
		Columns("error_item_id", "correct", "practiced_at").
		Values(rec.ErrorItemID, rec.Correct, rec.PracticedAt).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("insert practice record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert practice record: %w", err)
	}
	rec.ID = int(id)
	return nil
}

// ForUser returns every practice record of userID's items, oldest first.
func (r *PracticeRepo) ForUser(ctx context.Context, userID string) ([]PracticeRecord, error) {
	t := entsql.Table(tablePracticeRecords).As("p")
	items := entsql.Table(tableErrorItems).As("i")
	sel := builder().Select(t.C("id"), t.C("error_item_id"), t.C("correct"), t.C("practiced_at")).
		From(t).
		Join(items).On(t.C("error_item_id"), items.C("id")).
		Where(entsql.EQ(items.C("user_id"), userID)).
		OrderBy(t.C("practiced_at"), t.C("id"))
	return r.query(ctx, sel)
}

// ForItem returns the practice records of one item, oldest first.
func (r *PracticeRepo) ForItem(ctx context.Context, itemID string) ([]PracticeRecord, error) {
	sel := builder().Select("id", "error_item_id", "correct", "practiced_at").
		From(entsql.Table(tablePracticeRecords)).
		Where(entsql.EQ("error_item_id", itemID)).
		OrderBy("practiced_at", "id")
	return r.query(ctx, sel)
}

func (r *PracticeRepo) query(ctx context.Context, sel *entsql.Selector) ([]PracticeRecord, error) {
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query practice records: %w", err)
	}
	defer rows.Close()

	var out []PracticeRecord
	for rows.Next() {
		var rec PracticeRecord
		if err := rows.Scan(&rec.ID, &rec.ErrorItemID, &rec.Correct, &rec.PracticedAt); err != nil {
			return nil, fmt.Errorf("scan practice record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate practice records: %w", err)
	}
	return out, nil
}
