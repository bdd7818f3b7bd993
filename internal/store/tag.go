package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// KnowledgeTag is a node of the knowledge-tag forest. Roots are grade/semester
// nodes, inner nodes are chapters and leaves are assignable knowledge points.
type KnowledgeTag struct {
	ID       int
	Name     string
	Subject  string
	ParentID *int
	IsSystem bool
	Order    int
	UserID   string // empty for system tags
}

var tagColumns = []string{"id", "name", "subject", "is_system", "sort_order", "user_id", "parent_id"}

// TagRepo reads and writes knowledge tags.
type TagRepo struct {
	drv dialect.ExecQuerier
}

// WithTx returns a TagRepo that runs inside tx.
func (r *TagRepo) WithTx(tx dialect.Tx) *TagRepo {
	return &TagRepo{drv: tx}
}

// Create inserts tag and sets its ID.
func (r *TagRepo) Create(ctx context.Context, tag *KnowledgeTag) error {
	var parent any
	if tag.ParentID != nil {
		parent = *tag.ParentID
	}
	query, args := builder().Insert(tableKnowledgeTags).
		Columns("name", "subject", "is_system", "sort_order", "user_id", "parent_id").
		Values(tag.Name, tag.Subject, tag.IsSystem, tag.Order, tag.UserID, parent).
		Query()

	var res sql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("insert tag %q: %w", tag.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert tag %q: %w", tag.Name, err)
	}
	tag.ID = int(id)
	return nil
}

// Get returns the tag with id, or ErrNotFound.
func (r *TagRepo) Get(ctx context.Context, id int) (*KnowledgeTag, error) {
	tags, err := r.query(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("tag %d: %w", id, ErrNotFound)
	}
	return &tags[0], nil
}

// SystemRoots returns the system root tags of a subject: the grade/semester
// nodes of the seeded curriculum.
func (r *TagRepo) SystemRoots(ctx context.Context, subject string) ([]KnowledgeTag, error) {
	return r.query(ctx, entsql.And(
		entsql.EQ("subject", subject),
		entsql.EQ("is_system", true),
		entsql.IsNull("parent_id"),
	))
}

// SystemTags returns every system tag of a subject.
func (r *TagRepo) SystemTags(ctx context.Context, subject string) ([]KnowledgeTag, error) {
	return r.query(ctx, entsql.And(
		entsql.EQ("subject", subject),
		entsql.EQ("is_system", true),
	))
}

// Visible returns the system tags of a subject plus the custom tags owned by
// userID.
func (r *TagRepo) Visible(ctx context.Context, subject, userID string) ([]KnowledgeTag, error) {
	return r.query(ctx, entsql.And(
		entsql.EQ("subject", subject),
		entsql.Or(
			entsql.EQ("is_system", true),
			entsql.EQ("user_id", userID),
		),
	))
}

// Find returns the tag with the given name under parentID (nil for roots),
// or nil when none exists.
func (r *TagRepo) Find(ctx context.Context, subject, name string, parentID *int, system bool) (*KnowledgeTag, error) {
	parent := entsql.IsNull("parent_id")
	if parentID != nil {
		parent = entsql.EQ("parent_id", *parentID)
	}
	tags, err := r.query(ctx, entsql.And(
		entsql.EQ("subject", subject),
		entsql.EQ("name", name),
		entsql.EQ("is_system", system),
		parent,
	))
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return &tags[0], nil
}

// DeleteCustom deletes a custom tag owned by userID.
func (r *TagRepo) DeleteCustom(ctx context.Context, id int, userID string) error {
	tag, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if tag.IsSystem {
		return ErrSystemTag
	}
	if tag.UserID != userID {
		return ErrNotOwner
	}

	query, args := builder().Delete(tableKnowledgeTags).
		Where(entsql.EQ("id", id)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete tag %d: %w", id, err)
	}
	return nil
}

func (r *TagRepo) query(ctx context.Context, where *entsql.Predicate) ([]KnowledgeTag, error) {
	query, args := builder().Select(tagColumns...).
		From(entsql.Table(tableKnowledgeTags)).
		Where(where).
		OrderBy("sort_order", "id").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []KnowledgeTag
	for rows.Next() {
		var (
			t      KnowledgeTag
			parent sql.NullInt64
		)
		if err := rows.Scan(&t.ID, &t.Name, &t.Subject, &t.IsSystem, &t.Order, &t.UserID, &parent); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		if parent.Valid {
			p := int(parent.Int64)
			t.ParentID = &p
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}
