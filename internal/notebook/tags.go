package notebook

import (
	"context"
	"fmt"

	"github.com/abhisek/wrongbook/internal/prompts"
	"github.com/abhisek/wrongbook/internal/store"
	"github.com/abhisek/wrongbook/internal/tagtree"
)

// rootSource feeds system root tags from the store to the resolver.
type rootSource struct {
	tags *store.TagRepo
}

func (s rootSource) SystemRootTags(ctx context.Context, subject string) ([]tagtree.RootTag, error) {
	rows, err := s.tags.SystemRoots(ctx, subject)
	if err != nil {
		return nil, err
	}
	roots := make([]tagtree.RootTag, len(rows))
	for i, r := range rows {
		roots[i] = tagtree.RootTag{ID: r.ID, Name: r.Name}
	}
	return roots, nil
}

// subjectKey maps "数学" or "Math" to the stored key "math". Unknown
// subjects are kept as given.
func subjectKey(subject string) string {
	if s, ok := prompts.ParseSubject(subject); ok {
		return string(s)
	}
	return subject
}

// PrefetchTags collects the knowledge points a student at gradeSemester has
// covered so far: every leaf below the matching root and the earlier roots
// of the same school stage, custom tags of userID included. When subject is
// recognized only that subject is fetched. The second result is the school
// year of the first matched root, or nil when no grade matched.
func (s *Service) PrefetchTags(ctx context.Context, userID, gradeSemester, subject string) (map[prompts.Subject][]string, *int, error) {
	subjects := prompts.Subjects
	if sub, ok := prompts.ParseSubject(subject); ok {
		subjects = []prompts.Subject{sub}
	}

	src := rootSource{tags: s.store.TagRepo()}
	out := make(map[prompts.Subject][]string, len(subjects))
	var grade *int
	for _, sub := range subjects {
		roots, err := src.SystemRootTags(ctx, string(sub))
		if err != nil {
			return nil, nil, fmt.Errorf("load roots for %s: %w", sub, err)
		}
		id := tagtree.Match(roots, gradeSemester)
		if id == nil {
			continue
		}

		var target string
		for _, r := range roots {
			if r.ID == *id {
				target = r.Name
			}
		}
		if grade == nil {
			if n := tagtree.GradeNumber(target); n > 0 {
				grade = &n
			}
		}

		cumulative := tagtree.CumulativeRoots(roots, target)
		ids := make([]int, 0, len(cumulative)+1)
		for _, r := range cumulative {
			ids = append(ids, r.ID)
		}
		if len(ids) == 0 {
			ids = append(ids, *id)
		}

		rows, err := s.store.TagRepo().Visible(ctx, string(sub), userID)
		if err != nil {
			return nil, nil, fmt.Errorf("load tags for %s: %w", sub, err)
		}
		nodes := make([]tagtree.Node, len(rows))
		for i, r := range rows {
			nodes[i] = tagtree.Node{ID: r.ID, Name: r.Name, ParentID: r.ParentID}
		}
		out[sub] = tagtree.LeafNames(nodes, ids...)
	}
	return out, grade, nil
}

// ResolveGrade returns the system root tag of subject matching
// gradeSemester, or nil when none matches.
func (s *Service) ResolveGrade(ctx context.Context, gradeSemester, subject string) (*int, error) {
	return s.resolver.FindParentTagIDForGrade(ctx, gradeSemester, subjectKey(subject))
}

// CustomTagInput describes a user-created knowledge point.
type CustomTagInput struct {
	UserID        string
	Subject       string
	Name          string
	GradeSemester string
}

// CreateCustomTag stores a custom tag below the system root matching
// GradeSemester. An unresolvable grade leaves the tag parentless and is
// logged. Creating the same tag twice returns the existing one.
func (s *Service) CreateCustomTag(ctx context.Context, in CustomTagInput) (*store.KnowledgeTag, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("custom tag name is required")
	}
	subject := subjectKey(in.Subject)

	parent, err := s.parentFor(ctx, in.GradeSemester, subject, in.Name)
	if err != nil {
		return nil, err
	}

	repo := s.store.TagRepo()
	existing, err := repo.Find(ctx, subject, in.Name, parent, false)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.UserID == in.UserID {
		return existing, nil
	}

	tag := &store.KnowledgeTag{
		Name:     in.Name,
		Subject:  subject,
		ParentID: parent,
		UserID:   in.UserID,
	}
	if err := repo.Create(ctx, tag); err != nil {
		return nil, err
	}
	s.log.Info("custom tag created", "id", tag.ID, "tag", tag.Name, "subject", subject)
	return tag, nil
}

// parentFor resolves the root a custom tag hangs under. tag is only used for
// the warning logged when the grade does not resolve.
func (s *Service) parentFor(ctx context.Context, gradeSemester, subject, tag string) (*int, error) {
	parent, err := s.resolver.FindParentTagIDForGrade(ctx, gradeSemester, subject)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		s.log.Warn("grade did not match any root tag, custom tag left parentless",
			"grade", gradeSemester, "subject", subject, "tag", tag)
	}
	return parent, nil
}

// DeleteCustomTag removes a custom tag owned by userID.
func (s *Service) DeleteCustomTag(ctx context.Context, userID string, id int) error {
	if err := s.store.TagRepo().DeleteCustom(ctx, id, userID); err != nil {
		return fmt.Errorf("delete tag %d: %w", id, err)
	}
	return nil
}

// tagPlan collects the custom tags an analysis needs. It does all its reads
// up front so the writes can happen inside the transaction that stores the
// item.
type tagPlan struct {
	svc     *Service
	userID  string
	grade   string
	visible map[string]map[string]bool // subject -> names visible to userID
	parents map[string]*int
	tags    []*store.KnowledgeTag
}

func (s *Service) newTagPlan(userID, gradeSemester string) *tagPlan {
	return &tagPlan{
		svc:     s,
		userID:  userID,
		grade:   gradeSemester,
		visible: make(map[string]map[string]bool),
		parents: make(map[string]*int),
	}
}

// add queues a custom tag for every point not yet visible in subject.
func (p *tagPlan) add(ctx context.Context, subject string, points []string) error {
	if len(points) == 0 {
		return nil
	}
	subject = subjectKey(subject)
	have, ok := p.visible[subject]
	if !ok {
		rows, err := p.svc.store.TagRepo().Visible(ctx, subject, p.userID)
		if err != nil {
			return err
		}
		have = make(map[string]bool, len(rows))
		for _, r := range rows {
			have[r.Name] = true
		}
		p.visible[subject] = have
	}
	for _, name := range points {
		if have[name] {
			continue
		}
		parent, ok := p.parents[subject]
		if !ok {
			var err error
			parent, err = p.svc.parentFor(ctx, p.grade, subject, name)
			if err != nil {
				return fmt.Errorf("create tag %q: %w", name, err)
			}
			p.parents[subject] = parent
		}
		p.tags = append(p.tags, &store.KnowledgeTag{
			Name:     name,
			Subject:  subject,
			ParentID: parent,
			UserID:   p.userID,
		})
		have[name] = true
	}
	return nil
}

// create writes the queued tags with repo, which must be bound to the
// caller's transaction.
func (p *tagPlan) create(ctx context.Context, repo *store.TagRepo) error {
	for _, t := range p.tags {
		if err := repo.Create(ctx, t); err != nil {
			return fmt.Errorf("create tag %q: %w", t.Name, err)
		}
	}
	return nil
}

func (p *tagPlan) logCreated() {
	for _, t := range p.tags {
		p.svc.log.Info("custom tag created", "id", t.ID, "tag", t.Name, "subject", t.Subject)
	}
}
