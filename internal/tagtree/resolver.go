// Package tagtree maps loosely formatted grade/semester strings onto the root
// nodes of the seeded knowledge-tag forest.
package tagtree

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/width"
)

// RootTag is the subset of a knowledge tag the resolver reads.
type RootTag struct {
	ID   int
	Name string
}

// RootTagSource loads the system root tags (parentId IS NULL, isSystem = true)
// for a subject.
type RootTagSource interface {
	SystemRootTags(ctx context.Context, subject string) ([]RootTag, error)
}

// Resolver finds the root tag a new tag should be attached to.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	source RootTagSource
}

// NewResolver creates a Resolver reading roots from source.
func NewResolver(source RootTagSource) *Resolver {
	return &Resolver{source: source}
}

// FindParentTagIDForGrade returns the id of the system root tag matching
// gradeSemester within subject, or nil when nothing matches. Malformed input
// is never an error; only a failing fetch from the source is.
func (r *Resolver) FindParentTagIDForGrade(ctx context.Context, gradeSemester, subject string) (*int, error) {
	input := strings.TrimSpace(gradeSemester)
	if input == "" || subject == "" {
		return nil, nil
	}

	roots, err := r.source.SystemRootTags(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("load root tags for %s: %w", subject, err)
	}
	return Match(roots, input), nil
}

// Match resolves gradeSemester against an already fetched set of roots.
func Match(roots []RootTag, gradeSemester string) *int {
	input := strings.TrimSpace(gradeSemester)
	if input == "" || len(roots) == 0 {
		return nil
	}

	byName := make(map[string]int, len(roots))
	for _, t := range roots {
		if _, dup := byName[t.Name]; !dup {
			byName[t.Name] = t.ID
		}
	}

	if id, ok := byName[input]; ok {
		return &id
	}

	for _, name := range candidates(width.Narrow.String(input)) {
		if id, ok := byName[name]; ok {
			return &id
		}
	}
	return nil
}
