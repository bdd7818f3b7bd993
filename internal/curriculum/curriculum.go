// Package curriculum holds the system knowledge-tag tree and seeds it into
// the store.
package curriculum

import (
	"context"
	_ "embed"
	"fmt"

	"entgo.io/ent/dialect"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/wrongbook/internal/store"
)

//go:embed curriculum.yaml
var curriculumYAML []byte

// Curriculum is the parsed system tag tree.
type Curriculum struct {
	Subjects []Subject `yaml:"subjects"`
}

// Subject is the tag tree of one subject.
type Subject struct {
	Key    string  `yaml:"key"`
	Grades []Grade `yaml:"grades"`
}

// Grade is a root node: a grade, optionally split by semester.
type Grade struct {
	Name     string    `yaml:"name"`
	Chapters []Chapter `yaml:"chapters"`
}

// Chapter groups knowledge points.
type Chapter struct {
	Name   string   `yaml:"name"`
	Points []string `yaml:"points"`
}

// Default returns the embedded curriculum.
func Default() (*Curriculum, error) {
	return Parse(curriculumYAML)
}

// Parse decodes a curriculum document.
func Parse(data []byte) (*Curriculum, error) {
	var c Curriculum
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse curriculum: %w", err)
	}
	for _, s := range c.Subjects {
		if s.Key == "" {
			return nil, fmt.Errorf("parse curriculum: subject without key")
		}
		for _, g := range s.Grades {
			if g.Name == "" {
				return nil, fmt.Errorf("parse curriculum: %s has a grade without name", s.Key)
			}
		}
	}
	return &c, nil
}

// SeedResult reports what Seed did.
type SeedResult struct {
	Created  int
	Existing int
}

// Seed writes c into the store as system tags. Existing tags are matched by
// subject, name and parent, so seeding twice creates nothing new.
func Seed(ctx context.Context, st *store.Store, c *Curriculum) (SeedResult, error) {
	var res SeedResult
	err := st.InTx(ctx, func(tx dialect.Tx) error {
		s := seeder{repo: st.TagRepo().WithTx(tx), res: &res}
		for _, subj := range c.Subjects {
			for gi, g := range subj.Grades {
				root, err := s.ensure(ctx, subj.Key, g.Name, nil, gi)
				if err != nil {
					return err
				}
				for ci, ch := range g.Chapters {
					chapter, err := s.ensure(ctx, subj.Key, ch.Name, &root, ci)
					if err != nil {
						return err
					}
					for pi, p := range ch.Points {
						if _, err := s.ensure(ctx, subj.Key, p, &chapter, pi); err != nil {
							return err
						}
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, fmt.Errorf("seed curriculum: %w", err)
	}
	return res, nil
}

type seeder struct {
	repo *store.TagRepo
	res  *SeedResult
}

func (s seeder) ensure(ctx context.Context, subject, name string, parentID *int, order int) (int, error) {
	existing, err := s.repo.Find(ctx, subject, name, parentID, true)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		s.res.Existing++
		return existing.ID, nil
	}
	tag := &store.KnowledgeTag{
		Name:     name,
		Subject:  subject,
		ParentID: parentID,
		IsSystem: true,
		Order:    order,
	}
	if err := s.repo.Create(ctx, tag); err != nil {
		return 0, err
	}
	s.res.Created++
	return tag.ID, nil
}
