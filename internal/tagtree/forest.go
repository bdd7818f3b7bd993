package tagtree

import "strings"

// Node is a knowledge tag reduced to its position in the forest.
type Node struct {
	ID       int
	Name     string
	ParentID *int
}

// LeafNames returns the names of the leaves below rootIDs, in input order and
// without duplicates. A root with no children is not a leaf of itself.
func LeafNames(nodes []Node, rootIDs ...int) []string {
	children := make(map[int][]Node)
	for _, n := range nodes {
		if n.ParentID != nil {
			children[*n.ParentID] = append(children[*n.ParentID], n)
		}
	}

	seen := make(map[string]bool)
	var out []string
	var walk func(id int)
	walk = func(id int) {
		for _, c := range children[id] {
			if len(children[c.ID]) == 0 {
				if !seen[c.Name] {
					seen[c.Name] = true
					out = append(out, c.Name)
				}
				continue
			}
			walk(c.ID)
		}
	}
	for _, id := range rootIDs {
		walk(id)
	}
	return out
}

// stage groups grades whose knowledge points build on each other.
type stage int

const (
	stagePrimary stage = iota + 1
	stageJunior
	stageSenior
)

var gradeLevels = []struct {
	Prefix string
	Number int
	Stage  stage
}{
	{"一年级", 1, stagePrimary},
	{"二年级", 2, stagePrimary},
	{"三年级", 3, stagePrimary},
	{"四年级", 4, stagePrimary},
	{"五年级", 5, stagePrimary},
	{"六年级", 6, stagePrimary},
	{"七年级", 7, stageJunior},
	{"八年级", 8, stageJunior},
	{"九年级", 9, stageJunior},
	{"高一", 10, stageSenior},
	{"高二", 11, stageSenior},
	{"高三", 12, stageSenior},
}

// GradeNumber returns the school year (1-12) of a canonical root name such as
// "八年级下" or "高一", or 0 when the name is not canonical.
func GradeNumber(rootName string) int {
	n, _, _ := rank(rootName)
	return (n + 1) / 2
}

// rank orders canonical root names: grade number times two, minus one for
// the first semester.
func rank(rootName string) (int, stage, bool) {
	for _, g := range gradeLevels {
		rest, ok := strings.CutPrefix(rootName, g.Prefix)
		if !ok {
			continue
		}
		switch rest {
		case SemesterFirst:
			return g.Number*2 - 1, g.Stage, true
		case SemesterSecond, "":
			return g.Number * 2, g.Stage, true
		}
	}
	return 0, 0, false
}

// CumulativeRoots returns the roots of the same school stage as target that
// come at or before it, in input order. Knowledge points accumulate across
// semesters, so a grade-8 student still sees grade-7 points.
func CumulativeRoots(roots []RootTag, target string) []RootTag {
	tr, ts, ok := rank(target)
	if !ok {
		return nil
	}
	var out []RootTag
	for _, r := range roots {
		if rr, rs, ok := rank(r.Name); ok && rs == ts && rr <= tr {
			out = append(out, r)
		}
	}
	return out
}
