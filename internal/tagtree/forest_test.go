package tagtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeafNames(t *testing.T) {
	p := func(v int) *int { return &v }
	nodes := []Node{
		{ID: 1, Name: "七年级上"},
		{ID: 2, Name: "有理数", ParentID: p(1)},
		{ID: 3, Name: "正数和负数", ParentID: p(2)},
		{ID: 4, Name: "有理数的加减法", ParentID: p(2)},
		{ID: 5, Name: "一元一次方程", ParentID: p(1)}, // leaf directly under root
		{ID: 6, Name: "七年级下"},
		{ID: 7, Name: "相交线与平行线", ParentID: p(6)},
		{ID: 8, Name: "平行线的判定", ParentID: p(7)},
		{ID: 9, Name: "正数和负数", ParentID: p(7)}, // duplicate name
		{ID: 10, Name: "八年级上"},                // root without children
	}

	assert.Equal(t, []string{"正数和负数", "有理数的加减法", "一元一次方程"}, LeafNames(nodes, 1))
	assert.Equal(t,
		[]string{"正数和负数", "有理数的加减法", "一元一次方程", "平行线的判定"},
		LeafNames(nodes, 1, 6))
	assert.Empty(t, LeafNames(nodes, 10))
}

func TestGradeNumber(t *testing.T) {
	tests := map[string]int{
		"一年级上": 1,
		"六年级":  6,
		"七年级上": 7,
		"八年级下": 8,
		"九年级":  9,
		"高一上":  10,
		"高三":   12,
		"大学":   0,
		"七年级中": 0,
	}
	for name, want := range tests {
		assert.Equal(t, want, GradeNumber(name), name)
	}
}

func TestCumulativeRoots(t *testing.T) {
	all := roots("六年级下", "七年级上", "七年级下", "八年级上", "八年级下", "九年级上", "高一上")

	got := CumulativeRoots(all, "八年级上")
	names := make([]string, len(got))
	for i, r := range got {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"七年级上", "七年级下", "八年级上"}, names)

	assert.Len(t, CumulativeRoots(all, "高一上"), 1)
	assert.Nil(t, CumulativeRoots(all, "unknown"))
}
