package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		// journal_mode stays "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}
	for _, tt := range tests {
		var got string
		if err := s.DB().QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func intp(v int) *int { return &v }

func TestTagRepo_SystemRoots(t *testing.T) {
	s := openTestStore(t)
	repo := s.TagRepo()
	ctx := context.Background()

	root := &KnowledgeTag{Name: "七年级上", Subject: "math", IsSystem: true, Order: 1}
	require.NoError(t, repo.Create(ctx, root))
	require.NoError(t, repo.Create(ctx, &KnowledgeTag{Name: "有理数", Subject: "math", IsSystem: true, ParentID: intp(root.ID)}))
	require.NoError(t, repo.Create(ctx, &KnowledgeTag{Name: "七年级下", Subject: "math", IsSystem: true, Order: 2}))
	require.NoError(t, repo.Create(ctx, &KnowledgeTag{Name: "我的错题", Subject: "math", UserID: "u1"}))
	require.NoError(t, repo.Create(ctx, &KnowledgeTag{Name: "八年级上", Subject: "physics", IsSystem: true}))

	roots, err := repo.SystemRoots(ctx, "math")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "七年级上", roots[0].Name)
	assert.Equal(t, "七年级下", roots[1].Name)
	assert.Nil(t, roots[0].ParentID)

	all, err := repo.SystemTags(ctx, "math")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTagRepo_FindAndVisible(t *testing.T) {
	s := openTestStore(t)
	repo := s.TagRepo()
	ctx := context.Background()

	root := &KnowledgeTag{Name: "七年级上", Subject: "math", IsSystem: true}
	require.NoError(t, repo.Create(ctx, root))
	child := &KnowledgeTag{Name: "有理数", Subject: "math", IsSystem: true, ParentID: intp(root.ID)}
	require.NoError(t, repo.Create(ctx, child))
	require.NoError(t, repo.Create(ctx, &KnowledgeTag{Name: "mine", Subject: "math", UserID: "u1", ParentID: intp(root.ID)}))
	require.NoError(t, repo.Create(ctx, &KnowledgeTag{Name: "theirs", Subject: "math", UserID: "u2"}))

	got, err := repo.Find(ctx, "math", "有理数", intp(root.ID), true)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, child.ID, got.ID)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)

	missing, err := repo.Find(ctx, "math", "有理数", nil, true)
	require.NoError(t, err)
	assert.Nil(t, missing)

	visible, err := repo.Visible(ctx, "math", "u1")
	require.NoError(t, err)
	names := make([]string, len(visible))
	for i, v := range visible {
		names[i] = v.Name
	}
	assert.ElementsMatch(t, []string{"七年级上", "有理数", "mine"}, names)
}

func TestTagRepo_DeleteCustom(t *testing.T) {
	s := openTestStore(t)
	repo := s.TagRepo()
	ctx := context.Background()

	sys := &KnowledgeTag{Name: "七年级上", Subject: "math", IsSystem: true}
	require.NoError(t, repo.Create(ctx, sys))
	custom := &KnowledgeTag{Name: "mine", Subject: "math", UserID: "u1", ParentID: intp(sys.ID)}
	require.NoError(t, repo.Create(ctx, custom))

	assert.ErrorIs(t, repo.DeleteCustom(ctx, sys.ID, "u1"), ErrSystemTag)
	assert.ErrorIs(t, repo.DeleteCustom(ctx, custom.ID, "u2"), ErrNotOwner)
	assert.ErrorIs(t, repo.DeleteCustom(ctx, 9999, "u1"), ErrNotFound)

	require.NoError(t, repo.DeleteCustom(ctx, custom.ID, "u1"))
	_, err := repo.Get(ctx, custom.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInTx_RollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(tx dialect.Tx) error {
		if err := s.TagRepo().WithTx(tx).Create(ctx, &KnowledgeTag{Name: "x", Subject: "math", IsSystem: true}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	roots, err := s.TagRepo().SystemRoots(ctx, "math")
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestItemRepo_Lifecycle(t *testing.T) {
	s := openTestStore(t)
	repo := s.ItemRepo()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	older := &ErrorItem{UserID: "u1", Subject: "数学", QuestionText: "1+1=?", KnowledgePoints: []string{"加法"}, CreatedAt: base}
	newer := &ErrorItem{UserID: "u1", Subject: "物理", QuestionText: "F=ma?", CreatedAt: base.Add(time.Minute)}
	other := &ErrorItem{UserID: "u2", Subject: "数学", QuestionText: "2+2=?", CreatedAt: base}
	for _, it := range []*ErrorItem{older, newer, other} {
		require.NoError(t, repo.Create(ctx, it))
		require.NotEmpty(t, it.ID)
	}

	got, err := repo.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"加法"}, got.KnowledgePoints)
	assert.True(t, got.CreatedAt.Equal(base))

	list, err := repo.List(ctx, ItemFilter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, []string{}, list[0].KnowledgePoints)

	math, err := repo.List(ctx, ItemFilter{Subject: "数学"})
	require.NoError(t, err)
	assert.Len(t, math, 2)

	require.NoError(t, repo.UpdateSolution(ctx, older.ID, "2", "one plus one", []string{"加法", "整数"}))
	require.NoError(t, repo.SetMastery(ctx, older.ID, 1))
	require.NoError(t, repo.UpdateQuestion(ctx, older.ID, "1+1=? (corrected)"))
	got, err = repo.Get(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "1+1=? (corrected)", got.QuestionText)
	assert.Equal(t, "2", got.Answer)
	assert.Equal(t, 1, got.Mastery)
	assert.Len(t, got.KnowledgePoints, 2)

	assert.ErrorIs(t, repo.SetMastery(ctx, "missing", 1), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, older.ID))
	_, err = repo.Get(ctx, older.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPracticeRepo(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	mine := &ErrorItem{UserID: "u1", QuestionText: "q1"}
	theirs := &ErrorItem{UserID: "u2", QuestionText: "q2"}
	require.NoError(t, s.ItemRepo().Create(ctx, mine))
	require.NoError(t, s.ItemRepo().Create(ctx, theirs))

	repo := s.PracticeRepo()
	base := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Append(ctx, &PracticeRecord{ErrorItemID: mine.ID, Correct: false, PracticedAt: base}))
	require.NoError(t, repo.Append(ctx, &PracticeRecord{ErrorItemID: mine.ID, Correct: true, PracticedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Append(ctx, &PracticeRecord{ErrorItemID: theirs.ID, Correct: true, PracticedAt: base}))

	recs, err := repo.ForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.False(t, recs[0].Correct)
	assert.True(t, recs[1].Correct)

	byItem, err := repo.ForItem(ctx, theirs.ID)
	require.NoError(t, err)
	assert.Len(t, byItem, 1)

	// Deleting the item cascades to its records.
	require.NoError(t, s.ItemRepo().Delete(ctx, mine.ID))
	recs, err = repo.ForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestEventRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o", Purpose: "analyze", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "openai", Model: "gpt-4o", Purpose: "analyze", InputTokens: 300, OutputTokens: 70, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "similar", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, ErrorMessage: "boom"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "similar", all[0].Purpose, "newest first")

	analyze, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "analyze", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, analyze, 1)

	one, err := repo.GetLLMEvent(ctx, all[0].ID)
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "boom", one.ErrorMessage)
	assert.False(t, one.Success)

	none, err := repo.GetLLMEvent(ctx, 12345)
	require.NoError(t, err)
	assert.Nil(t, none)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, UsageStat{Key: "analyze", Calls: 2, InputTokens: 400, OutputTokens: 120, AvgLatencyMs: 300}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	assert.Len(t, byModel, 2)
}
