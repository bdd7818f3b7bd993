package notebook

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/wrongbook/internal/analyzer"
	"github.com/abhisek/wrongbook/internal/curriculum"
	"github.com/abhisek/wrongbook/internal/llm"
	"github.com/abhisek/wrongbook/internal/logger"
	"github.com/abhisek/wrongbook/internal/prompts"
	"github.com/abhisek/wrongbook/internal/store"
)

const testCurriculum = `
subjects:
  - key: math
    grades:
      - name: 七年级上
        chapters:
          - name: 有理数
            points: [正数和负数, 数轴]
      - name: 七年级下
        chapters:
          - name: 实数
            points: [平方根]
      - name: 八年级上
        chapters:
          - name: 全等三角形
            points: [三角形全等的判定]
      - name: 八年级下
        chapters:
          - name: 勾股定理
            points: [勾股定理的应用]
  - key: physics
    grades:
      - name: 八年级上
        chapters:
          - name: 机械运动
            points: [速度]
`

type fixture struct {
	svc  *Service
	st   *store.Store
	mock *llm.MockProvider
	logs *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	c, err := curriculum.Parse([]byte(testCurriculum))
	require.NoError(t, err)
	_, err = curriculum.Seed(context.Background(), st, c)
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	log := logger.FromZap(zap.New(core))
	mock := llm.NewMockProvider()
	svc := New(st, analyzer.New(mock, analyzer.DefaultConfig(), log), log)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC) }
	return &fixture{svc: svc, st: st, mock: mock, logs: logs}
}

func (f *fixture) reply(v any) {
	b, _ := json.Marshal(v)
	f.mock.AddResponse(llm.MockResponse{Content: b})
}

func analysis(points ...string) map[string]any {
	return map[string]any{
		"question_text":    "已知直角三角形两直角边为3和4，求斜边。",
		"answer":           "5",
		"analysis":         "由勾股定理得 √(9+16)=5",
		"subject":          "数学",
		"knowledge_points": points,
		"requires_image":   false,
	}
}

func TestPrefetchTags_Cumulative(t *testing.T) {
	f := newFixture(t)
	tags, grade, err := f.svc.PrefetchTags(context.Background(), "u1", "初二上", "数学")
	require.NoError(t, err)

	require.NotNil(t, grade)
	assert.Equal(t, 8, *grade)
	assert.Equal(t, map[prompts.Subject][]string{
		prompts.SubjectMath: {"正数和负数", "数轴", "平方根", "三角形全等的判定"},
	}, tags)
}

func TestPrefetchTags_AllSubjectsWhenUnknown(t *testing.T) {
	f := newFixture(t)
	tags, _, err := f.svc.PrefetchTags(context.Background(), "u1", "Grade 8 1st", "")
	require.NoError(t, err)
	assert.Len(t, tags[prompts.SubjectMath], 4)
	assert.Equal(t, []string{"速度"}, tags[prompts.SubjectPhysics])
	_, hasChem := tags[prompts.SubjectChemistry]
	assert.False(t, hasChem)
}

func TestPrefetchTags_UnresolvedGrade(t *testing.T) {
	f := newFixture(t)
	tags, grade, err := f.svc.PrefetchTags(context.Background(), "u1", "大学", "math")
	require.NoError(t, err)
	assert.Nil(t, grade)
	assert.Empty(t, tags)
}

func TestAddFromImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reply(analysis("勾股定理的应用", "直角三角形斜边"))

	item, err := f.svc.AddFromImage(ctx, AddInput{
		UserID:        "u1",
		GradeSemester: "八年级下",
		Subject:       "数学",
		Image:         llm.Image{MediaType: "image/jpeg", Data: []byte("photo")},
	})
	require.NoError(t, err)
	assert.Equal(t, "math", item.Subject)
	assert.Equal(t, "八年级下", item.Grade)
	assert.Equal(t, []string{"勾股定理的应用", "直角三角形斜边"}, item.KnowledgePoints)

	prompt := f.mock.LastRequest().Messages[0].Content
	assert.Contains(t, prompt, `"勾股定理的应用"`)
	assert.NotContains(t, prompt, "{{")

	// The unknown point becomes a custom tag under the 八年级下 root.
	roots, err := f.st.TagRepo().SystemRoots(ctx, "math")
	require.NoError(t, err)
	var rootID int
	for _, r := range roots {
		if r.Name == "八年级下" {
			rootID = r.ID
		}
	}
	custom, err := f.st.TagRepo().Find(ctx, "math", "直角三角形斜边", &rootID, false)
	require.NoError(t, err)
	require.NotNil(t, custom)
	assert.Equal(t, "u1", custom.UserID)

	stored, err := f.svc.Items(ctx, "u1", "数学", 0)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, item.ID, stored[0].ID)
}

func TestAddBatchFromImage(t *testing.T) {
	f := newFixture(t)
	f.reply(map[string]any{"questions": []any{analysis("数轴"), analysis("平方根")}})

	items, err := f.svc.AddBatchFromImage(context.Background(), AddInput{UserID: "u1", GradeSemester: "七年级下"})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestResolveGrade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.svc.ResolveGrade(ctx, "八年级下", "数学")
	require.NoError(t, err)
	require.NotNil(t, id)
	tag, err := f.st.TagRepo().Get(ctx, *id)
	require.NoError(t, err)
	assert.Equal(t, "八年级下", tag.Name)

	id, err = f.svc.ResolveGrade(ctx, "九年级", "physics")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestCreateCustomTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tag, err := f.svc.CreateCustomTag(ctx, CustomTagInput{UserID: "u1", Subject: "physics", Name: "平均速度", GradeSemester: "初二上"})
	require.NoError(t, err)
	require.NotNil(t, tag.ParentID)
	parent, err := f.st.TagRepo().Get(ctx, *tag.ParentID)
	require.NoError(t, err)
	assert.Equal(t, "八年级上", parent.Name)

	again, err := f.svc.CreateCustomTag(ctx, CustomTagInput{UserID: "u1", Subject: "物理", Name: "平均速度", GradeSemester: "八年级上"})
	require.NoError(t, err)
	assert.Equal(t, tag.ID, again.ID)

	assert.ErrorIs(t, f.svc.DeleteCustomTag(ctx, "u2", tag.ID), store.ErrNotOwner)
	assert.ErrorIs(t, f.svc.DeleteCustomTag(ctx, "u1", *tag.ParentID), store.ErrSystemTag)
	require.NoError(t, f.svc.DeleteCustomTag(ctx, "u1", tag.ID))
}

func TestCreateCustomTag_UnresolvedGradeIsLogged(t *testing.T) {
	f := newFixture(t)
	tag, err := f.svc.CreateCustomTag(context.Background(), CustomTagInput{UserID: "u1", Subject: "math", Name: "奥数", GradeSemester: "大一"})
	require.NoError(t, err)
	assert.Nil(t, tag.ParentID)

	warnings := f.logs.FilterMessage("grade did not match any root tag, custom tag left parentless").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "大一", warnings[0].ContextMap()["grade"])
}

func TestPracticeAndReview(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reply(analysis("勾股定理的应用"))
	item, err := f.svc.AddFromImage(ctx, AddInput{UserID: "u1", GradeSemester: "八年级下", Subject: "math"})
	require.NoError(t, err)

	f.reply(map[string]any{"question_text": "两直角边为6和8，求斜边。", "answer": "10", "analysis": "√(36+64)=10"})
	q, err := f.svc.GeneratePractice(ctx, "u1", item.ID, prompts.DifficultyMedium)
	require.NoError(t, err)
	assert.Equal(t, "10", q.Answer)

	_, err = f.svc.GeneratePractice(ctx, "u2", item.ID, prompts.DifficultyMedium)
	assert.ErrorIs(t, err, store.ErrNotOwner)

	var last int
	for i := 0; i < 3; i++ {
		f.svc.now = func() time.Time { return time.Date(2026, 3, 2+i, 8, 0, 0, 0, time.UTC) }
		st, err := f.svc.RecordPractice(ctx, "u1", item.ID, true)
		require.NoError(t, err)
		last = st.ConsecutiveHits
	}
	assert.Equal(t, 3, last)

	got, err := f.svc.Item(ctx, "u1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Mastery)

	sched, err := f.svc.Review(ctx, "u1")
	require.NoError(t, err)
	stats := sched.Stats(time.Date(2026, 3, 5, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Mastered)
	assert.Equal(t, 0, stats.Due)
	assert.Equal(t, 3, stats.Attempts)
}

func TestReanswer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reply(analysis("勾股定理的应用"))
	item, err := f.svc.AddFromImage(ctx, AddInput{UserID: "u1", GradeSemester: "八年级下", Subject: "math"})
	require.NoError(t, err)

	f.reply(map[string]any{"answer": "13", "analysis": "√(25+144)=13", "knowledge_points": []string{"勾股定理的应用"}})
	updated, err := f.svc.Reanswer(ctx, "u1", item.ID, "已知直角三角形两直角边为5和12，求斜边。")
	require.NoError(t, err)
	assert.Equal(t, "已知直角三角形两直角边为5和12，求斜边。", updated.QuestionText)
	assert.Equal(t, "13", updated.Answer)
	assert.Contains(t, f.mock.LastRequest().Messages[0].Content, "5和12")
}

// blockCustomTags makes every insert of a user-owned tag fail.
func (f *fixture) blockCustomTags(t *testing.T) {
	t.Helper()
	_, err := f.st.DB().Exec(`CREATE TRIGGER block_custom_tags BEFORE INSERT ON knowledge_tags
		WHEN NEW.user_id <> '' BEGIN SELECT RAISE(ABORT, 'custom tags disabled'); END`)
	require.NoError(t, err)
}

func TestAddFromImage_TagFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.blockCustomTags(t)
	f.reply(analysis("全新知识点"))

	_, err := f.svc.AddFromImage(ctx, AddInput{UserID: "u1", GradeSemester: "八年级下", Subject: "math"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "全新知识点")

	stored, err := f.st.ItemRepo().List(ctx, store.ItemFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestAddBatchFromImage_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.blockCustomTags(t)
	f.reply(map[string]any{"questions": []any{analysis("数轴"), analysis("全新知识点")}})

	items, err := f.svc.AddBatchFromImage(ctx, AddInput{UserID: "u1", GradeSemester: "七年级下"})
	require.Error(t, err)
	assert.Empty(t, items)

	stored, err := f.st.ItemRepo().List(ctx, store.ItemFilter{UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestReanswer_TagFailureKeepsOldSolution(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.reply(analysis("勾股定理的应用"))
	item, err := f.svc.AddFromImage(ctx, AddInput{UserID: "u1", GradeSemester: "八年级下", Subject: "math"})
	require.NoError(t, err)

	f.blockCustomTags(t)
	f.reply(map[string]any{"answer": "13", "analysis": "√(25+144)=13", "knowledge_points": []string{"全新知识点"}})
	_, err = f.svc.Reanswer(ctx, "u1", item.ID, "已知直角三角形两直角边为5和12，求斜边。")
	require.Error(t, err)

	got, err := f.st.ItemRepo().Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.QuestionText, got.QuestionText)
	assert.Equal(t, "5", got.Answer)
	assert.Equal(t, []string{"勾股定理的应用"}, got.KnowledgePoints)
}
