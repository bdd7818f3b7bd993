package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/wrongbook/internal/store"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return buf.String()
}

func testEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WRONGBOOK_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("WRONGBOOK_LOG_MODE", "prod")
	return filepath.Join(dir, "wrongbook.db")
}

func TestTagsAndPromptCommands(t *testing.T) {
	db := testEnv(t)

	out := execute(t, "tags", "seed", "--db", db)
	assert.Contains(t, out, "Seeded curriculum")

	out = execute(t, "tags", "seed", "--db", db)
	assert.Contains(t, out, " 0 created")

	out = execute(t, "tags", "resolve", "初二下", "--subject", "数学", "--db", db)
	assert.Contains(t, out, "八年级下")

	out = execute(t, "tags", "resolve", "大学", "--subject", "math", "--db", db)
	assert.Contains(t, out, "does not match")

	out = execute(t, "tags", "add", "错位相减", "--grade", "初二下", "--subject", "math", "--db", db, "--user", "u1")
	assert.Contains(t, out, "错位相减")
	assert.NotContains(t, out, "parent none")

	out = execute(t, "prompt", "analyze", "--grade", "初二下", "--subject", "数学", "--lang", "zh", "--db", db, "--user", "u1")
	assert.Contains(t, out, `"错位相减"`)
	assert.NotContains(t, out, "{{")

	out = execute(t, "prompt", "reanswer", "1+1=?", "--subject", "", "--lang", "en", "--db", db)
	assert.Contains(t, out, "1+1=?")
	assert.Contains(t, out, "infer it from the question content")
}

func TestPracticeRecordAndReview(t *testing.T) {
	db := testEnv(t)

	st, err := store.Open(db)
	require.NoError(t, err)
	item := &store.ErrorItem{
		UserID:       "u1",
		Subject:      "math",
		QuestionText: "计算 3+4×2",
		Answer:       "11",
		CreatedAt:    time.Now().UTC().Add(-48 * time.Hour),
	}
	require.NoError(t, st.ItemRepo().Create(context.Background(), item))
	require.NoError(t, st.Close())

	out := execute(t, "review", "--db", db, "--user", "u1")
	assert.Contains(t, out, item.ID)

	out = execute(t, "practice", "record", item.ID, "correct", "--db", db, "--user", "u1")
	assert.Contains(t, out, "Attempts:  1 (1 correct)")

	out = execute(t, "review", "items", "--db", db, "--user", "u1")
	assert.Contains(t, out, "计算 3+4×2")

	out = execute(t, "review", "--db", db, "--user", "u1")
	assert.Contains(t, out, "Nothing to review today.")
}

func TestReadImage(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "q.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644))
	img, err := readImage(png)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MediaType)

	txt := filepath.Join(dir, "q.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))
	_, err = readImage(txt)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "勾股", truncate("勾股定理", 5))
}

func TestLLMCommandsOnEmptyStore(t *testing.T) {
	db := testEnv(t)

	assert.Contains(t, execute(t, "llm", "list", "--db", db), "No LLM events found.")
	assert.Contains(t, execute(t, "llm", "stats", "--db", db), "No LLM usage recorded yet.")
}

func TestVersion(t *testing.T) {
	assert.Contains(t, execute(t, "version"), "wrongbook")
}
