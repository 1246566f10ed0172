package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/nable/internal/config"
	"github.com/abhisek/nable/internal/engine"
	"github.com/abhisek/nable/internal/store"
)

const testPool = `{"items": [
  {"questionId": "q1", "subSkills": ["add"], "difficulty": 5, "topicId": "sums"},
  {"questionId": "q2", "subSkills": ["add"], "difficulty": 3, "topicId": "sums"},
  {"questionId": "q3", "subSkills": ["sub"], "difficulty": 8, "topicId": "diffs"}
]}`

// resetFlags restores every flag to its default; cobra keeps flag values
// between Execute calls on the same command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type cli struct {
	t    *testing.T
	db   string
	pool string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("NABLE_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("NABLE_DB", "")
	t.Setenv("NABLE_LOG_MODE", "")
	t.Setenv("NABLE_MAX_HEARTS", "")

	pool := filepath.Join(dir, "pool.json")
	require.NoError(t, os.WriteFile(pool, []byte(testPool), 0o644))
	return &cli{t: t, db: filepath.Join(dir, "data", "nable.db"), pool: pool}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append(args, "--db", c.db))
	err := rootCmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run(args...)
	require.NoError(c.t, err, "nable %v", args)
	return out
}

func (c *cli) recommend(learnerID string) engine.Recommendation {
	c.t.Helper()
	out := c.mustRun("recommend", learnerID, "--pool", c.pool, "--json")
	var rec engine.Recommendation
	require.NoError(c.t, json.Unmarshal([]byte(out), &rec))
	return rec
}

func TestCLI_LearnerLifecycle(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("init", "ada")
	assert.Contains(t, out, "created ada")
	assert.FileExists(t, c.db)

	_, err := c.run("init", "ada")
	assert.Error(t, err, "init twice without --force")

	rec := c.recommend("ada")
	require.NotNil(t, rec.Question)
	assert.Equal(t, "q1", rec.Question.QuestionID)

	out = c.mustRun("answer", "ada", "q1", "correct", "--pool", c.pool)
	assert.Contains(t, out, "hearts 5/5  streak 1")
	assert.Contains(t, out, "add")

	rec = c.recommend("ada")
	require.NotNil(t, rec.Question)
	assert.NotEqual(t, "q1", rec.Question.QuestionID)

	out = c.mustRun("show", "ada", "--plain")
	assert.Contains(t, out, "ada")
	assert.Contains(t, out, "add")

	out = c.mustRun("forget", "ada")
	assert.Contains(t, out, "forgot ada")
	_, err = c.run("show", "ada")
	assert.ErrorContains(t, err, "unknown learner")
}

func TestCLI_LockoutAndReset(t *testing.T) {
	c := newCLI(t)
	c.mustRun("init", "bo")

	var out string
	for i := 0; i < 5; i++ {
		out = c.mustRun("answer", "bo", "q2", "incorrect", "--pool", c.pool)
	}
	assert.Contains(t, out, "hearts 0/5")
	assert.Contains(t, out, "session locked")

	_, err := c.run("answer", "bo", "q2", "correct", "--pool", c.pool)
	assert.ErrorIs(t, err, engine.ErrSessionLocked)

	rec := c.recommend("bo")
	assert.Nil(t, rec.Question)
	assert.Equal(t, "locked", string(rec.Status))

	out = c.mustRun("reset-session", "bo")
	assert.Contains(t, out, "5 hearts")

	rec = c.recommend("bo")
	assert.NotNil(t, rec.Question)
}

func TestCLI_AnswerErrors(t *testing.T) {
	c := newCLI(t)
	c.mustRun("init", "cy")

	_, err := c.run("answer", "cy", "nope", "correct", "--pool", c.pool)
	assert.ErrorIs(t, err, engine.ErrInvalidAnswerReference)

	_, err = c.run("answer", "cy", "q1", "maybe", "--pool", c.pool)
	assert.ErrorContains(t, err, "correct or incorrect")

	_, err = c.run("answer", "cy", "q1", "correct")
	assert.ErrorContains(t, err, "--pool is required")
}

func TestCLI_AnswerRecordsEventWithState(t *testing.T) {
	c := newCLI(t)
	c.mustRun("init", "di")
	c.mustRun("answer", "di", "q1", "correct", "--pool", c.pool)

	ctx := context.Background()
	st, err := store.Open(c.db)
	require.NoError(t, err)
	defer st.Close()
	eng, err := engine.New(engine.DefaultConfig())
	require.NoError(t, err)

	doc, err := st.StateRepo().Load(ctx, "di")
	require.NoError(t, err)
	state := eng.LoadStateJSON("di", doc)
	assert.Equal(t, []string{"q1"}, state.SessionQuestions)

	correct, err := st.EventRepo().CorrectQuestions(ctx, "di")
	require.NoError(t, err)
	assert.Equal(t, []string{"q1"}, correct)
}

func TestCLI_ConfigInit(t *testing.T) {
	c := newCLI(t)
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	out := c.mustRun("config", "init", "--config", path)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err := c.run("config", "init", "--config", path)
	assert.ErrorContains(t, err, "already exists")

	c.mustRun("config", "init", "--config", path, "--force")
	got, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), got)
}

func TestParseOutcome(t *testing.T) {
	for _, s := range []string{"correct", "Correct", " yes ", "1"} {
		got, err := parseOutcome(s)
		if err != nil || !got {
			t.Errorf("parseOutcome(%q) = %v, %v, want true", s, got, err)
		}
	}
	for _, s := range []string{"incorrect", "WRONG", "0"} {
		got, err := parseOutcome(s)
		if err != nil || got {
			t.Errorf("parseOutcome(%q) = %v, %v, want false", s, got, err)
		}
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b,c ")
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Nil(t, splitList(""))
}
