package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/nable/internal/content"
	"github.com/abhisek/nable/internal/mastery"
	"github.com/abhisek/nable/internal/scoring"
)

func newTestSelector() *Selector {
	return NewSelector(scoring.NewScorer(scoring.DefaultConfig()))
}

func item(id string, d float64, skills ...string) content.Item {
	return content.Item{QuestionID: id, Difficulty: d, SubSkills: skills}
}

func TestSelect_PrefersTargetDifficulty(t *testing.T) {
	got := newTestSelector().Select(Request{
		Candidates: []content.Item{item("far", 9, "s"), item("near", 5, "s"), item("mid", 7, "s")},
		Target:     5,
	})
	require.NotNil(t, got.Item)
	assert.Equal(t, "near", got.Item.QuestionID)
	assert.Equal(t, RelaxNone, got.Relaxation)
	assert.Equal(t, 3, got.Eligible)
	assert.Equal(t, "near", got.Breakdown.QuestionID)
}

func TestSelect_SkillNeedBreaksEvenDistance(t *testing.T) {
	got := newTestSelector().Select(Request{
		Candidates: []content.Item{item("known", 5, "strong"), item("gap", 5, "weak")},
		Profile: scoring.Profile{KnowledgeGraph: map[string]mastery.SkillRecord{
			"strong": {Mastery: 0.9},
			"weak":   {Mastery: 0.1},
		}},
		Target: 5,
	})
	require.NotNil(t, got.Item)
	assert.Equal(t, "gap", got.Item.QuestionID)
}

func TestSelect_TieBreaks(t *testing.T) {
	t.Run("lowest id on equal score and distance", func(t *testing.T) {
		got := newTestSelector().Select(Request{
			Candidates: []content.Item{item("q3", 5), item("q1", 5), item("q2", 5)},
			Target:     5,
		})
		require.NotNil(t, got.Item)
		assert.Equal(t, "q1", got.Item.QuestionID)
	})

	t.Run("order independent", func(t *testing.T) {
		pool := []content.Item{item("b", 4), item("a", 6), item("c", 4)}
		first := newTestSelector().Select(Request{Candidates: pool, Target: 5})
		reversed := newTestSelector().Select(Request{
			Candidates: []content.Item{pool[2], pool[1], pool[0]},
			Target:     5,
		})
		require.NotNil(t, first.Item)
		require.NotNil(t, reversed.Item)
		assert.Equal(t, first.Item.QuestionID, reversed.Item.QuestionID)
		assert.Equal(t, "a", first.Item.QuestionID)
	})
}

func TestSelect_SessionQuestionsNeverRelaxed(t *testing.T) {
	got := newTestSelector().Select(Request{
		Candidates: []content.Item{item("q1", 5), item("q2", 5)},
		Exclusions: Exclusions{SessionQuestions: []string{"q1", "q2"}},
		Target:     5,
	})
	assert.Nil(t, got.Item)
	assert.Equal(t, 0, got.Eligible)
}

func TestSelect_RelaxationOrder(t *testing.T) {
	pool := []content.Item{item("recent", 5), item("correct", 5), item("both", 5), item("session", 5)}
	ex := Exclusions{
		SessionQuestions:  []string{"session"},
		AlreadyCorrect:    []string{"correct", "both"},
		RecentlyAttempted: []string{"recent", "both"},
	}

	t.Run("recent relaxed before correct", func(t *testing.T) {
		got := newTestSelector().Select(Request{Candidates: pool, Exclusions: ex, Target: 5})
		require.NotNil(t, got.Item)
		assert.Equal(t, "recent", got.Item.QuestionID)
		assert.Equal(t, RelaxRecentlyAttempted, got.Relaxation)
		assert.Equal(t, 1, got.Eligible)
	})

	t.Run("correct relaxed last", func(t *testing.T) {
		onlyDone := []content.Item{item("correct", 5), item("both", 5), item("session", 5)}
		got := newTestSelector().Select(Request{Candidates: onlyDone, Exclusions: ex, Target: 5})
		require.NotNil(t, got.Item)
		assert.Equal(t, RelaxAlreadyCorrect, got.Relaxation)
		assert.Equal(t, 2, got.Eligible)
		assert.Equal(t, "both", got.Item.QuestionID)
	})

	t.Run("no relaxation when a fresh item exists", func(t *testing.T) {
		fresh := append([]content.Item{item("fresh", 9)}, pool...)
		got := newTestSelector().Select(Request{Candidates: fresh, Exclusions: ex, Target: 5})
		require.NotNil(t, got.Item)
		assert.Equal(t, "fresh", got.Item.QuestionID)
		assert.Equal(t, RelaxNone, got.Relaxation)
	})
}

func TestSelect_SubjectFilter(t *testing.T) {
	pool := []content.Item{
		{QuestionID: "m1", SubjectID: "math", Difficulty: 9},
		{QuestionID: "s1", SubjectID: "science", Difficulty: 5},
	}
	got := newTestSelector().Select(Request{
		Candidates: pool,
		Exclusions: Exclusions{SubjectID: "math"},
		Target:     5,
	})
	require.NotNil(t, got.Item)
	assert.Equal(t, "m1", got.Item.QuestionID)

	none := newTestSelector().Select(Request{
		Candidates: pool,
		Exclusions: Exclusions{SubjectID: "history"},
		Target:     5,
	})
	assert.Nil(t, none.Item)
}

func TestSelect_EmptyPool(t *testing.T) {
	got := newTestSelector().Select(Request{Target: 5})
	assert.Nil(t, got.Item)
	assert.Equal(t, 0, got.Eligible)
}

func TestSelect_ReturnsCopy(t *testing.T) {
	pool := []content.Item{item("q1", 5, "s")}
	got := newTestSelector().Select(Request{Candidates: pool, Target: 5})
	require.NotNil(t, got.Item)
	got.Item.QuestionID = "mutated"
	assert.Equal(t, "q1", pool[0].QuestionID)
}
