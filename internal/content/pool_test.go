package content

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePool(t *testing.T) {
	doc := `{
		"items": [
			{"questionId": "q1", "subjectId": "math", "subSkills": ["fractions"], "difficulty": 4, "topicId": "t1"},
			{"questionId": "q2", "subSkills": ["fractions", "decimals"], "difficulty": 6.5, "distractorSimilarity": 0.8, "extra": true}
		]
	}`

	items, err := DecodePool(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "q1", items[0].QuestionID)
	assert.Equal(t, "math", items[0].SubjectID)
	assert.Nil(t, items[0].DistractorSimilarity)
	assert.Equal(t, NeutralDistractorSimilarity, items[0].Distractor())

	assert.Equal(t, []string{"fractions", "decimals"}, items[1].SubSkills)
	assert.Equal(t, 6.5, items[1].Difficulty)
	assert.Equal(t, 0.8, items[1].Distractor())
}

func TestDecodePool_Empty(t *testing.T) {
	items, err := DecodePool(strings.NewReader(`{"items": []}`))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}

func TestDecodePool_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"items": [`},
		{"missing items", `{}`},
		{"missing question id", `{"items": [{"subSkills": ["a"], "difficulty": 3}]}`},
		{"empty question id", `{"items": [{"questionId": "", "subSkills": ["a"], "difficulty": 3}]}`},
		{"difficulty too high", `{"items": [{"questionId": "q", "subSkills": ["a"], "difficulty": 11}]}`},
		{"difficulty too low", `{"items": [{"questionId": "q", "subSkills": ["a"], "difficulty": 0}]}`},
		{"distractor out of range", `{"items": [{"questionId": "q", "subSkills": ["a"], "difficulty": 3, "distractorSimilarity": 1.5}]}`},
		{"sub skills not array", `{"items": [{"questionId": "q", "subSkills": "a", "difficulty": 3}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePool(strings.NewReader(tt.doc))
			require.Error(t, err)
			var invalid *ErrInvalidPool
			assert.True(t, errors.As(err, &invalid), "want *ErrInvalidPool, got %T", err)
		})
	}
}

func TestItemHelpers(t *testing.T) {
	pool := []Item{
		{QuestionID: "a", SubSkills: []string{"s1", "s2"}, Difficulty: 2},
		{QuestionID: "b", SubSkills: []string{"s2", "", "s3"}, Difficulty: 7},
	}

	got, ok := Find(pool, "b")
	require.True(t, ok)
	assert.Equal(t, 7.0, got.Difficulty)

	_, ok = Find(pool, "zzz")
	assert.False(t, ok)

	assert.Equal(t, []string{"s1", "s2", "s3"}, SkillIDs(pool))
	assert.Equal(t, []float64{2, 7}, Difficulties(pool))
}

func TestDistractorClamped(t *testing.T) {
	v := 1.7
	it := Item{DistractorSimilarity: &v}
	assert.Equal(t, 1.0, it.Distractor())
}
