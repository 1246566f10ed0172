package display

import (
	"strings"
	"testing"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/nable/internal/engine"
	"github.com/abhisek/nable/internal/mastery"
	"github.com/abhisek/nable/internal/session"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}

func testState() engine.LearnerState {
	return engine.LearnerState{
		LearnerID: "ada",
		KnowledgeGraph: map[string]mastery.SkillRecord{
			"ratios":    {Mastery: 0.86, Confidence: 0.7, LastTestedAt: at(time.Hour)},
			"algebra":   {Mastery: 0.404, Confidence: 0.3, LastTestedAt: at(2 * time.Hour)},
			"geometry":  {Mastery: 0.9, Confidence: 0.9, LastTestedAt: at(30 * 24 * time.Hour)},
			"untouched": mastery.NewSkillRecord(),
		},
		SessionQuestions: []string{"q1", "q2"},
		CurrentStreak:    2,
		Hearts:           3,
		LastDifficulty:   6,
		SessionStartedAt: testNow.Add(-10 * time.Minute),
	}
}

func TestProject(t *testing.T) {
	v := Project(testState(), 5, testNow)

	assert.Equal(t, "ada", v.LearnerID)
	assert.Equal(t, session.StatusActive, v.Status)
	assert.Equal(t, 3, v.Hearts)
	assert.Equal(t, 5, v.MaxHearts)
	assert.Equal(t, 2, v.Streak)
	assert.Equal(t, 2, v.Answered)
	assert.Equal(t, 10*time.Minute, v.SessionAge)

	require.Len(t, v.Skills, 4)
	ids := make([]string, len(v.Skills))
	for i, s := range v.Skills {
		ids[i] = s.SkillID
	}
	assert.Equal(t, []string{"algebra", "geometry", "ratios", "untouched"}, ids)

	byID := map[string]SkillView{}
	for _, s := range v.Skills {
		byID[s.SkillID] = s
	}
	assert.Equal(t, 40, byID["algebra"].Percent)
	assert.Equal(t, LabelLearning, byID["algebra"].Label)
	assert.Equal(t, 86, byID["ratios"].Percent)
	assert.Equal(t, LabelMastered, byID["ratios"].Label)
	assert.Equal(t, LabelRusty, byID["geometry"].Label)
	assert.Less(t, byID["geometry"].Confidence, 90)
	assert.Equal(t, LabelNew, byID["untouched"].Label)
	assert.Equal(t, 50, byID["untouched"].Percent)
}

func TestProject_LockedAndClamped(t *testing.T) {
	s := testState()
	s.Hearts = 0
	v := Project(s, 5, testNow)
	assert.Equal(t, session.StatusLocked, v.Status)

	s.Hearts = 12
	assert.Equal(t, 5, Project(s, 5, testNow).Hearts)
}

func TestProject_DoesNotAliasTimes(t *testing.T) {
	s := testState()
	v := Project(s, 5, testNow)
	for _, sk := range v.Skills {
		if sk.SkillID == "ratios" {
			*sk.LastTestedAt = time.Time{}
		}
	}
	assert.Equal(t, testNow.Add(-time.Hour), *s.KnowledgeGraph["ratios"].LastTestedAt)
}

func TestRender_Plain(t *testing.T) {
	out := Renderer{Width: 60, Plain: true}.Render(Project(testState(), 5, testNow))

	assert.Contains(t, out, "ada  active")
	assert.Contains(t, out, "♥♥♥♡♡")
	assert.Contains(t, out, "streak 2")
	assert.NotContains(t, out, "\x1b[")

	lines := strings.Split(out, "\n")
	var ratios string
	for _, l := range lines {
		if strings.HasPrefix(l, "ratios") {
			ratios = l
		}
	}
	require.NotEmpty(t, ratios)
	assert.Contains(t, ratios, " 86%")
	assert.Contains(t, ratios, "mastered")
	assert.LessOrEqual(t, lipgloss.Width(strings.TrimRight(ratios, " ")), 60)
}

func TestRender_Styled(t *testing.T) {
	out := Renderer{Width: 60}.Render(Project(testState(), 5, testNow))
	assert.Contains(t, out, "algebra")
	assert.Contains(t, out, "learning")
}

func TestRender_NoSkills(t *testing.T) {
	s := testState()
	s.KnowledgeGraph = nil
	out := Renderer{Plain: true}.Render(Project(s, 5, testNow))
	assert.Contains(t, out, "no skills practiced yet")
}
