// Package content defines the candidate questions the engine chooses from
// and decodes candidate pools supplied by an external content source.
package content

import "github.com/abhisek/nable/internal/mastery"

// NeutralDistractorSimilarity is assumed when an item does not say how close
// its wrong options are to the correct one.
const NeutralDistractorSimilarity = 0.5

// Item is a candidate question. Items are owned by the content source and
// are never modified by the engine.
type Item struct {
	QuestionID           string   `json:"questionId"`
	SubjectID            string   `json:"subjectId,omitempty"`
	SubSkills            []string `json:"subSkills"`
	Difficulty           float64  `json:"difficulty"`
	DistractorSimilarity *float64 `json:"distractorSimilarity,omitempty"`
	TopicID              string   `json:"topicId,omitempty"`
}

// Distractor returns the item's distractor similarity, defaulting to the
// neutral midpoint and clamped to [0, 1].
func (it Item) Distractor() float64 {
	if it.DistractorSimilarity == nil {
		return NeutralDistractorSimilarity
	}
	return mastery.Clamp(*it.DistractorSimilarity, 0, 1)
}

// Find returns the first item in pool with the given question ID.
func Find(pool []Item, questionID string) (Item, bool) {
	for _, it := range pool {
		if it.QuestionID == questionID {
			return it, true
		}
	}
	return Item{}, false
}

// SkillIDs returns the distinct sub-skills referenced by pool, in first-seen order.
func SkillIDs(pool []Item) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, it := range pool {
		for _, s := range it.SubSkills {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			ids = append(ids, s)
		}
	}
	return ids
}

// Difficulties returns the difficulty of every item in pool.
func Difficulties(pool []Item) []float64 {
	out := make([]float64, len(pool))
	for i, it := range pool {
		out[i] = it.Difficulty
	}
	return out
}

// Clone returns a copy of it that shares no memory with the original.
func (it Item) Clone() Item {
	out := it
	if it.SubSkills != nil {
		out.SubSkills = append([]string(nil), it.SubSkills...)
	}
	if it.DistractorSimilarity != nil {
		ds := *it.DistractorSimilarity
		out.DistractorSimilarity = &ds
	}
	return out
}
