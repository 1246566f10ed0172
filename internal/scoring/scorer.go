// Package scoring rates candidate questions against a learner's state and a
// target difficulty.
package scoring

import (
	"fmt"
	"math"

	"github.com/abhisek/nable/internal/content"
	"github.com/abhisek/nable/internal/mastery"
)

// Weights sets the contribution of each sub-score. They must sum to 1.
type Weights struct {
	Proximity     float64 `yaml:"proximity" json:"proximity"`
	SkillNeed     float64 `yaml:"skill_need" json:"skillNeed"`
	Novelty       float64 `yaml:"novelty" json:"novelty"`
	DistractorFit float64 `yaml:"distractor_fit" json:"distractorFit"`
}

// DefaultWeights returns the default sub-score weights.
func DefaultWeights() Weights {
	return Weights{
		Proximity:     0.4,
		SkillNeed:     0.3,
		Novelty:       0.2,
		DistractorFit: 0.1,
	}
}

const weightTolerance = 1e-9

// Validate checks the weights are non-negative and sum to 1.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"proximity", w.Proximity},
		{"skill need", w.SkillNeed},
		{"novelty", w.Novelty},
		{"distractor fit", w.DistractorFit},
	} {
		if f.v < 0 || math.IsNaN(f.v) {
			return fmt.Errorf("%s weight must be >= 0, got %v", f.name, f.v)
		}
	}
	sum := w.Proximity + w.SkillNeed + w.Novelty + w.DistractorFit
	if math.Abs(sum-1) > weightTolerance {
		return fmt.Errorf("weights must sum to 1, got %v", sum)
	}
	return nil
}

// Config tunes the scorer.
type Config struct {
	Weights Weights `yaml:"weights"`

	// NoveltyDecay is the penalty carried by a topic occurrence, raised to
	// the power of its age in recentTopicIds (0 = most recent).
	NoveltyDecay float64 `yaml:"novelty_decay"`
}

// DefaultConfig returns the default scorer configuration.
func DefaultConfig() Config {
	return Config{
		Weights:      DefaultWeights(),
		NoveltyDecay: 0.5,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.NoveltyDecay < 0 || c.NoveltyDecay > 1 {
		return fmt.Errorf("novelty decay %v out of range [0, 1]", c.NoveltyDecay)
	}
	return nil
}

// Breakdown explains a candidate's score. Every sub-score is in [0, 1].
type Breakdown struct {
	QuestionID    string  `json:"questionId"`
	Proximity     float64 `json:"proximity"`
	SkillNeed     float64 `json:"skillNeed"`
	Novelty       float64 `json:"novelty"`
	DistractorFit float64 `json:"distractorFit"`
	Total         float64 `json:"total"`
}

// Profile is the slice of learner state the scorer reads.
type Profile struct {
	KnowledgeGraph           map[string]mastery.SkillRecord
	RecentTopicIDs           []string
	LastDistractorSimilarity float64
}

// Scorer computes candidate scores. It holds no mutable state.
type Scorer struct {
	cfg Config
}

// NewScorer creates a scorer. The configuration is assumed validated.
func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score rates item against the profile and target difficulty.
func (s *Scorer) Score(item content.Item, p Profile, target float64) Breakdown {
	b := Breakdown{
		QuestionID:    item.QuestionID,
		Proximity:     Proximity(item.Difficulty, target),
		SkillNeed:     SkillNeed(item.SubSkills, p.KnowledgeGraph),
		Novelty:       Novelty(item.TopicID, p.RecentTopicIDs, s.cfg.NoveltyDecay),
		DistractorFit: DistractorFit(item.Distractor(), p.LastDistractorSimilarity),
	}
	w := s.cfg.Weights
	b.Total = w.Proximity*b.Proximity +
		w.SkillNeed*b.SkillNeed +
		w.Novelty*b.Novelty +
		w.DistractorFit*b.DistractorFit
	return b
}

// Proximity is 1 when the item sits on the target and decays with distance.
func Proximity(itemDifficulty, target float64) float64 {
	if math.IsNaN(itemDifficulty) {
		return 0
	}
	return 1 / (1 + math.Abs(itemDifficulty-target))
}

// SkillNeed averages 1 - mastery across the item's skills. Unknown skills
// count at the prior.
func SkillNeed(skills []string, graph map[string]mastery.SkillRecord) float64 {
	if len(skills) == 0 {
		return 1 - mastery.PriorMastery
	}
	var sum float64
	for _, id := range skills {
		m := mastery.PriorMastery
		if rec, ok := graph[id]; ok {
			m = mastery.Clamp(rec.Mastery, 0, 1)
		}
		sum += 1 - m
	}
	return sum / float64(len(skills))
}

// Novelty is 1 for unseen topics. Each occurrence in recent (oldest first)
// subtracts decay^age, where age 0 is the most recent.
func Novelty(topicID string, recent []string, decay float64) float64 {
	if topicID == "" {
		return 1
	}
	var penalty float64
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i] != topicID {
			continue
		}
		age := len(recent) - 1 - i
		penalty += math.Pow(decay, float64(age))
	}
	return 1 - math.Min(1, penalty)
}

// DistractorFit rewards items whose distractor similarity is close to the
// learner's last one.
func DistractorFit(itemSimilarity, lastSimilarity float64) float64 {
	return 1 - math.Abs(mastery.Clamp(itemSimilarity, 0, 1)-mastery.Clamp(lastSimilarity, 0, 1))
}
