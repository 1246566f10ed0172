// Package selection picks the next question from a candidate pool.
package selection

import (
	"math"

	"github.com/abhisek/nable/internal/content"
	"github.com/abhisek/nable/internal/scoring"
)

// Relaxation records which soft exclusion had to be dropped to find a candidate.
type Relaxation string

const (
	RelaxNone              Relaxation = "none"
	RelaxRecentlyAttempted Relaxation = "recently-attempted"
	RelaxAlreadyCorrect    Relaxation = "already-correct"
)

// Exclusions lists the question IDs a selection must avoid. Session
// questions are never relaxed; the two soft sets are relaxed in order when
// nothing else is left.
type Exclusions struct {
	SessionQuestions  []string
	AlreadyCorrect    []string
	RecentlyAttempted []string

	// SubjectID, when set, restricts candidates to that subject.
	SubjectID string
}

// Request is one selection call.
type Request struct {
	Candidates []content.Item
	Exclusions Exclusions
	Profile    scoring.Profile
	Target     float64
}

// Selection is the outcome of a selection call. Item is nil when every
// relaxation was exhausted.
type Selection struct {
	Item       *content.Item
	Breakdown  scoring.Breakdown
	Relaxation Relaxation
	Eligible   int
}

// Selector chooses one candidate deterministically.
type Selector struct {
	scorer *scoring.Scorer
}

// NewSelector creates a selector backed by scorer.
func NewSelector(scorer *scoring.Scorer) *Selector {
	return &Selector{scorer: scorer}
}

type stage struct {
	relax       Relaxation
	skipRecent  bool
	skipCorrect bool
}

var stages = []stage{
	{relax: RelaxNone},
	{relax: RelaxRecentlyAttempted, skipRecent: true},
	{relax: RelaxAlreadyCorrect, skipRecent: true, skipCorrect: true},
}

// Select filters, relaxes and scores req's candidates and returns the best one.
func (s *Selector) Select(req Request) Selection {
	session := toSet(req.Exclusions.SessionQuestions)
	correct := toSet(req.Exclusions.AlreadyCorrect)
	recent := toSet(req.Exclusions.RecentlyAttempted)

	for _, st := range stages {
		eligible := filter(req.Candidates, func(it content.Item) bool {
			if it.QuestionID == "" || session[it.QuestionID] {
				return false
			}
			if req.Exclusions.SubjectID != "" && it.SubjectID != req.Exclusions.SubjectID {
				return false
			}
			if !st.skipCorrect && correct[it.QuestionID] {
				return false
			}
			if !st.skipRecent && recent[it.QuestionID] {
				return false
			}
			return true
		})
		if len(eligible) == 0 {
			continue
		}

		best, breakdown := s.best(eligible, req.Profile, req.Target)
		return Selection{
			Item:       &best,
			Breakdown:  breakdown,
			Relaxation: st.relax,
			Eligible:   len(eligible),
		}
	}

	return Selection{Relaxation: RelaxAlreadyCorrect}
}

// best keeps the highest score in a single pass. Ties go to the candidate
// closer to the target, then to the lowest question ID.
func (s *Selector) best(items []content.Item, p scoring.Profile, target float64) (content.Item, scoring.Breakdown) {
	bestItem := items[0]
	bestScore := s.scorer.Score(bestItem, p, target)

	for _, it := range items[1:] {
		score := s.scorer.Score(it, p, target)
		if better(it, score, bestItem, bestScore, target) {
			bestItem, bestScore = it, score
		}
	}
	return bestItem, bestScore
}

func better(a content.Item, as scoring.Breakdown, b content.Item, bs scoring.Breakdown, target float64) bool {
	if as.Total != bs.Total {
		return as.Total > bs.Total
	}
	da, db := distance(a.Difficulty, target), distance(b.Difficulty, target)
	if da != db {
		return da < db
	}
	return a.QuestionID < b.QuestionID
}

func distance(d, target float64) float64 {
	if math.IsNaN(d) {
		return math.Inf(1)
	}
	return math.Abs(d - target)
}

func filter(items []content.Item, keep func(content.Item) bool) []content.Item {
	var out []content.Item
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
