package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/nable/internal/mastery"
)

// FieldError lists the fields of a stored document that could not be
// decoded. Every other field was decoded and is usable.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("undecodable stored fields: %s", strings.Join(e.Fields, ", "))
}

// fields decodes a JSON object one member at a time so a bad member only
// loses itself.
type fields struct {
	raw    map[string]json.RawMessage
	prefix string
	bad    []string
}

func newFields(data []byte, prefix string) (*fields, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &fields{raw: raw, prefix: prefix}, nil
}

func (f *fields) fail(name string) {
	f.bad = append(f.bad, f.prefix+name)
}

func (f *fields) err() error {
	if len(f.bad) == 0 {
		return nil
	}
	return &FieldError{Fields: f.bad}
}

// field decodes member key into a fresh *T, or returns nil when the member is
// absent, null or of the wrong type.
func field[T any](f *fields, key string) *T {
	msg, ok := f.raw[key]
	if !ok {
		return nil
	}
	var v *T
	if err := json.Unmarshal(msg, &v); err != nil {
		f.fail(key)
		return nil
	}
	return v
}

// stringList decodes a string array, keeping the elements that are strings.
func (f *fields) stringList(key string) []string {
	msg, ok := f.raw[key]
	if !ok || isNull(msg) {
		return nil
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(msg, &elems); err != nil {
		f.fail(key)
		return nil
	}
	out := make([]string, 0, len(elems))
	for i, el := range elems {
		var s string
		if err := json.Unmarshal(el, &s); err != nil {
			f.fail(fmt.Sprintf("%s[%d]", key, i))
			continue
		}
		out = append(out, s)
	}
	return out
}

func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}

// UnmarshalJSON decodes a skill field by field. It returns a *FieldError
// when some fields were skipped.
func (sk *StoredSkill) UnmarshalJSON(data []byte) error {
	f, err := newFields(data, "")
	if err != nil {
		return err
	}
	*sk = StoredSkill{
		Mastery:      field[float64](f, "mastery"),
		Confidence:   field[float64](f, "confidence"),
		StreakCount:  field[int](f, "streakCount"),
		LastTestedAt: field[time.Time](f, "lastTestedAt"),
		LastOutcome:  field[mastery.Outcome](f, "lastOutcome"),
	}
	return f.err()
}

// UnmarshalJSON decodes a learner state field by field. Wrong-typed members
// are skipped and reported in a *FieldError; only a document that is not a
// JSON object fails outright.
func (s *StoredState) UnmarshalJSON(data []byte) error {
	f, err := newFields(data, "")
	if err != nil {
		return err
	}
	*s = StoredState{
		LearnerID:                field[string](f, "learnerId"),
		SessionID:                field[string](f, "sessionId"),
		KnowledgeGraph:           f.skills("knowledgeGraph"),
		SessionQuestions:         f.stringList("sessionQuestions"),
		CurrentStreak:            field[int](f, "currentStreak"),
		ConsecutiveErrors:        field[int](f, "consecutiveErrors"),
		LastDifficulty:           field[float64](f, "lastDifficulty"),
		LastDistractorSimilarity: field[float64](f, "lastDistractorSimilarity"),
		RecentTopicIDs:           f.stringList("recentTopicIds"),
		PersonalStabilityFactor:  field[float64](f, "personalStabilityFactor"),
		Hearts:                   field[int](f, "hearts"),
		SessionStartedAt:         field[time.Time](f, "sessionStartedAt"),
	}
	return f.err()
}

// skills decodes the knowledge graph. A skill that is not an object is
// dropped; a skill with bad members keeps the members that decoded.
func (f *fields) skills(key string) map[string]*StoredSkill {
	msg, ok := f.raw[key]
	if !ok || isNull(msg) {
		return nil
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(msg, &entries); err != nil {
		f.fail(key)
		return nil
	}
	graph := make(map[string]*StoredSkill, len(entries))
	for id, raw := range entries {
		if isNull(raw) {
			continue
		}
		sk := new(StoredSkill)
		if err := sk.UnmarshalJSON(raw); err != nil {
			fe, partial := err.(*FieldError)
			if !partial {
				f.fail(key + "." + id)
				continue
			}
			for _, name := range fe.Fields {
				f.fail(key + "." + id + "." + name)
			}
		}
		graph[id] = sk
	}
	return graph
}
