package mastery

import (
	"math"
	"testing"
	"time"
)

func testedAt(t time.Time) *time.Time { return &t }

func TestIsStale(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		rec  SkillRecord
		want bool
	}{
		{"never tested", NewSkillRecord(), false},
		{"tested yesterday", SkillRecord{LastTestedAt: testedAt(testNow.AddDate(0, 0, -1))}, false},
		{"tested exactly one window ago", SkillRecord{LastTestedAt: testedAt(testNow.Add(-cfg.StalenessWindow))}, false},
		{"tested two weeks ago", SkillRecord{LastTestedAt: testedAt(testNow.AddDate(0, 0, -14))}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsStale(tt.rec, testNow, cfg); got != tt.want {
				t.Errorf("IsStale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecay_FreshRecordUnchanged(t *testing.T) {
	cfg := DefaultConfig()
	rec := SkillRecord{Mastery: 0.7, Confidence: 0.8, LastTestedAt: testedAt(testNow.AddDate(0, 0, -2))}
	got := Decay(rec, testNow, cfg)
	if got.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", got.Confidence)
	}
}

func TestDecay_HalvesGapPerWindow(t *testing.T) {
	cfg := DefaultConfig()
	last := testNow.Add(-2 * cfg.StalenessWindow)
	rec := SkillRecord{Mastery: 0.7, Confidence: 0.9, LastTestedAt: &last}

	got := Decay(rec, testNow, cfg)
	want := cfg.ConfidenceFloor + (0.9-cfg.ConfidenceFloor)*0.5
	if math.Abs(got.Confidence-want) > 1e-12 {
		t.Errorf("Confidence = %v, want %v", got.Confidence, want)
	}
	if got.Mastery != 0.7 {
		t.Errorf("Mastery = %v, decay must not change mastery", got.Mastery)
	}
}

func TestDecay_ApproachesFloor(t *testing.T) {
	cfg := DefaultConfig()
	last := testNow.AddDate(-1, 0, 0)
	rec := SkillRecord{Confidence: 1, LastTestedAt: &last}
	got := Decay(rec, testNow, cfg)
	if got.Confidence < cfg.ConfidenceFloor {
		t.Errorf("Confidence = %v below floor", got.Confidence)
	}
	if got.Confidence > cfg.ConfidenceFloor+0.01 {
		t.Errorf("Confidence = %v, want close to floor %v after a year", got.Confidence, cfg.ConfidenceFloor)
	}
}

func TestDecay_BelowFloorLeftAlone(t *testing.T) {
	cfg := DefaultConfig()
	last := testNow.AddDate(0, -3, 0)
	rec := SkillRecord{Confidence: 0.05, LastTestedAt: &last}
	if got := Decay(rec, testNow, cfg); got.Confidence != 0.05 {
		t.Errorf("Confidence = %v, want 0.05", got.Confidence)
	}
}

func TestSanitize(t *testing.T) {
	zero := time.Time{}
	rec := Sanitize(SkillRecord{
		Mastery:      1.7,
		Confidence:   -0.3,
		StreakCount:  -2,
		LastTestedAt: &zero,
		LastOutcome:  "sideways",
	})
	if rec.Mastery != 1 || rec.Confidence != 0 || rec.StreakCount != 0 {
		t.Errorf("Sanitize = %+v, want clamped values", rec)
	}
	if rec.LastTestedAt != nil {
		t.Error("zero LastTestedAt should become nil")
	}
	if rec.LastOutcome != OutcomeNone {
		t.Errorf("LastOutcome = %q, want empty", rec.LastOutcome)
	}
}
