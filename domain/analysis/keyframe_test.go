package analysis

import (
	"strings"
	"testing"
)

func TestKeyFrameUpdates(t *testing.T) {
	candidate := CandidateFrame{
		Timestamp: 30.0,
		Origin:    OriginStableSample,
		Rationale: "stable interval sample @ 30.0s",
	}

	t.Run("promotion preserves the candidate", func(t *testing.T) {
		kf := NewKeyFrame(candidate)
		if kf.Timestamp != 30.0 || kf.Origin != OriginStableSample {
			t.Errorf("unexpected keyframe: %+v", kf)
		}
	})

	t.Run("WithNote is functional", func(t *testing.T) {
		kf := NewKeyFrame(candidate)
		noted := kf.WithNote("passed text gate")

		if kf.Rationale == noted.Rationale {
			t.Error("expected original to be unchanged")
		}
		if !strings.HasSuffix(noted.Rationale, "passed text gate") {
			t.Errorf("expected appended note, got %q", noted.Rationale)
		}
	})

	t.Run("WithNote on empty rationale", func(t *testing.T) {
		kf := KeyFrame{Timestamp: 5}
		if got := kf.WithNote("first").Rationale; got != "first" {
			t.Errorf("expected %q, got %q", "first", got)
		}
	})

	t.Run("Retargeted shifts and records", func(t *testing.T) {
		kf := NewKeyFrame(candidate)
		moved := kf.Retargeted(31.4, "settled frame")

		if moved.Timestamp != 31.4 {
			t.Errorf("expected timestamp 31.4, got %f", moved.Timestamp)
		}
		if kf.Timestamp != 30.0 {
			t.Error("expected original timestamp to be unchanged")
		}
		if !strings.Contains(moved.Rationale, "30.00s -> 31.40s") {
			t.Errorf("expected move recorded in rationale, got %q", moved.Rationale)
		}
	})
}
