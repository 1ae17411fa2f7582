package analysis

import "fmt"

// Origin identifies how a candidate frame was produced
type Origin string

const (
	// OriginStableSample marks candidates sampled from a stable interval
	OriginStableSample Origin = "stable_sample"

	// OriginSceneChange marks candidates derived from a scene change
	OriginSceneChange Origin = "scene_change"
)

// CandidateFrame is a timestamp proposed for possible inclusion,
// before filtering. Timestamps lie inside a stable interval (or were
// adjusted into one) by construction.
type CandidateFrame struct {
	Timestamp float64 `json:"timestamp"`
	Origin    Origin  `json:"origin"`
	Rationale string  `json:"rationale"`
}

// KeyFrame is a candidate that is passing (or has passed) all filters,
// carrying an accumulated rationale trail. Updates are functional: the
// filter replaces the value it is processing rather than mutating
// shared state, so each gate stays independently testable.
type KeyFrame struct {
	Timestamp float64 `json:"timestamp"`
	Origin    Origin  `json:"origin"`
	Rationale string  `json:"rationale"`
}

// NewKeyFrame promotes a candidate into the filter pipeline
func NewKeyFrame(c CandidateFrame) KeyFrame {
	return KeyFrame{
		Timestamp: c.Timestamp,
		Origin:    c.Origin,
		Rationale: c.Rationale,
	}
}

// WithNote returns a copy with the note appended to the rationale trail
func (k KeyFrame) WithNote(note string) KeyFrame {
	if k.Rationale == "" {
		k.Rationale = note
	} else {
		k.Rationale = k.Rationale + " | " + note
	}
	return k
}

// Retargeted returns a copy shifted to a new timestamp, recording the
// move in the rationale trail
func (k KeyFrame) Retargeted(ts float64, note string) KeyFrame {
	moved := k.WithNote(fmt.Sprintf("retargeted %.2fs -> %.2fs: %s", k.Timestamp, ts, note))
	moved.Timestamp = ts
	return moved
}
