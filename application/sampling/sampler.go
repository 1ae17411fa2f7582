package sampling

import (
	"fmt"
	"math"
	"sort"

	"keyframe-curator/domain/analysis"
	"keyframe-curator/domain/video"
	"keyframe-curator/infrastructure/config"
)

// Sampler turns stable intervals and scene changes into an ordered
// list of candidate timestamps. It is pure: no frames are decoded.
type Sampler struct {
	cfg config.SamplerConfig
}

// NewSampler creates a candidate sampler. Zero-valued tunables fall
// back to the standard defaults.
func NewSampler(cfg config.SamplerConfig) *Sampler {
	if cfg.SampleInterval == 0 {
		cfg.SampleInterval = 30.0
	}
	if cfg.MaxAdjust == 0 {
		cfg.MaxAdjust = 1.0
	}
	if cfg.Inset == 0 {
		cfg.Inset = 0.1
	}
	return &Sampler{cfg: cfg}
}

// Sample emits one candidate per SampleInterval within each stable
// interval, then adds scene-change candidates that are not already
// covered, snapped into the nearest stable interval. Audio-only
// timelines yield no candidates.
func (s *Sampler) Sample(timeline video.Timeline, report analysis.StabilityReport) []analysis.CandidateFrame {
	if timeline.IsDegenerate() {
		return nil
	}

	var candidates []analysis.CandidateFrame

	for _, iv := range report.Stable {
		for ts := iv.Start; ts < iv.End; ts += s.cfg.SampleInterval {
			candidates = append(candidates, analysis.CandidateFrame{
				Timestamp: ts,
				Origin:    analysis.OriginStableSample,
				Rationale: fmt.Sprintf("stable interval sample @ %.1fs", ts),
			})
		}
	}

	for _, change := range report.SceneChanges() {
		if s.covered(change, candidates) {
			continue
		}
		adjusted, ok := s.adjustToStable(change, report)
		if !ok {
			// Scene changes deep inside instability are not
			// representable as a clean still.
			continue
		}
		candidates = append(candidates, analysis.CandidateFrame{
			Timestamp: adjusted,
			Origin:    analysis.OriginSceneChange,
			Rationale: fmt.Sprintf("scene change @ %.1fs -> stable @ %.1fs", change, adjusted),
		})
	}

	sort.Slice(candidates, func(a, b int) bool {
		return candidates[a].Timestamp < candidates[b].Timestamp
	})

	return candidates
}

// covered returns true if an existing candidate lies within half the
// sample interval of the timestamp
func (s *Sampler) covered(ts float64, candidates []analysis.CandidateFrame) bool {
	for _, c := range candidates {
		if math.Abs(c.Timestamp-ts) < s.cfg.SampleInterval/2 {
			return true
		}
	}
	return false
}

// adjustToStable returns the timestamp unchanged when it already lies
// in a stable interval; otherwise it probes the nearest interval
// boundary within MaxAdjust and nudges inward. Returns false when no
// stable interval is in range.
func (s *Sampler) adjustToStable(ts float64, report analysis.StabilityReport) (float64, bool) {
	if _, ok := report.StableAt(ts); ok {
		return ts, true
	}

	best := 0.0
	bestDist := math.Inf(1)
	found := false

	for _, iv := range report.Stable {
		switch {
		case ts < iv.Start:
			if dist := iv.Start - ts; dist < bestDist && dist <= s.cfg.MaxAdjust {
				bestDist = dist
				best = iv.Start + s.cfg.Inset
				found = true
			}
		case ts > iv.End:
			if dist := ts - iv.End; dist < bestDist && dist <= s.cfg.MaxAdjust {
				bestDist = dist
				best = iv.End - s.cfg.Inset
				found = true
			}
		}
	}

	return best, found
}
