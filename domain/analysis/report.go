package analysis

// StabilityReport partitions a timeline into stable intervals (safe to
// screenshot) and unstable intervals (transition/animation). Both
// sequences are time-sorted and pairwise non-overlapping; together they
// tile [0, duration] except for gaps shorter than the minimum stable
// duration, which are absorbed into the adjacent instability.
type StabilityReport struct {
	Stable   []Interval `json:"stable"`
	Unstable []Interval `json:"unstable"`
}

// BuildReport merges raw unstable intervals and derives the stable
// complement over [0, duration]. Gaps shorter than minStableDuration
// are swallowed: they are too short to safely sample a frame from.
// With no unstable intervals the whole timeline is one stable interval.
func BuildReport(duration float64, unstable []Interval, minStableDuration float64) StabilityReport {
	if len(unstable) == 0 {
		return StabilityReport{
			Stable: []Interval{{Start: 0, End: duration}},
		}
	}

	merged := MergeIntervals(unstable)

	var stable []Interval
	prevEnd := 0.0
	for _, iv := range merged {
		if iv.Start > prevEnd && iv.Start-prevEnd >= minStableDuration {
			stable = append(stable, Interval{Start: prevEnd, End: iv.Start})
		}
		if iv.End > prevEnd {
			prevEnd = iv.End
		}
	}
	if prevEnd < duration && duration-prevEnd >= minStableDuration {
		stable = append(stable, Interval{Start: prevEnd, End: duration})
	}

	return StabilityReport{Stable: stable, Unstable: merged}
}

// SceneChanges returns one timestamp per unstable interval: its
// midpoint. Derived on demand, never stored independently.
func (r StabilityReport) SceneChanges() []float64 {
	changes := make([]float64, 0, len(r.Unstable))
	for _, iv := range r.Unstable {
		changes = append(changes, iv.Midpoint())
	}
	return changes
}

// StableAt returns the stable interval containing the timestamp, if any
func (r StabilityReport) StableAt(ts float64) (Interval, bool) {
	for _, iv := range r.Stable {
		if iv.Contains(ts) {
			return iv, true
		}
	}
	return Interval{}, false
}
