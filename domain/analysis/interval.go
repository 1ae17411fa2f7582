package analysis

import (
	"fmt"
	"sort"
)

// Interval is a time range in seconds with Start <= End
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// NewInterval creates a validated Interval
func NewInterval(start, end float64) (Interval, error) {
	if start > end {
		return Interval{}, fmt.Errorf("invalid interval: start %.3f after end %.3f", start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// Duration returns the interval length in seconds
func (i Interval) Duration() float64 {
	return i.End - i.Start
}

// Contains returns true if the timestamp lies within the interval (inclusive)
func (i Interval) Contains(ts float64) bool {
	return ts >= i.Start && ts <= i.End
}

// Midpoint returns the center of the interval
func (i Interval) Midpoint() float64 {
	return (i.Start + i.End) / 2
}

// MergeIntervals sorts intervals by start and merges any that overlap
// or touch, returning a sorted, pairwise-disjoint sequence
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Start < sorted[b].Start
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}

	return merged
}
