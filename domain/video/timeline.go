package video

import "fmt"

// Timeline describes the temporal shape of a probed source.
// A source with no visual stream has FrameRate 0 and is handled
// through the degenerate single-interval path downstream.
type Timeline struct {
	// Duration is the source length in seconds
	Duration float64

	// FrameRate is the native frame rate; 0 means audio-only
	FrameRate float64

	// TotalFrames is the native frame count (0 for audio-only)
	TotalFrames int

	// Width and Height of the visual stream, if any
	Width  int
	Height int
}

// NewTimeline creates a validated Timeline
func NewTimeline(duration, frameRate float64) (Timeline, error) {
	if duration < 0 {
		return Timeline{}, fmt.Errorf("invalid timeline: duration %f must be >= 0", duration)
	}
	if frameRate < 0 {
		return Timeline{}, fmt.Errorf("invalid timeline: frame rate %f must be >= 0", frameRate)
	}

	total := 0
	if frameRate > 0 {
		total = int(duration * frameRate)
	}

	return Timeline{
		Duration:    duration,
		FrameRate:   frameRate,
		TotalFrames: total,
	}, nil
}

// HasVideo returns true if the source carries a visual stream
func (t Timeline) HasVideo() bool {
	return t.FrameRate > 0
}

// IsDegenerate returns true if the timeline cannot be sampled for frames:
// zero duration or no visual stream
func (t Timeline) IsDegenerate() bool {
	return t.Duration <= 0 || !t.HasVideo()
}

// Clamp restricts a timestamp to [0, Duration]
func (t Timeline) Clamp(ts float64) float64 {
	if ts < 0 {
		return 0
	}
	if ts > t.Duration {
		return t.Duration
	}
	return ts
}
