package analysis

import "keyframe-curator/domain/video"

// FrameMetric computes similarity scores between decoded frames on a
// 0-100 scale, larger meaning more different. Implementations are pure
// and deterministic given identical buffers.
type FrameMetric interface {
	// FastDiff is the coarse-scan variant: downsampled single-channel
	// mean absolute pixel difference. Used where only a spacing
	// decision is needed.
	FastDiff(a, b video.Frame) (float64, error)

	// CompositeDiff combines intensity MSE, edge-map difference and a
	// coarse histogram distance with fixed weights, clamped to 100.
	// Used for precise comparisons.
	CompositeDiff(a, b video.Frame) (float64, error)

	// EdgeRatio returns the fraction of edge pixels in the frame,
	// used as a text-density proxy.
	EdgeRatio(f video.Frame) (float64, error)
}
