package stability

import (
	"context"
	"fmt"
	"io"
	"math"

	"keyframe-curator/domain/analysis"
	"keyframe-curator/domain/video"
	"keyframe-curator/infrastructure/config"
	"keyframe-curator/infrastructure/reporter"
)

// sparseFallback is the half-width used when a refinement window
// yields too few readable samples to bound the transition at all
const sparseFallback = 0.5

// Analyzer detects stable and unstable intervals on a timeline using a
// two-phase scan: a coarse pass over one sample per second, then a
// precise boundary refinement around each rough change.
type Analyzer struct {
	decoder  video.FrameDecoder
	metric   analysis.FrameMetric
	cfg      config.AnalyzerConfig
	output   io.Writer
	progress reporter.Reporter
}

// AnalyzerOption is a functional option for configuring Analyzer
type AnalyzerOption func(*Analyzer)

// WithOutput sets the writer for stage summaries
func WithOutput(w io.Writer) AnalyzerOption {
	return func(a *Analyzer) {
		a.output = w
	}
}

// WithReporter sets the progress reporter
func WithReporter(r reporter.Reporter) AnalyzerOption {
	return func(a *Analyzer) {
		a.progress = r
	}
}

// NewAnalyzer creates a stability analyzer. Zero-valued tunables fall
// back to the standard defaults.
func NewAnalyzer(decoder video.FrameDecoder, metric analysis.FrameMetric, cfg config.AnalyzerConfig, opts ...AnalyzerOption) *Analyzer {
	if cfg.CoarseThreshold == 0 {
		cfg.CoarseThreshold = 15.0
	}
	if cfg.MinChangeSpacing == 0 {
		cfg.MinChangeSpacing = 1.0
	}
	if cfg.RefineThreshold == 0 {
		cfg.RefineThreshold = 8.0
	}
	if cfg.SearchWindow == 0 {
		cfg.SearchWindow = 2.0
	}
	if cfg.RefineStep == 0 {
		cfg.RefineStep = 0.1
	}
	if cfg.FallbackWindow == 0 {
		cfg.FallbackWindow = 0.3
	}
	if cfg.BoundaryPad == 0 {
		cfg.BoundaryPad = 0.2
	}
	if cfg.MinStableDuration == 0 {
		cfg.MinStableDuration = 1.0
	}

	a := &Analyzer{
		decoder:  decoder,
		metric:   metric,
		cfg:      cfg,
		output:   io.Discard,
		progress: reporter.NullReporter{},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Analyze scans the timeline and produces a stability report. An
// unreadable frame anywhere is skipped, never an error; the only
// failure mode is context cancellation.
func (a *Analyzer) Analyze(ctx context.Context, timeline video.Timeline) (analysis.StabilityReport, error) {
	if timeline.IsDegenerate() {
		// No visual stream (or nothing to scan): the whole duration is
		// one stable interval with no scene changes.
		fmt.Fprintf(a.output, "No visual stream to analyze, treating %.1fs as one stable interval\n", timeline.Duration)
		return analysis.StabilityReport{
			Stable: []analysis.Interval{{Start: 0, End: timeline.Duration}},
		}, nil
	}

	rough, err := a.coarseScan(ctx, timeline)
	if err != nil {
		return analysis.StabilityReport{}, err
	}
	fmt.Fprintf(a.output, "Coarse scan flagged %d rough changes\n", len(rough))

	unstable := make([]analysis.Interval, 0, len(rough))
	a.progress.StepStarted("refining boundaries", len(rough))
	for i, ts := range rough {
		if err := ctx.Err(); err != nil {
			return analysis.StabilityReport{}, err
		}
		unstable = append(unstable, a.refineBoundary(ctx, timeline, ts))
		a.progress.Step(i + 1)
	}
	a.progress.StepDone()

	report := analysis.BuildReport(timeline.Duration, unstable, a.cfg.MinStableDuration)
	fmt.Fprintf(a.output, "Stability: %d stable / %d unstable intervals\n", len(report.Stable), len(report.Unstable))
	return report, nil
}

// coarseScan samples one frame per second and flags timestamps where
// the fast difference to the previous sample exceeds the coarse
// threshold, keeping at least MinChangeSpacing between flags.
func (a *Analyzer) coarseScan(ctx context.Context, timeline video.Timeline) ([]float64, error) {
	var changes []float64
	var prev video.Frame
	defer func() {
		if prev != nil {
			prev.Close()
		}
	}()

	total := int(timeline.Duration) + 1
	a.progress.StepStarted("coarse scan", total)

	lastFlagged := 0.0
	step := 0
	for ts := 0.0; ts <= timeline.Duration; ts++ {
		step++
		a.progress.Step(step)
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		frame, err := a.decoder.DecodeAt(ctx, ts)
		if err != nil {
			// unreadable instant: non-contributing sample
			continue
		}

		if prev != nil {
			diff, derr := a.metric.FastDiff(prev, frame)
			if derr == nil && diff > a.cfg.CoarseThreshold && ts-lastFlagged >= a.cfg.MinChangeSpacing {
				changes = append(changes, ts)
				lastFlagged = ts
			}
			prev.Close()
		}
		prev = frame
	}
	a.progress.StepDone()

	return changes, nil
}

type refineSample struct {
	ts    float64
	frame video.Frame
}

// refineBoundary bounds the unstable window around one rough change.
// It samples [rough-window, rough+window] at RefineStep, scores each
// interior sample by the average composite difference to its
// neighbors, and takes the span of samples above the refinement
// threshold, padded and clamped to the search window.
func (a *Analyzer) refineBoundary(ctx context.Context, timeline video.Timeline, rough float64) analysis.Interval {
	searchStart := math.Max(0, rough-a.cfg.SearchWindow)
	searchEnd := math.Min(timeline.Duration, rough+a.cfg.SearchWindow)

	var samples []refineSample
	defer func() {
		for _, s := range samples {
			s.frame.Close()
		}
	}()

	for ts := searchStart; ts <= searchEnd+1e-9; ts += a.cfg.RefineStep {
		frame, err := a.decoder.DecodeAt(ctx, ts)
		if err != nil {
			continue
		}
		samples = append(samples, refineSample{ts: ts, frame: frame})
	}

	if len(samples) < 3 {
		// too sparse to bound the transition
		return clampedInterval(timeline, rough-sparseFallback, rough+sparseFallback)
	}

	// Boundary samples have no two neighbors and never qualify; only
	// interior samples can mark instability.
	var qualifying []float64
	for i := 1; i < len(samples)-1; i++ {
		diffPrev, err1 := a.metric.CompositeDiff(samples[i-1].frame, samples[i].frame)
		diffNext, err2 := a.metric.CompositeDiff(samples[i].frame, samples[i+1].frame)
		if err1 != nil || err2 != nil {
			continue
		}
		if (diffPrev+diffNext)/2 > a.cfg.RefineThreshold {
			qualifying = append(qualifying, samples[i].ts)
		}
	}

	if len(qualifying) == 0 {
		// The transition is real but too subtle to bound precisely
		return clampedInterval(timeline, rough-a.cfg.FallbackWindow, rough+a.cfg.FallbackWindow)
	}

	start := math.Max(searchStart, qualifying[0]-a.cfg.BoundaryPad)
	end := math.Min(searchEnd, qualifying[len(qualifying)-1]+a.cfg.BoundaryPad)
	return analysis.Interval{Start: start, End: end}
}

func clampedInterval(timeline video.Timeline, start, end float64) analysis.Interval {
	return analysis.Interval{
		Start: timeline.Clamp(start),
		End:   timeline.Clamp(end),
	}
}
