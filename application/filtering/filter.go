package filtering

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"keyframe-curator/domain/analysis"
	"keyframe-curator/domain/transcript"
	"keyframe-curator/domain/video"
	"keyframe-curator/infrastructure/config"
	"keyframe-curator/infrastructure/reporter"
)

// retargetEpsilon is the smallest timestamp move worth applying
const retargetEpsilon = 0.05

// visualKeywords signal an explicit visual reference in the transcript
var visualKeywords = []string{
	"this", "here", "shown", "shows", "look at", "screen", "page",
	"diagram", "slide", "chart", "interface", "code", "demo",
}

// abstractKeywords signal structural concepts that benefit from a
// visual anchor
var abstractKeywords = []string{
	"architecture", "pipeline", "structure", "framework", "model",
	"system", "principle", "mechanism", "algorithm", "design", "workflow",
}

// Filter reduces candidate frames to the final keyframe set through
// four ordered gates: proximity dedup, animation-stabilization
// retargeting, text-density check and context-necessity check. The
// first failing gate discards the candidate.
type Filter struct {
	decoder    video.FrameDecoder
	metric     analysis.FrameMetric
	transcript transcript.Provider
	cfg        config.FilterConfig
	output     io.Writer
	progress   reporter.Reporter
}

// FilterOption is a functional option for configuring Filter
type FilterOption func(*Filter)

// WithTranscript supplies the transcript provider; without one the
// context gate always passes
func WithTranscript(p transcript.Provider) FilterOption {
	return func(f *Filter) {
		f.transcript = p
	}
}

// WithOutput sets the writer for per-candidate decisions
func WithOutput(w io.Writer) FilterOption {
	return func(f *Filter) {
		f.output = w
	}
}

// WithReporter sets the progress reporter
func WithReporter(r reporter.Reporter) FilterOption {
	return func(f *Filter) {
		f.progress = r
	}
}

// NewFilter creates a keyframe filter. Zero-valued tunables fall back
// to the standard defaults.
func NewFilter(decoder video.FrameDecoder, metric analysis.FrameMetric, cfg config.FilterConfig, opts ...FilterOption) *Filter {
	if cfg.MinInterval == 0 {
		cfg.MinInterval = 10.0
	}
	if cfg.StabilizeWindow == 0 {
		cfg.StabilizeWindow = 5.0
	}
	if cfg.StabilizeStep == 0 {
		cfg.StabilizeStep = 0.2
	}
	if cfg.StabilityThreshold == 0 {
		cfg.StabilityThreshold = 8.0
	}
	if cfg.BiasWeight == 0 {
		cfg.BiasWeight = 0.5
	}
	if cfg.RetargetMargin == 0 {
		cfg.RetargetMargin = 0.7
	}
	if cfg.MaxShift == 0 {
		cfg.MaxShift = 3.0
	}
	if cfg.MinEdgeRatio == 0 {
		cfg.MinEdgeRatio = 0.05
	}
	if cfg.MaxEdgeRatio == 0 {
		cfg.MaxEdgeRatio = 0.50
	}
	if cfg.ContextWindow == 0 {
		cfg.ContextWindow = 8.0
	}
	if cfg.MinContextChars == 0 {
		cfg.MinContextChars = 10
	}
	if cfg.LongContextChars == 0 {
		cfg.LongContextChars = 200
	}

	f := &Filter{
		decoder:  decoder,
		metric:   metric,
		cfg:      cfg,
		output:   io.Discard,
		progress: reporter.NullReporter{},
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Filter processes candidates in ascending timestamp order and returns
// the accepted keyframes, also timestamp-ascending. Cancellation is
// honored between candidates, never mid-frame-read.
func (f *Filter) Filter(ctx context.Context, candidates []analysis.CandidateFrame) ([]analysis.KeyFrame, error) {
	accepted := make([]analysis.KeyFrame, 0, len(candidates))
	f.progress.StepStarted("filtering candidates", len(candidates))

	for i, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f.progress.Step(i + 1)

		// Gate 1: proximity dedup against already-accepted frames
		if f.tooClose(candidate.Timestamp, accepted) {
			fmt.Fprintf(f.output, "  [%7.2fs] SKIP: within %.0fs of an accepted frame\n", candidate.Timestamp, f.cfg.MinInterval)
			continue
		}

		// Gate 2: animation-stabilization retargeting (never rejects).
		// A backward shift must not move the frame back within the
		// minimum interval of what gate 1 already accepted.
		floor := math.Inf(-1)
		if len(accepted) > 0 {
			floor = accepted[len(accepted)-1].Timestamp + f.cfg.MinInterval
		}
		kf := f.stabilize(ctx, analysis.NewKeyFrame(candidate), floor)

		// Gate 3: text-density band
		ratio, ok := f.edgeRatioAt(ctx, kf.Timestamp)
		if !ok {
			fmt.Fprintf(f.output, "  [%7.2fs] SKIP: frame unreadable\n", kf.Timestamp)
			continue
		}
		if ratio <= f.cfg.MinEdgeRatio || ratio >= f.cfg.MaxEdgeRatio {
			fmt.Fprintf(f.output, "  [%7.2fs] SKIP: edge ratio %.3f outside (%.2f, %.2f)\n", kf.Timestamp, ratio, f.cfg.MinEdgeRatio, f.cfg.MaxEdgeRatio)
			continue
		}
		kf = kf.WithNote(fmt.Sprintf("text density %.2f", ratio))

		// Gate 4: context necessity, only with a transcript supplied
		if f.transcript != nil {
			needs, reason := f.needsVisual(f.transcript.TextNear(kf.Timestamp, f.cfg.ContextWindow))
			if !needs {
				fmt.Fprintf(f.output, "  [%7.2fs] SKIP: %s\n", kf.Timestamp, reason)
				continue
			}
			kf = kf.WithNote(reason)
		}

		fmt.Fprintf(f.output, "  [%7.2fs] KEEP\n", kf.Timestamp)
		accepted = append(accepted, kf)
	}
	f.progress.StepDone()

	fmt.Fprintf(f.output, "Filter kept %d of %d candidates\n", len(accepted), len(candidates))
	return accepted, nil
}

func (f *Filter) tooClose(ts float64, accepted []analysis.KeyFrame) bool {
	for _, a := range accepted {
		if math.Abs(a.Timestamp-ts) < f.cfg.MinInterval {
			return true
		}
	}
	return false
}

type stabilizeSample struct {
	ts    float64
	frame video.Frame
}

// stabilize searches the retargeting window for the most settled
// nearby frame and shifts the keyframe onto it when it clearly beats
// the original timestamp. A frame is never discarded for being
// unstable: when the whole window is still moving the original
// timestamp is kept and tagged. Samples earlier than floor are still
// evidence of motion but are never retarget destinations.
func (f *Filter) stabilize(ctx context.Context, kf analysis.KeyFrame, floor float64) analysis.KeyFrame {
	origin := kf.Timestamp
	searchStart := origin
	if f.cfg.Bidirectional {
		searchStart = math.Max(0, origin-f.cfg.StabilizeWindow)
	}
	searchEnd := origin + f.cfg.StabilizeWindow

	// Decode one extra step on both sides so every in-window sample
	// has two neighbors; the extra boundary samples are never
	// candidates themselves.
	var samples []stabilizeSample
	defer func() {
		for _, s := range samples {
			s.frame.Close()
		}
	}()
	for ts := math.Max(0, searchStart-f.cfg.StabilizeStep); ts <= searchEnd+f.cfg.StabilizeStep+1e-9; ts += f.cfg.StabilizeStep {
		frame, err := f.decoder.DecodeAt(ctx, ts)
		if err != nil {
			continue
		}
		samples = append(samples, stabilizeSample{ts: ts, frame: frame})
	}

	if len(samples) < 3 {
		return kf.WithNote("stabilization window too sparse")
	}

	originalScore := math.Inf(1)
	bestScore := math.Inf(1)
	bestInstability := math.Inf(1)
	bestTS := origin
	minInstability := math.Inf(1)

	for i := 1; i < len(samples)-1; i++ {
		s := samples[i]
		if s.ts < searchStart-1e-9 || s.ts > searchEnd+1e-9 {
			continue
		}
		diffPrev, err1 := f.metric.CompositeDiff(samples[i-1].frame, s.frame)
		diffNext, err2 := f.metric.CompositeDiff(s.frame, samples[i+1].frame)
		if err1 != nil || err2 != nil {
			continue
		}
		instability := (diffPrev + diffNext) / 2

		if math.Abs(s.ts-origin) < f.cfg.StabilizeStep/2 {
			originalScore = instability
		}
		if instability < minInstability {
			minInstability = instability
		}
		if math.Abs(s.ts-origin) > f.cfg.MaxShift || s.ts < floor {
			continue
		}

		// Later, equally-stable frames are preferred: animations
		// settle into their final state.
		biased := instability - (s.ts-origin)*f.cfg.BiasWeight
		if biased < bestScore {
			bestScore = biased
			bestInstability = instability
			bestTS = s.ts
		}
	}

	if minInstability > f.cfg.StabilityThreshold {
		return kf.WithNote("still in motion")
	}

	// The bias picks the winning sample; the move itself only happens
	// when the winner's raw instability clearly beats the original's.
	if math.Abs(bestTS-origin) > retargetEpsilon && bestInstability < f.cfg.RetargetMargin*originalScore {
		return kf.Retargeted(bestTS, fmt.Sprintf("settled frame (instability %.1f)", bestInstability))
	}

	return kf
}

// edgeRatioAt decodes a single frame and measures its edge-pixel
// ratio. The second return is false when the frame is unreadable.
func (f *Filter) edgeRatioAt(ctx context.Context, ts float64) (float64, bool) {
	frame, err := f.decoder.DecodeAt(ctx, ts)
	if err != nil {
		return 0, false
	}
	defer frame.Close()

	ratio, err := f.metric.EdgeRatio(frame)
	if err != nil {
		return 0, false
	}
	return ratio, true
}

// needsVisual decides whether the transcript around a candidate leaves
// the frame contextually necessary
func (f *Filter) needsVisual(text string) (bool, string) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < f.cfg.MinContextChars {
		return true, "transcript near-empty, frame carries the context"
	}

	lower := strings.ToLower(trimmed)
	for _, word := range visualKeywords {
		if strings.Contains(lower, word) {
			return true, fmt.Sprintf("transcript references a visual (%q)", word)
		}
	}
	for _, word := range abstractKeywords {
		if strings.Contains(lower, word) {
			return true, fmt.Sprintf("abstract concept (%q) benefits from a visual", word)
		}
	}

	if utf8.RuneCountInString(trimmed) > f.cfg.LongContextChars {
		return false, "transcript is self-sufficient"
	}

	return true, "visual aid by default"
}
