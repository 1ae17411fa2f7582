package stability

import (
	"context"
	"fmt"
	"math"
	"testing"

	"keyframe-curator/domain/analysis"
	"keyframe-curator/domain/video"
	"keyframe-curator/infrastructure/config"
)

// --- Fakes ---

// fakeFrame carries a scalar intensity so fake metrics can score
// differences arithmetically
type fakeFrame struct {
	value  float64
	closed bool
}

func (f *fakeFrame) Close() { f.closed = true }

// fakeDecoder synthesizes frames from an intensity function and can
// simulate unreadable instants
type fakeDecoder struct {
	intensity func(ts float64) float64
	failAt    func(ts float64) bool
	decoded   []*fakeFrame
}

func (d *fakeDecoder) DecodeAt(ctx context.Context, ts float64) (video.Frame, error) {
	if d.failAt != nil && d.failAt(ts) {
		return nil, &video.DecodeError{Timestamp: ts, Err: fmt.Errorf("unreadable")}
	}
	f := &fakeFrame{value: d.intensity(ts)}
	d.decoded = append(d.decoded, f)
	return f, nil
}

func (d *fakeDecoder) Close() error { return nil }

// fakeMetric scores |a-b| of the fake intensities for both variants
type fakeMetric struct{}

func (fakeMetric) FastDiff(a, b video.Frame) (float64, error) {
	return math.Abs(a.(*fakeFrame).value - b.(*fakeFrame).value), nil
}

func (fakeMetric) CompositeDiff(a, b video.Frame) (float64, error) {
	return math.Abs(a.(*fakeFrame).value - b.(*fakeFrame).value), nil
}

func (fakeMetric) EdgeRatio(f video.Frame) (float64, error) { return 0.2, nil }

func within(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

// --- Tests ---

func TestAnalyzeDegenerate(t *testing.T) {
	t.Run("audio-only source bypasses both phases", func(t *testing.T) {
		decoder := &fakeDecoder{intensity: func(float64) float64 { return 0 }}
		tl, _ := video.NewTimeline(300, 0)

		report, err := NewAnalyzer(decoder, fakeMetric{}, config.AnalyzerConfig{}).Analyze(context.Background(), tl)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Stable) != 1 || report.Stable[0] != (analysis.Interval{Start: 0, End: 300}) {
			t.Errorf("expected single stable interval [0,300], got %v", report.Stable)
		}
		if len(report.Unstable) != 0 || len(report.SceneChanges()) != 0 {
			t.Errorf("expected no unstable intervals, got %v", report.Unstable)
		}
		if len(decoder.decoded) != 0 {
			t.Errorf("expected no frames decoded, got %d", len(decoder.decoded))
		}
	})

	t.Run("zero duration", func(t *testing.T) {
		decoder := &fakeDecoder{intensity: func(float64) float64 { return 0 }}
		tl, _ := video.NewTimeline(0, 30)

		report, err := NewAnalyzer(decoder, fakeMetric{}, config.AnalyzerConfig{}).Analyze(context.Background(), tl)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Stable) != 1 || report.Stable[0].End != 0 {
			t.Errorf("expected stable [(0,0)], got %v", report.Stable)
		}
	})
}

func TestAnalyzeStaticTimeline(t *testing.T) {
	decoder := &fakeDecoder{intensity: func(float64) float64 { return 42 }}
	tl, _ := video.NewTimeline(120, 30)

	report, err := NewAnalyzer(decoder, fakeMetric{}, config.AnalyzerConfig{}).Analyze(context.Background(), tl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Unstable) != 0 {
		t.Errorf("expected no unstable intervals, got %v", report.Unstable)
	}
	if len(report.Stable) != 1 || report.Stable[0] != (analysis.Interval{Start: 0, End: 120}) {
		t.Errorf("expected single stable interval [0,120], got %v", report.Stable)
	}

	// every decoded frame must have been released
	for i, f := range decoder.decoded {
		if !f.closed {
			t.Errorf("frame %d leaked", i)
		}
	}
}

func TestAnalyzeSingleTransition(t *testing.T) {
	// Intensity ramps from 0 to 100 over [52.9, 53.9]: the coarse scan
	// sees a jump at 54s, refinement bounds the ramp.
	intensity := func(ts float64) float64 {
		switch {
		case ts <= 52.9:
			return 0
		case ts >= 53.9:
			return 100
		default:
			return (ts - 52.9) * 100
		}
	}
	decoder := &fakeDecoder{intensity: intensity}
	tl, _ := video.NewTimeline(100, 25)

	report, err := NewAnalyzer(decoder, fakeMetric{}, config.AnalyzerConfig{}).Analyze(context.Background(), tl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Unstable) != 1 {
		t.Fatalf("expected 1 unstable interval, got %v", report.Unstable)
	}
	iv := report.Unstable[0]
	// qualifying samples span [53.0, 53.8] on the 0.1s grid, padded by 0.2
	if !within(iv.Start, 52.8, 0.06) || !within(iv.End, 54.0, 0.06) {
		t.Errorf("expected unstable ~[52.8,54.0], got [%f,%f]", iv.Start, iv.End)
	}

	if len(report.Stable) != 2 {
		t.Fatalf("expected 2 stable intervals, got %v", report.Stable)
	}
	if report.Stable[0].Start != 0 || !within(report.Stable[0].End, iv.Start, 1e-9) {
		t.Errorf("leading stable interval mismatched: %v", report.Stable[0])
	}
	if !within(report.Stable[1].Start, iv.End, 1e-9) || report.Stable[1].End != 100 {
		t.Errorf("trailing stable interval mismatched: %v", report.Stable[1])
	}

	changes := report.SceneChanges()
	if len(changes) != 1 || !within(changes[0], iv.Midpoint(), 1e-9) {
		t.Errorf("expected scene change at midpoint %f, got %v", iv.Midpoint(), changes)
	}
}

func TestAnalyzeSubtleTransition(t *testing.T) {
	// A step too small for refinement to qualify any interior sample
	// but large enough for the coarse flag: fall back to a fixed
	// window around the rough change.
	intensity := func(ts float64) float64 {
		if ts >= 29.95 {
			return 20
		}
		return 0
	}
	decoder := &fakeDecoder{intensity: intensity}
	tl, _ := video.NewTimeline(60, 25)

	cfg := config.AnalyzerConfig{RefineThreshold: 12.0}
	report, err := NewAnalyzer(decoder, fakeMetric{}, cfg).Analyze(context.Background(), tl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A single 20-point step gives interior samples an average
	// neighbor diff of at most 10, below the 12.0 threshold.
	if len(report.Unstable) != 1 {
		t.Fatalf("expected 1 unstable interval, got %v", report.Unstable)
	}
	iv := report.Unstable[0]
	if !within(iv.Start, 29.7, 1e-9) || !within(iv.End, 30.3, 1e-9) {
		t.Errorf("expected fallback window [29.7,30.3], got [%f,%f]", iv.Start, iv.End)
	}
}

func TestAnalyzeToleratesDecodeFailures(t *testing.T) {
	intensity := func(ts float64) float64 {
		if ts >= 40 {
			return 100
		}
		return 0
	}
	// every third instant is unreadable
	failAt := func(ts float64) bool {
		return int(math.Round(ts*10))%3 == 0
	}
	decoder := &fakeDecoder{intensity: intensity, failAt: failAt}
	tl, _ := video.NewTimeline(80, 25)

	report, err := NewAnalyzer(decoder, fakeMetric{}, config.AnalyzerConfig{}).Analyze(context.Background(), tl)
	if err != nil {
		t.Fatalf("expected decode failures to be skipped, got error: %v", err)
	}
	if len(report.Unstable) != 1 {
		t.Fatalf("expected the transition to survive sparse decoding, got %v", report.Unstable)
	}
	if !report.Unstable[0].Contains(40) {
		t.Errorf("expected unstable interval to cover the 40s step, got %v", report.Unstable[0])
	}
}

func TestAnalyzeCancellation(t *testing.T) {
	decoder := &fakeDecoder{intensity: func(float64) float64 { return 0 }}
	tl, _ := video.NewTimeline(600, 25)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewAnalyzer(decoder, fakeMetric{}, config.AnalyzerConfig{}).Analyze(ctx, tl); err == nil {
		t.Error("expected error from cancelled context")
	}
}
