//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"

	appcurate "keyframe-curator/application/curate"
	"keyframe-curator/domain/transcript"
	"keyframe-curator/domain/video"
	"keyframe-curator/infrastructure/config"
	"keyframe-curator/infrastructure/reporter"

	"github.com/cucumber/godog"
)

// fakeFrame carries a scalar intensity so the fake metric can score
// differences arithmetically
type fakeFrame struct {
	value float64
}

func (f *fakeFrame) Close() {}

// fakeDecoder synthesizes frames from an intensity function
type fakeDecoder struct {
	intensity func(ts float64) float64
}

func (d *fakeDecoder) DecodeAt(ctx context.Context, ts float64) (video.Frame, error) {
	return &fakeFrame{value: d.intensity(ts)}, nil
}

func (d *fakeDecoder) Close() error { return nil }

// fakeMetric scores |a-b| of the fake intensities and keeps every
// frame inside the text-density band
type fakeMetric struct{}

func (fakeMetric) FastDiff(a, b video.Frame) (float64, error) {
	return math.Abs(a.(*fakeFrame).value - b.(*fakeFrame).value), nil
}

func (fakeMetric) CompositeDiff(a, b video.Frame) (float64, error) {
	return math.Abs(a.(*fakeFrame).value - b.(*fakeFrame).value), nil
}

func (fakeMetric) EdgeRatio(f video.Frame) (float64, error) { return 0.2, nil }

// mockExtractor records extraction calls without touching ffmpeg
type mockExtractor struct {
	calls []float64
}

func (m *mockExtractor) ExtractStill(ctx context.Context, videoPath string, ts float64, outPath string) error {
	m.calls = append(m.calls, ts)
	return nil
}

// mockTranscriptLoader is never exercised by these scenarios
type mockTranscriptLoader struct{}

func (mockTranscriptLoader) Load(path string) (*transcript.Transcript, error) {
	return nil, fmt.Errorf("no transcript in this scenario")
}

// curationContext holds test state for curation scenarios
type curationContext struct {
	timeline    video.Timeline
	decoder     *fakeDecoder
	extractor   *mockExtractor
	sceneChange float64
	outputDir   string
	result      *appcurate.Result
	err         error
}

// SharedCurationContext is reset before each scenario via Before hook
var SharedCurationContext *curationContext

func getCurationContext() *curationContext {
	return SharedCurationContext
}

func InitializeCurationScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		dir, err := os.MkdirTemp("", "curation-feature-*")
		if err != nil {
			return c, err
		}
		SharedCurationContext = &curationContext{
			extractor: &mockExtractor{},
			outputDir: dir,
		}
		return c, nil
	})
	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedCurationContext != nil && SharedCurationContext.outputDir != "" {
			os.RemoveAll(SharedCurationContext.outputDir)
		}
		return c, nil
	})

	ctx.Step(`^a (\d+) second video at (\d+) fps with static content$`, aStaticVideo)
	ctx.Step(`^a (\d+) second video at (\d+) fps with a scene change at ([\d.]+) seconds$`, aVideoWithSceneChange)
	ctx.Step(`^a (\d+) second audio-only source$`, anAudioOnlySource)
	ctx.Step(`^I run the curation workflow$`, iRunTheCurationWorkflow)
	ctx.Step(`^the whole timeline is reported stable$`, theWholeTimelineIsStable)
	ctx.Step(`^(\d+) stable intervals are reported$`, stableIntervalsAreReported)
	ctx.Step(`^(\d+) keyframes are extracted$`, keyframesAreExtracted)
	ctx.Step(`^no keyframes are extracted$`, noKeyframesAreExtracted)
	ctx.Step(`^a keyframe lands within ([\d.]+) seconds after the scene change$`, aKeyframeLandsAfterTheSceneChange)
	ctx.Step(`^the report file is written$`, theReportFileIsWritten)
}

func aStaticVideo(seconds, fps int) error {
	tc := getCurationContext()
	tl, err := video.NewTimeline(float64(seconds), float64(fps))
	if err != nil {
		return err
	}
	tc.timeline = tl
	tc.decoder = &fakeDecoder{intensity: func(float64) float64 { return 50 }}
	return nil
}

func aVideoWithSceneChange(seconds, fps int, changeAt float64) error {
	tc := getCurationContext()
	tl, err := video.NewTimeline(float64(seconds), float64(fps))
	if err != nil {
		return err
	}
	tc.timeline = tl
	tc.sceneChange = changeAt
	tc.decoder = &fakeDecoder{intensity: func(ts float64) float64 {
		if ts < changeAt {
			return 0
		}
		return 100
	}}
	return nil
}

func anAudioOnlySource(seconds int) error {
	tc := getCurationContext()
	tl, err := video.NewTimeline(float64(seconds), 0)
	if err != nil {
		return err
	}
	tc.timeline = tl
	tc.decoder = &fakeDecoder{intensity: func(float64) float64 { return 0 }}
	return nil
}

func iRunTheCurationWorkflow() error {
	tc := getCurationContext()

	prober := &staticProber{timeline: tc.timeline}
	factory := func(path string) (video.FrameDecoder, error) { return tc.decoder, nil }
	service := appcurate.NewService(prober, factory, fakeMetric{}, tc.extractor,
		mockTranscriptLoader{}, &config.Config{}, &bytes.Buffer{}, reporter.NullReporter{})

	tc.result, tc.err = service.Curate(context.Background(), appcurate.Input{
		VideoPath: "recording.mp4",
		OutputDir: tc.outputDir,
	})
	return tc.err
}

// staticProber returns the scenario's timeline for any path
type staticProber struct {
	timeline video.Timeline
}

func (p *staticProber) Probe(ctx context.Context, path string) (video.Timeline, error) {
	return p.timeline, nil
}

func theWholeTimelineIsStable() error {
	tc := getCurationContext()
	stable := tc.result.Report.Stable
	if len(stable) != 1 {
		return fmt.Errorf("expected one stable interval, got %v", stable)
	}
	if stable[0].Start != 0 || stable[0].End != tc.timeline.Duration {
		return fmt.Errorf("expected [0, %.1f], got %v", tc.timeline.Duration, stable[0])
	}
	return nil
}

func stableIntervalsAreReported(count int) error {
	tc := getCurationContext()
	if len(tc.result.Report.Stable) != count {
		return fmt.Errorf("expected %d stable intervals, got %v", count, tc.result.Report.Stable)
	}
	return nil
}

func keyframesAreExtracted(count int) error {
	tc := getCurationContext()
	if len(tc.result.KeyFrames) != count {
		return fmt.Errorf("expected %d keyframes, got %v", count, tc.result.KeyFrames)
	}
	if len(tc.extractor.calls) != count {
		return fmt.Errorf("expected %d stills, got %d", count, len(tc.extractor.calls))
	}
	return nil
}

func noKeyframesAreExtracted() error {
	tc := getCurationContext()
	if len(tc.result.KeyFrames) != 0 || len(tc.extractor.calls) != 0 {
		return fmt.Errorf("expected no keyframes, got %v", tc.result.KeyFrames)
	}
	return nil
}

func aKeyframeLandsAfterTheSceneChange(tolerance float64) error {
	tc := getCurationContext()
	for _, kf := range tc.result.KeyFrames {
		if kf.Timestamp >= tc.sceneChange && kf.Timestamp <= tc.sceneChange+tolerance {
			return nil
		}
	}
	return fmt.Errorf("no keyframe within %.1fs after %.1fs, got %v", tolerance, tc.sceneChange, tc.result.KeyFrames)
}

func theReportFileIsWritten() error {
	tc := getCurationContext()
	if tc.result.ReportPath == "" {
		return fmt.Errorf("no report path recorded")
	}
	if _, err := os.Stat(tc.result.ReportPath); err != nil {
		return fmt.Errorf("report not on disk: %w", err)
	}
	return nil
}
