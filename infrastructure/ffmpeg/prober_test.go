package ffmpeg

import (
	"context"
	"errors"
	"testing"

	"keyframe-curator/domain/video"
)

// mockRunner implements CommandRunner with canned output
type mockRunner struct {
	output  []byte
	err     error
	lastCmd []string
}

func (m *mockRunner) Run(ctx context.Context, name string, args ...string) error {
	m.lastCmd = append([]string{name}, args...)
	return m.err
}

func (m *mockRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.lastCmd = append([]string{name}, args...)
	return m.output, m.err
}

func TestProbe(t *testing.T) {
	t.Run("parses a video stream", func(t *testing.T) {
		runner := &mockRunner{output: []byte(`{
			"streams": [
				{"codec_type": "audio"},
				{"codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001", "nb_frames": "10800"}
			],
			"format": {"duration": "360.250000"}
		}`)}
		prober := NewProber(WithProbeRunner(runner))

		tl, err := prober.Probe(context.Background(), "talk.mp4")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tl.Duration != 360.25 || tl.Width != 1920 || tl.Height != 1080 {
			t.Errorf("unexpected timeline: %+v", tl)
		}
		if tl.FrameRate < 29.9 || tl.FrameRate > 30.0 {
			t.Errorf("expected NTSC frame rate, got %f", tl.FrameRate)
		}
		if tl.TotalFrames != 10800 {
			t.Errorf("expected frame count from stream, got %d", tl.TotalFrames)
		}
		if !tl.HasVideo() {
			t.Error("expected a visual timeline")
		}
	})

	t.Run("audio-only source yields frame rate zero", func(t *testing.T) {
		runner := &mockRunner{output: []byte(`{
			"streams": [{"codec_type": "audio"}],
			"format": {"duration": "300.0"}
		}`)}
		prober := NewProber(WithProbeRunner(runner))

		tl, err := prober.Probe(context.Background(), "podcast.m4a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tl.HasVideo() || tl.Duration != 300 {
			t.Errorf("expected audio-only timeline, got %+v", tl)
		}
	})

	t.Run("unreadable container is a probe error", func(t *testing.T) {
		runner := &mockRunner{err: errors.New("exit status 1")}
		prober := NewProber(WithProbeRunner(runner))

		_, err := prober.Probe(context.Background(), "missing.mp4")
		var probeErr *video.ProbeError
		if !errors.As(err, &probeErr) {
			t.Fatalf("expected *video.ProbeError, got %v", err)
		}
		if probeErr.Path != "missing.mp4" {
			t.Errorf("expected path in error, got %q", probeErr.Path)
		}
	})

	t.Run("garbage output is a probe error", func(t *testing.T) {
		runner := &mockRunner{output: []byte("not json")}
		prober := NewProber(WithProbeRunner(runner))

		var probeErr *video.ProbeError
		if _, err := prober.Probe(context.Background(), "talk.mp4"); !errors.As(err, &probeErr) {
			t.Fatalf("expected *video.ProbeError, got %v", err)
		}
	})
}

func TestParseFrameRate(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"30/1", 30},
		{"25", 25},
		{"0/0", 0},
	}
	for _, c := range cases {
		got, err := parseFrameRate(c.raw)
		if err != nil {
			t.Errorf("parseFrameRate(%q): %v", c.raw, err)
			continue
		}
		if got != c.want {
			t.Errorf("parseFrameRate(%q) = %f, want %f", c.raw, got, c.want)
		}
	}
	if _, err := parseFrameRate("abc"); err == nil {
		t.Error("expected error for junk frame rate")
	}
}

func TestExtractStill(t *testing.T) {
	runner := &mockRunner{}
	extractor := NewExtractor(WithCommandRunner(runner))

	if err := extractor.ExtractStill(context.Background(), "talk.mp4", 42.5, "out/frame.jpg"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// -ss must precede -i so ffmpeg seeks before decoding
	if len(runner.lastCmd) < 3 || runner.lastCmd[1] != "-ss" || runner.lastCmd[2] != "42.500" {
		t.Errorf("expected input seeking, got %v", runner.lastCmd)
	}
}
