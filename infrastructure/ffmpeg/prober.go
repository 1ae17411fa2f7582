package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"keyframe-curator/domain/video"
)

// Prober implements video.Prober using ffprobe
type Prober struct {
	ffprobePath string
	runner      CommandRunner
}

// ProberOption is a functional option for configuring Prober
type ProberOption func(*Prober)

// WithFFprobePath sets a custom ffprobe executable path
func WithFFprobePath(path string) ProberOption {
	return func(p *Prober) {
		p.ffprobePath = path
	}
}

// WithProbeRunner sets a custom command runner (for testing)
func WithProbeRunner(runner CommandRunner) ProberOption {
	return func(p *Prober) {
		p.runner = runner
	}
}

// NewProber creates a new ffprobe-based prober
func NewProber(opts ...ProberOption) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

type probeStream struct {
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
	NbFrames   string `json:"nb_frames"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

// Probe implements video.Prober. A source without a video stream comes
// back with FrameRate 0 rather than an error; only an unreadable
// container is fatal.
func (p *Prober) Probe(ctx context.Context, path string) (video.Timeline, error) {
	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	out, err := p.runner.Output(ctx, p.ffprobePath, args...)
	if err != nil {
		return video.Timeline{}, &video.ProbeError{Path: path, Err: err}
	}

	var probed probeOutput
	if err := json.Unmarshal(out, &probed); err != nil {
		return video.Timeline{}, &video.ProbeError{Path: path, Err: fmt.Errorf("unparseable ffprobe output: %w", err)}
	}

	duration, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil {
		return video.Timeline{}, &video.ProbeError{Path: path, Err: fmt.Errorf("no duration in ffprobe output")}
	}

	var visual *probeStream
	for i := range probed.Streams {
		if probed.Streams[i].CodecType == "video" {
			visual = &probed.Streams[i]
			break
		}
	}

	if visual == nil {
		return video.NewTimeline(duration, 0)
	}

	frameRate, err := parseFrameRate(visual.RFrameRate)
	if err != nil {
		return video.Timeline{}, &video.ProbeError{Path: path, Err: err}
	}

	timeline, err := video.NewTimeline(duration, frameRate)
	if err != nil {
		return video.Timeline{}, &video.ProbeError{Path: path, Err: err}
	}
	timeline.Width = visual.Width
	timeline.Height = visual.Height
	if frames, err := strconv.Atoi(visual.NbFrames); err == nil && frames > 0 {
		timeline.TotalFrames = frames
	}
	return timeline, nil
}

// parseFrameRate converts an ffprobe rational like "30000/1001" to a
// float. Still-image streams report "0/0" and count as no video.
func parseFrameRate(raw string) (float64, error) {
	num, den, ok := strings.Cut(raw, "/")
	if !ok {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("unparseable frame rate %q", raw)
		}
		return rate, nil
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable frame rate %q", raw)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable frame rate %q", raw)
	}
	if d == 0 {
		return 0, nil
	}
	return n / d, nil
}

// VerifyInstalled checks that ffprobe is available
func (p *Prober) VerifyInstalled(ctx context.Context) error {
	_, err := p.runner.Output(ctx, p.ffprobePath, "-version")
	if err != nil {
		return fmt.Errorf("ffprobe not found or not executable: %w", err)
	}
	return nil
}

// Ensure Prober implements video.Prober
var _ video.Prober = (*Prober)(nil)
