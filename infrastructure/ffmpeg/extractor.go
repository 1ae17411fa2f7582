package ffmpeg

import (
	"context"
	"fmt"

	"keyframe-curator/application/curate"
)

// Extractor writes single still images using ffmpeg
type Extractor struct {
	ffmpegPath string
	quality    int
	runner     CommandRunner
}

// ExtractorOption is a functional option for configuring Extractor
type ExtractorOption func(*Extractor)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) ExtractorOption {
	return func(e *Extractor) {
		e.ffmpegPath = path
	}
}

// WithJPEGQuality sets the ffmpeg -q:v value (2 best, 31 worst)
func WithJPEGQuality(quality int) ExtractorOption {
	return func(e *Extractor) {
		e.quality = quality
	}
}

// WithCommandRunner sets a custom command runner (for testing)
func WithCommandRunner(runner CommandRunner) ExtractorOption {
	return func(e *Extractor) {
		e.runner = runner
	}
}

// NewExtractor creates a new FFmpeg-based still extractor
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		ffmpegPath: "ffmpeg",
		quality:    2,
		runner:     &ExecCommandRunner{},
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ExtractStill decodes the frame nearest the timestamp and writes it
// as a JPEG. Seeking before the input keeps this fast on long videos.
func (e *Extractor) ExtractStill(ctx context.Context, videoPath string, timestamp float64, outputPath string) error {
	args := []string{
		"-ss", fmt.Sprintf("%.3f", timestamp),
		"-i", videoPath,
		"-frames:v", "1",
		"-q:v", fmt.Sprintf("%d", e.quality),
		"-y", // Overwrite output file if it exists
		outputPath,
	}

	if err := e.runner.Run(ctx, e.ffmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg still extraction failed at %.3fs: %w", timestamp, err)
	}

	return nil
}

// VerifyInstalled checks that ffmpeg is available
func (e *Extractor) VerifyInstalled(ctx context.Context) error {
	_, err := e.runner.Output(ctx, e.ffmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg not found or not executable: %w", err)
	}
	return nil
}

// Ensure Extractor implements the curation still port
var _ curate.StillExtractor = (*Extractor)(nil)
