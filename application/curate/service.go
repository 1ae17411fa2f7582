package curate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"keyframe-curator/application/filtering"
	"keyframe-curator/application/sampling"
	"keyframe-curator/application/stability"
	"keyframe-curator/domain/analysis"
	"keyframe-curator/domain/transcript"
	"keyframe-curator/domain/video"
	"keyframe-curator/infrastructure/config"
	"keyframe-curator/infrastructure/reporter"
)

// DecoderFactory opens a frame decoder for a video file
type DecoderFactory func(path string) (video.FrameDecoder, error)

// StillExtractor writes a single still image for a timestamp
type StillExtractor interface {
	ExtractStill(ctx context.Context, videoPath string, timestamp float64, outputPath string) error
}

// TranscriptLoader parses a subtitle file into a transcript
type TranscriptLoader interface {
	Load(path string) (*transcript.Transcript, error)
}

// Service orchestrates the complete curation workflow: probe, analyze,
// sample, filter, extract
type Service struct {
	prober      video.Prober
	decoders    DecoderFactory
	metric      analysis.FrameMetric
	extractor   StillExtractor
	transcripts TranscriptLoader
	cfg         *config.Config
	output      io.Writer
	progress    reporter.Reporter
}

// NewService creates a new curation service
func NewService(
	prober video.Prober,
	decoders DecoderFactory,
	metric analysis.FrameMetric,
	extractor StillExtractor,
	transcripts TranscriptLoader,
	cfg *config.Config,
	output io.Writer,
	progress reporter.Reporter,
) *Service {
	return &Service{
		prober:      prober,
		decoders:    decoders,
		metric:      metric,
		extractor:   extractor,
		transcripts: transcripts,
		cfg:         cfg,
		output:      output,
		progress:    progress,
	}
}

// Input contains all input parameters for a curation run
type Input struct {
	VideoPath      string // Source video path
	TranscriptPath string // Optional SRT transcript path
	OutputDir      string // Overrides paths.output_directory when set
	SkipImages     bool   // Analyze and filter only; write no stills
}

// Result contains the results of a successful curation run
type Result struct {
	VideoPath  string
	Timeline   video.Timeline
	Report     analysis.StabilityReport
	Candidates []analysis.CandidateFrame
	KeyFrames  []analysis.KeyFrame
	ImagePaths []string
	ReportPath string
}

// Curate runs the complete end-to-end workflow
func (s *Service) Curate(ctx context.Context, input Input) (*Result, error) {
	startTime := time.Now()

	if input.VideoPath == "" {
		return nil, fmt.Errorf("no video path given")
	}
	outputDir := input.OutputDir
	if outputDir == "" {
		outputDir = s.cfg.Paths.OutputDirectory
	}
	if outputDir == "" {
		outputDir = "."
	}

	fmt.Fprintf(s.output, "Curating: %s\n\n", filepath.Base(input.VideoPath))

	// Step 1: Probe the container
	fmt.Fprintf(s.output, "[1/5] Probing video...\n")
	timeline, err := s.prober.Probe(ctx, input.VideoPath)
	if err != nil {
		return nil, fmt.Errorf("probe failed: %w", err)
	}
	fmt.Fprintf(s.output, "      Duration %.1fs, %dx%d @ %.2f fps\n\n",
		timeline.Duration, timeline.Width, timeline.Height, timeline.FrameRate)

	result := &Result{VideoPath: input.VideoPath, Timeline: timeline}

	if !timeline.HasVideo() {
		fmt.Fprintf(s.output, "      No video stream; nothing to curate\n\n")
		result.Report = analysis.BuildReport(timeline.Duration, nil, s.cfg.Analyzer.MinStableDuration)
		if err := s.writeReport(outputDir, result); err != nil {
			return nil, err
		}
		return result, nil
	}

	decoder, err := s.decoders(input.VideoPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open video: %w", err)
	}
	defer decoder.Close()

	var provider transcript.Provider
	if input.TranscriptPath != "" {
		loaded, err := s.transcripts.Load(input.TranscriptPath)
		if err != nil {
			return nil, fmt.Errorf("cannot load transcript: %w", err)
		}
		provider = loaded
	}

	// Step 2: Stability analysis
	fmt.Fprintf(s.output, "[2/5] Analyzing stability...\n")
	analyzer := stability.NewAnalyzer(decoder, s.metric, s.cfg.Analyzer,
		stability.WithOutput(s.output), stability.WithReporter(s.progress))
	report, err := analyzer.Analyze(ctx, timeline)
	if err != nil {
		return nil, fmt.Errorf("stability analysis failed: %w", err)
	}
	result.Report = report
	fmt.Fprintf(s.output, "      %d stable interval(s), %d scene change(s)\n\n",
		len(report.Stable), len(report.SceneChanges()))

	// Step 3: Candidate sampling
	fmt.Fprintf(s.output, "[3/5] Sampling candidates...\n")
	candidates := sampling.NewSampler(s.cfg.Sampler).Sample(timeline, report)
	result.Candidates = candidates
	fmt.Fprintf(s.output, "      %d candidate(s)\n\n", len(candidates))

	// Step 4: Keyframe filtering
	fmt.Fprintf(s.output, "[4/5] Filtering keyframes...\n")
	filterOpts := []filtering.FilterOption{
		filtering.WithOutput(s.output), filtering.WithReporter(s.progress),
	}
	if provider != nil {
		filterOpts = append(filterOpts, filtering.WithTranscript(provider))
	}
	filter := filtering.NewFilter(decoder, s.metric, s.cfg.Filter, filterOpts...)
	keyframes, err := filter.Filter(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("keyframe filtering failed: %w", err)
	}
	result.KeyFrames = keyframes
	fmt.Fprintln(s.output)

	// Step 5: Still extraction
	if input.SkipImages {
		fmt.Fprintf(s.output, "[5/5] Skipping still extraction\n\n")
	} else {
		fmt.Fprintf(s.output, "[5/5] Extracting stills...\n")
		paths, err := s.extractStills(ctx, input.VideoPath, outputDir, keyframes)
		if err != nil {
			return nil, fmt.Errorf("still extraction failed: %w", err)
		}
		result.ImagePaths = paths
		fmt.Fprintf(s.output, "      Wrote %d image(s)\n\n", len(paths))
	}

	if err := s.writeReport(outputDir, result); err != nil {
		return nil, err
	}
	fmt.Fprintf(s.output, "Report: %s\n", result.ReportPath)

	elapsed := time.Since(startTime)
	fmt.Fprintf(s.output, "Done! Completed in %s\n", formatDuration(elapsed))
	return result, nil
}

func (s *Service) extractStills(ctx context.Context, videoPath, outputDir string, keyframes []analysis.KeyFrame) ([]string, error) {
	framesDir := s.cfg.Paths.FramesDirectory
	if framesDir == "" {
		framesDir = filepath.Join(outputDir, "frames")
	}
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		return nil, err
	}

	s.progress.StepStarted("extracting stills", len(keyframes))
	paths := make([]string, 0, len(keyframes))
	for i, kf := range keyframes {
		name := fmt.Sprintf("frame_%03d_%.1fs.jpg", i+1, kf.Timestamp)
		outPath := filepath.Join(framesDir, name)
		if err := s.extractor.ExtractStill(ctx, videoPath, kf.Timestamp, outPath); err != nil {
			return nil, fmt.Errorf("still at %.2fs: %w", kf.Timestamp, err)
		}
		paths = append(paths, outPath)
		s.progress.Step(i + 1)
	}
	s.progress.StepDone()
	return paths, nil
}

// reportKeyFrame pairs a keyframe with its extracted image, when any
type reportKeyFrame struct {
	analysis.KeyFrame
	Image string `json:"image,omitempty"`
}

type reportPayload struct {
	Video       string                   `json:"video"`
	GeneratedAt time.Time                `json:"generated_at"`
	Duration    float64                  `json:"duration"`
	Stability   analysis.StabilityReport `json:"stability"`
	KeyFrames   []reportKeyFrame         `json:"keyframes"`
}

func (s *Service) writeReport(outputDir string, result *Result) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	payload := reportPayload{
		Video:       result.VideoPath,
		GeneratedAt: time.Now().UTC(),
		Duration:    result.Timeline.Duration,
		Stability:   result.Report,
		KeyFrames:   make([]reportKeyFrame, 0, len(result.KeyFrames)),
	}
	for i, kf := range result.KeyFrames {
		entry := reportKeyFrame{KeyFrame: kf}
		if i < len(result.ImagePaths) {
			entry.Image = result.ImagePaths[i]
		}
		payload.KeyFrames = append(payload.KeyFrames, entry)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	path := filepath.Join(outputDir, "keyframes.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	result.ReportPath = path
	return nil
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	m := d / time.Minute
	sec := (d % time.Minute) / time.Second
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}
