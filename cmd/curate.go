package cmd

import (
	"fmt"
	"os"

	appcurate "keyframe-curator/application/curate"
	"keyframe-curator/domain/video"
	"keyframe-curator/infrastructure/ffmpeg"
	"keyframe-curator/infrastructure/filesystem"
	"keyframe-curator/infrastructure/reporter"
	"keyframe-curator/infrastructure/srt"
	"keyframe-curator/infrastructure/vision"

	"github.com/spf13/cobra"
)

var (
	curateTranscriptPath string
	curateOutputDir      string
	curateSkipImages     bool
)

var curateCmd = &cobra.Command{
	Use:   "curate [video]",
	Short: "Run the complete curation workflow on a video",
	Long: `Run the complete curation workflow:
1. Probe the container for duration and frame rate
2. Detect stable intervals and scene changes
3. Sample candidate frames
4. Filter candidates down to the final keyframe set
5. Extract JPEG stills and write keyframes.json

The source video can be given as an argument, or the newest video in the
configured source directory is used.

Example:
  keyframe-curator curate lecture.mp4 --transcript lecture.srt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCurate,
}

func init() {
	rootCmd.AddCommand(curateCmd)
	curateCmd.Flags().StringVar(&curateTranscriptPath, "transcript", "", "SRT transcript for the context gate (optional)")
	curateCmd.Flags().StringVar(&curateOutputDir, "out", "", "Output directory (defaults to paths.output_directory)")
	curateCmd.Flags().BoolVar(&curateSkipImages, "no-images", false, "Analyze and filter only; write no stills")
}

func runCurate(cmd *cobra.Command, args []string) error {
	videoPath, err := resolveVideoPath(args)
	if err != nil {
		return err
	}

	service := appcurate.NewService(
		ffmpeg.NewProber(),
		func(path string) (video.FrameDecoder, error) { return vision.OpenDecoder(path) },
		vision.NewMetric(),
		ffmpeg.NewExtractor(),
		srt.NewLoader(),
		GetConfig(),
		os.Stdout,
		reporter.NewTerminalReporter(),
	)

	_, err = service.Curate(cmd.Context(), appcurate.Input{
		VideoPath:      videoPath,
		TranscriptPath: curateTranscriptPath,
		OutputDir:      curateOutputDir,
		SkipImages:     curateSkipImages,
	})
	return err
}

// resolveVideoPath takes the explicit argument or falls back to the
// newest video in the configured source directory
func resolveVideoPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	sourceDir := GetConfig().Paths.SourceDirectory
	if sourceDir == "" {
		return "", fmt.Errorf("no video given and paths.source_directory is not configured")
	}
	newest, err := filesystem.NewFinder().FindNewestVideo(sourceDir)
	if err != nil {
		return "", err
	}
	return newest, nil
}
