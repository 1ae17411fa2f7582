package cmd

import (
	"fmt"
	"os"

	"keyframe-curator/application/stability"
	"keyframe-curator/infrastructure/ffmpeg"
	"keyframe-curator/infrastructure/reporter"
	"keyframe-curator/infrastructure/vision"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <video>",
	Short: "Detect stable intervals and scene changes only",
	Long: `Run only the stability analysis and print the resulting intervals.

Useful for tuning analyzer thresholds before a full curation run.

Example:
  keyframe-curator analyze lecture.mp4`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	ctx := cmd.Context()

	timeline, err := ffmpeg.NewProber().Probe(ctx, videoPath)
	if err != nil {
		return err
	}
	fmt.Printf("Duration %.1fs, %dx%d @ %.2f fps\n", timeline.Duration, timeline.Width, timeline.Height, timeline.FrameRate)

	if !timeline.HasVideo() {
		fmt.Println("No video stream; the whole timeline counts as stable.")
		return nil
	}

	decoder, err := vision.OpenDecoder(videoPath)
	if err != nil {
		return err
	}
	defer decoder.Close()

	analyzer := stability.NewAnalyzer(decoder, vision.NewMetric(), GetConfig().Analyzer,
		stability.WithOutput(os.Stdout), stability.WithReporter(reporter.NewTerminalReporter()))
	report, err := analyzer.Analyze(ctx, timeline)
	if err != nil {
		return err
	}

	fmt.Printf("\nStable intervals (%d):\n", len(report.Stable))
	for _, iv := range report.Stable {
		fmt.Printf("  %8.2fs - %8.2fs  (%.2fs)\n", iv.Start, iv.End, iv.Duration())
	}
	fmt.Printf("\nScene changes (%d):\n", len(report.SceneChanges()))
	for _, ts := range report.SceneChanges() {
		fmt.Printf("  %8.2fs\n", ts)
	}
	return nil
}
