package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	appexport "keyframe-curator/application/export"
	"keyframe-curator/infrastructure/drive"

	"github.com/spf13/cobra"
)

var (
	exportDir  string
	exportName string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Publish a curated keyframe set to Google Drive",
	Long: `Upload the keyframes.json report and the extracted stills of a previous
curation run to Google Drive, into a per-video folder, shared by link.

Requires google.credentials_file, google.token_file and
google.export_folder_id in the configuration.

Example:
  keyframe-curator export --dir output --name lecture`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Curation output directory (defaults to paths.output_directory)")
	exportCmd.Flags().StringVar(&exportName, "name", "", "Remote folder name (defaults to the directory name)")
}

func runExport(cmd *cobra.Command, args []string) error {
	conf := GetConfig()
	if conf.Google.CredentialsFile == "" || conf.Google.ExportFolderID == "" {
		return fmt.Errorf("google.credentials_file and google.export_folder_id must be configured; run 'keyframe-curator setup'")
	}

	dir := exportDir
	if dir == "" {
		dir = conf.Paths.OutputDirectory
	}
	if dir == "" {
		return fmt.Errorf("no output directory given; use --dir")
	}

	reportPath := filepath.Join(dir, "keyframes.json")
	if _, err := os.Stat(reportPath); err != nil {
		return fmt.Errorf("no keyframes.json in %s; run 'keyframe-curator curate' first", dir)
	}

	framesDir := conf.Paths.FramesDirectory
	if framesDir == "" {
		framesDir = filepath.Join(dir, "frames")
	}
	images, err := filepath.Glob(filepath.Join(framesDir, "*.jpg"))
	if err != nil {
		return err
	}
	sort.Strings(images)

	name := exportName
	if name == "" {
		name = filepath.Base(dir)
	}

	ctx := cmd.Context()
	client, err := drive.NewClient(ctx, conf.Google.CredentialsFile, conf.Google.TokenFile)
	if err != nil {
		return err
	}

	fmt.Printf("Exporting %d image(s) and the report...\n", len(images))
	service := appexport.NewService(client, conf.Google.ExportFolderID, os.Stdout)
	result, err := service.Export(ctx, appexport.Input{
		VideoPath:  name,
		ReportPath: reportPath,
		ImagePaths: images,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nDone! Report: %s\n", result.ReportURL)
	return nil
}
