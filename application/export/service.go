package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"keyframe-curator/domain/distribution"
)

// Service publishes a curated keyframe set (stills plus report) to
// remote storage
type Service struct {
	uploader distribution.Uploader
	folderID string
	output   io.Writer
}

// NewService creates a new export service
func NewService(uploader distribution.Uploader, folderID string, output io.Writer) *Service {
	if output == nil {
		output = io.Discard
	}
	return &Service{
		uploader: uploader,
		folderID: folderID,
		output:   output,
	}
}

// Input names the local artifacts to publish
type Input struct {
	VideoPath  string   // Used to name the remote folder
	ReportPath string   // keyframes.json
	ImagePaths []string // Extracted stills
}

// Result contains links to the published artifacts
type Result struct {
	FolderID  string
	ReportURL string
	ImageURLs []string
}

// Export uploads the report and every still into a per-video folder
// and makes them readable by link
func (s *Service) Export(ctx context.Context, input Input) (*Result, error) {
	if input.ReportPath == "" {
		return nil, fmt.Errorf("no report to export")
	}

	folderName := strings.TrimSuffix(filepath.Base(input.VideoPath), filepath.Ext(input.VideoPath))
	if folderName == "" {
		folderName = "keyframes"
	}

	folderID, err := s.uploader.EnsureFolder(ctx, s.folderID, folderName)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare remote folder: %w", err)
	}

	result := &Result{FolderID: folderID}

	reportResult, err := s.upload(ctx, input.ReportPath, folderID, distribution.MimeTypeJSON)
	if err != nil {
		return nil, fmt.Errorf("report upload failed: %w", err)
	}
	result.ReportURL = reportResult.WebViewLink
	fmt.Fprintf(s.output, "      Uploaded: %s\n", reportResult.Name)

	for _, imagePath := range input.ImagePaths {
		imageResult, err := s.upload(ctx, imagePath, folderID, distribution.MimeTypeJPEG)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		result.ImageURLs = append(result.ImageURLs, imageResult.WebViewLink)
		fmt.Fprintf(s.output, "      Uploaded: %s\n", imageResult.Name)
	}

	return result, nil
}

func (s *Service) upload(ctx context.Context, path, folderID, mimeType string) (*distribution.UploadResult, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}

	return s.uploader.UploadAndShare(ctx, distribution.UploadRequest{
		LocalPath: path,
		FileName:  filepath.Base(path),
		FolderID:  folderID,
		MimeType:  mimeType,
	})
}
