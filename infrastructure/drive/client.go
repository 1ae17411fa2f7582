package drive

import (
	"context"
	"fmt"
	"io"
	"os"

	"keyframe-curator/domain/distribution"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

const folderMimeType = "application/vnd.google-apps.folder"

// DriveService defines the interface for Google Drive API operations
// This allows mocking the Google Drive API in tests
type DriveService interface {
	ListFiles(ctx context.Context, query string, fields string) ([]*drive.File, error)
	CreateFolder(ctx context.Context, parentID, name string) (*drive.File, error)
	UploadFile(ctx context.Context, meta *drive.File, content io.Reader) (*drive.File, error)
	ShareWithLink(ctx context.Context, fileID string) error
	DeleteFile(ctx context.Context, fileID string) error
}

// GoogleDriveService is the production implementation using the Google Drive API
type GoogleDriveService struct {
	service *drive.Service
}

// ListFiles lists files matching the query
func (s *GoogleDriveService) ListFiles(ctx context.Context, query string, fields string) ([]*drive.File, error) {
	r, err := s.service.Files.List().
		Q(query).
		Fields(googleapi.Field("files(" + fields + ")")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return r.Files, nil
}

// CreateFolder creates a child folder
func (s *GoogleDriveService) CreateFolder(ctx context.Context, parentID, name string) (*drive.File, error) {
	return s.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{parentID},
	}).Fields("id, name").Context(ctx).Do()
}

// UploadFile uploads file content with the given metadata
func (s *GoogleDriveService) UploadFile(ctx context.Context, meta *drive.File, content io.Reader) (*drive.File, error) {
	return s.service.Files.Create(meta).
		Media(content).
		Fields("id, name, size, webViewLink").
		Context(ctx).
		Do()
}

// ShareWithLink grants anyone-with-the-link read access
func (s *GoogleDriveService) ShareWithLink(ctx context.Context, fileID string) error {
	_, err := s.service.Permissions.Create(fileID, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	return err
}

// DeleteFile permanently deletes a file
func (s *GoogleDriveService) DeleteFile(ctx context.Context, fileID string) error {
	return s.service.Files.Delete(fileID).Context(ctx).Do()
}

// Client implements distribution.Uploader using the Google Drive API
type Client struct {
	driveService DriveService
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithDriveService sets a custom drive service (for testing)
func WithDriveService(svc DriveService) ClientOption {
	return func(c *Client) {
		c.driveService = svc
	}
}

// NewClient creates a new Google Drive client using OAuth 2.0 user
// authentication. The token file is created on first use.
func NewClient(ctx context.Context, credentialsPath, tokenPath string, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	// If no custom drive service was provided, create a real one
	if c.driveService == nil {
		svc, err := newOAuthDriveService(ctx, OAuthConfig{
			CredentialsFile: credentialsPath,
			TokenFile:       tokenPath,
		})
		if err != nil {
			return nil, err
		}
		c.driveService = svc
	}

	return c, nil
}

// EnsureFolder implements distribution.Uploader
func (c *Client) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
		name, parentID, folderMimeType)
	existing, err := c.driveService.ListFiles(ctx, query, "id, name")
	if err != nil {
		return "", fmt.Errorf("failed to look up folder %q: %w", name, err)
	}
	if len(existing) > 0 {
		return existing[0].Id, nil
	}

	created, err := c.driveService.CreateFolder(ctx, parentID, name)
	if err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", name, err)
	}
	return created.Id, nil
}

// UploadAndShare implements distribution.Uploader. An existing file
// with the same name in the folder is replaced.
func (c *Client) UploadAndShare(ctx context.Context, req distribution.UploadRequest) (*distribution.UploadResult, error) {
	content, err := os.Open(req.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", req.LocalPath, err)
	}
	defer content.Close()

	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false", req.FileName, req.FolderID)
	existing, err := c.driveService.ListFiles(ctx, query, "id, name")
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing file: %w", err)
	}
	for _, f := range existing {
		if err := c.driveService.DeleteFile(ctx, f.Id); err != nil {
			return nil, fmt.Errorf("failed to replace existing file %s: %w", f.Name, err)
		}
	}

	uploaded, err := c.driveService.UploadFile(ctx, &drive.File{
		Name:     req.FileName,
		MimeType: req.MimeType,
		Parents:  []string{req.FolderID},
	}, content)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", req.FileName, err)
	}

	if err := c.driveService.ShareWithLink(ctx, uploaded.Id); err != nil {
		return nil, fmt.Errorf("failed to share %s: %w", req.FileName, err)
	}

	link := uploaded.WebViewLink
	if link == "" {
		link = fmt.Sprintf("https://drive.google.com/file/d/%s/view", uploaded.Id)
	}

	return &distribution.UploadResult{
		FileID:      uploaded.Id,
		Name:        uploaded.Name,
		WebViewLink: link,
		Size:        uploaded.Size,
	}, nil
}

// Ensure Client implements distribution.Uploader
var _ distribution.Uploader = (*Client)(nil)
