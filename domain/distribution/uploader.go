package distribution

import "context"

// Uploader defines the interface for publishing a curated keyframe set
// to remote storage. This is a port implemented by infrastructure
// adapters.
type Uploader interface {
	// EnsureFolder returns the ID of a child folder with the given
	// name under parentID, creating it if necessary
	EnsureFolder(ctx context.Context, parentID, name string) (string, error)

	// UploadAndShare uploads a file into a folder and makes it
	// readable by link
	UploadAndShare(ctx context.Context, req UploadRequest) (*UploadResult, error)
}

// UploadRequest describes a single file upload
type UploadRequest struct {
	LocalPath string
	FileName  string
	FolderID  string
	MimeType  string
}

// UploadResult contains metadata about an uploaded file
type UploadResult struct {
	FileID      string
	Name        string
	WebViewLink string
	Size        int64
}

// MIME types for exported artifacts
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypeJSON = "application/json"
)
