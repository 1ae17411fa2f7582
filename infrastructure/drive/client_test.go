package drive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"keyframe-curator/domain/distribution"

	"google.golang.org/api/drive/v3"
)

// --- Mock implementation for testing ---

type mockDriveService struct {
	listResults map[string][]*drive.File // keyed by substring of the query
	created     []*drive.File
	uploaded    []*drive.File
	shared      []string
	deleted     []string
	listErr     error
	createErr   error
	uploadErr   error
	shareErr    error
	deleteErr   error
}

func newMockDriveService() *mockDriveService {
	return &mockDriveService{listResults: make(map[string][]*drive.File)}
}

func (m *mockDriveService) ListFiles(ctx context.Context, query, fields string) ([]*drive.File, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	for key, files := range m.listResults {
		if strings.Contains(query, key) {
			return files, nil
		}
	}
	return nil, nil
}

func (m *mockDriveService) CreateFolder(ctx context.Context, parentID, name string) (*drive.File, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	f := &drive.File{Id: "created-" + name, Name: name}
	m.created = append(m.created, f)
	return f, nil
}

func (m *mockDriveService) UploadFile(ctx context.Context, meta *drive.File, content io.Reader) (*drive.File, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f := &drive.File{
		Id:          "uploaded-" + meta.Name,
		Name:        meta.Name,
		Size:        int64(len(data)),
		WebViewLink: "https://drive.google.com/file/d/uploaded-" + meta.Name + "/view",
	}
	m.uploaded = append(m.uploaded, f)
	return f, nil
}

func (m *mockDriveService) ShareWithLink(ctx context.Context, fileID string) error {
	if m.shareErr != nil {
		return m.shareErr
	}
	m.shared = append(m.shared, fileID)
	return nil
}

func (m *mockDriveService) DeleteFile(ctx context.Context, fileID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, fileID)
	return nil
}

func newTestClient(t *testing.T, svc DriveService) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), "", "", WithDriveService(svc))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func writeLocalFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// --- Tests ---

func TestEnsureFolder(t *testing.T) {
	t.Run("returns an existing folder without creating", func(t *testing.T) {
		svc := newMockDriveService()
		svc.listResults["name = 'talk'"] = []*drive.File{{Id: "existing-id", Name: "talk"}}
		client := newTestClient(t, svc)

		id, err := client.EnsureFolder(context.Background(), "parent", "talk")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "existing-id" {
			t.Errorf("expected existing folder ID, got %q", id)
		}
		if len(svc.created) != 0 {
			t.Errorf("no folder should be created, got %v", svc.created)
		}
	})

	t.Run("creates a missing folder", func(t *testing.T) {
		svc := newMockDriveService()
		client := newTestClient(t, svc)

		id, err := client.EnsureFolder(context.Background(), "parent", "talk")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if id != "created-talk" || len(svc.created) != 1 {
			t.Errorf("expected folder creation, got id=%q created=%v", id, svc.created)
		}
	})

	t.Run("lookup error propagates", func(t *testing.T) {
		svc := newMockDriveService()
		svc.listErr = errors.New("api down")
		client := newTestClient(t, svc)

		if _, err := client.EnsureFolder(context.Background(), "parent", "talk"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestUploadAndShare(t *testing.T) {
	req := func(path string) distribution.UploadRequest {
		return distribution.UploadRequest{
			LocalPath: path,
			FileName:  filepath.Base(path),
			FolderID:  "folder-id",
			MimeType:  distribution.MimeTypeJPEG,
		}
	}

	t.Run("uploads and shares a new file", func(t *testing.T) {
		svc := newMockDriveService()
		client := newTestClient(t, svc)
		path := writeLocalFile(t, "frame.jpg", "jpegdata")

		result, err := client.UploadAndShare(context.Background(), req(path))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Name != "frame.jpg" || result.Size != int64(len("jpegdata")) {
			t.Errorf("unexpected result: %+v", result)
		}
		if result.WebViewLink == "" {
			t.Error("expected a shareable link")
		}
		if len(svc.shared) != 1 || svc.shared[0] != result.FileID {
			t.Errorf("uploaded file should be shared, got %v", svc.shared)
		}
	})

	t.Run("replaces an existing file with the same name", func(t *testing.T) {
		svc := newMockDriveService()
		svc.listResults["name = 'frame.jpg'"] = []*drive.File{{Id: "stale-id", Name: "frame.jpg"}}
		client := newTestClient(t, svc)
		path := writeLocalFile(t, "frame.jpg", "fresh")

		if _, err := client.UploadAndShare(context.Background(), req(path)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(svc.deleted) != 1 || svc.deleted[0] != "stale-id" {
			t.Errorf("stale file should be deleted first, got %v", svc.deleted)
		}
	})

	t.Run("missing local file is an error", func(t *testing.T) {
		client := newTestClient(t, newMockDriveService())

		if _, err := client.UploadAndShare(context.Background(), req("/nonexistent/frame.jpg")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("share failure propagates", func(t *testing.T) {
		svc := newMockDriveService()
		svc.shareErr = errors.New("permission denied")
		client := newTestClient(t, svc)
		path := writeLocalFile(t, "frame.jpg", "x")

		if _, err := client.UploadAndShare(context.Background(), req(path)); err == nil {
			t.Fatal("expected error")
		}
	})
}
