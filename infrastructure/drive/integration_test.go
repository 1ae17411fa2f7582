//go:build manual

package drive

import (
	"context"
	"fmt"
	"os"
	"testing"
)

// TestRealDriveConnectivity exercises real Google Drive connectivity.
// Run with: go test -tags=manual -v ./infrastructure/drive/... -run TestRealDriveConnectivity
func TestRealDriveConnectivity(t *testing.T) {
	credentialsPath := "../../credentials.json"
	tokenPath := "../../token.json"
	parentFolderID := os.Getenv("DRIVE_EXPORT_FOLDER_ID")

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		t.Skip("credentials.json not found - skipping real Drive test")
	}
	if parentFolderID == "" {
		t.Skip("DRIVE_EXPORT_FOLDER_ID not set - skipping real Drive test")
	}

	ctx := context.Background()

	client, err := NewClient(ctx, credentialsPath, tokenPath)
	if err != nil {
		t.Fatalf("Failed to create Drive client: %v", err)
	}

	folderID, err := client.EnsureFolder(ctx, parentFolderID, "connectivity-check")
	if err != nil {
		t.Fatalf("Failed to ensure folder: %v", err)
	}

	fmt.Printf("\n=== Google Drive Connectivity Test ===\n")
	fmt.Printf("Successfully connected to Google Drive!\n")
	fmt.Printf("Scratch folder: %s\n\n", folderID)
}
