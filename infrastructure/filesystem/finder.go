package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// videoExtensions lists container formats accepted for curation input
var videoExtensions = map[string]bool{
	".mp4":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

// Finder locates curation inputs on disk
type Finder struct{}

// NewFinder creates a new filesystem finder
func NewFinder() *Finder {
	return &Finder{}
}

// Exists returns true if the file exists
func (f *Finder) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FindNewestVideo returns the most recently modified video file in the
// directory
func (f *Finder) FindNewestVideo(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read source directory: %w", err)
	}

	var newest string
	var newestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !videoExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = filepath.Join(dir, entry.Name())
			newestTime = info.ModTime()
		}
	}

	if newest == "" {
		return "", fmt.Errorf("no video files found in %s", dir)
	}
	return newest, nil
}
