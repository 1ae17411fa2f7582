package filesystem

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFindNewestVideo(t *testing.T) {
	t.Run("picks the most recently modified video", func(t *testing.T) {
		dir := t.TempDir()
		old := filepath.Join(dir, "old.mp4")
		newer := filepath.Join(dir, "newer.mkv")
		ignored := filepath.Join(dir, "notes.txt")
		for _, p := range []string{old, newer, ignored} {
			if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
				t.Fatalf("write %s: %v", p, err)
			}
		}
		past := time.Now().Add(-time.Hour)
		if err := os.Chtimes(old, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}

		got, err := NewFinder().FindNewestVideo(dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != newer {
			t.Errorf("expected %s, got %s", newer, got)
		}
	})

	t.Run("empty directory is an error", func(t *testing.T) {
		if _, err := NewFinder().FindNewestVideo(t.TempDir()); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("missing directory is an error", func(t *testing.T) {
		if _, err := NewFinder().FindNewestVideo("/nonexistent"); err == nil {
			t.Fatal("expected error")
		}
	})
}
