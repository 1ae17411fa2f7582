package srt

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSRT(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "talk.srt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write srt: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("parses cues with multi-line text", func(t *testing.T) {
		path := writeSRT(t, `1
00:00:01,000 --> 00:00:04,500
hello and welcome

2
00:00:05,000 --> 00:00:09,250
today we cover
the sampling pipeline
`)

		tr, err := NewLoader().Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tr.Segments) != 2 {
			t.Fatalf("expected 2 segments, got %d", len(tr.Segments))
		}
		first := tr.Segments[0]
		if first.Start != 1.0 || first.End != 4.5 || first.Text != "hello and welcome" {
			t.Errorf("unexpected first segment: %+v", first)
		}
		second := tr.Segments[1]
		if second.Text != "today we cover the sampling pipeline" {
			t.Errorf("multi-line text should join with spaces, got %q", second.Text)
		}
	})

	t.Run("accepts WebVTT-style dot separators", func(t *testing.T) {
		path := writeSRT(t, `1
00:00:01.000 --> 00:00:02.000
hi
`)

		tr, err := NewLoader().Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tr.Segments) != 1 || tr.Segments[0].End != 2.0 {
			t.Errorf("unexpected segments: %+v", tr.Segments)
		}
	})

	t.Run("skips cues with no text", func(t *testing.T) {
		path := writeSRT(t, `1
00:00:01,000 --> 00:00:02,000

2
00:00:03,000 --> 00:00:04,000
kept
`)

		tr, err := NewLoader().Load(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tr.Segments) != 1 || tr.Segments[0].Text != "kept" {
			t.Errorf("expected only the cue with text, got %+v", tr.Segments)
		}
	})

	t.Run("file without cues is an error", func(t *testing.T) {
		path := writeSRT(t, "just some prose\nno timings here\n")

		if _, err := NewLoader().Load(path); err == nil {
			t.Fatal("expected error for cue-less file")
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := NewLoader().Load("/nonexistent/talk.srt"); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
