package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSave(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "config.yaml")

		cfg := &Config{
			Paths: PathsConfig{
				OutputDirectory: "output",
				FramesDirectory: "output/frames",
			},
			Analyzer: AnalyzerConfig{
				CoarseThreshold:   15.0,
				RefineThreshold:   8.0,
				MinStableDuration: 1.0,
			},
			Filter: FilterConfig{
				MinInterval:  10.0,
				MinEdgeRatio: 0.05,
				MaxEdgeRatio: 0.50,
			},
		}

		if err := Save(cfg, path); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}

		if loaded.Analyzer.CoarseThreshold != 15.0 {
			t.Errorf("expected coarse threshold 15.0, got %f", loaded.Analyzer.CoarseThreshold)
		}
		if loaded.Filter.MaxEdgeRatio != 0.50 {
			t.Errorf("expected max edge ratio 0.50, got %f", loaded.Filter.MaxEdgeRatio)
		}
		if loaded.Paths.FramesDirectory != "output/frames" {
			t.Errorf("unexpected frames directory %q", loaded.Paths.FramesDirectory)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load("/nonexistent/config.yaml"); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("analyzer: [not: a map"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})

	t.Run("partial config leaves zero values", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "partial.yaml")
		content := "filter:\n  min_interval: 20\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if cfg.Filter.MinInterval != 20 {
			t.Errorf("expected min interval 20, got %f", cfg.Filter.MinInterval)
		}
		// unspecified tunables stay zero; components apply their own defaults
		if cfg.Analyzer.CoarseThreshold != 0 {
			t.Errorf("expected zero coarse threshold, got %f", cfg.Analyzer.CoarseThreshold)
		}
	})
}
