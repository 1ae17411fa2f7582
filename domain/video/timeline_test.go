package video

import "testing"

func TestNewTimeline(t *testing.T) {
	t.Run("valid video timeline", func(t *testing.T) {
		tl, err := NewTimeline(120.5, 30.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !tl.HasVideo() {
			t.Error("expected HasVideo to be true")
		}
		if tl.IsDegenerate() {
			t.Error("expected timeline not to be degenerate")
		}
		if tl.TotalFrames != 3615 {
			t.Errorf("expected 3615 total frames, got %d", tl.TotalFrames)
		}
	})

	t.Run("audio-only timeline", func(t *testing.T) {
		tl, err := NewTimeline(300.0, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tl.HasVideo() {
			t.Error("expected HasVideo to be false")
		}
		if !tl.IsDegenerate() {
			t.Error("expected audio-only timeline to be degenerate")
		}
		if tl.TotalFrames != 0 {
			t.Errorf("expected 0 total frames, got %d", tl.TotalFrames)
		}
	})

	t.Run("zero duration is degenerate", func(t *testing.T) {
		tl, err := NewTimeline(0, 30.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !tl.IsDegenerate() {
			t.Error("expected zero-duration timeline to be degenerate")
		}
	})

	t.Run("negative duration is rejected", func(t *testing.T) {
		if _, err := NewTimeline(-1, 30.0); err == nil {
			t.Error("expected error for negative duration")
		}
	})

	t.Run("negative frame rate is rejected", func(t *testing.T) {
		if _, err := NewTimeline(10, -30.0); err == nil {
			t.Error("expected error for negative frame rate")
		}
	})
}

func TestTimelineClamp(t *testing.T) {
	tl, _ := NewTimeline(100, 25)

	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"inside", 50, 50},
		{"below zero", -3, 0},
		{"past end", 101.5, 100},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tl.Clamp(tc.in); got != tc.want {
				t.Errorf("Clamp(%f) = %f, want %f", tc.in, got, tc.want)
			}
		})
	}
}
