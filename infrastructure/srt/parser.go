package srt

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"keyframe-curator/application/curate"
	"keyframe-curator/domain/transcript"
)

// cuePattern matches SubRip cue timing lines like
// "00:01:02,345 --> 00:01:05,678". WebVTT-style dots are accepted too.
var cuePattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})[,.](\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})[,.](\d{3})`)

// Loader parses SubRip subtitle files into transcripts
type Loader struct{}

// NewLoader creates a new SubRip loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a subtitle file
func (l *Loader) Load(path string) (*transcript.Transcript, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transcript: %w", err)
	}
	defer f.Close()

	var segments []transcript.Segment
	var current *transcript.Segment

	flush := func() {
		if current != nil && current.Text != "" {
			segments = append(segments, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if m := cuePattern.FindStringSubmatch(line); m != nil {
			flush()
			current = &transcript.Segment{
				Start: cueSeconds(m[1], m[2], m[3], m[4]),
				End:   cueSeconds(m[5], m[6], m[7], m[8]),
			}
			continue
		}

		if line == "" {
			flush()
			continue
		}

		// Cue index lines and anything outside a cue are skipped
		if current == nil {
			continue
		}
		if current.Text == "" {
			current.Text = line
		} else {
			current.Text += " " + line
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no subtitle cues found in %s", path)
	}

	return &transcript.Transcript{Segments: segments}, nil
}

// cueSeconds converts already-validated digit groups to seconds
func cueSeconds(hh, mm, ss, millis string) float64 {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	s, _ := strconv.Atoi(ss)
	ms, _ := strconv.Atoi(millis)
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000
}

// Ensure Loader implements the curation transcript port
var _ curate.TranscriptLoader = (*Loader)(nil)
