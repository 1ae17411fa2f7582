package transcript

import "strings"

// Segment is a span of transcript text with its time range in seconds
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is an ordered collection of segments for one source
type Transcript struct {
	Segments []Segment `json:"segments"`
}

// Provider supplies transcript text around a timestamp. It is an
// optional input signal: a nil provider disables the context gate.
type Provider interface {
	// TextNear returns all text whose time range intersects
	// [ts-window, ts+window], or the empty string if none
	TextNear(ts, window float64) string
}

// TextNear implements Provider over the in-memory segments.
// Consecutive duplicate segments are collapsed.
func (t Transcript) TextNear(ts, window float64) string {
	var parts []string
	for _, seg := range t.Segments {
		if seg.Start <= ts+window && seg.End >= ts-window {
			if len(parts) > 0 && parts[len(parts)-1] == seg.Text {
				continue
			}
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Ensure Transcript implements Provider
var _ Provider = Transcript{}
