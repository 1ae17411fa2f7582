package video

import "context"

// Frame is an opaque decoded image handle. It is owned transiently by
// whichever function requested it and must be closed after use; frames
// are never retained across component boundaries.
type Frame interface {
	// Close releases the underlying image buffer
	Close()
}

// FrameDecoder defines the interface for random-access frame decoding.
// Seek-then-read against a single decoder handle is inherently
// sequential: implementations are not safe for concurrent DecodeAt calls.
type FrameDecoder interface {
	// DecodeAt returns the decoded frame nearest to the given timestamp
	// in seconds, or a *DecodeError if the instant is unreadable
	DecodeAt(ctx context.Context, timestamp float64) (Frame, error)

	// Close releases the decoder handle
	Close() error
}

// Prober defines the interface for source metadata inspection
type Prober interface {
	// Probe returns the source's timeline, or a *ProbeError if the
	// source cannot be opened or identified
	Probe(ctx context.Context, path string) (Timeline, error)
}
