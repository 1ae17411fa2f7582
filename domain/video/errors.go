package video

import "fmt"

// ProbeError indicates the source could not be opened or identified.
// It is fatal: there is nothing to sample.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe failed for %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// DecodeError indicates a single timestamp was unreadable. It is
// recoverable: call sites treat it as "no signal at this instant"
// and skip the sample.
type DecodeError struct {
	Timestamp float64
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed at %.3fs: %v", e.Timestamp, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
