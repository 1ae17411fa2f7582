package vision

import (
	"gocv.io/x/gocv"

	"keyframe-curator/domain/video"
)

// Frame wraps a decoded grayscale gocv.Mat. The caller owns the frame
// and must Close it to release the native buffer.
type Frame struct {
	mat gocv.Mat
}

// Mat exposes the underlying matrix to metric implementations
func (f *Frame) Mat() gocv.Mat {
	return f.mat
}

// Close releases the native buffer
func (f *Frame) Close() {
	f.mat.Close()
}

// Ensure Frame implements video.Frame
var _ video.Frame = (*Frame)(nil)
