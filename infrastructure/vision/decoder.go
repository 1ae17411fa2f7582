package vision

import (
	"context"
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"keyframe-curator/domain/video"
)

// Decoder implements video.FrameDecoder over a gocv video capture.
// Seeks position by frame index, so it needs the native frame rate.
// Not safe for concurrent use; the capture carries seek state.
type Decoder struct {
	capture *gocv.VideoCapture
	fps     float64
}

// OpenDecoder opens a video file for random-access frame decoding
func OpenDecoder(path string) (*Decoder, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, &video.ProbeError{Path: path, Err: err}
	}

	fps := capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		capture.Close()
		return nil, &video.ProbeError{Path: path, Err: fmt.Errorf("no decodable video stream")}
	}

	return &Decoder{capture: capture, fps: fps}, nil
}

// DecodeAt seeks to the frame nearest the timestamp and returns it as
// grayscale. An unreadable instant comes back as *video.DecodeError so
// callers can skip the sample.
func (d *Decoder) DecodeAt(ctx context.Context, ts float64) (video.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frameIndex := math.Round(ts * d.fps)
	d.capture.Set(gocv.VideoCapturePosFrames, frameIndex)

	raw := gocv.NewMat()
	if ok := d.capture.Read(&raw); !ok || raw.Empty() {
		raw.Close()
		return nil, &video.DecodeError{Timestamp: ts, Err: fmt.Errorf("no frame at index %d", int(frameIndex))}
	}
	defer raw.Close()

	gray := gocv.NewMat()
	gocv.CvtColor(raw, &gray, gocv.ColorBGRToGray)
	return &Frame{mat: gray}, nil
}

// Close releases the capture
func (d *Decoder) Close() error {
	return d.capture.Close()
}

// Ensure Decoder implements video.FrameDecoder
var _ video.FrameDecoder = (*Decoder)(nil)
