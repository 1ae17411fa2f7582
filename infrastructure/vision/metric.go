package vision

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"keyframe-curator/domain/analysis"
	"keyframe-curator/domain/video"
)

// Working resolution for frame comparison. Detail below this scale
// does not matter for stability scoring and downscaling keeps the
// coarse scan cheap.
const (
	workWidth  = 320
	workHeight = 180
)

// Canny thresholds for the edge map used by both the composite score
// and the text-density ratio
const (
	cannyLow  = 50
	cannyHigh = 150
)

const histogramBins = 32

// Metric implements analysis.FrameMetric on grayscale mats
type Metric struct{}

// NewMetric creates the production frame metric
func NewMetric() *Metric {
	return &Metric{}
}

// FastDiff scores the mean absolute pixel difference at working
// resolution, in [0, 255]
func (m *Metric) FastDiff(a, b video.Frame) (float64, error) {
	ma, mb, err := workingPair(a, b)
	if err != nil {
		return 0, err
	}
	defer ma.Close()
	defer mb.Close()

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(ma, mb, &diff)

	return diff.Mean().Val1, nil
}

// CompositeDiff blends pixel, edge-map and histogram differences into
// a single [0, 100] score. More expensive than FastDiff; used only
// where precision matters.
func (m *Metric) CompositeDiff(a, b video.Frame) (float64, error) {
	ma, mb, err := workingPair(a, b)
	if err != nil {
		return 0, err
	}
	defer ma.Close()
	defer mb.Close()

	pixel := rmsDiff(ma, mb)
	edge := edgeDiff(ma, mb)
	hist := histogramDiff(ma, mb)

	score := 0.4*pixel + 0.4*edge + 0.2*hist
	return math.Min(score, 100), nil
}

// EdgeRatio returns the fraction of edge pixels in the frame, a cheap
// proxy for visible text and line-art density
func (m *Metric) EdgeRatio(f video.Frame) (float64, error) {
	mat, err := grayMat(f)
	if err != nil {
		return 0, err
	}

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(mat, &edges, cannyLow, cannyHigh)

	total := edges.Rows() * edges.Cols()
	if total == 0 {
		return 0, fmt.Errorf("empty frame")
	}
	return float64(gocv.CountNonZero(edges)) / float64(total), nil
}

// rmsDiff scores root-mean-square pixel difference, scaled so a full
// black-to-white flip lands near 100
func rmsDiff(a, b gocv.Mat) float64 {
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(a, b, &diff)

	f32 := gocv.NewMat()
	defer f32.Close()
	diff.ConvertTo(&f32, gocv.MatTypeCV32F)

	squared := gocv.NewMat()
	defer squared.Close()
	gocv.Multiply(f32, f32, &squared)

	rms := math.Sqrt(squared.Mean().Val1)
	return rms / 255 * 100
}

// edgeDiff scores how much the Canny edge maps disagree
func edgeDiff(a, b gocv.Mat) float64 {
	edgesA := gocv.NewMat()
	defer edgesA.Close()
	gocv.Canny(a, &edgesA, cannyLow, cannyHigh)

	edgesB := gocv.NewMat()
	defer edgesB.Close()
	gocv.Canny(b, &edgesB, cannyLow, cannyHigh)

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(edgesA, edgesB, &diff)

	return diff.Mean().Val1 / 255 * 100
}

// histogramDiff scores the chi-square distance between intensity
// histograms, capped so a pathological distribution cannot dominate
// the composite
func histogramDiff(a, b gocv.Mat) float64 {
	histA := calcHistogram(a)
	defer histA.Close()
	histB := calcHistogram(b)
	defer histB.Close()

	chi := float64(gocv.CompareHist(histA, histB, gocv.HistCmpChiSqr))
	return math.Min(chi*50, 100)
}

func calcHistogram(m gocv.Mat) gocv.Mat {
	hist := gocv.NewMat()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.CalcHist([]gocv.Mat{m}, []int{0}, mask, &hist, []int{histogramBins}, []float64{0, 256}, false)
	gocv.Normalize(hist, &hist, 1, 0, gocv.NormL1)
	return hist
}

// workingPair downscales both frames to the working resolution. The
// returned mats are owned by the caller.
func workingPair(a, b video.Frame) (gocv.Mat, gocv.Mat, error) {
	ma, err := grayMat(a)
	if err != nil {
		return gocv.Mat{}, gocv.Mat{}, err
	}
	mb, err := grayMat(b)
	if err != nil {
		return gocv.Mat{}, gocv.Mat{}, err
	}

	size := image.Pt(workWidth, workHeight)
	smallA := gocv.NewMat()
	gocv.Resize(ma, &smallA, size, 0, 0, gocv.InterpolationArea)
	smallB := gocv.NewMat()
	gocv.Resize(mb, &smallB, size, 0, 0, gocv.InterpolationArea)
	return smallA, smallB, nil
}

func grayMat(f video.Frame) (gocv.Mat, error) {
	vf, ok := f.(*Frame)
	if !ok {
		return gocv.Mat{}, fmt.Errorf("unexpected frame type %T", f)
	}
	if vf.mat.Empty() {
		return gocv.Mat{}, fmt.Errorf("empty frame")
	}
	return vf.mat, nil
}

// Ensure Metric implements analysis.FrameMetric
var _ analysis.FrameMetric = (*Metric)(nil)
