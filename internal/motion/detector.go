package motion

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/kmmndr/followcam/internal/frame"
)

const (
	DefaultThreshold = 25
	DefaultMinArea   = 500

	blurKernel       = 5
	dilateIterations = 2
)

// Sequence is the random-access frame collection the detector reads from.
type Sequence interface {
	Len() int
	At(i int) *frame.Frame
}

// Detector finds regions of change between a frame and the one before it.
// It holds no state between calls and is safe for concurrent use.
type Detector struct {
	threshold int
	minArea   int
}

func NewDetector(threshold int, minArea int) *Detector {
	return &Detector{
		threshold: threshold,
		minArea:   minArea,
	}
}

func (md *Detector) Threshold() int {
	return md.threshold
}

func (md *Detector) MinArea() int {
	return md.minArea
}

// Detect returns one box per connected region of change between frames
// index-1 and index. An index with no previous frame yields no boxes and
// no error.
func (md *Detector) Detect(frames Sequence, index int) ([]Box, error) {
	if index < 1 || index >= frames.Len() {
		return nil, nil
	}

	currentFrame, previousFrame := frames.At(index), frames.At(index-1)
	if currentFrame == nil || previousFrame == nil {
		return nil, frame.ErrEmptyFrame
	}
	if currentFrame.Size() != previousFrame.Size() {
		return nil, fmt.Errorf("%w: frame %d is %v, frame %d is %v",
			frame.ErrSizeMismatch, index, currentFrame.Size(), index-1, previousFrame.Size())
	}

	current, err := smoothedGray(currentFrame)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", index, err)
	}
	defer current.Close()

	previous, err := smoothedGray(previousFrame)
	if err != nil {
		return nil, fmt.Errorf("frame %d: %w", index-1, err)
	}
	defer previous.Close()

	mask := gocv.NewMat()
	defer mask.Close()

	gocv.AbsDiff(*current.Mat(), *previous.Mat(), &mask)
	gocv.Threshold(mask, &mask, float32(md.threshold), 255, gocv.ThresholdBinary)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()
	for j := 0; j < dilateIterations; j++ {
		gocv.Dilate(mask, &mask, kernel)
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var boxes []Box
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		if gocv.ContourArea(contour) < float64(md.minArea) {
			continue
		}
		boxes = append(boxes, BoxFromRect(gocv.BoundingRect(contour)))
	}

	return boxes, nil
}

// smoothedGray converts f to luminance and low-pass filters it so sensor
// and encoding noise does not register as change.
func smoothedGray(f *frame.Frame) (*frame.Frame, error) {
	gray, err := f.Gray()
	if err != nil {
		return nil, err
	}

	gocv.GaussianBlur(*gray.Mat(), gray.Mat(), image.Pt(blurKernel, blurKernel), 0, 0, gocv.BorderDefault)

	return gray, nil
}
