package frame

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

var ErrEmptyFrame = errors.New("frame is empty")

type Frame struct {
	frameIndex int
	mat        *gocv.Mat
}

// NewFrame takes ownership of mat; Close releases it.
func NewFrame(frameIndex int, mat *gocv.Mat) (*Frame, error) {
	if mat == nil || mat.Empty() {
		return nil, ErrEmptyFrame
	}

	return &Frame{frameIndex: frameIndex, mat: mat}, nil
}

func (f *Frame) Mat() *gocv.Mat {
	return f.mat
}

func (f *Frame) FrameIndex() int {
	return f.frameIndex
}

// Gray returns a single-channel luminance copy. Frames that are already
// single-channel are cloned as is.
func (f *Frame) Gray() (*Frame, error) {
	if f.mat.Channels() == 1 {
		return f.Clone()
	}

	gray := gocv.NewMat()
	gocv.CvtColor(*f.mat, &gray, gocv.ColorBGRToGray)

	return NewFrame(f.frameIndex, &gray)
}

func (f *Frame) Clone() (*Frame, error) {
	clone := f.mat.Clone()

	return NewFrame(f.frameIndex, &clone)
}

func (f *Frame) Height() int {
	return f.mat.Rows()
}

func (f *Frame) Width() int {
	return f.mat.Cols()
}

func (f *Frame) Size() image.Point {
	return image.Pt(f.Width(), f.Height())
}

func (f *Frame) Pixels() int {
	return f.Height() * f.Width()
}

func (f *Frame) Close() {
	f.mat.Close()
}
