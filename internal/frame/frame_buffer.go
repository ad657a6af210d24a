package frame

import (
	"errors"
	"fmt"
	"image"
)

var ErrSizeMismatch = errors.New("frame size mismatch")

// FrameBuffer is the ordered, random-access sequence of sampled frames a
// run works on. All frames share one size.
type FrameBuffer struct {
	frames []*Frame
	size   image.Point
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Append adds f at the end of the buffer, which takes ownership of it.
func (fb *FrameBuffer) Append(f *Frame) error {
	if f == nil {
		return ErrEmptyFrame
	}
	if len(fb.frames) == 0 {
		fb.size = f.Size()
	} else if f.Size() != fb.size {
		return fmt.Errorf("%w: got %v, buffer holds %v", ErrSizeMismatch, f.Size(), fb.size)
	}

	fb.frames = append(fb.frames, f)
	return nil
}

func (fb *FrameBuffer) Len() int {
	return len(fb.frames)
}

func (fb *FrameBuffer) At(i int) *Frame {
	if i < 0 || i >= len(fb.frames) {
		return nil
	}
	return fb.frames[i]
}

// Size is the shared frame size, or the zero point for an empty buffer.
func (fb *FrameBuffer) Size() image.Point {
	return fb.size
}

func (fb *FrameBuffer) Close() {
	for _, f := range fb.frames {
		f.Close()
	}
	fb.frames = nil
}
