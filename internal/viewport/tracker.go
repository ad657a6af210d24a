package viewport

import (
	"errors"
	"fmt"
	"image"

	"github.com/kmmndr/followcam/internal/motion"
)

const DefaultSmoothing = 0.3

var (
	ErrInvalidConfiguration = errors.New("invalid viewport configuration")
	ErrLengthMismatch       = errors.New("motion results do not match frames")
)

// Frames is what the tracker needs to know about the frame sequence.
type Frames interface {
	Len() int
	Size() image.Point
}

// Trajectory holds the viewport center of every frame, indexed like the
// frames.
type Trajectory []image.Point

type Option func(*Tracker)

func WithStrategy(s Strategy) Option {
	return func(t *Tracker) {
		if s != nil {
			t.strategy = s
		}
	}
}

// Tracker turns per-frame motion into a smoothed viewport path. Each center
// is an exponential moving average of the previous center and the frame's
// target, clamped so the viewport stays inside the frame.
type Tracker struct {
	size      image.Point
	smoothing float64
	strategy  Strategy
}

// NewTracker fails with ErrInvalidConfiguration when smoothing is outside
// (0, 1] or the viewport has no area.
func NewTracker(size image.Point, smoothing float64, opts ...Option) (*Tracker, error) {
	if !(smoothing > 0 && smoothing <= 1) {
		return nil, fmt.Errorf("%w: smoothing factor %v outside (0, 1]", ErrInvalidConfiguration, smoothing)
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("%w: viewport size %dx%d", ErrInvalidConfiguration, size.X, size.Y)
	}

	t := &Tracker{
		size:      size,
		smoothing: smoothing,
		strategy:  Union{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Tracker) Size() image.Point {
	return t.size
}

func (t *Tracker) Smoothing() float64 {
	return t.smoothing
}

// Bounds returns the inclusive range of valid centers for frameSize, Min
// being the lowest and Max the highest allowed center.
func (t *Tracker) Bounds(frameSize image.Point) (image.Rectangle, error) {
	if t.size.X > frameSize.X || t.size.Y > frameSize.Y {
		return image.Rectangle{}, fmt.Errorf("%w: viewport %dx%d larger than frame %dx%d",
			ErrInvalidConfiguration, t.size.X, t.size.Y, frameSize.X, frameSize.Y)
	}

	return image.Rectangle{
		Min: image.Pt(t.size.X/2, t.size.Y/2),
		Max: image.Pt(frameSize.X-t.size.X/2, frameSize.Y-t.size.Y/2),
	}, nil
}

// Track scans the frames in order. An empty sequence gives an empty
// trajectory.
func (t *Tracker) Track(frames Frames, results []motion.Result) (Trajectory, error) {
	if frames.Len() == 0 {
		return Trajectory{}, nil
	}
	if len(results) != frames.Len() {
		return nil, fmt.Errorf("%w: %d results for %d frames", ErrLengthMismatch, len(results), frames.Len())
	}

	frameSize := frames.Size()
	bounds, err := t.Bounds(frameSize)
	if err != nil {
		return nil, err
	}

	trajectory := make(Trajectory, 0, len(results))
	center := image.Pt(frameSize.X/2, frameSize.Y/2)
	for _, r := range results {
		target := t.strategy.Target(r.Boxes, frameSize).Center
		center = clamp(t.smooth(center, target), bounds)
		trajectory = append(trajectory, center)
	}

	return trajectory, nil
}

func (t *Tracker) smooth(prev, target image.Point) image.Point {
	return image.Pt(
		int(t.smoothing*float64(target.X)+(1-t.smoothing)*float64(prev.X)),
		int(t.smoothing*float64(target.Y)+(1-t.smoothing)*float64(prev.Y)),
	)
}

func clamp(p image.Point, bounds image.Rectangle) image.Point {
	return image.Pt(
		max(bounds.Min.X, min(p.X, bounds.Max.X)),
		max(bounds.Min.Y, min(p.Y, bounds.Max.Y)),
	)
}
