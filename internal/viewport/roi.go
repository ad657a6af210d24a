package viewport

import (
	"fmt"
	"image"

	"github.com/kmmndr/followcam/internal/motion"
)

// Region is the area a frame's motion asks the viewport to look at.
type Region struct {
	Center image.Point
	Width  int
	Height int
}

// Strategy reduces the motion boxes of one frame to a single target region.
type Strategy interface {
	Target(boxes []motion.Box, frameSize image.Point) Region
}

// RegionOfInterest targets the union of all boxes, so any box, however
// small, pulls the region over itself. Without motion the frame center is
// held with zero extent.
func RegionOfInterest(boxes []motion.Box, frameSize image.Point) Region {
	union, ok := motion.Result{Boxes: boxes}.Union()
	if !ok {
		return holdCenter(frameSize)
	}
	return Region{Center: union.Center(), Width: union.Width, Height: union.Height}
}

func holdCenter(frameSize image.Point) Region {
	return Region{Center: image.Pt(frameSize.X/2, frameSize.Y/2)}
}

type Union struct{}

func (Union) Target(boxes []motion.Box, frameSize image.Point) Region {
	return RegionOfInterest(boxes, frameSize)
}

// Largest follows the box with the biggest area, the first one on ties.
type Largest struct{}

func (Largest) Target(boxes []motion.Box, frameSize image.Point) Region {
	if len(boxes) == 0 {
		return holdCenter(frameSize)
	}

	best := boxes[0]
	for _, b := range boxes[1:] {
		if b.Area() > best.Area() {
			best = b
		}
	}
	return Region{Center: best.Center(), Width: best.Width, Height: best.Height}
}

// Centroid aims at the area-weighted mean of the box centers and keeps the
// union's extent.
type Centroid struct{}

func (Centroid) Target(boxes []motion.Box, frameSize image.Point) Region {
	region := RegionOfInterest(boxes, frameSize)
	if len(boxes) == 0 {
		return region
	}

	var sx, sy, total float64
	for _, b := range boxes {
		c, w := b.Center(), float64(b.Area())
		sx += w * float64(c.X)
		sy += w * float64(c.Y)
		total += w
	}
	if total > 0 {
		region.Center = image.Pt(int(sx/total), int(sy/total))
	}
	return region
}

func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "", "union":
		return Union{}, nil
	case "largest":
		return Largest{}, nil
	case "centroid":
		return Centroid{}, nil
	}
	return nil, fmt.Errorf("%w: unknown region strategy %q", ErrInvalidConfiguration, name)
}
