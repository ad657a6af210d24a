package motion

import (
	"fmt"
	"image"
)

// Box is an axis-aligned region of change: top-left corner plus extent,
// in pixels.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func BoxFromRect(r image.Rectangle) Box {
	r = r.Canon()
	return Box{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.Right(), b.Bottom())
}

func (b Box) Right() int {
	return b.X + b.Width
}

func (b Box) Bottom() int {
	return b.Y + b.Height
}

func (b Box) Center() image.Point {
	return image.Pt(b.X+b.Width/2, b.Y+b.Height/2)
}

func (b Box) Area() int {
	return b.Width * b.Height
}

func (b Box) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", b.X, b.Y, b.Width, b.Height)
}
