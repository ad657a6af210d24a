package viewport

import "image"

// Window returns the viewport rectangle centered on center. It is shifted
// back inside the frame when an odd size would overhang an edge by a pixel.
func Window(center, size, frameSize image.Point) image.Rectangle {
	x0 := max(0, min(center.X-size.X/2, frameSize.X-size.X))
	y0 := max(0, min(center.Y-size.Y/2, frameSize.Y-size.Y))

	return image.Rect(x0, y0, x0+size.X, y0+size.Y).Intersect(image.Rect(0, 0, frameSize.X, frameSize.Y))
}
