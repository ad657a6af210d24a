package motion

// Result holds the motion boxes found in one frame. An empty Boxes slice
// means no motion was detected there.
type Result struct {
	FrameIndex int
	Boxes      []Box
}

func (r Result) HasMotion() bool {
	return len(r.Boxes) > 0
}

// Union is the smallest box covering every box of the frame. ok is false
// when the frame has no motion.
func (r Result) Union() (union Box, ok bool) {
	if len(r.Boxes) == 0 {
		return Box{}, false
	}

	x0, y0 := r.Boxes[0].X, r.Boxes[0].Y
	x1, y1 := r.Boxes[0].Right(), r.Boxes[0].Bottom()
	for _, b := range r.Boxes[1:] {
		x0 = min(x0, b.X)
		y0 = min(y0, b.Y)
		x1 = max(x1, b.Right())
		y1 = max(y1, b.Bottom())
	}

	return Box{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}, true
}

// Boxes flattens results back to the per-frame box lists.
func Boxes(results []Result) [][]Box {
	out := make([][]Box, len(results))
	for i, r := range results {
		out[i] = r.Boxes
	}
	return out
}
