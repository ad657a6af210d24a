package chart

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/kmmndr/followcam/internal/motion"
)

// SaveTrajectory plots the viewport center of every frame, with the number
// of motion boxes underneath, and saves the chart to path as a PNG.
func SaveTrajectory(path string, trajectory []image.Point, results []motion.Result) error {
	if len(trajectory) != len(results) {
		return fmt.Errorf("chart: %d viewport centers for %d motion results", len(trajectory), len(results))
	}

	p := plot.New()
	p.Title.Text = "Viewport center"
	p.X.Label.Text = "Frame"
	p.Y.Label.Text = "Pixels"

	cxPts := make(plotter.XYs, len(trajectory))
	cyPts := make(plotter.XYs, len(trajectory))
	for i, c := range trajectory {
		cxPts[i] = plotter.XY{X: float64(i), Y: float64(c.X)}
		cyPts[i] = plotter.XY{X: float64(i), Y: float64(c.Y)}
	}

	cxLine, err := plotter.NewLine(cxPts)
	if err != nil {
		return err
	}
	cxLine.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	cxLine.Width = vg.Points(1)
	p.Add(cxLine)
	p.Legend.Add("cx", cxLine)

	cyLine, err := plotter.NewLine(cyPts)
	if err != nil {
		return err
	}
	cyLine.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	cyLine.Width = vg.Points(1)
	p.Add(cyLine)
	p.Legend.Add("cy", cyLine)

	pBoxes := plot.New()
	pBoxes.Title.Text = "Motion boxes"
	pBoxes.X.Label.Text = "Frame"
	pBoxes.Y.Label.Text = "Count"

	counts := make(plotter.XYs, len(results))
	for i, r := range results {
		counts[i] = plotter.XY{X: float64(i), Y: float64(len(r.Boxes))}
	}
	countLine, err := plotter.NewLine(counts)
	if err != nil {
		return err
	}
	countLine.Color = color.RGBA{G: 128, A: 255}
	countLine.Width = vg.Points(1)
	pBoxes.Add(countLine)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	return savePlots(path, 14*vg.Inch, 8*vg.Inch, p, pBoxes)
}

// savePlots stacks plots vertically on one PNG canvas.
func savePlots(path string, width, height vg.Length, plots ...*plot.Plot) error {
	img := vgimg.New(width, height)
	dc := draw.New(img)

	rows := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		rows[i] = []*plot.Plot{p}
	}
	canvases := plot.Align(rows, draw.Tiles{Rows: len(plots), Cols: 1}, dc)
	for i, p := range plots {
		p.Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		return fmt.Errorf("chart: write %s: %w", path, err)
	}
	return f.Close()
}
