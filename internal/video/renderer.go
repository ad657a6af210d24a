package video

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/kmmndr/followcam/internal/frame"
	"github.com/kmmndr/followcam/internal/motion"
	"github.com/kmmndr/followcam/internal/viewport"
)

const (
	overlayVideo  = "motion_detection.mp4"
	viewportVideo = "viewport_tracking.mp4"
	framesDir     = "frames"
	viewportDir   = "viewport"
	codec         = "mp4v"
)

var (
	boxColor      = color.RGBA{G: 255}
	viewportColor = color.RGBA{B: 255}
	labelColor    = color.RGBA{R: 255, G: 255}
)

// Renderer writes the annotated overlay and the follow-cam crop of a run,
// as videos and as numbered JPEG images.
type Renderer struct {
	OutputDir string
	Fps       float64
	Viewport  image.Point
	Videos    bool
	Images    bool
}

func NewRenderer(outputDir string, fps float64, viewportSize image.Point) *Renderer {
	return &Renderer{
		OutputDir: outputDir,
		Fps:       fps,
		Viewport:  viewportSize,
		Videos:    true,
		Images:    true,
	}
}

func (r *Renderer) Render(frames *frame.FrameBuffer, results []motion.Result, trajectory viewport.Trajectory) (err error) {
	if len(results) != frames.Len() || len(trajectory) != frames.Len() {
		return fmt.Errorf("render: %d frames, %d motion results, %d viewport centers",
			frames.Len(), len(results), len(trajectory))
	}
	if frames.Len() == 0 {
		slog.Warn("render: no frames to render")
		return nil
	}

	for _, dir := range []string{framesDir, viewportDir} {
		if err := os.MkdirAll(filepath.Join(r.OutputDir, dir), 0o755); err != nil {
			return err
		}
	}

	frameSize := frames.Size()

	var overlayWriter, viewportWriter *gocv.VideoWriter
	if r.Videos {
		overlayWriter, err = gocv.VideoWriterFile(filepath.Join(r.OutputDir, overlayVideo), codec, r.Fps, frameSize.X, frameSize.Y, true)
		if err != nil {
			return fmt.Errorf("open %s: %w", overlayVideo, err)
		}
		defer overlayWriter.Close()

		viewportWriter, err = gocv.VideoWriterFile(filepath.Join(r.OutputDir, viewportVideo), codec, r.Fps, r.Viewport.X, r.Viewport.Y, true)
		if err != nil {
			return fmt.Errorf("open %s: %w", viewportVideo, err)
		}
		defer viewportWriter.Close()
	}

	for i, n := 0, frames.Len(); i < n; i++ {
		f := frames.At(i)
		window := viewport.Window(trajectory[i], r.Viewport, frameSize)

		if err := r.renderOverlay(f, i, results[i].Boxes, window, overlayWriter); err != nil {
			return err
		}
		if err := r.renderCrop(f, i, window, viewportWriter); err != nil {
			return err
		}
	}

	if r.Videos {
		slog.Info("render: videos written",
			"overlay", filepath.Join(r.OutputDir, overlayVideo),
			"viewport", filepath.Join(r.OutputDir, viewportVideo))
	}
	if r.Images {
		slog.Info("render: images written",
			"frames", filepath.Join(r.OutputDir, framesDir),
			"viewport", filepath.Join(r.OutputDir, viewportDir))
	}

	return nil
}

func (r *Renderer) renderOverlay(f *frame.Frame, index int, boxes []motion.Box, window image.Rectangle, writer *gocv.VideoWriter) error {
	vis := f.Mat().Clone()
	defer vis.Close()

	for _, b := range boxes {
		gocv.Rectangle(&vis, b.Rect(), boxColor, 1)
	}
	gocv.Rectangle(&vis, window, viewportColor, 2)
	gocv.PutText(&vis, fmt.Sprintf("Frame %d", index+1), image.Pt(10, 30), gocv.FontHersheySimplex, 1, labelColor, 2)

	if r.Images {
		path := filepath.Join(r.OutputDir, framesDir, fmt.Sprintf("vis_%04d.jpg", index))
		if !gocv.IMWrite(path, vis) {
			return fmt.Errorf("unable to write image %s", path)
		}
	}
	if writer != nil {
		return writer.Write(vis)
	}
	return nil
}

func (r *Renderer) renderCrop(f *frame.Frame, index int, window image.Rectangle, writer *gocv.VideoWriter) error {
	if window.Size() != r.Viewport {
		return errors.New("render: viewport does not fit in frame")
	}

	region := f.Mat().Region(window)
	crop := region.Clone()
	region.Close()
	defer crop.Close()

	if r.Images {
		path := filepath.Join(r.OutputDir, viewportDir, fmt.Sprintf("crop_%04d.jpg", index))
		if !gocv.IMWrite(path, crop) {
			return fmt.Errorf("unable to write image %s", path)
		}
	}
	if writer != nil {
		return writer.Write(crop)
	}
	return nil
}
