package motion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Sensor runs a Detector over every frame of a sequence. Frames are
// independent of each other, so they are scanned concurrently.
type Sensor struct {
	detector *Detector
	workers  int
}

func NewSensor(detector *Detector, workers int) *Sensor {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	return &Sensor{
		detector: detector,
		workers:  workers,
	}
}

// Scan returns one Result per frame, in frame order. Cancelling ctx stops
// scheduling new frames and returns the context error.
func (s *Sensor) Scan(ctx context.Context, frames Sequence) ([]Result, error) {
	results := make([]Result, frames.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for frameIndex := range results {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			boxes, err := s.detector.Detect(frames, frameIndex)
			if err != nil {
				return fmt.Errorf("detect motion: %w", err)
			}
			results[frameIndex] = Result{FrameIndex: frameIndex, Boxes: boxes}

			slog.Debug("motion: frame scanned", "frame", frameIndex, "boxes", len(boxes))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	withMotion := 0
	for _, r := range results {
		if r.HasMotion() {
			withMotion++
		}
	}
	slog.Info("motion: scan complete",
		"frames", len(results),
		"frames_with_motion", withMotion,
		"threshold", s.detector.Threshold(),
		"min_area", s.detector.MinArea())

	return results, nil
}
