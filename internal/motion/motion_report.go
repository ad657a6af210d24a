package motion

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"os"
	"time"

	uuid "github.com/gofrs/uuid/v5"
	"gonum.org/v1/gonum/stat"
)

type Parameters struct {
	Fps            int     `json:"fps"`
	FrameWidth     int     `json:"frame_width"`
	FrameHeight    int     `json:"frame_height"`
	ViewportWidth  int     `json:"viewport_width"`
	ViewportHeight int     `json:"viewport_height"`
	Threshold      int     `json:"threshold"`
	MinArea        int     `json:"min_area"`
	Smoothing      float64 `json:"smoothing"`
	Strategy       string  `json:"strategy"`
}

type FrameReport struct {
	Index  int     `json:"index"`
	Time   float64 `json:"time"`
	Boxes  []Box   `json:"boxes"`
	Center [2]int  `json:"center"`
}

type Summary struct {
	Frames           int     `json:"frames"`
	FramesWithMotion int     `json:"frames_with_motion"`
	MotionRatio      float64 `json:"motion_ratio"`
	MeanBoxes        float64 `json:"mean_boxes"`
	MeanStep         float64 `json:"mean_viewport_step"`
	StdDevStep       float64 `json:"stddev_viewport_step"`
}

// MotionReport describes one run: its parameters, the motion found in each
// frame and where the viewport was centered.
type MotionReport struct {
	UUID       string        `json:"uuid"`
	Date       string        `json:"date"`
	Video      string        `json:"video"`
	Parameters Parameters    `json:"parameters"`
	Summary    Summary       `json:"summary"`
	Frames     []FrameReport `json:"frames"`
}

// NewMotionReport builds the report of a run. results and trajectory are
// indexed by frame and must have the same length.
func NewMotionReport(video string, params Parameters, results []Result, trajectory []image.Point) (*MotionReport, error) {
	if len(results) != len(trajectory) {
		return nil, fmt.Errorf("report: %d motion results for %d viewport centers", len(results), len(trajectory))
	}

	ref, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID: %w", err)
	}

	frames := make([]FrameReport, len(results))
	for i, r := range results {
		boxes := r.Boxes
		if boxes == nil {
			boxes = []Box{}
		}
		frames[i] = FrameReport{
			Index:  i,
			Boxes:  boxes,
			Center: [2]int{trajectory[i].X, trajectory[i].Y},
		}
		if params.Fps > 0 {
			frames[i].Time = float64(i) / float64(params.Fps)
		}
	}

	return &MotionReport{
		UUID:       ref.String(),
		Date:       time.Now().Format(time.RFC3339),
		Video:      video,
		Parameters: params,
		Summary:    Summarize(results, trajectory),
		Frames:     frames,
	}, nil
}

// Summarize computes aggregate motion and viewport-jitter figures.
// Undefined statistics are reported as zero.
func Summarize(results []Result, trajectory []image.Point) Summary {
	s := Summary{Frames: len(results)}
	if len(results) == 0 {
		return s
	}

	counts := make([]float64, len(results))
	for i, r := range results {
		counts[i] = float64(len(r.Boxes))
		if r.HasMotion() {
			s.FramesWithMotion++
		}
	}
	s.MotionRatio = float64(s.FramesWithMotion) / float64(len(results))
	s.MeanBoxes = stat.Mean(counts, nil)

	if len(trajectory) > 1 {
		steps := make([]float64, len(trajectory)-1)
		for i := 1; i < len(trajectory); i++ {
			d := trajectory[i].Sub(trajectory[i-1])
			steps[i-1] = math.Hypot(float64(d.X), float64(d.Y))
		}
		s.MeanStep = stat.Mean(steps, nil)
		if len(steps) > 1 {
			s.StdDevStep = stat.StdDev(steps, nil)
		}
	}

	return s
}

func (r *MotionReport) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
