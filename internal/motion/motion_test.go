package motion

import (
	"image"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox_Geometry(t *testing.T) {
	b := Box{X: 10, Y: 20, Width: 31, Height: 8}

	assert.Equal(t, 41, b.Right())
	assert.Equal(t, 28, b.Bottom())
	assert.Equal(t, image.Pt(25, 24), b.Center())
	assert.Equal(t, 248, b.Area())
	assert.Equal(t, b, BoxFromRect(b.Rect()))
	assert.Equal(t, "(10,20,31,8)", b.String())
}

func TestResult_Union(t *testing.T) {
	_, ok := Result{}.Union()
	assert.False(t, ok)

	union, ok := Result{Boxes: []Box{{0, 0, 10, 10}, {50, 50, 10, 10}}}.Union()
	require.True(t, ok)
	assert.Equal(t, Box{0, 0, 60, 60}, union)

	union, ok = Result{Boxes: []Box{{30, 5, 10, 50}, {5, 20, 10, 10}}}.Union()
	require.True(t, ok)
	assert.Equal(t, Box{5, 5, 35, 50}, union)
}

func TestBoxes(t *testing.T) {
	results := []Result{{FrameIndex: 0}, {FrameIndex: 1, Boxes: []Box{{1, 2, 3, 4}}}}
	want := [][]Box{nil, {{1, 2, 3, 4}}}

	if diff := cmp.Diff(want, Boxes(results)); diff != "" {
		t.Errorf("Boxes() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{FrameIndex: 0},
		{FrameIndex: 1, Boxes: []Box{{0, 0, 10, 10}, {20, 20, 10, 10}}},
		{FrameIndex: 2, Boxes: []Box{{0, 0, 10, 10}}},
		{FrameIndex: 3},
	}
	trajectory := []image.Point{{100, 100}, {103, 104}, {106, 108}, {106, 108}}

	s := Summarize(results, trajectory)

	assert.Equal(t, 4, s.Frames)
	assert.Equal(t, 2, s.FramesWithMotion)
	assert.InDelta(t, 0.5, s.MotionRatio, 1e-9)
	assert.InDelta(t, 0.75, s.MeanBoxes, 1e-9)
	assert.InDelta(t, 10.0/3.0, s.MeanStep, 1e-9)
	assert.Greater(t, s.StdDevStep, 0.0)
}

func TestSummarize_ShortRuns(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil, nil))

	s := Summarize([]Result{{}}, []image.Point{{5, 5}})
	assert.Equal(t, 1, s.Frames)
	assert.Zero(t, s.MeanStep)
	assert.Zero(t, s.StdDevStep)
}

func TestNewMotionReport(t *testing.T) {
	results := []Result{{FrameIndex: 0}, {FrameIndex: 1, Boxes: []Box{{90, 90, 20, 20}}}}
	trajectory := []image.Point{{100, 100}, {100, 100}}

	report, err := NewMotionReport("clip.mp4", Parameters{Fps: 5}, results, trajectory)
	require.NoError(t, err)

	assert.Len(t, report.UUID, 36)
	require.Len(t, report.Frames, 2)
	assert.NotNil(t, report.Frames[0].Boxes)
	assert.InDelta(t, 0.2, report.Frames[1].Time, 1e-9)
	assert.Equal(t, [2]int{100, 100}, report.Frames[1].Center)

	require.NoError(t, report.Save(filepath.Join(t.TempDir(), "report.json")))

	_, err = NewMotionReport("clip.mp4", Parameters{}, results, trajectory[:1])
	assert.Error(t, err)
}
