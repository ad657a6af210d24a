package chart

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmmndr/followcam/internal/motion"
)

func TestSaveTrajectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trajectory.png")
	trajectory := []image.Point{{100, 100}, {125, 125}, {137, 137}, {118, 118}}
	results := []motion.Result{
		{FrameIndex: 0},
		{FrameIndex: 1, Boxes: []motion.Box{{X: 140, Y: 140, Width: 20, Height: 20}}},
		{FrameIndex: 2, Boxes: []motion.Box{{X: 140, Y: 140, Width: 20, Height: 20}}},
		{FrameIndex: 3},
	}

	require.NoError(t, SaveTrajectory(path, trajectory, results))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, 0)
	assert.Greater(t, cfg.Height, cfg.Width/2)
}

func TestSaveTrajectory_LengthMismatch(t *testing.T) {
	err := SaveTrajectory(filepath.Join(t.TempDir(), "t.png"), []image.Point{{1, 1}}, nil)
	assert.Error(t, err)
}
