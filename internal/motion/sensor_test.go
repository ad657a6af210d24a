package motion

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensor_ScanKeepsFrameOrder(t *testing.T) {
	moving := func(x int) []image.Rectangle {
		return []image.Rectangle{image.Rect(x, 50, x+40, 90)}
	}
	frames := synthBuffer(t, 240, 160, moving(10), moving(10), moving(80), moving(80), moving(150))

	results, err := NewSensor(NewDetector(DefaultThreshold, DefaultMinArea), 3).Scan(context.Background(), frames)
	require.NoError(t, err)
	require.Len(t, results, frames.Len())

	for i, r := range results {
		assert.Equal(t, i, r.FrameIndex)
	}
	assert.False(t, results[0].HasMotion())
	assert.False(t, results[1].HasMotion())
	assert.True(t, results[2].HasMotion())
	assert.False(t, results[3].HasMotion())
	assert.True(t, results[4].HasMotion())
}

func TestSensor_ScanMatchesSequentialDetect(t *testing.T) {
	frames := synthBuffer(t, 200, 120,
		nil,
		[]image.Rectangle{image.Rect(10, 10, 50, 50)},
		[]image.Rectangle{image.Rect(10, 10, 50, 50), image.Rect(120, 40, 170, 100)},
	)
	md := NewDetector(DefaultThreshold, DefaultMinArea)

	results, err := NewSensor(md, 0).Scan(context.Background(), frames)
	require.NoError(t, err)

	for i, n := 0, frames.Len(); i < n; i++ {
		want, err := md.Detect(frames, i)
		require.NoError(t, err)
		assert.ElementsMatch(t, want, results[i].Boxes, "frame %d", i)
	}
}

func TestSensor_ScanCancelled(t *testing.T) {
	frames := synthBuffer(t, 64, 64, nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSensor(NewDetector(DefaultThreshold, DefaultMinArea), 1).Scan(ctx, frames)
	assert.ErrorIs(t, err, context.Canceled)
}
