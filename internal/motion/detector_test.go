package motion

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/kmmndr/followcam/internal/frame"
)

// synthFrame creates a uniform dark BGR frame with bright filled blocks.
func synthFrame(t *testing.T, index, w, h int, blocks ...image.Rectangle) *frame.Frame {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(30, 30, 30, 0), h, w, gocv.MatTypeCV8UC3)
	for _, b := range blocks {
		gocv.Rectangle(&mat, b, color.RGBA{R: 230, G: 230, B: 230}, -1)
	}
	f, err := frame.NewFrame(index, &mat)
	require.NoError(t, err)
	return f
}

func synthBuffer(t *testing.T, w, h int, blocksPerFrame ...[]image.Rectangle) *frame.FrameBuffer {
	t.Helper()
	fb := frame.NewFrameBuffer()
	for i, blocks := range blocksPerFrame {
		require.NoError(t, fb.Append(synthFrame(t, i, w, h, blocks...)))
	}
	t.Cleanup(fb.Close)
	return fb
}

func TestDetect_IdenticalFramesHaveNoMotion(t *testing.T) {
	block := []image.Rectangle{image.Rect(40, 40, 90, 90)}
	frames := synthBuffer(t, 160, 120, block, block, block)

	md := NewDetector(DefaultThreshold, DefaultMinArea)
	for i := 1; i < frames.Len(); i++ {
		boxes, err := md.Detect(frames, i)
		require.NoError(t, err)
		assert.Empty(t, boxes, "frame %d", i)
	}
}

func TestDetect_OutOfRangeIndexIsNotAnError(t *testing.T) {
	frames := synthBuffer(t, 160, 120, nil, []image.Rectangle{image.Rect(40, 40, 90, 90)})

	md := NewDetector(DefaultThreshold, DefaultMinArea)
	for _, index := range []int{-5, -1, 0, 2, 100} {
		boxes, err := md.Detect(frames, index)
		assert.NoError(t, err, "index %d", index)
		assert.Empty(t, boxes, "index %d", index)
	}
}

func TestDetect_EmptySequence(t *testing.T) {
	boxes, err := NewDetector(DefaultThreshold, DefaultMinArea).Detect(frame.NewFrameBuffer(), 0)
	assert.NoError(t, err)
	assert.Empty(t, boxes)
}

func TestDetect_AppearingBlock(t *testing.T) {
	block := image.Rect(80, 60, 120, 100)
	frames := synthBuffer(t, 200, 160, nil, []image.Rectangle{block})

	boxes, err := NewDetector(DefaultThreshold, DefaultMinArea).Detect(frames, 1)
	require.NoError(t, err)
	require.Len(t, boxes, 1)

	got := boxes[0].Rect()
	assert.True(t, block.In(got), "box %v should cover block %v", got, block)
	assert.True(t, got.In(block.Inset(-12)), "box %v should stay close to block %v", got, block)
}

func TestDetect_MinAreaFiltersSmallRegions(t *testing.T) {
	speck := image.Rect(100, 80, 104, 84)
	frames := synthBuffer(t, 200, 160, nil, []image.Rectangle{speck})

	boxes, err := NewDetector(DefaultThreshold, DefaultMinArea).Detect(frames, 1)
	require.NoError(t, err)
	assert.Empty(t, boxes)

	boxes, err = NewDetector(DefaultThreshold, 10).Detect(frames, 1)
	require.NoError(t, err)
	assert.Len(t, boxes, 1)
}

func TestDetect_SeparateRegions(t *testing.T) {
	left := image.Rect(20, 20, 60, 60)
	right := image.Rect(200, 100, 250, 150)
	frames := synthBuffer(t, 300, 200, nil, []image.Rectangle{left, right})

	boxes, err := NewDetector(DefaultThreshold, DefaultMinArea).Detect(frames, 1)
	require.NoError(t, err)
	require.Len(t, boxes, 2)

	var coveredLeft, coveredRight bool
	for _, b := range boxes {
		coveredLeft = coveredLeft || left.In(b.Rect())
		coveredRight = coveredRight || right.In(b.Rect())
	}
	assert.True(t, coveredLeft)
	assert.True(t, coveredRight)
}

func TestDetect_HighThresholdIgnoresFaintChange(t *testing.T) {
	fb := frame.NewFrameBuffer()
	defer fb.Close()

	for i, level := range []float64{100, 110} {
		mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(level, level, level, 0), 120, 160, gocv.MatTypeCV8UC3)
		f, err := frame.NewFrame(i, &mat)
		require.NoError(t, err)
		require.NoError(t, fb.Append(f))
	}

	boxes, err := NewDetector(DefaultThreshold, DefaultMinArea).Detect(fb, 1)
	require.NoError(t, err)
	assert.Empty(t, boxes)

	boxes, err = NewDetector(5, DefaultMinArea).Detect(fb, 1)
	require.NoError(t, err)
	assert.Len(t, boxes, 1)
}
