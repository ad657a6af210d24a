package video

import (
	"fmt"
	"image"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/kmmndr/followcam/internal/frame"
)

type Stream struct {
	Video *gocv.VideoCapture
	path  string
	step  int
}

func NewStream(videoPath string) (*Stream, error) {
	video, err := OpenVideo(videoPath)
	if err != nil {
		return nil, err
	}

	slog.Info("video: stream opened",
		"path", videoPath,
		"fps", video.Get(gocv.VideoCaptureFPS),
		"frames", int(video.Get(gocv.VideoCaptureFrameCount)))

	return &Stream{Video: video, path: videoPath, step: 1}, nil
}

func (s *Stream) Close() {
	s.Video.Close()
}

func (s *Stream) Fps() float64 {
	return s.Video.Get(gocv.VideoCaptureFPS)
}

// TimeAtFrame is the position in seconds of a frame returned by
// ReadFrames.
func (s *Stream) TimeAtFrame(f *frame.Frame) float64 {
	fps := s.Fps()
	if fps <= 0 {
		fps = fallbackFps
	}
	return float64(f.FrameIndex()*s.step) / fps
}

// ReadFrames decodes the whole stream, keeping about targetFps frames per
// second, each resized to size. A zero size keeps the native resolution.
func (s *Stream) ReadFrames(targetFps int, size image.Point) (*frame.FrameBuffer, error) {
	s.step = SampleStep(s.Fps(), targetFps)

	frames := frame.NewFrameBuffer()

	mat := gocv.NewMat()
	defer mat.Close()

	for sourceIndex := 0; ; sourceIndex++ {
		if ok := s.Video.Read(&mat); !ok || mat.Empty() {
			break
		}
		if sourceIndex%s.step != 0 {
			continue
		}

		sampled := gocv.NewMat()
		if size == (image.Point{}) {
			mat.CopyTo(&sampled)
		} else {
			gocv.Resize(mat, &sampled, size, 0, 0, gocv.InterpolationArea)
		}

		f, err := frame.NewFrame(frames.Len(), &sampled)
		if err != nil {
			sampled.Close()
			frames.Close()
			return nil, fmt.Errorf("source frame %d: %w", sourceIndex, err)
		}
		if err := frames.Append(f); err != nil {
			f.Close()
			frames.Close()
			return nil, fmt.Errorf("source frame %d: %w", sourceIndex, err)
		}
	}

	slog.Info("video: frames extracted",
		"path", s.path,
		"frames", frames.Len(),
		"step", s.step,
		"size", frames.Size())

	return frames, nil
}
