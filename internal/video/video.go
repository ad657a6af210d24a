package video

import (
	"fmt"

	"gocv.io/x/gocv"
)

const fallbackFps = 30

func OpenVideo(videoPath string) (*gocv.VideoCapture, error) {
	video, err := gocv.VideoCaptureFile(videoPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open video file: %v", err)
	}
	if !video.IsOpened() {
		video.Close()
		return nil, fmt.Errorf("unable to open video file: %s", videoPath)
	}
	return video, nil
}

// SampleStep is the number of source frames per kept frame so that about
// targetFps frames are kept per second of video. A source reporting no
// frame rate is assumed to run at 30 fps.
func SampleStep(sourceFps float64, targetFps int) int {
	if sourceFps <= 0 {
		sourceFps = fallbackFps
	}
	if targetFps <= 0 {
		return 1
	}
	return max(1, int(sourceFps/float64(targetFps)))
}
