package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"

	"github.com/kmmndr/followcam/internal/motion"
	"github.com/kmmndr/followcam/internal/video"
)

func main() {
	var videoPath string
	var threshold int
	var minArea int
	var fps int
	var workers int

	flag.IntVar(&threshold, "threshold", motion.DefaultThreshold, "Pixel difference threshold")
	flag.IntVar(&minArea, "min-area", motion.DefaultMinArea, "Minimum motion region area in pixels")
	flag.IntVar(&fps, "fps", 5, "Frames per second kept from the video")
	flag.IntVar(&workers, "workers", 0, "Concurrent detection workers (0 for one per CPU)")
	flag.StringVar(&videoPath, "video", "", "Video filename")
	flag.Parse()

	if videoPath == "" {
		fmt.Println("Error: missing video filename option")
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	stream, err := video.NewStream(videoPath)
	if err != nil {
		log.Fatalf("Error: unable to open video file: %v\n", err)
	}
	defer stream.Close()

	frames, err := stream.ReadFrames(fps, image.Point{})
	if err != nil {
		log.Fatalf("Error: unable to read frames: %v\n", err)
	}
	defer frames.Close()

	sensor := motion.NewSensor(motion.NewDetector(threshold, minArea), workers)
	results, err := sensor.Scan(context.Background(), frames)
	if err != nil {
		log.Fatalf("Error: motion detection failed: %v\n", err)
	}

	for _, r := range results {
		if !r.HasMotion() {
			continue
		}
		union, _ := r.Union()
		fmt.Printf("Motion at %.2f seconds: %d regions %v, union %v\n",
			stream.TimeAtFrame(frames.At(r.FrameIndex)), len(r.Boxes), r.Boxes, union)
	}
}
