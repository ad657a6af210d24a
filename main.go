package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/kmmndr/followcam/internal/chart"
	"github.com/kmmndr/followcam/internal/config"
	"github.com/kmmndr/followcam/internal/motion"
	"github.com/kmmndr/followcam/internal/video"
	"github.com/kmmndr/followcam/internal/viewport"
)

func main() {
	var videoPath string
	var configPath string
	var viewportSize string
	var printMotion bool

	cfg := config.DefaultConfig()

	flag.StringVar(&videoPath, "video-file", "", "Video file")
	flag.StringVar(&configPath, "config", "", "JSON configuration file")
	flag.StringVar(&viewportSize, "viewport-size", "", "Viewport size as WIDTHxHEIGHT (default 720x480)")
	flag.BoolVar(&printMotion, "print", false, "print motion boxes and viewport center of every frame")
	flag.StringVar(&cfg.Output, "output", cfg.Output, "Output directory")
	flag.IntVar(&cfg.Fps, "fps", cfg.Fps, "Frames per second kept from the video")
	flag.IntVar(&cfg.Threshold, "threshold", cfg.Threshold, "Pixel difference threshold")
	flag.IntVar(&cfg.MinArea, "min-area", cfg.MinArea, "Minimum motion region area in pixels")
	flag.Float64Var(&cfg.Smoothing, "smoothing", cfg.Smoothing, "Viewport smoothing factor in (0, 1]")
	flag.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Region of interest strategy: union, largest or centroid")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent motion detection workers")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Debug logging")
	flag.Parse()

	if videoPath == "" {
		fmt.Println("Error: missing video file option")
		os.Exit(1)
	}

	if configPath != "" {
		if err := cfg.LoadFile(configPath); err != nil {
			fatal("unable to load configuration", err)
		}
		// parse again so command-line flags win over the file
		_ = flag.CommandLine.Parse(os.Args[1:])
	}
	if viewportSize != "" {
		size, err := config.ParseSize(viewportSize)
		if err != nil {
			fatal("invalid viewport size", err)
		}
		cfg.ViewportWidth, cfg.ViewportHeight = size.X, size.Y
	}

	setupLogging(cfg.Debug)

	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, videoPath, cfg, printMotion); err != nil {
		fatal("run failed", err)
	}

	slog.Info("followcam: done", "output", cfg.Output)
}

func run(ctx context.Context, videoPath string, cfg *config.Config, printMotion bool) error {
	strategy, err := viewport.StrategyByName(cfg.Strategy)
	if err != nil {
		return err
	}
	tracker, err := viewport.NewTracker(cfg.ViewportSize(), cfg.Smoothing, viewport.WithStrategy(strategy))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return err
	}

	stream, err := video.NewStream(videoPath)
	if err != nil {
		return err
	}
	defer stream.Close()

	frames, err := stream.ReadFrames(cfg.Fps, cfg.FrameSize())
	if err != nil {
		return err
	}
	defer frames.Close()

	sensor := motion.NewSensor(motion.NewDetector(cfg.Threshold, cfg.MinArea), cfg.Workers)
	results, err := sensor.Scan(ctx, frames)
	if err != nil {
		return err
	}

	trajectory, err := tracker.Track(frames, results)
	if err != nil {
		return err
	}

	if printMotion {
		for i, r := range results {
			fmt.Printf("Frame %d at %.2f seconds: boxes %v, viewport center (%d,%d)\n",
				i, stream.TimeAtFrame(frames.At(i)), r.Boxes, trajectory[i].X, trajectory[i].Y)
		}
	}

	if cfg.Report {
		params := motion.Parameters{
			Fps:            cfg.Fps,
			FrameWidth:     frames.Size().X,
			FrameHeight:    frames.Size().Y,
			ViewportWidth:  cfg.ViewportWidth,
			ViewportHeight: cfg.ViewportHeight,
			Threshold:      cfg.Threshold,
			MinArea:        cfg.MinArea,
			Smoothing:      cfg.Smoothing,
			Strategy:       cfg.Strategy,
		}
		report, err := motion.NewMotionReport(videoPath, params, results, trajectory)
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.Output, "report.json")
		if err := report.Save(path); err != nil {
			return err
		}
		slog.Info("followcam: report written", "path", path, "uuid", report.UUID)
	}

	if cfg.Chart && frames.Len() > 0 {
		path := filepath.Join(cfg.Output, "trajectory.png")
		if err := chart.SaveTrajectory(path, trajectory, results); err != nil {
			return err
		}
		slog.Info("followcam: chart written", "path", path)
	}

	return video.NewRenderer(cfg.Output, float64(cfg.Fps), cfg.ViewportSize()).Render(frames, results, trajectory)
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func fatal(msg string, err error) {
	slog.Error("followcam: "+msg, "error", err)
	os.Exit(1)
}
