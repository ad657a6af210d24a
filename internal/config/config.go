package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"runtime"
	"strconv"
	"strings"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the parameters of a run. Fields may be loaded from a JSON
// file and overridden by command-line flags.
type Config struct {
	Output string `json:"output"`

	// Frame acquisition
	Fps    int `json:"fps"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// Motion detection
	Threshold int `json:"threshold"`
	MinArea   int `json:"min_area"`
	Workers   int `json:"workers"`

	// Viewport tracking
	ViewportWidth  int     `json:"viewport_width"`
	ViewportHeight int     `json:"viewport_height"`
	Smoothing      float64 `json:"smoothing"`
	Strategy       string  `json:"strategy"`

	Report bool `json:"report"`
	Chart  bool `json:"chart"`
	Debug  bool `json:"debug"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:         "output",
		Fps:            5,
		Width:          1280,
		Height:         720,
		Threshold:      25,
		MinArea:        500,
		Workers:        runtime.NumCPU(),
		ViewportWidth:  720,
		ViewportHeight: 480,
		Smoothing:      0.3,
		Strategy:       "union",
		Report:         true,
		Chart:          true,
	}
}

func (c *Config) FrameSize() image.Point {
	return image.Pt(c.Width, c.Height)
}

func (c *Config) ViewportSize() image.Point {
	return image.Pt(c.ViewportWidth, c.ViewportHeight)
}

// Validate reports every out-of-range field. Nothing is corrected silently.
// A zero Width and Height keep the native video size.
func (c *Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Output == "" {
		invalid("output directory is empty")
	}
	if c.Fps <= 0 {
		invalid("fps %d must be positive", c.Fps)
	}
	if c.Width < 0 || c.Height < 0 || (c.Width == 0) != (c.Height == 0) {
		invalid("frame size %dx%d", c.Width, c.Height)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		invalid("threshold %d outside [0, 255]", c.Threshold)
	}
	if c.MinArea < 0 {
		invalid("min_area %d is negative", c.MinArea)
	}
	if c.Workers < 1 {
		invalid("workers %d must be at least 1", c.Workers)
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		invalid("viewport size %dx%d", c.ViewportWidth, c.ViewportHeight)
	} else if c.Width > 0 && (c.ViewportWidth > c.Width || c.ViewportHeight > c.Height) {
		invalid("viewport %dx%d larger than frame %dx%d", c.ViewportWidth, c.ViewportHeight, c.Width, c.Height)
	}
	if !(c.Smoothing > 0 && c.Smoothing <= 1) {
		invalid("smoothing %v outside (0, 1]", c.Smoothing)
	}
	switch c.Strategy {
	case "union", "largest", "centroid":
	default:
		invalid("unknown strategy %q", c.Strategy)
	}

	return errors.Join(errs...)
}

// Load attempts to read configuration from the given JSON file path. If the
// file does not exist it returns DefaultConfig().
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.LoadFile(path); err != nil && !os.IsNotExist(err) {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile overlays the fields present in the JSON file at path onto c.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// ParseSize parses a "WIDTHxHEIGHT" string such as "720x480".
func ParseSize(s string) (image.Point, error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return image.Point{}, fmt.Errorf("%w: size %q is not WIDTHxHEIGHT", ErrInvalidConfig, s)
	}

	width, errW := strconv.Atoi(w)
	height, errH := strconv.Atoi(h)
	if errW != nil || errH != nil || width <= 0 || height <= 0 {
		return image.Point{}, fmt.Errorf("%w: size %q is not WIDTHxHEIGHT", ErrInvalidConfig, s)
	}

	return image.Pt(width, height), nil
}
