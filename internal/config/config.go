package config

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSuffix          = ".JPG"
	DefaultAnnotatedPrefix = "annotated_"
	DefaultOutputGIF       = "output.gif"
	DefaultReferenceDate   = "2024-05-03"
	DefaultFadeFrames      = 10
	DefaultFadeDelayMs     = 100
	DefaultHoldDelayMs     = 1500
	DefaultJPEGQuality     = 95
	DefaultFPS             = 10

	// Fade modes.
	FadeSelf        = "self"
	FadeBlack       = "black"
	FadeTransparent = "transparent"

	ReferenceLayout = "2006-01-02"
)

type Config struct {
	InputDir         string        `yaml:"input_dir"`
	Suffix           string        `yaml:"suffix"`
	AnnotatedPrefix  string        `yaml:"annotated_prefix"`
	OutputGIF        string        `yaml:"output_gif"`
	OutputVideo      string        `yaml:"output_video,omitempty"`
	ReferenceDate    string        `yaml:"reference_date"`
	FadeFrames       int           `yaml:"fade_frames"`
	FadeDelayMs      int           `yaml:"fade_delay_ms"`
	HoldDelayMs      int           `yaml:"hold_delay_ms"`
	FadeMode         string        `yaml:"fade_mode"`
	KeepListingOrder bool          `yaml:"keep_listing_order"`
	JPEGQuality      int           `yaml:"jpeg_quality"`
	Workers          int           `yaml:"workers"`
	FPS              int           `yaml:"fps"`
	Overlay          OverlayConfig `yaml:"overlay"`
}

// OverlayConfig positions the caption box. Colors are "#rrggbb" strings.
type OverlayConfig struct {
	AnchorX    int    `yaml:"anchor_x"`
	AnchorY    int    `yaml:"anchor_y"`
	Margin     int    `yaml:"margin"`
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
}

// FrameParams describes the timing of one artifact's slot in the animation.
type FrameParams struct {
	FadeFrames  int
	FadeDelayMs int
	HoldDelayMs int
}

// Default returns the configuration the tool runs with when no file and no flags are given.
func Default() *Config {
	return &Config{
		Suffix:          DefaultSuffix,
		AnnotatedPrefix: DefaultAnnotatedPrefix,
		OutputGIF:       DefaultOutputGIF,
		ReferenceDate:   DefaultReferenceDate,
		FadeFrames:      DefaultFadeFrames,
		FadeDelayMs:     DefaultFadeDelayMs,
		HoldDelayMs:     DefaultHoldDelayMs,
		FadeMode:        FadeBlack,
		JPEGQuality:     DefaultJPEGQuality,
		Workers:         runtime.NumCPU(),
		FPS:             DefaultFPS,
		Overlay: OverlayConfig{
			AnchorX:    20,
			AnchorY:    40,
			Margin:     10,
			Background: "#ffffff",
			Foreground: "#000000",
		},
	}
}

// Load reads a YAML file on top of the defaults. Keys missing from the file keep their default value.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func Write(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}

func (c *Config) Validate() error {
	if c.Suffix == "" {
		return fmt.Errorf("suffix must not be empty")
	}
	if c.AnnotatedPrefix == "" {
		return fmt.Errorf("annotated_prefix must not be empty")
	}
	if c.OutputGIF == "" {
		return fmt.Errorf("output_gif must not be empty")
	}
	if _, err := c.Reference(); err != nil {
		return err
	}
	if c.FadeFrames < 0 {
		return fmt.Errorf("fade_frames must be >= 0, got %d", c.FadeFrames)
	}
	if c.FadeDelayMs <= 0 || c.HoldDelayMs <= 0 {
		return fmt.Errorf("frame delays must be positive")
	}
	switch c.FadeMode {
	case FadeSelf, FadeBlack, FadeTransparent:
	default:
		return fmt.Errorf("unknown fade_mode %q: use self, black or transparent", c.FadeMode)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}
	if c.FPS < 1 {
		return fmt.Errorf("fps must be >= 1, got %d", c.FPS)
	}
	if _, err := ParseHexColor(c.Overlay.Background); err != nil {
		return fmt.Errorf("overlay.background: %w", err)
	}
	if _, err := ParseHexColor(c.Overlay.Foreground); err != nil {
		return fmt.Errorf("overlay.foreground: %w", err)
	}
	return nil
}

// Reference returns the reference date at midnight UTC.
func (c *Config) Reference() (time.Time, error) {
	t, err := time.Parse(ReferenceLayout, c.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference_date %q: %w", c.ReferenceDate, err)
	}
	return t, nil
}

func (c *Config) Anchor() image.Point {
	return image.Pt(c.Overlay.AnchorX, c.Overlay.AnchorY)
}

func (c *Config) FrameParams() FrameParams {
	return FrameParams{
		FadeFrames:  c.FadeFrames,
		FadeDelayMs: c.FadeDelayMs,
		HoldDelayMs: c.HoldDelayMs,
	}
}

// GIFPath resolves the animation path against the input directory.
func (c *Config) GIFPath() string {
	return c.resolve(c.OutputGIF)
}

func (c *Config) VideoPath() string {
	if c.OutputVideo == "" {
		return ""
	}
	return c.resolve(c.OutputVideo)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.InputDir, p)
}

// ParseHexColor parses "#rrggbb" or "rrggbb" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
