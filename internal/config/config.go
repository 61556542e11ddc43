// Package config handles castertool configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/multierr"
)

// Config holds all castertool settings.
type Config struct {
	Shadows ShadowsConfig `yaml:"shadows"`
	Scene   SceneConfig   `yaml:"scene"`
	Overlay OverlayConfig `yaml:"overlay"`
	Logging LoggingConfig `yaml:"logging"`
}

// ShadowsConfig holds shadow mesh generation settings.
type ShadowsConfig struct {
	// MiterLimit caps corner travel during contraction, as a multiple of the
	// contraction distance.
	MiterLimit float32 `yaml:"miter_limit"`
	// Winding is the triangle order of the mesh backend: "ccw" or "cw".
	Winding string `yaml:"winding"`
}

// SceneConfig holds the scene file and how long to run it.
type SceneConfig struct {
	File   string `yaml:"file"`
	Frames int    `yaml:"frames"`
	// SaveTo re-saves the scene after the run when set.
	SaveTo string `yaml:"save_to"`
}

// OverlayConfig holds debug overlay settings.
type OverlayConfig struct {
	Output        string  `yaml:"output"` // PNG path, empty disables the overlay
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	PixelsPerUnit float32 `yaml:"pixels_per_unit"`
	Labels        bool    `yaml:"labels"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Shadows: ShadowsConfig{
			MiterLimit: 2,
			Winding:    "ccw",
		},
		Scene: SceneConfig{
			File:   "scene.yaml",
			Frames: 1,
		},
		Overlay: OverlayConfig{
			Width:         1024,
			Height:        768,
			PixelsPerUnit: 32,
			Labels:        true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var err error
	if c.Shadows.MiterLimit < 1 {
		err = multierr.Append(err, fmt.Errorf("shadows.miter_limit must be at least 1, got %g", c.Shadows.MiterLimit))
	}
	switch c.Shadows.Winding {
	case "ccw", "counterclockwise", "cw", "clockwise":
	default:
		err = multierr.Append(err, fmt.Errorf("shadows.winding must be ccw or cw, got %q", c.Shadows.Winding))
	}
	if c.Scene.File == "" {
		err = multierr.Append(err, fmt.Errorf("scene.file is required"))
	}
	if c.Scene.Frames < 1 {
		err = multierr.Append(err, fmt.Errorf("scene.frames must be positive, got %d", c.Scene.Frames))
	}
	if c.Overlay.Output != "" {
		if c.Overlay.Width <= 0 || c.Overlay.Height <= 0 {
			err = multierr.Append(err, fmt.Errorf("overlay size must be positive, got %dx%d", c.Overlay.Width, c.Overlay.Height))
		}
		if !(c.Overlay.PixelsPerUnit > 0) {
			err = multierr.Append(err, fmt.Errorf("overlay.pixels_per_unit must be positive, got %g", c.Overlay.PixelsPerUnit))
		}
	}
	return err
}
