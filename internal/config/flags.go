package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagScene   = flag.String("scene", "", "Scene file to load")
	flagFrames  = flag.Int("frames", 0, "Number of frames to update")
	flagOverlay = flag.String("overlay", "", "Write a debug overlay PNG to this path")
	flagSaveTo  = flag.String("save", "", "Re-save the scene to this path after the run")
	flagWinding = flag.String("winding", "", "Mesh triangle winding (ccw or cw)")

	flagWriteConfig = flag.String("write-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns the --write-config target, or "" when not set.
func WriteConfigPath() string {
	return *flagWriteConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Scene.File = *flagScene
	}
	if *flagFrames > 0 {
		cfg.Scene.Frames = *flagFrames
	}
	if *flagOverlay != "" {
		cfg.Overlay.Output = *flagOverlay
	}
	if *flagSaveTo != "" {
		cfg.Scene.SaveTo = *flagSaveTo
	}
	if *flagWinding != "" {
		cfg.Shadows.Winding = *flagWinding
	}
}
