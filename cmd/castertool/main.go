// Package main is the entry point for castertool, which loads a shadow
// caster scene, runs its frame updates and reports grouping and culling.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/shadow2d/internal/config"
	"github.com/Faultbox/shadow2d/internal/engine/overlay"
	"github.com/Faultbox/shadow2d/internal/engine/scene"
	"github.com/Faultbox/shadow2d/internal/engine/shadow"
	"github.com/Faultbox/shadow2d/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", path)
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== castertool ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("run failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	opts := scene.Options{Mesh: shadow.MeshOptions{
		Winding:    shadow.ParseWinding(cfg.Shadows.Winding),
		MiterLimit: cfg.Shadows.MiterLimit,
	}}

	s, err := scene.LoadFile(cfg.Scene.File, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	for i := 0; i < cfg.Scene.Frames; i++ {
		s.Update()
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("registry invariant violated after %d frames: %w", s.Frame(), err)
	}

	report(s)

	if cfg.Overlay.Output != "" {
		o := overlay.DefaultOptions()
		o.Width = cfg.Overlay.Width
		o.Height = cfg.Overlay.Height
		o.PixelsPerUnit = cfg.Overlay.PixelsPerUnit
		o.Labels = cfg.Overlay.Labels
		if err := overlay.WritePNG(cfg.Overlay.Output, overlay.Render(s, o)); err != nil {
			return fmt.Errorf("writing overlay: %w", err)
		}
		logger.Info("overlay written", zap.String("path", cfg.Overlay.Output))
	}

	if cfg.Scene.SaveTo != "" {
		if err := s.SaveFile(cfg.Scene.SaveTo); err != nil {
			return fmt.Errorf("saving scene: %w", err)
		}
		logger.Info("scene saved", zap.String("path", cfg.Scene.SaveTo))
	}
	return nil
}

// report logs every group and, per light and sorting layer, the casters that
// survive culling.
func report(s *scene.Scene) {
	for _, g := range s.Groups() {
		names := make([]string, len(g.Members))
		for i, c := range g.Members {
			names[i] = c.Name()
		}
		logger.Info("group",
			zap.String("root", g.Name),
			zap.Strings("members", names))
	}

	for _, light := range s.Lights.Lights {
		for _, layer := range s.Layers.All() {
			visible := s.VisibleCasters(light, layer.ID)
			names := make([]string, len(visible))
			for i, c := range visible {
				names[i] = c.Name()
			}
			logger.Info("lit casters",
				zap.String("light", light.Name),
				zap.String("layer", layer.Name),
				zap.Strings("casters", names))
		}
	}
}
