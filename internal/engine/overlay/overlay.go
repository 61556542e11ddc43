// Package overlay rasterizes a debug view of a scene's shadow casters and
// lights into an image.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	gomath "math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/Faultbox/shadow2d/internal/engine/scene"
	"github.com/Faultbox/shadow2d/internal/engine/shadow"
	"github.com/Faultbox/shadow2d/pkg/math"
)

// circleSegments is the polygon resolution of light circles.
const circleSegments = 48

// Colors used by the overlay.
var (
	Background = color.RGBA{R: 24, G: 24, B: 32, A: 255}
	Outline    = color.RGBA{R: 255, G: 160, B: 40, A: 255}
	Unlit      = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	LightFill  = color.NRGBA{R: 255, G: 240, B: 160, A: 56}
	LightCore  = color.RGBA{R: 255, G: 250, B: 210, A: 255}
	Label      = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)

// Options controls the overlay projection.
type Options struct {
	Width  int
	Height int
	// PixelsPerUnit is the world-to-pixel scale.
	PixelsPerUnit float32
	// Origin is the world point drawn at the image center.
	Origin    math.Vec2
	LineWidth float32
	Labels    bool
}

// DefaultOptions returns a 1024x768 view at 32 pixels per unit.
func DefaultOptions() Options {
	return Options{
		Width:         1024,
		Height:        768,
		PixelsPerUnit: 32,
		LineWidth:     2,
		Labels:        true,
	}
}

type painter struct {
	opts Options
	dst  *image.RGBA
	z    *vector.Rasterizer
}

// Render draws every enabled caster that casts shadows as a closed outline,
// and every light as a translucent disc of its range. Casters lit by no
// light are drawn gray.
func Render(s *scene.Scene, opts Options) *image.RGBA {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = DefaultOptions().Width, DefaultOptions().Height
	}
	if !(opts.PixelsPerUnit > 0) {
		opts.PixelsPerUnit = DefaultOptions().PixelsPerUnit
	}
	if !(opts.LineWidth > 0) {
		opts.LineWidth = 1
	}

	p := &painter{
		opts: opts,
		dst:  image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
		z:    vector.NewRasterizer(opts.Width, opts.Height),
	}
	draw.Draw(p.dst, p.dst.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)

	lights := s.Lights.Lights
	for _, l := range lights {
		p.disc(l.Position.XY(), l.Range*opts.PixelsPerUnit, LightFill)
		p.disc(l.Position.XY(), 2, LightCore)
	}

	for _, c := range s.Casters() {
		if !c.Enabled() || !c.CastsShadows() {
			continue
		}
		col := Unlit
		for _, l := range lights {
			if c.IsLit(l) {
				col = Outline
				break
			}
		}

		m := c.LocalToWorld()
		for _, seg := range shadow.Outline(c.Shape()) {
			p.segment(m.TransformVec2(seg[0]), m.TransformVec2(seg[1]), col)
		}
		if opts.Labels {
			p.label(c.CachedPosition().XY(), c.Name())
		}
	}

	if opts.Labels {
		for _, l := range lights {
			p.label(l.Position.XY(), l.Name)
		}
	}
	return p.dst
}

// project maps a world point to pixel coordinates, y up.
func (p *painter) project(w math.Vec2) (float32, float32) {
	o := p.opts
	x := float32(o.Width)/2 + (w.X-o.Origin.X)*o.PixelsPerUnit
	y := float32(o.Height)/2 - (w.Y-o.Origin.Y)*o.PixelsPerUnit
	return x, y
}

func (p *painter) fill(c color.Color) {
	p.z.Draw(p.dst, p.dst.Bounds(), image.NewUniform(c), image.Point{})
	p.z.Reset(p.opts.Width, p.opts.Height)
}

// segment strokes a world-space line as a quad LineWidth pixels wide.
func (p *painter) segment(a, b math.Vec2, c color.Color) {
	ax, ay := p.project(a)
	bx, by := p.project(b)
	d := math.Vec2{X: bx - ax, Y: by - ay}
	if d.LengthSq() == 0 {
		return
	}
	n := d.Normalize().Perp().Scale(p.opts.LineWidth / 2)

	p.z.MoveTo(ax+n.X, ay+n.Y)
	p.z.LineTo(bx+n.X, by+n.Y)
	p.z.LineTo(bx-n.X, by-n.Y)
	p.z.LineTo(ax-n.X, ay-n.Y)
	p.z.ClosePath()
	p.fill(c)
}

// disc fills a circle at a world point with a radius in pixels.
func (p *painter) disc(center math.Vec2, radius float32, c color.Color) {
	if !(radius > 0) {
		return
	}
	cx, cy := p.project(center)
	for i := 0; i < circleSegments; i++ {
		a := 2 * gomath.Pi * float64(i) / circleSegments
		x := cx + radius*float32(gomath.Cos(a))
		y := cy + radius*float32(gomath.Sin(a))
		if i == 0 {
			p.z.MoveTo(x, y)
		} else {
			p.z.LineTo(x, y)
		}
	}
	p.z.ClosePath()
	p.fill(c)
}

func (p *painter) label(at math.Vec2, text string) {
	if text == "" {
		return
	}
	x, y := p.project(at)
	d := font.Drawer{
		Dst:  p.dst,
		Src:  image.NewUniform(Label),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(x)+4, int(y)-4),
	}
	d.DrawString(text)
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// WritePNG writes img to path, creating parent directories.
func WritePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating overlay %s: %w", path, err)
	}
	if err := Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encoding overlay %s: %w", path, err)
	}
	return f.Close()
}
