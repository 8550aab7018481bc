// Package render rasterizes a surface map into an image.
//
// Positions are projected equirectangularly into a viewport that fits every
// ellipse on the map, keeping the aspect ratio. Ellipse radii are meters;
// tilt turns the semi-major axis clockwise from north.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"

	"github.com/go-drift/layerkit/pkg/surface"
)

const (
	metersPerDegree = 111320.0
	segments        = 72
	padding         = 0.05

	defaultColor       = "#3388ff"
	defaultWeight      = 3
	defaultFillOpacity = 0.2
)

// ErrSize is returned for a non-positive image size.
var ErrSize = errors.New("render: image size must be positive")

// Options control the output image.
type Options struct {
	Width      int
	Height     int
	Background color.Color
}

// Render draws every layer of m, depth first in attach order.
func Render(m *surface.Map, opts Options) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrSize, opts.Width, opts.Height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	if opts.Background != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	var shapes []shape
	collect(m.Layers(), &shapes)
	if len(shapes) == 0 {
		return dst, nil
	}

	view := fit(shapes, opts.Width, opts.Height)
	r := vector.NewRasterizer(opts.Width, opts.Height)
	for _, s := range shapes {
		if err := s.draw(dst, r, view); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

type point struct{ x, y float64 }

type shape struct {
	id      string
	outline []point // lng, lat
	style   surface.PathOptions
}

func collect(layers []surface.Layer, out *[]shape) {
	for _, l := range layers {
		switch l := l.(type) {
		case *surface.Ellipse:
			*out = append(*out, shape{id: l.ID(), outline: outline(l), style: l.Style()})
		case *surface.Group:
			collect(l.Layers(), out)
		}
	}
}

// outline approximates the ellipse with a closed polygon in degrees.
func outline(e *surface.Ellipse) []point {
	c, radii := e.Center(), e.Radii()
	tilt := e.Tilt() * math.Pi / 180
	sinT, cosT := math.Sin(tilt), math.Cos(tilt)
	lngScale := metersPerDegree * math.Cos(c.Lat*math.Pi/180)
	if lngScale < 1 {
		lngScale = 1
	}

	pts := make([]point, segments)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / segments
		u := radii.SemiMajor * math.Cos(theta)
		v := radii.SemiMinor * math.Sin(theta)
		east := u*sinT + v*cosT
		north := u*cosT - v*sinT
		pts[i] = point{x: c.Lng + east/lngScale, y: c.Lat + north/metersPerDegree}
	}
	return pts
}

type viewport struct {
	west, north float64
	scale       float64
	offX, offY  float64
}

func (v viewport) project(p point) (float32, float32) {
	return float32(v.offX + (p.x-v.west)*v.scale), float32(v.offY + (v.north-p.y)*v.scale)
}

func fit(shapes []shape, width, height int) viewport {
	west, east := math.Inf(1), math.Inf(-1)
	south, north := math.Inf(1), math.Inf(-1)
	for _, s := range shapes {
		for _, p := range s.outline {
			west, east = math.Min(west, p.x), math.Max(east, p.x)
			south, north = math.Min(south, p.y), math.Max(north, p.y)
		}
	}
	spanX, spanY := math.Max(east-west, 1e-9), math.Max(north-south, 1e-9)
	west -= spanX * padding
	north += spanY * padding
	spanX *= 1 + 2*padding
	spanY *= 1 + 2*padding

	scale := math.Min(float64(width)/spanX, float64(height)/spanY)
	return viewport{
		west:  west,
		north: north,
		scale: scale,
		offX:  (float64(width) - spanX*scale) / 2,
		offY:  (float64(height) - spanY*scale) / 2,
	}
}

func (s shape) draw(dst *image.RGBA, r *vector.Rasterizer, view viewport) error {
	style := s.style
	stroke, err := ParseColor(orDefault(style.Color, defaultColor))
	if err != nil {
		return fmt.Errorf("layer %s: %w", s.id, err)
	}

	if style.Fill {
		fill := stroke
		if style.FillColor != "" {
			if fill, err = ParseColor(style.FillColor); err != nil {
				return fmt.Errorf("layer %s: %w", s.id, err)
			}
		}
		opacity := style.FillOpacity
		if opacity == 0 {
			opacity = defaultFillOpacity
		}
		r.Reset(dst.Bounds().Dx(), dst.Bounds().Dy())
		for i, p := range s.outline {
			x, y := view.project(p)
			if i == 0 {
				r.MoveTo(x, y)
			} else {
				r.LineTo(x, y)
			}
		}
		r.ClosePath()
		r.Draw(dst, dst.Bounds(), image.NewUniform(withOpacity(fill, opacity)), image.Point{})
	}

	weight := style.Weight
	if weight == 0 {
		weight = defaultWeight
	}
	opacity := style.Opacity
	if opacity == 0 {
		opacity = 1
	}
	r.Reset(dst.Bounds().Dx(), dst.Bounds().Dy())
	n := len(s.outline)
	for i := range n {
		x0, y0 := view.project(s.outline[i])
		x1, y1 := view.project(s.outline[(i+1)%n])
		segment(r, x0, y0, x1, y1, float32(weight)/2)
	}
	r.Draw(dst, dst.Bounds(), image.NewUniform(withOpacity(stroke, opacity)), image.Point{})
	return nil
}

// segment adds a quad of half-width hw around the line from (x0, y0) to
// (x1, y1). Quads wind the same way, so overlaps at the joints do not
// cancel.
func segment(r *vector.Rasterizer, x0, y0, x1, y1, hw float32) {
	dx, dy := x1-x0, y1-y0
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length == 0 {
		return
	}
	nx, ny := -dy/length*hw, dx/length*hw
	// Extend each quad by hw along the line to close the joints.
	ex, ey := dx/length*hw, dy/length*hw
	r.MoveTo(x0+nx-ex, y0+ny-ey)
	r.LineTo(x1+nx+ex, y1+ny+ey)
	r.LineTo(x1-nx+ex, y1-ny+ey)
	r.LineTo(x0-nx-ex, y0-ny-ey)
	r.ClosePath()
}

func withOpacity(c color.RGBA, opacity float64) color.NRGBA {
	opacity = math.Max(0, math.Min(1, opacity))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(float64(c.A) * opacity))}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
