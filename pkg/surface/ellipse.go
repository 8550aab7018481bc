package surface

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrInvalidGeometry is wrapped by every geometry validation failure.
var ErrInvalidGeometry = errors.New("surface: invalid geometry")

// ErrInvalidStyle is wrapped by every style validation failure.
var ErrInvalidStyle = errors.New("surface: invalid style")

// LatLng is a geographic position in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

func (p LatLng) validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return fmt.Errorf("%w: center %v", ErrInvalidGeometry, p)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %g out of range", ErrInvalidGeometry, p.Lat)
	}
	return nil
}

// Radii are the semi-axes of an ellipse in meters.
type Radii struct {
	SemiMajor float64
	SemiMinor float64
}

func (r Radii) validate() error {
	for _, v := range []float64{r.SemiMajor, r.SemiMinor} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("%w: radii %v", ErrInvalidGeometry, r)
		}
	}
	return nil
}

// PathOptions style a vector layer. All fields are exported so options can
// be compared structurally.
type PathOptions struct {
	Color       string    `yaml:"color,omitempty"`
	Weight      float64   `yaml:"weight,omitempty"`
	Opacity     float64   `yaml:"opacity,omitempty"`
	Fill        bool      `yaml:"fill,omitempty"`
	FillColor   string    `yaml:"fillColor,omitempty"`
	FillOpacity float64   `yaml:"fillOpacity,omitempty"`
	DashArray   []float64 `yaml:"dashArray,omitempty"`
}

func (o PathOptions) validate() error {
	switch {
	case o.Weight < 0:
		return fmt.Errorf("%w: weight %g", ErrInvalidStyle, o.Weight)
	case o.Opacity < 0 || o.Opacity > 1:
		return fmt.Errorf("%w: opacity %g", ErrInvalidStyle, o.Opacity)
	case o.FillOpacity < 0 || o.FillOpacity > 1:
		return fmt.Errorf("%w: fill opacity %g", ErrInvalidStyle, o.FillOpacity)
	}
	return nil
}

// Ellipse is a tilted ellipse drawn around a geographic center. Each
// attribute has its own mutator, and each mutator fires its own event.
type Ellipse struct {
	layerBase
	center LatLng
	radii  Radii
	tilt   float64
	style  PathOptions
}

// NewEllipse validates its parameters and returns a detached ellipse.
func NewEllipse(center LatLng, radii Radii, tilt float64, style PathOptions) (*Ellipse, error) {
	if err := center.validate(); err != nil {
		return nil, err
	}
	if err := radii.validate(); err != nil {
		return nil, err
	}
	if err := validateTilt(tilt); err != nil {
		return nil, err
	}
	if err := style.validate(); err != nil {
		return nil, err
	}
	return &Ellipse{
		layerBase: layerBase{id: newID("ellipse")},
		center:    center,
		radii:     radii,
		tilt:      tilt,
		style:     cloneOptions(style),
	}, nil
}

func validateTilt(tilt float64) error {
	if math.IsNaN(tilt) || math.IsInf(tilt, 0) {
		return fmt.Errorf("%w: tilt %g", ErrInvalidGeometry, tilt)
	}
	return nil
}

func cloneOptions(o PathOptions) PathOptions {
	o.DashArray = slices.Clone(o.DashArray)
	return o
}

func (e *Ellipse) Center() LatLng { return e.center }

func (e *Ellipse) Radii() Radii { return e.radii }

// Tilt returns the rotation in degrees clockwise from north.
func (e *Ellipse) Tilt() float64 { return e.tilt }

func (e *Ellipse) Style() PathOptions { return cloneOptions(e.style) }

// SetCenter moves the ellipse.
func (e *Ellipse) SetCenter(center LatLng) error {
	if err := center.validate(); err != nil {
		return err
	}
	e.center = center
	e.Fire(EventCenter, center)
	return nil
}

// SetRadii resizes the ellipse.
func (e *Ellipse) SetRadii(radii Radii) error {
	if err := radii.validate(); err != nil {
		return err
	}
	e.radii = radii
	e.Fire(EventRadii, radii)
	return nil
}

// SetTilt rotates the ellipse.
func (e *Ellipse) SetTilt(tilt float64) error {
	if err := validateTilt(tilt); err != nil {
		return err
	}
	e.tilt = tilt
	e.Fire(EventTilt, tilt)
	return nil
}

// SetStyle restyles the ellipse.
func (e *Ellipse) SetStyle(style PathOptions) error {
	if err := style.validate(); err != nil {
		return err
	}
	e.style = cloneOptions(style)
	e.Fire(EventStyle, nil)
	return nil
}
