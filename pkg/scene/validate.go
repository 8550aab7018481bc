package scene

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/mod/semver"
)

const (
	// DefaultVersion is assumed for scenes without a version header.
	DefaultVersion = "v1.0.0"
	// SupportedMajor is the only scene major version this package reads.
	SupportedMajor = "v1"
	// dashVersion is the first version whose options may carry dashArray.
	dashVersion = "v1.1.0"
)

var (
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("invalid scene")
	// ErrUnsupportedVersion is returned for a well-formed version of another
	// major line.
	ErrUnsupportedVersion = errors.New("unsupported scene version")
)

// EffectiveVersion returns the scene version, or DefaultVersion when none
// is declared.
func (s *Scene) EffectiveVersion() string {
	if s.Version == "" {
		return DefaultVersion
	}
	return s.Version
}

// Validate reports every problem in the scene, joined.
func (s *Scene) Validate() error {
	version := s.EffectiveVersion()
	if !semver.IsValid(version) {
		return fmt.Errorf("%w: version %q is not a semantic version", ErrInvalid, s.Version)
	}
	if major := semver.Major(version); major != SupportedMajor {
		return fmt.Errorf("%w: %s (supported: %s.x)", ErrUnsupportedVersion, version, SupportedMajor)
	}

	v := validator{version: version}
	if len(s.Frames) == 0 {
		v.fail("scene has no frames")
	}
	for i, frame := range s.Frames {
		label := fmt.Sprintf("frame %d", i)
		if frame.Name != "" {
			label = fmt.Sprintf("frame %d (%s)", i, frame.Name)
		}
		v.nodes(label, frame.Nodes)
	}
	return errors.Join(v.errs...)
}

type validator struct {
	version string
	errs    []error
}

func (v *validator) fail(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
}

func (v *validator) nodes(path string, nodes []Node) {
	seen := make(map[string]bool, len(nodes))
	for i, node := range nodes {
		where := fmt.Sprintf("%s: node %d", path, i)
		if node.ID == "" {
			v.fail("%s: missing id", where)
		} else {
			where = fmt.Sprintf("%s: %s", path, node.ID)
			if seen[node.ID] {
				v.fail("%s: duplicate id among siblings", where)
			}
			seen[node.ID] = true
		}
		v.node(where, node)
	}
}

func (v *validator) node(where string, node Node) {
	switch node.Kind {
	case KindEllipse:
		v.ellipse(where, node)
		if len(node.Children) > 0 {
			v.fail("%s: an ellipse cannot have children", where)
		}
	case KindGroup:
		if node.Center != nil || node.Radii != nil || node.Tilt != 0 {
			v.fail("%s: a group has no geometry", where)
		}
		v.nodes(where, node.Children)
	case "":
		v.fail("%s: missing kind", where)
	default:
		v.fail("%s: unknown kind %q", where, node.Kind)
	}
}

func (v *validator) ellipse(where string, node Node) {
	if len(node.Center) != 2 {
		v.fail("%s: center needs [lat, lng], got %d values", where, len(node.Center))
	} else if lat := node.Center[0]; lat < -90 || lat > 90 || !finite(lat) || !finite(node.Center[1]) {
		v.fail("%s: center %v out of range", where, node.Center)
	}
	if len(node.Radii) != 2 {
		v.fail("%s: radii need [semiMajor, semiMinor], got %d values", where, len(node.Radii))
	} else if !(node.Radii[0] > 0 && node.Radii[1] > 0) || !finite(node.Radii[0]) || !finite(node.Radii[1]) {
		v.fail("%s: radii %v must be positive", where, node.Radii)
	}
	if !finite(node.Tilt) {
		v.fail("%s: tilt must be finite", where)
	}
	if len(node.Options.DashArray) > 0 && semver.Compare(v.version, dashVersion) < 0 {
		v.fail("%s: dashArray needs scene version %s or later", where, dashVersion)
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
