package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/layerkit/pkg/surface"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the layer tree and every event observed so far.
type Snapshot struct {
	Layers []*LayerNode `json:"layers"`
	Events []string     `json:"events,omitempty"`
}

// LayerNode represents a layer in the serialized tree.
type LayerNode struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"props,omitempty"`
	Children   []*LayerNode   `json:"children,omitempty"`
}

// CaptureSnapshot captures the current layers and the full event history.
func (t *LayerTester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{Layers: t.captureLayers(t.surface.Layers())}
	for _, ev := range t.trace {
		ev.Target = t.Alias(ev.Target)
		ev.Container = t.Alias(ev.Container)
		snap.Events = append(snap.Events, ev.String())
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// LAYERKIT_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("LAYERKIT_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: LAYERKIT_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s (-expected +actual)\n%s\n\nTo update: LAYERKIT_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between other (expected) and this snapshot
// (actual), compared in their serialized form. Returns empty string if
// equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return cmp.Diff(strings.Split(string(b), "\n"), strings.Split(string(a), "\n"))
}

// --- Internal ---

func (t *LayerTester) captureLayers(layers []surface.Layer) []*LayerNode {
	if len(layers) == 0 {
		return nil
	}
	nodes := make([]*LayerNode, 0, len(layers))
	for _, l := range layers {
		node := &LayerNode{
			ID:   t.alias(l.ID()),
			Type: layerTypeName(l),
		}
		switch l := l.(type) {
		case *surface.Ellipse:
			node.Properties = ellipseProperties(l)
		case *surface.Group:
			node.Children = t.captureLayers(l.Layers())
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func layerTypeName(l surface.Layer) string {
	t := reflect.TypeOf(l)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

func ellipseProperties(e *surface.Ellipse) map[string]any {
	c, r := e.Center(), e.Radii()
	props := map[string]any{
		"center": []float64{round2(c.Lat), round2(c.Lng)},
		"radii":  []float64{round2(r.SemiMajor), round2(r.SemiMinor)},
	}
	if tilt := e.Tilt(); tilt != 0 {
		props["tilt"] = round2(tilt)
	}

	style := e.Style()
	if style.Color != "" {
		props["color"] = style.Color
	}
	if style.Weight != 0 {
		props["weight"] = round2(style.Weight)
	}
	if style.Opacity != 0 {
		props["opacity"] = round2(style.Opacity)
	}
	if style.Fill {
		props["fill"] = true
	}
	if style.FillColor != "" {
		props["fillColor"] = style.FillColor
	}
	if style.FillOpacity != 0 {
		props["fillOpacity"] = round2(style.FillOpacity)
	}
	if len(style.DashArray) > 0 {
		props["dashArray"] = style.DashArray
	}
	return props
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
