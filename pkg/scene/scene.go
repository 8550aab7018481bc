// Package scene reads YAML scene files: a sequence of frames, each a tree of
// ellipses and groups. Replaying the frames in order drives the layer
// lifecycle the same way successive renders of an application would.
//
// A scene looks like:
//
//	version: v1.1.0
//	frames:
//	  - name: start
//	    nodes:
//	      - id: storm
//	        kind: ellipse
//	        center: [38, -82]
//	        radii: [500000, 300000]
//	        tilt: 15
//	        options: {color: blue}
//
// Node ids key identity among siblings, so a node that keeps its id across
// frames is updated in place rather than recreated.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/layerkit/pkg/surface"
)

// Kind names the layer type a node becomes.
type Kind string

const (
	KindEllipse Kind = "ellipse"
	KindGroup   Kind = "group"
)

// Scene is a parsed scene file.
type Scene struct {
	Version string  `yaml:"version,omitempty"`
	Name    string  `yaml:"name,omitempty"`
	Frames  []Frame `yaml:"frames"`
}

// Frame is one complete declaration of the surface's contents.
type Frame struct {
	Name  string `yaml:"name,omitempty"`
	Nodes []Node `yaml:"nodes"`
}

// Node declares one layer.
type Node struct {
	ID       string              `yaml:"id"`
	Kind     Kind                `yaml:"kind"`
	Center   []float64           `yaml:"center,omitempty"`
	Radii    []float64           `yaml:"radii,omitempty"`
	Tilt     float64             `yaml:"tilt,omitempty"`
	Options  surface.PathOptions `yaml:"options,omitempty"`
	Children []Node              `yaml:"children,omitempty"`
}

// Load reads and validates the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scene. Unknown fields are rejected.
func Parse(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scene
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty scene", ErrInvalid)
		}
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Count returns the number of nodes in the frame, at any depth.
func (f Frame) Count() int {
	return countNodes(f.Nodes)
}

func countNodes(nodes []Node) int {
	n := len(nodes)
	for _, node := range nodes {
		n += countNodes(node.Children)
	}
	return n
}
