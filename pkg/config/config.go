// Package config loads a YAML scene-description file into a
// scene.SimulationLayout.
//
// Grounded on the teacher's pkg/loaders/pbrt.go idiom (parse into a
// yaml-tagged intermediate struct, then convert string names to the
// engine's own enums/types with an explicit lookup map) and on
// gazed-vu's load/shd.go, which reads exactly this kind of small
// struct-tagged YAML resource via gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/lightbench/pkg/core"
	"github.com/df07/lightbench/pkg/scene"
)

// sceneFile is the on-disk shape of a scene-description YAML file.
type sceneFile struct {
	Lights   []lightEntry   `yaml:"lights"`
	Walls    []wallEntry    `yaml:"walls"`
	Circles  []circleEntry  `yaml:"circles"`
	Polygons []polygonEntry `yaml:"polygons"`
}

type lightEntry struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Color string  `yaml:"color"` // "r,g,b" in [0,255]
}

type attributesEntry struct {
	Absorption        string  `yaml:"absorption"` // "r,g,b" fractions in [0,1]
	Diffusion         float64 `yaml:"diffusion"`
	IndexOfRefraction float64 `yaml:"index_of_refraction"`
	Translucent       bool    `yaml:"translucent"`
}

type wallEntry struct {
	X1         float64         `yaml:"x1"`
	Y1         float64         `yaml:"y1"`
	X2         float64         `yaml:"x2"`
	Y2         float64         `yaml:"y2"`
	Attributes attributesEntry `yaml:"attributes"`
}

type circleEntry struct {
	X          float64         `yaml:"x"`
	Y          float64         `yaml:"y"`
	Radius     float64         `yaml:"radius"`
	Attributes attributesEntry `yaml:"attributes"`
}

type polygonEntry struct {
	Vertices   [][2]float64    `yaml:"vertices"`
	Attributes attributesEntry `yaml:"attributes"`
}

// LoadScene reads and parses a scene-description YAML file at path into
// a SimulationLayout with version 1. Returns a wrapped error (with stack
// context, since this is a demo-client I/O boundary) on any failure.
func LoadScene(path string) (*scene.SimulationLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading scene file %q", path)
	}

	var sf sceneFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, errors.Wrapf(err, "config: parsing scene file %q", path)
	}

	return buildLayout(sf)
}

func buildLayout(sf sceneFile) (*scene.SimulationLayout, error) {
	alloc := core.NewIDAllocator()
	layout := &scene.SimulationLayout{Version: 1}

	for i, l := range sf.Lights {
		color, err := parseLightColor(l.Color)
		if err != nil {
			return nil, errors.Wrapf(err, "config: light[%d]", i)
		}
		layout.Lights = append(layout.Lights, scene.NewLight(alloc, core.NewVec2(l.X, l.Y), color))
	}

	for i, w := range sf.Walls {
		attrs, err := buildAttributes(alloc, w.Attributes)
		if err != nil {
			return nil, errors.Wrapf(err, "config: wall[%d]", i)
		}
		layout.Walls = append(layout.Walls, scene.NewWall(alloc, core.NewVec2(w.X1, w.Y1), core.NewVec2(w.X2, w.Y2), attrs))
	}

	for i, c := range sf.Circles {
		attrs, err := buildAttributes(alloc, c.Attributes)
		if err != nil {
			return nil, errors.Wrapf(err, "config: circle[%d]", i)
		}
		layout.Circles = append(layout.Circles, scene.NewCircleShape(alloc, core.NewVec2(c.X, c.Y), c.Radius, attrs))
	}

	for i, p := range sf.Polygons {
		if len(p.Vertices) < 3 {
			return nil, errors.Errorf("config: polygon[%d] needs at least 3 vertices, got %d", i, len(p.Vertices))
		}
		attrs, err := buildAttributes(alloc, p.Attributes)
		if err != nil {
			return nil, errors.Wrapf(err, "config: polygon[%d]", i)
		}
		vertices := make([]core.Vec2, len(p.Vertices))
		for j, v := range p.Vertices {
			vertices[j] = core.NewVec2(v[0], v[1])
		}
		layout.Polygons = append(layout.Polygons, scene.NewPolygonShape(alloc, vertices, attrs))
	}

	return layout, nil
}

func buildAttributes(alloc *core.IDAllocator, a attributesEntry) (scene.ShapeAttributes, error) {
	absorption, err := parseFraction(a.Absorption)
	if err != nil {
		return scene.ShapeAttributes{}, err
	}
	ior := a.IndexOfRefraction
	if ior == 0 {
		ior = 1
	}
	if a.Diffusion < 0 || a.Diffusion > 1 {
		return scene.ShapeAttributes{}, errors.Errorf("diffusion %g must be in [0,1]", a.Diffusion)
	}
	if ior < 1 {
		return scene.ShapeAttributes{}, errors.Errorf("index_of_refraction %g must be >= 1", ior)
	}
	return scene.NewShapeAttributes(alloc, absorption, a.Diffusion, ior, a.Translucent), nil
}

func parseLightColor(s string) (core.LightColor, error) {
	if s == "" {
		return core.NewLightColor(255, 255, 255), nil
	}
	var r, g, b int
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return core.LightColor{}, errors.Wrapf(err, "invalid light color %q", s)
	}
	return core.NewLightColor(clamp8(r), clamp8(g), clamp8(b)), nil
}

func parseFraction(s string) (core.FractionalLightColor, error) {
	if s == "" {
		return core.FractionalLightColor{}, nil
	}
	var r, g, b float64
	if _, err := fmt.Sscanf(s, "%g,%g,%g", &r, &g, &b); err != nil {
		return core.FractionalLightColor{}, errors.Wrapf(err, "invalid absorption %q", s)
	}
	if r < 0 || r > 1 || g < 0 || g > 1 || b < 0 || b > 1 {
		return core.FractionalLightColor{}, errors.Errorf("absorption %q components must be in [0,1]", s)
	}
	return core.NewFractionalLightColor(r, g, b), nil
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
