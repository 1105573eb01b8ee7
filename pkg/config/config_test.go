package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempScene(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write temp scene file: %v", err)
	}
	return path
}

func TestLoadSceneParsesFullLayout(t *testing.T) {
	path := writeTempScene(t, `
lights:
  - x: 10
    y: 20
    color: "255,200,150"
walls:
  - x1: 0
    y1: 0
    x2: 10
    y2: 0
    attributes:
      absorption: "0.5,0.5,0.5"
circles:
  - x: 5
    y: 5
    radius: 2
    attributes:
      diffusion: 0.3
      index_of_refraction: 1.5
      translucent: true
polygons:
  - vertices: [[0,0],[1,0],[1,1]]
`)

	layout, err := LoadScene(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(layout.Lights) != 1 || len(layout.Walls) != 1 || len(layout.Circles) != 1 || len(layout.Polygons) != 1 {
		t.Fatalf("expected one of each primitive, got lights=%d walls=%d circles=%d polygons=%d",
			len(layout.Lights), len(layout.Walls), len(layout.Circles), len(layout.Polygons))
	}
	if layout.Lights[0].Pos.X != 10 || layout.Lights[0].Pos.Y != 20 {
		t.Errorf("expected light position (10,20), got %v", layout.Lights[0].Pos)
	}
	if !layout.Circles[0].Attrs.Translucent {
		t.Errorf("expected the circle to be translucent")
	}
}

func TestLoadScenePolygonBelowThreeVerticesFails(t *testing.T) {
	path := writeTempScene(t, `
polygons:
  - vertices: [[0,0],[1,0]]
`)

	if _, err := LoadScene(path); err == nil {
		t.Errorf("expected an error for a polygon with fewer than 3 vertices")
	}
}

func TestLoadSceneMalformedColorIsWrapped(t *testing.T) {
	path := writeTempScene(t, `
lights:
  - x: 0
    y: 0
    color: "not-a-color"
`)

	if _, err := LoadScene(path); err == nil {
		t.Errorf("expected an error for a malformed light color")
	}
}

func TestLoadSceneMissingFileIsWrapped(t *testing.T) {
	if _, err := LoadScene(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected an error for a missing scene file")
	}
}

func TestLoadSceneEmptyLightColorDefaultsToWhite(t *testing.T) {
	path := writeTempScene(t, `
lights:
  - x: 1
    y: 1
`)

	layout, err := LoadScene(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := layout.Lights[0].Color
	if c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("expected default white light color, got %v", c)
	}
}
