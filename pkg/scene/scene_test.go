package scene

import (
	"testing"

	"github.com/df07/lightbench/pkg/core"
)

func TestNewPolygonShapePanicsBelowThreeVertices(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for fewer than 3 vertices")
		}
	}()
	alloc := core.NewIDAllocator()
	NewPolygonShape(alloc, []core.Vec2{core.NewVec2(0, 0), core.NewVec2(1, 1)}, FreeSpace)
}

func TestNewPolygonShapeBuildsClosedEdgeRing(t *testing.T) {
	alloc := core.NewIDAllocator()
	verts := []core.Vec2{core.NewVec2(0, 0), core.NewVec2(10, 0), core.NewVec2(10, 10), core.NewVec2(0, 10)}
	poly := NewPolygonShape(alloc, verts, FreeSpace)

	if len(poly.Segments) != 4 {
		t.Fatalf("expected 4 edges, got %d", len(poly.Segments))
	}
	last := poly.Segments[3]
	if !last.P2.Equals(verts[0]) {
		t.Errorf("expected closing edge to return to first vertex, got %v", last.P2)
	}
}

func TestNewShapeAttributesPanicsOnInvalidDiffusion(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for diffusion outside [0,1]")
		}
	}()
	alloc := core.NewIDAllocator()
	NewShapeAttributes(alloc, core.FractionalLightColor{}, 1.5, 1, false)
}

func TestNewShapeAttributesPanicsOnInvalidIOR(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic for index of refraction below 1")
		}
	}()
	alloc := core.NewIDAllocator()
	NewShapeAttributes(alloc, core.FractionalLightColor{}, 0, 0.5, false)
}

func TestShapeAttributesDistinctIdentity(t *testing.T) {
	alloc := core.NewIDAllocator()
	a := NewShapeAttributes(alloc, core.FractionalLightColor{}, 0, 1, false)
	b := NewShapeAttributes(alloc, core.FractionalLightColor{}, 0, 1, false)
	if a.ID() == b.ID() {
		t.Errorf("expected distinct identities for separately-constructed attributes")
	}
}

func TestSimulationLayoutShapeCount(t *testing.T) {
	alloc := core.NewIDAllocator()
	layout := SimulationLayout{
		Walls:    []Wall{NewWall(alloc, core.NewVec2(0, 0), core.NewVec2(1, 1), FreeSpace)},
		Circles:  []CircleShape{NewCircleShape(alloc, core.NewVec2(0, 0), 1, FreeSpace)},
		Polygons: nil,
	}
	if layout.ShapeCount() != 2 {
		t.Errorf("expected 2 shapes, got %d", layout.ShapeCount())
	}
}

func TestShapeSegmentVerticalFlag(t *testing.T) {
	seg := NewShapeSegment(core.NewVec2(5, 0), core.NewVec2(5, 10))
	if !seg.Vertical {
		t.Errorf("expected vertical segment to be flagged")
	}
	seg2 := NewShapeSegment(core.NewVec2(0, 0), core.NewVec2(10, 0))
	if seg2.Vertical {
		t.Errorf("expected horizontal segment to not be flagged vertical")
	}
}

func TestShapeSegmentInRangePadded(t *testing.T) {
	seg := NewShapeSegment(core.NewVec2(0, 0), core.NewVec2(10, 0))
	if !seg.InRange(10.3, 0) {
		t.Errorf("expected padded range to include a point just past the endpoint")
	}
	if seg.InRange(11, 0) {
		t.Errorf("expected point well past the endpoint to be out of range")
	}
}
