package intersect

import (
	"math"
	"testing"

	"github.com/df07/lightbench/pkg/core"
	"github.com/df07/lightbench/pkg/scene"
)

func TestSegmentIntersectsPerpendicular(t *testing.T) {
	seg := scene.NewShapeSegment(core.NewVec2(5, -10), core.NewVec2(5, 10))
	ray := core.NewRay(core.NewVec2(0, 0), core.NewVec2(1, 0))

	p, ok := Segment(ray, seg)
	if !ok {
		t.Fatalf("expected intersection")
	}
	if !p.Equals(core.NewVec2(5, 0)) {
		t.Errorf("expected (5,0), got %v", p)
	}
}

func TestSegmentRejectsBackwardRay(t *testing.T) {
	seg := scene.NewShapeSegment(core.NewVec2(5, -10), core.NewVec2(5, 10))
	ray := core.NewRay(core.NewVec2(10, 0), core.NewVec2(1, 0)) // moving away from the segment

	if _, ok := Segment(ray, seg); ok {
		t.Errorf("expected no intersection behind the segment's forward side")
	}
}

func TestSegmentRejectsParallel(t *testing.T) {
	seg := scene.NewShapeSegment(core.NewVec2(0, 0), core.NewVec2(10, 0))
	ray := core.NewRay(core.NewVec2(0, 5), core.NewVec2(1, 0))

	if _, ok := Segment(ray, seg); ok {
		t.Errorf("expected no intersection between parallel lines")
	}
}

func TestCircleIntersectsNearestRoot(t *testing.T) {
	center := core.NewVec2(10, 0)
	ray := core.NewRay(core.NewVec2(0, 0), core.NewVec2(1, 0))

	p, ok := Circle(ray, center, 2)
	if !ok {
		t.Fatalf("expected intersection")
	}
	if !p.Equals(core.NewVec2(8, 0)) {
		t.Errorf("expected nearest hit at (8,0), got %v", p)
	}
}

func TestCircleMisses(t *testing.T) {
	center := core.NewVec2(10, 10)
	ray := core.NewRay(core.NewVec2(0, 0), core.NewVec2(1, 0))

	if _, ok := Circle(ray, center, 1); ok {
		t.Errorf("expected no intersection")
	}
}

func TestPointInCircle(t *testing.T) {
	center := core.NewVec2(0, 0)
	if !PointInCircle(core.NewVec2(0.5, 0), center, 1) {
		t.Errorf("expected point inside circle")
	}
	if PointInCircle(core.NewVec2(2, 0), center, 1) {
		t.Errorf("expected point outside circle")
	}
}

func TestPointInPolygon(t *testing.T) {
	alloc := core.NewIDAllocator()
	square := scene.NewPolygonShape(alloc, []core.Vec2{
		core.NewVec2(0, 0), core.NewVec2(10, 0), core.NewVec2(10, 10), core.NewVec2(0, 10),
	}, scene.FreeSpace)

	if !PointInPolygon(core.NewVec2(5, 5), square) {
		t.Errorf("expected center point to be inside")
	}
	if PointInPolygon(core.NewVec2(20, 20), square) {
		t.Errorf("expected far point to be outside")
	}
}

func TestPointInWallAlwaysFalse(t *testing.T) {
	if PointInWall() {
		t.Errorf("a wall should never be considered a medium interior")
	}
}

func TestSegmentNormalsPointsTowardIncomingReverse(t *testing.T) {
	seg := scene.NewShapeSegment(core.NewVec2(0, -10), core.NewVec2(0, 10))
	incoming := core.NewVec2(1, 0) // travelling in +X
	normals := SegmentNormals(seg, incoming)

	reverse := incoming.Negate()
	if core.AngleBetween(normals.Reflection, reverse) > math.Pi/2 {
		t.Errorf("reflection normal should be within 90 degrees of the reversed incoming direction")
	}
	if !normals.Reflection.Negate().Equals(normals.Refraction) {
		t.Errorf("refraction normal should be opposite the reflection normal")
	}
}

func TestCircleNormalsOutwardWhenOriginOutside(t *testing.T) {
	center := core.NewVec2(0, 0)
	hit := core.NewVec2(1, 0)
	origin := core.NewVec2(5, 0)

	normals := CircleNormals(center, hit, origin, 1)
	if !normals.Reflection.Equals(core.NewVec2(1, 0)) {
		t.Errorf("expected outward reflection normal, got %v", normals.Reflection)
	}
}

func TestCircleNormalsInwardWhenOriginInside(t *testing.T) {
	center := core.NewVec2(0, 0)
	hit := core.NewVec2(1, 0)
	origin := core.NewVec2(0, 0)

	normals := CircleNormals(center, hit, origin, 1)
	if !normals.Reflection.Equals(core.NewVec2(-1, 0)) {
		t.Errorf("expected inward reflection normal, got %v", normals.Reflection)
	}
}
