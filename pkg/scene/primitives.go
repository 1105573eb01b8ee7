package scene

import "github.com/df07/lightbench/pkg/core"

// Light is a point light source: a position and an emission color.
type Light struct {
	ID    uint64
	Pos   core.Vec2
	Color core.LightColor
}

// NewLight creates a Light with a fresh stable id.
func NewLight(alloc *core.IDAllocator, pos core.Vec2, color core.LightColor) Light {
	return Light{ID: alloc.Next(), Pos: pos, Color: color}
}

// Wall is an oriented line segment obstacle.
type Wall struct {
	ID      uint64
	Segment ShapeSegment
	Attrs   ShapeAttributes
}

// NewWall creates a Wall between two points with the given attributes.
func NewWall(alloc *core.IDAllocator, p1, p2 core.Vec2, attrs ShapeAttributes) Wall {
	return Wall{ID: alloc.Next(), Segment: NewShapeSegment(p1, p2), Attrs: attrs}
}

// CircleShape is a circular obstacle.
type CircleShape struct {
	ID     uint64
	Center core.Vec2
	Radius float64
	Attrs  ShapeAttributes
}

// NewCircleShape creates a CircleShape.
func NewCircleShape(alloc *core.IDAllocator, center core.Vec2, radius float64, attrs ShapeAttributes) CircleShape {
	return CircleShape{ID: alloc.Next(), Center: center, Radius: radius, Attrs: attrs}
}

// PolygonShape is a closed convex polygon obstacle with >= 3 vertices.
// Self-intersecting (non-simple) polygons are accepted but their
// intersection behavior is undefined, per spec.md's open question on
// polygon simplicity — we do not attempt to verify convexity or
// simplicity at construction time, only the minimum vertex count.
type PolygonShape struct {
	ID       uint64
	Vertices []core.Vec2
	Segments []ShapeSegment
	Attrs    ShapeAttributes
}

// NewPolygonShape builds a PolygonShape from a vertex ring (not required to
// repeat the first vertex at the end) and precomputes its edge segments.
// Fewer than 3 vertices is a programmer-contract violation and panics.
func NewPolygonShape(alloc *core.IDAllocator, vertices []core.Vec2, attrs ShapeAttributes) PolygonShape {
	if len(vertices) < 3 {
		panic("scene: PolygonShape requires at least 3 vertices")
	}
	segments := make([]ShapeSegment, len(vertices))
	for i := range vertices {
		p1 := vertices[i]
		p2 := vertices[(i+1)%len(vertices)]
		segments[i] = NewShapeSegment(p1, p2)
	}
	return PolygonShape{
		ID:       alloc.Next(),
		Vertices: vertices,
		Segments: segments,
		Attrs:    attrs,
	}
}

// SimulationLayout is the immutable, versioned description of a scene: a
// set of lights and obstacle primitives. A layout value never mutates
// once constructed; it flows from the editor through Restart to the
// Tracers by shared read-only reference.
type SimulationLayout struct {
	Version  uint64
	Lights   []Light
	Walls    []Wall
	Circles  []CircleShape
	Polygons []PolygonShape
}

// ShapeCount returns the total number of user obstacle primitives in the
// layout (excluding the Tracer's automatically-inserted containment walls).
func (l SimulationLayout) ShapeCount() int {
	return len(l.Walls) + len(l.Circles) + len(l.Polygons)
}
