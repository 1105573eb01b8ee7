// Package intersect holds the ray/primitive intersection and
// normal-at-hit computations shared by the Tracer. It is grounded on the
// teacher's per-shape Hit implementations (pkg/geometry/sphere.go and
// friends) generalized from 3D Hit/BoundingBox shapes down to the three
// 2D primitives this spec names: line segments (walls and polygon edges),
// circles, and polygons.
package intersect

import (
	"math"

	"github.com/df07/lightbench/pkg/core"
	"github.com/df07/lightbench/pkg/scene"
)

// Segment intersects a ray with a single precomputed ShapeSegment.
// Mirrors spec.md §4.1's "Line segment" intersection semantics exactly:
// solve the two line equations, reject near-parallel slopes, require the
// intersection to be on the forward side of the ray and within the
// segment's padded range.
func Segment(ray core.Ray, seg scene.ShapeSegment) (core.Vec2, bool) {
	dx, dy := ray.Direction.X, ray.Direction.Y

	var x, y float64
	switch {
	case dx == 0 && seg.Vertical:
		// Both vertical: parallel (including coincident) — no well-defined hit.
		return core.Vec2{}, false
	case dx == 0:
		// Vertical ray: x is fixed, solve the segment's line for y.
		x = ray.Origin.X
		y = seg.Slope*x + seg.Intercept
	case seg.Vertical:
		// Vertical segment: x is fixed, solve the ray's line for y.
		rayIntercept := ray.Origin.Y - core.SafeDivide(dy, dx)*ray.Origin.X
		x = seg.P1.X
		y = core.SafeDivide(dy, dx)*x + rayIntercept
	default:
		raySlope := dy / dx
		rayIntercept := ray.Origin.Y - raySlope*ray.Origin.X
		if math.Abs(raySlope-seg.Slope) < scene.ParallelSlopeEpsilon {
			return core.Vec2{}, false
		}
		x = (rayIntercept - seg.Intercept) / (seg.Slope - raySlope)
		y = seg.Slope*x + seg.Intercept
	}

	// Forward-side test: the intersection must be in the ray's direction
	// of travel on both axes (a no-op axis, e.g. dx==0, always passes).
	if dx != 0 && sign(x-ray.Origin.X) != sign(dx) {
		return core.Vec2{}, false
	}
	if dy != 0 && sign(y-ray.Origin.Y) != sign(dy) {
		return core.Vec2{}, false
	}

	if !seg.InRange(x, y) {
		return core.Vec2{}, false
	}

	return core.NewVec2(x, y), true
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// Circle intersects a ray with a circle by extending the ray to a very
// far endpoint and solving the resulting quadratic, per spec.md §4.1.
// Among positive roots, the smaller (nearer) one is returned.
func Circle(ray core.Ray, center core.Vec2, radius float64) (core.Vec2, bool) {
	const farDistance = 1e6
	dir := ray.Direction.Normalize()
	x0, y0 := ray.Origin.X, ray.Origin.Y
	x1 := x0 + dir.X*farDistance
	y1 := y0 + dir.Y*farDistance
	h, k := center.X, center.Y

	a := (x1-x0)*(x1-x0) + (y1-y0)*(y1-y0)
	b := 2 * ((x1-x0)*(x0-h) + (y1-y0)*(y0-k))
	c := (x0-h)*(x0-h) + (y0-k)*(y0-k) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return core.Vec2{}, false
	}

	sqrtD := math.Sqrt(discriminant)
	t1 := (-b - sqrtD) / (2 * a)
	t2 := (-b + sqrtD) / (2 * a)

	t, found := smallestPositive(t1, t2)
	if !found {
		return core.Vec2{}, false
	}

	return core.NewVec2(x0+(x1-x0)*t, y0+(y1-y0)*t), true
}

func smallestPositive(t1, t2 float64) (float64, bool) {
	lo, hi := t1, t2
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo > 0 {
		return lo, true
	}
	if hi > 0 {
		return hi, true
	}
	return 0, false
}

// Polygon intersects a ray with every edge of a polygon and returns the
// closest hit along with the edge that produced it (needed by the Tracer
// to compute reflection/refraction normals). Self-intersecting polygons
// have undefined (first-closest-found) behavior, per spec.md §9.
func Polygon(ray core.Ray, poly scene.PolygonShape) (core.Vec2, scene.ShapeSegment, bool) {
	var (
		best        core.Vec2
		bestSeg     scene.ShapeSegment
		bestDistSq  = math.Inf(1)
		found       bool
	)
	for _, seg := range poly.Segments {
		p, ok := Segment(ray, seg)
		if !ok {
			continue
		}
		distSq := p.Subtract(ray.Origin).LengthSquared()
		if distSq < bestDistSq {
			bestDistSq = distSq
			best = p
			bestSeg = seg
			found = true
		}
	}
	return best, bestSeg, found
}

// PointInCircle reports whether p lies within (or on) the circle.
func PointInCircle(p, center core.Vec2, radius float64) bool {
	return p.Subtract(center).LengthSquared() <= radius*radius
}

// PointInPolygon reports whether p lies inside poly using ray-cast parity:
// a ray is cast from p in a fixed direction and boundary crossings are
// counted; inside iff the count is odd.
func PointInPolygon(p core.Vec2, poly scene.PolygonShape) bool {
	// Cast in the +X direction; use a fixed, arbitrarily-chosen non-axis-
	// aligned tilt to sidestep degenerate horizontal-edge coincidences.
	castRay := core.NewRay(p, core.NewVec2(1, 1e-6))
	crossings := 0
	for _, seg := range poly.Segments {
		if _, ok := Segment(castRay, seg); ok {
			crossings++
		}
	}
	return crossings%2 == 1
}

// PointInWall always reports false: a wall has no interior, so it can
// never be the medium a ray is "inside".
func PointInWall() bool {
	return false
}
