package intersect

import (
	"math"

	"github.com/df07/lightbench/pkg/core"
	"github.com/df07/lightbench/pkg/scene"
)

// Normals is the (reflectionNormal, refractionNormal) pair computed at a
// hit point: the reflection normal points into the half-space containing
// the incoming ray's reverse direction, and the refraction normal is its
// opposite, per spec.md §4.1.
type Normals struct {
	Reflection core.Vec2
	Refraction core.Vec2
}

// SegmentNormals picks between a segment's two precomputed candidate
// normals using the incoming ray's reverse direction.
func SegmentNormals(seg scene.ShapeSegment, incomingDirection core.Vec2) Normals {
	reverse := incomingDirection.Negate()
	if core.AngleBetween(seg.NormalA, reverse) <= math.Pi/2 {
		return Normals{Reflection: seg.NormalA, Refraction: seg.NormalB}
	}
	return Normals{Reflection: seg.NormalB, Refraction: seg.NormalA}
}

// CircleNormals computes the normal pair for a circle hit. If the ray's
// origin lies outside the circle, the reflection normal points away from
// the center (outward); if inside, it points toward the center (inward).
func CircleNormals(center, hitPoint, rayOrigin core.Vec2, radius float64) Normals {
	outward := hitPoint.Subtract(center).Normalize()
	inward := outward.Negate()

	if PointInCircle(rayOrigin, center, radius) {
		return Normals{Reflection: inward, Refraction: outward}
	}
	return Normals{Reflection: outward, Refraction: inward}
}

// PolygonNormals computes the normal pair for a polygon hit from the
// intersected edge's segment, exactly as for a standalone wall segment.
func PolygonNormals(edge scene.ShapeSegment, incomingDirection core.Vec2) Normals {
	return SegmentNormals(edge, incomingDirection)
}
