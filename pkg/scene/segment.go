package scene

import (
	"math"

	"github.com/df07/lightbench/pkg/core"
)

// padding widens a segment's inclusive x/y range test so that
// intersections landing exactly on an endpoint are not missed due to
// floating point rounding.
const padding = 0.5

// ParallelSlopeEpsilon is the threshold below which two slopes are
// considered parallel and no intersection is attempted.
const ParallelSlopeEpsilon = 1e-4

// ShapeSegment is a precomputed line segment: endpoints, slope (infinity-safe
// via core.SafeDivide), y-intercept, the inclusive x/y ranges padded by 0.5,
// and the pair of outward normals. Walls and polygon edges are both built
// from this cache so the intersection library shares one implementation.
type ShapeSegment struct {
	P1, P2           core.Vec2
	Slope            float64
	Intercept        float64
	Vertical         bool // true when P1.X == P2.X; slope is not meaningful
	XMin, XMax       float64
	YMin, YMax       float64
	NormalA, NormalB core.Vec2 // the two candidate perpendicular normals
}

// NewShapeSegment precomputes a ShapeSegment from its two endpoints.
func NewShapeSegment(p1, p2 core.Vec2) ShapeSegment {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y

	vertical := dx == 0
	slope := core.SafeDivide(dy, dx)
	intercept := p1.Y - slope*p1.X

	dir := core.NewVec2(dx, dy)
	na := core.NewVec2(-dir.Y, dir.X).Normalize()
	nb := na.Negate()

	return ShapeSegment{
		P1:        p1,
		P2:        p2,
		Slope:     slope,
		Intercept: intercept,
		Vertical:  vertical,
		XMin:      math.Min(p1.X, p2.X) - padding,
		XMax:      math.Max(p1.X, p2.X) + padding,
		YMin:      math.Min(p1.Y, p2.Y) - padding,
		YMax:      math.Max(p1.Y, p2.Y) + padding,
		NormalA:   na,
		NormalB:   nb,
	}
}

// Direction returns the (non-normalized) direction from P1 to P2.
func (s ShapeSegment) Direction() core.Vec2 {
	return s.P2.Subtract(s.P1)
}

// InRange reports whether (x,y) lies within the segment's padded
// inclusive bounding range — a necessary but not sufficient condition
// for an on-segment hit (the line-intersection math already constrains
// the point to the line itself).
func (s ShapeSegment) InRange(x, y float64) bool {
	return x >= s.XMin && x <= s.XMax && y >= s.YMin && y <= s.YMax
}
