// Package tracer implements the photon-segment ray tracer: a pure
// function of (layout, simulation size, segment budget) that returns a
// batch of lit line segments, with Fresnel reflection/refraction and
// diffuse scattering at each hit.
//
// Grounded on the teacher's renderer.Raytracer: like
// Raytracer.RenderBounds/adaptiveSamplePixel, Trace takes an explicit
// *rand.Rand supplied by the caller (never a package-level RNG) so that
// many Tracer invocations can run concurrently over the same immutable
// scene without sharing mutable state.
package tracer

import (
	"math"
	"math/rand"

	"github.com/df07/lightbench/pkg/core"
	"github.com/df07/lightbench/pkg/intersect"
	"github.com/df07/lightbench/pkg/scene"
)

// cancelCheckInterval is how often (in produced segments) the main loop
// re-checks the cancellation signal, per spec.md §4.1.
const cancelCheckInterval = 1000

// containmentInset is how far the four automatically-inserted, fully
// absorbing containment walls are inset from the image edges.
const containmentInset = 1

// containmentIDBase marks off a high range of ids for the four
// auto-inserted containment walls, kept well clear of the ids a
// SimulationLayout's own IDAllocator hands out so a ray's SourceItemID
// nudge never mistakes a user wall for a containment wall or vice versa.
const containmentIDBase = math.MaxUint64 - 8

// world bundles the automatically-inserted containment walls with the
// user-supplied scene primitives, in the fixed iteration order the
// Tracer's closest-hit tie-break relies on: containment walls first,
// then user walls, then circles, then polygons.
type world struct {
	containment [4]scene.Wall
	layout      *scene.SimulationLayout
	minX, minY  float64
	maxX, maxY  float64
}

func buildWorld(layout *scene.SimulationLayout, width, height int) *world {
	minX := float64(containmentInset)
	minY := float64(containmentInset)
	maxX := float64(width - 1 - containmentInset)
	maxY := float64(height - 1 - containmentInset)

	absorbAll := scene.ShapeAttributes{
		Absorption:        core.NewFractionalLightColor(1, 1, 1),
		Diffusion:         0,
		IndexOfRefraction: 1,
		Translucent:       false,
	}

	corners := [4]core.Vec2{
		core.NewVec2(minX, minY),
		core.NewVec2(maxX, minY),
		core.NewVec2(maxX, maxY),
		core.NewVec2(minX, maxY),
	}

	var containment [4]scene.Wall
	for i := 0; i < 4; i++ {
		containment[i] = scene.Wall{
			ID:      containmentIDBase + uint64(i),
			Segment: scene.NewShapeSegment(corners[i], corners[(i+1)%4]),
			Attrs:   absorbAll,
		}
	}

	return &world{containment: containment, layout: layout, minX: minX, minY: minY, maxX: maxX, maxY: maxY}
}

// insideContainment reports whether a point lies within the inset
// containment rectangle.
func (w *world) insideContainment(p core.Vec2) bool {
	return p.X >= w.minX && p.X <= w.maxX && p.Y >= w.minY && p.Y <= w.maxY
}

// hit carries everything the main loop needs after finding the closest
// intersection: the point itself, the attributes/id of what was hit, and
// the normal pair for computing reflection/refraction.
type hit struct {
	point   core.Vec2
	attrs   scene.ShapeAttributes
	itemID  uint64
	normals intersect.Normals
}

// closestHit intersects a ray (given as origin/direction rather than a
// core.Ray, since the nudge below may need to test different primitives
// against different effective origins) with every primitive in the
// world, applying the id-based origin nudge when the ray just left the
// primitive under test, and keeps the closest hit by squared distance
// with first-encountered tie-break.
func (w *world) closestHit(origin, direction core.Vec2, sourceItemID *uint64) (hit, bool) {
	var best hit
	bestDistSq := math.Inf(1)
	found := false

	consider := func(point core.Vec2, itemID uint64, attrs scene.ShapeAttributes, normals intersect.Normals, testOrigin core.Vec2) {
		distSq := point.Subtract(testOrigin).LengthSquared()
		if distSq < bestDistSq {
			bestDistSq = distSq
			best = hit{point: point, attrs: attrs, itemID: itemID, normals: normals}
			found = true
		}
	}

	testRayFor := func(itemID uint64) core.Ray {
		if sourceItemID != nil && *sourceItemID == itemID {
			return core.Ray{Origin: origin.Add(direction.Normalize().Multiply(0.1)), Direction: direction}
		}
		return core.Ray{Origin: origin, Direction: direction}
	}

	for _, wall := range w.containment {
		testRay := testRayFor(wall.ID)
		if p, ok := intersect.Segment(testRay, wall.Segment); ok {
			normals := intersect.SegmentNormals(wall.Segment, testRay.Direction)
			consider(p, wall.ID, wall.Attrs, normals, testRay.Origin)
		}
	}
	for _, wall := range w.layout.Walls {
		testRay := testRayFor(wall.ID)
		if p, ok := intersect.Segment(testRay, wall.Segment); ok {
			normals := intersect.SegmentNormals(wall.Segment, testRay.Direction)
			consider(p, wall.ID, wall.Attrs, normals, testRay.Origin)
		}
	}
	for _, c := range w.layout.Circles {
		testRay := testRayFor(c.ID)
		if p, ok := intersect.Circle(testRay, c.Center, c.Radius); ok {
			normals := intersect.CircleNormals(c.Center, p, testRay.Origin, c.Radius)
			consider(p, c.ID, c.Attrs, normals, testRay.Origin)
		}
	}
	for _, poly := range w.layout.Polygons {
		testRay := testRayFor(poly.ID)
		if p, edge, ok := intersect.Polygon(testRay, poly); ok {
			normals := intersect.PolygonNormals(edge, testRay.Direction)
			consider(p, poly.ID, poly.Attrs, normals, testRay.Origin)
		}
	}

	return best, found
}

// mediumAt probes a point for the translucent primitive (if any) whose
// interior it falls within, in the same fixed iteration order as
// closestHit. Used to determine the medium a refracted ray is entering.
func (w *world) mediumAt(p core.Vec2) Medium {
	for _, c := range w.layout.Circles {
		if c.Attrs.Translucent && intersect.PointInCircle(p, c.Center, c.Radius) {
			return Medium{IndexOfRefraction: c.Attrs.IndexOfRefraction, Attrs: c.Attrs, Inside: true}
		}
	}
	for _, poly := range w.layout.Polygons {
		if poly.Attrs.Translucent && intersect.PointInPolygon(p, poly) {
			return Medium{IndexOfRefraction: poly.Attrs.IndexOfRefraction, Attrs: poly.Attrs, Inside: true}
		}
	}
	return FreeSpace
}

// Trace is the Tracer's public entry point: a pure function of the scene
// and a segment budget that returns at most segmentsToTrace LightSegments.
// Panics if layout has no lights — callers must guard, per spec.md §4.1.
func Trace(layout *scene.SimulationLayout, width, height, segmentsToTrace int, cancel <-chan struct{}, random *rand.Rand) []LightSegment {
	if len(layout.Lights) == 0 {
		panic("tracer: Trace requires at least one light")
	}

	w := buildWorld(layout, width, height)
	queue := core.NewRingBuffer[LightRay](segmentsToTrace)
	produced := make([]LightSegment, 0, segmentsToTrace)

	isCancelled := func() bool {
		select {
		case <-cancel:
			return true
		default:
			return false
		}
	}

	for len(produced) < segmentsToTrace {
		if len(produced)%cancelCheckInterval == 0 && isCancelled() {
			return produced
		}

		ray, ok := queue.Pop()
		if !ok {
			ray = synthesizeRootRay(layout.Lights, random)
		}

		if ray.Color.IsNegligible() {
			continue
		}
		if !w.insideContainment(ray.Origin) {
			continue
		}

		h, found := w.closestHit(ray.Origin, ray.Direction, ray.SourceItemID)
		if !found {
			continue
		}

		produced = append(produced, LightSegment{Pos1: ray.Origin, Pos2: h.point, Color: ray.Color.ToLightColor()})

		afterAbsorption := ray.Color.AbsorbedBy(h.attrs.Absorption)
		if h.attrs.Absorption.AllAtLeast(0.99) {
			continue
		}

		incomingDir := ray.Direction.Normalize()
		reverseIncoming := incomingDir.Negate()
		incomingAngle := core.AngleBetween(h.normals.Reflection, reverseIncoming)

		reflectedDir := reflectDirection(reverseIncoming, h.normals.Reflection)
		if h.attrs.Diffusion > 0 {
			reflectedDir = perturbDiffuse(reflectedDir, h.normals.Reflection, h.attrs.Diffusion, random)
		}

		hitID := h.itemID
		reflectedRay := LightRay{
			SourceItemID: &hitID,
			Origin:       h.point,
			Direction:    reflectedDir,
			Color:        afterAbsorption,
			Medium:       ray.Medium,
		}

		if !h.attrs.Translucent {
			queue.Push(reflectedRay)
			continue
		}

		// Probe just past the hit point to determine the medium the
		// refracted ray is entering (handles both entering and exiting
		// a translucent shape without branching on front/back face).
		probePoint := h.point.Add(incomingDir.Multiply(0.1))
		toMedium := w.mediumAt(probePoint)

		percentReflected := fresnelReflectance(incomingAngle, ray.Medium.IndexOfRefraction, toMedium.IndexOfRefraction)
		reflectedRay.Color = reflectedRay.Color.DivideScalar(percentReflected)
		queue.Push(reflectedRay)

		if percentReflected < 1.0 {
			refractedAngle, ok := snellRefractedAngle(incomingAngle, ray.Medium.IndexOfRefraction, toMedium.IndexOfRefraction)
			if ok {
				rotSign := sign(h.normals.Refraction.Cross(incomingDir))
				refractedDir := h.normals.Refraction.Rotate(refractedAngle * rotSign)

				refractedRay := LightRay{
					SourceItemID: &hitID,
					Origin:       h.point,
					Direction:    refractedDir,
					Color:        afterAbsorption.DivideScalar(1 - percentReflected),
					Medium:       toMedium,
				}
				queue.Push(refractedRay)
			}
		}
	}

	return produced
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// reflectDirection mirrors the reversed incoming direction about the
// reflection normal — equivalent to rotating the reversed incoming
// direction by -2*incoming_angle_from_normal in the rotational sense
// that carries it onto the normal (spec.md §4.1), computed here via the
// standard vector-reflection identity 2*(r.n)*n - r for numerical
// robustness.
func reflectDirection(reverseIncoming, normal core.Vec2) core.Vec2 {
	return normal.Multiply(2 * reverseIncoming.Dot(normal)).Subtract(reverseIncoming)
}

// perturbDiffuse perturbs a reflected direction by a uniform random angle
// bounded by min(pi/8 * diffusion, angleToNearestTangent - 0.1), per
// spec.md §4.1's diffuse reflection envelope.
func perturbDiffuse(reflected, normal core.Vec2, diffusion float64, random *rand.Rand) core.Vec2 {
	tangent := normal.Rotate(math.Pi / 2)
	angleToTangentLine := core.AngleBetween(reflected, tangent)
	if angleToTangentLine > math.Pi/2 {
		angleToTangentLine = math.Pi - angleToTangentLine
	}

	maxAngle := math.Min(math.Pi/8*diffusion, angleToTangentLine-0.1)
	if maxAngle <= 0 {
		return reflected
	}

	offset := (random.Float64()*2 - 1) * maxAngle
	return reflected.Rotate(offset)
}

// synthesizeRootRay mints a new root ray: a uniformly-chosen light,
// a direction sampled uniformly on the unit circle, the light's color,
// and the free-space medium.
func synthesizeRootRay(lights []scene.Light, random *rand.Rand) LightRay {
	light := lights[random.Intn(len(lights))]
	angle := random.Float64() * 2 * math.Pi
	direction := core.NewVec2(math.Cos(angle), math.Sin(angle))

	return LightRay{
		SourceItemID: nil,
		Origin:       light.Pos,
		Direction:    direction,
		Color:        core.FromLightColor(light.Color),
		Medium:       FreeSpace,
	}
}
