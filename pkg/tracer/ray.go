package tracer

import (
	"github.com/df07/lightbench/pkg/core"
	"github.com/df07/lightbench/pkg/scene"
)

// Medium records the optical medium a ray currently traverses. Free space
// (FreeSpace below, not the zero value) has index of refraction 1.
type Medium struct {
	IndexOfRefraction float64
	Attrs             scene.ShapeAttributes // only meaningful when inside a translucent shape
	Inside            bool                  // false means free space
}

// FreeSpace is the default medium: vacuum/air, index of refraction 1.
var FreeSpace = Medium{IndexOfRefraction: 1, Inside: false}

// LightRay is the Tracer's internal unit of work: an origin, a direction,
// a carried color, the optical medium it is currently traveling through,
// and (optionally) the id of the primitive it last reflected/refracted
// from, used to nudge the ray's origin before re-testing that primitive.
type LightRay struct {
	SourceItemID *uint64 // nil if this ray did not just leave a primitive
	Origin       core.Vec2
	Direction    core.Vec2 // must have length > 0
	Color        core.RayColor
	Medium       Medium
}

// LightSegment is a single traced segment of light: the start/end points
// of one ray leg and the color it carried.
type LightSegment struct {
	Pos1, Pos2 core.Vec2
	Color      core.LightColor
}
