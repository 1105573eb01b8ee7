package scene

import "github.com/df07/lightbench/pkg/core"

// ShapeAttributes describes the optical properties of a wall, circle, or
// polygon surface/volume. The id field gives each attributes record a
// stable identity distinct from value-equality, so two records built with
// otherwise-identical values are still distinguishable. The Tracer's
// "did this ray just leave this surface?" check does not read it; that
// check compares the primitive's own ID.
type ShapeAttributes struct {
	Absorption        core.FractionalLightColor
	Diffusion         float64 // in [0,1]; 0 = perfect mirror
	IndexOfRefraction float64 // >= 1; free space is 1
	Translucent       bool
	id                uint64
}

// NewShapeAttributes builds a ShapeAttributes record with a fresh stable
// identity allocated from the given allocator.
func NewShapeAttributes(alloc *core.IDAllocator, absorption core.FractionalLightColor, diffusion, indexOfRefraction float64, translucent bool) ShapeAttributes {
	if diffusion < 0 || diffusion > 1 {
		panic("scene: diffusion must be in [0,1]")
	}
	if indexOfRefraction < 1 {
		panic("scene: indexOfRefraction must be >= 1")
	}
	return ShapeAttributes{
		Absorption:        absorption,
		Diffusion:         diffusion,
		IndexOfRefraction: indexOfRefraction,
		Translucent:       translucent,
		id:                alloc.Next(),
	}
}

// ID returns the attributes record's stable identity.
func (a ShapeAttributes) ID() uint64 {
	return a.id
}

// FreeSpace is the medium a ray traverses by default: no absorption, no
// diffusion, index of refraction 1, not translucent (there is nothing to
// refract into — free space only matters as a "from" medium).
var FreeSpace = ShapeAttributes{
	Absorption:        core.FractionalLightColor{},
	Diffusion:         0,
	IndexOfRefraction: 1,
	Translucent:       false,
	id:                0,
}
