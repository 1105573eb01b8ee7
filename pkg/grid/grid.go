// Package grid implements the Light Grid: a thread-safe accumulation
// buffer that rasterizes traced line segments into per-channel running
// sums and renders a tone-mapped RGB snapshot on demand.
//
// Grounded on the teacher's renderer.ProgressiveRaytracer/PixelStats
// pair — a shared [][]PixelStats accumulation array guarded by the
// caller's pass structure — generalized here into a single mutex-guarded
// struct, since the Grid (unlike the teacher's per-pass pixel array) is
// mutated concurrently by many in-flight Tracer batches rather than by
// disjoint non-overlapping tile writers.
package grid

import (
	"image"
	"math"
	"sync"

	"github.com/df07/lightbench/pkg/core"
)

// RenderProperties are the Grid's tunable presentation knobs.
type RenderProperties struct {
	Exposure float64
}

// LightGrid is the simulator's sole shared-mutable accumulation buffer.
// Every public mutating method holds mu for its duration: one
// draw_segments batch or one snapshot render, matching spec.md §4.2's
// "the only lock in the system" guarantee.
type LightGrid struct {
	mu sync.Mutex

	width, height int
	sums          []channelSums // row-major, length width*height

	totalSegmentCount  uint64
	latestLayoutVersion uint64
	props              RenderProperties
}

type channelSums struct {
	R, G, B uint32
}

// New allocates a zero-initialized Grid of the given pixel dimensions.
func New(width, height int, exposure float64) *LightGrid {
	return &LightGrid{
		width:  width,
		height: height,
		sums:   make([]channelSums, width*height),
		props:  RenderProperties{Exposure: exposure},
	}
}

// Reset zeroes the accumulation sums and segment count. If updateImage is
// true it returns a snapshot of the now-black image, otherwise nil; Reset
// does not invoke any handler itself (the Simulator decides whether to
// emit the returned snapshot).
func (g *LightGrid) Reset(updateImage bool) *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.sums {
		g.sums[i] = channelSums{}
	}
	g.totalSegmentCount = 0

	if updateImage {
		return g.snapshotLocked()
	}
	return nil
}

// SetRenderProperties atomically updates exposure (or other tunables)
// and returns a freshly tone-mapped snapshot without re-rasterizing.
func (g *LightGrid) SetRenderProperties(props RenderProperties) *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.props = props
	return g.snapshotLocked()
}

// DrawSegments rasterizes a batch of segments produced against
// layoutVersion. If layoutVersion is older than the Grid's latest
// accepted version the batch is dropped (stale) and DrawSegments returns
// nil without touching the sums. Otherwise every segment is rasterized,
// the segment count incremented, and a fresh snapshot returned.
func (g *LightGrid) DrawSegments(layoutVersion uint64, segments []LineSegment, lowQuality bool) *Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	if layoutVersion < g.latestLayoutVersion {
		return nil
	}
	g.latestLayoutVersion = layoutVersion

	for _, seg := range segments {
		if lowQuality {
			g.rasterizeBresenham(seg)
		} else {
			g.rasterizeWu(seg)
		}
	}
	g.totalSegmentCount += uint64(len(segments))

	return g.snapshotLocked()
}

// LineSegment is the Grid's rasterization input: endpoints plus the
// segment's carried light color.
type LineSegment struct {
	X1, Y1, X2, Y2 float64
	Color          core.LightColor
}

// Snapshot is an independently-owned rendered frame: safe for a reader
// to retain indefinitely without risk of observing a torn image, since
// it is a copy taken under the Grid's lock.
type Snapshot struct {
	Width, Height     int
	Pixels            []byte // row-major RGB, 4 bytes/pixel (alpha unused)
	TotalSegmentCount uint64
}

// snapshotLocked renders the current sums into a byte buffer. Callers
// must already hold g.mu.
func (g *LightGrid) snapshotLocked() *Snapshot {
	brightness := 0.0
	if g.totalSegmentCount > 0 {
		brightness = g.props.Exposure / float64(g.totalSegmentCount)
	}

	pixels := make([]byte, 4*g.width*g.height)
	for i, s := range g.sums {
		pixels[4*i+0] = clampByte(float64(s.R) * brightness)
		pixels[4*i+1] = clampByte(float64(s.G) * brightness)
		pixels[4*i+2] = clampByte(float64(s.B) * brightness)
		// pixels[4*i+3] (alpha) intentionally left zero — ignored by readers.
	}

	return &Snapshot{
		Width:             g.width,
		Height:            g.height,
		Pixels:            pixels,
		TotalSegmentCount: g.totalSegmentCount,
	}
}

func clampByte(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return byte(v)
}

// Bounds reports the image.Rectangle covering the full grid, convenient
// for callers constructing an image.RGBA from a Snapshot.
func (g *LightGrid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.width, g.height)
}

// addChannel adds the segment's color, scaled by compensation, into the
// pixel at (x,y). Out-of-bounds coordinates are silently ignored: a
// segment can legally graze the containment wall's padded range and
// produce an endpoint one unit outside the image.
func (g *LightGrid) addChannel(x, y int, color core.LightColor, compensation float64) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	idx := y*g.width + x
	g.sums[idx].R += uint32(float64(color.R) * compensation)
	g.sums[idx].G += uint32(float64(color.G) * compensation)
	g.sums[idx].B += uint32(float64(color.B) * compensation)
}

// hypotenuseCompensation returns the brightness multiplier that makes a
// diagonal line's per-step contribution comparable to a horizontal
// line's, capped at 2 per spec.md's documented policy choice (the
// uncapped variant is also spec-legal but this repository fixes the cap).
func hypotenuseCompensation(dx, dy float64) float64 {
	if dx == 0 {
		return 2
	}
	return math.Min(math.Hypot(dx, dy)/math.Abs(dx), 2)
}

// rasterizeBresenham draws seg with the fast, non-anti-aliased
// octant-normalized Bresenham algorithm.
func (g *LightGrid) rasterizeBresenham(seg LineSegment) {
	x0, y0 := int(math.Round(seg.X1)), int(math.Round(seg.Y1))
	x1, y1 := int(math.Round(seg.X2)), int(math.Round(seg.Y2))

	compensation := hypotenuseCompensation(seg.X2-seg.X1, seg.Y2-seg.Y1)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		g.addChannel(x, y, seg.Color, compensation)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// rasterizeWu draws seg with the modified Xiaolin Wu anti-aliased line
// algorithm: endpoint coverage fractions, two pixels plotted per
// major-axis step, modulated by the same hypotenuse compensation.
func (g *LightGrid) rasterizeWu(seg LineSegment) {
	x0, y0, x1, y1 := seg.X1, seg.Y1, seg.X2, seg.Y2
	compensation := hypotenuseCompensation(x1-x0, y1-y0)

	steep := math.Abs(y1-y0) > math.Abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := y1 - y0
	gradient := 1.0
	if dx != 0 {
		gradient = dy / dx
	}

	plot := func(x, y int, alpha float64) {
		c := core.NewLightColor(
			byte(math.Min(255, float64(seg.Color.R)*alpha)),
			byte(math.Min(255, float64(seg.Color.G)*alpha)),
			byte(math.Min(255, float64(seg.Color.B)*alpha)),
		)
		if steep {
			g.addChannel(y, x, c, compensation)
		} else {
			g.addChannel(x, y, c, compensation)
		}
	}

	// First endpoint.
	xEnd := math.Round(x0)
	yEnd := y0 + gradient*(xEnd-x0)
	xGap := rfpart(x0 + 0.5)
	xpxl1 := int(xEnd)
	ypxl1 := int(math.Floor(yEnd))
	plot(xpxl1, ypxl1, rfpart(yEnd)*xGap)
	plot(xpxl1, ypxl1+1, fpart(yEnd)*xGap)
	intersectY := yEnd + gradient

	// Second endpoint.
	xEnd = math.Round(x1)
	yEndFinal := y1 + gradient*(xEnd-x1)
	xGap = fpart(x1 + 0.5)
	xpxl2 := int(xEnd)
	ypxl2 := int(math.Floor(yEndFinal))
	plot(xpxl2, ypxl2, rfpart(yEndFinal)*xGap)
	plot(xpxl2, ypxl2+1, fpart(yEndFinal)*xGap)

	for x := xpxl1 + 1; x < xpxl2; x++ {
		y := int(math.Floor(intersectY))
		plot(x, y, rfpart(intersectY))
		plot(x, y+1, fpart(intersectY))
		intersectY += gradient
	}
}

func fpart(v float64) float64 {
	return v - math.Floor(v)
}

func rfpart(v float64) float64 {
	return 1 - fpart(v)
}
