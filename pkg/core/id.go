package core

import "sync/atomic"

// IDAllocator hands out strictly increasing identifiers for scene
// primitives and ShapeAttributes records. Wraparound would be a bug;
// at current allocation rates (one id per primitive an editor ever
// constructs) it cannot occur in practice. An allocator is owned by
// whichever layout builder is assembling a scene rather than shared as a
// true process-wide global, per spec.md's suggestion that this localize
// cleanly.
type IDAllocator struct {
	next uint64
}

// NewIDAllocator creates an allocator starting at id 1 (0 is reserved to
// mean "no id" for contexts like a ray's SourceItemID).
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 0}
}

// Next returns the next strictly increasing id.
func (a *IDAllocator) Next() uint64 {
	return atomic.AddUint64(&a.next, 1)
}
