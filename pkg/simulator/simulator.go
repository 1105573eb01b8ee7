// Package simulator implements the worker-pool orchestrator that turns
// layout changes into a stream of Grid snapshots: a single-worker
// orchestration queue serializes restart/stop/exposure changes, while a
// bounded-concurrency tracer pool runs Tracer batches and feeds their
// segments into the Grid.
//
// Grounded on the teacher's renderer.WorkerPool + ProgressiveRaytracer
// pair: a channel-fed pool of long-lived workers draining a task queue,
// with a single orchestrating goroutine (here, the session itself)
// submitting and collecting work — generalized from the teacher's
// per-pass "submit all tiles, wait for all results" barrier into a
// long-running, cancel-and-refill pipeline since the simulator's tracer
// jobs are not a fixed one-shot batch but a self-refilling budget.
package simulator

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sync/atomic"

	"github.com/df07/lightbench/pkg/core"
	"github.com/df07/lightbench/pkg/grid"
	"github.com/df07/lightbench/pkg/scene"
	"github.com/df07/lightbench/pkg/tracer"
)

const (
	interactiveMaxSegmentsToTrace = 200
	finalMaxSegmentsToTrace       = 10_000_000
	standardTracerSize            = 100_000
)

// SnapshotHandler is invoked with each new Snapshot the Grid produces.
// Called from whichever tracer or orchestration goroutine produced it;
// implementations must not block for long, since the Grid's lock is
// already released by the time this fires but the orchestration queue
// may be waiting on the same goroutine in other code paths.
type SnapshotHandler func(*grid.Snapshot)

// session tracks one restart's worth of in-flight state: its
// cancellation, the layout it is tracing, and (for final sessions) the
// remaining segment budget.
type session struct {
	ctx       context.Context
	cancel    context.CancelFunc
	layout    *scene.SimulationLayout
	remaining int64 // atomic; only meaningful for non-interactive sessions

	loggedCancel int32 // atomic; guards against one log line per worker
	loggedDone   int32 // atomic; guards against one log line per worker
}

// logOnce atomically flips flag from 0 to 1 and reports whether this
// call was the one that flipped it, so concurrent tracer workers
// racing to notice the same session-wide event (cancellation, budget
// exhaustion) log it exactly once.
func logOnce(flag *int32) bool {
	return atomic.CompareAndSwapInt32(flag, 0, 1)
}

// Simulator is the public orchestrator described in spec.md §4.3: one
// Grid, a single-worker orchestration queue, and a bounded-concurrency
// tracer pool.
type Simulator struct {
	grid            *grid.LightGrid
	width, height   int
	logger          core.Logger
	snapshotHandler SnapshotHandler

	orchestration chan func()
	tracerSlots   chan struct{}

	// exposure/lightCount are only touched from the orchestration
	// goroutine, so they need no lock of their own.
	exposure   float64
	lightCount int

	current *session

	seedCounter uint64 // atomic, gives each tracer job a distinct RNG seed
}

// New creates a Simulator with its own Grid and worker pools. The
// orchestration goroutine runs for the lifetime of the process; there is
// no Close, mirroring the teacher's worker pool which is torn down only
// when the owning program exits.
func New(width, height int, initialExposure float64, logger core.Logger, handler SnapshotHandler) *Simulator {
	numWorkers := runtime.NumCPU()
	if numWorkers < 1 {
		numWorkers = 1
	}

	s := &Simulator{
		grid:            grid.New(width, height, initialExposure),
		width:           width,
		height:          height,
		logger:          logger,
		snapshotHandler: handler,
		orchestration:   make(chan func(), 64),
		tracerSlots:     make(chan struct{}, numWorkers),
		exposure:        initialExposure,
	}

	go s.runOrchestration()
	return s
}

func (s *Simulator) runOrchestration() {
	for task := range s.orchestration {
		task()
	}
}

func (s *Simulator) post(task func()) {
	s.orchestration <- task
}

func (s *Simulator) emit(snap *grid.Snapshot) {
	if snap != nil && s.snapshotHandler != nil {
		s.snapshotHandler(snap)
	}
}

// effectiveExposure applies the exposure formula from spec.md §6:
// exp(1+10*exposure) * light_count. The Grid itself divides this by
// total_segment_count at snapshot time.
func effectiveExposure(rawExposure float64, lightCount int) float64 {
	return math.Exp(1+10*rawExposure) * float64(lightCount)
}

// Restart replaces the current layout and (re)starts tracing. Safe to
// call from the editor's single thread at any time; internally
// serialized onto the orchestration queue.
func (s *Simulator) Restart(layout *scene.SimulationLayout, interactive bool) {
	s.post(func() { s.doRestart(layout, interactive) })
}

func (s *Simulator) doRestart(layout *scene.SimulationLayout, interactive bool) {
	if s.current != nil {
		s.current.cancel()
	}

	s.logger.Printf("Restarting simulation (version=%d, interactive=%v, lights=%d)\n",
		layout.Version, interactive, len(layout.Lights))

	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{ctx: ctx, cancel: cancel, layout: layout}
	s.current = sess

	s.lightCount = len(layout.Lights)
	snap := s.grid.SetRenderProperties(grid.RenderProperties{
		Exposure: effectiveExposure(s.exposure, s.lightCount),
	})
	s.emit(snap)

	if len(layout.Lights) == 0 {
		s.logger.Printf("No lights in layout, nothing to trace\n")
		s.emit(s.grid.Reset(true))
		return
	}

	s.grid.Reset(false)

	if interactive {
		s.dispatchTracer(sess, interactiveMaxSegmentsToTrace, true)
		return
	}

	sess.remaining = finalMaxSegmentsToTrace
	concurrency := cap(s.tracerSlots)
	for i := 0; i < concurrency; i++ {
		size := nextBatchSize(&sess.remaining)
		if size <= 0 {
			if logOnce(&sess.loggedDone) {
				s.logger.Printf("Reached final segment budget for layout version %d, stopping\n", sess.layout.Version)
			}
			break
		}
		s.dispatchTracer(sess, size, false)
	}
}

// nextBatchSize atomically carves up to standardTracerSize off the
// remaining budget and returns the amount actually claimed (0 if the
// budget is already exhausted).
func nextBatchSize(remaining *int64) int {
	for {
		current := atomic.LoadInt64(remaining)
		if current <= 0 {
			return 0
		}
		size := int64(standardTracerSize)
		if size > current {
			size = current
		}
		if atomic.CompareAndSwapInt64(remaining, current, current-size) {
			return int(size)
		}
	}
}

// dispatchTracer runs one Tracer job on the bounded tracer pool. The
// slot acquisition happens inside the goroutine (not before spawning it)
// so that Restart/Stop are never blocked waiting for a free slot.
func (s *Simulator) dispatchTracer(sess *session, size int, lowQuality bool) {
	go func() {
		s.tracerSlots <- struct{}{}
		defer func() { <-s.tracerSlots }()

		seed := atomic.AddUint64(&s.seedCounter, 1)
		random := rand.New(rand.NewSource(int64(seed)))

		segments := tracer.Trace(sess.layout, s.width, s.height, size, sess.ctx.Done(), random)
		cancelled := sess.ctx.Err() != nil
		if cancelled && logOnce(&sess.loggedCancel) {
			s.logger.Printf("Tracing cancelled for layout version %d\n", sess.layout.Version)
		}

		lineSegments := make([]grid.LineSegment, len(segments))
		for i, seg := range segments {
			lineSegments[i] = grid.LineSegment{
				X1: seg.Pos1.X, Y1: seg.Pos1.Y,
				X2: seg.Pos2.X, Y2: seg.Pos2.Y,
				Color: seg.Color,
			}
		}

		snap := s.grid.DrawSegments(sess.layout.Version, lineSegments, lowQuality)
		s.emit(snap)

		if !lowQuality && !cancelled {
			s.post(func() { s.refill(sess) })
		}
	}()
}

// refill dispatches the next final-tracer batch for sess, if its budget
// is not yet exhausted and it is still the current session.
func (s *Simulator) refill(sess *session) {
	if sess.ctx.Err() != nil {
		return
	}
	size := nextBatchSize(&sess.remaining)
	if size <= 0 {
		if logOnce(&sess.loggedDone) {
			s.logger.Printf("Reached final segment budget for layout version %d, stopping\n", sess.layout.Version)
		}
		return
	}
	s.dispatchTracer(sess, size, false)
}

// Stop cancels all in-flight tracer work and leaves the Grid's last
// rendered image in place.
func (s *Simulator) Stop() {
	s.post(func() {
		if s.current != nil {
			s.current.cancel()
			s.current = nil
		}
	})
}

// SetExposure updates the raw exposure value and triggers a snapshot
// re-emit without re-rasterizing.
func (s *Simulator) SetExposure(exposure float64) {
	s.post(func() {
		s.exposure = exposure
		snap := s.grid.SetRenderProperties(grid.RenderProperties{
			Exposure: effectiveExposure(s.exposure, s.lightCount),
		})
		s.emit(snap)
	})
}
