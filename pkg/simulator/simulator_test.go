package simulator

import (
	"testing"
	"time"

	"github.com/df07/lightbench/pkg/core"
	"github.com/df07/lightbench/pkg/grid"
	"github.com/df07/lightbench/pkg/scene"
)

// discardLogger is a no-op core.Logger for tests: the Simulator now logs
// session lifecycle events, but tests only care about the snapshots.
type discardLogger struct{}

func (discardLogger) Printf(format string, args ...interface{}) {}

func newTestSimulator(t *testing.T) (*Simulator, chan *grid.Snapshot) {
	t.Helper()
	snaps := make(chan *grid.Snapshot, 64)
	sim := New(20, 20, 0, discardLogger{}, func(s *grid.Snapshot) {
		select {
		case snaps <- s:
		default:
		}
	})
	return sim, snaps
}

func awaitSnapshot(t *testing.T, snaps chan *grid.Snapshot) *grid.Snapshot {
	t.Helper()
	select {
	case s := <-snaps:
		return s
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for a snapshot")
		return nil
	}
}

func TestRestartWithNoLightsResetsAndEmitsImmediately(t *testing.T) {
	sim, snaps := newTestSimulator(t)
	layout := &scene.SimulationLayout{Version: 1}

	sim.Restart(layout, true)

	snap := awaitSnapshot(t, snaps)
	if snap.TotalSegmentCount != 0 {
		t.Errorf("expected an empty-light restart to emit a zero-segment snapshot, got %d", snap.TotalSegmentCount)
	}
}

func TestRestartWithLightsEventuallyProducesSegments(t *testing.T) {
	sim, snaps := newTestSimulator(t)
	alloc := core.NewIDAllocator()
	layout := &scene.SimulationLayout{
		Version: 1,
		Lights:  []scene.Light{scene.NewLight(alloc, core.NewVec2(10, 10), core.NewLightColor(255, 255, 255))},
	}

	sim.Restart(layout, true)

	deadline := time.After(3 * time.Second)
	for {
		select {
		case snap := <-snaps:
			if snap.TotalSegmentCount > 0 {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a non-empty snapshot")
			return
		}
	}
}

func TestStopCancelsInFlightWork(t *testing.T) {
	sim, snaps := newTestSimulator(t)
	alloc := core.NewIDAllocator()
	layout := &scene.SimulationLayout{
		Version: 1,
		Lights:  []scene.Light{scene.NewLight(alloc, core.NewVec2(10, 10), core.NewLightColor(255, 255, 255))},
	}

	sim.Restart(layout, false)
	awaitSnapshot(t, snaps) // drain the immediate render-properties snapshot
	sim.Stop()

	// Stop should not panic or deadlock; a follow-up SetExposure must
	// still be serviced since the orchestration goroutine keeps running.
	sim.SetExposure(0.5)
	awaitSnapshot(t, snaps)
}

func TestSetExposureReemitsWithoutRetracing(t *testing.T) {
	sim, snaps := newTestSimulator(t)
	layout := &scene.SimulationLayout{Version: 1}
	sim.Restart(layout, true)
	awaitSnapshot(t, snaps)

	sim.SetExposure(0.9)
	snap := awaitSnapshot(t, snaps)
	if snap.TotalSegmentCount != 0 {
		t.Errorf("expected SetExposure to re-emit without tracing any new segments, got count %d", snap.TotalSegmentCount)
	}
}

func TestEffectiveExposureScalesWithLightCountAndRawExposure(t *testing.T) {
	base := effectiveExposure(0, 1)
	moreLights := effectiveExposure(0, 3)
	if moreLights <= base {
		t.Errorf("expected more lights to raise effective exposure, got %v vs %v", moreLights, base)
	}

	brighter := effectiveExposure(0.5, 1)
	if brighter <= base {
		t.Errorf("expected a higher raw exposure to raise effective exposure, got %v vs %v", brighter, base)
	}
}

func TestNextBatchSizeExhaustsBudget(t *testing.T) {
	remaining := int64(standardTracerSize + 100)

	first := nextBatchSize(&remaining)
	if first != standardTracerSize {
		t.Errorf("expected first batch to claim the full standard size, got %d", first)
	}

	second := nextBatchSize(&remaining)
	if second != 100 {
		t.Errorf("expected second batch to claim the remainder, got %d", second)
	}

	third := nextBatchSize(&remaining)
	if third != 0 {
		t.Errorf("expected an exhausted budget to yield 0, got %d", third)
	}
}
