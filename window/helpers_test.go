package window

import (
	"testing"

	"github.com/fieldsim/pdewin/trajectory"
)

// testTrajectory builds a trajectory matching cfg whose scalar values at time
// step t all equal t, vector values equal 100+t and grid values equal 1000,
// so windows can be traced back to the steps they were cut from.
func testTrajectory(t *testing.T, cfg trajectory.Config, withGrid bool, cond []float32, spatial ...int) *trajectory.Trajectory {
	t.Helper()
	if len(spatial) == 0 {
		spatial = []int{2, 2}
	}
	tr := &trajectory.Trajectory{Cond: cond}
	fill := func(f *trajectory.Field, base float32) {
		for ts := 0; ts < f.Times; ts++ {
			step := f.Step(ts)
			for i := range step {
				step[i] = base + float32(ts)
			}
		}
	}
	if cfg.ScalarComponents > 0 {
		tr.Scalar = trajectory.NewField(cfg.TrajLen, cfg.ScalarComponents, spatial...)
		fill(tr.Scalar, 0)
	}
	if cfg.VectorComponents > 0 {
		tr.Vector = trajectory.NewField(cfg.TrajLen, cfg.VectorComponents, spatial...)
		fill(tr.Vector, 100)
	}
	if withGrid {
		tr.Grid = trajectory.NewField(1, len(spatial), spatial...)
		fill(tr.Grid, 1000)
	}
	if err := tr.Validate(cfg); err != nil {
		t.Fatalf("test trajectory invalid: %v", err)
	}
	return tr
}

// sourceOf wraps trajectories in a fresh slice stream.
func sourceOf(trs ...*trajectory.Trajectory) trajectory.Stream {
	return trajectory.NewSliceStream(trs...)
}

// inputStart recovers the time step a window's input begins at, relying on
// the ramp encoding of testTrajectory's scalar field.
func inputStart(w *Window) int {
	return int(w.Input.Data[0])
}

// labelStart recovers the time step a window's label begins at.
func labelStart(w *Window) int {
	return int(w.Label.Data[0])
}
