package window

import (
	"fmt"

	"github.com/fieldsim/pdewin/trajectory"
)

// EvalEnumerator deterministically enumerates every valid fixed-horizon
// window of each trajectory: starts run from SkipNT to the last valid start
// in strides of gap+future, so consecutive label ranges tile the trajectory
// without overlap. The output order is stable across runs, as reproducible
// evaluation metrics require.
type EvalEnumerator struct {
	src     trajectory.Stream
	cfg     trajectory.Config
	history int
	future  int
	gap     int
	starts  []int

	cur *trajectory.Trajectory
	idx int
}

// NewEvalEnumerator builds the exhaustive one-step evaluation enumerator.
func NewEvalEnumerator(src trajectory.Stream, cfg trajectory.Config, history, future, gap int) (*EvalEnumerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if history < 1 || future < 1 || gap < 0 {
		return nil, fmt.Errorf("invalid window shape: history=%d future=%d gap=%d", history, future, gap)
	}
	maxStart := cfg.TrajLen - history - future - gap
	if maxStart < cfg.SkipNT {
		return nil, fmt.Errorf("no valid start times: max start %d is before the first samplable step %d", maxStart, cfg.SkipNT)
	}
	stride := gap + future
	var starts []int
	for t := cfg.SkipNT; t <= maxStart; t += stride {
		starts = append(starts, t)
	}
	return &EvalEnumerator{
		src:     src,
		cfg:     cfg,
		history: history,
		future:  future,
		gap:     gap,
		starts:  starts,
	}, nil
}

// Next yields the window at the next enumerated start of the current
// trajectory, pulling a new trajectory once the start list is exhausted.
func (e *EvalEnumerator) Next() (*Window, error) {
	for {
		if e.cur == nil {
			tr, err := drain(e.src, e.cfg)
			if err != nil {
				return nil, err
			}
			e.cur = tr
			e.idx = 0
		}
		if e.idx >= len(e.starts) {
			e.cur = nil
			continue
		}
		start := e.starts[e.idx]
		e.idx++
		// The grid is not part of evaluation inputs; scalar-only or
		// vector-only configurations simply omit the absent field.
		w, err := assemble(e.cur, start, e.history, e.future, e.gap, false)
		if err != nil {
			return nil, err
		}
		w.DeltaT = e.gap + e.future
		return w, nil
	}
}

// Reset rewinds the enumerator and its source for a new pass.
func (e *EvalEnumerator) Reset() error {
	e.cur = nil
	e.idx = 0
	return e.src.Reset()
}
