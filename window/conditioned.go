package window

import (
	"fmt"

	"github.com/fieldsim/pdewin/trajectory"
)

// ConditionedEnumerator deterministically enumerates single-point windows at
// one fixed horizon for evaluating a horizon-conditioned model. For each
// phase offset begin in [0, deltaT) the trajectory is downsampled by stride
// deltaT starting at begin, and every consecutive pair of downsampled points
// becomes a window. Across all phase offsets this covers every ordered pair
// of trajectory points exactly deltaT solver steps apart, each exactly once.
type ConditionedEnumerator struct {
	src    trajectory.Stream
	cfg    trajectory.Config
	deltaT int

	cur   *trajectory.Trajectory
	begin int
	pair  int
	count int
}

// NewConditionedEnumerator builds the fixed-horizon enumerator. The horizon
// must satisfy 2*deltaT < TrajLen so every enumerated point has an in-bounds
// successor; violations fail here, not at iteration time.
func NewConditionedEnumerator(src trajectory.Stream, cfg trajectory.Config, deltaT int) (*ConditionedEnumerator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deltaT < 1 {
		return nil, fmt.Errorf("horizon must be positive, got %d", deltaT)
	}
	if 2*deltaT >= cfg.TrajLen {
		return nil, fmt.Errorf("horizon %d too large for trajectory length %d: need 2*horizon < length", deltaT, cfg.TrajLen)
	}
	return &ConditionedEnumerator{src: src, cfg: cfg, deltaT: deltaT}, nil
}

// downsampleCount returns the length of the downsampled sequence starting at
// begin with stride deltaT: ceil((TrajLen-begin)/deltaT).
func (e *ConditionedEnumerator) downsampleCount(begin int) int {
	return (e.cfg.TrajLen - begin + e.deltaT - 1) / e.deltaT
}

// Next yields the next consecutive downsampled pair of the current
// trajectory, advancing through phase offsets and then to the next
// trajectory.
func (e *ConditionedEnumerator) Next() (*Window, error) {
	for {
		if e.cur == nil {
			tr, err := drain(e.src, e.cfg)
			if err != nil {
				return nil, err
			}
			e.cur = tr
			e.begin = 0
			e.pair = 0
			e.count = e.downsampleCount(0)
		}
		if e.pair+1 >= e.count {
			e.begin++
			if e.begin >= e.deltaT {
				e.cur = nil
				continue
			}
			e.pair = 0
			e.count = e.downsampleCount(e.begin)
			continue
		}
		startT := e.begin + e.pair*e.deltaT
		e.pair++
		return assemblePair(e.cur, startT, startT+e.deltaT)
	}
}

// Reset rewinds the enumerator and its source for a new pass.
func (e *ConditionedEnumerator) Reset() error {
	e.cur = nil
	e.begin = 0
	e.pair = 0
	e.count = 0
	return e.src.Reset()
}
