package window

import (
	"fmt"
	"math/rand"

	"github.com/fieldsim/pdewin/trajectory"
)

// ReweightedSampler draws one variable-horizon training window per
// trajectory per pass for horizon-conditioned models. The window end is
// uniform over [1, TrajLen-1]; the start is drawn from [0, end) either
// uniformly or, when Reweigh is set, with weight 1/(k+1) for start offset k.
//
// Plain uniform start/end sampling admits far more short-horizon windows
// than long-horizon ones, so horizons near the trajectory length are
// systematically under-represented; the inverse-offset weighting rebalances
// the draw so long horizons get comparable exposure.
type ReweightedSampler struct {
	// Reweigh enables the inverse-offset start weighting. On by default.
	Reweigh bool

	src trajectory.Stream
	cfg trajectory.Config
	rng *rand.Rand
}

// NewReweightedSampler builds a variable-horizon sampler over src with
// reweighing enabled. rng must not be nil.
func NewReweightedSampler(src trajectory.Stream, cfg trajectory.Config, rng *rand.Rand) (*ReweightedSampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("reweighted sampler needs an explicit random generator")
	}
	return &ReweightedSampler{Reweigh: true, src: src, cfg: cfg, rng: rng}, nil
}

// weightedStart draws a start offset from [0, end) with weights 1/(k+1),
// scanning the cumulative weight the same way neighbors are sampled by
// inverse distance.
func (s *ReweightedSampler) weightedStart(end int) int {
	total := 0.0
	for k := 0; k < end; k++ {
		total += 1.0 / float64(k+1)
	}
	target := s.rng.Float64() * total
	acc := 0.0
	for k := 0; k < end; k++ {
		acc += 1.0 / float64(k+1)
		if target <= acc {
			return k
		}
	}
	return end - 1
}

// Next pulls one trajectory and emits one single-point window whose input is
// the state at the drawn start, label the state at the drawn end, and DeltaT
// the horizon between them. The trajectory's conditioning vector rides along
// unchanged.
func (s *ReweightedSampler) Next() (*Window, error) {
	tr, err := drain(s.src, s.cfg)
	if err != nil {
		return nil, err
	}
	end := 1 + s.rng.Intn(s.cfg.TrajLen-1)
	var start int
	if s.Reweigh {
		start = s.weightedStart(end)
	} else {
		start = s.rng.Intn(end)
	}
	return assemblePair(tr, start, end)
}

// Reset rewinds the sampler's source for a new pass.
func (s *ReweightedSampler) Reset() error {
	return s.src.Reset()
}
