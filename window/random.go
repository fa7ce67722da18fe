package window

import (
	"fmt"
	"math/rand"

	"github.com/fieldsim/pdewin/trajectory"
)

// RandomizedSampler draws one fixed-horizon training window per trajectory
// per pass. The window start is uniform over the closed range
// [SkipNT, TrajLen - history - future - gap]; the range is validated at
// construction so a configuration with no valid start fails before any
// window is emitted.
type RandomizedSampler struct {
	src     trajectory.Stream
	cfg     trajectory.Config
	history int
	future  int
	gap     int

	maxStart int
	rng      *rand.Rand
}

// NewRandomizedSampler builds a randomized fixed-horizon sampler over src.
// rng must not be nil: randomness is injected so per-worker sampling stays
// reproducible and uncorrelated across shards.
func NewRandomizedSampler(src trajectory.Stream, cfg trajectory.Config, history, future, gap int, rng *rand.Rand) (*RandomizedSampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("randomized sampler needs an explicit random generator")
	}
	if history < 1 || future < 1 || gap < 0 {
		return nil, fmt.Errorf("invalid window shape: history=%d future=%d gap=%d", history, future, gap)
	}
	maxStart := cfg.TrajLen - history - future - gap
	if maxStart < cfg.SkipNT {
		return nil, fmt.Errorf("no valid start times: max start %d is before the first samplable step %d", maxStart, cfg.SkipNT)
	}
	return &RandomizedSampler{
		src:      src,
		cfg:      cfg,
		history:  history,
		future:   future,
		gap:      gap,
		maxStart: maxStart,
		rng:      rng,
	}, nil
}

// Next pulls one trajectory and emits one window at a uniformly drawn start.
func (s *RandomizedSampler) Next() (*Window, error) {
	tr, err := drain(s.src, s.cfg)
	if err != nil {
		return nil, err
	}
	start := s.cfg.SkipNT + s.rng.Intn(s.maxStart-s.cfg.SkipNT+1)
	w, err := assemble(tr, start, s.history, s.future, s.gap, true)
	if err != nil {
		return nil, err
	}
	// Horizon of one autoregressive application: the stride from the end of
	// the input to the end of the label.
	w.DeltaT = s.gap + s.future
	return w, nil
}

// Reset rewinds the sampler's source for a new pass.
func (s *RandomizedSampler) Reset() error {
	return s.src.Reset()
}
