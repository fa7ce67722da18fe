// Package pipeline composes the external data stages (list, filter, shuffle,
// shard, open) with exactly one window sampler or enumerator, producing the
// lazy stream a training or evaluation loop consumes.
package pipeline

import (
	"fmt"
	"math/rand"

	"github.com/fieldsim/pdewin/trajectory"
	"github.com/fieldsim/pdewin/window"
)

// Options are the call-site windowing parameters. Zero values for
// TimeHistory and TimeFuture mean one step each, matching the usual
// one-step-in, one-step-out setup.
type Options struct {
	// TimeHistory is the number of past steps composing a window's input.
	TimeHistory int
	// TimeFuture is the number of future steps composing a window's label.
	TimeFuture int
	// TimeGap is the number of steps skipped between input and label.
	TimeGap int
	// OneStep attaches the exhaustive evaluation enumerator for non-train
	// modes.
	OneStep bool
	// Conditioned selects the variable-horizon sampler for training on
	// horizon-conditioned models.
	Conditioned bool
}

func (o Options) normalized() Options {
	if o.TimeHistory == 0 {
		o.TimeHistory = 1
	}
	if o.TimeFuture == 0 {
		o.TimeFuture = 1
	}
	return o
}

// Pipeline is the built stream pair. Trajectories is the post-open (and, for
// training, cycled) trajectory stream. Windows is the attached sampler's
// output; it is nil when the mode/flag combination attaches no sampler, in
// which case the caller consumes raw trajectories.
type Pipeline struct {
	Trajectories trajectory.Stream
	Windows      window.Stream
}

// Build lists containers under root, filters and (for training) shuffles
// them, shards the survivors, opens them into a lazy trajectory stream, and
// attaches one sampler per the mode/flag table:
//
//	train + conditioned  -> reweighted variable-horizon sampler
//	train                -> randomized fixed-horizon sampler
//	valid/test + onestep -> exhaustive one-step enumerator
//
// Any other combination attaches no sampler. Training pipelines cycle the
// trajectory stream TrajLen times so random draws cover each trajectory in
// expectation. rng drives both the shuffle and the samplers and must be set
// for training; keep it deterministically seeded per worker.
func Build(cfg trajectory.Config, root string, limit int, useGrid bool,
	open trajectory.Opener, list trajectory.Lister, shard trajectory.Sharder,
	keep trajectory.Filter, mode trajectory.Mode, opts Options, rng *rand.Rand) (*Pipeline, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if open == nil || list == nil {
		return nil, fmt.Errorf("pipeline needs a lister and an opener")
	}
	opts = opts.normalized()

	paths, err := list(root)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	if keep != nil {
		kept := paths[:0]
		for _, p := range paths {
			if keep(p) {
				kept = append(kept, p)
			}
		}
		paths = kept
	}
	if mode == trajectory.Train {
		if rng == nil {
			return nil, fmt.Errorf("training pipeline needs an explicit random generator")
		}
		rng.Shuffle(len(paths), func(i, j int) {
			paths[i], paths[j] = paths[j], paths[i]
		})
	}
	if shard != nil {
		paths = shard(paths)
	}

	src, err := open(paths, mode, limit, useGrid)
	if err != nil {
		return nil, fmt.Errorf("opening containers: %w", err)
	}
	if mode == trajectory.Train {
		src, err = trajectory.Cycle(src, cfg.TrajLen)
		if err != nil {
			return nil, err
		}
	}

	p := &Pipeline{Trajectories: src}
	switch {
	case mode == trajectory.Train && opts.Conditioned:
		p.Windows, err = window.NewReweightedSampler(src, cfg, rng)
	case mode == trajectory.Train:
		p.Windows, err = window.NewRandomizedSampler(src, cfg, opts.TimeHistory, opts.TimeFuture, opts.TimeGap, rng)
	case opts.OneStep:
		p.Windows, err = window.NewEvalEnumerator(src, cfg, opts.TimeHistory, opts.TimeFuture, opts.TimeGap)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
