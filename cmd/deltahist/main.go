// Command deltahist inspects the empirical horizon distribution of the
// variable-horizon training sampler. It synthesizes a set of trajectories,
// draws many windows with reweighing on and off, and renders both delta_t
// frequency curves to a PNG so the bias correction can be judged by eye.
package main

import (
	"flag"
	"image/color"
	"log"
	"math"
	"math/rand"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/fieldsim/pdewin/trajectory"
	"github.com/fieldsim/pdewin/window"
)

// syntheticTrajectories builds smooth wave-like scalar trajectories, enough
// to exercise the samplers without any real solver output on disk.
func syntheticTrajectories(cfg trajectory.Config, count int, rng *rand.Rand) []*trajectory.Trajectory {
	side := 8
	out := make([]*trajectory.Trajectory, 0, count)
	for n := 0; n < count; n++ {
		phase := rng.Float64() * 2 * math.Pi
		freq := 0.5 + rng.Float64()
		scalar := trajectory.NewField(cfg.TrajLen, cfg.ScalarComponents, side, side)
		for t := 0; t < cfg.TrajLen; t++ {
			step := scalar.Step(t)
			for i := range step {
				step[i] = float32(math.Sin(phase + freq*float64(t) + 0.1*float64(i)))
			}
		}
		out = append(out, &trajectory.Trajectory{
			Scalar: scalar,
			Cond:   []float32{float32(freq)},
		})
	}
	return out
}

// horizonCounts draws windows from the sampler until it has the requested
// number and tallies DeltaT occurrences.
func horizonCounts(s window.Stream, draws, trajLen int) ([]float64, error) {
	counts := make([]float64, trajLen)
	for i := 0; i < draws; i++ {
		w, err := s.Next()
		if err != nil {
			return nil, err
		}
		counts[w.DeltaT]++
	}
	return counts, nil
}

// frequencyLine converts horizon counts into a normalized frequency curve.
func frequencyLine(counts []float64, draws int) plotter.XYs {
	xys := make(plotter.XYs, 0, len(counts))
	for h := 1; h < len(counts); h++ {
		xys = append(xys, plotter.XY{X: float64(h), Y: counts[h] / float64(draws)})
	}
	return xys
}

func main() {
	trajLen := flag.Int("trajlen", 56, "trajectory length in solver steps")
	numTraj := flag.Int("trajectories", 16, "number of synthetic trajectories")
	draws := flag.Int("draws", 200000, "number of windows to draw per variant")
	seed := flag.Int64("seed", 42, "random seed")
	out := flag.String("out", "deltahist.png", "output PNG path")
	flag.Parse()

	cfg := trajectory.Config{TrajLen: *trajLen, ScalarComponents: 1}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	rng := rand.New(rand.NewSource(*seed))
	trajs := syntheticTrajectories(cfg, *numTraj, rng)

	// Enough passes over the trajectory set to cover the requested draws.
	passes := (*draws + len(trajs) - 1) / len(trajs)

	variants := []struct {
		name    string
		reweigh bool
		col     color.RGBA
	}{
		{"reweighted", true, color.RGBA{R: 200, G: 30, B: 30, A: 255}},
		{"uniform", false, color.RGBA{R: 20, G: 80, B: 200, A: 255}},
	}

	p := plot.New()
	p.Title.Text = "Empirical delta_t distribution"
	p.X.Label.Text = "delta_t"
	p.Y.Label.Text = "frequency"

	for _, v := range variants {
		src, err := trajectory.Cycle(trajectory.NewSliceStream(trajs...), passes)
		if err != nil {
			log.Fatalf("building source stream: %v", err)
		}
		sampler, err := window.NewReweightedSampler(src, cfg, rand.New(rand.NewSource(*seed)))
		if err != nil {
			log.Fatalf("building %s sampler: %v", v.name, err)
		}
		sampler.Reweigh = v.reweigh

		log.Printf("Drawing %d windows (%s)...", *draws, v.name)
		counts, err := horizonCounts(sampler, *draws, cfg.TrajLen)
		if err != nil {
			log.Fatalf("sampling (%s): %v", v.name, err)
		}

		line, err := plotter.NewLine(frequencyLine(counts, *draws))
		if err != nil {
			log.Fatalf("building line (%s): %v", v.name, err)
		}
		line.Color = v.col
		line.Width = vg.Points(1.2)
		p.Add(line)
		p.Legend.Add(v.name, line)
	}
	p.Add(plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 6*vg.Inch, *out); err != nil {
		log.Fatalf("saving plot: %v", err)
	}
	log.Printf("Wrote %s", *out)
}
