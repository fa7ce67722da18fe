package window

import (
	"io"
	"math/rand"
	"testing"

	"github.com/fieldsim/pdewin/trajectory"
)

func TestRandomizedSamplerBounds(t *testing.T) {
	cfg := trajectory.Config{TrajLen: 12, SkipNT: 2, ScalarComponents: 1, VectorComponents: 2}
	history, future, gap := 2, 2, 1
	maxStart := cfg.TrajLen - history - future - gap // 7

	tr := testTrajectory(t, cfg, false, nil)
	src, err := trajectory.Cycle(sourceOf(tr), 500)
	if err != nil {
		t.Fatalf("Cycle failed: %v", err)
	}
	s, err := NewRandomizedSampler(src, cfg, history, future, gap, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("NewRandomizedSampler failed: %v", err)
	}

	seen := make(map[int]bool)
	for {
		w, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		start := inputStart(w)
		if start < cfg.SkipNT || start > maxStart {
			t.Fatalf("start %d outside [%d, %d]", start, cfg.SkipNT, maxStart)
		}
		if got := labelStart(w); got != start+history+gap {
			t.Fatalf("label starts at %d, want %d", got, start+history+gap)
		}
		if w.Input.Times != history || w.Label.Times != future {
			t.Fatalf("unexpected window extents: input=%d label=%d", w.Input.Times, w.Label.Times)
		}
		if w.Input.Channels != 3 || w.Label.Channels != 3 {
			t.Fatalf("unexpected channel counts: input=%d label=%d", w.Input.Channels, w.Label.Channels)
		}
		if w.DeltaT != gap+future {
			t.Fatalf("unexpected delta_t %d", w.DeltaT)
		}
		seen[start] = true
	}
	// 500 draws over 6 valid starts should hit every one of them.
	for start := cfg.SkipNT; start <= maxStart; start++ {
		if !seen[start] {
			t.Errorf("start %d never drawn", start)
		}
	}
}

func TestRandomizedSamplerReproducible(t *testing.T) {
	cfg := trajectory.Config{TrajLen: 16, ScalarComponents: 1}
	tr := testTrajectory(t, cfg, false, nil)

	draw := func(seed int64) []int {
		src, err := trajectory.Cycle(sourceOf(tr), 50)
		if err != nil {
			t.Fatalf("Cycle failed: %v", err)
		}
		s, err := NewRandomizedSampler(src, cfg, 2, 1, 0, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("NewRandomizedSampler failed: %v", err)
		}
		var starts []int
		for {
			w, err := s.Next()
			if err == io.EOF {
				return starts
			}
			if err != nil {
				t.Fatalf("Next failed: %v", err)
			}
			starts = append(starts, inputStart(w))
		}
	}

	a, b := draw(99), draw(99)
	if len(a) != 50 {
		t.Fatalf("expected 50 draws, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at draw %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestRandomizedSamplerNoValidStart(t *testing.T) {
	// skip_nt leaves no room for a 4+4+2 window in 10 steps.
	cfg := trajectory.Config{TrajLen: 10, SkipNT: 1, ScalarComponents: 1}
	_, err := NewRandomizedSampler(sourceOf(), cfg, 4, 4, 2, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatalf("expected construction to fail when max start precedes skip_nt")
	}
}

func TestRandomizedSamplerNeedsRNG(t *testing.T) {
	cfg := trajectory.Config{TrajLen: 10, ScalarComponents: 1}
	if _, err := NewRandomizedSampler(sourceOf(), cfg, 1, 1, 0, nil); err == nil {
		t.Fatalf("expected construction to fail without a random generator")
	}
}

func TestRandomizedSamplerRejectsMalformedTrajectory(t *testing.T) {
	cfg := trajectory.Config{TrajLen: 8, ScalarComponents: 1}
	// One step short of the configured length.
	bad := &trajectory.Trajectory{Scalar: trajectory.NewField(7, 1, 2, 2)}

	s, err := NewRandomizedSampler(sourceOf(bad), cfg, 1, 1, 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("NewRandomizedSampler failed: %v", err)
	}
	if _, err := s.Next(); err == nil || err == io.EOF {
		t.Fatalf("expected contract violation before any window, got %v", err)
	}
}
