package trajectory

import "testing"

// rampField builds a field whose every value at time step t equals base+t,
// so tests can identify which step a buffer came from.
func rampField(t *testing.T, times, channels int, base float32, spatial ...int) *Field {
	t.Helper()
	f := NewField(times, channels, spatial...)
	for ts := 0; ts < times; ts++ {
		step := f.Step(ts)
		for i := range step {
			step[i] = base + float32(ts)
		}
	}
	return f
}

func TestFieldShape(t *testing.T) {
	f := NewField(4, 2, 3, 3)
	if got := f.SpatialSize(); got != 9 {
		t.Fatalf("expected spatial size 9, got %d", got)
	}
	if got := f.StepSize(); got != 18 {
		t.Fatalf("expected step size 18, got %d", got)
	}
	if got := len(f.Data); got != 72 {
		t.Fatalf("expected 72 values, got %d", got)
	}
}

func TestFieldSliceTime(t *testing.T) {
	f := rampField(t, 5, 1, 0, 2)
	view, err := f.SliceTime(1, 4)
	if err != nil {
		t.Fatalf("SliceTime failed: %v", err)
	}
	if view.Times != 3 || view.Channels != 1 {
		t.Fatalf("unexpected view shape: times=%d channels=%d", view.Times, view.Channels)
	}
	if view.Data[0] != 1 || view.Data[len(view.Data)-1] != 3 {
		t.Fatalf("view has wrong values: first=%v last=%v", view.Data[0], view.Data[len(view.Data)-1])
	}

	// The view shares the buffer.
	view.Data[0] = 42
	if f.Step(1)[0] != 42 {
		t.Fatalf("expected view to alias the source buffer")
	}

	for _, rng := range [][2]int{{-1, 2}, {0, 6}, {3, 3}, {4, 2}} {
		if _, err := f.SliceTime(rng[0], rng[1]); err == nil {
			t.Fatalf("expected error for range [%d, %d)", rng[0], rng[1])
		}
	}
}

func TestFieldClone(t *testing.T) {
	f := rampField(t, 2, 1, 0, 2)
	c := f.Clone()
	c.Data[0] = 99
	if f.Data[0] == 99 {
		t.Fatalf("clone shares the source buffer")
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", Config{TrajLen: 10, SkipNT: 1, ScalarComponents: 1}, true},
		{"too short", Config{TrajLen: 1, ScalarComponents: 1}, false},
		{"negative skip", Config{TrajLen: 10, SkipNT: -1, ScalarComponents: 1}, false},
		{"skip swallows trajectory", Config{TrajLen: 10, SkipNT: 10, ScalarComponents: 1}, false},
		{"no components", Config{TrajLen: 10}, false},
		{"negative components", Config{TrajLen: 10, ScalarComponents: -1, VectorComponents: 2}, false},
	}
	for _, c := range cases {
		err := c.cfg.Validate()
		if c.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
		}
		if !c.ok && err == nil {
			t.Errorf("%s: expected error", c.name)
		}
	}
}

func TestTrajectoryValidate(t *testing.T) {
	cfg := Config{TrajLen: 6, ScalarComponents: 1, VectorComponents: 2}

	valid := &Trajectory{
		Scalar: rampField(t, 6, 1, 0, 4),
		Vector: rampField(t, 6, 2, 100, 4),
		Grid:   rampField(t, 1, 2, 1000, 4),
		Cond:   []float32{0.5},
	}
	if err := valid.Validate(cfg); err != nil {
		t.Fatalf("valid trajectory rejected: %v", err)
	}

	cases := []struct {
		name string
		tr   *Trajectory
	}{
		{"missing scalar", &Trajectory{Vector: rampField(t, 6, 2, 0, 4)}},
		{"missing vector", &Trajectory{Scalar: rampField(t, 6, 1, 0, 4)}},
		{"wrong trajectory length", &Trajectory{
			Scalar: rampField(t, 5, 1, 0, 4),
			Vector: rampField(t, 6, 2, 0, 4),
		}},
		{"wrong channel count", &Trajectory{
			Scalar: rampField(t, 6, 2, 0, 4),
			Vector: rampField(t, 6, 2, 0, 4),
		}},
		{"spatial mismatch", &Trajectory{
			Scalar: rampField(t, 6, 1, 0, 4),
			Vector: rampField(t, 6, 2, 0, 5),
		}},
		{"grid with time axis", &Trajectory{
			Scalar: rampField(t, 6, 1, 0, 4),
			Vector: rampField(t, 6, 2, 0, 4),
			Grid:   rampField(t, 2, 2, 0, 4),
		}},
		{"grid spatial mismatch", &Trajectory{
			Scalar: rampField(t, 6, 1, 0, 4),
			Vector: rampField(t, 6, 2, 0, 4),
			Grid:   rampField(t, 1, 2, 0, 5),
		}},
	}
	for _, c := range cases {
		if err := c.tr.Validate(cfg); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}

	// A field declared absent in the configuration must be absent.
	scalarOnly := Config{TrajLen: 6, ScalarComponents: 1}
	if err := valid.Validate(scalarOnly); err == nil {
		t.Fatalf("expected rejection of vector field under scalar-only configuration")
	}
}
