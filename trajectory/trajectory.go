package trajectory

import "fmt"

// Field is a time-major field history stored as a flat contiguous float32
// buffer plus shape metadata. The layout is [Times][Channels][Spatial...],
// so the block for a single time step is StepSize() values long and time
// slicing never copies.
type Field struct {
	Data     []float32
	Times    int
	Channels int
	Spatial  []int
}

// NewField allocates a zeroed field with the given shape.
func NewField(times, channels int, spatial ...int) *Field {
	f := &Field{
		Times:    times,
		Channels: channels,
		Spatial:  spatial,
	}
	f.Data = make([]float32, times*f.StepSize())
	return f
}

// SpatialSize returns the number of values per channel at one time step.
func (f *Field) SpatialSize() int {
	n := 1
	for _, d := range f.Spatial {
		n *= d
	}
	return n
}

// StepSize returns the number of values composing one time step.
func (f *Field) StepSize() int {
	return f.Channels * f.SpatialSize()
}

// Step returns the flat buffer for time step t, all channels.
func (f *Field) Step(t int) []float32 {
	s := f.StepSize()
	return f.Data[t*s : (t+1)*s]
}

// SliceTime returns a view of the half-open time range [start, end).
// The returned field shares the underlying buffer.
func (f *Field) SliceTime(start, end int) (*Field, error) {
	if start < 0 || end > f.Times || start >= end {
		return nil, fmt.Errorf("time range [%d, %d) out of bounds for field with %d steps", start, end, f.Times)
	}
	s := f.StepSize()
	return &Field{
		Data:     f.Data[start*s : end*s],
		Times:    end - start,
		Channels: f.Channels,
		Spatial:  f.Spatial,
	}, nil
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	data := make([]float32, len(f.Data))
	copy(data, f.Data)
	spatial := make([]int, len(f.Spatial))
	copy(spatial, f.Spatial)
	return &Field{Data: data, Times: f.Times, Channels: f.Channels, Spatial: spatial}
}

func (f *Field) check() error {
	if f.Times <= 0 || f.Channels <= 0 {
		return fmt.Errorf("field must have positive time and channel extents, got times=%d channels=%d", f.Times, f.Channels)
	}
	for _, d := range f.Spatial {
		if d <= 0 {
			return fmt.Errorf("field has non-positive spatial extent %d", d)
		}
	}
	if want := f.Times * f.StepSize(); len(f.Data) != want {
		return fmt.Errorf("field buffer has %d values, shape wants %d", len(f.Data), want)
	}
	return nil
}

func sameSpatial(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Trajectory is one fixed-length multi-field time sequence produced by a PDE
// solver. Scalar and Vector are nil when the dataset carries no such field;
// Grid is an optional time-invariant coordinate grid (Times == 1); Cond is an
// optional per-trajectory conditioning vector, opaque to the samplers.
//
// The tagged struct replaces positional records at the source boundary: a
// trajectory either validates once against the dataset configuration or the
// pipeline pass aborts before any window is produced.
type Trajectory struct {
	Scalar *Field
	Vector *Field
	Grid   *Field
	Cond   []float32
}

// Validate checks the trajectory against the dataset configuration: the
// declared fields are present with matching channel counts, all fields share
// the configured trajectory length, and spatial shapes agree.
func (tr *Trajectory) Validate(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.ScalarComponents > 0 {
		if tr.Scalar == nil {
			return fmt.Errorf("configuration declares %d scalar components but trajectory has no scalar field", cfg.ScalarComponents)
		}
		if err := tr.Scalar.check(); err != nil {
			return fmt.Errorf("scalar field: %w", err)
		}
		if tr.Scalar.Channels != cfg.ScalarComponents {
			return fmt.Errorf("scalar field has %d channels, configuration declares %d", tr.Scalar.Channels, cfg.ScalarComponents)
		}
		if tr.Scalar.Times != cfg.TrajLen {
			return fmt.Errorf("scalar field has %d time steps, configuration declares %d", tr.Scalar.Times, cfg.TrajLen)
		}
	} else if tr.Scalar != nil {
		return fmt.Errorf("trajectory has a scalar field but configuration declares none")
	}
	if cfg.VectorComponents > 0 {
		if tr.Vector == nil {
			return fmt.Errorf("configuration declares %d vector components but trajectory has no vector field", cfg.VectorComponents)
		}
		if err := tr.Vector.check(); err != nil {
			return fmt.Errorf("vector field: %w", err)
		}
		if tr.Vector.Channels != cfg.VectorComponents {
			return fmt.Errorf("vector field has %d channels, configuration declares %d", tr.Vector.Channels, cfg.VectorComponents)
		}
		if tr.Vector.Times != cfg.TrajLen {
			return fmt.Errorf("vector field has %d time steps, configuration declares %d", tr.Vector.Times, cfg.TrajLen)
		}
	} else if tr.Vector != nil {
		return fmt.Errorf("trajectory has a vector field but configuration declares none")
	}
	if tr.Scalar != nil && tr.Vector != nil && !sameSpatial(tr.Scalar.Spatial, tr.Vector.Spatial) {
		return fmt.Errorf("scalar and vector fields disagree on spatial shape: %v vs %v", tr.Scalar.Spatial, tr.Vector.Spatial)
	}
	if tr.Grid != nil {
		if err := tr.Grid.check(); err != nil {
			return fmt.Errorf("grid: %w", err)
		}
		if tr.Grid.Times != 1 {
			return fmt.Errorf("grid must be time-invariant (1 time step), got %d", tr.Grid.Times)
		}
		ref := tr.Scalar
		if ref == nil {
			ref = tr.Vector
		}
		if !sameSpatial(tr.Grid.Spatial, ref.Spatial) {
			return fmt.Errorf("grid spatial shape %v does not match field spatial shape %v", tr.Grid.Spatial, ref.Spatial)
		}
	}
	return nil
}

// Spatial returns the spatial shape shared by the trajectory's fields.
func (tr *Trajectory) Spatial() []int {
	if tr.Scalar != nil {
		return tr.Scalar.Spatial
	}
	if tr.Vector != nil {
		return tr.Vector.Spatial
	}
	return nil
}
