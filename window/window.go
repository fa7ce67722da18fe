// Package window turns PDE trajectories into bounded input/label windows for
// sequence-to-sequence training and evaluation. Samplers and enumerators wrap
// a trajectory.Stream and are themselves lazy, restartable streams of
// windows; randomized variants draw from an explicitly injected random
// generator so per-worker runs stay reproducible.
package window

import (
	"fmt"
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/fieldsim/pdewin/trajectory"
)

// Window is one input/label pair cut from a trajectory. Input concatenates
// the scalar and vector channels (plus the grid, when attached) over the
// input time range; Label concatenates the scalar and vector channels over
// the label range. DeltaT is the prediction horizon in solver steps and Cond
// is the trajectory's conditioning vector, propagated unchanged (nil when
// unconditioned). Once yielded a window is never mutated by its producer.
type Window struct {
	Input  *trajectory.Field
	Label  *trajectory.Field
	DeltaT int
	Cond   []float32
}

// Stream is a lazy, restartable sequence of windows. Next returns io.EOF
// once the pass is exhausted; Reset rewinds the producer and its source.
type Stream interface {
	Next() (*Window, error)
	Reset() error
}

// copyStep appends the channels of one field time step into dst and returns
// the extended slice.
func copyStep(dst []float32, f *trajectory.Field, t int) []float32 {
	return append(dst, f.Step(t)...)
}

// assemble cuts a multi-step window from tr: input over
// [start, start+history) and label over [start+history+gap,
// start+history+gap+future), concatenating scalar then vector channels per
// time step. When withGrid is set and the trajectory carries a grid, the
// grid channels are appended to every input step. A window that would be
// empty along the time or channel axis is a contract violation and returns
// an error instead.
func assemble(tr *trajectory.Trajectory, start, history, future, gap int, withGrid bool) (*Window, error) {
	if history < 1 || future < 1 {
		return nil, fmt.Errorf("window would be empty along the time axis: history=%d future=%d", history, future)
	}
	targetStart := start + history + gap
	targetEnd := targetStart + future

	trajLen := 0
	channels := 0
	if tr.Scalar != nil {
		trajLen = tr.Scalar.Times
		channels += tr.Scalar.Channels
	}
	if tr.Vector != nil {
		trajLen = tr.Vector.Times
		channels += tr.Vector.Channels
	}
	if channels == 0 {
		return nil, fmt.Errorf("window would be empty along the channel axis: trajectory has no fields")
	}
	if start < 0 || targetEnd > trajLen {
		return nil, fmt.Errorf("window [%d, %d) out of bounds for trajectory of length %d", start, targetEnd, trajLen)
	}

	spatial := tr.Spatial()
	inChannels := channels
	if withGrid && tr.Grid != nil {
		inChannels += tr.Grid.Channels
	}

	spatialSize := 1
	for _, d := range spatial {
		spatialSize *= d
	}
	input := &trajectory.Field{
		Data:     make([]float32, 0, history*inChannels*spatialSize),
		Times:    history,
		Channels: inChannels,
		Spatial:  spatial,
	}
	for t := start; t < start+history; t++ {
		if tr.Scalar != nil {
			input.Data = copyStep(input.Data, tr.Scalar, t)
		}
		if tr.Vector != nil {
			input.Data = copyStep(input.Data, tr.Vector, t)
		}
		if withGrid && tr.Grid != nil {
			input.Data = copyStep(input.Data, tr.Grid, 0)
		}
	}

	label := &trajectory.Field{
		Data:     make([]float32, 0, future*channels*spatialSize),
		Times:    future,
		Channels: channels,
		Spatial:  spatial,
	}
	for t := targetStart; t < targetEnd; t++ {
		if tr.Scalar != nil {
			label.Data = copyStep(label.Data, tr.Scalar, t)
		}
		if tr.Vector != nil {
			label.Data = copyStep(label.Data, tr.Vector, t)
		}
	}

	return &Window{Input: input, Label: label, Cond: tr.Cond}, nil
}

// assemblePair cuts a single-point window: input is the trajectory state at
// step startT (with the grid appended when present), label the state at step
// endT. Used by the horizon-conditioned sampler and enumerator.
func assemblePair(tr *trajectory.Trajectory, startT, endT int) (*Window, error) {
	if endT <= startT {
		return nil, fmt.Errorf("window end %d must follow start %d", endT, startT)
	}
	w, err := assemble(tr, startT, 1, 1, endT-startT-1, true)
	if err != nil {
		return nil, err
	}
	w.DeltaT = endT - startT
	return w, nil
}

// Tensors converts the window's input and label into gomlx tensors with a
// leading batch axis of one, shaped [1, times, channels, spatial...].
func (w *Window) Tensors() (input, label *tensors.Tensor, err error) {
	if w.Input == nil || w.Label == nil {
		return nil, nil, fmt.Errorf("window has no data")
	}
	inDims := append([]int{1, w.Input.Times, w.Input.Channels}, w.Input.Spatial...)
	labDims := append([]int{1, w.Label.Times, w.Label.Channels}, w.Label.Spatial...)
	return tensors.FromFlatDataAndDimensions(w.Input.Data, inDims...),
		tensors.FromFlatDataAndDimensions(w.Label.Data, labDims...),
		nil
}

// drain pulls the next valid trajectory from src, validating it against cfg
// before any window is cut from it.
func drain(src trajectory.Stream, cfg trajectory.Config) (*trajectory.Trajectory, error) {
	tr, err := src.Next()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	if err := tr.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid trajectory: %w", err)
	}
	return tr, nil
}
