package window

import (
	"fmt"
	"io"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Dataset adapts a window stream to the training-loop dataset shape used by
// gomlx-style loops: Yield produces one batch of tensors per call and
// Restart rewinds the stream for the next epoch. Windows in a batch must
// share their input and label shapes, which every fixed-parameter sampler in
// this package guarantees.
//
// For conditioned streams the yielded inputs are [fields, delta_t, cond];
// for unconditioned streams just [fields]. Labels are always a single
// tensor. Yield returns io.EOF once the stream is exhausted; a trailing
// partial batch is yielded before that.
type Dataset struct {
	// BatchSize is the number of windows stacked per Yield. Defaults to 32.
	BatchSize int

	name        string
	src         Stream
	conditioned bool
}

// NewDataset wraps a window stream for batched tensor consumption.
func NewDataset(name string, src Stream, batchSize int, conditioned bool) *Dataset {
	if batchSize <= 0 {
		batchSize = 32
	}
	return &Dataset{BatchSize: batchSize, name: name, src: src, conditioned: conditioned}
}

// Name returns the dataset name.
func (d *Dataset) Name() string { return d.name }

// Restart rewinds the underlying window stream for a new epoch.
func (d *Dataset) Restart() error { return d.src.Reset() }

// Yield collects up to BatchSize windows and stacks them into gomlx tensors
// shaped [batch, times, channels, spatial...].
func (d *Dataset) Yield() (spec any, inputs []*tensors.Tensor, labels []*tensors.Tensor, err error) {
	batch := make([]*Window, 0, d.BatchSize)
	for len(batch) < d.BatchSize {
		w, err := d.src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, err
		}
		batch = append(batch, w)
	}
	if len(batch) == 0 {
		return nil, nil, nil, io.EOF
	}

	inT, err := stackFields(batch, true)
	if err != nil {
		return nil, nil, nil, err
	}
	labT, err := stackFields(batch, false)
	if err != nil {
		return nil, nil, nil, err
	}
	inputs = []*tensors.Tensor{inT}
	if d.conditioned {
		deltas := make([]int32, len(batch))
		for i, w := range batch {
			deltas[i] = int32(w.DeltaT)
		}
		inputs = append(inputs, tensors.FromFlatDataAndDimensions(deltas, len(batch), 1))

		condT, err := stackConds(batch)
		if err != nil {
			return nil, nil, nil, err
		}
		if condT != nil {
			inputs = append(inputs, condT)
		}
	}
	return nil, inputs, []*tensors.Tensor{labT}, nil
}

// stackFields concatenates the input (or label) buffers of a batch into one
// flat tensor, verifying that every window shares the first window's shape.
func stackFields(batch []*Window, input bool) (*tensors.Tensor, error) {
	ref := batch[0].Label
	if input {
		ref = batch[0].Input
	}
	flat := make([]float32, 0, len(batch)*len(ref.Data))
	for i, w := range batch {
		f := w.Label
		if input {
			f = w.Input
		}
		if f.Times != ref.Times || f.Channels != ref.Channels || len(f.Data) != len(ref.Data) {
			return nil, fmt.Errorf("window %d shape [%d %d] does not match batch shape [%d %d]", i, f.Times, f.Channels, ref.Times, ref.Channels)
		}
		flat = append(flat, f.Data...)
	}
	dims := append([]int{len(batch), ref.Times, ref.Channels}, ref.Spatial...)
	return tensors.FromFlatDataAndDimensions(flat, dims...), nil
}

// stackConds stacks the conditioning vectors of a batch, or returns nil when
// the windows carry none.
func stackConds(batch []*Window) (*tensors.Tensor, error) {
	n := len(batch[0].Cond)
	if n == 0 {
		for i, w := range batch {
			if len(w.Cond) != 0 {
				return nil, fmt.Errorf("window %d is conditioned but window 0 is not", i)
			}
		}
		return nil, nil
	}
	flat := make([]float32, 0, len(batch)*n)
	for i, w := range batch {
		if len(w.Cond) != n {
			return nil, fmt.Errorf("window %d condition length %d does not match batch length %d", i, len(w.Cond), n)
		}
		flat = append(flat, w.Cond...)
	}
	return tensors.FromFlatDataAndDimensions(flat, len(batch), n), nil
}
