package trajectory

import (
	"fmt"
	"io"
)

// Stream is a lazy, restartable sequence of trajectories. Next returns
// io.EOF once the current pass is exhausted; Reset rewinds the stream to the
// beginning so the next pull starts a fresh pass. Implementations hold at
// most one in-flight trajectory and are pulled from a single goroutine.
type Stream interface {
	Next() (*Trajectory, error)
	Reset() error
}

type sliceStream struct {
	items []*Trajectory
	pos   int
}

// NewSliceStream returns a stream over an in-memory trajectory slice.
func NewSliceStream(items ...*Trajectory) Stream {
	return &sliceStream{items: items}
}

func (s *sliceStream) Next() (*Trajectory, error) {
	if s.pos >= len(s.items) {
		return nil, io.EOF
	}
	tr := s.items[s.pos]
	s.pos++
	return tr, nil
}

func (s *sliceStream) Reset() error {
	s.pos = 0
	return nil
}

type cycleStream struct {
	src    Stream
	passes int
	pass   int
}

// Cycle repeats the source stream for the given number of passes, resetting
// it between passes. Training pipelines cycle the trajectory stream TrajLen
// times so that one random draw per visit covers, in expectation, the whole
// valid start range of every trajectory.
func Cycle(src Stream, passes int) (Stream, error) {
	if passes < 1 {
		return nil, fmt.Errorf("cycle needs at least one pass, got %d", passes)
	}
	return &cycleStream{src: src, passes: passes}, nil
}

func (c *cycleStream) Next() (*Trajectory, error) {
	for {
		tr, err := c.src.Next()
		if err == io.EOF {
			if c.pass+1 >= c.passes {
				return nil, io.EOF
			}
			c.pass++
			if rerr := c.src.Reset(); rerr != nil {
				return nil, fmt.Errorf("restarting source for pass %d: %w", c.pass+1, rerr)
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		return tr, nil
	}
}

func (c *cycleStream) Reset() error {
	c.pass = 0
	return c.src.Reset()
}
