package trajectory

import (
	"fmt"
	"strings"
)

// Config holds the per-dataset PDE properties the windowing layer needs.
// It is built once per run and never mutated by samplers.
type Config struct {
	// TrajLen is the number of solver time steps in every trajectory of the
	// dataset.
	TrajLen int

	// SkipNT is the number of leading time steps excluded from sampling,
	// typically solver warm-up transients.
	SkipNT int

	// ScalarComponents is the number of scalar field channels (0 if the
	// dataset carries no scalar field).
	ScalarComponents int

	// VectorComponents is the number of vector field channels (0 if the
	// dataset carries no vector field).
	VectorComponents int
}

// Validate reports whether the configuration is internally consistent.
func (c Config) Validate() error {
	if c.TrajLen < 2 {
		return fmt.Errorf("trajectory length must be at least 2, got %d", c.TrajLen)
	}
	if c.SkipNT < 0 {
		return fmt.Errorf("skipped leading steps must be non-negative, got %d", c.SkipNT)
	}
	if c.SkipNT >= c.TrajLen {
		return fmt.Errorf("skipped leading steps %d leave no samplable steps in a trajectory of length %d", c.SkipNT, c.TrajLen)
	}
	if c.ScalarComponents < 0 || c.VectorComponents < 0 {
		return fmt.Errorf("component counts must be non-negative, got scalar=%d vector=%d", c.ScalarComponents, c.VectorComponents)
	}
	if c.ScalarComponents == 0 && c.VectorComponents == 0 {
		return fmt.Errorf("configuration declares no scalar and no vector components")
	}
	return nil
}

// Mode selects the dataset split a pipeline serves.
type Mode int

const (
	Train Mode = iota
	Valid
	Test
)

// String returns the lowercase split name.
func (m Mode) String() string {
	switch m {
	case Train:
		return "train"
	case Valid:
		return "valid"
	case Test:
		return "test"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode converts a split name into a Mode. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "train":
		return Train, nil
	case "valid", "validation":
		return Valid, nil
	case "test":
		return Test, nil
	}
	return 0, fmt.Errorf("unknown mode %q (want train, valid or test)", s)
}
