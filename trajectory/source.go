package trajectory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// The external stages of a data pipeline. Listing, filtering, sharding and
// opening are I/O glue owned by the caller; the windowing layer only depends
// on these signatures.

// Lister enumerates trajectory container paths under a root directory.
type Lister func(root string) ([]string, error)

// Filter reports whether a container path should be kept. It runs before
// sharding.
type Filter func(path string) bool

// Sharder partitions a container list across parallel workers. It must be
// deterministic so that every worker owns a disjoint, stable slice.
type Sharder func(paths []string) []string

// Opener materializes the trajectories stored in the given containers as a
// lazy stream, honoring the per-container trajectory limit (0 means no
// limit) and dropping the spatial grid when useGrid is false.
type Opener func(paths []string, mode Mode, limit int, useGrid bool) (Stream, error)

// SuffixLister lists directory entries under root whose name ends with the
// given container suffix, in lexical order.
func SuffixLister(suffix string) Lister {
	return func(root string) ([]string, error) {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", root, err)
		}
		var paths []string
		for _, e := range entries {
			if strings.HasSuffix(e.Name(), suffix) {
				paths = append(paths, filepath.Join(root, e.Name()))
			}
		}
		sort.Strings(paths)
		return paths, nil
	}
}

// IdentitySharder keeps the full container list; valid for single-worker
// runs.
func IdentitySharder(paths []string) []string { return paths }

// ModuloSharder assigns container i to worker (i mod workers). Together the
// workers cover the list exactly once.
func ModuloSharder(worker, workers int) Sharder {
	return func(paths []string) []string {
		if workers <= 1 {
			return paths
		}
		var own []string
		for i, p := range paths {
			if i%workers == worker%workers {
				own = append(own, p)
			}
		}
		return own
	}
}

// MemoryOpener serves trajectories held in memory, keyed by container path.
// It implements the Opener contract for tests and single-process runs where
// the containers were decoded up front.
func MemoryOpener(containers map[string][]*Trajectory) Opener {
	return func(paths []string, mode Mode, limit int, useGrid bool) (Stream, error) {
		var items []*Trajectory
		for _, p := range paths {
			trs, ok := containers[p]
			if !ok {
				return nil, fmt.Errorf("unknown container %q", p)
			}
			n := len(trs)
			if limit > 0 && limit < n {
				n = limit
			}
			for _, tr := range trs[:n] {
				if !useGrid && tr.Grid != nil {
					stripped := *tr
					stripped.Grid = nil
					tr = &stripped
				}
				items = append(items, tr)
			}
		}
		return NewSliceStream(items...), nil
	}
}
