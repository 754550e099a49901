// Package matrix expands the configured environment matrix into independent cells.
//
// A matrix is the Cartesian product of an operating-system set and a
// runtime-version set. Each resulting cell is scheduled exactly once per
// triggered run, with no duplicates and no omissions; cells share no state.
package matrix

import (
	"fmt"

	"github.com/latticeci/lattice/internal/domain"
	latticeerrors "github.com/latticeci/lattice/internal/errors"
)

// Expand returns one MatrixCell per (OS, runtime version) pair, in a stable
// order: OS-major, version-minor, following the configured axis order.
//
// Both axes must be non-empty and free of duplicates; a duplicate entry
// would schedule the same cell twice, violating the exactly-once property.
func Expand(operatingSystems, runtimeVersions []string) ([]domain.MatrixCell, error) {
	if len(operatingSystems) == 0 {
		return nil, fmt.Errorf("%w: matrix has no operating systems", latticeerrors.ErrInvalidConfig)
	}
	if len(runtimeVersions) == 0 {
		return nil, fmt.Errorf("%w: matrix has no runtime versions", latticeerrors.ErrInvalidConfig)
	}
	if dup := firstDuplicate(operatingSystems); dup != "" {
		return nil, fmt.Errorf("%w: duplicate operating system %q", latticeerrors.ErrInvalidConfig, dup)
	}
	if dup := firstDuplicate(runtimeVersions); dup != "" {
		return nil, fmt.Errorf("%w: duplicate runtime version %q", latticeerrors.ErrInvalidConfig, dup)
	}

	cells := make([]domain.MatrixCell, 0, len(operatingSystems)*len(runtimeVersions))
	for _, os := range operatingSystems {
		for _, version := range runtimeVersions {
			cells = append(cells, domain.MatrixCell{
				OS:             os,
				RuntimeVersion: version,
			})
		}
	}
	return cells, nil
}

// firstDuplicate returns the first repeated value in values, or "" if none.
func firstDuplicate(values []string) string {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			return v
		}
		seen[v] = struct{}{}
	}
	return ""
}
