package runner

import (
	"context"
	"fmt"
	"os"

	"github.com/latticeci/lattice/internal/domain"
	latticeerrors "github.com/latticeci/lattice/internal/errors"
)

// Workspace is the isolated, ephemeral execution environment of one cell.
// It exists for the duration of the cell and is discarded afterwards; no
// two cells ever share a workspace.
type Workspace struct {
	// Dir is the cell's private scratch directory. Step commands reference
	// it through the {workdir} placeholder (virtualenvs, caches, artifacts).
	Dir string
}

// Provisioner acquires an isolated execution environment for a matrix cell.
//
// The default LocalProvisioner gives each cell a fresh scratch directory on
// the host; the cell's operating system and runtime version are then realized
// by the configured setup command (e.g. a container or interpreter launcher).
// Remote or containerized provisioners implement the same interface.
type Provisioner interface {
	// Provision acquires a workspace for the cell. The returned cleanup
	// function discards the workspace and must always be called.
	Provision(ctx context.Context, cell domain.MatrixCell) (*Workspace, func(), error)
}

// LocalProvisioner provisions per-cell scratch directories on the local host.
type LocalProvisioner struct {
	// BaseDir is the parent for cell scratch directories.
	// Empty uses the system temp directory.
	BaseDir string
}

// Provision creates a fresh scratch directory for the cell.
func (p *LocalProvisioner) Provision(ctx context.Context, cell domain.MatrixCell) (*Workspace, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	dir, err := os.MkdirTemp(p.BaseDir, fmt.Sprintf("lattice-%s-%s-", cell.OS, cell.RuntimeVersion))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", latticeerrors.ErrProvision, err)
	}

	cleanup := func() {
		_ = os.RemoveAll(dir)
	}
	return &Workspace{Dir: dir}, cleanup, nil
}

// Ensure LocalProvisioner implements Provisioner.
var _ Provisioner = (*LocalProvisioner)(nil)
