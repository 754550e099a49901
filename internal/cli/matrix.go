package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/latticeci/lattice/internal/config"
	"github.com/latticeci/lattice/internal/matrix"
	"github.com/latticeci/lattice/internal/tui"
)

// AddMatrixCommand adds the matrix command to the root command.
func AddMatrixCommand(root *cobra.Command) {
	root.AddCommand(newMatrixCmd())
}

func newMatrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Print the expanded build matrix",
		Long: `Expand the configured build matrix and print the resulting cells
without running anything.

Examples:
  lattice matrix
  lattice matrix --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMatrix(cmd, os.Stdout)
		},
	}

	return cmd
}

func runMatrix(cmd *cobra.Command, w io.Writer) error {
	outputFormat := cmd.Flag("output").Value.String()
	tui.CheckNoColor()

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}

	cells, err := matrix.Expand(cfg.Matrix.OperatingSystems, cfg.Matrix.RuntimeVersions)
	if err != nil {
		return err
	}

	if outputFormat == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cells)
	}

	for _, cell := range cells {
		fmt.Fprintln(w, cell.Key())
	}
	fmt.Fprintf(w, "\n%s\n", tui.StyleMuted.Render(fmt.Sprintf("%d cells", len(cells))))
	return nil
}
