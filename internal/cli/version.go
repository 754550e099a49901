package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddVersionCommand adds the version command to the root command.
func AddVersionCommand(root *cobra.Command, info BuildInfo) {
	root.AddCommand(newVersionCmd(info))
}

func newVersionCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lattice version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "lattice "+formatVersion(info))
		},
	}
}
