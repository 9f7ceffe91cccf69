package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "List every entry in the on-disk cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Dump(cmd.Context(), configPath(cmd), cmd.OutOrStdout())
		},
	}
}
