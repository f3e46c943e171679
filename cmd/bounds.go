package cmd

import (
	"github.com/spf13/cobra"
)

var boundsCmd = &cobra.Command{
	Use:   "bounds [ADDRESS]",
	Short: "Print the bounds of a dataset in the bounds CRS (default: display CRS)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := tl.Bounds(args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), info)
	},
}
