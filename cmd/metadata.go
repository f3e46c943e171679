package cmd

import (
	"github.com/brendan-ward/geotiler/tiler"
	"github.com/spf13/cobra"
)

var (
	pmin         float64
	pmax         float64
	statsOptions []string
)

var metadataCmd = &cobra.Command{
	Use:   "metadata [ADDRESS]",
	Short: "Print the bounds, zoom range and band statistics of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseKeyValues(statsOptions)
		if err != nil {
			return err
		}
		opts, err := tiler.ParseStatsOptions(values)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("pmin") {
			opts.Percentiles[0] = pmin
		}
		if cmd.Flags().Changed("pmax") {
			opts.Percentiles[1] = pmax
		}

		metadata, err := tl.Metadata(args[0], opts)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), metadata)
	},
}

func init() {
	metadataCmd.Flags().Float64Var(&pmin, "pmin", 2, "lower percentile")
	metadataCmd.Flags().Float64Var(&pmax, "pmax", 98, "upper percentile")
	metadataCmd.Flags().StringArrayVarP(&statsOptions, "option", "o", nil, "statistics option as key=value, e.g., -o max_size=512")
}
