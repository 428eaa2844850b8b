package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newThresholdsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "thresholds",
		Short: "Show the gate threshold for each stem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			th := cfg.StemThresholds()
			rows := make([][]string, 0, len(th))
			for _, name := range th.Names() {
				rows = append(rows, []string{name, formatDB(th[name])})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Stem", "Threshold dB"}, rows, []columnAlignment{alignLeft, alignRight}))
			fmt.Fprintf(cmd.OutOrStdout(), "smoothing %.3fs, pad mode %s\n", cfg.Gate.Smoothing, cfg.Gate.PadMode)
			return nil
		},
	}
}
