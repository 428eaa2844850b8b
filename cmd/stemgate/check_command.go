package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-stemgate/internal/separate"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that external tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := separate.CheckBinaries(requirements(cfg))
			rows := make([][]string, 0, len(statuses))
			for _, s := range statuses {
				state := "ok"
				switch {
				case !s.Available && s.Optional:
					state = "missing (optional)"
				case !s.Available:
					state = "missing"
				}
				rows = append(rows, []string{s.Name, s.Command, state, s.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Tool", "Command", "Status", "Detail"}, rows, nil))

			if missing := separate.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required tool(s) missing", len(missing))
			}
			return nil
		},
	}
}
