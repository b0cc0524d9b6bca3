package cli

import (
	"github.com/spf13/cobra"

	"xrpbootstrap/internal/report"
)

func (a *app) reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the variables and start commands to configure, without provisioning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report.Requirements(a.opts.Out, a.topo)
			return nil
		},
	}
}
