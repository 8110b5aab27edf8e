package main

import (
	"fmt"

	"github.com/soypat/bottle"
	"github.com/soypat/bottle/plan"
	"github.com/spf13/cobra"
)

func newPlanCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the modeling operations without a kernel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := a.cfg.Bottle.Dimensions
			p, err := a.cfg.Limits.NewParameters(d.BaseDiameter, d.BaseLength, d.BottleneckDiameter, d.BottleneckLength, d.TotalLength)
			if err != nil {
				return err
			}
			doc, err := plan.New(bottle.Builder{Opener: a.cfg.Bottle.Opener, Logger: a.log}, p)
			if err != nil {
				return err
			}
			switch format {
			case "yaml":
				return doc.WriteYAML(cmd.OutOrStdout())
			case "json":
				return doc.WriteJSON(cmd.OutOrStdout())
			}
			return fmt.Errorf("invalid format %q, want yaml or json", format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}
