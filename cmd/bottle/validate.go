package main

import (
	"errors"
	"fmt"

	"github.com/soypat/bottle"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the dimensions and list every violated limit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := a.cfg.Bottle.Dimensions
			p, err := a.cfg.Limits.NewParameters(d.BaseDiameter, d.BaseLength, d.BottleneckDiameter, d.BottleneckLength, d.TotalLength)
			out := cmd.OutOrStdout()
			var verr *bottle.ValidationError
			if errors.As(err, &verr) {
				for _, v := range verr.Violations {
					fmt.Fprintln(out, v)
				}
				return err
			} else if err != nil {
				return err
			}
			fmt.Fprintf(out, "valid: bottleneck height %g mm, transition radius %g mm\n", p.BottleneckHeight(), p.TransitionRadius())
			return nil
		},
	}
}
