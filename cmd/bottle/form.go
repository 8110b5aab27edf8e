package main

import (
	"github.com/soypat/bottle/internal/form"
	"github.com/spf13/cobra"
)

func newFormCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Enter the dimensions interactively, then build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dims, opener, err := form.Ask(a.cfg.Bottle.Dimensions, a.cfg.Bottle.Opener)
			if err != nil {
				return err
			}
			return a.build(cmd, dims, opener)
		},
	}
	addRenderFlags(cmd)
	return cmd
}
