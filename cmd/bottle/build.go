package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/soypat/bottle"
	"github.com/soypat/bottle/kompas"
	"github.com/soypat/bottle/render"
	"github.com/soypat/bottle/sdfpart"
	"github.com/spf13/cobra"
)

func newBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Validate the dimensions and build the bottle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.build(cmd, a.cfg.Bottle.Dimensions, a.cfg.Bottle.Opener)
		},
	}
	addRenderFlags(cmd)
	return cmd
}

func (a *app) build(cmd *cobra.Command, dims bottle.Dimensions, opener bool) error {
	b := bottle.Builder{Opener: opener, Logger: a.log}
	if a.kernel == kernelKompas {
		return a.buildKompas(b, dims)
	}
	part := sdfpart.New()
	if _, err := bottle.Generate(part, b, a.cfg.Limits, dims); err != nil {
		return err
	}
	m, err := a.cfg.Material()
	if err != nil {
		return err
	}
	out, res := a.cfg.Render.Output, a.cfg.Render.Resolution
	if a.cfg.Render.Preview == "" {
		// Stream triangles straight to the file.
		if err = part.CreateSTL(out, res, m); err != nil {
			return err
		}
		a.log.Info("wrote mesh", "file", out, "material", m.String())
	} else {
		mesh, err := part.Mesh(res, m)
		if err != nil {
			return err
		}
		if err = writeSTL(out, mesh); err != nil {
			return err
		}
		a.log.Info("wrote mesh", "file", out, "triangles", len(mesh), "material", m.String())
		if err = render.PreviewPNG(a.cfg.Render.Preview, mesh, render.DefaultView()); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		a.log.Info("wrote preview", "file", a.cfg.Render.Preview)
	}
	if verify, _ := cmd.Flags().GetBool("verify"); verify {
		if err = a.verifySTL(out); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// verifySTL reads the written file back. Malformed files fail, poor
// triangles are only reported.
func (a *app) verifySTL(path string) error {
	fp, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	model, err := render.ReadSTL(fp)
	switch {
	case errors.Is(err, render.ErrSTLQuality):
		a.log.Warn("mesh quality", "file", path, "err", err)
	case err != nil:
		return fmt.Errorf("verify %s: %w", path, err)
	}
	a.log.Info("verified mesh", "file", path, "triangles", len(model))
	return nil
}

func (a *app) buildKompas(b bottle.Builder, dims bottle.Dimensions) error {
	// Fail on bad input before touching KOMPAS.
	if v := a.cfg.Limits.Check(dims); len(v) > 0 {
		return &bottle.ValidationError{Violations: v}
	}
	c := &kompas.Connector{Logger: a.log}
	if err := c.Start(); err != nil {
		return err
	}
	defer c.Close()
	part, err := c.NewPart()
	if err != nil {
		return err
	}
	_, err = bottle.Generate(part, b, a.cfg.Limits, dims)
	return err
}

func writeSTL(path string, mesh []render.Triangle3) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = render.WriteSTL(fp, mesh); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
