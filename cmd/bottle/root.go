package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/soypat/bottle/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	kernelSDF    = "sdf"
	kernelKompas = "kompas"
)

// flagKeys binds command line flags to configuration keys. Flags take
// precedence over the environment and the config file when set.
var flagKeys = map[string]string{
	"total-length":        "bottle.total_length",
	"base-length":         "bottle.base_length",
	"bottleneck-length":   "bottle.bottleneck_length",
	"base-diameter":       "bottle.base_diameter",
	"bottleneck-diameter": "bottle.bottleneck_diameter",
	"opener":              "bottle.opener",
	"output":              "render.output",
	"preview":             "render.preview",
	"resolution":          "render.resolution",
	"material":            "render.material",
}

type app struct {
	cfgFile string
	verbose bool
	kernel  string

	v   *viper.Viper
	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	root := &cobra.Command{
		Use:   "bottle",
		Short: "Parametric bottle generator",
		Long: `bottle builds a cylindrical bottle with a narrower neck, a rounded
shoulder and an optional pair of bottle opener notches from five
dimensions in millimetres. Dimensions are read from $HOME/.bottle.yaml,
BOTTLE_* environment variables and flags, in increasing precedence.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.setupLogging(cmd.ErrOrStderr())
			return a.loadConfig(cmd)
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.bottle.yaml)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&a.kernel, "kernel", kernelSDF, "geometry kernel: sdf or kompas")
	pf.Float64("total-length", 0, "total bottle length, mm")
	pf.Float64("base-length", 0, "base cylinder length, mm")
	pf.Float64("bottleneck-length", 0, "transition length between base and neck top, mm")
	pf.Float64("base-diameter", 0, "base cylinder diameter, mm")
	pf.Float64("bottleneck-diameter", 0, "neck diameter, mm")
	pf.Bool("opener", false, "cut bottle opener notches into the base")

	root.AddCommand(
		newBuildCmd(a),
		newPlanCmd(a),
		newValidateCmd(a),
		newFormCmd(a),
		newVersionCmd(),
	)
	return root
}

func addRenderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("output", "o", "", "STL output file (sdf kernel)")
	f.String("preview", "", "PNG preview output file (sdf kernel)")
	f.Int("resolution", 0, "mesh cells along the longest side (sdf kernel)")
	f.String("material", "", "shrink compensation material: pla, petg or none")
	f.Bool("verify", false, "read the written STL back and check it (sdf kernel)")
}

func (a *app) setupLogging(w io.Writer) {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(a.log)
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	switch a.kernel {
	case kernelSDF, kernelKompas:
	default:
		return fmt.Errorf("unknown kernel %q, want %s or %s", a.kernel, kernelSDF, kernelKompas)
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if used := a.v.ConfigFileUsed(); used != "" {
		a.log.Debug("using config file", "file", used)
	}
	a.cfg = cfg
	return nil
}
