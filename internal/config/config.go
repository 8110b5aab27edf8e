// Package config loads bottle generator settings with viper from a YAML file
// and BOTTLE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/soypat/bottle"
	"github.com/soypat/bottle/helpers/matter"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// BOTTLE_BOTTLE_BASE_DIAMETER or BOTTLE_RENDER_RESOLUTION.
const EnvPrefix = "BOTTLE"

// Config is the decoded configuration.
type Config struct {
	Bottle Bottle        `mapstructure:"bottle"`
	Limits bottle.Limits `mapstructure:"limits"`
	Render Render        `mapstructure:"render"`
}

// Bottle holds the dimensions to build and whether to cut the opener.
type Bottle struct {
	bottle.Dimensions `mapstructure:",squash"`
	Opener            bool `mapstructure:"opener"`
}

// Render controls mesh output of the SDF kernel.
type Render struct {
	// Resolution is the number of cells along the longest side of the part.
	Resolution int    `mapstructure:"resolution"`
	Output     string `mapstructure:"output"`
	// Preview is the PNG path of a shaded preview. Empty disables it.
	Preview  string `mapstructure:"preview"`
	Material string `mapstructure:"material"`
}

// New returns a viper instance with every key defaulted and environment
// overrides enabled.
func New() *viper.Viper {
	v := viper.New()
	d := bottle.DefaultDimensions()
	v.SetDefault("bottle.base_diameter", d.BaseDiameter)
	v.SetDefault("bottle.base_length", d.BaseLength)
	v.SetDefault("bottle.bottleneck_diameter", d.BottleneckDiameter)
	v.SetDefault("bottle.bottleneck_length", d.BottleneckLength)
	v.SetDefault("bottle.total_length", d.TotalLength)
	v.SetDefault("bottle.opener", false)

	l := bottle.DefaultLimits()
	for key, r := range map[string]bottle.Range{
		"limits.total_length":        l.TotalLength,
		"limits.base_diameter":       l.BaseDiameter,
		"limits.bottleneck_diameter": l.BottleneckDiameter,
	} {
		v.SetDefault(key+".min", r.Min)
		v.SetDefault(key+".max", r.Max)
	}
	for key, f := range map[string]bottle.Fraction{
		"limits.base_length":       l.BaseLength,
		"limits.bottleneck_length": l.BottleneckLength,
	} {
		v.SetDefault(key+".num", f.Num)
		v.SetDefault(key+".den", f.Den)
	}

	v.SetDefault("render.resolution", 200)
	v.SetDefault("render.output", "bottle.stl")
	v.SetDefault("render.preview", "")
	v.SetDefault("render.material", matter.PLA.String())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Read loads file into v. With an empty file $HOME/.bottle.yaml is read if
// present; a missing default file is not an error.
func Read(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".bottle")
	}
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if file == "" && errors.As(err, &notFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Decode unmarshals v and checks the render settings.
func Decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	for key, f := range map[string]bottle.Fraction{
		"limits.base_length":       c.Limits.BaseLength,
		"limits.bottleneck_length": c.Limits.BottleneckLength,
	} {
		if !(f.Den > 0) {
			return Config{}, fmt.Errorf("%s.den must be positive, got %g", key, f.Den)
		}
	}
	if c.Render.Resolution < 2 {
		return Config{}, fmt.Errorf("render.resolution must be at least 2, got %d", c.Render.Resolution)
	}
	if _, err := c.Material(); err != nil {
		return Config{}, fmt.Errorf("render.material: %w", err)
	}
	return c, nil
}

// Load reads file into v and decodes the result. Flags must be bound to v
// beforehand to take precedence.
func Load(v *viper.Viper, file string) (Config, error) {
	if err := Read(v, file); err != nil {
		return Config{}, err
	}
	return Decode(v)
}

// Material returns the shrink compensation material.
func (c Config) Material() (matter.ViscousMaterial, error) {
	return matter.Lookup(c.Render.Material)
}
