package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/bottle"
	"github.com/soypat/bottle/helpers/matter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bottle.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	c, err := Decode(New())
	require.NoError(t, err)

	assert.Equal(t, bottle.DefaultDimensions(), c.Bottle.Dimensions)
	assert.False(t, c.Bottle.Opener)
	assert.Equal(t, bottle.DefaultLimits(), c.Limits)
	assert.Equal(t, 200, c.Render.Resolution)
	assert.Equal(t, "bottle.stl", c.Render.Output)
	assert.Empty(t, c.Render.Preview)

	m, err := c.Material()
	require.NoError(t, err)
	assert.Equal(t, matter.PLA, m)
}

func TestReadFile(t *testing.T) {
	path := writeConfig(t, `
bottle:
  base_diameter: 50
  total_length: 150
  opener: true
limits:
  base_diameter:
    min: 30
render:
  resolution: 64
  material: petg
  preview: out.png
`)
	c, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, 50.0, c.Bottle.BaseDiameter)
	assert.Equal(t, 150.0, c.Bottle.TotalLength)
	assert.Equal(t, 77.0, c.Bottle.BaseLength, "unset keys keep defaults")
	assert.True(t, c.Bottle.Opener)
	assert.Equal(t, bottle.Range{Min: 30, Max: 65}, c.Limits.BaseDiameter)
	assert.Equal(t, 64, c.Render.Resolution)
	assert.Equal(t, "out.png", c.Render.Preview)

	m, err := c.Material()
	require.NoError(t, err)
	assert.Equal(t, matter.PETG, m)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("BOTTLE_BOTTLE_BOTTLENECK_DIAMETER", "24")
	t.Setenv("BOTTLE_LIMITS_TOTAL_LENGTH_MAX", "300")
	t.Setenv("BOTTLE_RENDER_RESOLUTION", "32")

	c, err := Decode(New())
	require.NoError(t, err)
	assert.Equal(t, 24.0, c.Bottle.BottleneckDiameter)
	assert.Equal(t, 300.0, c.Limits.TotalLength.Max)
	assert.Equal(t, 32, c.Render.Resolution)
}

func TestMissingDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	v := New()
	require.NoError(t, Read(v, ""))
}

func TestErrors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config")
	})
	t.Run("low resolution", func(t *testing.T) {
		_, err := Load(New(), writeConfig(t, "render:\n  resolution: 1\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "render.resolution")
	})
	t.Run("unknown material", func(t *testing.T) {
		_, err := Load(New(), writeConfig(t, "render:\n  material: wood\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown material "wood"`)
	})
	t.Run("zero denominator", func(t *testing.T) {
		_, err := Load(New(), writeConfig(t, "limits:\n  base_length:\n    den: 0\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "limits.base_length.den")
	})
}

func TestFractionLimits(t *testing.T) {
	path := writeConfig(t, `
limits:
  base_length:
    num: 3
    den: 4
`)
	c, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, bottle.Fraction{Num: 3, Den: 4}, c.Limits.BaseLength)
	assert.Equal(t, bottle.Fraction{Num: 1, Den: 5}, c.Limits.BottleneckLength, "unset fraction keeps default")
	assert.Equal(t, 120.0, c.Limits.Ranges(160)[bottle.FieldBaseLength].Max)
}
