package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDimension(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want float64
	}{
		{"135", 135},
		{"77.5", 77.5},
		{"77,5", 77.5},
		{" 20 ", 20},
		{"0,25", 0.25},
	} {
		got, err := ParseDimension(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	for _, in := range []string{"", "  ", "abc", "1,2,3", "1.2,3", "12mm"} {
		_, err := ParseDimension(in)
		assert.Error(t, err, in)
	}
}

func TestAcceptsPartial(t *testing.T) {
	for _, in := range []string{"", "1", "12.", "12,", "12.5", "3,75", ","} {
		assert.True(t, AcceptsPartial(in), in)
	}
	for _, in := range []string{"-", "a", "1.2.", "1,,", "1.2,", "1a."} {
		assert.False(t, AcceptsPartial(in), in)
	}
}

func TestValidateDimension(t *testing.T) {
	for _, in := range []string{"135", "77,5", "12.", "0.25"} {
		assert.NoError(t, validateDimension(in), in)
	}
	for _, in := range []string{"-", "12a", "1.2,", "1,,"} {
		assert.ErrorIs(t, validateDimension(in), errChars, in)
	}
	// Allowed while typing but not a value.
	for _, in := range []string{"", ","} {
		err := validateDimension(in)
		require.Error(t, err, in)
		assert.NotErrorIs(t, err, errChars, in)
	}
}
