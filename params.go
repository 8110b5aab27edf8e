package bottle

import (
	"math"
	"strconv"
	"strings"
)

// Dimensions are the five linear dimensions of a bottle in millimetres.
// The zero value is not a valid bottle.
type Dimensions struct {
	BaseDiameter       float64 `yaml:"base_diameter" json:"base_diameter" mapstructure:"base_diameter"`
	BaseLength         float64 `yaml:"base_length" json:"base_length" mapstructure:"base_length"`
	BottleneckDiameter float64 `yaml:"bottleneck_diameter" json:"bottleneck_diameter" mapstructure:"bottleneck_diameter"`
	// BottleneckLength is the height of the transition between the top of
	// the base and the top of the neck.
	BottleneckLength float64 `yaml:"bottleneck_length" json:"bottleneck_length" mapstructure:"bottleneck_length"`
	TotalLength      float64 `yaml:"total_length" json:"total_length" mapstructure:"total_length"`
}

// DefaultDimensions are the dimensions the interactive form starts with.
func DefaultDimensions() Dimensions {
	return Dimensions{
		BaseDiameter:       60,
		BaseLength:         77,
		BottleneckDiameter: 20,
		BottleneckLength:   22,
		TotalLength:        135,
	}
}

// Parameters is a validated, immutable set of bottle dimensions.
// The only way to obtain a non zero Parameters is through NewParameters.
type Parameters struct {
	d Dimensions
}

// NewParameters validates the five dimensions against DefaultLimits.
// On failure the error is a *ValidationError listing every violated bound.
func NewParameters(baseDiameter, baseLength, bottleneckDiameter, bottleneckLength, totalLength float64) (Parameters, error) {
	return DefaultLimits().NewParameters(baseDiameter, baseLength, bottleneckDiameter, bottleneckLength, totalLength)
}

func (p Parameters) BaseDiameter() float64       { return p.d.BaseDiameter }
func (p Parameters) BaseLength() float64         { return p.d.BaseLength }
func (p Parameters) BottleneckDiameter() float64 { return p.d.BottleneckDiameter }
func (p Parameters) BottleneckLength() float64   { return p.d.BottleneckLength }
func (p Parameters) TotalLength() float64        { return p.d.TotalLength }

// Dimensions returns a copy of the validated values.
func (p Parameters) Dimensions() Dimensions { return p.d }

// BottleneckHeight is the extrusion height of the neck cylinder, measured
// from the top of the base.
func (p Parameters) BottleneckHeight() float64 {
	return p.d.TotalLength - p.d.BaseLength
}

// TransitionRadius is the fillet radius between base and neck.
func (p Parameters) TransitionRadius() float64 {
	return p.d.TotalLength - (p.d.BaseLength + p.d.BottleneckLength)
}

// Range is an inclusive interval.
type Range struct {
	Min float64 `yaml:"min" json:"min" mapstructure:"min"`
	Max float64 `yaml:"max" json:"max" mapstructure:"max"`
}

// Fraction is Num/Den of a length.
type Fraction struct {
	Num float64 `mapstructure:"num"`
	Den float64 `mapstructure:"den"`
}

// Of returns Num*length/Den, multiplying before dividing so a length typed
// as 2*t/3 lands exactly on the bound.
func (f Fraction) Of(length float64) float64 {
	return f.Num * length / f.Den
}

// Limits holds the validation thresholds. Base length and bottleneck length
// bounds are fractions of the total length: the lower bound uses
// TotalLength.Min and the upper bound the total length being validated.
type Limits struct {
	TotalLength        Range    `mapstructure:"total_length"`
	BaseDiameter       Range    `mapstructure:"base_diameter"`
	BottleneckDiameter Range    `mapstructure:"bottleneck_diameter"`
	BaseLength         Fraction `mapstructure:"base_length"`
	BottleneckLength   Fraction `mapstructure:"bottleneck_length"`
}

// DefaultLimits returns the production thresholds.
func DefaultLimits() Limits {
	return Limits{
		TotalLength:        Range{Min: 100, Max: 250},
		BaseDiameter:       Range{Min: 35, Max: 65},
		BottleneckDiameter: Range{Min: 15, Max: 26},
		BaseLength:         Fraction{Num: 2, Den: 3},
		BottleneckLength:   Fraction{Num: 1, Den: 5},
	}
}

// NewParameters validates the five dimensions against l. Every bound is
// checked, the result is either a valid Parameters or a *ValidationError.
func (l Limits) NewParameters(baseDiameter, baseLength, bottleneckDiameter, bottleneckLength, totalLength float64) (Parameters, error) {
	d := Dimensions{
		BaseDiameter:       baseDiameter,
		BaseLength:         baseLength,
		BottleneckDiameter: bottleneckDiameter,
		BottleneckLength:   bottleneckLength,
		TotalLength:        totalLength,
	}
	if v := l.Check(d); len(v) > 0 {
		return Parameters{}, &ValidationError{Violations: v}
	}
	return Parameters{d: d}, nil
}

// Ranges returns the bounds each field is checked against for the given
// total length, in validation order.
func (l Limits) Ranges(totalLength float64) [numFields]Range {
	return [numFields]Range{
		FieldTotalLength: l.TotalLength,
		FieldBaseLength: {
			Min: l.BaseLength.Of(l.TotalLength.Min),
			Max: l.BaseLength.Of(totalLength),
		},
		FieldBottleneckLength: {
			Min: l.BottleneckLength.Of(l.TotalLength.Min),
			Max: l.BottleneckLength.Of(totalLength),
		},
		FieldBaseDiameter:       l.BaseDiameter,
		FieldBottleneckDiameter: l.BottleneckDiameter,
	}
}

// Check returns every bound d violates, nil if d is valid.
func (l Limits) Check(d Dimensions) []Violation {
	values := [numFields]float64{
		FieldTotalLength:        d.TotalLength,
		FieldBaseLength:         d.BaseLength,
		FieldBottleneckLength:   d.BottleneckLength,
		FieldBaseDiameter:       d.BaseDiameter,
		FieldBottleneckDiameter: d.BottleneckDiameter,
	}
	ranges := l.Ranges(d.TotalLength)
	var violations []Violation
	for f := Field(0); f < numFields; f++ {
		v, r := values[f], ranges[f]
		// Negated comparisons so NaN never passes.
		if !(v >= r.Min) {
			violations = append(violations, Violation{Field: f, Bound: Lower, Limit: r.Min, Value: v})
		}
		if !(v <= r.Max) {
			violations = append(violations, Violation{Field: f, Bound: Upper, Limit: r.Max, Value: v})
		}
	}
	return violations
}

// Field identifies one of the five dimensions.
type Field uint8

// Fields in validation order.
const (
	FieldTotalLength Field = iota
	FieldBaseLength
	FieldBottleneckLength
	FieldBaseDiameter
	FieldBottleneckDiameter
	numFields
)

func (f Field) String() string {
	switch f {
	case FieldTotalLength:
		return "total length"
	case FieldBaseLength:
		return "base length"
	case FieldBottleneckLength:
		return "bottleneck length"
	case FieldBaseDiameter:
		return "base diameter"
	case FieldBottleneckDiameter:
		return "bottleneck diameter"
	}
	return "unknown field"
}

// Bound tells which side of a range was violated.
type Bound uint8

const (
	Lower Bound = iota
	Upper
)

func (b Bound) String() string {
	if b == Upper {
		return "maximum"
	}
	return "minimum"
}

// Violation records a single violated bound.
type Violation struct {
	Field Field
	Bound Bound
	Limit float64
	Value float64
}

func (v Violation) String() string {
	verb := " is below "
	if v.Bound == Upper {
		verb = " is above "
	}
	return v.Field.String() + " " + formatMM(v.Value) + verb + v.Bound.String() + " " + formatMM(v.Limit)
}

// ValidationError lists every bound violated by a set of dimensions, in
// validation order.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return "invalid bottle parameters: " + strings.Join(msgs, "; ") + "."
}

// Has reports whether f has at least one violated bound.
func (e *ValidationError) Has(f Field) bool {
	for _, v := range e.Violations {
		if v.Field == f {
			return true
		}
	}
	return false
}

// formatMM formats a length rounded to hundredths of a millimetre.
func formatMM(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
