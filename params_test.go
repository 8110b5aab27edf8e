package bottle

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// baseline is a valid bottle: base 60x77, neck 18, transition 22, total 135.
var baseline = Dimensions{BaseDiameter: 60, BaseLength: 77, BottleneckDiameter: 18, BottleneckLength: 22, TotalLength: 135}

func newParams(d Dimensions) (Parameters, error) {
	return NewParameters(d.BaseDiameter, d.BaseLength, d.BottleneckDiameter, d.BottleneckLength, d.TotalLength)
}

func twoThirds(total float64) float64 { return 2 * total / 3 }

func TestParametersIdentity(t *testing.T) {
	for _, d := range []Dimensions{
		baseline,
		DefaultDimensions(),
		{BaseDiameter: 35, BaseLength: twoThirds(100), BottleneckDiameter: 15, BottleneckLength: 20, TotalLength: 100},
		{BaseDiameter: 65, BaseLength: twoThirds(250), BottleneckDiameter: 26, BottleneckLength: 50, TotalLength: 250},
		{BaseDiameter: 47.123, BaseLength: 99.99, BottleneckDiameter: 20.5, BottleneckLength: 30.01, TotalLength: 170.7},
	} {
		p, err := newParams(d)
		if err != nil {
			t.Fatalf("%+v: %v", d, err)
		}
		if p.Dimensions() != d {
			t.Errorf("dimensions altered: got %+v, want %+v", p.Dimensions(), d)
		}
		if p.BaseDiameter() != d.BaseDiameter || p.BaseLength() != d.BaseLength ||
			p.BottleneckDiameter() != d.BottleneckDiameter || p.BottleneckLength() != d.BottleneckLength ||
			p.TotalLength() != d.TotalLength {
			t.Errorf("accessor mismatch for %+v", d)
		}
	}
}

func TestParametersSingleViolation(t *testing.T) {
	const eps = 1e-9
	for _, test := range []struct {
		name  string
		edit  func(d *Dimensions)
		field Field
		bound Bound
	}{
		{"total low", func(d *Dimensions) { d.TotalLength = 100 - eps; d.BaseLength = 66.67; d.BottleneckLength = 19.99 }, FieldTotalLength, Lower},
		{"total high", func(d *Dimensions) { d.TotalLength = 250 + eps }, FieldTotalLength, Upper},
		{"base length low", func(d *Dimensions) { d.BaseLength = twoThirds(100) - eps }, FieldBaseLength, Lower},
		{"base length high", func(d *Dimensions) { d.BaseLength = 90 + eps }, FieldBaseLength, Upper},
		{"bottleneck length low", func(d *Dimensions) { d.BottleneckLength = 20 - eps }, FieldBottleneckLength, Lower},
		{"bottleneck length high", func(d *Dimensions) { d.BottleneckLength = 27 + eps }, FieldBottleneckLength, Upper},
		{"base diameter low", func(d *Dimensions) { d.BaseDiameter = 35 - eps }, FieldBaseDiameter, Lower},
		{"base diameter high", func(d *Dimensions) { d.BaseDiameter = 65 + eps }, FieldBaseDiameter, Upper},
		{"bottleneck diameter low", func(d *Dimensions) { d.BottleneckDiameter = 15 - eps }, FieldBottleneckDiameter, Lower},
		{"bottleneck diameter high", func(d *Dimensions) { d.BottleneckDiameter = 26 + eps }, FieldBottleneckDiameter, Upper},
	} {
		d := baseline
		test.edit(&d)
		_, err := newParams(d)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected *ValidationError, got %v", test.name, err)
		}
		if test.name == "total low" {
			// The lowered total also lowers the dependent upper bounds.
			if !verr.Has(FieldTotalLength) {
				t.Errorf("%s: total length not reported: %v", test.name, err)
			}
			continue
		}
		if len(verr.Violations) != 1 {
			t.Fatalf("%s: want 1 violation, got %v", test.name, err)
		}
		v := verr.Violations[0]
		if v.Field != test.field || v.Bound != test.bound {
			t.Errorf("%s: got %s %s violation", test.name, v.Field, v.Bound)
		}
		if !strings.Contains(err.Error(), test.field.String()) {
			t.Errorf("%s: message %q does not name %q", test.name, err, test.field)
		}
	}
}

func TestParametersInclusiveBounds(t *testing.T) {
	for _, d := range []Dimensions{
		{BaseDiameter: 35, BaseLength: 70, BottleneckDiameter: 15, BottleneckLength: 20, TotalLength: 105},
		{BaseDiameter: 65, BaseLength: 70, BottleneckDiameter: 26, BottleneckLength: 20, TotalLength: 105},
		{BaseDiameter: 60, BaseLength: 90, BottleneckDiameter: 18, BottleneckLength: 27, TotalLength: 135},
	} {
		if _, err := newParams(d); err != nil {
			t.Errorf("%+v: %v", d, err)
		}
	}
	// totalLength exactly at its bounds.
	for _, total := range []float64{100, 250} {
		d := baseline
		d.TotalLength = total
		d.BaseLength = twoThirds(100)
		d.BottleneckLength = 20
		if _, err := newParams(d); err != nil {
			t.Errorf("total %g: %v", total, err)
		}
	}
}

func TestParametersExactFractionBounds(t *testing.T) {
	for total := 100.; total <= 250; total += 0.5 {
		if _, err := NewParameters(60, 2*total/3, 18, 20, total); err != nil {
			t.Errorf("base length at maximum, total %g: %v", total, err)
		}
		if _, err := NewParameters(60, 2*100./3, 18, 20, total); err != nil {
			t.Errorf("base length at minimum, total %g: %v", total, err)
		}
		if _, err := NewParameters(60, 2*100./3, 18, total/5, total); err != nil {
			t.Errorf("bottleneck length at maximum, total %g: %v", total, err)
		}
	}
}

func TestParametersMultipleViolationsOrdered(t *testing.T) {
	// Everything wrong: total too long, base length below its floor,
	// neck length above total/5, both diameters off.
	_, err := NewParameters(70, 10, 10, 60, 260)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	want := []struct {
		f Field
		b Bound
	}{
		{FieldTotalLength, Upper},
		{FieldBaseLength, Lower},
		{FieldBottleneckLength, Upper},
		{FieldBaseDiameter, Upper},
		{FieldBottleneckDiameter, Lower},
	}
	if len(verr.Violations) != len(want) {
		t.Fatalf("got %d violations, want %d: %v", len(verr.Violations), len(want), err)
	}
	for i, w := range want {
		v := verr.Violations[i]
		if v.Field != w.f || v.Bound != w.b {
			t.Errorf("violation %d: got %s %s, want %s %s", i, v.Field, v.Bound, w.f, w.b)
		}
	}
	msg := err.Error()
	if !strings.HasPrefix(msg, "invalid bottle parameters: ") || !strings.HasSuffix(msg, ".") {
		t.Errorf("bad message framing: %q", msg)
	}
	if strings.Count(msg, "; ") != len(want)-1 {
		t.Errorf("want %d separators in %q", len(want)-1, msg)
	}
	last := -1
	for _, w := range want {
		idx := strings.Index(msg, w.f.String())
		if idx < last {
			t.Errorf("%s reported out of order in %q", w.f, msg)
		}
		last = idx
	}
}

func TestParametersDependentBoundsUseGivenTotal(t *testing.T) {
	// Total 90 is out of range and the dependent maxima are 60 and 18.
	_, err := NewParameters(60, 65, 18, 19, 90)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	got := make(map[Field][]Bound)
	for _, v := range verr.Violations {
		got[v.Field] = append(got[v.Field], v.Bound)
	}
	if len(got[FieldTotalLength]) != 1 || got[FieldTotalLength][0] != Lower {
		t.Errorf("total length: %v", got[FieldTotalLength])
	}
	// 65 < 66.67 floor and > 60 ceiling: both bounds violated.
	if len(got[FieldBaseLength]) != 2 {
		t.Errorf("base length: %v", got[FieldBaseLength])
	}
	if len(got[FieldBottleneckLength]) != 2 {
		t.Errorf("bottleneck length: %v", got[FieldBottleneckLength])
	}
	if len(verr.Violations) != 5 {
		t.Errorf("want 5 violations, got %v", err)
	}
}

func TestParametersBaseDiameter24(t *testing.T) {
	d := baseline
	d.BaseDiameter = 24
	_, err := newParams(d)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Violations) != 1 {
		t.Fatalf("want 1 violation: %v", err)
	}
	v := verr.Violations[0]
	if v.Field != FieldBaseDiameter || v.Bound != Lower || v.Limit != 35 || v.Value != 24 {
		t.Errorf("unexpected violation %+v", v)
	}
	want := "invalid bottle parameters: base diameter 24 is below minimum 35."
	if err.Error() != want {
		t.Errorf("got %q, want %q", err, want)
	}
}

func TestParametersNaN(t *testing.T) {
	nan := math.NaN()
	_, err := NewParameters(nan, 77, 18, 22, 135)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("NaN accepted: %v", err)
	}
	for _, v := range verr.Violations {
		if v.Field != FieldBaseDiameter {
			t.Errorf("unexpected violation %s", v)
		}
	}
	if len(verr.Violations) != 2 {
		t.Errorf("NaN should fail both bounds, got %v", err)
	}
	if _, err = NewParameters(60, 77, 18, 22, math.Inf(1)); err == nil {
		t.Error("infinite total accepted")
	}
}

func TestParametersRoundedMessage(t *testing.T) {
	d := baseline
	d.BaseLength = 60
	_, err := newParams(d)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "below minimum 66.67") {
		t.Errorf("limit not rounded to hundredths: %q", err)
	}
}

func TestDerived(t *testing.T) {
	p, err := newParams(baseline)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.BottleneckHeight(); got != 58 {
		t.Errorf("bottleneck height %g, want 58", got)
	}
	if got := p.TransitionRadius(); got != 36 {
		t.Errorf("transition radius %g, want 36", got)
	}
}

func TestCustomLimits(t *testing.T) {
	// An older threshold set allowed thinner bases.
	l := DefaultLimits()
	l.BaseDiameter.Min = 25
	l.BottleneckDiameter.Min = 17
	if _, err := l.NewParameters(30, 77, 18, 22, 135); err != nil {
		t.Errorf("custom limits: %v", err)
	}
	_, err := l.NewParameters(30, 77, 16, 22, 135)
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Has(FieldBottleneckDiameter) {
		t.Errorf("expected bottleneck diameter violation, got %v", err)
	}
	r := l.Ranges(150)
	if math.Abs(r[FieldBaseLength].Max-100) > 1e-12 || math.Abs(r[FieldBottleneckLength].Max-30) > 1e-12 {
		t.Errorf("dependent ranges %+v", r)
	}
}
