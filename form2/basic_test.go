package form2

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestShapeErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
	}{
		{"zero radius", func() error { _, err := Circle(0); return err }()},
		{"NaN radius", func() error { _, err := CircleAt(r2.Vec{X: 1}, math.NaN()); return err }()},
		{"flat box", func() error { _, err := Box(r2.Vec{X: 1}, 0); return err }()},
		{"oversized round", func() error { _, err := Box(r2.Vec{X: 2, Y: 2}, 1.5); return err }()},
		{"flat rectangle", func() error { _, err := Rectangle(r2.Vec{}, r2.Vec{Y: 3}, 0); return err }()},
	} {
		if tc.err == nil {
			t.Errorf("%s: expected error", tc.name)
		} else if _, ok := tc.err.(*shapeErr); !ok {
			t.Errorf("%s: got %T, want recovered shape error", tc.name, tc.err)
		}
	}
}

func TestRectangle(t *testing.T) {
	const tol = 1e-9
	r, err := Rectangle(r2.Vec{X: 10}, r2.Vec{X: 4, Y: 2}, math.Pi/2)
	if err != nil {
		t.Fatal(err)
	}
	// Rotated a quarter turn the long side lies along y.
	for _, tc := range []struct {
		p    r2.Vec
		want float64
	}{
		{p: r2.Vec{X: 10}, want: -1},
		{p: r2.Vec{X: 10, Y: 2}, want: 0},
		{p: r2.Vec{X: 11}, want: 0},
		{p: r2.Vec{X: 13}, want: 2},
	} {
		if got := r.Evaluate(tc.p); math.Abs(got-tc.want) > tol {
			t.Errorf("%v: got %g, want %g", tc.p, got, tc.want)
		}
	}
	c, err := CircleAt(r2.Vec{X: -3, Y: 4}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Evaluate(r2.Vec{}); math.Abs(got-4) > tol {
		t.Errorf("circle at (-3,4): distance from origin %g, want 4", got)
	}
}
