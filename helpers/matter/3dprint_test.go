package matter

import (
	"math"
	"testing"

	"github.com/soypat/bottle/form2"
	"github.com/soypat/bottle/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestScale(t *testing.T) {
	c, err := form2.Circle(10)
	if err != nil {
		t.Fatal(err)
	}
	s := sdf.Extrude3D(c, 20)
	scaled := PLA.Scale(s)
	want := 10 / (1 - 0.2e-2)
	got := scaled.Bounds().Max.X
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("scaled radius %g, want %g", got, want)
	}
	if d := scaled.Evaluate(r3.Vec{X: want}); math.Abs(d) > 1e-9 {
		t.Errorf("scaled surface off by %g", d)
	}
	if None.Scale(s) != s {
		t.Error("None should not wrap the shape")
	}
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"PLA", "petg", "none"} {
		if _, err := Lookup(name); err != nil {
			t.Errorf("lookup %q: %v", name, err)
		}
	}
	if _, err := Lookup("steel"); err == nil {
		t.Error("expected unknown material error")
	}
}
