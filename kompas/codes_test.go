package kompas

import (
	"errors"
	"testing"

	"github.com/soypat/bottle"
)

func TestCodes(t *testing.T) {
	want := map[bottle.EntityKind]int{
		bottle.KindPlaneXOY:      1,
		bottle.KindPlaneXOZ:      2,
		bottle.KindPlaneYOZ:      3,
		bottle.KindSketch:        5,
		bottle.KindFace:          6,
		bottle.KindOffsetPlane:   14,
		bottle.KindBaseExtrusion: 24,
		bottle.KindCutExtrusion:  26,
		bottle.KindFillet:        34,
	}
	for kind, code := range want {
		if got := Code(kind); got != code {
			t.Errorf("%s: got code %d, want %d", kind, got, code)
		}
		if got := Kind(code); got != kind {
			t.Errorf("code %d: got %s, want %s", code, got, kind)
		}
	}
	if Code(bottle.KindUndefined) != 0 || Kind(99) != bottle.KindUndefined {
		t.Error("unknown kinds must map to 0")
	}
	if directionType(bottle.Reverse) != dtReverse || directionType(bottle.Normal) != dtNormal {
		t.Error("direction type")
	}
}

type stubEntity struct{}

func (stubEntity) Kind() bottle.EntityKind { return bottle.KindFillet }

func TestCreated(t *testing.T) {
	e, err := created(stubEntity{}, nil)
	if err != nil || e == nil {
		t.Fatalf("got %v, %v", e, err)
	}
	fail := errors.New("Create rejected")
	e, err = created(stubEntity{}, fail)
	if !errors.Is(err, fail) {
		t.Errorf("error lost: %v", err)
	}
	if e != nil {
		t.Errorf("failed create returned entity %v", e)
	}
}
