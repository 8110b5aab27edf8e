package matter

import (
	"fmt"
	"strings"

	"github.com/soypat/bottle/sdf"
)

var (
	// PLA (polylactic acid) is the most widely used plastic filament material in 3D printing.
	PLA = ViscousMaterial{name: "pla", shrink: 0.2e-2} // 0.2% shrinkage
	// PETG shrinks a bit more than PLA once cooled.
	PETG = ViscousMaterial{name: "petg", shrink: 0.4e-2}
	// None applies no compensation.
	None = ViscousMaterial{name: "none"}
)

type ViscousMaterial struct {
	name string
	// shrink is the thermal contraction shrinkage of a material once the material
	// cools to room temperature after the heated bed is turned off.
	shrink float64
}

// Lookup returns the material registered under name (case insensitive).
func Lookup(name string) (ViscousMaterial, error) {
	for _, m := range []ViscousMaterial{PLA, PETG, None} {
		if strings.EqualFold(name, m.name) {
			return m, nil
		}
	}
	return ViscousMaterial{}, fmt.Errorf("unknown material %q", name)
}

func (m ViscousMaterial) String() string { return m.name }

// Scale enlarges s so that the printed part cools down to its nominal size.
func (m ViscousMaterial) Scale(s sdf.SDF3) sdf.SDF3 {
	if m.shrink == 0 {
		return s
	}
	return sdf.ScaleUniform3D(s, 1/(1-m.shrink))
}
