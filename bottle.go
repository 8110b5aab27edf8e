// Package bottle is a parametric bottle model. It validates five linear
// dimensions and turns them into an ordered sequence of solid modeling
// operations issued against a CAD kernel through the Part interface.
//
// Kernels live in subpackages: sdfpart evaluates the operations with signed
// distance functions, kompas drives KOMPAS-3D over COM and plan records them.
package bottle

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// EntityKind enumerates the kernel entities the builder creates or selects.
type EntityKind uint8

const (
	KindUndefined EntityKind = iota
	KindPlaneXOY
	KindPlaneXOZ
	KindPlaneYOZ
	KindOffsetPlane
	KindSketch
	KindBaseExtrusion
	KindCutExtrusion
	KindFillet
	KindFace
)

func (k EntityKind) String() string {
	switch k {
	case KindPlaneXOY:
		return "plane XOY"
	case KindPlaneXOZ:
		return "plane XOZ"
	case KindPlaneYOZ:
		return "plane YOZ"
	case KindOffsetPlane:
		return "offset plane"
	case KindSketch:
		return "sketch"
	case KindBaseExtrusion:
		return "base extrusion"
	case KindCutExtrusion:
		return "cut extrusion"
	case KindFillet:
		return "fillet"
	case KindFace:
		return "face"
	}
	return "undefined"
}

// IsPlane reports whether entities of kind k can hold a sketch.
func (k EntityKind) IsPlane() bool {
	return k == KindPlaneXOY || k == KindPlaneXOZ || k == KindPlaneYOZ || k == KindOffsetPlane
}

// IsDefaultPlane reports whether k is one of the three origin planes.
func (k EntityKind) IsDefaultPlane() bool {
	return k == KindPlaneXOY || k == KindPlaneXOZ || k == KindPlaneYOZ
}

// Direction selects the side of a plane an operation works towards.
type Direction uint8

const (
	// Normal follows the plane's normal.
	Normal Direction = iota
	// Reverse goes against the plane's normal.
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "normal"
}

// Sign returns +1 for Normal and -1 for Reverse.
func (d Direction) Sign() float64 {
	if d == Reverse {
		return -1
	}
	return 1
}

// Entity is a handle to something created or selected inside a part.
// Handles are only meaningful to the Part that returned them.
type Entity interface {
	Kind() EntityKind
}

// Sketch is a 2D profile drawn on a plane. Coordinates are in the plane's
// own frame. A sketch must be closed before it can be extruded or cut.
type Sketch interface {
	Entity
	// Circle adds a circle to the profile.
	Circle(center r2.Vec, radius float64) error
	// Rectangle adds a rectangle of the given size centered at center and
	// rotated angle radians about it.
	Rectangle(center, size r2.Vec, angle float64) error
	// Close finishes editing. Closing an empty or closed sketch fails.
	Close() error
}

// Part is the capability surface of a CAD kernel's 3D part.
type Part interface {
	// DefaultPlane returns one of the origin planes.
	DefaultPlane(kind EntityKind) (Entity, error)
	// OffsetPlane creates a plane parallel to base displaced by offset.
	OffsetPlane(base Entity, offset float64, dir Direction) (Entity, error)
	// NewSketch opens a sketch on plane.
	NewSketch(plane Entity) (Sketch, error)
	// Extrude adds material by sweeping a closed sketch length along dir.
	Extrude(sketch Sketch, dir Direction, length float64) (Entity, error)
	// Cut removes material by sweeping a closed sketch through the whole part.
	Cut(sketch Sketch, dir Direction) (Entity, error)
	// FaceAt returns the first face containing the probe point.
	FaceAt(probe r3.Vec) (Entity, error)
	// Fillet rounds the edges of faces.
	Fillet(radius float64, tangent bool, faces ...Entity) (Entity, error)
}

// Generate validates dims against limits and builds the bottle on part.
// Invalid dimensions never reach part.
func Generate(part Part, b Builder, limits Limits, dims Dimensions) (Parameters, error) {
	p, err := limits.NewParameters(dims.BaseDiameter, dims.BaseLength, dims.BottleneckDiameter, dims.BottleneckLength, dims.TotalLength)
	if err != nil {
		return Parameters{}, err
	}
	return p, b.Build(part, p)
}
