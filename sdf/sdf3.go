package sdf

import (
	"math"
	"strconv"

	"github.com/soypat/bottle/internal/d3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// 3D signed distance utility functions.

// SDF3 is the interface to a 3d signed distance function object.
type SDF3 interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the SDF3 to the point. The distance
	// is negative if the point is contained within the SDF3.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the SDF3.
	Bounds() r3.Box
}

type SDF3Union interface {
	SDF3
	SetMin(MinFunc)
}

// extrude3 extrudes an SDF2 to an SDF3. Either end of the extrusion
// may have its profile edge rounded.
type extrude3 struct {
	sdf    SDF2
	height float64 // half height
	bottom float64 // rounding at z = -height
	top    float64 // rounding at z = +height
	bb     r3.Box
}

// Extrude3D does a linear extrude on an SDF2. The extrusion
// is centered on the origin and spans height along z.
func Extrude3D(sdf SDF2, height float64) SDF3 {
	return ExtrudeRounded3D(sdf, height, 0, 0)
}

// ExtrudeRounded3D extrudes an SDF2 to an SDF3 rounding the profile
// edge at the bottom and top ends by the given radii. The outer
// dimensions of the extrusion are not modified by the rounding.
func ExtrudeRounded3D(sdf SDF2, height, bottom, top float64) SDF3 {
	switch {
	case sdf == nil:
		panic("nil SDF2 argument")
	case height <= 0:
		panic("height <= 0")
	case bottom < 0 || top < 0:
		panic("round < 0")
	case bottom+top > height:
		panic("rounding exceeds height")
	}
	s := extrude3{
		sdf:    sdf,
		height: height / 2,
		bottom: bottom,
		top:    top,
	}
	bb := sdf.Bounds()
	s.bb = r3.Box{
		Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: -s.height},
		Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: s.height},
	}
	return &s
}

// Evaluate returns the minimum distance to an extrusion.
func (s *extrude3) Evaluate(p r3.Vec) float64 {
	// sdf for the projected 2d surface
	a := s.sdf.Evaluate(r2.Vec{X: p.X, Y: p.Y})
	switch {
	case s.top > 0 && p.Z > s.height-s.top:
		return roundedEdge(a+s.top, p.Z-(s.height-s.top)) - s.top
	case s.bottom > 0 && p.Z < s.bottom-s.height:
		return roundedEdge(a+s.bottom, (s.bottom-s.height)-p.Z) - s.bottom
	}
	// sdf for the extrusion region: z = [-height, height]
	b := math.Abs(p.Z) - s.height
	// return the intersection
	return math.Max(a, b)
}

// roundedEdge combines a profile distance a and an axial distance b
// so that the edge between them is rounded.
func roundedEdge(a, b float64) float64 {
	if b > 0 {
		// outside the object Z extent
		if a < 0 {
			// inside the boundary
			return b
		}
		// outside the boundary
		return math.Hypot(a, b)
	}
	// within the object Z extent
	if a < 0 {
		// inside the boundary
		return math.Max(a, b)
	}
	// outside the boundary
	return a
}

// Bounds returns the bounding box for an extrusion.
func (s *extrude3) Bounds() r3.Box {
	return s.bb
}

// Transform SDF3 (rotation, translation - distance preserving)

// transform3 is an SDF3 transformed with a 4x4 transformation matrix.
type transform3 struct {
	sdf     SDF3
	inverse M44
	bb      r3.Box
}

// Transform3D applies a transformation matrix to an SDF3.
func Transform3D(sdf SDF3, matrix M44) SDF3 {
	if sdf == nil {
		panic("nil SDF3 argument")
	}
	s := transform3{}
	s.sdf = sdf
	s.inverse = matrix.Inverse()
	s.bb = matrix.MulBox(sdf.Bounds())
	return &s
}

// Evaluate returns the minimum distance to a transformed SDF3.
// Distance is *not* preserved with scaling.
func (s *transform3) Evaluate(p r3.Vec) float64 {
	return s.sdf.Evaluate(s.inverse.MulPosition(p))
}

// Bounds returns the bounding box of a transformed SDF3.
func (s *transform3) Bounds() r3.Box {
	return s.bb
}

// Uniform XYZ Scaling of SDF3s (we can work out the distance)

// scaleUniform3 is an SDF3 scaled uniformly in XYZ directions.
type scaleUniform3 struct {
	sdf     SDF3
	k, invK float64
	bb      r3.Box
}

// ScaleUniform3D uniformly scales an SDF3 on all axes.
func ScaleUniform3D(sdf SDF3, k float64) SDF3 {
	if k <= 0 {
		panic("scale <= 0")
	}
	bb := sdf.Bounds()
	return &scaleUniform3{
		sdf:  sdf,
		k:    k,
		invK: 1.0 / k,
		bb:   r3.Box{Min: r3.Scale(k, bb.Min), Max: r3.Scale(k, bb.Max)},
	}
}

// Evaluate returns the minimum distance to a uniformly scaled SDF3.
// The distance is correct with scaling.
func (s *scaleUniform3) Evaluate(p r3.Vec) float64 {
	q := r3.Scale(s.invK, p)
	return s.sdf.Evaluate(q) * s.k
}

// Bounds returns the bounding box of a uniformly scaled SDF3.
func (s *scaleUniform3) Bounds() r3.Box {
	return s.bb
}

// union3 is a union of SDF3s.
type union3 struct {
	sdf []SDF3
	min MinFunc
	bb  r3.Box
}

// Union3D returns the union of multiple SDF3 objects.
// Union3D will panic if arguments list is empty or if
// an argument SDF3 is nil.
func Union3D(sdf ...SDF3) SDF3Union {
	if len(sdf) == 0 {
		panic("union requires at least one sdf")
	}
	s := union3{
		sdf: sdf,
	}
	for i, x := range s.sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union3D")
		}
	}
	// work out the bounding box
	bb := d3.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf[1:] {
		bb = bb.Extend(d3.Box(x.Bounds()))
	}
	s.bb = r3.Box(bb)
	s.min = math.Min
	return &s
}

// Evaluate returns the minimum distance to an SDF3 union.
func (s *union3) Evaluate(p r3.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for _, x := range s.sdf[1:] {
		d = s.min(d, x.Evaluate(p))
	}
	return d
}

// SetMin sets the minimum function to control blending.
func (s *union3) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of an SDF3 union.
func (s *union3) Bounds() r3.Box {
	return s.bb
}

// Blend3D returns the union of two SDF3s joined by a concave round of
// radius k. The bounding box is grown to contain the added material.
func Blend3D(s0, s1 SDF3, k float64) SDF3 {
	if k <= 0 {
		panic("blend radius <= 0")
	}
	u := Union3D(s0, s1).(*union3)
	u.min = RoundMin(k)
	u.bb = r3.Box(d3.Box(u.bb).Enlarge(d3.Elem(2 * k)))
	return u
}

// diff3 is the difference of two SDF3s, s0 - s1.
type diff3 struct {
	s0 SDF3
	s1 SDF3
	bb r3.Box
}

// Difference3D returns the difference of two SDF3s, s0 - s1.
// Difference3D will panic if one any of the arguments is nil.
func Difference3D(s0, s1 SDF3) SDF3 {
	if s1 == nil || s0 == nil {
		panic("nil argument to Difference3D")
	}
	s := diff3{}
	s.s0 = s0
	s.s1 = s1
	s.bb = s0.Bounds()
	return &s
}

// Evaluate returns the minimum distance to the SDF3 difference.
func (s *diff3) Evaluate(p r3.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), -s.s1.Evaluate(p))
}

// Bounds returns the bounding box of the SDF3 difference.
func (s *diff3) Bounds() r3.Box {
	return s.bb
}

// intersect3 is the intersection of two SDF3s.
type intersect3 struct {
	s0 SDF3
	s1 SDF3
	bb r3.Box
}

// Intersect3D returns the intersection of two SDF3s.
// Intersect3D will panic if one any of the arguments is nil.
func Intersect3D(s0, s1 SDF3) SDF3 {
	if s1 == nil || s0 == nil {
		panic("nil argument to Intersect3D")
	}
	bb0, bb1 := s0.Bounds(), s1.Bounds()
	s := intersect3{
		s0: s0,
		s1: s1,
		bb: r3.Box{
			Min: d3.MaxElem(bb0.Min, bb1.Min),
			Max: d3.MinElem(bb0.Max, bb1.Max),
		},
	}
	return &s
}

// Evaluate returns the minimum distance to the SDF3 intersection.
func (s *intersect3) Evaluate(p r3.Vec) float64 {
	return math.Max(s.s0.Evaluate(p), s.s1.Evaluate(p))
}

// Bounds returns the bounding box of an SDF3 intersection.
func (s *intersect3) Bounds() r3.Box {
	return s.bb
}
