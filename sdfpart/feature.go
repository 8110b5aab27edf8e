package sdfpart

import (
	"fmt"
	"math"

	"github.com/soypat/bottle"
	"github.com/soypat/bottle/internal/d2"
	"github.com/soypat/bottle/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// feature is a profile swept along the z axis of a plane, between zmin and
// zmax in plane coordinates.
type feature struct {
	entity
	frame   sdf.M44 // plane coordinates to world.
	inv     sdf.M44
	profile sdf.SDF2
	zmin    float64
	zmax    float64
	// edge rounding at zmin and zmax.
	round [2]float64
}

func (f *feature) height() float64 { return f.zmax - f.zmin }

func (f *feature) center() sdf.M44 {
	return f.frame.Mul(sdf.Translate3D(r3.Vec{Z: (f.zmin + f.zmax) / 2}))
}

func (f *feature) solid() sdf.SDF3 {
	e := sdf.ExtrudeRounded3D(f.profile, f.height(), f.round[0], f.round[1])
	return sdf.Transform3D(e, f.center())
}

// envelope is the feature's profile extended by 2k past both caps.
func (f *feature) envelope(k float64) sdf.SDF3 {
	return sdf.Transform3D(sdf.Extrude3D(f.profile, f.height()+4*k), f.center())
}

// inradius estimates the largest rounding the profile can take.
func (f *feature) inradius() float64 {
	c := d2.Box(f.profile.Bounds()).Center()
	return -f.profile.Evaluate(c)
}

func (f *feature) roundCap(side faceSide, radius float64) error {
	if radius > f.inradius() {
		return fmt.Errorf("%w: fillet radius %g exceeds profile inradius %g", bottle.ErrKernel, radius, f.inradius())
	}
	round := f.round
	round[side] = radius
	if round[0]+round[1] > f.height() {
		return fmt.Errorf("%w: fillet radius %g exceeds extrusion height %g", bottle.ErrKernel, radius, f.height())
	}
	f.round = round
	return nil
}

type faceSide uint8

const (
	sideMin faceSide = iota
	sideMax
	sideLateral
)

func (s faceSide) String() string {
	switch s {
	case sideMin:
		return "bottom"
	case sideMax:
		return "top"
	}
	return "lateral"
}

type face struct {
	entity
	f    *feature
	side faceSide
}

func (fc *face) capZ() float64 {
	if fc.side == sideMin {
		return fc.f.zmin
	}
	return fc.f.zmax
}

// outward is the world direction pointing out of the material at a cap.
func (fc *face) outward() r3.Vec {
	if fc.side == sideMin {
		return fc.f.frame.MulDirection(r3.Vec{Z: -1})
	}
	return fc.f.frame.MulDirection(r3.Vec{Z: 1})
}

// contains reports whether the world point p lies in the face's region.
func (fc *face) contains(p r3.Vec, tol float64) bool {
	l := fc.f.inv.MulPosition(p)
	d := fc.f.profile.Evaluate(r2.Vec{X: l.X, Y: l.Y})
	if fc.side == sideLateral {
		return math.Abs(d) <= tol && l.Z >= fc.f.zmin-tol && l.Z <= fc.f.zmax+tol
	}
	return math.Abs(l.Z-fc.capZ()) <= tol && d <= tol
}

// supports reports whether other starts on this cap: one of its caps is
// coplanar with the face, its axis lies inside the face's profile and its
// material extends outward from the face.
func (fc *face) supports(other *feature, tol float64) bool {
	if fc.side == sideLateral {
		return false
	}
	out := fc.outward()
	for _, z := range [2]float64{other.zmin, other.zmax} {
		origin := other.frame.MulPosition(r3.Vec{Z: z})
		l := fc.f.inv.MulPosition(origin)
		if math.Abs(l.Z-fc.capZ()) > tol || fc.f.profile.Evaluate(r2.Vec{X: l.X, Y: l.Y}) >= 0 {
			continue
		}
		mid := other.frame.MulPosition(r3.Vec{Z: (other.zmin + other.zmax) / 2})
		if r3.Dot(r3.Sub(mid, origin), out) > 0 {
			return true
		}
	}
	return false
}
