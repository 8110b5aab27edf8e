package sdf

import (
	"math"
	"strconv"

	"github.com/soypat/bottle/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
)

// 2D signed distance function utility functions.

// SDF2 is the interface to a 2d signed distance function object.
type SDF2 interface {
	// Evaluate takes a point in 2D space as input and returns
	// the minimum distance of the SDF2 to the point. The distance
	// is negative if the point is contained within the SDF2.
	Evaluate(p r2.Vec) float64

	// Bounds returns the bounding box that completely contains the SDF2.
	Bounds() r2.Box
}

type SDF2Union interface {
	SDF2
	SetMin(MinFunc)
}

// rigid2 is an SDF2 rotated by theta and then translated by an offset.
type rigid2 struct {
	sdf    SDF2
	offset r2.Vec
	theta  float64
	bb     r2.Box
}

// Transform2D rotates an SDF2 about the origin by theta radians and then
// translates it by offset. Distance is preserved.
func Transform2D(sdf SDF2, offset r2.Vec, theta float64) SDF2 {
	if sdf == nil {
		panic("nil SDF2 argument")
	}
	s := rigid2{
		sdf:    sdf,
		offset: offset,
		theta:  theta,
	}
	v := d2.Box(sdf.Bounds()).Vertices()
	for i := range v {
		v[i] = r2.Add(d2.Rotate(v[i], theta), offset)
	}
	s.bb = r2.Box{Min: v.Min(), Max: v.Max()}
	return &s
}

// Evaluate returns the minimum distance to a transformed SDF2.
func (s *rigid2) Evaluate(p r2.Vec) float64 {
	return s.sdf.Evaluate(d2.Rotate(r2.Sub(p, s.offset), -s.theta))
}

// Bounds returns the bounding box of a transformed SDF2.
func (s *rigid2) Bounds() r2.Box {
	return s.bb
}

// union2 is a union of SDF2s.
type union2 struct {
	sdf []SDF2
	min MinFunc
	bb  r2.Box
}

// Union2D returns the union of multiple SDF2 objects.
// Union2D will panic if an argument SDF2 is nil or if no arguments are passed.
func Union2D(sdf ...SDF2) SDF2Union {
	if len(sdf) == 0 {
		panic("union requires at least one sdf")
	}
	s := union2{
		sdf: sdf,
		min: math.Min,
	}
	for i, x := range s.sdf {
		if x == nil {
			panic("nil sdf argument (" + strconv.Itoa(i) + ") to Union2D")
		}
	}
	bb := d2.Box(s.sdf[0].Bounds())
	for _, x := range s.sdf[1:] {
		bb = bb.Extend(d2.Box(x.Bounds()))
	}
	s.bb = r2.Box(bb)
	return &s
}

// Evaluate returns the minimum distance to the SDF2 union.
func (s *union2) Evaluate(p r2.Vec) float64 {
	d := s.sdf[0].Evaluate(p)
	for _, x := range s.sdf[1:] {
		d = s.min(d, x.Evaluate(p))
	}
	return d
}

// SetMin sets the minimum function to control blending.
func (s *union2) SetMin(min MinFunc) {
	s.min = min
}

// Bounds returns the bounding box of an SDF2 union.
func (s *union2) Bounds() r2.Box {
	return s.bb
}
