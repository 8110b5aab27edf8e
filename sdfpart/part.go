// Package sdfpart implements bottle.Part over signed distance functions.
// Features are kept in creation order and the solid is rebuilt from them
// when requested, so fillets may modify features created earlier.
package sdfpart

import (
	"fmt"
	"math"

	"github.com/soypat/bottle"
	"github.com/soypat/bottle/form2"
	"github.com/soypat/bottle/internal/d3"
	"github.com/soypat/bottle/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultTolerance is the distance within which a probe point is
// considered to lie on a face.
const DefaultTolerance = 1e-6

// Part is a solid built by extrusions, cuts and fillets.
// The zero value is an empty part ready to use. Part is not safe for
// concurrent use.
type Part struct {
	// Tolerance for face probing. Zero means DefaultTolerance.
	Tolerance float64
	ops       []solidOp
	faces     []*face
	nextID    int
	solid     sdf.SDF3 // cached, nil when stale.
}

var _ bottle.Part = (*Part)(nil)

// New returns an empty part.
func New() *Part { return &Part{Tolerance: DefaultTolerance} }

type opKind uint8

const (
	opAdd opKind = iota
	opCut
	opBlend
)

// solidOp is one step of the solid's construction history.
type solidOp struct {
	kind opKind
	f    *feature
	// blend material between f and with, bounded by f's profile.
	with   *feature
	radius float64
}

type entity struct {
	id    int
	kind  bottle.EntityKind
	owner *Part
}

func (e *entity) Kind() bottle.EntityKind { return e.kind }

type plane struct {
	entity
	frame sdf.M44 // plane coordinates to world.
}

func (p *Part) tol() float64 {
	if p.Tolerance > 0 {
		return p.Tolerance
	}
	return DefaultTolerance
}

func (p *Part) newEntity(kind bottle.EntityKind) entity {
	p.nextID++
	return entity{id: p.nextID, kind: kind, owner: p}
}

func (p *Part) DefaultPlane(kind bottle.EntityKind) (bottle.Entity, error) {
	var (
		x = r3.Vec{X: 1}
		y = r3.Vec{Y: 1}
		z = r3.Vec{Z: 1}
		u, v r3.Vec
	)
	switch kind {
	case bottle.KindPlaneXOY:
		u, v = x, y
	case bottle.KindPlaneXOZ:
		u, v = x, z
	case bottle.KindPlaneYOZ:
		u, v = y, z
	default:
		return nil, fmt.Errorf("%w: %s is not a default plane", bottle.ErrEntity, kind)
	}
	return &plane{
		entity: p.newEntity(kind),
		frame:  sdf.Frame3D(r3.Vec{}, u, v, r3.Cross(u, v)),
	}, nil
}

func (p *Part) OffsetPlane(base bottle.Entity, offset float64, dir bottle.Direction) (bottle.Entity, error) {
	b, err := p.asPlane(base)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return nil, fmt.Errorf("%w: offset %g", bottle.ErrKernel, offset)
	}
	return &plane{
		entity: p.newEntity(bottle.KindOffsetPlane),
		frame:  b.frame.Mul(sdf.Translate3D(r3.Vec{Z: dir.Sign() * offset})),
	}, nil
}

func (p *Part) asPlane(e bottle.Entity) (*plane, error) {
	pl, ok := e.(*plane)
	if !ok || pl.owner != p {
		return nil, fmt.Errorf("%w: want a plane of this part, got %v", bottle.ErrEntity, e)
	}
	return pl, nil
}

// sketch holds 2D profiles in plane coordinates.
type sketch struct {
	entity
	plane    *plane
	profiles []sdf.SDF2
	profile  sdf.SDF2 // set on Close.
}

func (p *Part) NewSketch(pl bottle.Entity) (bottle.Sketch, error) {
	b, err := p.asPlane(pl)
	if err != nil {
		return nil, err
	}
	return &sketch{entity: p.newEntity(bottle.KindSketch), plane: b}, nil
}

func (s *sketch) Circle(center r2.Vec, radius float64) error {
	if s.profile != nil {
		return bottle.ErrSketchClosed
	}
	c, err := form2.CircleAt(center, radius)
	if err != nil {
		return fmt.Errorf("%w: circle: %v", bottle.ErrKernel, err)
	}
	s.profiles = append(s.profiles, c)
	return nil
}

func (s *sketch) Rectangle(center, size r2.Vec, angle float64) error {
	if s.profile != nil {
		return bottle.ErrSketchClosed
	}
	r, err := form2.Rectangle(center, size, angle)
	if err != nil {
		return fmt.Errorf("%w: rectangle: %v", bottle.ErrKernel, err)
	}
	s.profiles = append(s.profiles, r)
	return nil
}

func (s *sketch) Close() error {
	switch {
	case s.profile != nil:
		return bottle.ErrSketchClosed
	case len(s.profiles) == 0:
		return bottle.ErrEmptySketch
	case len(s.profiles) == 1:
		s.profile = s.profiles[0]
	default:
		s.profile = sdf.Union2D(s.profiles...)
	}
	return nil
}

func (p *Part) closedSketch(s bottle.Sketch) (*sketch, error) {
	sk, ok := s.(*sketch)
	if !ok || sk.owner != p {
		return nil, fmt.Errorf("%w: sketch not created by this part", bottle.ErrEntity)
	}
	if sk.profile == nil {
		return nil, bottle.ErrSketchOpen
	}
	return sk, nil
}

func (p *Part) Extrude(s bottle.Sketch, dir bottle.Direction, length float64) (bottle.Entity, error) {
	sk, err := p.closedSketch(s)
	if err != nil {
		return nil, err
	}
	if !(length > 0) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("%w: extrusion length %g", bottle.ErrKernel, length)
	}
	f := &feature{
		entity:  p.newEntity(bottle.KindBaseExtrusion),
		frame:   sk.plane.frame,
		inv:     sk.plane.frame.Inverse(),
		profile: sk.profile,
		zmin:    0,
		zmax:    length,
	}
	if dir == bottle.Reverse {
		f.zmin, f.zmax = -length, 0
	}
	p.push(solidOp{kind: opAdd, f: f})
	p.faces = append(p.faces,
		&face{entity: p.newEntity(bottle.KindFace), f: f, side: sideMin},
		&face{entity: p.newEntity(bottle.KindFace), f: f, side: sideMax},
		&face{entity: p.newEntity(bottle.KindFace), f: f, side: sideLateral},
	)
	return f, nil
}

// Cut removes the sketch profile swept from its plane through the whole part
// in direction dir.
func (p *Part) Cut(s bottle.Sketch, dir bottle.Direction) (bottle.Entity, error) {
	sk, err := p.closedSketch(s)
	if err != nil {
		return nil, err
	}
	solid, err := p.Solid()
	if err != nil {
		return nil, err
	}
	inv := sk.plane.frame.Inverse()
	local := inv.MulBox(solid.Bounds())
	margin := 0.01 * r3.Norm(d3.Box(local).Size())
	f := &feature{
		entity:  p.newEntity(bottle.KindCutExtrusion),
		frame:   sk.plane.frame,
		inv:     inv,
		profile: sk.profile,
	}
	if dir == bottle.Reverse {
		f.zmin, f.zmax = local.Min.Z-margin, margin
	} else {
		f.zmin, f.zmax = -margin, local.Max.Z+margin
	}
	if f.zmax-f.zmin <= 2*margin {
		return nil, fmt.Errorf("%w: cut %s from plane misses the part", bottle.ErrKernel, dir)
	}
	p.push(solidOp{kind: opCut, f: f})
	p.faces = append(p.faces, &face{entity: p.newEntity(bottle.KindFace), f: f, side: sideLateral})
	return f, nil
}

// FaceAt returns the first face, in creation order, whose region contains
// probe and which lies on the current surface of the part.
func (p *Part) FaceAt(probe r3.Vec) (bottle.Entity, error) {
	solid, err := p.Solid()
	if err != nil {
		return nil, err
	}
	tol := p.tol()
	if math.Abs(solid.Evaluate(probe)) > tol {
		return nil, fmt.Errorf("%w: (%g, %g, %g) is off the surface", bottle.ErrNoFace, probe.X, probe.Y, probe.Z)
	}
	for _, fc := range p.faces {
		if fc.contains(probe, tol) {
			return fc, nil
		}
	}
	return nil, fmt.Errorf("%w: (%g, %g, %g)", bottle.ErrNoFace, probe.X, probe.Y, probe.Z)
}

// Fillet rounds the edges of cap faces. Where another extrusion stands on the
// face, the edge between them gets a concave round of the given radius
// limited to the face's own profile. Otherwise the face's outer edge is
// rounded. Lateral faces cannot be filleted. tangent is accepted for
// compatibility: profiles have no tangent edge chains to follow.
func (p *Part) Fillet(radius float64, tangent bool, faces ...bottle.Entity) (bottle.Entity, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: fillet radius %g", bottle.ErrKernel, radius)
	}
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: fillet without faces", bottle.ErrEntity)
	}
	for _, e := range faces {
		fc, ok := e.(*face)
		if !ok || fc.owner != p {
			return nil, fmt.Errorf("%w: want a face of this part, got %v", bottle.ErrEntity, e)
		}
		if err := p.filletFace(fc, radius); err != nil {
			return nil, err
		}
	}
	ent := p.newEntity(bottle.KindFillet)
	return &ent, nil
}

func (p *Part) filletFace(fc *face, radius float64) error {
	if fc.side == sideLateral || fc.f.kind != bottle.KindBaseExtrusion {
		return fmt.Errorf("%w: cannot fillet %s face of %s", bottle.ErrKernel, fc.side, fc.f.kind)
	}
	var neighbours []*feature
	for _, op := range p.ops {
		if op.kind == opAdd && op.f != fc.f && fc.supports(op.f, p.tol()) {
			neighbours = append(neighbours, op.f)
		}
	}
	if len(neighbours) > 0 {
		for _, n := range neighbours {
			p.push(solidOp{kind: opBlend, f: fc.f, with: n, radius: radius})
		}
		return nil
	}
	if err := fc.f.roundCap(fc.side, radius); err != nil {
		return err
	}
	p.solid = nil
	return nil
}

func (p *Part) push(op solidOp) {
	p.ops = append(p.ops, op)
	p.solid = nil
}

// Solid returns the part's current shape.
func (p *Part) Solid() (sdf.SDF3, error) {
	if p.solid != nil {
		return p.solid, nil
	}
	var s sdf.SDF3
	for _, op := range p.ops {
		switch op.kind {
		case opAdd:
			if s == nil {
				s = op.f.solid()
			} else {
				s = sdf.Union3D(s, op.f.solid())
			}
		case opCut:
			s = sdf.Difference3D(s, op.f.solid())
		case opBlend:
			s = sdf.Union3D(s, sdf.Intersect3D(
				sdf.Blend3D(op.f.solid(), op.with.solid(), op.radius),
				op.f.envelope(op.radius),
			))
		}
	}
	if s == nil {
		return nil, fmt.Errorf("%w: part has no material", bottle.ErrKernel)
	}
	p.solid = s
	return s, nil
}
