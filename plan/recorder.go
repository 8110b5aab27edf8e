// Package plan records the operations a bottle.Builder issues as a
// GeometryPlan, without any geometry kernel.
package plan

import (
	"fmt"

	"github.com/soypat/bottle"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Operation names.
const (
	OpDefaultPlane = "default_plane"
	OpOffsetPlane  = "offset_plane"
	OpNewSketch    = "new_sketch"
	OpCircle       = "circle"
	OpRectangle    = "rectangle"
	OpCloseSketch  = "close_sketch"
	OpExtrude      = "extrude"
	OpCut          = "cut"
	OpFaceAt       = "face_at"
	OpFillet       = "fillet"
)

// Op is one recorded primitive operation.
type Op struct {
	Seq  int    `yaml:"seq" json:"seq"`
	Name string `yaml:"op" json:"op"`
	// Entity is the ID of the entity the operation created or edited, 0 if none.
	Entity int    `yaml:"entity,omitempty" json:"entity,omitempty"`
	Kind   string `yaml:"kind,omitempty" json:"kind,omitempty"`
	// Refs are the IDs of the entities the operation consumed.
	Refs      []int              `yaml:"refs,omitempty" json:"refs,omitempty"`
	Direction string             `yaml:"direction,omitempty" json:"direction,omitempty"`
	Tangent   bool               `yaml:"tangent,omitempty" json:"tangent,omitempty"`
	Args      map[string]float64 `yaml:"args,omitempty" json:"args,omitempty"`
}

// Arg returns a numeric argument of the operation and whether it is present.
func (op Op) Arg(name string) (float64, bool) {
	v, ok := op.Args[name]
	return v, ok
}

// Recorder is a bottle.Part that records every call it receives. It enforces
// entity ownership and sketch state like a kernel would, but builds nothing.
type Recorder struct {
	Ops []Op
	// Fail, if set, is called with each operation before it is recorded.
	// A non nil error is returned to the caller and the operation is dropped.
	Fail   func(op Op) error
	nextID int
}

var _ bottle.Part = (*Recorder)(nil)

type entity struct {
	id    int
	kind  bottle.EntityKind
	owner *Recorder
}

func (e *entity) Kind() bottle.EntityKind { return e.kind }

type sketch struct {
	entity
	profiles int
	closed   bool
}

// Count returns the number of recorded operations with the given name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Filter returns the recorded operations with the given name.
func (r *Recorder) Filter(name string) []Op {
	var ops []Op
	for _, op := range r.Ops {
		if op.Name == name {
			ops = append(ops, op)
		}
	}
	return ops
}

// Names returns the names of all recorded operations in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		names[i] = op.Name
	}
	return names
}

func (r *Recorder) record(op Op) error {
	op.Seq = len(r.Ops) + 1
	if r.Fail != nil {
		if err := r.Fail(op); err != nil {
			return err
		}
	}
	r.Ops = append(r.Ops, op)
	return nil
}

func (r *Recorder) newEntity(kind bottle.EntityKind) *entity {
	r.nextID++
	return &entity{id: r.nextID, kind: kind, owner: r}
}

func (r *Recorder) own(e bottle.Entity) (*entity, error) {
	switch v := e.(type) {
	case *entity:
		if v.owner == r {
			return v, nil
		}
	case *sketch:
		if v.owner == r {
			return &v.entity, nil
		}
	}
	return nil, fmt.Errorf("%w: %v not created by this recorder", bottle.ErrEntity, e)
}

func (r *Recorder) ownSketch(s bottle.Sketch) (*sketch, error) {
	sk, ok := s.(*sketch)
	if !ok || sk.owner != r {
		return nil, fmt.Errorf("%w: sketch not created by this recorder", bottle.ErrEntity)
	}
	return sk, nil
}

func (r *Recorder) DefaultPlane(kind bottle.EntityKind) (bottle.Entity, error) {
	if !kind.IsDefaultPlane() {
		return nil, fmt.Errorf("%w: %s is not a default plane", bottle.ErrEntity, kind)
	}
	e := r.newEntity(kind)
	err := r.record(Op{Name: OpDefaultPlane, Entity: e.id, Kind: kind.String()})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Recorder) OffsetPlane(base bottle.Entity, offset float64, dir bottle.Direction) (bottle.Entity, error) {
	b, err := r.own(base)
	if err != nil {
		return nil, err
	}
	if !b.kind.IsPlane() {
		return nil, fmt.Errorf("%w: offset from %s", bottle.ErrEntity, b.kind)
	}
	e := r.newEntity(bottle.KindOffsetPlane)
	err = r.record(Op{
		Name:      OpOffsetPlane,
		Entity:    e.id,
		Kind:      e.kind.String(),
		Refs:      []int{b.id},
		Direction: dir.String(),
		Args:      map[string]float64{"offset": offset},
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Recorder) NewSketch(plane bottle.Entity) (bottle.Sketch, error) {
	p, err := r.own(plane)
	if err != nil {
		return nil, err
	}
	if !p.kind.IsPlane() {
		return nil, fmt.Errorf("%w: sketch on %s", bottle.ErrEntity, p.kind)
	}
	sk := &sketch{entity: *r.newEntity(bottle.KindSketch)}
	err = r.record(Op{Name: OpNewSketch, Entity: sk.id, Kind: sk.kind.String(), Refs: []int{p.id}})
	if err != nil {
		return nil, err
	}
	return sk, nil
}

func (s *sketch) Circle(center r2.Vec, radius float64) error {
	if s.closed {
		return bottle.ErrSketchClosed
	}
	err := s.owner.record(Op{
		Name:   OpCircle,
		Entity: s.id,
		Args:   map[string]float64{"x": center.X, "y": center.Y, "radius": radius},
	})
	if err == nil {
		s.profiles++
	}
	return err
}

func (s *sketch) Rectangle(center, size r2.Vec, angle float64) error {
	if s.closed {
		return bottle.ErrSketchClosed
	}
	err := s.owner.record(Op{
		Name:   OpRectangle,
		Entity: s.id,
		Args: map[string]float64{
			"x": center.X, "y": center.Y,
			"width": size.X, "height": size.Y,
			"angle": angle,
		},
	})
	if err == nil {
		s.profiles++
	}
	return err
}

func (s *sketch) Close() error {
	if s.closed {
		return bottle.ErrSketchClosed
	}
	if s.profiles == 0 {
		return bottle.ErrEmptySketch
	}
	if err := s.owner.record(Op{Name: OpCloseSketch, Entity: s.id}); err != nil {
		return err
	}
	s.closed = true
	return nil
}

func (r *Recorder) Extrude(s bottle.Sketch, dir bottle.Direction, length float64) (bottle.Entity, error) {
	sk, err := r.ownSketch(s)
	if err != nil {
		return nil, err
	}
	if !sk.closed {
		return nil, bottle.ErrSketchOpen
	}
	e := r.newEntity(bottle.KindBaseExtrusion)
	err = r.record(Op{
		Name:      OpExtrude,
		Entity:    e.id,
		Kind:      e.kind.String(),
		Refs:      []int{sk.id},
		Direction: dir.String(),
		Args:      map[string]float64{"length": length},
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Recorder) Cut(s bottle.Sketch, dir bottle.Direction) (bottle.Entity, error) {
	sk, err := r.ownSketch(s)
	if err != nil {
		return nil, err
	}
	if !sk.closed {
		return nil, bottle.ErrSketchOpen
	}
	e := r.newEntity(bottle.KindCutExtrusion)
	err = r.record(Op{
		Name:      OpCut,
		Entity:    e.id,
		Kind:      e.kind.String(),
		Refs:      []int{sk.id},
		Direction: dir.String(),
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// FaceAt records the probe and returns a face handle. The recorder has no
// geometry so any probe selects a face.
func (r *Recorder) FaceAt(probe r3.Vec) (bottle.Entity, error) {
	e := r.newEntity(bottle.KindFace)
	err := r.record(Op{
		Name:   OpFaceAt,
		Entity: e.id,
		Kind:   e.kind.String(),
		Args:   map[string]float64{"x": probe.X, "y": probe.Y, "z": probe.Z},
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Recorder) Fillet(radius float64, tangent bool, faces ...bottle.Entity) (bottle.Entity, error) {
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: fillet without faces", bottle.ErrEntity)
	}
	refs := make([]int, len(faces))
	for i, f := range faces {
		e, err := r.own(f)
		if err != nil {
			return nil, err
		}
		if e.kind != bottle.KindFace {
			return nil, fmt.Errorf("%w: fillet on %s", bottle.ErrEntity, e.kind)
		}
		refs[i] = e.id
	}
	e := r.newEntity(bottle.KindFillet)
	err := r.record(Op{
		Name:    OpFillet,
		Entity:  e.id,
		Kind:    e.kind.String(),
		Refs:    refs,
		Tangent: tangent,
		Args:    map[string]float64{"radius": radius},
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}
