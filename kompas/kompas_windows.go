//go:build windows

package kompas

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"github.com/soypat/bottle"
	"github.com/soypat/bottle/internal/d2"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Connector owns the connection to a KOMPAS-3D instance. COM objects are
// bound to the thread that created them: Start locks the calling goroutine
// to its OS thread until Close, and all parts must be used from it.
type Connector struct {
	// Logger receives connection events. nil discards.
	Logger *slog.Logger
	app    *ole.IDispatch
	inited bool
}

func (c *Connector) log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// Start attaches to a running KOMPAS-3D or launches one, makes it visible
// and activates the controller API. A failed first attempt is retried once
// with a fresh instance.
func (c *Connector) Start() error {
	if !c.inited {
		runtime.LockOSThread()
		if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
			// S_FALSE: already initialized on this thread.
			if oleErr, ok := err.(*ole.OleError); !ok || oleErr.Code() != 1 {
				runtime.UnlockOSThread()
				return fmt.Errorf("kompas: initialize COM: %w", err)
			}
		}
		c.inited = true
	}
	err := c.activate()
	if err != nil {
		c.log().Warn("kompas.start retry", slog.Any("err", err))
		c.release()
		err = c.activate()
	}
	return err
}

func (c *Connector) activate() error {
	if c.app == nil {
		unknown, err := oleutil.GetActiveObject(ProgID)
		if err != nil {
			c.log().Debug("kompas.launch", slog.String("progid", ProgID))
			unknown, err = oleutil.CreateObject(ProgID)
			if err != nil {
				return fmt.Errorf("kompas: create %s: %w", ProgID, err)
			}
		}
		app, err := unknown.QueryInterface(ole.IID_IDispatch)
		unknown.Release()
		if err != nil {
			return fmt.Errorf("kompas: query IDispatch: %w", err)
		}
		c.app = app
	}
	if _, err := oleutil.PutProperty(c.app, "Visible", true); err != nil {
		return fmt.Errorf("kompas: show window: %w", err)
	}
	if _, err := oleutil.CallMethod(c.app, "ActivateControllerAPI"); err != nil {
		return fmt.Errorf("kompas: activate controller API: %w", err)
	}
	return nil
}

// NewPart creates a new 3D document and returns its top level part.
func (c *Connector) NewPart() (bottle.Part, error) {
	if c.app == nil {
		return nil, fmt.Errorf("kompas: connector not started")
	}
	doc, err := dispatch(oleutil.CallMethod(c.app, "Document3D"))
	if err != nil {
		return nil, fmt.Errorf("kompas: Document3D: %w", err)
	}
	if err = call(doc, "Create", false, false); err != nil {
		return nil, fmt.Errorf("kompas: create document: %w", err)
	}
	part, err := dispatch(oleutil.CallMethod(doc, "GetPart", topPart))
	if err != nil {
		return nil, fmt.Errorf("kompas: GetPart: %w", err)
	}
	return &Part{disp: part}, nil
}

// Close releases the application handle. KOMPAS-3D keeps running.
func (c *Connector) Close() error {
	c.release()
	if c.inited {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
		c.inited = false
	}
	return nil
}

func (c *Connector) release() {
	if c.app != nil {
		c.app.Release()
		c.app = nil
	}
}

// Part is a KOMPAS-3D ksPart.
type Part struct {
	disp *ole.IDispatch
}

var _ bottle.Part = (*Part)(nil)

type entity struct {
	kind  bottle.EntityKind
	disp  *ole.IDispatch
	owner *Part
}

func (e *entity) Kind() bottle.EntityKind { return e.kind }

func (p *Part) own(e bottle.Entity, want func(bottle.EntityKind) bool) (*entity, error) {
	var ent *entity
	switch v := e.(type) {
	case *entity:
		ent = v
	case *sketch:
		ent = &v.entity
	}
	if ent == nil || ent.owner != p || !want(ent.kind) {
		return nil, fmt.Errorf("%w: %v", bottle.ErrEntity, e)
	}
	return ent, nil
}

// newEntity creates an entity and its definition object.
func (p *Part) newEntity(kind bottle.EntityKind) (*entity, *ole.IDispatch, error) {
	e, err := dispatch(oleutil.CallMethod(p.disp, "NewEntity", Code(kind)))
	if err != nil {
		return nil, nil, kernelErr("NewEntity "+kind.String(), err)
	}
	def, err := dispatch(oleutil.CallMethod(e, "GetDefinition"))
	if err != nil {
		return nil, nil, kernelErr("GetDefinition "+kind.String(), err)
	}
	return &entity{kind: kind, disp: e, owner: p}, def, nil
}

func (e *entity) create() error {
	v, err := oleutil.CallMethod(e.disp, "Create")
	if err != nil {
		return kernelErr("Create "+e.kind.String(), err)
	}
	if ok, isBool := v.Value().(bool); isBool && !ok {
		return fmt.Errorf("%w: Create %s rejected", bottle.ErrKernel, e.kind)
	}
	return nil
}

func (p *Part) DefaultPlane(kind bottle.EntityKind) (bottle.Entity, error) {
	if !kind.IsDefaultPlane() {
		return nil, fmt.Errorf("%w: %s is not a default plane", bottle.ErrEntity, kind)
	}
	d, err := dispatch(oleutil.CallMethod(p.disp, "GetDefaultEntity", Code(kind)))
	if err != nil {
		return nil, kernelErr("GetDefaultEntity", err)
	}
	return &entity{kind: kind, disp: d, owner: p}, nil
}

func (p *Part) OffsetPlane(base bottle.Entity, offset float64, dir bottle.Direction) (bottle.Entity, error) {
	if math.IsNaN(offset) || math.IsInf(offset, 0) {
		return nil, fmt.Errorf("%w: plane offset %g", bottle.ErrKernel, offset)
	}
	b, err := p.own(base, bottle.EntityKind.IsPlane)
	if err != nil {
		return nil, err
	}
	e, def, err := p.newEntity(bottle.KindOffsetPlane)
	if err != nil {
		return nil, err
	}
	if err = put(def, "direction", dir == bottle.Normal); err != nil {
		return nil, kernelErr("offset direction", err)
	}
	if err = put(def, "offset", offset); err != nil {
		return nil, kernelErr("offset", err)
	}
	if err = call(def, "SetPlane", b.disp); err != nil {
		return nil, kernelErr("SetPlane", err)
	}
	return created(e, e.create())
}

type sketch struct {
	entity
	def    *ole.IDispatch
	doc2d  *ole.IDispatch
	shapes int
}

func (p *Part) NewSketch(plane bottle.Entity) (bottle.Sketch, error) {
	pl, err := p.own(plane, bottle.EntityKind.IsPlane)
	if err != nil {
		return nil, err
	}
	e, def, err := p.newEntity(bottle.KindSketch)
	if err != nil {
		return nil, err
	}
	if err = call(def, "SetPlane", pl.disp); err != nil {
		return nil, kernelErr("SetPlane", err)
	}
	if err = e.create(); err != nil {
		return nil, err
	}
	doc2d, err := dispatch(oleutil.CallMethod(def, "BeginEdit"))
	if err != nil {
		return nil, kernelErr("BeginEdit", err)
	}
	return &sketch{entity: *e, def: def, doc2d: doc2d}, nil
}

func (s *sketch) Circle(center r2.Vec, radius float64) error {
	if s.doc2d == nil {
		return bottle.ErrSketchClosed
	}
	if err := call(s.doc2d, "ksCircle", center.X, center.Y, radius, lineStyleMain); err != nil {
		return kernelErr("ksCircle", err)
	}
	s.shapes++
	return nil
}

// Rectangle draws the rectangle as four line segments.
func (s *sketch) Rectangle(center, size r2.Vec, angle float64) error {
	if s.doc2d == nil {
		return bottle.ErrSketchClosed
	}
	h := r2.Scale(0.5, size)
	var corners [4]r2.Vec
	for i, c := range [4]r2.Vec{{X: -h.X, Y: -h.Y}, {X: h.X, Y: -h.Y}, {X: h.X, Y: h.Y}, {X: -h.X, Y: h.Y}} {
		corners[i] = r2.Add(center, d2.Rotate(c, angle))
	}
	for i, a := range corners {
		b := corners[(i+1)%4]
		if err := call(s.doc2d, "ksLineSeg", a.X, a.Y, b.X, b.Y, lineStyleMain); err != nil {
			return kernelErr("ksLineSeg", err)
		}
	}
	s.shapes++
	return nil
}

func (s *sketch) Close() error {
	if s.doc2d == nil {
		return bottle.ErrSketchClosed
	}
	if s.shapes == 0 {
		return bottle.ErrEmptySketch
	}
	if err := call(s.def, "EndEdit"); err != nil {
		return kernelErr("EndEdit", err)
	}
	s.doc2d.Release()
	s.doc2d = nil
	return nil
}

func (p *Part) closedSketch(s bottle.Sketch) (*sketch, error) {
	sk, ok := s.(*sketch)
	if !ok || sk.owner != p {
		return nil, fmt.Errorf("%w: sketch not created by this part", bottle.ErrEntity)
	}
	if sk.doc2d != nil {
		return nil, bottle.ErrSketchOpen
	}
	return sk, nil
}

func (p *Part) Extrude(s bottle.Sketch, dir bottle.Direction, length float64) (bottle.Entity, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("%w: extrusion length %g", bottle.ErrKernel, length)
	}
	sk, err := p.closedSketch(s)
	if err != nil {
		return nil, err
	}
	e, def, err := p.newEntity(bottle.KindBaseExtrusion)
	if err != nil {
		return nil, err
	}
	if err = put(def, "directionType", directionType(dir)); err != nil {
		return nil, kernelErr("directionType", err)
	}
	if err = call(def, "SetSideParam", dir == bottle.Normal, etBlind, length); err != nil {
		return nil, kernelErr("SetSideParam", err)
	}
	if err = call(def, "SetSketch", sk.disp); err != nil {
		return nil, kernelErr("SetSketch", err)
	}
	return created(e, e.create())
}

func (p *Part) Cut(s bottle.Sketch, dir bottle.Direction) (bottle.Entity, error) {
	sk, err := p.closedSketch(s)
	if err != nil {
		return nil, err
	}
	e, def, err := p.newEntity(bottle.KindCutExtrusion)
	if err != nil {
		return nil, err
	}
	if err = put(def, "directionType", directionType(dir)); err != nil {
		return nil, kernelErr("directionType", err)
	}
	if err = call(def, "SetSideParam", dir == bottle.Normal, etThroughAll, 0.); err != nil {
		return nil, kernelErr("SetSideParam", err)
	}
	if err = call(def, "SetSketch", sk.disp); err != nil {
		return nil, kernelErr("SetSketch", err)
	}
	return created(e, e.create())
}

func (p *Part) FaceAt(probe r3.Vec) (bottle.Entity, error) {
	coll, err := dispatch(oleutil.CallMethod(p.disp, "EntityCollection", o3dFace))
	if err != nil {
		return nil, kernelErr("EntityCollection", err)
	}
	defer coll.Release()
	if err = call(coll, "SelectByPoint", probe.X, probe.Y, probe.Z); err != nil {
		return nil, kernelErr("SelectByPoint", err)
	}
	first, err := dispatch(oleutil.CallMethod(coll, "First"))
	if err != nil || first == nil {
		return nil, fmt.Errorf("%w: (%g, %g, %g)", bottle.ErrNoFace, probe.X, probe.Y, probe.Z)
	}
	return &entity{kind: bottle.KindFace, disp: first, owner: p}, nil
}

func (p *Part) Fillet(radius float64, tangent bool, faces ...bottle.Entity) (bottle.Entity, error) {
	if len(faces) == 0 || !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("%w: fillet radius %g on %d faces", bottle.ErrKernel, radius, len(faces))
	}
	e, def, err := p.newEntity(bottle.KindFillet)
	if err != nil {
		return nil, err
	}
	if err = put(def, "radius", radius); err != nil {
		return nil, kernelErr("radius", err)
	}
	if err = put(def, "tangent", tangent); err != nil {
		return nil, kernelErr("tangent", err)
	}
	arr, err := dispatch(oleutil.CallMethod(def, "array"))
	if err != nil {
		return nil, kernelErr("fillet array", err)
	}
	for _, f := range faces {
		fc, err := p.own(f, func(k bottle.EntityKind) bool { return k == bottle.KindFace })
		if err != nil {
			return nil, err
		}
		if err = call(arr, "Add", fc.disp); err != nil {
			return nil, kernelErr("add face", err)
		}
	}
	return created(e, e.create())
}

func dispatch(v *ole.VARIANT, err error) (*ole.IDispatch, error) {
	if err != nil {
		return nil, err
	}
	return v.ToIDispatch(), nil
}

func call(d *ole.IDispatch, method string, args ...interface{}) error {
	_, err := oleutil.CallMethod(d, method, args...)
	return err
}

func put(d *ole.IDispatch, prop string, v interface{}) error {
	_, err := oleutil.PutProperty(d, prop, v)
	return err
}

func kernelErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", bottle.ErrKernel, op, err)
}
