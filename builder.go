package bottle

import (
	"io"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Step is one stage of a bottle build.
type Step uint8

// Steps in build order.
const (
	StepBuildBase Step = iota
	StepFilletBase
	StepBuildBottleneck
	StepFilletBottleneck
	StepCreateOpener
)

func (s Step) String() string {
	switch s {
	case StepBuildBase:
		return "build base"
	case StepFilletBase:
		return "fillet base"
	case StepBuildBottleneck:
		return "build bottleneck"
	case StepFilletBottleneck:
		return "fillet bottleneck"
	case StepCreateOpener:
		return "create opener"
	}
	return "unknown step"
}

// BaseFilletRadius is the radius of the rounded top edge of the base.
const BaseFilletRadius = 1.0

// Builder issues the modeling operations of a bottle on a Part.
// The zero value builds a plain bottle.
type Builder struct {
	// Opener cuts two square notches into the base perimeter.
	Opener bool
	// Logger receives a debug record per step. nil discards.
	Logger *slog.Logger
}

// Build issues the bottle's operations on part in a fixed order. It stops at
// the first kernel failure and returns it as a *GeometryError. Completed
// operations are not rolled back.
func (b Builder) Build(part Part, p Parameters) error {
	log := b.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	steps := []buildStep{
		{StepBuildBase, buildBase},
		{StepFilletBase, filletBase},
		{StepBuildBottleneck, buildBottleneck},
		{StepFilletBottleneck, filletBottleneck},
	}
	if b.Opener {
		steps = append(steps, buildStep{StepCreateOpener, createOpener})
	}
	for _, s := range steps {
		log.Debug("bottle.step", slog.String("step", s.step.String()))
		if op, err := s.do(part, p); err != nil {
			log.Debug("bottle.step failed", slog.String("step", s.step.String()), slog.String("op", op), slog.Any("err", err))
			return &GeometryError{Step: s.step, Op: op, Err: err}
		}
	}
	return nil
}

type buildStep struct {
	step Step
	do   func(Part, Parameters) (op string, err error)
}

func buildBase(part Part, p Parameters) (string, error) {
	plane, err := part.DefaultPlane(KindPlaneXOY)
	if err != nil {
		return "default plane", err
	}
	return cylinder(part, plane, p.BaseDiameter(), p.BaseLength())
}

func filletBase(part Part, p Parameters) (string, error) {
	face, err := part.FaceAt(BaseFilletProbe(p))
	if err != nil {
		return "select face", err
	}
	_, err = part.Fillet(BaseFilletRadius, false, face)
	return "fillet", err
}

func buildBottleneck(part Part, p Parameters) (string, error) {
	xoy, err := part.DefaultPlane(KindPlaneXOY)
	if err != nil {
		return "default plane", err
	}
	plane, err := part.OffsetPlane(xoy, p.BaseLength(), Normal)
	if err != nil {
		return "offset plane", err
	}
	return cylinder(part, plane, p.BottleneckDiameter(), p.BottleneckHeight())
}

func filletBottleneck(part Part, p Parameters) (string, error) {
	face, err := part.FaceAt(TransitionProbe(p))
	if err != nil {
		return "select face", err
	}
	_, err = part.Fillet(p.TransitionRadius(), false, face)
	return "fillet", err
}

func createOpener(part Part, p Parameters) (string, error) {
	for _, notch := range OpenerNotches(p) {
		xoy, err := part.DefaultPlane(KindPlaneXOY)
		if err != nil {
			return "default plane", err
		}
		sk, err := part.NewSketch(xoy)
		if err != nil {
			return "new sketch", err
		}
		if err = sk.Rectangle(notch.Center, notch.Size, notch.Angle); err != nil {
			return "rectangle", err
		}
		if err = sk.Close(); err != nil {
			return "close sketch", err
		}
		if _, err = part.Cut(sk, Normal); err != nil {
			return "cut", err
		}
	}
	return "", nil
}

// cylinder sketches a circle centered on plane's origin and extrudes it.
func cylinder(part Part, plane Entity, diameter, length float64) (string, error) {
	sk, err := part.NewSketch(plane)
	if err != nil {
		return "new sketch", err
	}
	if err = sk.Circle(r2.Vec{}, diameter/2); err != nil {
		return "circle", err
	}
	if err = sk.Close(); err != nil {
		return "close sketch", err
	}
	if _, err = part.Extrude(sk, Normal, length); err != nil {
		return "extrude", err
	}
	return "", nil
}

// BaseFilletProbe is the point selecting the top face of the base.
func BaseFilletProbe(p Parameters) r3.Vec {
	return r3.Vec{Z: p.BaseLength()}
}

// TransitionProbe is the point selecting the face the base to neck fillet
// is applied to: base radius minus neck radius minus 1mm along both planar
// axes, at the height of the base. For wide bases with thin necks the point
// falls outside the base and no face is found.
func TransitionProbe(p Parameters) r3.Vec {
	d := p.BaseDiameter()/2 - p.BottleneckDiameter()/2 - 1
	return r3.Vec{X: d, Y: d, Z: p.BaseLength()}
}

// Notch is a rectangular cut profile on the XOY plane.
type Notch struct {
	Center r2.Vec
	Size   r2.Vec
	// Angle in radians.
	Angle float64
}

// OpenerNotches returns the two square notches of the opener catch, both
// centered on the base perimeter. The second is rotated 45°.
func OpenerNotches(p Parameters) [2]Notch {
	side := p.BottleneckDiameter()
	c := r2.Vec{X: p.BaseDiameter() / 2}
	sz := r2.Vec{X: side, Y: side}
	return [2]Notch{
		{Center: c, Size: sz},
		{Center: c, Size: sz, Angle: math.Pi / 4},
	}
}
