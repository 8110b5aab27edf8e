// Package kompas drives KOMPAS-3D through its automation API (API5) and
// exposes the active document's part as a bottle.Part. Only Windows hosts
// can run KOMPAS; other platforms get a Connector that reports ErrUnsupported.
package kompas

import (
	"errors"
	"fmt"

	"github.com/soypat/bottle"
)

// ProgID identifies the KOMPAS-3D automation server.
const ProgID = "KOMPAS.Application.5"

// ErrUnsupported is returned by Connector on platforms without COM.
var ErrUnsupported = fmt.Errorf("kompas: %w", errors.ErrUnsupported)

// Obj3dType values of the API5 type library used by this package.
const (
	o3dPlaneXOY      = 1
	o3dPlaneXOZ      = 2
	o3dPlaneYOZ      = 3
	o3dSketch        = 5
	o3dFace          = 6
	o3dPlaneOffset   = 14
	o3dBaseExtrusion = 24
	o3dCutExtrusion  = 26
	o3dFillet        = 34
	o3dUnknown       = 0
	dtNormal         = 0 // Direction_Type
	dtReverse        = 1
	etBlind          = 0 // End_Type
	etThroughAll     = 1
	lineStyleMain    = 1 // main contour line style for 2D primitives
	topPart          = -1
)

// Code returns the Obj3dType of an entity kind.
func Code(kind bottle.EntityKind) int {
	switch kind {
	case bottle.KindPlaneXOY:
		return o3dPlaneXOY
	case bottle.KindPlaneXOZ:
		return o3dPlaneXOZ
	case bottle.KindPlaneYOZ:
		return o3dPlaneYOZ
	case bottle.KindOffsetPlane:
		return o3dPlaneOffset
	case bottle.KindSketch:
		return o3dSketch
	case bottle.KindBaseExtrusion:
		return o3dBaseExtrusion
	case bottle.KindCutExtrusion:
		return o3dCutExtrusion
	case bottle.KindFillet:
		return o3dFillet
	case bottle.KindFace:
		return o3dFace
	}
	return o3dUnknown
}

// Kind is the inverse of Code.
func Kind(code int) bottle.EntityKind {
	for k := bottle.KindPlaneXOY; k <= bottle.KindFace; k++ {
		if Code(k) == code {
			return k
		}
	}
	return bottle.KindUndefined
}

func directionType(d bottle.Direction) int {
	if d == bottle.Reverse {
		return dtReverse
	}
	return dtNormal
}

// created returns e once its Create call succeeded and nil otherwise.
func created(e bottle.Entity, err error) (bottle.Entity, error) {
	if err != nil {
		return nil, err
	}
	return e, nil
}
