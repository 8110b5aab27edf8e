package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/soypat/bottle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func baseline(t *testing.T) bottle.Parameters {
	t.Helper()
	p, err := bottle.NewParameters(60, 77, 18, 22, 135)
	require.NoError(t, err)
	return p
}

func TestRecorderSketchState(t *testing.T) {
	var r Recorder
	xoy, err := r.DefaultPlane(bottle.KindPlaneXOY)
	require.NoError(t, err)
	assert.Equal(t, bottle.KindPlaneXOY, xoy.Kind())

	sk, err := r.NewSketch(xoy)
	require.NoError(t, err)
	assert.ErrorIs(t, sk.Close(), bottle.ErrEmptySketch)

	_, err = r.Extrude(sk, bottle.Normal, 10)
	assert.ErrorIs(t, err, bottle.ErrSketchOpen)

	require.NoError(t, sk.Circle(r2.Vec{}, 5))
	require.NoError(t, sk.Close())
	assert.ErrorIs(t, sk.Close(), bottle.ErrSketchClosed)
	assert.ErrorIs(t, sk.Rectangle(r2.Vec{}, r2.Vec{X: 1, Y: 1}, 0), bottle.ErrSketchClosed)

	ext, err := r.Extrude(sk, bottle.Normal, 10)
	require.NoError(t, err)
	assert.Equal(t, bottle.KindBaseExtrusion, ext.Kind())
	assert.Equal(t, []string{OpDefaultPlane, OpNewSketch, OpCircle, OpCloseSketch, OpExtrude}, r.Names())
}

func TestRecorderRejectsForeignEntities(t *testing.T) {
	var a, b Recorder
	plane, err := a.DefaultPlane(bottle.KindPlaneXOZ)
	require.NoError(t, err)

	_, err = b.NewSketch(plane)
	assert.ErrorIs(t, err, bottle.ErrEntity)
	_, err = b.OffsetPlane(plane, 1, bottle.Normal)
	assert.ErrorIs(t, err, bottle.ErrEntity)

	_, err = a.DefaultPlane(bottle.KindFace)
	assert.ErrorIs(t, err, bottle.ErrEntity)

	face, err := a.FaceAt(r3.Vec{Z: 1})
	require.NoError(t, err)
	_, err = a.NewSketch(face)
	assert.ErrorIs(t, err, bottle.ErrEntity)
	_, err = a.Fillet(1, false, plane)
	assert.ErrorIs(t, err, bottle.ErrEntity)
	_, err = a.Fillet(1, false)
	assert.ErrorIs(t, err, bottle.ErrEntity)

	fillet, err := a.Fillet(1, false, face)
	require.NoError(t, err)
	op := a.Ops[len(a.Ops)-1]
	assert.Equal(t, OpFillet, op.Name)
	assert.Equal(t, []int{face.(*entity).id}, op.Refs)
	assert.Equal(t, bottle.KindFillet, fillet.Kind())
}

func TestRecorderFailHook(t *testing.T) {
	boom := errors.New("boom")
	r := Recorder{Fail: func(op Op) error {
		if op.Name == OpOffsetPlane {
			return boom
		}
		return nil
	}}
	xoy, err := r.DefaultPlane(bottle.KindPlaneXOY)
	require.NoError(t, err)
	_, err = r.OffsetPlane(xoy, 3, bottle.Reverse)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, r.Ops, 1)
	assert.Equal(t, 0, r.Count(OpOffsetPlane))

	_, err = r.NewSketch(xoy)
	require.NoError(t, err, "recording continues after a failed op")
	assert.Equal(t, 2, r.Ops[1].Seq)
}

func TestDocument(t *testing.T) {
	p := baseline(t)
	doc, err := New(bottle.Builder{Opener: true}, p)
	require.NoError(t, err)
	assert.Equal(t, p.Dimensions(), doc.Parameters)
	assert.True(t, doc.Opener)
	assert.Len(t, doc.Ops, 25)

	again, err := New(bottle.Builder{Opener: true}, p)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, again.ID, "plan IDs are derived from the inputs")
	plain, err := New(bottle.Builder{}, p)
	require.NoError(t, err)
	assert.NotEqual(t, doc.ID, plain.ID)
}

func TestDocumentYAML(t *testing.T) {
	doc, err := New(bottle.Builder{}, baseline(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.WriteYAML(&buf))
	out := buf.String()
	assert.Contains(t, out, doc.ID)
	assert.Contains(t, out, "base_diameter: 60")
	assert.Contains(t, out, "op: offset_plane")

	got, err := ReadYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Parameters, got.Parameters)
	require.Len(t, got.Ops, len(doc.Ops))
	r, ok := got.Ops[len(got.Ops)-1].Arg("radius")
	assert.True(t, ok)
	assert.Equal(t, 36.0, r)
}

func TestDocumentJSON(t *testing.T) {
	doc, err := New(bottle.Builder{}, baseline(t))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, doc.WriteJSON(&buf))

	var got Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Ops, got.Ops)
}
