package render

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/bottle/form2"
	"github.com/soypat/bottle/sdf"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func cylinder(t testing.TB, radius, height float64) sdf.SDF3 {
	c, err := form2.Circle(radius)
	if err != nil {
		t.Fatal(err)
	}
	return sdf.Extrude3D(c, height)
}

func TestTetrahedraMaxTriangles(t *testing.T) {
	// Alternating signs produce the densest case.
	var p [8]r3.Vec
	var v [8]float64
	for i := range p {
		p[i] = r3.Vec{X: float64(i & 1), Y: float64(i >> 1 & 1), Z: float64(i >> 2 & 1)}
		v[i] = 1
		if (i&1)^(i>>1&1)^(i>>2&1) == 1 {
			v[i] = -1
		}
	}
	dst := make([]Triangle3, maxCubeTriangles)
	n := mtToTriangles(dst, &p, &v)
	if n == 0 || n > maxCubeTriangles {
		t.Fatalf("got %d triangles, want 1..%d", n, maxCubeTriangles)
	}
	for _, tri := range dst[:n] {
		if tri.Degenerate(1e-12) {
			t.Errorf("degenerate triangle %v", tri)
		}
	}
}

func TestEdgeZeroSymmetric(t *testing.T) {
	p := [8]r3.Vec{{}, {X: 1}}
	v := [8]float64{-0.3, 0.7}
	a := edgeZero(&p, &v, 0, 1)
	b := edgeZero(&p, &v, 1, 0)
	if a != b {
		t.Fatalf("edge interpolation depends on order: %v != %v", a, b)
	}
	if math.Abs(a.X-0.3) > 1e-15 {
		t.Errorf("want zero crossing at 0.3, got %v", a.X)
	}
}

func TestCylinderSurface(t *testing.T) {
	const (
		radius = 10.
		height = 30.
		cells  = 40
	)
	s := cylinder(t, radius, height)
	oct := NewOctreeRenderer(s, cells)
	model, err := RenderAll(oct)
	if err != nil {
		t.Fatal(err)
	}
	if len(model) == 0 {
		t.Fatal("no triangles rendered")
	}
	if len(model) != oct.triangles {
		t.Errorf("triangles lost. got %d. octree read %d", len(model), oct.triangles)
	}
	resolution := 0.5 * 1.01 * height / cells
	outward := 0
	for _, tri := range model {
		for _, v := range tri.V {
			if d := math.Abs(s.Evaluate(v)); d > resolution {
				t.Fatalf("vertex %v is %g from surface, resolution %g", v, d, resolution)
			}
		}
		c := tri.Centroid()
		if r3.Dot(tri.Normal(), sdf.Normal3(s, c, 1e-6)) > 0 {
			outward++
		}
	}
	if frac := float64(outward) / float64(len(model)); frac < 0.98 {
		t.Errorf("only %.3f of triangles face outward", frac)
	}
	bb := Bounds(model)
	if math.Abs(bb.Max.Z-height/2) > resolution || math.Abs(bb.Min.Z+height/2) > resolution {
		t.Errorf("mesh z extent %v..%v, want ±%g", bb.Min.Z, bb.Max.Z, height/2)
	}
}

func TestMeshClosed(t *testing.T) {
	box, err := form2.Box(r2.Vec{X: 3, Y: 2}, 0.4)
	if err != nil {
		t.Fatal(err)
	}
	model, err := RenderAll(NewOctreeRenderer(sdf.Extrude3D(box, 1.3), 30))
	if err != nil {
		t.Fatal(err)
	}
	type edge struct{ a, b r3.Vec }
	uses := make(map[edge]int)
	for _, tri := range model {
		for i := range tri.V {
			a, b := tri.V[i], tri.V[(i+1)%3]
			if b.X < a.X || (b.X == a.X && (b.Y < a.Y || (b.Y == a.Y && b.Z < a.Z))) {
				a, b = b, a
			}
			uses[edge{a, b}]++
		}
	}
	shared := 0
	for e, n := range uses {
		if n > 2 {
			t.Fatalf("edge %v shared by %d triangles", e, n)
		}
		if n == 2 {
			shared++
		}
	}
	if frac := float64(shared) / float64(len(uses)); frac < 0.99 {
		t.Errorf("only %.4f of edges are shared by two triangles", frac)
	}
}

func TestReadTrianglesSmallBuffer(t *testing.T) {
	s := cylinder(t, 5, 5)
	want, err := RenderAll(NewOctreeRenderer(s, 20))
	if err != nil {
		t.Fatal(err)
	}
	oct := NewOctreeRenderer(s, 20)
	buf := make([]Triangle3, 3)
	var got []Triangle3
	for {
		n, err := oct.ReadTriangles(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("small buffer read %d triangles, want %d", len(got), len(want))
	}
}

func TestSTLWriteReadback(t *testing.T) {
	const tol = 1e-5
	s := cylinder(t, 8, 20)
	input, err := RenderAll(NewOctreeRenderer(s, 30))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = WriteSTL(&b, input)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 84+stlTriangleSize*len(input) {
		t.Fatalf("STL size %d for %d triangles", b.Len(), len(input))
	}
	output, err := ReadSTL(&b)
	if err != nil && !errors.Is(err, ErrSTLQuality) {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatal("length of triangles written/read not equal")
	}
	for i, expect := range input {
		got := output[i]
		for j := range expect.V {
			if !equalWithin(got.V[j], expect.V[j], tol*r3.Norm(expect.V[j])+tol) {
				t.Fatalf("%dth triangle out of tolerance. got vertex %0.5g, want %0.5g", i, got.V[j], expect.V[j])
			}
		}
	}
}

func TestSTLCreateWriteRead(t *testing.T) {
	const quality = 20
	box, _ := form2.Box(r2.Vec{X: 3, Y: 2}, 0.5)
	s := sdf.Extrude3D(box, 1)
	path := filepath.Join(t.TempDir(), "box.stl")
	err := CreateSTL(path, NewOctreeRenderer(s, quality))
	if err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	model, err := RenderAll(NewOctreeRenderer(s, quality))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = WriteSTL(&b, model)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
}

func TestReadSTLErrors(t *testing.T) {
	_, err := ReadSTL(bytes.NewReader(nil))
	if err == nil {
		t.Error("expected error reading empty STL")
	}
	var b bytes.Buffer
	b.Write(make([]byte, 84))
	_, err = ReadSTL(&b)
	if err == nil {
		t.Error("expected error for zero triangle count")
	}
	if err := WriteSTL(io.Discard, nil); err == nil {
		t.Error("expected error writing empty model")
	}
}
