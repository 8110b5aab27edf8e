package render

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// maxCubeTriangles is the most triangles a single cube can produce:
// two per tetrahedron.
const maxCubeTriangles = 2 * len(cubeTetrahedra)

// cubeTetrahedra splits a cube into six tetrahedra sharing the 0-7 diagonal.
// Corner i sits at offset (i&1, i>>1&1, i>>2&1). Neighbouring cubes split
// shared faces along the same diagonal so the mesh has no cracks.
var cubeTetrahedra = [6][4]int{
	{0, 1, 3, 7},
	{0, 1, 5, 7},
	{0, 2, 3, 7},
	{0, 2, 6, 7},
	{0, 4, 5, 7},
	{0, 4, 6, 7},
}

// mtToTriangles writes the triangles of the isosurface d=0 inside a cube
// to dst and returns how many were written. dst must hold maxCubeTriangles.
func mtToTriangles(dst []Triangle3, p *[8]r3.Vec, v *[8]float64) int {
	n := 0
	for _, tet := range cubeTetrahedra {
		n += tetraToTriangles(dst[n:], p, v, tet)
	}
	return n
}

func tetraToTriangles(dst []Triangle3, p *[8]r3.Vec, v *[8]float64, tet [4]int) int {
	var in, out [4]int
	nin, nout := 0, 0
	for _, c := range tet {
		if v[c] < 0 {
			in[nin] = c
			nin++
		} else {
			out[nout] = c
			nout++
		}
	}
	if nin == 0 || nout == 0 {
		return 0
	}
	// Outward direction runs from the inside corners to the outside corners.
	var cin, cout r3.Vec
	for _, c := range in[:nin] {
		cin = r3.Add(cin, p[c])
	}
	for _, c := range out[:nout] {
		cout = r3.Add(cout, p[c])
	}
	outward := r3.Sub(r3.Scale(1/float64(nout), cout), r3.Scale(1/float64(nin), cin))

	n := 0
	switch nin {
	case 1, 3:
		var apex int
		var base [3]int
		if nin == 1 {
			apex, base = in[0], [3]int{out[0], out[1], out[2]}
		} else {
			apex, base = out[0], [3]int{in[0], in[1], in[2]}
		}
		t := Triangle3{V: [3]r3.Vec{
			edgeZero(p, v, apex, base[0]),
			edgeZero(p, v, apex, base[1]),
			edgeZero(p, v, apex, base[2]),
		}}
		n += emit(dst[n:], t, outward)
	case 2:
		// Quad with vertices ordered around the tetrahedron.
		a := edgeZero(p, v, in[0], out[0])
		b := edgeZero(p, v, in[0], out[1])
		c := edgeZero(p, v, in[1], out[1])
		d := edgeZero(p, v, in[1], out[0])
		n += emit(dst[n:], Triangle3{V: [3]r3.Vec{a, b, c}}, outward)
		n += emit(dst[n:], Triangle3{V: [3]r3.Vec{a, c, d}}, outward)
	}
	return n
}

// edgeZero interpolates the zero crossing on the edge i-j. The result does not
// depend on argument order so shared edges yield identical vertices.
func edgeZero(p *[8]r3.Vec, v *[8]float64, i, j int) r3.Vec {
	if v[j] < 0 {
		i, j = j, i
	}
	t := v[i] / (v[i] - v[j])
	return r3.Add(p[i], r3.Scale(t, r3.Sub(p[j], p[i])))
}

func emit(dst []Triangle3, t Triangle3, outward r3.Vec) int {
	n := r3.Cross(r3.Sub(t.V[1], t.V[0]), r3.Sub(t.V[2], t.V[0]))
	d := r3.Dot(n, outward)
	if d == 0 || math.IsNaN(d) {
		return 0
	}
	if d < 0 {
		t.V[1], t.V[2] = t.V[2], t.V[1]
	}
	dst[0] = t
	return 1
}
