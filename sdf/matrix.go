package sdf

import (
	"math"

	"github.com/soypat/bottle/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// M44 is a row major 4x4 affine transformation matrix.
// The last row is always {0, 0, 0, 1}.
type M44 [16]float64

// Identity3d returns the 4x4 identity matrix.
func Identity3d() M44 {
	return M44{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate3D returns a 4x4 translation matrix.
func Translate3D(v r3.Vec) M44 {
	return M44{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}
}

// RotateZ returns a 4x4 matrix for a rotation of theta radians about the z-axis.
func RotateZ(theta float64) M44 {
	s, c := math.Sincos(theta)
	return M44{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Frame3D returns the matrix that maps local coordinates of a frame with
// axes u, v, n placed at origin to world coordinates. The axes are expected
// to be orthonormal.
func Frame3D(origin, u, v, n r3.Vec) M44 {
	return M44{
		u.X, v.X, n.X, origin.X,
		u.Y, v.Y, n.Y, origin.Y,
		u.Z, v.Z, n.Z, origin.Z,
		0, 0, 0, 1,
	}
}

// Mul multiplies 4x4 matrices, returning a*b.
func (a M44) Mul(b M44) M44 {
	var m M44
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[i*4+k] * b[k*4+j]
			}
			m[i*4+j] = sum
		}
	}
	return m
}

// MulPosition multiplies a position by the matrix (translation applies).
func (a M44) MulPosition(b r3.Vec) r3.Vec {
	return r3.Vec{
		X: a[0]*b.X + a[1]*b.Y + a[2]*b.Z + a[3],
		Y: a[4]*b.X + a[5]*b.Y + a[6]*b.Z + a[7],
		Z: a[8]*b.X + a[9]*b.Y + a[10]*b.Z + a[11],
	}
}

// MulDirection multiplies a direction by the matrix (translation is ignored).
func (a M44) MulDirection(b r3.Vec) r3.Vec {
	return r3.Vec{
		X: a[0]*b.X + a[1]*b.Y + a[2]*b.Z,
		Y: a[4]*b.X + a[5]*b.Y + a[6]*b.Z,
		Z: a[8]*b.X + a[9]*b.Y + a[10]*b.Z,
	}
}

// MulBox rotates/translates a 3d bounding box and resizes for axis-alignment.
func (a M44) MulBox(box r3.Box) r3.Box {
	v := d3.Box(box).Vertices()
	for i := range v {
		v[i] = a.MulPosition(v[i])
	}
	return r3.Box{Min: v.Min(), Max: v.Max()}
}

// Determinant returns the determinant of the rotation/scale part of the matrix.
func (a M44) Determinant() float64 {
	return a[0]*(a[5]*a[10]-a[6]*a[9]) -
		a[1]*(a[4]*a[10]-a[6]*a[8]) +
		a[2]*(a[4]*a[9]-a[5]*a[8])
}

// Inverse returns the inverse of an affine 4x4 matrix.
// It panics if the matrix is singular.
func (a M44) Inverse() M44 {
	det := a.Determinant()
	if math.Abs(det) < epsilon {
		panic("singular matrix")
	}
	k := 1 / det
	var m M44
	m[0] = k * (a[5]*a[10] - a[6]*a[9])
	m[1] = k * (a[2]*a[9] - a[1]*a[10])
	m[2] = k * (a[1]*a[6] - a[2]*a[5])
	m[4] = k * (a[6]*a[8] - a[4]*a[10])
	m[5] = k * (a[0]*a[10] - a[2]*a[8])
	m[6] = k * (a[2]*a[4] - a[0]*a[6])
	m[8] = k * (a[4]*a[9] - a[5]*a[8])
	m[9] = k * (a[1]*a[8] - a[0]*a[9])
	m[10] = k * (a[0]*a[5] - a[1]*a[4])
	t := m.MulDirection(r3.Vec{X: a[3], Y: a[7], Z: a[11]})
	m[3], m[7], m[11] = -t.X, -t.Y, -t.Z
	m[15] = 1
	return m
}
