package render

import (
	"io"
	"math"
	"sync"

	"github.com/soypat/bottle/internal/d3"
	"github.com/soypat/bottle/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// octree renders using marching tetrahedra with octree space sampling.
type octree struct {
	dc        dc3
	todo      []cube
	unwritten triangle3Buffer
	// statistics, reported by tests.
	cubes     int
	triangles int
}

// index3 is an integer lattice coordinate in units of the octree resolution.
type index3 struct {
	X, Y, Z int
}

func (a index3) add(b index3) index3 { return index3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

func (a index3) addScalar(k int) index3 { return index3{a.X + k, a.Y + k, a.Z + k} }

func (a index3) vec() r3.Vec { return r3.Vec{X: float64(a.X), Y: float64(a.Y), Z: float64(a.Z)} }

type cube struct {
	index3      // origin of cube as integers
	n      uint // level of cube, size = 1 << n
}

// NewOctreeRenderer returns a marching tetrahedra Renderer using octree
// cube sampling. meshCells is the number of cells along the longest side
// of the bounding box.
func NewOctreeRenderer(s sdf.SDF3, meshCells int) *octree {
	if meshCells < 2 {
		panic("meshCells must be 2 or larger")
	}
	// Scale the bounding box about the center to make sure the boundaries
	// aren't on the object surface.
	bb := d3.Box(s.Bounds())
	bb = bb.ScaleAboutCenter(1.01)
	longAxis := d3.Max(bb.Size())
	// The smallest cube (side == resolution) is tested for emptiness
	// so the level = 0 cube is at half resolution.
	resolution := 0.5 * longAxis / float64(meshCells)

	levels := uint(math.Ceil(math.Log2(longAxis/resolution))) + 1

	divisions := r3.Scale(1/resolution, bb.Size())
	maxCubes := int(divisions.X) * int(divisions.Y) * int(divisions.Z)

	cubes := make([]cube, 1, max(1, maxCubes/64))
	cubes[0] = cube{index3{0, 0, 0}, levels - 1} // start at the top level
	return &octree{
		dc:        *newDc3(s, bb.Min, resolution, levels),
		unwritten: triangle3Buffer{buf: make([]Triangle3, 0, 1024)},
		todo:      cubes,
	}
}

// ReadTriangles writes triangles rendered from the model into the argument buffer.
// returns number of triangles written and an error if present.
func (oc *octree) ReadTriangles(dst []Triangle3) (n int, err error) {
	if len(dst) == 0 {
		panic("cannot write to empty triangle slice")
	}
	if oc.unwritten.Len() > 0 {
		n += oc.unwritten.Read(dst[n:])
		if n == len(dst) {
			return n, nil
		}
	}
	if len(oc.todo) == 0 && oc.unwritten.Len() == 0 {
		return n, io.EOF
	}
	n += oc.readTriangles(dst[n:])
	return n, nil
}

func (oc *octree) readTriangles(dst []Triangle3) (n int) {
	var tmp [maxCubeTriangles]Triangle3
	processed := 0
	var newCubes []cube
	for _, c := range oc.todo {
		if n == len(dst) {
			break
		}
		processed++
		if n+maxCubeTriangles > len(dst) {
			// Not enough room for the worst case, stash the overflow.
			tri, cubes := oc.processCube(tmp[:], c)
			w := copy(dst[n:], tmp[:tri])
			oc.unwritten.Write(tmp[w:tri])
			n += w
			newCubes = append(newCubes, cubes...)
			break
		}
		tri, cubes := oc.processCube(dst[n:], c)
		newCubes = append(newCubes, cubes...)
		n += tri
	}
	oc.todo = append(oc.todo[processed:], newCubes...)
	return n
}

// processCube generates triangles for a leaf cube or returns its non empty children.
func (oc *octree) processCube(dst []Triangle3, c cube) (writtenTriangles int, newCubes []cube) {
	if c.n == 1 {
		oc.cubes++
		var corners [8]r3.Vec
		var values [8]float64
		for i := range corners {
			off := index3{X: (i & 1) * 2, Y: (i >> 1 & 1) * 2, Z: (i >> 2 & 1) * 2}
			corners[i], values[i] = oc.dc.Evaluate(c.add(off))
		}
		writtenTriangles = mtToTriangles(dst, &corners, &values)
		oc.triangles += writtenTriangles
		return writtenTriangles, nil
	}
	n := c.n - 1
	s := 1 << n
	for i := 0; i < 8; i++ {
		candidate := cube{c.add(index3{X: (i & 1) * s, Y: (i >> 1 & 1) * s, Z: (i >> 2 & 1) * s}), n}
		if !oc.dc.IsEmpty(&candidate) {
			newCubes = append(newCubes, candidate)
		}
	}
	return 0, newCubes
}

// dc3 is a 3 dimensional distance cache. Neighbouring cubes share corners
// so every lattice point is evaluated once.
type dc3 struct {
	mu         sync.Mutex
	cache      map[index3]float64
	origin     r3.Vec    // origin of the overall bounding cube
	resolution float64   // size of smallest octree cube
	hdiag      []float64 // lookup table of cube half diagonals
	s          sdf.SDF3
}

// Evaluate returns the position of a lattice point and the distance there.
func (dc *dc3) Evaluate(vi index3) (r3.Vec, float64) {
	v := r3.Add(dc.origin, r3.Scale(dc.resolution, vi.vec()))
	dist, found := dc.read(vi)
	if found {
		return v, dist
	}
	dist = dc.s.Evaluate(v)
	dc.write(vi, dist)
	return v, dist
}

// IsEmpty returns true if the cube contains no SDF surface
func (dc *dc3) IsEmpty(c *cube) bool {
	s := 1 << (c.n - 1) // half side
	_, d := dc.Evaluate(c.addScalar(s))
	return math.Abs(d) >= dc.hdiag[c.n]
}

func newDc3(s sdf.SDF3, origin r3.Vec, resolution float64, n uint) *dc3 {
	if n >= 64 {
		panic("size of n must be less than size of word for hdiag generation")
	}
	dc := dc3{
		origin:     origin,
		resolution: resolution,
		hdiag:      make([]float64, n),
		s:          s,
		cache:      make(map[index3]float64),
	}
	for i := range dc.hdiag {
		si := 1 << uint(i)
		s := float64(si) * dc.resolution
		dc.hdiag[i] = 0.5 * math.Sqrt(3.0*s*s)
	}
	return &dc
}

func (dc *dc3) read(vi index3) (float64, bool) {
	dc.mu.Lock()
	dist, found := dc.cache[vi]
	dc.mu.Unlock()
	return dist, found
}

func (dc *dc3) write(vi index3, dist float64) {
	dc.mu.Lock()
	dc.cache[vi] = dist
	dc.mu.Unlock()
}

func max(a, b int) int {
	if a >= b {
		return a
	}
	return b
}
