package render

import (
	"errors"
	"image"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// View configures the camera of a mesh preview. The mesh is fit into a
// bi-unit cube centered at the origin before drawing.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye located at (point)
	Eye       r3.Vec
	Near, Far float64
	// output width and height in pixels.
	Width, Height int
	// Supersampling factor, 1 disables antialiasing.
	Scale int
	// hex colors, i.e. "#468966".
	Color, Background string
}

// DefaultView looks at an upright part from above and to the side.
func DefaultView() View {
	return View{
		Up:         r3.Vec{Z: 1},
		Eye:        r3.Vec{X: 3, Y: 3, Z: 2},
		Near:       1,
		Far:        10,
		Width:      800,
		Height:     800,
		Scale:      2,
		Color:      "#468966",
		Background: "#FFF8E3",
	}
}

// Preview rasterizes model with a Phong shader.
func Preview(model []Triangle3, view View) (image.Image, error) {
	if len(model) == 0 {
		return nil, errors.New("empty triangle slice")
	}
	if view.Width <= 0 || view.Height <= 0 {
		return nil, errors.New("preview size must be positive")
	}
	scale := view.Scale
	if scale < 1 {
		scale = 1
	}
	tris := make([]*fauxgl.Triangle, len(model))
	for i, t := range model {
		tris[i] = fauxgl.NewTriangleForPoints(fauxglV(t.V[0]), fauxglV(t.V[1]), fauxglV(t.V[2]))
	}
	mesh := fauxgl.NewTriangleMesh(tris)
	const fovy = 30 // vertical field of view in degrees
	var (
		eye    = fauxglV(view.Eye)
		center = fauxglV(view.LookAt)
		up     = fauxglV(view.Up)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)
	mesh.BiUnitCube()
	context := fauxgl.NewContext(view.Width*scale, view.Height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor(view.Background))
	aspect := float64(view.Width) / float64(view.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(view.Color)
	context.Shader = shader
	context.DrawMesh(mesh)
	img := context.Image()
	if scale > 1 {
		// downsample image for antialiasing
		img = resize.Resize(uint(view.Width), uint(view.Height), img, resize.Bilinear)
	}
	return img, nil
}

// PreviewPNG rasterizes model and saves it as a PNG file.
func PreviewPNG(path string, model []Triangle3, view View) error {
	img, err := Preview(model, view)
	if err != nil {
		return err
	}
	return fauxgl.SavePNG(path, img)
}

func fauxglV(v r3.Vec) fauxgl.Vector {
	return fauxgl.V(v.X, v.Y, v.Z)
}
