package form2

import (
	"fmt"
	"runtime/debug"

	"github.com/soypat/bottle/form2/must2"
	"github.com/soypat/bottle/sdf"
	"gonum.org/v1/gonum/spatial/r2"
)

type shapeErr struct {
	panicObj interface{}
	stack    string
}

func (s *shapeErr) Error() string {
	return fmt.Sprintf("%s", s.panicObj)
}

// Circle returns the SDF2 for a 2d circle centered on the origin.
func Circle(radius float64) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Circle(radius), err
}

// Box returns a 2d box centered on the origin.
func Box(size r2.Vec, round float64) (s sdf.SDF2, err error) {
	defer func() {
		if a := recover(); a != nil {
			err = &shapeErr{
				panicObj: a,
				stack:    string(debug.Stack()),
			}
		}
	}()
	return must2.Box(size, round), err
}

// Rectangle returns a box of the given size rotated by theta radians
// about its center, with its center placed at center.
func Rectangle(center, size r2.Vec, theta float64) (sdf.SDF2, error) {
	b, err := Box(size, 0)
	if err != nil {
		return nil, err
	}
	return sdf.Transform2D(b, center, theta), nil
}

// CircleAt returns a circle of the given radius centered at center.
func CircleAt(center r2.Vec, radius float64) (sdf.SDF2, error) {
	c, err := Circle(radius)
	if err != nil {
		return nil, err
	}
	if center == (r2.Vec{}) {
		return c, nil
	}
	return sdf.Transform2D(c, center, 0), nil
}
