package sdfpart

import (
	"errors"

	"github.com/soypat/bottle/helpers/matter"
	"github.com/soypat/bottle/render"
)

// Renderer returns a renderer for the part scaled to compensate for the
// shrinkage of material m. cells is the resolution along the longest side.
func (p *Part) Renderer(cells int, m matter.ViscousMaterial) (render.Renderer, error) {
	if cells < 2 {
		return nil, errors.New("mesh resolution must be at least 2 cells")
	}
	s, err := p.Solid()
	if err != nil {
		return nil, err
	}
	return render.NewOctreeRenderer(m.Scale(s), cells), nil
}

// Mesh renders the part into triangles.
func (p *Part) Mesh(cells int, m matter.ViscousMaterial) ([]render.Triangle3, error) {
	r, err := p.Renderer(cells, m)
	if err != nil {
		return nil, err
	}
	return render.RenderAll(r)
}

// CreateSTL renders the part to a binary STL file.
func (p *Part) CreateSTL(path string, cells int, m matter.ViscousMaterial) error {
	r, err := p.Renderer(cells, m)
	if err != nil {
		return err
	}
	return render.CreateSTL(path, r)
}
