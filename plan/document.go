package plan

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/soypat/bottle"
)

// namespace derives plan IDs from bottle dimensions.
var namespace = uuid.MustParse("6f1c1f43-3a55-4f0e-9a4e-0c6d1b2f7e10")

// Document is a serializable GeometryPlan.
type Document struct {
	// ID is derived from the dimensions and options: equal inputs yield equal IDs.
	ID         string            `yaml:"id" json:"id"`
	Parameters bottle.Dimensions `yaml:"parameters" json:"parameters"`
	Opener     bool              `yaml:"opener" json:"opener"`
	Ops        []Op              `yaml:"ops" json:"ops"`
}

// New runs b on a Recorder and returns the resulting plan.
func New(b bottle.Builder, p bottle.Parameters) (*Document, error) {
	var rec Recorder
	if err := b.Build(&rec, p); err != nil {
		return nil, err
	}
	return &Document{
		ID:         ID(p, b.Opener).String(),
		Parameters: p.Dimensions(),
		Opener:     b.Opener,
		Ops:        rec.Ops,
	}, nil
}

// ID returns the plan identifier for a set of parameters.
func ID(p bottle.Parameters, opener bool) uuid.UUID {
	d := p.Dimensions()
	var b []byte
	for _, v := range [...]float64{d.BaseDiameter, d.BaseLength, d.BottleneckDiameter, d.BottleneckLength, d.TotalLength} {
		b = strconv.AppendFloat(b, v, 'g', -1, 64)
		b = append(b, ';')
	}
	b = strconv.AppendBool(b, opener)
	return uuid.NewSHA1(namespace, b)
}

// WriteYAML writes the document as YAML.
func (d *Document) WriteYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w, yaml.Indent(2))
	if err := encoder.Encode(d); err != nil {
		return err
	}
	return encoder.Close()
}

// WriteJSON writes the document as indented JSON.
func (d *Document) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(d)
}

// ReadYAML decodes a document written by WriteYAML.
func ReadYAML(r io.Reader) (*Document, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, err
	}
	return &d, nil
}
