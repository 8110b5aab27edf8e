//go:build !windows

package kompas

import (
	"log/slog"

	"github.com/soypat/bottle"
)

// Connector reports ErrUnsupported: KOMPAS-3D requires Windows COM.
type Connector struct {
	Logger *slog.Logger
}

func (c *Connector) Start() error { return ErrUnsupported }

func (c *Connector) NewPart() (bottle.Part, error) { return nil, ErrUnsupported }

func (c *Connector) Close() error { return nil }
