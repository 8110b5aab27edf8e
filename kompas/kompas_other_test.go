//go:build !windows

package kompas

import (
	"errors"
	"testing"
)

func TestUnsupported(t *testing.T) {
	var c Connector
	if err := c.Start(); !errors.Is(err, ErrUnsupported) || !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("Start: %v", err)
	}
	if _, err := c.NewPart(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("NewPart: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Error(err)
	}
}
