//go:build !windows

package amd

import (
	"errors"
	"testing"

	"github.com/flavioheleno/ddcedid"
)

func TestOpenUnsupported(t *testing.T) {
	lib, err := Open()
	if lib != nil {
		t.Error("Open returned a library")
	}
	if !errors.Is(err, errors.ErrUnsupported) {
		t.Errorf("Open error = %v, want ErrUnsupported", err)
	}
	if ddcedid.KindOf(err) != ddcedid.KindUnsupported {
		t.Errorf("KindOf = %v, want KindUnsupported", ddcedid.KindOf(err))
	}
}
