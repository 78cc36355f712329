//go:build !windows

package amd

import (
	"errors"
	"fmt"
)

// Open loads the AMD Display Library. ADL is only available on Windows.
func Open() (Library, error) {
	return nil, fmt.Errorf("amd: %w", errors.ErrUnsupported)
}
