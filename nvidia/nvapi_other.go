//go:build !windows

package nvidia

import (
	"errors"
	"fmt"
)

// Open loads NVAPI. NVAPI is only available on Windows.
func Open() (Library, error) {
	return nil, fmt.Errorf("nvidia: %w", errors.ErrUnsupported)
}
