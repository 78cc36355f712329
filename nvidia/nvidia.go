// Package nvidia reaches displays driven by NVIDIA GPUs through the NVAPI
// I2C calls.
//
// Outputs are addressed by a GPU handle and a single-bit output mask. Open
// loads the driver library once and the returned Library is shared by every
// Source and Transport built on it.
package nvidia

import (
	"fmt"
	"strconv"
)

// MaxOutputs is the width of an NVAPI output mask.
const MaxOutputs = 32

// Handle identifies a physical GPU for the lifetime of a Library.
type Handle uintptr

// Library is the part of NVAPI used to enumerate outputs and talk to them.
type Library interface {
	PhysicalGPUs() ([]Handle, error)

	// ConnectedOutputs returns the mask of outputs with a display attached.
	ConnectedOutputs(gpu Handle) (uint32, error)

	// I2CRead reads len(buf) bytes from the device at the 8-bit address
	// addr on the DDC port of output mask.
	I2CRead(gpu Handle, mask uint32, addr byte, buf []byte) error

	// I2CWrite writes data to the device at the 8-bit address addr.
	I2CWrite(gpu Handle, mask uint32, addr byte, data []byte) error

	Close() error
}

// Status is an NVAPI return code other than NVAPI_OK.
type Status int32

var statusNames = map[Status]string{
	-1: "error",
	-2: "library not found",
	-3: "no implementation",
	-4: "api not initialized",
	-5: "invalid argument",
	-6: "nvidia device not found",
	-7: "end enumeration",
	-8: "invalid handle",
	-9: "incompatible struct version",
}

func (s Status) Error() string {
	if name, ok := statusNames[s]; ok {
		return "nvapi: " + name
	}
	return "nvapi: status " + strconv.Itoa(int(s))
}

// Transport implements ddcedid.Transport on one output of one GPU.
type Transport struct {
	lib  Library
	gpu  Handle
	mask uint32
}

// NewTransport returns a Transport for the output selected by mask.
func NewTransport(lib Library, gpu Handle, mask uint32) *Transport {
	return &Transport{lib: lib, gpu: gpu, mask: mask}
}

// ReadBytes reads n bytes from the device at addr.
func (t *Transport) ReadBytes(addr byte, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := t.lib.I2CRead(t.gpu, t.mask, addr, buf); err != nil {
		return nil, fmt.Errorf("nvidia: read 0x%02X on %s: %w", addr, t, err)
	}
	return buf, nil
}

// WriteBytes writes payload[1:] to the device at payload[0].
func (t *Transport) WriteBytes(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("nvidia: empty payload on %s", t)
	}
	if err := t.lib.I2CWrite(t.gpu, t.mask, payload[0], payload[1:]); err != nil {
		return fmt.Errorf("nvidia: write %d bytes on %s: %w", len(payload), t, err)
	}
	return nil
}

func (t *Transport) String() string {
	return fmt.Sprintf("gpu %#x output %#x", uintptr(t.gpu), t.mask)
}
