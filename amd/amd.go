// Package amd reaches displays driven by AMD GPUs through the AMD Display
// Library (ADL) DDC block access call.
//
// The library handle is an explicit value: Open loads the driver DLL once,
// the caller passes the Library to every Source and Transport built on it
// and closes it when done.
package amd

import (
	"fmt"
	"strconv"
)

// Library is the part of ADL used to enumerate displays and talk to them.
type Library interface {
	// Adapters lists every adapter the driver reports, duplicates included.
	Adapters() ([]AdapterInfo, error)

	// Displays lists the displays known to an adapter.
	Displays(adapter int) ([]DisplayInfo, error)

	// DDCBlockAccess sends send to the display and, when recv is not nil,
	// reads the answer into it. It returns the number of bytes received.
	DDCBlockAccess(adapter, display int, send, recv []byte) (int, error)

	Close() error
}

// AdapterInfo describes one ADL adapter. A physical GPU is reported once per
// output path and the copies share DriverPathExt.
type AdapterInfo struct {
	Index         int
	Bus           int
	Name          string
	DisplayName   string
	DriverPathExt string
	Present       bool
}

// DisplayInfo describes one display of an adapter.
type DisplayInfo struct {
	LogicalIndex int
	Name         string
	Manufacturer string
}

// Result is an ADL return code other than ADL_OK.
type Result int32

var resultNames = map[Result]string{
	-1:  "generic error",
	-2:  "not initialized",
	-3:  "invalid parameter",
	-4:  "invalid parameter size",
	-5:  "invalid adapter index",
	-6:  "invalid controller index",
	-7:  "invalid display index",
	-8:  "not supported",
	-9:  "null pointer",
	-10: "disabled adapter",
	-11: "invalid callback",
	-12: "resource conflict",
}

func (r Result) Error() string {
	if name, ok := resultNames[r]; ok {
		return "adl: " + name
	}
	return "adl: error " + strconv.Itoa(int(r))
}

// Transport implements ddcedid.Transport on one display of one adapter.
type Transport struct {
	lib     Library
	adapter int
	display int
}

// NewTransport returns a Transport for the given adapter and display index.
func NewTransport(lib Library, adapter, display int) *Transport {
	return &Transport{lib: lib, adapter: adapter, display: display}
}

// ReadBytes sends the device address and reads up to n bytes back.
func (t *Transport) ReadBytes(addr byte, n int) ([]byte, error) {
	buf := make([]byte, n)

	got, err := t.lib.DDCBlockAccess(t.adapter, t.display, []byte{addr}, buf)
	if err != nil {
		return nil, fmt.Errorf("amd: read 0x%02X on %d.%d: %w", addr, t.adapter, t.display, err)
	}

	if got > 0 && got < n {
		buf = buf[:got]
	}
	return buf, nil
}

// WriteBytes sends the payload, address byte included.
func (t *Transport) WriteBytes(payload []byte) error {
	if _, err := t.lib.DDCBlockAccess(t.adapter, t.display, payload, nil); err != nil {
		return fmt.Errorf("amd: write %d bytes on %d.%d: %w", len(payload), t.adapter, t.display, err)
	}
	return nil
}
