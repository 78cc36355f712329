// Package i2cdev reaches displays through the I²C buses the operating
// system exposes, typically /dev/i2c-* on Linux, using periph.io.
//
// DDC addresses are given in their 8-bit form (0xA0 for the EDID) and
// converted to the 7-bit address periph.io expects.
package i2cdev

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// Transport implements ddcedid.Transport on one I²C bus.
type Transport struct {
	bus i2c.Bus
}

// New returns a Transport using bus. The caller keeps ownership of bus.
func New(bus i2c.Bus) *Transport {
	return &Transport{bus: bus}
}

// ReadBytes reads n bytes from the 8-bit device address addr.
func (t *Transport) ReadBytes(addr byte, n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := t.bus.Tx(uint16(addr>>1), nil, buf); err != nil {
		return nil, fmt.Errorf("i2cdev: read 0x%02X on %s: %w", addr, t.bus, err)
	}
	return buf, nil
}

// WriteBytes writes payload[1:] to the 8-bit device address payload[0].
func (t *Transport) WriteBytes(payload []byte) error {
	if len(payload) == 0 {
		return errors.New("i2cdev: empty payload")
	}
	if err := t.bus.Tx(uint16(payload[0]>>1), payload[1:], nil); err != nil {
		return fmt.Errorf("i2cdev: write 0x%02X on %s: %w", payload[0], t.bus, err)
	}
	return nil
}

func (t *Transport) String() string {
	return "i2cdev.Transport{" + t.bus.String() + "}"
}
