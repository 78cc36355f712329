package ddcedid

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/flavioheleno/ddcedid/descriptor"
)

// Vendor tells which backend reaches a display.
type Vendor int

const (
	VendorAMD Vendor = iota + 1
	VendorNvidia
	VendorI2CDev
)

func (v Vendor) String() string {
	switch v {
	case VendorAMD:
		return "amd"
	case VendorNvidia:
		return "nvidia"
	case VendorI2CDev:
		return "i2c"
	}
	return "unknown"
}

// Identity locates a display output within its backend. For AMD it is the
// adapter and display index, for NVIDIA the GPU handle and the output mask
// bit, for i2c-dev the bus number.
type Identity struct {
	Vendor Vendor
	GPU    uint64
	Output uint32
}

func (id Identity) String() string {
	return fmt.Sprintf("%s:%d:%d", id.Vendor, id.GPU, id.Output)
}

// Display is one display output with its cached descriptors.
type Display struct {
	id Identity
	ch *Channel

	edid      *descriptor.Buffer
	displayID *descriptor.Buffer

	rec Recorder
	log zerolog.Logger
}

// NewDisplay connects to the display behind t and reads its EDID. A display
// whose EDID cannot be read is not usable and yields an error.
//
// opts can be nil to use DefaultOpts.
func NewDisplay(id Identity, t Transport, opts *Opts) (*Display, error) {
	if opts == nil {
		def := DefaultOpts()
		opts = &def
	}

	ch, err := NewChannel(t, opts)
	if err != nil {
		return nil, err
	}

	d := &Display{
		id:        id,
		ch:        ch,
		edid:      &descriptor.Buffer{},
		displayID: &descriptor.Buffer{},
		rec:       opts.Recorder,
		log:       opts.logger().With().Stringer("display", id).Logger(),
	}

	if _, err := d.ReadEDID(); err != nil {
		return nil, err
	}

	return d, nil
}

// Identity returns the backend location of the display.
func (d *Display) Identity() Identity {
	return d.id
}

// Equal reports whether both values refer to the same output. Cached
// descriptors are not compared.
func (d *Display) Equal(other *Display) bool {
	return d.id == other.id
}

// Less orders displays by product ID, then by name. Displays missing either
// value sort after those that have it.
func (d *Display) Less(other *Display) bool {
	if c := compareLabels(d.ProductID(), other.ProductID()); c != 0 {
		return c < 0
	}
	return compareLabels(d.Name(), other.Name()) < 0
}

func compareLabels(a, b string) int {
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	return strings.Compare(a, b)
}

// Clone copies the identity and the cached descriptors. The clone shares
// the channel, which holds no per-display state besides the transport.
func (d *Display) Clone() *Display {
	c := *d
	c.edid = d.edid.Clone()
	c.displayID = d.displayID.Clone()
	return &c
}

// EDID returns a copy of the last EDID read from or written to the display.
func (d *Display) EDID() *descriptor.Buffer {
	return d.edid.Clone()
}

// DisplayID returns a copy of the last DisplayID read from or written to
// the display. It is empty until ReadDisplayID succeeds.
func (d *Display) DisplayID() *descriptor.Buffer {
	return d.displayID.Clone()
}

// ProductID returns the product ID decoded from the cached EDID, falling
// back to the DisplayID. It is empty when neither decodes.
func (d *Display) ProductID() string {
	if id, ok := d.edid.ProductID(); ok {
		return id
	}
	id, _ := d.displayID.ProductID()
	return id
}

// Name returns the monitor name decoded from the cached descriptors.
func (d *Display) Name() string {
	if name, ok := d.edid.Name(); ok {
		return name
	}
	name, _ := d.displayID.Name()
	return name
}

// ReadEDID reads the EDID and updates the cache.
func (d *Display) ReadEDID() (*descriptor.Buffer, error) {
	return d.read(AddressEDID)
}

// ReadDisplayID reads the DisplayID and updates the cache.
func (d *Display) ReadDisplayID() (*descriptor.Buffer, error) {
	return d.read(AddressDisplayID)
}

// WriteEDID writes the bytes of b that differ from the cached EDID. It does
// not verify the result; see Program.
func (d *Display) WriteEDID(b *descriptor.Buffer, mode Mode) error {
	return d.write(AddressEDID, b, mode)
}

// WriteDisplayID writes the bytes of b that differ from the cached
// DisplayID. It does not verify the result; see Program.
func (d *Display) WriteDisplayID(b *descriptor.Buffer, mode Mode) error {
	return d.write(AddressDisplayID, b, mode)
}

func (d *Display) String() string {
	label := strings.TrimSpace(d.ProductID() + " " + d.Name())
	if label == "" {
		label = "unknown display"
	}
	return fmt.Sprintf("%s (%s)", label, d.id)
}

func (d *Display) cache(addr byte) **descriptor.Buffer {
	if addr == AddressDisplayID {
		return &d.displayID
	}
	return &d.edid
}

func (d *Display) read(addr byte) (*descriptor.Buffer, error) {
	b, err := d.ch.Read(addr)
	if err != nil {
		return nil, err
	}
	*d.cache(addr) = b
	return b.Clone(), nil
}

func (d *Display) write(addr byte, b *descriptor.Buffer, mode Mode) error {
	cached := d.cache(addr)
	if err := d.ch.Write(addr, *cached, b, mode); err != nil {
		return err
	}
	*cached = b.Clone()
	return nil
}
