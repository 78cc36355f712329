package descriptor

import "fmt"

const (
	tagProductID  = 0x00 // DisplayID 1.x product identification
	tagProductID2 = 0x20 // DisplayID 2.x product identification

	tagMonitorName   = 0xFC
	tagMonitorString = 0xFE

	edidManufacturer = 8
	edidProductCode  = 10
	edidSlots        = 54
	edidSlotSize     = 18
	edidSlotCount    = 4
	edidNameSize     = 13
)

// ProductID returns the manufacturer and product code of the display.
//
// For EDID it is three letters followed by four hex digits, e.g. "DEL40B9".
// For DisplayID the vendor ID is kept as text when it is printable and
// rendered as six hex digits otherwise.
func (b *Buffer) ProductID() (string, bool) {
	if b.IsEDID() {
		return b.edidProductID()
	}

	if b.IsDisplayID() {
		for _, tag := range b.displayIDTags() {
			if id, ok := b.displayIDProductID(tag); ok {
				return id, true
			}
		}
	}

	return "", false
}

// Name returns the monitor name, falling back to the first unspecified
// text descriptor.
func (b *Buffer) Name() (string, bool) {
	if b.IsEDID() {
		for _, tag := range []byte{tagMonitorName, tagMonitorString} {
			if name, ok := b.edidName(tag); ok {
				return name, true
			}
		}
		return "", false
	}

	if b.IsDisplayID() {
		for _, tag := range b.displayIDTags() {
			if name, ok := b.displayIDName(tag); ok {
				return name, true
			}
		}
	}

	return "", false
}

// SameProduct reports whether both buffers may describe the same product.
// Product IDs only conflict when both decode to IDs of the same length.
func (b *Buffer) SameProduct(other *Buffer) bool {
	x, _ := b.ProductID()
	y, _ := other.ProductID()
	return len(x) != len(y) || x == y
}

func (b *Buffer) edidProductID() (string, bool) {
	if len(b.data) < EDIDBlockSize {
		return "", false
	}

	hi, lo := b.data[edidManufacturer], b.data[edidManufacturer+1]
	vendor := []byte{
		'@' | hi>>2&31,
		'@' | hi<<3&24 | lo>>5&7,
		'@' | lo&31,
	}

	return fmt.Sprintf("%s%02X%02X", vendor, b.data[edidProductCode+1], b.data[edidProductCode]), true
}

func (b *Buffer) edidName(tag byte) (string, bool) {
	if len(b.data) < EDIDBlockSize {
		return "", false
	}

	for slot := 0; slot < edidSlotCount; slot++ {
		d := b.data[edidSlots+slot*edidSlotSize:]

		if d[0] != 0x00 || d[1] != 0x00 || d[2] != 0x00 || d[3] != tag || d[4] != 0x00 {
			continue
		}

		name := make([]byte, 0, edidNameSize)
		for _, c := range d[5 : 5+edidNameSize] {
			if c == '\n' || c == 0x00 {
				break
			}
			name = append(name, c)
		}
		return string(name), true
	}

	return "", false
}

func (b *Buffer) displayIDProductID(tag byte) (string, bool) {
	block, ok := b.displayIDDataBlock(tag, 5)
	if !ok {
		return "", false
	}

	oui := block[3:6]
	var id string
	if tag == tagProductID && printable(oui) {
		id = string(oui)
	} else {
		id = fmt.Sprintf("%02X%02X%02X", oui[0], oui[1], oui[2])
	}

	return id + fmt.Sprintf("%02X%02X", block[7], block[6]), true
}

func (b *Buffer) displayIDName(tag byte) (string, bool) {
	block, ok := b.displayIDDataBlock(tag, 12)
	if !ok {
		return "", false
	}

	size := min(int(block[14]), int(block[2])-12)
	return string(block[15 : 15+size]), true
}

// printable matches isgraph: visible ASCII, space excluded.
func printable(p []byte) bool {
	for _, c := range p {
		if c <= ' ' || c > '~' {
			return false
		}
	}
	return true
}
