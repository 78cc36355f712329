package descriptor

import "bytes"

// sampleEDID is a complete base block: manufacturer "SAM", product code
// 0x0201, monitor name "SAMSUNG", no extensions.
var sampleEDID = []byte{
	0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00, 0x4C, 0x2D, 0x01, 0x02, 0x30, 0x31, 0x32, 0x33,
	0x1A, 0x1E, 0x01, 0x04, 0xA5, 0x3C, 0x22, 0x78, 0x3B, 0xEE, 0x91, 0xA3, 0x54, 0x4C, 0x99, 0x26,
	0x0F, 0x50, 0x54, 0xBF, 0xEF, 0x80, 0x71, 0x4F, 0x81, 0xC0, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
	0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x02, 0x3A, 0x80, 0x18, 0x71, 0x38, 0x2D, 0x40, 0x58, 0x2C,
	0x45, 0x00, 0x56, 0x50, 0x21, 0x00, 0x00, 0x1E, 0x00, 0x00, 0x00, 0xFD, 0x00, 0x32, 0x4B, 0x1E,
	0x51, 0x11, 0x00, 0x0A, 0x20, 0x20, 0x20, 0x20, 0x20, 0x20, 0x00, 0x00, 0x00, 0xFC, 0x00, 0x53,
	0x41, 0x4D, 0x53, 0x55, 0x4E, 0x47, 0x0A, 0x20, 0x20, 0x20, 0x20, 0x20, 0x00, 0x00, 0x00, 0xFF,
	0x00, 0x48, 0x34, 0x5A, 0x4B, 0x39, 0x30, 0x30, 0x31, 0x32, 0x33, 0x20, 0x20, 0x0A, 0x00, 0xA9,
}

// edidWithExtensions returns sampleEDID followed by n CTA-style extension
// blocks, all checksums valid.
func edidWithExtensions(n int) []byte {
	d := bytes.Clone(sampleEDID)
	d[126] = byte(n)
	sealBlock(d[:EDIDBlockSize])

	for i := 1; i <= n; i++ {
		block := make([]byte, EDIDBlockSize)
		block[0] = 0x02
		block[1] = 0x03
		block[2] = 0x04
		block[3] = byte(0x70 + i)
		sealBlock(block)
		d = append(d, block...)
	}

	return d
}

// displayIDFixture is a DisplayID 1.2 section with one product
// identification block: vendor "DEL", product 0x1234, name "U2720".
func displayIDFixture() []byte {
	d := []byte{
		0x12, 20, 0x03, 0x00,
		0x00, 0x00, 17,
		'D', 'E', 'L', 0x34, 0x12, 0x01, 0x02, 0x03, 0x04, 0x10, 0x1E, 5, 'U', '2', '7', '2', '0',
		0x00,
	}
	sealBlock(d)
	return d
}

// displayID2Fixture is a DisplayID 2.0 section with a product
// identification block carrying an IEEE OUI.
func displayID2Fixture() []byte {
	d := []byte{
		0x20, 19, 0x03, 0x00,
		0x20, 0x00, 16,
		0x00, 0x1B, 0x21, 0x78, 0x56, 0x00, 0x00, 0x00, 0x00, 0x01, 0x20, 4, 'A', 'B', 'C', 'D',
		0x00,
	}
	sealBlock(d)
	return d
}

func sealBlock(p []byte) {
	p[len(p)-1] = checksum(p[:len(p)-1], 0)
}
