package descriptor

import "bytes"

const (
	edidExtensionCount = 126
	edidVersion        = 18
	edidRevision       = 19
)

// IsEDID reports whether the buffer holds an EDID base block, either with
// a valid header or with a header that got mangled while the rest of the
// block still checks out.
func (b *Buffer) IsEDID() bool {
	if len(b.data) < EDIDBlockSize {
		return false
	}
	return b.IsValidEDIDHeader() || b.IsCorruptedEDIDHeader()
}

// IsValidEDIDHeader reports whether bytes 0-7 hold the EDID header.
func (b *Buffer) IsValidEDIDHeader() bool {
	if len(b.data) < EDIDBlockSize {
		return false
	}
	return bytes.Equal(b.data[:len(Header)], Header[:])
}

// IsCorruptedEDIDHeader recognizes a base block whose header is damaged:
// version 1, revision 0-4 and a checksum over bytes 8-127 that only holds
// when the header bytes are assumed intact.
func (b *Buffer) IsCorruptedEDIDHeader() bool {
	if len(b.data) < EDIDBlockSize {
		return false
	}

	if b.data[edidVersion] != 1 || b.data[edidRevision] > 4 {
		return false
	}

	// The header bytes sum to 0x5FA, so the remaining bytes must sum to 6.
	return b.IsValidChecksumSeed(len(Header), EDIDBlockSize-len(Header), 6)
}

// FixEDIDHeader overwrites bytes 0-7 with the EDID header.
func (b *Buffer) FixEDIDHeader() error {
	if len(b.data) < EDIDBlockSize {
		return ErrTooShort
	}
	copy(b.data, Header[:])
	return nil
}

// IsValidEDIDExtensionBlock reports whether extension block n (n >= 1) is
// fully present and is neither a repeated base block nor filled with 0x00
// or 0xFF.
func (b *Buffer) IsValidEDIDExtensionBlock(n int) bool {
	if n < 1 {
		return false
	}

	offset := n * EDIDBlockSize
	end := offset + EDIDBlockSize

	if len(b.data) < end {
		return false
	}

	if bytes.Equal(b.data[offset:offset+len(Header)], Header[:]) {
		return false
	}

	body := b.data[offset : end-1]
	return !filled(body, 0x00) && !filled(body, 0xFF)
}

// IsValidEDIDExtensionBlocks reports whether every declared extension block
// is valid.
func (b *Buffer) IsValidEDIDExtensionBlocks() bool {
	if len(b.data) < EDIDBlockSize {
		return false
	}

	for n := 1; n < b.edidDeclaredBlocks(); n++ {
		if !b.IsValidEDIDExtensionBlock(n) {
			return false
		}
	}

	return true
}

// FixEDIDExtensionBlocks removes every invalid extension block, rewrites the
// extension count and the base block checksum.
func (b *Buffer) FixEDIDExtensionBlocks() error {
	if len(b.data) < EDIDBlockSize {
		return ErrTooShort
	}

	for n := b.edidDeclaredBlocks() - 1; n >= 1; n-- {
		if b.IsValidEDIDExtensionBlock(n) {
			continue
		}
		offset := n * EDIDBlockSize
		end := min(offset+EDIDBlockSize, len(b.data))
		b.data = append(b.data[:offset], b.data[end:]...)
	}

	b.data[edidExtensionCount] = byte(len(b.data)/EDIDBlockSize - 1)
	return b.FixChecksum(0, EDIDBlockSize)
}

// IsValidEDIDChecksums checks the base block and every valid extension
// block that is fully present.
func (b *Buffer) IsValidEDIDChecksums() bool {
	if len(b.data) < EDIDBlockSize {
		return false
	}

	if !b.IsValidChecksum(0, EDIDBlockSize) {
		return false
	}

	for n := 1; n < b.edidCompleteBlocks(); n++ {
		if !b.IsValidEDIDExtensionBlock(n) {
			continue
		}
		if !b.IsValidChecksum(n*EDIDBlockSize, EDIDBlockSize) {
			return false
		}
	}

	return true
}

// FixEDIDChecksums recomputes the checksum of the base block and of every
// valid extension block.
func (b *Buffer) FixEDIDChecksums() error {
	if len(b.data) < EDIDBlockSize {
		return ErrTooShort
	}

	if err := b.FixChecksum(0, EDIDBlockSize); err != nil {
		return err
	}

	for n := 1; n < b.edidCompleteBlocks(); n++ {
		if !b.IsValidEDIDExtensionBlock(n) {
			continue
		}
		if err := b.FixChecksum(n*EDIDBlockSize, EDIDBlockSize); err != nil {
			return err
		}
	}

	return nil
}

// edidDeclaredBlocks counts the declared blocks, partial trailing block
// included.
func (b *Buffer) edidDeclaredBlocks() int {
	return min(int(b.data[edidExtensionCount])+1, (len(b.data)+EDIDBlockSize-1)/EDIDBlockSize)
}

// edidCompleteBlocks counts the declared blocks that are fully present.
func (b *Buffer) edidCompleteBlocks() int {
	return min(int(b.data[edidExtensionCount])+1, len(b.data)/EDIDBlockSize)
}

func filled(p []byte, v byte) bool {
	for _, c := range p {
		if c != v {
			return false
		}
	}
	return true
}
