package descriptor

const (
	displayIDMinBlock     = 5
	displayIDMinVersion   = 0x10
	displayIDVersion2     = 0x20
	displayIDExtensions   = 3
	displayIDFirstPayload = 6
)

// DisplayIDBlockSize returns the size of DisplayID section n as declared by
// its header, or 0 when the section is missing, has no recognized version
// or does not fit in the buffer.
func (b *Buffer) DisplayIDBlockSize(n int) int {
	if n < 0 {
		return 0
	}

	offset := n * DisplayIDBlockSize

	if len(b.data) < offset+displayIDMinBlock {
		return 0
	}

	if b.data[offset] < displayIDMinVersion {
		return 0
	}

	size := int(b.data[offset+1]) + displayIDMinBlock

	if size > DisplayIDBlockSize || len(b.data) < offset+size {
		return 0
	}

	return size
}

// IsDisplayID reports whether the first section parses and its data blocks
// do not claim more bytes than the section declares.
func (b *Buffer) IsDisplayID() bool {
	size := b.DisplayIDBlockSize(0)

	if size < displayIDMinBlock {
		return false
	}

	total := displayIDMinBlock

	for index := displayIDFirstPayload; index < size-1; index += int(b.data[index]) + 3 {
		total += int(b.data[index]) + 3
	}

	return total <= size
}

// IsValidDisplayIDChecksums checks every declared section that parses.
func (b *Buffer) IsValidDisplayIDChecksums() bool {
	if len(b.data) < displayIDMinBlock {
		return false
	}

	for n := 0; n < b.displayIDDeclaredBlocks(); n++ {
		size := b.DisplayIDBlockSize(n)
		if size < displayIDMinBlock {
			continue
		}
		if !b.IsValidChecksum(n*DisplayIDBlockSize, size) {
			return false
		}
	}

	return true
}

// FixDisplayIDChecksums recomputes the checksum of every declared section
// that parses.
func (b *Buffer) FixDisplayIDChecksums() error {
	if len(b.data) < displayIDMinBlock {
		return ErrTooShort
	}

	for n := 0; n < b.displayIDDeclaredBlocks(); n++ {
		size := b.DisplayIDBlockSize(n)
		if size < displayIDMinBlock {
			continue
		}
		if err := b.FixChecksum(n*DisplayIDBlockSize, size); err != nil {
			return err
		}
	}

	return nil
}

func (b *Buffer) displayIDDeclaredBlocks() int {
	return min(int(b.data[displayIDExtensions])+1, (len(b.data)+DisplayIDBlockSize-1)/DisplayIDBlockSize)
}

// displayIDDataBlock walks the data blocks of the first section and returns
// the first one with the given tag and at least minLen payload bytes. The
// returned slice starts at the tag byte and includes the 3-byte block
// header.
func (b *Buffer) displayIDDataBlock(tag byte, minLen int) ([]byte, bool) {
	end := b.DisplayIDBlockSize(0) - 1

	for index := displayIDFirstPayload; index < end; index += int(b.data[index]) + 3 {
		offset := index - 2
		length := int(b.data[index])

		if offset+3+length > len(b.data) {
			break
		}

		if b.data[offset] == tag && length >= minLen {
			return b.data[offset : offset+3+length], true
		}
	}

	return nil, false
}

// displayIDTags returns the product identification tags in lookup order:
// the tag of the section's own version first.
func (b *Buffer) displayIDTags() [2]byte {
	if b.data[0] < displayIDVersion2 {
		return [2]byte{tagProductID, tagProductID2}
	}
	return [2]byte{tagProductID2, tagProductID}
}
