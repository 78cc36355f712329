package descriptor

// IsValidChecksum reports whether the last byte of data[offset:offset+size]
// makes the range sum to zero.
func (b *Buffer) IsValidChecksum(offset, size int) bool {
	return b.IsValidChecksumSeed(offset, size, 0)
}

// IsValidChecksumSeed is IsValidChecksum with the range expected to sum to
// add instead of zero.
func (b *Buffer) IsValidChecksumSeed(offset, size int, add byte) bool {
	end, ok := b.checksumEnd(offset, size)
	if !ok {
		return false
	}
	return b.data[end] == checksum(b.data[offset:end], add)
}

// FixChecksum overwrites the last byte of data[offset:offset+size] so the
// range sums to zero.
func (b *Buffer) FixChecksum(offset, size int) error {
	end, ok := b.checksumEnd(offset, size)
	if !ok {
		return ErrOutOfRange
	}
	b.data[end] = checksum(b.data[offset:end], 0)
	return nil
}

func (b *Buffer) checksumEnd(offset, size int) (int, bool) {
	if offset < 0 || size < 1 {
		return 0, false
	}
	end := offset + size - 1
	if len(b.data) <= end {
		return 0, false
	}
	return end, true
}

func checksum(p []byte, add byte) byte {
	sum := add
	for _, c := range p {
		sum -= c
	}
	return sum
}
