package descriptor

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestIsEDID(t *testing.T) {
	corrupted := bytes.Clone(sampleEDID)
	copy(corrupted, make([]byte, 8))

	badVersion := bytes.Clone(corrupted)
	badVersion[18] = 2

	tests := []struct {
		name      string
		data      []byte
		wantEDID  bool
		wantValid bool
	}{
		{"valid header", sampleEDID, true, true},
		{"zeroed header", corrupted, true, false},
		{"zeroed header, wrong version", badVersion, false, false},
		{"too short", sampleEDID[:127], false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Buffer{data: bytes.Clone(tt.data)}
			if got := b.IsEDID(); got != tt.wantEDID {
				t.Errorf("IsEDID() = %v, want %v", got, tt.wantEDID)
			}
			if got := b.IsValidEDIDHeader(); got != tt.wantValid {
				t.Errorf("IsValidEDIDHeader() = %v, want %v", got, tt.wantValid)
			}
		})
	}
}

func TestFixEDIDHeader(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		data := make([]byte, EDIDBlockSize+rng.Intn(EDIDBlockSize))
		rng.Read(data)

		b := &Buffer{data: data}
		if err := b.FixEDIDHeader(); err != nil {
			t.Fatalf("FixEDIDHeader: %v", err)
		}
		if !b.IsValidEDIDHeader() {
			t.Errorf("header still invalid after fix: % X", b.data[:8])
		}
	}

	short := &Buffer{data: make([]byte, 64)}
	if err := short.FixEDIDHeader(); err != ErrTooShort {
		t.Errorf("FixEDIDHeader on 64 bytes = %v, want ErrTooShort", err)
	}
}

func TestCorruptedHeaderRepair(t *testing.T) {
	data := bytes.Clone(sampleEDID)
	copy(data[:8], []byte{0x00, 0xFF, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0x00})

	b := New(data)
	if !b.IsCorruptedEDIDHeader() || b.IsValidEDIDHeader() {
		t.Fatal("mangled header should be detected as corrupted")
	}

	if err := b.FixEDIDHeader(); err != nil {
		t.Fatalf("FixEDIDHeader: %v", err)
	}
	if !b.IsValidEDIDChecksums() {
		t.Error("repaired header should restore the original checksum")
	}
	if !b.Equal(New(sampleEDID)) {
		t.Error("repaired data differs from the original")
	}
}

func TestIsValidEDIDExtensionBlock(t *testing.T) {
	d := edidWithExtensions(1)

	repeated := bytes.Clone(d)
	copy(repeated[128:], Header[:])

	zeros := bytes.Clone(d)
	copy(zeros[128:255], make([]byte, 127))
	zeros[255] = 0x42

	ones := bytes.Clone(d)
	copy(ones[128:255], bytes.Repeat([]byte{0xFF}, 127))

	tests := []struct {
		name  string
		data  []byte
		block int
		want  bool
	}{
		{"valid", d, 1, true},
		{"base block", d, 0, false},
		{"missing", d, 2, false},
		{"partial", d[:200], 1, false},
		{"repeated header", repeated, 1, false},
		{"all zero", zeros, 1, false},
		{"all 0xFF", ones, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Buffer{data: tt.data}
			if got := b.IsValidEDIDExtensionBlock(tt.block); got != tt.want {
				t.Errorf("IsValidEDIDExtensionBlock(%d) = %v, want %v", tt.block, got, tt.want)
			}
		})
	}
}

func TestFixEDIDExtensionBlocks(t *testing.T) {
	d := edidWithExtensions(1)
	copy(d[128:256], make([]byte, 128))

	b := New(d)
	if b.IsValidEDIDExtensionBlocks() {
		t.Fatal("zeroed extension should be invalid")
	}

	if err := b.FixEDIDExtensionBlocks(); err != nil {
		t.Fatalf("FixEDIDExtensionBlocks: %v", err)
	}

	if b.Len() != EDIDBlockSize {
		t.Errorf("Len() = %d, want %d", b.Len(), EDIDBlockSize)
	}
	if b.data[126] != 0 {
		t.Errorf("extension count = %d, want 0", b.data[126])
	}
	if !b.IsValidEDIDExtensionBlocks() || !b.IsValidEDIDChecksums() {
		t.Error("descriptor should be valid after removing the block")
	}
}

func TestFixEDIDExtensionBlocksPartial(t *testing.T) {
	// A short read leaves a partial extension block behind.
	b := New(edidWithExtensions(1)[:192])

	if err := b.FixEDIDExtensionBlocks(); err != nil {
		t.Fatalf("FixEDIDExtensionBlocks: %v", err)
	}
	if b.Len() != EDIDBlockSize || b.data[126] != 0 {
		t.Errorf("Len() = %d, count = %d, want 128 and 0", b.Len(), b.data[126])
	}
}

func TestEDIDChecksums(t *testing.T) {
	d := edidWithExtensions(1)
	b := New(d)
	if !b.IsValidEDIDChecksums() {
		t.Fatal("fixture checksums should be valid")
	}

	b.data[20] ^= 0xFF
	b.data[140] ^= 0xFF
	if b.IsValidEDIDChecksums() {
		t.Fatal("checksums should be invalid after corruption")
	}

	if err := b.FixEDIDChecksums(); err != nil {
		t.Fatalf("FixEDIDChecksums: %v", err)
	}
	if !b.IsValidEDIDChecksums() {
		t.Error("checksums should be valid after fix")
	}
	if !b.IsValidChecksum(128, 128) {
		t.Error("extension checksum was not fixed")
	}
}

func TestEDIDChecksumsSkipInvalidBlocks(t *testing.T) {
	d := edidWithExtensions(1)
	copy(d[128:256], bytes.Repeat([]byte{0xFF}, 128))

	b := New(d)
	if !b.IsValidEDIDChecksums() {
		t.Error("invalid extension blocks should not be checksummed")
	}
}

func TestFixChecksumIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	data := make([]byte, MaxSize)
	rng.Read(data)
	b := &Buffer{data: data}

	for i := 0; i < 200; i++ {
		offset := rng.Intn(MaxSize)
		size := 1 + rng.Intn(MaxSize-offset)

		if err := b.FixChecksum(offset, size); err != nil {
			t.Fatalf("FixChecksum(%d, %d): %v", offset, size, err)
		}
		if !b.IsValidChecksum(offset, size) {
			t.Fatalf("IsValidChecksum(%d, %d) false right after fix", offset, size)
		}
	}
}

func TestChecksumBounds(t *testing.T) {
	b := &Buffer{data: make([]byte, 16)}

	tests := []struct {
		name         string
		offset, size int
	}{
		{"negative offset", -1, 4},
		{"zero size", 0, 0},
		{"past the end", 8, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if b.IsValidChecksum(tt.offset, tt.size) {
				t.Error("IsValidChecksum should be false")
			}
			if err := b.FixChecksum(tt.offset, tt.size); err != ErrOutOfRange {
				t.Errorf("FixChecksum = %v, want ErrOutOfRange", err)
			}
		})
	}
}
