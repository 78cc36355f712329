// Package descriptor holds the raw bytes of an EDID or DisplayID descriptor.
//
// The Buffer type is trimmed to the size its content reports and never
// exceeds MaxSize bytes.
package descriptor

import (
	"bytes"
	"errors"
)

const (
	// MaxSize is the largest descriptor the DDC channel can hold.
	MaxSize = 256
	// MaxLoadSize is read from files so over-length input can be detected.
	MaxLoadSize = MaxSize + 1

	// EDIDBlockSize is the size of an EDID base or extension block.
	EDIDBlockSize = 128
	// DisplayIDBlockSize is the largest DisplayID section.
	DisplayIDBlockSize = 256
)

// Header is the fixed prefix of every EDID base block.
var Header = [8]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

var (
	ErrTooShort     = errors.New("descriptor: data too short")
	ErrOutOfRange   = errors.New("descriptor: range out of bounds")
	ErrEmpty        = errors.New("descriptor: no data")
	ErrUnrecognized = errors.New("descriptor: unrecognized encoding")
)

// Type is the content detected in a Buffer.
type Type int

const (
	TypeData Type = iota
	TypeEDID
	TypeDisplayID
)

// String returns the label used in hex dump headers.
func (t Type) String() string {
	switch t {
	case TypeEDID:
		return "EDID"
	case TypeDisplayID:
		return "DISPLAYID"
	default:
		return "DATA"
	}
}

// Buffer is an owned descriptor byte sequence.
type Buffer struct {
	data         []byte
	originalSize int
}

// New copies data into a new Buffer and trims it.
func New(data []byte) *Buffer {
	b := &Buffer{data: bytes.Clone(data)}
	b.Trim()
	return b
}

// Bytes returns a copy of the descriptor bytes.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return bytes.Clone(b.data)
}

// Len returns the number of bytes held.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Empty reports whether the buffer holds no bytes.
func (b *Buffer) Empty() bool {
	return b.Len() == 0
}

// OriginalSize returns the length recorded by the last Trim, before the
// MaxSize cap was applied.
func (b *Buffer) OriginalSize() int {
	if b == nil {
		return 0
	}
	return b.originalSize
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return &Buffer{}
	}
	return &Buffer{data: bytes.Clone(b.data), originalSize: b.originalSize}
}

// Equal reports whether both buffers hold exactly the same bytes.
func (b *Buffer) Equal(other *Buffer) bool {
	return bytes.Equal(b.view(), other.view())
}

// Matches compares both buffers over the length of the shorter one. An
// empty buffer only matches another empty buffer.
func (b *Buffer) Matches(other *Buffer) bool {
	x, y := b.view(), other.view()
	if (len(x) == 0) != (len(y) == 0) {
		return false
	}
	n := min(len(x), len(y))
	return bytes.Equal(x[:n], y[:n])
}

// Type returns the detected content type.
func (b *Buffer) Type() Type {
	switch {
	case b.IsEDID():
		return TypeEDID
	case b.IsDisplayID():
		return TypeDisplayID
	default:
		return TypeData
	}
}

// ReportedSize returns how many bytes the content declares.
// For EDID it is one base block plus byte 126 extension blocks, for
// DisplayID it spans every section up to the one byte 3 points at.
// Unrecognized content reports its own length.
func (b *Buffer) ReportedSize() int {
	if b.IsEDID() {
		return int(b.data[126])*EDIDBlockSize + EDIDBlockSize
	}

	if b.IsDisplayID() {
		last := b.DisplayIDBlockSize(int(b.data[3]))
		if last < 5 {
			last = DisplayIDBlockSize
		}
		return int(b.data[3])*DisplayIDBlockSize + last
	}

	return b.Len()
}

// Short reports whether fewer bytes are held than the content declares.
func (b *Buffer) Short() bool {
	return b.Len() < b.ReportedSize()
}

// Truncated reports whether the MaxSize cap dropped bytes on the last Trim.
func (b *Buffer) Truncated() bool {
	return b.Len() < b.OriginalSize()
}

// Trim drops the bytes past ReportedSize, records the original size and
// caps the buffer at MaxSize.
func (b *Buffer) Trim() {
	if size := b.ReportedSize(); len(b.data) > size {
		b.data = b.data[:size]
	}

	b.originalSize = len(b.data)

	if len(b.data) > MaxSize {
		b.data = b.data[:MaxSize]
	}
}

func (b *Buffer) view() []byte {
	if b == nil {
		return nil
	}
	return b.data
}
