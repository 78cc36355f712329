package descriptor

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// DefaultColumns is the row width used for hex text files.
const DefaultColumns = 16

// Buffers never exceed MaxSize, so dat offsets always fit two hex digits.
const (
	datRuler = "0x   00 01 02 03 04 05 06 07 08 09 0A 0B 0C 0D 0E 0F\r\n"
	datRule  = "    ------------------------------------------------\r\n"
)

// WriteBin writes the raw bytes.
func (b *Buffer) WriteBin(w io.Writer) error {
	_, err := w.Write(b.data)
	return err
}

// WriteDat writes an annotated hex dump: a type label, a column ruler and
// rows of 16 bytes prefixed by their offset.
func (b *Buffer) WriteDat(w io.Writer) error {
	_, err := w.Write(b.dat())
	return err
}

// WriteTxt writes plain hex text, breaking lines every columns bytes.
func (b *Buffer) WriteTxt(w io.Writer, columns int) error {
	out := appendHex(nil, b.data, columns)
	out = append(out, '\r', '\n')
	_, err := w.Write(out)
	return err
}

// Encode returns the file content for the given format. columns only
// applies to FormatTxt.
func (b *Buffer) Encode(f Format, columns int) []byte {
	var out bytes.Buffer
	switch f {
	case FormatDat:
		b.WriteDat(&out)
	case FormatTxt:
		b.WriteTxt(&out, columns)
	default:
		b.WriteBin(&out)
	}
	return out.Bytes()
}

// SaveBin writes the raw bytes to path.
func (b *Buffer) SaveBin(path string) error {
	return save(path, b.Encode(FormatBin, 0))
}

// SaveDat writes an annotated hex dump to path.
func (b *Buffer) SaveDat(path string) error {
	return save(path, b.Encode(FormatDat, 0))
}

// SaveTxt writes plain hex text to path.
func (b *Buffer) SaveTxt(path string, columns int) error {
	return save(path, b.Encode(FormatTxt, columns))
}

// Save writes path in the given format.
func (b *Buffer) Save(path string, f Format, columns int) error {
	return save(path, b.Encode(f, columns))
}

func (b *Buffer) dat() []byte {
	out := []byte(b.Type().String() + " BYTES:\r\n")
	out = append(out, datRuler+datRule...)

	for i, c := range b.data {
		if i%16 == 0 {
			if i > 0 {
				out = append(out, '\r', '\n')
			}
			out = appendByte(out, byte(i))
			out = append(out, " | "...)
		} else {
			out = append(out, ' ')
		}
		out = appendByte(out, c)
	}

	return append(out, '\r', '\n')
}

func save(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("descriptor: save %s: %w", path, err)
	}
	return nil
}
