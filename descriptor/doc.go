// Package descriptor holds the raw bytes of a display identification
// descriptor (EDID or DisplayID) and knows how to validate, repair and
// serialize them.
//
// A descriptor is at most 256 bytes. EDID data is organised in 128-byte
// blocks: a base block followed by up to byte 126 extension blocks, each
// closed by a one-byte checksum. DisplayID data is organised in sections of
// up to 256 bytes whose length is declared in the section header.
//
// Memory layout of an EDID base block (offsets in hex):
//
//	00-07  header 00 FF FF FF FF FF FF 00
//	08-09  manufacturer ID, three 5-bit letters biased by '@'
//	0A-0B  product code, little endian
//	12-13  EDID version and revision
//	36-7D  four 18-byte descriptor slots (name, serial, ...)
//	7E     extension block count
//	7F     checksum
//
// This package provides:
//
// - Buffer: an owned descriptor, trimmed to the size it reports
// - checksum, header and extension block validation and repair
// - product ID and name extraction
// - three file encodings: raw binary, annotated hex dump (.dat) and hex text
//
// Example usage:
//
//	buf, err := descriptor.Load("monitor.dat")
//	if err != nil {
//		return err
//	}
//	if !buf.IsValidEDIDChecksums() {
//		buf.FixEDIDChecksums()
//	}
//	id, _ := buf.ProductID() // e.g. "SAM0F9C"
//	return buf.SaveBin("monitor.bin")
package descriptor
