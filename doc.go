// Package ddcedid reads and writes EDID and DisplayID descriptors of
// connected displays over the DDC channel.
//
// The descriptor bytes themselves are handled by the descriptor package.
// This package moves them to and from a live display: a Transport carries
// raw I2C transactions, a Channel adds the diff, retry and timing policy,
// and a Display ties a channel to an identity and caches what was read.
// A Catalog enumerates the displays reachable through a set of Sources.
//
// # Transports
//
// A Transport exposes two operations, reading N bytes at an 8-bit device
// address and writing a raw payload whose first byte is the address.
// Implementations live in sibling packages:
//
//   - i2cdev: Linux /dev/i2c-* buses through periph.io
//   - amd: AMD Display Library DDC block access (Windows)
//   - nvidia: NVAPI I2C calls (Windows)
//
// # Addresses
//
// The EDID lives at device address 0xA0 and the DisplayID at 0xA4. Reads
// set the word offset to zero, wait 10ms, then read up to 256 bytes from
// address+1.
//
// # Writing
//
// Writes only send what changed. In ModeFast the new bytes are compared
// with the old ones in 8-byte windows, from the highest offset down to 0,
// and every changed window becomes one command:
//
//	[address, offset, b0, b1, ..., b7]
//
// ModeSlow does the same one byte at a time, for displays that reject
// multi-byte DDC writes. Every command is attempted up to 10 times with
// 10ms between attempts, and 10ms pass after each successful command.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"log"
//
//		"github.com/flavioheleno/ddcedid"
//		"github.com/flavioheleno/ddcedid/descriptor"
//		"github.com/flavioheleno/ddcedid/i2cdev"
//	)
//
//	func main() {
//		src, err := i2cdev.NewSource(nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer src.Close()
//
//		cat := ddcedid.NewCatalog([]ddcedid.Source{src}, nil)
//		if err := cat.Load(); err != nil {
//			log.Fatal(err)
//		}
//
//		d := cat.Get(0)
//		edid, err := descriptor.Load("fixed.bin")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		// Writes, then reads back and falls back to single bytes if needed
//		if _, err := d.Program(ddcedid.AddressEDID, edid); err != nil {
//			log.Fatal(err)
//		}
//	}
//
// # Verification
//
// Display.Program wraps a write with a full read-back. A read-back equal to
// what the display held before the write means the display ignores writes
// and is reported as ErrWriteProtected. A read-back that matches neither is
// retried once in ModeSlow, and a second mismatch is reported as ErrVerify.
//
// # Concurrency
//
// Nothing in this package starts goroutines. Every call blocks for the
// duration of its I2C transactions, fixed delays included, and there is no
// timeout beyond what the transport imposes. Access to one physical display
// must be serialized by the caller.
package ddcedid
