package descriptor

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Format is a file encoding understood by Load and the Save methods.
type Format int

const (
	FormatBin Format = iota // raw bytes
	FormatDat               // annotated hex dump
	FormatTxt               // plain hex text
)

// String returns the file extension conventionally used for the format.
func (f Format) String() string {
	switch f {
	case FormatDat:
		return "dat"
	case FormatTxt:
		return "txt"
	default:
		return "bin"
	}
}

// ParseFormat parses "bin", "dat" or "txt".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bin":
		return FormatBin, nil
	case "dat":
		return FormatDat, nil
	case "txt":
		return FormatTxt, nil
	}
	return 0, fmt.Errorf("descriptor: unknown format %q", s)
}

// Load reads a descriptor file in any supported encoding.
func Load(path string) (*Buffer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("descriptor: load %s: %w", path, err)
	}
	return Decode(raw)
}

// Decode parses raw file content, trying hex text, then the hex dump, then
// raw binary. The first encoding that parses wins.
func Decode(raw []byte) (*Buffer, error) {
	for _, f := range []Format{FormatTxt, FormatDat, FormatBin} {
		b, err := DecodeAs(raw, f)
		if err == nil {
			return b, nil
		}
		if errors.Is(err, ErrEmpty) {
			return nil, err
		}
	}
	return nil, ErrUnrecognized
}

// DecodeAs parses raw file content in one specific encoding.
func DecodeAs(raw []byte, f Format) (*Buffer, error) {
	var (
		data []byte
		ok   bool
	)

	switch f {
	case FormatTxt:
		data, ok = parseTxt(raw)
	case FormatDat:
		data, ok = parseDat(raw)
	default:
		data, ok = raw[:min(len(raw), MaxLoadSize)], true
		if len(data) == 0 {
			return nil, ErrEmpty
		}
	}

	if !ok {
		return nil, ErrUnrecognized
	}

	return New(data), nil
}

// parseTxt accepts hex pairs separated by whitespace or a single
// punctuation character, each optionally prefixed by 0x.
func parseTxt(raw []byte) ([]byte, bool) {
	s := scanner{p: raw}
	var data []byte

	for len(data) < MaxLoadSize {
		s.skipSpace()

		v, ok, eof := s.pair(true)
		if eof && !ok && s.started == s.i {
			break
		}
		if !ok {
			return nil, false
		}
		data = append(data, v)

		c, ok := s.get()
		if !ok {
			break
		}
		if !isPunct(c) {
			s.unget()
		}
	}

	return data, len(data) > 0
}

// parseDat accepts the layout written by WriteDat: a type label, a ruler of
// two lines, then rows of 16 pairs prefixed by their hex offset and "|".
func parseDat(raw []byte) ([]byte, bool) {
	s := scanner{p: raw}

	switch strings.ToUpper(s.token()) {
	case "EDID", "DISPLAYID", "DATA":
	default:
		return nil, false
	}

	for i := 0; i < 3; i++ {
		if !s.skipLine() {
			return nil, false
		}
	}

	var data []byte

	for len(data) < MaxLoadSize {
		index := len(data)

		if index%16 == 0 {
			offset, ok := s.hexInt()
			if !ok {
				if !s.eof() {
					return nil, false
				}
				break
			}
			if offset != index {
				return nil, false
			}
			s.skipSpace()
			if c, ok := s.get(); !ok || c != '|' {
				return nil, false
			}
		}

		s.skipSpace()
		s.started = s.i

		v, ok, eof := s.pair(false)
		if !ok {
			if eof && s.started == s.i && index%16 != 0 {
				break
			}
			return nil, false
		}
		data = append(data, v)
	}

	return data, len(data) > 0
}

// scanner is a byte cursor with istream-like helpers.
type scanner struct {
	p       []byte
	i       int
	started int
}

func (s *scanner) eof() bool {
	return s.i >= len(s.p)
}

func (s *scanner) get() (byte, bool) {
	if s.eof() {
		return 0, false
	}
	c := s.p[s.i]
	s.i++
	return c, true
}

func (s *scanner) unget() {
	if s.i > 0 {
		s.i--
	}
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.p[s.i]) {
		s.i++
	}
	s.started = s.i
}

// skipLine consumes everything up to and including the next newline.
func (s *scanner) skipLine() bool {
	for {
		c, ok := s.get()
		if !ok {
			return false
		}
		if c == '\n' {
			return true
		}
	}
}

// token returns the next run of non-space bytes.
func (s *scanner) token() string {
	s.skipSpace()
	start := s.i
	for !s.eof() && !isSpace(s.p[s.i]) {
		s.i++
	}
	return string(s.p[start:s.i])
}

// pair reads two hex digits, optionally preceded by "0x". eof reports that
// the input ended before the pair was complete.
func (s *scanner) pair(prefix bool) (v byte, ok, eof bool) {
	c1, ok1 := s.get()
	if !ok1 {
		return 0, false, true
	}
	c2, ok2 := s.get()
	if !ok2 {
		return 0, false, true
	}

	if prefix && c1 == '0' && (c2 == 'x' || c2 == 'X') {
		c1, ok1 = s.get()
		c2, ok2 = s.get()
		if !ok1 || !ok2 {
			return 0, false, true
		}
	}

	hi, ok1 := fromHex(c1)
	lo, ok2 := fromHex(c2)
	if !ok1 || !ok2 {
		return 0, false, false
	}
	return hi<<4 | lo, true, false
}

// hexInt reads a hex number after skipping leading whitespace.
func (s *scanner) hexInt() (int, bool) {
	s.skipSpace()
	start := s.i
	v := 0
	for !s.eof() && s.i-start < 8 {
		d, ok := fromHex(s.p[s.i])
		if !ok {
			break
		}
		v = v<<4 | int(d)
		s.i++
	}
	return v, s.i > start
}
