package ddcedid

import (
	"bytes"
	"errors"
	"time"

	"github.com/flavioheleno/ddcedid/descriptor"
)

var errBus = errors.New("bus error")

// fakeDisplay emulates the DDC memory of one display.
type fakeDisplay struct {
	mem map[byte][]byte // keyed by write address

	readOnly      bool         // accepts writes, keeps memory
	firstByteOnly bool         // stores only the first data byte of a command
	locked        map[int]bool // offsets that never change
	failWrites    int          // next N writes fail, -1 for all
	failReads     bool

	writes [][]byte
	reads  []byte
}

func newFakeDisplay(edid []byte) *fakeDisplay {
	f := &fakeDisplay{mem: make(map[byte][]byte)}
	f.load(AddressEDID, edid)
	return f
}

func (f *fakeDisplay) load(addr byte, data []byte) {
	mem := bytes.Repeat([]byte{0xFF}, 256)
	copy(mem, data)
	f.mem[addr] = mem
}

func (f *fakeDisplay) ReadBytes(addr byte, n int) ([]byte, error) {
	f.reads = append(f.reads, addr)
	if f.failReads {
		return nil, errBus
	}
	mem, ok := f.mem[addr-1]
	if !ok {
		return nil, errBus
	}
	return bytes.Clone(mem[:min(n, len(mem))]), nil
}

func (f *fakeDisplay) WriteBytes(payload []byte) error {
	f.writes = append(f.writes, bytes.Clone(payload))

	if f.failWrites != 0 {
		if f.failWrites > 0 {
			f.failWrites--
		}
		return errBus
	}

	// Pointer writes carry no data
	if len(payload) == 2 || f.readOnly {
		return nil
	}

	mem := f.mem[payload[0]]
	data := payload[2:]
	if f.firstByteOnly {
		data = data[:1]
	}

	for i, c := range data {
		offset := int(payload[1]) + i
		if !f.locked[offset] {
			mem[offset] = c
		}
	}

	return nil
}

// dataWrites returns the writes that carried data, pointer writes excluded.
func (f *fakeDisplay) dataWrites() [][]byte {
	var out [][]byte
	for _, w := range f.writes {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}

// testEDID builds a base block for product SAM02xx named name.
func testEDID(name string, product byte) []byte {
	d := make([]byte, 128)
	copy(d, []byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00})
	d[8], d[9] = 0x4C, 0x2D
	d[10], d[11] = product, 0x02
	d[18], d[19] = 1, 4

	slot := d[54:72]
	slot[3] = 0xFC
	if n := copy(slot[5:], name); n < 13 {
		slot[5+n] = '\n'
	}

	seal(d)
	return d
}

func seal(d []byte) {
	var sum byte
	for _, c := range d[:len(d)-1] {
		sum += c
	}
	d[len(d)-1] = -sum
}

// testOpts returns the default policy with sleeps recorded instead of
// performed.
func testOpts(slept *[]time.Duration) *Opts {
	opts := DefaultOpts()
	opts.Sleep = func(d time.Duration) {
		if slept != nil {
			*slept = append(*slept, d)
		}
	}
	return &opts
}

type fakeRecorder struct {
	ids       []Identity
	addrs     []byte
	snapshots [][]byte
	err       error
}

func (r *fakeRecorder) Record(id Identity, addr byte, snapshot *descriptor.Buffer) error {
	if r.err != nil {
		return r.err
	}
	r.ids = append(r.ids, id)
	r.addrs = append(r.addrs, addr)
	r.snapshots = append(r.snapshots, snapshot.Bytes())
	return nil
}

type fakeSource struct {
	name       string
	candidates []Candidate
	err        error
}

func (s *fakeSource) Name() string {
	return s.name
}

func (s *fakeSource) Candidates() ([]Candidate, error) {
	return s.candidates, s.err
}
