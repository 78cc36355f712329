package ddcedid

import (
	"bytes"
	"testing"

	"github.com/flavioheleno/ddcedid/descriptor"
)

func newTestDisplay(t *testing.T, id Identity, f *fakeDisplay) *Display {
	t.Helper()
	d, err := NewDisplay(id, f, testOpts(nil))
	if err != nil {
		t.Fatalf("NewDisplay: %v", err)
	}
	return d
}

func TestNewDisplayInitialRead(t *testing.T) {
	f := newFakeDisplay(testEDID("ALPHA", 0x01))
	d := newTestDisplay(t, Identity{Vendor: VendorAMD, GPU: 1, Output: 2}, f)

	if got := d.ProductID(); got != "SAM0201" {
		t.Errorf("ProductID() = %q, want %q", got, "SAM0201")
	}
	if got := d.Name(); got != "ALPHA" {
		t.Errorf("Name() = %q, want %q", got, "ALPHA")
	}
	if got, want := d.String(), "SAM0201 ALPHA (amd:1:2)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !d.DisplayID().Empty() {
		t.Error("DisplayID() should be empty before ReadDisplayID")
	}
}

func TestNewDisplayReadFailure(t *testing.T) {
	f := newFakeDisplay(testEDID("ALPHA", 0x01))
	f.failReads = true

	d, err := NewDisplay(Identity{Vendor: VendorNvidia}, f, testOpts(nil))
	if err == nil {
		t.Fatalf("NewDisplay() = %v, want read error", d)
	}
	if KindOf(err) != KindIO {
		t.Errorf("KindOf = %v, want KindIO", KindOf(err))
	}
}

func TestDisplayReadDisplayID(t *testing.T) {
	f := newFakeDisplay(testEDID("ALPHA", 0x01))
	f.load(AddressDisplayID, []byte{0x01, 0x02, 0x03})
	d := newTestDisplay(t, Identity{Vendor: VendorI2CDev}, f)

	b, err := d.ReadDisplayID()
	if err != nil {
		t.Fatalf("ReadDisplayID: %v", err)
	}
	if b.Len() != descriptor.MaxSize {
		t.Errorf("Len() = %d, want %d for unrecognized data", b.Len(), descriptor.MaxSize)
	}
	if !d.DisplayID().Equal(b) {
		t.Error("DisplayID() does not return the cached read")
	}
	if f.reads[len(f.reads)-1] != AddressDisplayID+1 {
		t.Errorf("read address = %#x, want %#x", f.reads[len(f.reads)-1], AddressDisplayID+1)
	}
}

func TestDisplayWriteEDID(t *testing.T) {
	old := testEDID("ALPHA", 0x01)
	data := bytes.Clone(old)
	data[20] ^= 0x01
	seal(data)

	f := newFakeDisplay(old)
	d := newTestDisplay(t, Identity{Vendor: VendorI2CDev}, f)
	f.writes = nil

	if err := d.WriteEDID(descriptor.New(data), ModeFast); err != nil {
		t.Fatalf("WriteEDID: %v", err)
	}

	// Windows 16 and 120 changed
	if n := len(f.dataWrites()); n != 2 {
		t.Errorf("got %d commands, want 2", n)
	}
	if !bytes.Equal(d.EDID().Bytes(), data) {
		t.Error("EDID() does not reflect the write")
	}
}

func TestDisplayWriteDisplayIDWithoutCache(t *testing.T) {
	f := newFakeDisplay(testEDID("ALPHA", 0x01))
	f.load(AddressDisplayID, nil)
	d := newTestDisplay(t, Identity{Vendor: VendorI2CDev}, f)
	f.writes = nil

	data := bytes.Repeat([]byte{0x42}, 64)
	if err := d.WriteDisplayID(descriptor.New(data), ModeFast); err != nil {
		t.Fatalf("WriteDisplayID: %v", err)
	}

	if n := len(f.dataWrites()); n != 8 {
		t.Errorf("got %d commands, want every window of 64 bytes", n)
	}
	if !bytes.Equal(f.mem[AddressDisplayID][:64], data) {
		t.Error("display memory does not hold the new data")
	}
}

func TestDisplayClone(t *testing.T) {
	f := newFakeDisplay(testEDID("ALPHA", 0x01))
	f.load(AddressDisplayID, []byte{0x01})
	d := newTestDisplay(t, Identity{Vendor: VendorAMD, GPU: 3}, f)

	c := d.Clone()
	if !c.Equal(d) {
		t.Error("clone is not equal to the original")
	}

	if _, err := d.ReadDisplayID(); err != nil {
		t.Fatal(err)
	}
	if !c.DisplayID().Empty() {
		t.Error("clone cache changed with the original")
	}

	if _, err := c.ReadDisplayID(); err != nil {
		t.Errorf("clone cannot reach the display: %v", err)
	}
}

func TestDisplayEqualIgnoresData(t *testing.T) {
	id := Identity{Vendor: VendorNvidia, GPU: 0xDEAD, Output: 4}

	a := newTestDisplay(t, id, newFakeDisplay(testEDID("ALPHA", 0x01)))
	b := newTestDisplay(t, id, newFakeDisplay(testEDID("BETA", 0x02)))
	c := newTestDisplay(t, Identity{Vendor: VendorAMD, GPU: 0xDEAD, Output: 4}, newFakeDisplay(testEDID("ALPHA", 0x01)))

	if !a.Equal(b) {
		t.Error("same identity with different data should be equal")
	}
	if a.Equal(c) {
		t.Error("different vendor should not be equal")
	}
}

func TestDisplayLess(t *testing.T) {
	display := func(edid []byte) *Display {
		return newTestDisplay(t, Identity{Vendor: VendorI2CDev}, newFakeDisplay(edid))
	}

	unnamed := testEDID("", 0x01)
	unnamed[57] = 0x10 // no name descriptor
	seal(unnamed)

	tests := []struct {
		name string
		a, b *Display
		want bool
	}{
		{"product ID first", display(testEDID("ZED", 0x00)), display(testEDID("ALPHA", 0x01)), true},
		{"product ID reversed", display(testEDID("ALPHA", 0x01)), display(testEDID("ZED", 0x00)), false},
		{"then name", display(testEDID("ALPHA", 0x01)), display(testEDID("ZED", 0x01)), true},
		{"equal", display(testEDID("ALPHA", 0x01)), display(testEDID("ALPHA", 0x01)), false},
		{"missing name sorts last", display(unnamed), display(testEDID("ZED", 0x01)), false},
		{"named before missing", display(testEDID("ZED", 0x01)), display(unnamed), true},
		{"missing product ID sorts last", display(make([]byte, 128)), display(testEDID("A", 0xFF)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Less(tt.b); got != tt.want {
				t.Errorf("Less() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIdentityString(t *testing.T) {
	tests := []struct {
		id   Identity
		want string
	}{
		{Identity{Vendor: VendorAMD, GPU: 0, Output: 1}, "amd:0:1"},
		{Identity{Vendor: VendorNvidia, GPU: 4096, Output: 8}, "nvidia:4096:8"},
		{Identity{Vendor: VendorI2CDev, GPU: 7}, "i2c:7:0"},
		{Identity{}, "unknown:0:0"},
	}

	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
