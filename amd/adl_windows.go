//go:build windows

package amd

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	adlOK      = 0
	adlMaxPath = 256
)

type adlAdapterInfo struct {
	Size           int32
	AdapterIndex   int32
	UDID           [adlMaxPath]byte
	BusNumber      int32
	DeviceNumber   int32
	FunctionNumber int32
	VendorID       int32
	AdapterName    [adlMaxPath]byte
	DisplayName    [adlMaxPath]byte
	Present        int32
	Exist          int32
	DriverPath     [adlMaxPath]byte
	DriverPathExt  [adlMaxPath]byte
	PNPString      [adlMaxPath]byte
	OSDisplayIndex int32
}

type adlDisplayInfo struct {
	LogicalIndex         int32
	PhysicalIndex        int32
	LogicalAdapterIndex  int32
	PhysicalAdapterIndex int32
	ControllerIndex      int32
	DisplayName          [adlMaxPath]byte
	DisplayManufacturer  [adlMaxPath]byte
	DisplayType          int32
	DisplayOutputType    int32
	DisplayConnector     int32
	DisplayInfoMask      int32
	DisplayInfoValue     int32
}

// adl binds the driver DLL. Calls are serialized, ADL is not reentrant.
type adl struct {
	mu  sync.Mutex
	dll *windows.LazyDLL

	create      *windows.LazyProc
	destroy     *windows.LazyProc
	numAdapters *windows.LazyProc
	adapterInfo *windows.LazyProc
	displayInfo *windows.LazyProc
	ddcAccess   *windows.LazyProc
}

// adlAlloc is handed to ADL as its allocator. Memory it returns is released
// with windows.LocalFree.
var adlAlloc = windows.NewCallback(func(size uintptr) uintptr {
	p, err := windows.LocalAlloc(windows.LMEM_FIXED|windows.LMEM_ZEROINIT, uint32(size))
	if err != nil {
		return 0
	}
	return p
})

// Open loads atiadlxx.dll, or atiadlxy.dll on 32-bit systems, and
// initializes ADL.
func Open() (Library, error) {
	var dll *windows.LazyDLL
	for _, name := range []string{"atiadlxx.dll", "atiadlxy.dll"} {
		d := windows.NewLazySystemDLL(name)
		if err := d.Load(); err == nil {
			dll = d
			break
		}
	}
	if dll == nil {
		return nil, errors.New("amd: ADL driver library not found")
	}

	l := &adl{
		dll:         dll,
		create:      dll.NewProc("ADL_Main_Control_Create"),
		destroy:     dll.NewProc("ADL_Main_Control_Destroy"),
		numAdapters: dll.NewProc("ADL_Adapter_NumberOfAdapters_Get"),
		adapterInfo: dll.NewProc("ADL_Adapter_AdapterInfo_Get"),
		displayInfo: dll.NewProc("ADL_Display_DisplayInfo_Get"),
		ddcAccess:   dll.NewProc("ADL_Display_DDCBlockAccess_Get"),
	}

	for _, p := range []*windows.LazyProc{l.create, l.destroy, l.numAdapters, l.adapterInfo, l.displayInfo, l.ddcAccess} {
		if err := p.Find(); err != nil {
			return nil, fmt.Errorf("amd: %w", err)
		}
	}

	// Second argument: only report adapters that are present
	if err := call(l.create, adlAlloc, 1); err != nil {
		return nil, fmt.Errorf("amd: init: %w", err)
	}

	return l, nil
}

func call(p *windows.LazyProc, args ...uintptr) error {
	r, _, _ := p.Call(args...)
	if int32(r) != adlOK {
		return Result(int32(r))
	}
	return nil
}

func (l *adl) Adapters() ([]AdapterInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var n int32
	if err := call(l.numAdapters, uintptr(unsafe.Pointer(&n))); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, nil
	}

	raw := make([]adlAdapterInfo, n)
	size := uintptr(n) * unsafe.Sizeof(raw[0])
	if err := call(l.adapterInfo, uintptr(unsafe.Pointer(&raw[0])), size); err != nil {
		return nil, err
	}

	out := make([]AdapterInfo, 0, n)
	for _, a := range raw {
		out = append(out, AdapterInfo{
			Index:         int(a.AdapterIndex),
			Bus:           int(a.BusNumber),
			Name:          windows.ByteSliceToString(a.AdapterName[:]),
			DisplayName:   windows.ByteSliceToString(a.DisplayName[:]),
			DriverPathExt: windows.ByteSliceToString(a.DriverPathExt[:]),
			Present:       a.Present != 0,
		})
	}
	return out, nil
}

func (l *adl) Displays(adapter int) ([]DisplayInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var (
		n   int32
		ptr unsafe.Pointer
	)

	// Last argument: no forced detection
	err := call(l.displayInfo, uintptr(adapter), uintptr(unsafe.Pointer(&n)), uintptr(unsafe.Pointer(&ptr)), 0)
	if err != nil {
		return nil, err
	}
	if ptr == nil {
		return nil, nil
	}
	defer windows.LocalFree(windows.Handle(uintptr(ptr)))

	raw := unsafe.Slice((*adlDisplayInfo)(ptr), int(n))
	out := make([]DisplayInfo, 0, n)
	for _, d := range raw {
		out = append(out, DisplayInfo{
			LogicalIndex: int(d.LogicalIndex),
			Name:         windows.ByteSliceToString(d.DisplayName[:]),
			Manufacturer: windows.ByteSliceToString(d.DisplayManufacturer[:]),
		})
	}
	return out, nil
}

func (l *adl) DDCBlockAccess(adapter, display int, send, recv []byte) (int, error) {
	if len(send) == 0 {
		return 0, errors.New("amd: empty DDC message")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	n := int32(len(recv))
	var recvPtr unsafe.Pointer
	if len(recv) > 0 {
		recvPtr = unsafe.Pointer(&recv[0])
	}

	err := call(l.ddcAccess,
		uintptr(adapter),
		uintptr(display),
		0, // option
		0, // command index
		uintptr(len(send)),
		uintptr(unsafe.Pointer(&send[0])),
		uintptr(unsafe.Pointer(&n)),
		uintptr(recvPtr),
	)
	runtime.KeepAlive(recv)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (l *adl) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return call(l.destroy)
}
