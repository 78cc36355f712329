//go:build windows

package nvidia

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	nvapiOK         = 0
	maxPhysicalGPUs = 64

	i2cSpeedDeprecated = 0xFFFF
	i2cSpeed10KHz      = 2
)

// Interface IDs resolved through nvapi_QueryInterface.
const (
	idInitialize          = 0x0150E828
	idUnload              = 0xD22BDD7E
	idEnumPhysicalGPUs    = 0xE5AC921F
	idGetConnectedOutputs = 0x1730BFC9
	idI2CRead             = 0x2FDE12C5
	idI2CWrite            = 0xE812EB07
)

type i2cInfo struct {
	Version     uint32
	DisplayMask uint32
	IsDDCPort   uint8
	DevAddress  uint8
	RegAddress  *byte
	RegAddrSize uint32
	Data        *byte
	Size        uint32
	Speed       uint32
	SpeedKHz    uint32
}

var i2cInfoVersion = uint32(unsafe.Sizeof(i2cInfo{})) | 2<<16

// nvapi holds the resolved entry points. Calls are serialized.
type nvapi struct {
	mu sync.Mutex

	unload           uintptr
	enumPhysicalGPUs uintptr
	connectedOutputs uintptr
	i2cRead          uintptr
	i2cWrite         uintptr
}

// Open loads nvapi64.dll, or nvapi.dll on 32-bit systems, and initializes
// NVAPI.
func Open() (Library, error) {
	var query *windows.LazyProc
	for _, name := range []string{"nvapi64.dll", "nvapi.dll"} {
		dll := windows.NewLazySystemDLL(name)
		if err := dll.Load(); err != nil {
			continue
		}
		query = dll.NewProc("nvapi_QueryInterface")
		break
	}
	if query == nil {
		return nil, errors.New("nvidia: NVAPI driver library not found")
	}
	if err := query.Find(); err != nil {
		return nil, fmt.Errorf("nvidia: %w", err)
	}

	resolve := func(id uintptr) (uintptr, error) {
		fn, _, _ := query.Call(id)
		if fn == 0 {
			return 0, fmt.Errorf("nvidia: interface %#08x not available", id)
		}
		return fn, nil
	}

	initialize, err := resolve(idInitialize)
	if err != nil {
		return nil, err
	}

	n := &nvapi{}
	for _, p := range []struct {
		fn *uintptr
		id uintptr
	}{
		{&n.unload, idUnload},
		{&n.enumPhysicalGPUs, idEnumPhysicalGPUs},
		{&n.connectedOutputs, idGetConnectedOutputs},
		{&n.i2cRead, idI2CRead},
		{&n.i2cWrite, idI2CWrite},
	} {
		if *p.fn, err = resolve(p.id); err != nil {
			return nil, err
		}
	}

	if err := call(initialize); err != nil {
		return nil, fmt.Errorf("nvidia: init: %w", err)
	}

	return n, nil
}

func call(fn uintptr, args ...uintptr) error {
	r, _, _ := syscall.SyscallN(fn, args...)
	if int32(r) != nvapiOK {
		return Status(int32(r))
	}
	return nil
}

func (n *nvapi) PhysicalGPUs() ([]Handle, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var (
		handles [maxPhysicalGPUs]Handle
		count   uint32
	)
	if err := call(n.enumPhysicalGPUs, uintptr(unsafe.Pointer(&handles[0])), uintptr(unsafe.Pointer(&count))); err != nil {
		return nil, err
	}
	return append([]Handle(nil), handles[:min(count, maxPhysicalGPUs)]...), nil
}

func (n *nvapi) ConnectedOutputs(gpu Handle) (uint32, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var mask uint32
	if err := call(n.connectedOutputs, uintptr(gpu), uintptr(unsafe.Pointer(&mask))); err != nil {
		return 0, err
	}
	return mask, nil
}

func (n *nvapi) I2CRead(gpu Handle, mask uint32, addr byte, buf []byte) error {
	return n.transfer(n.i2cRead, gpu, mask, addr, buf)
}

func (n *nvapi) I2CWrite(gpu Handle, mask uint32, addr byte, data []byte) error {
	return n.transfer(n.i2cWrite, gpu, mask, addr, data)
}

func (n *nvapi) transfer(fn uintptr, gpu Handle, mask uint32, addr byte, data []byte) error {
	info := i2cInfo{
		Version:     i2cInfoVersion,
		DisplayMask: mask,
		IsDDCPort:   1,
		DevAddress:  addr,
		Size:        uint32(len(data)),
		Speed:       i2cSpeedDeprecated,
		SpeedKHz:    i2cSpeed10KHz,
	}
	if len(data) > 0 {
		info.Data = &data[0]
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	err := call(fn, uintptr(gpu), uintptr(unsafe.Pointer(&info)))
	runtime.KeepAlive(data)
	return err
}

func (n *nvapi) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return call(n.unload)
}
