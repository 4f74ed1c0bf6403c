//go:build windows

package monitor

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

// Callbacks are a finite resource; one is created for the process and
// enumerations are serialized around it.
var (
	enumMu       sync.Mutex
	enumActive   *enumState
	enumCallback = syscall.NewCallback(enumProc)
)

// ListMonitors returns the displays in virtual-screen coordinates, which
// match the low-level hook and SendInput absolute mapping.
func ListMonitors() ([]Monitor, error) {
	enumMu.Lock()
	defer enumMu.Unlock()
	state := &enumState{}
	enumActive = state
	defer func() { enumActive = nil }()

	if ok := win.EnumDisplayMonitors(0, nil, enumCallback, 0); !ok {
		return nil, fmt.Errorf("EnumDisplayMonitors failed: %w", syscall.GetLastError())
	}
	if len(state.list) == 0 {
		return nil, fmt.Errorf("no monitors detected")
	}
	return state.list, nil
}

// enumState accumulates monitors across EnumDisplayMonitors callbacks.
type enumState struct {
	list  []Monitor
	index int
}

// enumProc records one monitor into the active enumeration and continues.
func enumProc(hMonitor win.HMONITOR, hdc win.HDC, rect *win.RECT, lparam uintptr) uintptr {
	s := enumActive
	if s == nil {
		return 0
	}
	var info win.MONITORINFO
	info.CbSize = uint32(unsafe.Sizeof(info))
	if !win.GetMonitorInfo(hMonitor, &info) {
		return 1
	}

	r := info.RcMonitor
	s.index++
	s.list = append(s.list, Monitor{
		Index:   s.index,
		X:       int(r.Left),
		Y:       int(r.Top),
		W:       int(r.Right - r.Left),
		H:       int(r.Bottom - r.Top),
		Primary: info.DwFlags&win.MONITORINFOF_PRIMARY != 0,
	})
	return 1
}
