//go:build darwin

package monitor

/*
#cgo LDFLAGS: -framework CoreGraphics
#include <CoreGraphics/CoreGraphics.h>
*/
import "C"

import "fmt"

// maxDisplays bounds the active display query.
const maxDisplays = 32

// ListMonitors returns the active displays in global points with the origin
// at the top-left of the main display, the space CGEvent locations use.
func ListMonitors() ([]Monitor, error) {
	var ids [maxDisplays]C.CGDirectDisplayID
	var count C.uint32_t
	if rc := C.CGGetActiveDisplayList(C.uint32_t(maxDisplays), &ids[0], &count); rc != 0 {
		return nil, fmt.Errorf("CGGetActiveDisplayList failed: %d", int(rc))
	}
	if count == 0 {
		return nil, fmt.Errorf("no monitors detected")
	}
	main := C.CGMainDisplayID()
	list := make([]Monitor, 0, int(count))
	for i := 0; i < int(count); i++ {
		b := C.CGDisplayBounds(ids[i])
		list = append(list, Monitor{
			Index:   i + 1,
			X:       int(b.origin.x),
			Y:       int(b.origin.y),
			W:       int(b.size.width),
			H:       int(b.size.height),
			Primary: ids[i] == main,
		})
	}
	return list, nil
}
