//go:build darwin

package platform

/*
#cgo darwin CFLAGS: -x objective-c -fmodules -fobjc-arc
#cgo darwin LDFLAGS: -framework CoreGraphics -framework ApplicationServices -framework CoreFoundation -framework Cocoa
*/
import "C"

import "github.com/frudas24/inputtap/internal/input"

// darwinFlags maps modifiers to kCGEventFlagMask* bits.
var darwinFlags = input.FlagTable{
	0x20000,  // kCGEventFlagMaskShift
	0x40000,  // kCGEventFlagMaskControl
	0x80000,  // kCGEventFlagMaskAlternate
	0x100000, // kCGEventFlagMaskCommand
	0x10000,  // kCGEventFlagMaskAlphaShift
	0x800000, // kCGEventFlagMaskSecondaryFn
	0x200000, // kCGEventFlagMaskNumericPad
	0x400000, // kCGEventFlagMaskHelp
}

// New returns the CoreGraphics/AppKit bindings.
func New() (Platform, error) {
	return Platform{
		Name:    "darwin",
		Hook:    darwinHook{},
		Poster:  darwinPoster{flags: darwinFlags},
		Display: darwinDisplay{},
		Prober:  darwinProber{},
		Flags:   darwinFlags,
	}, nil
}
