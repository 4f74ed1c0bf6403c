//go:build darwin

package platform

/*
#include <ApplicationServices/ApplicationServices.h>
#include <CoreFoundation/CoreFoundation.h>

static Boolean inputtapTrusted(void) {
	return AXIsProcessTrusted();
}

static void inputtapPrompt(void) {
	const void *keys[] = { kAXTrustedCheckOptionPrompt };
	const void *values[] = { kCFBooleanTrue };
	CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault, keys, values, 1,
	                                             &kCFTypeDictionaryKeyCallBacks,
	                                             &kCFTypeDictionaryValueCallBacks);
	AXIsProcessTrustedWithOptions(options);
	CFRelease(options);
}
*/
import "C"

// darwinProber checks the accessibility grant that covers taps and posting.
type darwinProber struct{}

// Trusted reports whether the process holds the accessibility grant.
func (darwinProber) Trusted() bool {
	return C.inputtapTrusted() != C.Boolean(0)
}

// Prompt opens the system accessibility prompt.
func (darwinProber) Prompt() {
	C.inputtapPrompt()
}
