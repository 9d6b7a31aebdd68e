//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>

static int checkAccessibility(int prompt) {
    if (prompt) {
        const void *keys[] = { kAXTrustedCheckOptionPrompt };
        const void *values[] = { kCFBooleanTrue };
        CFDictionaryRef options = CFDictionaryCreate(kCFAllocatorDefault,
            keys, values, 1,
            &kCFTypeDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
        Boolean trusted = AXIsProcessTrustedWithOptions(options);
        CFRelease(options);
        return trusted ? 1 : 0;
    }
    return AXIsProcessTrusted() ? 1 : 0;
}
*/
import "C"

// CheckAccessibility reports whether the process may synthesize input
// events. Without this approval the shortcut grabs still work but
// selection capture cannot issue the copy chord.
func CheckAccessibility() bool {
	return C.checkAccessibility(0) == 1
}

// PromptAccessibility triggers the system approval dialog (once per
// process) and reports the current state.
func PromptAccessibility() bool {
	return C.checkAccessibility(1) == 1
}
