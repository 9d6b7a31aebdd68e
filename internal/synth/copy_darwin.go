//go:build darwin

package synth

/*
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation
#include <ApplicationServices/ApplicationServices.h>
#include <unistd.h>

// Post Cmd+C as four discrete events with gaps, so apps that debounce
// their input still register the chord. Returns 0 if the event source
// cannot be created (usually missing accessibility approval).
static int sendCopyShortcut() {
    CGEventSourceRef source = CGEventSourceCreate(kCGEventSourceStateCombinedSessionState);
    if (source == NULL) {
        return 0;
    }

    const CGKeyCode keyC = 8;
    const CGKeyCode keyCmd = 55;
    const useconds_t gap = 20 * 1000;

    usleep(50 * 1000); // let the target app settle before the chord

    CGEventRef cmdDown = CGEventCreateKeyboardEvent(source, keyCmd, true);
    CGEventRef cDown = CGEventCreateKeyboardEvent(source, keyC, true);
    CGEventRef cUp = CGEventCreateKeyboardEvent(source, keyC, false);
    CGEventRef cmdUp = CGEventCreateKeyboardEvent(source, keyCmd, false);

    if (cmdDown == NULL || cDown == NULL || cUp == NULL || cmdUp == NULL) {
        if (cmdDown) CFRelease(cmdDown);
        if (cDown) CFRelease(cDown);
        if (cUp) CFRelease(cUp);
        if (cmdUp) CFRelease(cmdUp);
        CFRelease(source);
        return 0;
    }

    CGEventSetFlags(cDown, kCGEventFlagMaskCommand);
    CGEventSetFlags(cUp, kCGEventFlagMaskCommand);

    CGEventPost(kCGAnnotatedSessionEventTap, cmdDown);
    usleep(gap);
    CGEventPost(kCGAnnotatedSessionEventTap, cDown);
    usleep(gap);
    CGEventPost(kCGAnnotatedSessionEventTap, cUp);
    usleep(gap);
    CGEventPost(kCGAnnotatedSessionEventTap, cmdUp);
    usleep(gap);

    CFRelease(cmdDown);
    CFRelease(cDown);
    CFRelease(cUp);
    CFRelease(cmdUp);
    CFRelease(source);
    return 1;
}
*/
import "C"

import "fmt"

type darwinSynthesizer struct{}

// New returns the macOS synthesizer backed by CGEvent.
func New() Synthesizer {
	return darwinSynthesizer{}
}

func (darwinSynthesizer) Copy() error {
	if C.sendCopyShortcut() == 0 {
		return fmt.Errorf("failed to synthesize copy shortcut")
	}
	return nil
}
