//go:build darwin

package screen

/*
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation
#include <CoreGraphics/CoreGraphics.h>

// Query the current pointer location. Returns 0 on failure.
static int pointerLocation(double *x, double *y) {
    CGEventSourceRef source = CGEventSourceCreate(kCGEventSourceStateCombinedSessionState);
    if (source == NULL) {
        return 0;
    }
    CGEventRef event = CGEventCreate(source);
    if (event == NULL) {
        CFRelease(source);
        return 0;
    }
    CGPoint loc = CGEventGetLocation(event);
    *x = loc.x;
    *y = loc.y;
    CFRelease(event);
    CFRelease(source);
    return 1;
}

// Main display size in points.
static void mainDisplayBounds(double *w, double *h) {
    CGDirectDisplayID display = CGMainDisplayID();
    CGRect rect = CGDisplayBounds(display);
    *w = rect.size.width;
    *h = rect.size.height;
}
*/
import "C"

import "fmt"

type darwinProbe struct{}

// NewProbe returns the macOS probe backed by CoreGraphics.
func NewProbe() Probe {
	return darwinProbe{}
}

func (darwinProbe) PointerPosition() (Point, error) {
	var x, y C.double
	if C.pointerLocation(&x, &y) == 0 {
		return Point{}, fmt.Errorf("pointer query failed")
	}
	return Point{X: int(x), Y: int(y)}, nil
}

func (darwinProbe) DisplayBounds() (Bounds, error) {
	var w, h C.double
	C.mainDisplayBounds(&w, &h)
	return Bounds{Width: int(w), Height: int(h)}, nil
}
