//go:build !darwin

package screen

import (
	"fmt"

	"github.com/kbinani/screenshot"
)

// stubProbe serves platforms without a pointer backend. Display bounds
// still come from the real display so window positioning works; pointer
// queries error out, which the polling loop treats as a skipped tick,
// leaving shortcut-driven capture as the way in.
type stubProbe struct{}

// NewProbe returns the portable probe.
func NewProbe() Probe {
	return stubProbe{}
}

func (stubProbe) PointerPosition() (Point, error) {
	return Point{}, fmt.Errorf("pointer queries not supported on this platform")
}

func (stubProbe) DisplayBounds() (Bounds, error) {
	if screenshot.NumActiveDisplays() == 0 {
		return Bounds{}, fmt.Errorf("no active displays")
	}
	r := screenshot.GetDisplayBounds(0)
	return Bounds{Width: r.Dx(), Height: r.Dy()}, nil
}
