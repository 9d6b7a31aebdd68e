// Package screen provides pointer and display queries behind a small
// capability interface so the edge-trigger loop can run against a fake.
package screen

// Point is a pointer position in screen pixel coordinates.
type Point struct {
	X int
	Y int
}

// Bounds is the primary display size in pixels. Displays can be plugged
// and unplugged at runtime, so callers re-query every poll.
type Bounds struct {
	Width  int
	Height int
}

// Probe queries the OS for pointer and display state. Errors are expected
// to be transient (display reconfiguration, session lock) and callers
// treat them as "no sample this tick".
type Probe interface {
	PointerPosition() (Point, error)
	DisplayBounds() (Bounds, error)
}
