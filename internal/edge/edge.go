// Package edge turns continuous pointer polling into discrete open
// requests for the capture surface. A Detector holds the trigger state
// machine; Loop drives it on a fixed interval against a screen.Probe.
package edge

import (
	"sync"
	"time"

	"collector/internal/screen"
)

// Defaults for trigger tuning. The zone and delays are deliberately tight:
// the surface should feel instant without firing on a pointer that merely
// passes near the edge.
const (
	DefaultZonePx       = 5
	DefaultTriggerDelay = 50 * time.Millisecond
	DefaultPollInterval = 50 * time.Millisecond
	DefaultCooldown     = 500 * time.Millisecond
)

// Config is an immutable snapshot of the trigger rules. It is replaced
// wholesale on settings changes, never mutated in place.
type Config struct {
	Side         string // "left" or "right"
	ZonePx       int
	TriggerDelay time.Duration
	PollInterval time.Duration
	Cooldown     time.Duration
	Enabled      bool

	// Window dimensions, used to compute the open position.
	WindowWidth  int
	WindowHeight int
}

func (c Config) withDefaults() Config {
	if c.ZonePx <= 0 {
		c.ZonePx = DefaultZonePx
	}
	if c.TriggerDelay <= 0 {
		c.TriggerDelay = DefaultTriggerDelay
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.Cooldown <= 0 {
		c.Cooldown = DefaultCooldown
	}
	return c
}

// OpenRequest asks the session layer to place and show the capture
// surface: x flush to the triggering edge, y vertically centered.
type OpenRequest struct {
	X int
	Y int
}

// AtEdge reports whether the pointer sits inside the proximity zone of
// the configured edge.
func AtEdge(p screen.Point, b screen.Bounds, side string, zone int) bool {
	switch side {
	case "right":
		return p.X >= b.Width-zone
	case "left":
		return p.X <= zone
	default:
		return false
	}
}

// Detector is the trigger state machine. All state lives behind one mutex
// so the polling goroutine and the show/hide paths observe consistent
// snapshots; in particular "window closed" and "cooldown armed" are a
// single transition.
type Detector struct {
	mu sync.Mutex

	cfg          Config
	windowOpen   bool
	cooldownTill time.Time

	approaching bool
	since       time.Time
}

// NewDetector creates a detector in the idle state.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg.withDefaults()}
}

// UpdateConfig replaces the trigger configuration snapshot.
func (d *Detector) UpdateConfig(cfg Config) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = cfg.withDefaults()
	d.approaching = false
}

// SetEnabled flips edge detection without touching the rest of the config.
func (d *Detector) SetEnabled(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg.Enabled = enabled
	if !enabled {
		d.approaching = false
	}
}

// SetWindowOpen records capture-surface visibility. Closing arms the
// cooldown in the same critical section, so no poll can slip between
// "window closed" and "cooldown active" and re-trigger off the residual
// pointer position next to the edge.
func (d *Detector) SetWindowOpen(open bool, now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	wasOpen := d.windowOpen
	d.windowOpen = open
	if wasOpen && !open {
		d.cooldownTill = now.Add(d.cfg.Cooldown)
		d.approaching = false
	}
}

// WindowOpen reports current surface visibility as the detector sees it.
func (d *Detector) WindowOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.windowOpen
}

// PollInterval returns the currently configured sampling interval.
func (d *Detector) PollInterval() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg.PollInterval
}

// Step feeds one pointer sample into the state machine and returns an
// open request when the dwell requirement is met. At most one request
// fires per approach: firing marks the window open and resets to idle,
// so the next request needs a fresh close, cooldown and dwell.
func (d *Detector) Step(now time.Time, bounds screen.Bounds, pointer screen.Point) *OpenRequest {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.cfg.Enabled || d.windowOpen || now.Before(d.cooldownTill) {
		d.approaching = false
		return nil
	}

	if !AtEdge(pointer, bounds, d.cfg.Side, d.cfg.ZonePx) {
		d.approaching = false
		return nil
	}

	if !d.approaching {
		d.approaching = true
		d.since = now
		return nil
	}

	if now.Sub(d.since) < d.cfg.TriggerDelay {
		return nil
	}

	// Mark open before anyone else can observe the transition.
	d.windowOpen = true
	d.approaching = false

	x := 0
	if d.cfg.Side != "left" {
		x = bounds.Width - d.cfg.WindowWidth
	}
	y := (bounds.Height - d.cfg.WindowHeight) / 2

	return &OpenRequest{X: x, Y: y}
}
