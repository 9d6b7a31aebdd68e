package edge

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"collector/internal/screen"
)

type scriptedProbe struct {
	mu      sync.Mutex
	pointer screen.Point
	fail    bool
}

func (p *scriptedProbe) PointerPosition() (screen.Point, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return screen.Point{}, errors.New("no pointer device")
	}
	return p.pointer, nil
}

func (p *scriptedProbe) DisplayBounds() (screen.Bounds, error) {
	return screen.Bounds{Width: 1920, Height: 1080}, nil
}

func (p *scriptedProbe) set(pt screen.Point, fail bool) {
	p.mu.Lock()
	p.pointer = pt
	p.fail = fail
	p.mu.Unlock()
}

func TestLoopFiresOnEdgeDwell(t *testing.T) {
	cfg := testConfig()
	cfg.PollInterval = 5 * time.Millisecond
	cfg.TriggerDelay = 10 * time.Millisecond
	d := NewDetector(cfg)

	probe := &scriptedProbe{pointer: screen.Point{X: 1918, Y: 500}}

	opened := make(chan OpenRequest, 1)
	loop := NewLoop(d, probe, func(req OpenRequest) { opened <- req }, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	select {
	case req := <-opened:
		if req.X != 1590 {
			t.Errorf("open request x = %d, want 1590", req.X)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop never fired with the pointer parked at the edge")
	}
}

func TestLoopSurvivesProbeFailures(t *testing.T) {
	cfg := testConfig()
	cfg.PollInterval = 5 * time.Millisecond
	cfg.TriggerDelay = 10 * time.Millisecond
	d := NewDetector(cfg)

	probe := &scriptedProbe{fail: true}

	opened := make(chan OpenRequest, 1)
	loop := NewLoop(d, probe, func(req OpenRequest) { opened <- req }, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	// Let it chew on failures for a while, then recover the probe.
	time.Sleep(50 * time.Millisecond)
	probe.set(screen.Point{X: 1918, Y: 500}, false)

	select {
	case <-opened:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not recover after probe failures")
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	d := NewDetector(testConfig())
	probe := &scriptedProbe{pointer: screen.Point{X: 0, Y: 0}}
	loop := NewLoop(d, probe, func(OpenRequest) {}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		loop.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on context cancellation")
	}
}
