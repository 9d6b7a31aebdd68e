package edge

import (
	"testing"
	"time"

	"collector/internal/screen"
)

func TestAtEdge(t *testing.T) {
	bounds := screen.Bounds{Width: 1920, Height: 1080}

	tests := []struct {
		name string
		side string
		x    int
		want bool
	}{
		{"right edge exact", "right", 1915, true},
		{"right edge inside zone", "right", 1916, true},
		{"right edge last pixel", "right", 1919, true},
		{"right edge outside zone", "right", 1914, false},
		{"right edge far away", "right", 1900, false},
		{"left edge zero", "left", 0, true},
		{"left edge inside zone", "left", 5, true},
		{"left edge outside zone", "left", 6, false},
		{"unknown side", "top", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AtEdge(screen.Point{X: tt.x, Y: 500}, bounds, tt.side, 5)
			if got != tt.want {
				t.Errorf("AtEdge(x=%d, side=%s) = %v, want %v", tt.x, tt.side, got, tt.want)
			}
		})
	}
}

func testConfig() Config {
	return Config{
		Side:         "right",
		Enabled:      true,
		WindowWidth:  330,
		WindowHeight: 600,
	}
}

var (
	bounds  = screen.Bounds{Width: 1920, Height: 1080}
	atEdge  = screen.Point{X: 1918, Y: 500}
	offEdge = screen.Point{X: 960, Y: 500}
)

func TestOpenFiresAfterContinuousDwell(t *testing.T) {
	d := NewDetector(testConfig())
	now := time.Now()

	if req := d.Step(now, bounds, atEdge); req != nil {
		t.Fatal("first at-edge sample should only start the timer")
	}
	if req := d.Step(now.Add(30*time.Millisecond), bounds, atEdge); req != nil {
		t.Fatal("sample before trigger delay should not fire")
	}

	req := d.Step(now.Add(60*time.Millisecond), bounds, atEdge)
	if req == nil {
		t.Fatal("expected open request after dwell >= trigger delay")
	}
	if req.X != 1590 {
		t.Errorf("window x = %d, want 1590", req.X)
	}
	if req.Y != 240 {
		t.Errorf("window y = %d, want 240", req.Y)
	}
	if !d.WindowOpen() {
		t.Error("detector should record window open after firing")
	}
}

func TestLeftEdgePosition(t *testing.T) {
	cfg := testConfig()
	cfg.Side = "left"
	d := NewDetector(cfg)
	now := time.Now()

	d.Step(now, bounds, screen.Point{X: 2, Y: 500})
	req := d.Step(now.Add(60*time.Millisecond), bounds, screen.Point{X: 2, Y: 500})
	if req == nil {
		t.Fatal("expected open request")
	}
	if req.X != 0 {
		t.Errorf("window x = %d, want 0 for left edge", req.X)
	}
}

func TestInterruptedApproachResetsTimer(t *testing.T) {
	d := NewDetector(testConfig())
	now := time.Now()

	d.Step(now, bounds, atEdge)
	d.Step(now.Add(30*time.Millisecond), bounds, offEdge)

	// Contact resumes; total at-edge time exceeds the delay but the
	// episode restarted, so nothing may fire yet.
	d.Step(now.Add(40*time.Millisecond), bounds, atEdge)
	if req := d.Step(now.Add(70*time.Millisecond), bounds, atEdge); req != nil {
		t.Fatal("interrupted approach must not accumulate dwell time")
	}

	if req := d.Step(now.Add(95*time.Millisecond), bounds, atEdge); req == nil {
		t.Fatal("expected open request after fresh continuous dwell")
	}
}

func TestNoEventWhileWindowOpen(t *testing.T) {
	d := NewDetector(testConfig())
	now := time.Now()

	d.Step(now, bounds, atEdge)
	if req := d.Step(now.Add(60*time.Millisecond), bounds, atEdge); req == nil {
		t.Fatal("expected first open request")
	}

	for i := 0; i < 20; i++ {
		now = now.Add(50 * time.Millisecond)
		if req := d.Step(now, bounds, atEdge); req != nil {
			t.Fatal("no open request may fire while the window is open")
		}
	}
}

func TestCooldownAfterClose(t *testing.T) {
	d := NewDetector(testConfig())
	now := time.Now()

	d.Step(now, bounds, atEdge)
	if req := d.Step(now.Add(60*time.Millisecond), bounds, atEdge); req == nil {
		t.Fatal("expected open request")
	}

	closeTime := now.Add(2 * time.Second)
	d.SetWindowOpen(false, closeTime)

	// Pointer still parked at the edge; cooldown must swallow everything.
	for offset := time.Duration(0); offset < 450*time.Millisecond; offset += 50 * time.Millisecond {
		if req := d.Step(closeTime.Add(offset), bounds, atEdge); req != nil {
			t.Fatalf("open request fired %v after close, inside cooldown", offset)
		}
	}

	// After the cooldown the full dwell is required again.
	after := closeTime.Add(600 * time.Millisecond)
	d.Step(after, bounds, atEdge)
	if req := d.Step(after.Add(60*time.Millisecond), bounds, atEdge); req == nil {
		t.Fatal("expected open request after cooldown expired")
	}
}

func TestDisabledIgnoresSamples(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	d := NewDetector(cfg)
	now := time.Now()

	for i := 0; i < 10; i++ {
		if req := d.Step(now.Add(time.Duration(i)*50*time.Millisecond), bounds, atEdge); req != nil {
			t.Fatal("disabled detector must not fire")
		}
	}

	d.SetEnabled(true)
	d.Step(now.Add(time.Second), bounds, atEdge)
	if req := d.Step(now.Add(time.Second+60*time.Millisecond), bounds, atEdge); req == nil {
		t.Fatal("expected open request after re-enable")
	}
}

func TestUpdateConfigResetsApproach(t *testing.T) {
	d := NewDetector(testConfig())
	now := time.Now()

	d.Step(now, bounds, atEdge)

	cfg := testConfig()
	cfg.Side = "left"
	d.UpdateConfig(cfg)

	// The old approach on the right edge must not carry over.
	if req := d.Step(now.Add(60*time.Millisecond), bounds, atEdge); req != nil {
		t.Fatal("approach must reset on config replacement")
	}
}
