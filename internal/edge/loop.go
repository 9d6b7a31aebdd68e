package edge

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"collector/internal/screen"
)

// Loop samples the probe on the detector's poll interval and forwards
// open requests. It owns a dedicated goroutine and never blocks on the
// handler's downstream work for longer than showing a window takes;
// anything slower belongs on its own goroutine in the handler.
type Loop struct {
	detector *Detector
	probe    screen.Probe
	onOpen   func(OpenRequest)
	log      zerolog.Logger
}

// NewLoop wires a detector to a probe and an open handler.
func NewLoop(d *Detector, probe screen.Probe, onOpen func(OpenRequest), log zerolog.Logger) *Loop {
	return &Loop{detector: d, probe: probe, onOpen: onOpen, log: log}
}

// Run polls until ctx is cancelled. Probe failures skip the tick and the
// loop keeps going; nothing here is allowed to terminate it.
func (l *Loop) Run(ctx context.Context) {
	l.log.Info().Msg("Edge detection polling started")

	timer := time.NewTimer(l.detector.PollInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info().Msg("Edge detection polling stopped")
			return
		case <-timer.C:
		}

		l.tick()

		// Re-read the interval so config changes take effect without a
		// restart.
		timer.Reset(l.detector.PollInterval())
	}
}

func (l *Loop) tick() {
	pointer, err := l.probe.PointerPosition()
	if err != nil {
		l.log.Debug().Err(err).Msg("Pointer query failed, skipping tick")
		return
	}

	bounds, err := l.probe.DisplayBounds()
	if err != nil {
		l.log.Debug().Err(err).Msg("Display query failed, skipping tick")
		return
	}

	if req := l.detector.Step(time.Now(), bounds, pointer); req != nil {
		l.log.Info().Int("x", req.X).Int("y", req.Y).Msg("Edge triggered, opening capture window")
		l.onOpen(*req)
	}
}
