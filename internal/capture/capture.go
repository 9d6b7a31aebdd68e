// Package capture reads the active application's text selection by
// borrowing the system clipboard: save it, synthesize the copy chord,
// read the result, put the original back.
package capture

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"collector/internal/synth"
)

// DefaultSettleDelay is how long the foreground app gets to service the
// synthesized copy before the clipboard is read. It must cover at least
// the sum of the synthesis gaps; slower apps may still miss the window,
// which surfaces as an empty (or stale) capture.
const DefaultSettleDelay = 250 * time.Millisecond

// Sequencer performs the save/copy/read/restore protocol. Capture blocks
// for hundreds of milliseconds and must run on its own goroutine, never
// on the polling loop. Calls are serialized internally because they all
// contend for the one system clipboard.
type Sequencer struct {
	mu        sync.Mutex
	clip      Clipboard
	synth     synth.Synthesizer
	permitted func() bool
	settle    time.Duration
	log       zerolog.Logger
}

// NewSequencer builds a sequencer. permitted gates input synthesis (the
// accessibility check on macOS); settle <= 0 selects DefaultSettleDelay.
func NewSequencer(clip Clipboard, syn synth.Synthesizer, permitted func() bool, settle time.Duration, log zerolog.Logger) *Sequencer {
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	return &Sequencer{
		clip:      clip,
		synth:     syn,
		permitted: permitted,
		settle:    settle,
		log:       log,
	}
}

// Capture returns the foreground selection, or "" when there is nothing
// to capture. Missing permission, synthesis failure and an empty
// selection are deliberately indistinguishable here: all of them mean
// "open the surface with no prefilled text", never a hard failure.
//
// Whatever happens, the user's clipboard is restored to its pre-capture
// content before Capture returns.
func (s *Sequencer) Capture() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, err := s.clip.ReadText()
	hadPrevious := err == nil
	if err != nil {
		s.log.Debug().Err(err).Msg("Clipboard empty or unreadable before capture")
	}

	if !s.permitted() {
		s.log.Warn().Msg("Input synthesis not permitted, skipping selection capture")
		return ""
	}

	if err := s.synth.Copy(); err != nil {
		// The chord never reached the foreground app, so the clipboard is
		// untouched and there is nothing to restore.
		s.log.Warn().Err(err).Msg("Failed to synthesize copy shortcut")
		return ""
	}

	time.Sleep(s.settle)

	captured, err := s.clip.ReadText()
	if err != nil {
		s.log.Debug().Err(err).Msg("Clipboard unreadable after copy")
		captured = ""
	}

	if hadPrevious {
		if err := s.clip.WriteText(previous); err != nil {
			s.log.Warn().Err(err).Msg("Failed to restore clipboard")
		}
	}

	s.log.Info().Int("chars", len(captured)).Msg("Selection capture finished")
	return captured
}
