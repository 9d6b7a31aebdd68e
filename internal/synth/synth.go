// Package synth emits synthetic keystrokes for the platform copy
// combination. The capture sequencer depends only on the Synthesizer
// interface so tests can observe the protocol without touching the OS.
package synth

// Synthesizer posts the platform's "copy" key sequence to the foreground
// application. Implementations sleep between the individual key events so
// the target app's input handling sees discrete presses; Copy therefore
// blocks for some tens of milliseconds and must not run on a
// latency-sensitive goroutine.
type Synthesizer interface {
	Copy() error
}
