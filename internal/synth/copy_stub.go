//go:build !darwin

package synth

import "fmt"

type stubSynthesizer struct{}

// New returns a synthesizer that always fails. Selection capture degrades
// to an empty result on platforms without a key-synthesis backend.
func New() Synthesizer {
	return stubSynthesizer{}
}

func (stubSynthesizer) Copy() error {
	return fmt.Errorf("key synthesis not supported on this platform")
}
