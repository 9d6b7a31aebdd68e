package capture

import "github.com/atotto/clipboard"

// Clipboard is the system clipboard port. There is exactly one real
// clipboard per machine; the Sequencer serializes access to it.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

type systemClipboard struct{}

// NewSystemClipboard returns the OS-backed clipboard.
func NewSystemClipboard() Clipboard {
	return systemClipboard{}
}

func (systemClipboard) ReadText() (string, error) {
	return clipboard.ReadAll()
}

func (systemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
