//go:build !darwin

package permissions

// CheckAccessibility always succeeds on platforms without an approval
// system; the synthesizer itself decides whether capture is possible.
func CheckAccessibility() bool {
	return true
}

// PromptAccessibility is a no-op outside macOS.
func PromptAccessibility() bool {
	return true
}
