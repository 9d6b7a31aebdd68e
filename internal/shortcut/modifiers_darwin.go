//go:build darwin

package shortcut

import "golang.design/x/hotkey"

// The cross-platform primary modifier lands on Cmd here; Super has no
// separate carrier on macOS and maps to Cmd as well.
var modifierMap = map[string]hotkey.Modifier{
	ModCmdOrCtrl: hotkey.ModCmd,
	ModShift:     hotkey.ModShift,
	ModAlt:       hotkey.ModOption,
	ModSuper:     hotkey.ModCmd,
}
