//go:build windows

package shortcut

import "golang.design/x/hotkey"

var modifierMap = map[string]hotkey.Modifier{
	ModCmdOrCtrl: hotkey.ModCtrl,
	ModShift:     hotkey.ModShift,
	ModAlt:       hotkey.ModAlt,
	ModSuper:     hotkey.ModWin,
}
