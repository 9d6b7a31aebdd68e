//go:build linux

package shortcut

import "golang.design/x/hotkey"

var modifierMap = map[string]hotkey.Modifier{
	ModCmdOrCtrl: hotkey.ModCtrl,
	ModShift:     hotkey.ModShift,
	ModAlt:       hotkey.Mod1,
	ModSuper:     hotkey.Mod4,
}
