package shortcut

import (
	"fmt"

	"golang.design/x/hotkey"
)

// osRegistrar grabs hotkeys through golang.design/x/hotkey. Modifier
// translation is platform-specific (see modifiers_*.go); key translation
// shares one table because the library exposes uniform key names.
type osRegistrar struct{}

// NewOSRegistrar returns the real system-wide registrar.
func NewOSRegistrar() Registrar {
	return osRegistrar{}
}

var keyMap = map[string]hotkey.Key{
	"A": hotkey.KeyA, "B": hotkey.KeyB, "C": hotkey.KeyC, "D": hotkey.KeyD,
	"E": hotkey.KeyE, "F": hotkey.KeyF, "G": hotkey.KeyG, "H": hotkey.KeyH,
	"I": hotkey.KeyI, "J": hotkey.KeyJ, "K": hotkey.KeyK, "L": hotkey.KeyL,
	"M": hotkey.KeyM, "N": hotkey.KeyN, "O": hotkey.KeyO, "P": hotkey.KeyP,
	"Q": hotkey.KeyQ, "R": hotkey.KeyR, "S": hotkey.KeyS, "T": hotkey.KeyT,
	"U": hotkey.KeyU, "V": hotkey.KeyV, "W": hotkey.KeyW, "X": hotkey.KeyX,
	"Y": hotkey.KeyY, "Z": hotkey.KeyZ,

	"0": hotkey.Key0, "1": hotkey.Key1, "2": hotkey.Key2, "3": hotkey.Key3,
	"4": hotkey.Key4, "5": hotkey.Key5, "6": hotkey.Key6, "7": hotkey.Key7,
	"8": hotkey.Key8, "9": hotkey.Key9,

	"F1": hotkey.KeyF1, "F2": hotkey.KeyF2, "F3": hotkey.KeyF3,
	"F4": hotkey.KeyF4, "F5": hotkey.KeyF5, "F6": hotkey.KeyF6,
	"F7": hotkey.KeyF7, "F8": hotkey.KeyF8, "F9": hotkey.KeyF9,
	"F10": hotkey.KeyF10, "F11": hotkey.KeyF11, "F12": hotkey.KeyF12,

	"Space":  hotkey.KeySpace,
	"Tab":    hotkey.KeyTab,
	"Enter":  hotkey.KeyReturn,
	"Escape": hotkey.KeyEscape,
	"Delete": hotkey.KeyDelete,
	"Up":     hotkey.KeyUp,
	"Down":   hotkey.KeyDown,
	"Left":   hotkey.KeyLeft,
	"Right":  hotkey.KeyRight,
}

func (osRegistrar) Register(combo Combo, onPress func()) (Registration, error) {
	var mods []hotkey.Modifier
	for _, m := range combo.Mods {
		hm, ok := modifierMap[m]
		if !ok {
			return nil, fmt.Errorf("modifier %s not supported on this platform", m)
		}
		mods = append(mods, hm)
	}

	key, ok := keyMap[combo.Key]
	if !ok {
		return nil, fmt.Errorf("key %s not supported on this platform", combo.Key)
	}

	hk := hotkey.New(mods, key)
	if err := hk.Register(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-hk.Keydown():
				onPress()
			}
		}
	}()

	return &osRegistration{hk: hk, done: done}, nil
}

type osRegistration struct {
	hk   *hotkey.Hotkey
	done chan struct{}
}

func (r *osRegistration) Unregister() error {
	close(r.done)
	return r.hk.Unregister()
}
