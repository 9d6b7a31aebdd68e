// Package shortcut manages system-wide key combinations. Each hotkey role
// (open capture, capture text, save as note) owns an independent Manager
// holding at most one live OS registration.
package shortcut

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSyntax rejects combinations that don't parse against the
// accepted grammar: Modifier(+Modifier)*+Key.
var ErrInvalidSyntax = errors.New("invalid shortcut syntax")

// Canonical modifier tokens. Cmd, Command, Ctrl and Control all collapse
// into CmdOrCtrl so one stored combination works across platforms.
const (
	ModCmdOrCtrl = "CmdOrCtrl"
	ModShift     = "Shift"
	ModAlt       = "Alt"
	ModSuper     = "Super"
)

// modOrder fixes the canonical modifier ordering so that equal
// combinations written in different orders compare equal as strings.
var modOrder = map[string]int{
	ModCmdOrCtrl: 0,
	ModShift:     1,
	ModAlt:       2,
	ModSuper:     3,
}

var modAliases = map[string]string{
	"cmd":     ModCmdOrCtrl,
	"command": ModCmdOrCtrl,
	"ctrl":    ModCmdOrCtrl,
	"control": ModCmdOrCtrl,
	"cmdorctrl":        ModCmdOrCtrl,
	"commandorcontrol": ModCmdOrCtrl,
	"shift":  ModShift,
	"alt":    ModAlt,
	"option": ModAlt,
	"opt":    ModAlt,
	"super":  ModSuper,
	"win":    ModSuper,
	"meta":   ModSuper,
}

var namedKeys = map[string]string{
	"space":     "Space",
	"tab":       "Tab",
	"enter":     "Enter",
	"return":    "Enter",
	"escape":    "Escape",
	"esc":       "Escape",
	"backspace": "Backspace",
	"delete":    "Delete",
	"del":       "Delete",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
	"home":      "Home",
	"end":       "End",
	"pageup":    "PageUp",
	"pgup":      "PageUp",
	"pagedown":  "PageDown",
	"pgdn":      "PageDown",
}

// Combo is a parsed, canonical key combination.
type Combo struct {
	Mods []string
	Key  string
}

// String renders the canonical wire form, e.g. "CmdOrCtrl+Shift+C".
func (c Combo) String() string {
	if c.Key == "" {
		return ""
	}
	return strings.Join(append(append([]string{}, c.Mods...), c.Key), "+")
}

// Parse tokenizes and canonicalizes a combination string. It is case- and
// separator-tolerant ("cmd+n", "Command-N" and "CTRL + n" are the same
// combination). An empty or blank string parses to the zero Combo, which
// means "disabled". Any unrecognized token is ErrInvalidSyntax.
func Parse(raw string) (Combo, error) {
	if strings.TrimSpace(raw) == "" {
		return Combo{}, nil
	}

	tokens := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '+' || r == '-' || r == ' '
	})

	var c Combo
	seen := map[string]bool{}
	for _, tok := range tokens {
		lower := strings.ToLower(strings.TrimSpace(tok))
		if lower == "" {
			continue
		}

		if mod, ok := modAliases[lower]; ok {
			if !seen[mod] {
				seen[mod] = true
				c.Mods = append(c.Mods, mod)
			}
			continue
		}

		key, ok := canonicalKey(lower)
		if !ok {
			return Combo{}, fmt.Errorf("%w: unknown token %q", ErrInvalidSyntax, tok)
		}
		if c.Key != "" {
			return Combo{}, fmt.Errorf("%w: more than one key in %q", ErrInvalidSyntax, raw)
		}
		c.Key = key
	}

	if len(c.Mods) == 0 {
		return Combo{}, fmt.Errorf("%w: at least one modifier required", ErrInvalidSyntax)
	}
	if c.Key == "" {
		return Combo{}, fmt.Errorf("%w: missing key", ErrInvalidSyntax)
	}

	sortMods(c.Mods)
	return c, nil
}

// Normalize returns the canonical form of a combination, or the input
// unchanged when it does not parse. Display code uses this; binding goes
// through Parse so errors surface.
func Normalize(raw string) string {
	c, err := Parse(raw)
	if err != nil {
		return raw
	}
	return c.String()
}

// Validate reports whether the combination is syntactically acceptable.
// Empty strings are valid (explicit "disabled").
func Validate(raw string) error {
	_, err := Parse(raw)
	return err
}

func canonicalKey(lower string) (string, bool) {
	if len(lower) == 1 {
		r := lower[0]
		if r >= 'a' && r <= 'z' {
			return strings.ToUpper(lower), true
		}
		if r >= '0' && r <= '9' {
			return lower, true
		}
		return "", false
	}

	if named, ok := namedKeys[lower]; ok {
		return named, true
	}

	// Function keys F1..F24.
	if strings.HasPrefix(lower, "f") {
		n := lower[1:]
		if len(n) >= 1 && len(n) <= 2 {
			valid := true
			for _, d := range n {
				if d < '0' || d > '9' {
					valid = false
				}
			}
			if valid && n != "0" && !(len(n) == 2 && n[0] == '0') {
				if v := atoiOr(n, 0); v >= 1 && v <= 24 {
					return "F" + n, true
				}
			}
		}
	}

	return "", false
}

func atoiOr(s string, def int) int {
	n := 0
	for _, d := range s {
		if d < '0' || d > '9' {
			return def
		}
		n = n*10 + int(d-'0')
	}
	return n
}

func sortMods(mods []string) {
	for i := 1; i < len(mods); i++ {
		for j := i; j > 0 && modOrder[mods[j]] < modOrder[mods[j-1]]; j-- {
			mods[j], mods[j-1] = mods[j-1], mods[j]
		}
	}
}
