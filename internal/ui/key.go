package ui

import (
	"strings"

	"github.com/derailed/tcell/v2"
)

// Rune keys are mapped onto tcell.Key values so they can share a KeyMap with
// named keys. The values sit below tcell.KeyRune and above the control keys.
const (
	KeySpace tcell.Key = 32
	KeySlash tcell.Key = 47
	KeyColon tcell.Key = 58
	KeyHelp  tcell.Key = 63
	KeyLess  tcell.Key = 60
	KeyMore  tcell.Key = 62
)

// Digit keys.
const (
	Key0 tcell.Key = iota + 48
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
)

// Lower case letter keys.
const (
	KeyA tcell.Key = iota + 97
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

// Upper case letter keys.
const (
	KeyShiftA tcell.Key = iota + 65
	KeyShiftB
	KeyShiftC
	KeyShiftD
	KeyShiftE
	KeyShiftF
	KeyShiftG
	KeyShiftH
	KeyShiftI
	KeyShiftJ
	KeyShiftK
	KeyShiftL
	KeyShiftM
	KeyShiftN
	KeyShiftO
	KeyShiftP
	KeyShiftQ
	KeyShiftR
	KeyShiftS
	KeyShiftT
	KeyShiftU
	KeyShiftV
	KeyShiftW
	KeyShiftX
	KeyShiftY
	KeyShiftZ
)

var namedKeys = map[tcell.Key]string{
	KeySpace:            "space",
	KeySlash:            "/",
	KeyColon:            ":",
	KeyHelp:             "?",
	KeyLess:             "<",
	KeyMore:             ">",
	tcell.KeyEnter:      "enter",
	tcell.KeyEsc:        "esc",
	tcell.KeyTab:        "tab",
	tcell.KeyDelete:     "del",
	tcell.KeyBackspace2: "bksp",
}

// AsKey maps a key event onto the key used in KeyMaps.
func AsKey(evt *tcell.EventKey) tcell.Key {
	if evt.Key() != tcell.KeyRune {
		return evt.Key()
	}
	return tcell.Key(evt.Rune())
}

// KeyName returns the display name of a key.
func KeyName(k tcell.Key) string {
	if n, ok := namedKeys[k]; ok {
		return n
	}
	switch {
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return "ctrl-" + string(rune('a'+k-tcell.KeyCtrlA))
	case k > KeySpace && k < 127:
		return string(rune(k))
	}
	if n, ok := tcell.KeyNames[k]; ok {
		return strings.ToLower(n)
	}
	return "?"
}

// ParseKey maps a shortcut such as "a", "A", "ctrl-s" or "enter" to a key.
func ParseKey(s string) (tcell.Key, bool) {
	if s == "" {
		return 0, false
	}
	for k, n := range namedKeys {
		if strings.EqualFold(n, s) {
			return k, true
		}
	}
	if l := strings.ToLower(s); strings.HasPrefix(l, "ctrl-") && len(l) == 6 {
		c := l[5]
		if c >= 'a' && c <= 'z' {
			return tcell.KeyCtrlA + tcell.Key(c-'a'), true
		}
	}
	if r := []rune(s); len(r) == 1 && r[0] > ' ' && r[0] < 127 {
		return tcell.Key(r[0]), true
	}

	return 0, false
}
