package terminal

import (
	"unicode"
	"unicode/utf8"
)

var escSequences = map[string]string{
	"[A": "up",
	"[B": "down",
	"[C": "right",
	"[D": "left",
	"[H": "home",
	"[F": "end",
	"OA": "up",
	"OB": "down",
	"OC": "right",
	"OD": "left",
	"[5~": "pgup",
	"[6~": "pgdown",
	"[3~": "delete",
	"[1;5A": "ctrl+up",
	"[1;5B": "ctrl+down",
	"[1;5C": "ctrl+right",
	"[1;5D": "ctrl+left",
}

// DecodeKeys converts raw terminal input into key names. Printable
// characters map to themselves, and control keys map to names such as
// "enter", "esc" or "ctrl+c".
func DecodeKeys(b []byte) []string {
	keys := []string{}

	for len(b) > 0 {
		if b[0] == 0x1b {
			key, n := decodeEscape(b)
			if key != "" {
				keys = append(keys, key)
			}

			b = b[n:]

			continue
		}

		r, size := utf8.DecodeRune(b)
		b = b[size:]

		switch {
		case r == '\r', r == '\n':
			keys = append(keys, "enter")
		case r == '\t':
			keys = append(keys, "tab")
		case r == 0x7f, r == 0x08:
			keys = append(keys, "backspace")
		case r == 0:
			keys = append(keys, "ctrl+@")
		case r >= 0x01 && r <= 0x1a:
			keys = append(keys, "ctrl+"+string(rune('a'+r-1)))
		case r == ' ':
			keys = append(keys, "space")
		case r == utf8.RuneError:
			continue
		case unicode.IsPrint(r):
			keys = append(keys, string(r))
		}
	}

	return keys
}

// decodeEscape decodes the escape sequence at the start of b. Whole CSI and
// SS3 sequences are consumed; unknown ones decode to "" and are dropped.
func decodeEscape(b []byte) (string, int) {
	if len(b) == 1 {
		return "esc", 1
	}

	switch {
	case b[1] == '[':
		n := csiLen(b)

		return escSequences[string(b[1:n])], n

	case b[1] == 'O' && len(b) > 2:
		return escSequences[string(b[1:3])], 3
	}

	// Alt+key.
	r, size := utf8.DecodeRune(b[1:])
	if r != utf8.RuneError && unicode.IsPrint(r) {
		return "alt+" + string(r), 1 + size
	}

	return "esc", 1
}

// csiLen returns the length of the CSI sequence at the start of b, up to and
// including its final byte, or len(b) when the sequence is incomplete.
func csiLen(b []byte) int {
	for i := 2; i < len(b); i++ {
		switch c := b[i]; {
		case c >= 0x40 && c <= 0x7e:
			return i + 1
		case c < 0x20 || c > 0x3f:
			// Not a parameter or intermediate byte.
			return i
		}
	}

	return len(b)
}
