package input

import "github.com/zjrosen/edit/internal/log"

const (
	ctrlH  = 0x08
	ctrlQ  = 0x11
	escape = 0x1b
	del    = 0x7f
)

var codeKinds = map[KeyCode]Kind{
	CodeUp:        ArrowUp,
	CodeDown:      ArrowDown,
	CodeLeft:      ArrowLeft,
	CodeRight:     ArrowRight,
	CodeHome:      Home,
	CodeEnd:       End,
	CodePageUp:    PageUp,
	CodePageDown:  PageDown,
	CodeDelete:    Delete,
	CodeBackspace: Backspace,
}

// Decode maps a raw event to a logical one. It is total: anything it does
// not recognize becomes Unknown.
func Decode(raw RawEvent) Event {
	switch raw.Kind {
	case RawKey:
		return decodeKey(raw)
	case RawMouse:
		if raw.Press && raw.Button == ButtonLeft {
			return Event{Kind: MouseClick, Row: raw.Row, Col: raw.Col}
		}
		return Event{Kind: Unknown}
	case RawResize, RawWake:
		// Nothing to dispatch; the loop redraws at the new size anyway.
		return Event{Kind: Unknown}
	}
	log.Debug(log.CatInput, "Unrecognized raw event", "kind", int(raw.Kind))
	return Event{Kind: Unknown}
}

func decodeKey(raw RawEvent) Event {
	if raw.Code != CodeNone {
		if k, ok := codeKinds[raw.Code]; ok {
			return Event{Kind: k}
		}
		return Event{Kind: Unknown}
	}

	r := raw.Rune
	switch {
	case r == del || r == ctrlH:
		return Event{Kind: Backspace}
	case r == '\r' || r == '\n':
		return Event{Kind: Enter}
	case r == ctrlQ || r == escape:
		return Event{Kind: Quit}
	case r == '\t' || r >= 0x20:
		return Event{Kind: Char, Rune: r}
	}
	return Event{Kind: Unknown}
}
