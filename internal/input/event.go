// Package input turns raw terminal events into the logical events the
// editor loop acts on.
package input

// RawKind is the category of a raw terminal event.
type RawKind int

const (
	RawKey RawKind = iota
	RawMouse
	RawResize
	// RawWake is delivered when the terminal is woken without input.
	RawWake
)

// KeyCode names a key that has no codepoint of its own.
type KeyCode int

const (
	CodeNone KeyCode = iota
	CodeUp
	CodeDown
	CodeLeft
	CodeRight
	CodeHome
	CodeEnd
	CodePageUp
	CodePageDown
	CodeDelete
	CodeBackspace
)

// MouseButton identifies the button in a mouse event.
type MouseButton int

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonWheelUp
	ButtonWheelDown
)

// RawEvent is one event as delivered by the terminal. Key events carry
// either a Code or a Rune; control keys arrive as their control codepoint
// (Ctrl-Q is 17, Enter is '\r').
type RawEvent struct {
	Kind RawKind

	Code KeyCode
	Rune rune

	Row    int
	Col    int
	Button MouseButton
	Press  bool
}

// KeyRune builds a key event for a codepoint.
func KeyRune(r rune) RawEvent {
	return RawEvent{Kind: RawKey, Rune: r}
}

// KeyCodeEvent builds a key event for a named key.
func KeyCodeEvent(c KeyCode) RawEvent {
	return RawEvent{Kind: RawKey, Code: c}
}

// MousePress builds a button press at a screen cell.
func MousePress(b MouseButton, row, col int) RawEvent {
	return RawEvent{Kind: RawMouse, Button: b, Press: true, Row: row, Col: col}
}

// Kind is the category of a logical event.
type Kind int

const (
	Unknown Kind = iota
	Char
	Enter
	Backspace
	Delete
	ArrowUp
	ArrowDown
	ArrowLeft
	ArrowRight
	Home
	End
	PageUp
	PageDown
	MouseClick
	Quit
)

var kindNames = map[Kind]string{
	Unknown:    "Unknown",
	Char:       "Char",
	Enter:      "Enter",
	Backspace:  "Backspace",
	Delete:     "Delete",
	ArrowUp:    "ArrowUp",
	ArrowDown:  "ArrowDown",
	ArrowLeft:  "ArrowLeft",
	ArrowRight: "ArrowRight",
	Home:       "Home",
	End:        "End",
	PageUp:     "PageUp",
	PageDown:   "PageDown",
	MouseClick: "MouseClick",
	Quit:       "Quit",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Event is a logical editor event. Rune is set for Char, Row and Col for
// MouseClick.
type Event struct {
	Kind Kind
	Rune rune
	Row  int
	Col  int
}
