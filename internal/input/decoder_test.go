package input

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDecode_Keys(t *testing.T) {
	tests := []struct {
		name string
		raw  RawEvent
		want Event
	}{
		{"ascii", KeyRune('a'), Event{Kind: Char, Rune: 'a'}},
		{"space", KeyRune(' '), Event{Kind: Char, Rune: ' '}},
		{"cjk", KeyRune('世'), Event{Kind: Char, Rune: '世'}},
		{"tab", KeyRune('\t'), Event{Kind: Char, Rune: '\t'}},
		{"carriage return", KeyRune('\r'), Event{Kind: Enter}},
		{"line feed", KeyRune('\n'), Event{Kind: Enter}},
		{"del", KeyRune(0x7f), Event{Kind: Backspace}},
		{"ctrl-h", KeyRune(0x08), Event{Kind: Backspace}},
		{"ctrl-q", KeyRune(0x11), Event{Kind: Quit}},
		{"escape", KeyRune(0x1b), Event{Kind: Quit}},
		{"ctrl-a", KeyRune(0x01), Event{Kind: Unknown}},
		{"nul", KeyRune(0), Event{Kind: Unknown}},
		{"up", KeyCodeEvent(CodeUp), Event{Kind: ArrowUp}},
		{"down", KeyCodeEvent(CodeDown), Event{Kind: ArrowDown}},
		{"left", KeyCodeEvent(CodeLeft), Event{Kind: ArrowLeft}},
		{"right", KeyCodeEvent(CodeRight), Event{Kind: ArrowRight}},
		{"home", KeyCodeEvent(CodeHome), Event{Kind: Home}},
		{"end", KeyCodeEvent(CodeEnd), Event{Kind: End}},
		{"page up", KeyCodeEvent(CodePageUp), Event{Kind: PageUp}},
		{"page down", KeyCodeEvent(CodePageDown), Event{Kind: PageDown}},
		{"delete", KeyCodeEvent(CodeDelete), Event{Kind: Delete}},
		{"backspace code", KeyCodeEvent(CodeBackspace), Event{Kind: Backspace}},
		{"bogus code", KeyCodeEvent(KeyCode(99)), Event{Kind: Unknown}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Decode(tt.raw))
		})
	}
}

func TestDecode_Mouse(t *testing.T) {
	require.Equal(t, Event{Kind: MouseClick, Row: 3, Col: 9}, Decode(MousePress(ButtonLeft, 3, 9)))
	require.Equal(t, Event{Kind: Unknown}, Decode(MousePress(ButtonRight, 3, 9)))

	release := MousePress(ButtonLeft, 1, 1)
	release.Press = false
	require.Equal(t, Event{Kind: Unknown}, Decode(release))
}

func TestDecode_ResizeWakeAndUnknownKind(t *testing.T) {
	require.Equal(t, Unknown, Decode(RawEvent{Kind: RawResize}).Kind)
	require.Equal(t, Unknown, Decode(RawEvent{Kind: RawWake}).Kind)
	require.Equal(t, Unknown, Decode(RawEvent{Kind: RawKind(42)}).Kind)
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "MouseClick", MouseClick.String())
	require.Equal(t, "Unknown", Kind(-1).String())
}

func TestProperty_DecodeIsTotal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		raw := RawEvent{
			Kind:   RawKind(rapid.IntRange(-1, 5).Draw(rt, "kind")),
			Code:   KeyCode(rapid.IntRange(-1, 12).Draw(rt, "code")),
			Rune:   rapid.Int32().Draw(rt, "rune"),
			Row:    rapid.Int().Draw(rt, "row"),
			Col:    rapid.Int().Draw(rt, "col"),
			Button: MouseButton(rapid.IntRange(0, 6).Draw(rt, "button")),
			Press:  rapid.Bool().Draw(rt, "press"),
		}
		ev := Decode(raw)
		if ev.Kind == Char && ev.Rune < 0x20 && ev.Rune != '\t' {
			rt.Fatalf("control codepoint %d decoded as Char", ev.Rune)
		}
	})
}
