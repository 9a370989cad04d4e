package terminal

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/edit/internal/input"
	"github.com/zjrosen/edit/internal/keys"
)

// bridge is the tea.Model that forwards terminal input to the editor.
type bridge struct {
	t *Tea
}

func (b bridge) Init() tea.Cmd {
	return nil
}

func (b bridge) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.t.resize(msg.Height, msg.Width)
		b.t.push(input.RawEvent{Kind: input.RawResize})
	case tea.KeyMsg:
		for _, ev := range translateKey(msg) {
			b.t.push(ev)
		}
	case tea.MouseMsg:
		if ev, ok := translateMouse(msg); ok {
			b.t.push(ev)
		}
	case wakeMsg:
		b.t.push(input.RawEvent{Kind: input.RawWake})
	case enableMouseMsg:
		return b, tea.EnableMouseCellMotion
	}
	return b, nil
}

func (b bridge) View() string {
	return b.t.view()
}

// translateKey maps a key message to raw events. Named keys become key
// codes, typed text becomes one event per codepoint and control keys arrive
// as their control codepoint.
func translateKey(msg tea.KeyMsg) []input.RawEvent {
	if code := keys.Editor.Code(msg); code != input.CodeNone {
		return []input.RawEvent{input.KeyCodeEvent(code)}
	}

	switch msg.Type {
	case tea.KeyRunes:
		events := make([]input.RawEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, input.KeyRune(r))
		}
		return events
	case tea.KeySpace:
		return []input.RawEvent{input.KeyRune(' ')}
	}

	if (msg.Type >= tea.KeyNull && msg.Type <= tea.KeyCtrlUnderscore) || msg.Type == tea.KeyBackspace {
		return []input.RawEvent{input.KeyRune(rune(msg.Type))}
	}
	return nil
}

var mouseButtons = map[tea.MouseButton]input.MouseButton{
	tea.MouseButtonLeft:      input.ButtonLeft,
	tea.MouseButtonMiddle:    input.ButtonMiddle,
	tea.MouseButtonRight:     input.ButtonRight,
	tea.MouseButtonWheelUp:   input.ButtonWheelUp,
	tea.MouseButtonWheelDown: input.ButtonWheelDown,
}

func translateMouse(msg tea.MouseMsg) (input.RawEvent, bool) {
	button, ok := mouseButtons[msg.Button]
	if !ok {
		return input.RawEvent{}, false
	}
	return input.RawEvent{
		Kind:   input.RawMouse,
		Button: button,
		Press:  msg.Action == tea.MouseActionPress,
		Row:    msg.Y,
		Col:    msg.X,
	}, true
}
