// Package keys contains keybinding definitions.
package keys

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/edit/internal/input"
)

// KeyMap defines the named keys the editor understands. Printable keys and
// control codes are not bound here; they reach the decoder as codepoints.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Editing
	Delete    key.Binding
	Backspace key.Binding

	// General
	Quit key.Binding
}

// Editor is the default keymap.
var Editor = DefaultKeyMap()

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "line up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "line down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "back"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "forward"),
		),
		Home: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "line start"),
		),
		End: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "line end"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Delete: key.NewBinding(
			key.WithKeys("delete"),
			key.WithHelp("del", "delete forward"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("bksp", "delete back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "esc"),
			key.WithHelp("^Q", "save & quit"),
		),
	}
}

// ShortHelp returns keybindings for the status line hint.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// Code returns the raw key code bound to msg, or input.CodeNone when msg is
// not a named key.
func (k KeyMap) Code(msg tea.KeyMsg) input.KeyCode {
	switch {
	case key.Matches(msg, k.Up):
		return input.CodeUp
	case key.Matches(msg, k.Down):
		return input.CodeDown
	case key.Matches(msg, k.Left):
		return input.CodeLeft
	case key.Matches(msg, k.Right):
		return input.CodeRight
	case key.Matches(msg, k.Home):
		return input.CodeHome
	case key.Matches(msg, k.End):
		return input.CodeEnd
	case key.Matches(msg, k.PageUp):
		return input.CodePageUp
	case key.Matches(msg, k.PageDown):
		return input.CodePageDown
	case key.Matches(msg, k.Delete):
		return input.CodeDelete
	case key.Matches(msg, k.Backspace):
		return input.CodeBackspace
	}
	return input.CodeNone
}

// HelpText renders bindings as "key desc" pairs separated by two spaces.
func HelpText(bindings ...key.Binding) string {
	out := ""
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		if out != "" {
			out += "  "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}
