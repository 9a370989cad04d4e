package editor

import (
	"context"
	"strings"

	"github.com/zjrosen/edit/internal/input"
	"github.com/zjrosen/edit/internal/textcodec"
)

// fakeTerminal records frames in a cell grid and replays scripted events.
// When the script runs out it answers with Ctrl-Q.
type fakeTerminal struct {
	rows, cols int

	rawErr   error
	mouseErr error
	sizeErr  error
	readErr  error

	events []input.RawEvent
	// beforeRead runs ahead of every read; it may cancel the context.
	beforeRead func()

	grid      [][]rune
	styles    [][]Style
	cursorRow int
	cursorCol int
	flushes   int
	reads     int
}

func newFakeTerminal(rows, cols int, events ...input.RawEvent) *fakeTerminal {
	return &fakeTerminal{rows: rows, cols: cols, events: events}
}

func (f *fakeTerminal) Size() (int, int, error) {
	if f.sizeErr != nil {
		return 0, 0, f.sizeErr
	}
	return f.rows, f.cols, nil
}

func (f *fakeTerminal) SetRawMode() error           { return f.rawErr }
func (f *fakeTerminal) EnableMouseReporting() error { return f.mouseErr }

func (f *fakeTerminal) Clear() {
	f.grid = make([][]rune, f.rows)
	f.styles = make([][]Style, f.rows)
	for i := range f.grid {
		f.grid[i] = []rune(strings.Repeat(" ", f.cols))
		f.styles[i] = make([]Style, f.cols)
	}
}

func (f *fakeTerminal) DrawCellsAt(row, col int, text []byte, style Style) {
	if row < 0 || row >= len(f.grid) {
		return
	}
	for i := 0; i < len(text); i = textcodec.NextBoundary(text, i) {
		r, _ := textcodec.DecodeAt(text, i)
		w := textcodec.WidthOf(r)
		if col+w > f.cols {
			return
		}
		f.grid[row][col] = r
		f.styles[row][col] = style
		if w == 2 {
			f.grid[row][col+1] = 0
		}
		col += w
	}
}

func (f *fakeTerminal) MoveCursorTo(row, col int) {
	f.cursorRow, f.cursorCol = row, col
}

func (f *fakeTerminal) Flush() error {
	f.flushes++
	return nil
}

func (f *fakeTerminal) ReadRawEvent(ctx context.Context) (input.RawEvent, error) {
	f.reads++
	if f.beforeRead != nil {
		f.beforeRead()
	}
	if err := ctx.Err(); err != nil {
		return input.RawEvent{}, err
	}
	if f.readErr != nil {
		return input.RawEvent{}, f.readErr
	}
	if len(f.events) == 0 {
		return input.KeyRune(0x11), nil
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

// row returns the text drawn on a screen row with trailing blanks removed.
func (f *fakeTerminal) row(i int) string {
	var sb strings.Builder
	for _, r := range f.grid[i] {
		if r != 0 {
			sb.WriteRune(r)
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func keys(s string) []input.RawEvent {
	var out []input.RawEvent
	for _, r := range s {
		out = append(out, input.KeyRune(r))
	}
	return out
}
