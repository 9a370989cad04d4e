// Package terminal implements the editor's Terminal on top of Bubble Tea.
//
// The tea program only moves bytes: its model forwards input to a channel
// and shows whatever frame the editor last flushed. All editing decisions
// stay in the editor's own loop.
package terminal

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/zjrosen/edit/internal/editor"
	"github.com/zjrosen/edit/internal/input"
	"github.com/zjrosen/edit/internal/log"
	"github.com/zjrosen/edit/internal/textcodec"
)

// ErrClosed is returned once the tea program has exited.
var ErrClosed = errors.New("terminal closed")

// ErrNoSize is returned by Size before the first window size report.
var ErrNoSize = errors.New("terminal size unknown")

const eventBuffer = 64

var _ editor.Terminal = (*Tea)(nil)

type (
	frameMsg       struct{}
	wakeMsg        struct{}
	enableMouseMsg struct{}
)

// cell is one screen cell. A wide codepoint owns the cell it starts in; the
// cell after it is marked as a continuation and not printed.
type cell struct {
	text  string
	style editor.Style
	cont  bool
}

// Tea is a Terminal backed by a Bubble Tea program.
type Tea struct {
	program *tea.Program
	events  chan input.RawEvent
	repaint chan struct{}
	done    chan struct{}
	closing chan struct{}
	sized   chan struct{}
	running atomic.Bool

	sizeOnce  sync.Once
	closeOnce sync.Once
	mu       sync.Mutex
	rows     int
	cols     int
	frame    string
	runErr   error

	// Owned by the editor goroutine.
	grid      [][]cell
	cursorRow int
	cursorCol int

	renderer *lipgloss.Renderer
	dim      lipgloss.Style
	cursor   lipgloss.Style
}

// Option configures a Tea terminal.
type Option func(*options)

type options struct {
	in      io.Reader
	out     io.Writer
	profile *termenv.Profile
}

// WithInput sets the input stream. Defaults to stdin.
func WithInput(r io.Reader) Option {
	return func(o *options) { o.in = r }
}

// WithOutput sets the output stream. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithColorProfile pins the color profile instead of detecting it.
func WithColorProfile(p termenv.Profile) Option {
	return func(o *options) { o.profile = &p }
}

// New creates the terminal. The program is not started until SetRawMode.
func New(opts ...Option) *Tea {
	o := options{in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	r := lipgloss.NewRenderer(o.out)
	if o.profile != nil {
		r.SetColorProfile(*o.profile)
	}

	t := &Tea{
		events:   make(chan input.RawEvent, eventBuffer),
		repaint:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		closing:  make(chan struct{}),
		sized:    make(chan struct{}),
		renderer: r,
		dim:      r.NewStyle().Faint(true),
		cursor:   r.NewStyle().Reverse(true),
	}
	t.program = tea.NewProgram(
		bridge{t: t},
		tea.WithInput(o.in),
		tea.WithOutput(o.out),
		tea.WithAltScreen(),
		// Signals are turned into context cancellation by the caller.
		tea.WithoutSignalHandler(),
	)
	return t
}

// SetRawMode starts the tea program, which puts the terminal in raw mode
// on the alternate screen, and waits for the first size report.
func (t *Tea) SetRawMode() error {
	if t.running.Swap(true) {
		return nil
	}
	go func() {
		_, err := t.program.Run()
		t.mu.Lock()
		t.runErr = err
		t.mu.Unlock()
		t.running.Store(false)
		close(t.done)
	}()
	go t.repaintLoop()

	select {
	case <-t.sized:
		log.Debug(log.CatTerm, "Terminal ready")
		return nil
	case <-t.done:
		return t.exitErr()
	}
}

// EnableMouseReporting turns on cell-motion mouse events.
func (t *Tea) EnableMouseReporting() error {
	return t.send(enableMouseMsg{})
}

// Size returns the last reported window size.
func (t *Tea) Size() (int, int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rows <= 0 || t.cols <= 0 {
		return 0, 0, ErrNoSize
	}
	return t.rows, t.cols, nil
}

// Clear starts a new blank frame at the current size.
func (t *Tea) Clear() {
	rows, cols, err := t.Size()
	if err != nil {
		rows, cols = 0, 0
	}
	t.grid = make([][]cell, rows)
	for i := range t.grid {
		row := make([]cell, cols)
		for j := range row {
			row[j] = cell{text: " "}
		}
		t.grid[i] = row
	}
}

// DrawCellsAt writes text into the frame starting at (row, col). Text that
// runs past the right edge is clipped; a wide codepoint that does not fit
// is dropped.
func (t *Tea) DrawCellsAt(row, col int, text []byte, style editor.Style) {
	if row < 0 || row >= len(t.grid) {
		return
	}
	line := t.grid[row]
	prev := -1
	// Stepping by boundary folds stray continuation bytes into the codepoint
	// before them, as the width math does.
	for i := 0; i < len(text); i = textcodec.NextBoundary(text, i) {
		r, _ := textcodec.DecodeAt(text, i)
		w := textcodec.WidthOf(r)

		if w == 0 {
			// Combining marks join the cell before them.
			if prev >= 0 {
				line[prev].text += string(r)
			}
			continue
		}
		if col < 0 || col+w > len(line) {
			return
		}
		line[col] = cell{text: string(r), style: style}
		if w == 2 {
			line[col+1] = cell{cont: true, style: style}
		}
		prev = col
		col += w
	}
}

// MoveCursorTo places the cursor for the next frame.
func (t *Tea) MoveCursorTo(row, col int) {
	t.cursorRow, t.cursorCol = row, col
}

// Flush publishes the frame and asks the program to repaint. It never
// blocks on the program: the tea goroutine may itself be waiting for the
// editor to take an event.
func (t *Tea) Flush() error {
	select {
	case <-t.done:
		return t.exitErr()
	default:
	}
	frame := t.renderFrame()
	t.mu.Lock()
	t.frame = frame
	t.mu.Unlock()

	select {
	case t.repaint <- struct{}{}:
	default:
	}
	return nil
}

// repaintLoop coalesces repaint requests into frame messages.
func (t *Tea) repaintLoop() {
	for {
		select {
		case <-t.repaint:
			t.program.Send(frameMsg{})
		case <-t.done:
			return
		}
	}
}

// ReadRawEvent returns the next input event.
func (t *Tea) ReadRawEvent(ctx context.Context) (input.RawEvent, error) {
	select {
	case ev := <-t.events:
		return ev, nil
	case <-ctx.Done():
		return input.RawEvent{}, ctx.Err()
	case <-t.done:
		return input.RawEvent{}, t.exitErr()
	}
}

// Wake makes a pending ReadRawEvent return a RawWake event.
func (t *Tea) Wake() {
	_ = t.send(wakeMsg{})
}

// Close stops the program and restores the terminal. Input still queued
// for the editor is dropped.
func (t *Tea) Close() error {
	t.closeOnce.Do(func() { close(t.closing) })
	if !t.running.Load() {
		return nil
	}
	t.program.Quit()
	<-t.done
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runErr
}

func (t *Tea) send(msg tea.Msg) error {
	select {
	case <-t.done:
		return t.exitErr()
	default:
	}
	if !t.running.Load() {
		return nil
	}
	// Send returns once the program has received the message or exited.
	t.program.Send(msg)
	return nil
}

func (t *Tea) exitErr() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.runErr != nil {
		return errors.Join(ErrClosed, t.runErr)
	}
	return ErrClosed
}

// push hands an event to the editor. It gives up once Close has been called
// or the program is done, since nothing reads events after that.
func (t *Tea) push(ev input.RawEvent) {
	select {
	case t.events <- ev:
	case <-t.closing:
	case <-t.done:
	}
}

func (t *Tea) resize(rows, cols int) {
	t.mu.Lock()
	t.rows, t.cols = rows, cols
	t.mu.Unlock()
	t.sizeOnce.Do(func() { close(t.sized) })
}

func (t *Tea) view() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frame
}

// renderFrame turns the grid into styled text, one line per row. Runs of
// equally styled cells are rendered together.
func (t *Tea) renderFrame() string {
	lines := make([]string, len(t.grid))
	for y, row := range t.grid {
		var sb strings.Builder
		var run strings.Builder
		runStyle := editor.StyleNormal
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sb.WriteString(t.styleFor(runStyle).Render(run.String()))
			run.Reset()
		}
		for x, c := range row {
			if c.cont {
				continue
			}
			if y == t.cursorRow && x == t.cursorCol {
				flush()
				sb.WriteString(t.cursor.Render(c.text))
				continue
			}
			if c.style != runStyle {
				flush()
				runStyle = c.style
			}
			run.WriteString(c.text)
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func (t *Tea) styleFor(s editor.Style) lipgloss.Style {
	if s == editor.StyleDim {
		return t.dim
	}
	return t.renderer.NewStyle()
}
