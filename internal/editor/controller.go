// Package editor runs the edit loop: it owns the cursor, applies logical
// events to the document and draws each frame through a Terminal.
//
// The loop is synchronous. Exactly one event is handled per iteration and
// cancellation is only observed at the top of an iteration, so a save never
// sees a half-applied edit.
package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/edit/internal/buffer"
	"github.com/zjrosen/edit/internal/input"
	"github.com/zjrosen/edit/internal/log"
	"github.com/zjrosen/edit/internal/textcodec"
	"github.com/zjrosen/edit/internal/viewport"
)

// Document is the editable text the controller works on.
type Document interface {
	viewport.Document

	Path() string
	IsDirty() bool
	DiskChanged() bool
	Clamp(p buffer.Position) buffer.Position

	InsertCodepoint(y, x int, r rune) int
	SplitLine(y, x int)
	DeleteAt(y, x int)
	Save() error
}

// State is the controller's lifecycle state.
type State int

const (
	Running State = iota
	Quitting
)

func (s State) String() string {
	if s == Quitting {
		return "Quitting"
	}
	return "Running"
}

// diskChangedMessage is shown when the bound file changes underneath us.
const diskChangedMessage = "File changed on disk"

// Controller is the editor state machine.
type Controller struct {
	doc  Document
	term Terminal
	view *viewport.Mapper

	cursor buffer.Position
	state  State
	rows   int
	cols   int

	status  *statusMessages
	version string
	hint    string
	changes <-chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithVersion sets the version shown in the status bar.
func WithVersion(v string) Option {
	return func(c *Controller) {
		c.version = v
	}
}

// WithStatusTTL sets how long transient status messages stay visible.
func WithStatusTTL(ttl time.Duration) Option {
	return func(c *Controller) {
		c.status = newStatusMessages(ttl)
	}
}

// WithHint sets the message shown in the status bar on startup.
func WithHint(hint string) Option {
	return func(c *Controller) {
		c.hint = hint
	}
}

// WithChangeNotifications sets a channel that signals possible external
// modification of the bound file. It is polled at the top of each iteration.
func WithChangeNotifications(ch <-chan struct{}) Option {
	return func(c *Controller) {
		c.changes = ch
	}
}

// New creates a controller for doc drawing on term.
func New(doc Document, term Terminal, opts ...Option) *Controller {
	c := &Controller{
		doc:     doc,
		term:    term,
		view:    viewport.New(),
		state:   Running,
		status:  newStatusMessages(5 * time.Second),
		version: "dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cursor returns the current cursor position.
func (c *Controller) Cursor() buffer.Position {
	return c.cursor
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Run enters raw mode and processes events until Quit or until ctx is
// cancelled. Quit always saves and returns the save error, if any.
// Cancellation triggers a best-effort save whose error is returned as well.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.term.SetRawMode(); err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	if err := c.term.EnableMouseReporting(); err != nil {
		return fmt.Errorf("enabling mouse reporting: %w", err)
	}
	rows, cols, err := c.term.Size()
	if err != nil {
		return fmt.Errorf("reading terminal size: %w", err)
	}
	c.rows, c.cols = rows, cols

	if c.hint != "" {
		c.status.Set(c.hint)
	}
	log.Info(log.CatEditor, "Editor started", "path", c.doc.Path(), "rows", rows, "cols", cols)

	for c.state == Running {
		if ctx.Err() != nil {
			return c.interrupt(ctx)
		}
		c.pollChanges()

		c.cursor = c.doc.Clamp(c.cursor)
		c.refreshSize()
		c.view.Scroll(c.cursor, c.doc, c.rows, c.cols)
		if err := c.render(); err != nil {
			log.ErrorErr(log.CatEditor, "Render failed", err)
		}

		raw, err := c.term.ReadRawEvent(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			log.ErrorErr(log.CatEditor, "Input read failed", err)
			return errors.Join(fmt.Errorf("reading input: %w", err), c.saveBestEffort())
		}

		if err := c.dispatch(input.Decode(raw)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) interrupt(ctx context.Context) error {
	log.Info(log.CatEditor, "Interrupted, saving", "path", c.doc.Path(), "cause", context.Cause(ctx))
	c.state = Quitting
	return c.saveBestEffort()
}

func (c *Controller) saveBestEffort() error {
	if err := c.doc.Save(); err != nil {
		log.ErrorErr(log.CatEditor, "Best-effort save failed", err, "path", c.doc.Path())
		return fmt.Errorf("saving %s: %w", c.doc.Path(), err)
	}
	return nil
}

func (c *Controller) pollChanges() {
	if c.changes == nil {
		return
	}
	select {
	case <-c.changes:
		// Our own saves trigger the watcher too; only report real changes.
		if c.doc.DiskChanged() {
			log.Info(log.CatEditor, "File changed on disk", "path", c.doc.Path())
			c.status.Set(diskChangedMessage)
		}
	default:
	}
}

func (c *Controller) refreshSize() {
	rows, cols, err := c.term.Size()
	if err != nil {
		log.ErrorErr(log.CatEditor, "Size query failed, keeping last size", err)
		return
	}
	c.rows, c.cols = rows, cols
}

// dispatch applies one logical event. It returns an error only for a
// failed save on Quit.
func (c *Controller) dispatch(ev input.Event) error {
	y, x := c.cursor.Line, c.cursor.Offset
	line := c.doc.GetLine(y)

	switch ev.Kind {
	case input.Char:
		n := c.doc.InsertCodepoint(y, x, ev.Rune)
		c.cursor.Offset += n

	case input.Enter:
		c.doc.SplitLine(y, x)
		c.cursor = buffer.Position{Line: y + 1, Offset: 0}

	case input.Backspace:
		switch {
		case x > 0:
			prev := textcodec.PrevBoundary(line, x)
			c.doc.DeleteAt(y, x)
			c.cursor.Offset = prev
		case y > 0:
			merge := len(c.doc.GetLine(y - 1))
			c.doc.DeleteAt(y, 0)
			c.cursor = buffer.Position{Line: y - 1, Offset: merge}
		}

	case input.Delete:
		switch {
		case x < len(line):
			c.doc.DeleteAt(y, textcodec.NextBoundary(line, x))
		case y < c.doc.LineCount()-1:
			c.doc.DeleteAt(y+1, 0)
		}

	case input.ArrowLeft:
		switch {
		case x > 0:
			c.cursor.Offset = textcodec.PrevBoundary(line, x)
		case y > 0:
			c.cursor = buffer.Position{Line: y - 1, Offset: len(c.doc.GetLine(y - 1))}
		}

	case input.ArrowRight:
		switch {
		case x < len(line):
			c.cursor.Offset = textcodec.NextBoundary(line, x)
		case y < c.doc.LineCount()-1:
			c.cursor = buffer.Position{Line: y + 1, Offset: 0}
		}

	case input.ArrowUp:
		c.cursor.Line = max(0, y-1)

	case input.ArrowDown:
		c.cursor.Line = min(c.doc.LineCount()-1, y+1)

	case input.Home:
		c.cursor.Offset = 0

	case input.End:
		c.cursor.Offset = len(line)

	case input.PageUp:
		c.cursor.Line = max(0, y-max(1, c.rows))

	case input.PageDown:
		c.cursor.Line = min(c.doc.LineCount()-1, y+max(1, c.rows))

	case input.MouseClick:
		c.cursor = c.view.ScreenToBuffer(ev.Row, ev.Col, c.doc)

	case input.Quit:
		c.state = Quitting
		if err := c.doc.Save(); err != nil {
			log.ErrorErr(log.CatEditor, "Save on quit failed", err, "path", c.doc.Path())
			return fmt.Errorf("saving %s: %w", c.doc.Path(), err)
		}
		log.Info(log.CatEditor, "Saved and quit", "path", c.doc.Path())
	}
	return nil
}
