package editor

import (
	"context"

	"github.com/zjrosen/edit/internal/input"
)

// Style selects how a run of cells is drawn.
type Style int

const (
	StyleNormal Style = iota
	StyleDim
)

// Terminal is the capability set the editor needs from a terminal. The
// editor never talks to a concrete terminal library.
//
// Drawing calls build the next frame; nothing is shown until Flush.
type Terminal interface {
	Size() (rows, cols int, err error)
	SetRawMode() error
	EnableMouseReporting() error

	Clear()
	DrawCellsAt(row, col int, text []byte, style Style)
	MoveCursorTo(row, col int)
	Flush() error

	// ReadRawEvent blocks until an event arrives or ctx is done.
	ReadRawEvent(ctx context.Context) (input.RawEvent, error)
}
