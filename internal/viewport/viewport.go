// Package viewport keeps the scroll offsets of the text area and translates
// between screen cells and document positions.
//
// Offsets are in rows and display columns, never bytes. The last screen row
// is reserved for the status bar, and the left edge holds a gutter sized to
// the widest line number.
package viewport

import (
	"github.com/zjrosen/edit/internal/buffer"
	"github.com/zjrosen/edit/internal/textcodec"
)

// Document is the read side of the text buffer the mapper needs.
type Document interface {
	LineCount() int
	GetLine(y int) []byte
}

// State is a snapshot of the viewport offsets.
type State struct {
	RowOffset   int
	ColOffset   int
	GutterWidth int
}

// Mapper owns the scroll offsets.
type Mapper struct {
	rowOffset   int
	colOffset   int
	gutterWidth int
}

// New returns a mapper scrolled to the top-left.
func New() *Mapper {
	return &Mapper{gutterWidth: GutterWidth(1)}
}

// State returns the current offsets.
func (m *Mapper) State() State {
	return State{
		RowOffset:   m.rowOffset,
		ColOffset:   m.colOffset,
		GutterWidth: m.gutterWidth,
	}
}

// GutterWidth returns the gutter width for a document of lineCount lines:
// the digit count of the largest line number plus one separator column.
func GutterWidth(lineCount int) int {
	digits := 1
	for n := lineCount; n >= 10; n /= 10 {
		digits++
	}
	return digits + 1
}

// TextRows returns the rows available for text, leaving one for status.
func TextRows(screenRows int) int {
	return max(1, screenRows-1)
}

// TextCols returns the columns available for text right of the gutter.
func TextCols(screenCols, gutterWidth int) int {
	return max(1, screenCols-gutterWidth)
}

// Scroll adjusts the offsets so the cursor is inside the text area.
func (m *Mapper) Scroll(cursor buffer.Position, doc Document, screenRows, screenCols int) {
	m.gutterWidth = GutterWidth(doc.LineCount())

	rows := TextRows(screenRows)
	if cursor.Line < m.rowOffset {
		m.rowOffset = cursor.Line
	}
	if cursor.Line >= m.rowOffset+rows {
		m.rowOffset = cursor.Line - rows + 1
	}
	m.rowOffset = max(0, m.rowOffset)

	visualX := CursorColumn(doc, cursor)
	cols := TextCols(screenCols, m.gutterWidth)
	if visualX < m.colOffset {
		m.colOffset = visualX
	}
	if visualX >= m.colOffset+cols {
		m.colOffset = visualX - cols + 1
	}
	m.colOffset = max(0, m.colOffset)
}

// CursorColumn returns the display column of cursor within its line.
func CursorColumn(doc Document, cursor buffer.Position) int {
	line := doc.GetLine(cursor.Line)
	x := textcodec.ClampToBoundary(line, cursor.Offset)
	return textcodec.VisualWidth(line[:x])
}

// CursorScreen returns the screen cell where cursor is drawn.
func (m *Mapper) CursorScreen(doc Document, cursor buffer.Position) (row, col int) {
	row = cursor.Line - m.rowOffset
	col = m.gutterWidth + CursorColumn(doc, cursor) - m.colOffset
	return row, col
}

// ScreenToBuffer resolves a click with the mapper's current offsets.
func (m *Mapper) ScreenToBuffer(screenRow, screenCol int, doc Document) buffer.Position {
	return ScreenToBuffer(screenRow, screenCol, m.rowOffset, m.colOffset, m.gutterWidth, doc)
}

// ScreenToBuffer maps a screen cell to a document position. The line is
// clamped into the document. The column is walked codepoint by codepoint
// until the accumulated width meets the target column, or to the end of the
// line when the target lies past it.
func ScreenToBuffer(screenRow, screenCol, rowOffset, colOffset, gutterWidth int, doc Document) buffer.Position {
	line := screenRow + rowOffset
	line = min(max(line, 0), max(doc.LineCount()-1, 0))

	target := max(0, screenCol-gutterWidth+colOffset)
	offset, _ := textcodec.SkipVisual(doc.GetLine(line), target)
	return buffer.Position{Line: line, Offset: offset}
}
