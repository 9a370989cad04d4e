package editor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/edit/internal/textcodec"
	"github.com/zjrosen/edit/internal/viewport"
)

const noName = "[No Name]"

// render draws one full frame: text rows with their gutter, then the status
// bar on the last row, then the cursor.
func (c *Controller) render() error {
	st := c.view.State()
	textRows := viewport.TextRows(c.rows)
	textCols := viewport.TextCols(c.cols, st.GutterWidth)

	c.term.Clear()
	for y := 0; y < textRows && y < c.rows; y++ {
		c.drawRow(y, st, textCols)
	}
	if c.rows > 1 {
		c.term.DrawCellsAt(c.rows-1, 0, []byte(c.statusLine()), StyleDim)
	}

	row, col := c.view.CursorScreen(c.doc, c.cursor)
	c.term.MoveCursorTo(row, col)
	return c.term.Flush()
}

func (c *Controller) drawRow(y int, st viewport.State, textCols int) {
	lineIdx := y + st.RowOffset
	if lineIdx >= c.doc.LineCount() {
		c.term.DrawCellsAt(y, 0, bytes.Repeat([]byte{' '}, st.GutterWidth), StyleDim)
		return
	}

	gutter := fmt.Sprintf("%*d ", st.GutterWidth-1, lineIdx+1)
	c.term.DrawCellsAt(y, 0, []byte(gutter), StyleDim)

	line := c.doc.GetLine(lineIdx)
	// A wide codepoint straddling the left edge is dropped; its visible
	// half becomes padding.
	_, consumed := textcodec.SkipVisual(line, st.ColOffset)
	pad := max(0, consumed-st.ColOffset)
	visible := textcodec.TrimToVisual(line, st.ColOffset, textCols-pad)
	if len(visible) > 0 {
		c.term.DrawCellsAt(y, st.GutterWidth+pad, visible, StyleNormal)
	}
}

// statusLine builds the status bar text: file details on the left, the
// transient message after them and the cursor location right-aligned.
func (c *Controller) statusLine() string {
	name := c.doc.Path()
	if name == "" {
		name = noName
	}
	left := fmt.Sprintf("edit %s | %s - %d lines", c.version, name, c.doc.LineCount())
	if c.doc.IsDirty() {
		left += " (Modified)"
	}
	if msg := c.status.Get(); msg != "" {
		left += " | " + msg
	}

	right := fmt.Sprintf("Ln %d, Col %d ", c.cursor.Line+1, c.cursorColumn()+1)

	left = truncate.String(left, uint(max(0, c.cols)))
	leftWidth := textcodec.VisualWidth([]byte(left))
	rightWidth := textcodec.VisualWidth([]byte(right))

	var sb strings.Builder
	sb.WriteString(left)
	if c.cols > leftWidth+rightWidth {
		sb.WriteString(strings.Repeat(" ", c.cols-leftWidth-rightWidth))
		sb.WriteString(right)
	} else if c.cols > leftWidth {
		sb.WriteString(strings.Repeat(" ", c.cols-leftWidth))
	}
	return sb.String()
}

// cursorColumn counts the user-perceived characters before the cursor.
func (c *Controller) cursorColumn() int {
	line := c.doc.GetLine(c.cursor.Line)
	x := textcodec.ClampToBoundary(line, c.cursor.Offset)
	return uniseg.GraphemeClusterCount(string(line[:x]))
}
