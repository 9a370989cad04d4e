package editor

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/edit/internal/buffer"
)

// renderAt draws one frame of doc with the cursor at pos.
func renderAt(t *testing.T, doc *buffer.Buffer, rows, cols int, pos buffer.Position, opts ...Option) (*Controller, *fakeTerminal) {
	t.Helper()
	term := newFakeTerminal(rows, cols)
	c := New(doc, term, opts...)
	c.rows, c.cols = rows, cols
	c.cursor = doc.Clamp(pos)
	c.view.Scroll(c.cursor, doc, rows, cols)
	require.NoError(t, c.render())
	return c, term
}

func TestRender_GutterTextAndEmptyRows(t *testing.T) {
	doc := buffer.FromLines([]string{"hello", "world"})
	_, term := renderAt(t, doc, 5, 60, buffer.Position{})

	require.Equal(t, "1 hello", term.row(0))
	require.Equal(t, "2 world", term.row(1))
	require.Equal(t, "", term.row(2))
	require.Equal(t, StyleDim, term.styles[0][0])
	require.Equal(t, StyleNormal, term.styles[0][2])
	require.Equal(t, 1, term.flushes)
}

func TestRender_GutterRightAligned(t *testing.T) {
	lines := make([]string, 12)
	lines[9] = "ten"
	doc := buffer.FromLines(lines)
	_, term := renderAt(t, doc, 14, 40, buffer.Position{})

	require.Equal(t, " 1", term.row(0))
	require.Equal(t, "10 ten", term.row(9))
}

func TestRender_StatusBar(t *testing.T) {
	doc := buffer.FromLines([]string{"hello", "world"})
	_, term := renderAt(t, doc, 5, 60, buffer.Position{Line: 1, Offset: 2}, WithVersion("2.0.0"))

	status := term.row(4)
	require.True(t, strings.HasPrefix(status, "edit 2.0.0 | [No Name] - 2 lines"), status)
	require.True(t, strings.HasSuffix(status, "Ln 2, Col 3"), status)
	require.Len(t, []rune(status), 60-1, "right part ends one column before the edge")
	require.Equal(t, StyleDim, term.styles[4][0])
}

func TestRender_StatusShowsModifiedAndMessage(t *testing.T) {
	doc := buffer.FromLines([]string{"x"})
	doc.InsertString(0, 1, []byte("y"))
	c, term := renderAt(t, doc, 5, 80, buffer.Position{})
	require.Contains(t, term.row(4), "1 lines (Modified)")

	c.status.Set("hello there")
	require.NoError(t, c.render())
	require.Contains(t, term.row(4), "(Modified) | hello there")
}

func TestRender_StatusTruncatesOnNarrowScreen(t *testing.T) {
	doc := buffer.FromLines([]string{"x"})
	_, term := renderAt(t, doc, 3, 10, buffer.Position{})

	require.Equal(t, "edit dev |", term.row(2))
}

func TestRender_StatusColumnCountsGraphemes(t *testing.T) {
	doc := buffer.FromLines([]string{"e\u0301x"})
	_, term := renderAt(t, doc, 3, 60, buffer.Position{Line: 0, Offset: 3})

	require.True(t, strings.HasSuffix(term.row(2), "Ln 1, Col 2"), term.row(2))
}

func TestRender_CursorPlacement(t *testing.T) {
	doc := buffer.FromLines([]string{"a世b", "second"})
	_, term := renderAt(t, doc, 5, 40, buffer.Position{Line: 0, Offset: 4})

	require.Equal(t, 0, term.cursorRow)
	require.Equal(t, 2+3, term.cursorCol)
}

func TestRender_HorizontalScrollPadsStraddlingWideGlyph(t *testing.T) {
	doc := buffer.FromLines([]string{"世界世界x"})
	c, term := renderAt(t, doc, 3, 6, buffer.Position{Line: 0, Offset: 12})

	require.Equal(t, 5, c.view.State().ColOffset)
	require.Equal(t, "1  界x", term.row(0))
	require.Equal(t, 5, term.cursorCol)
}

func TestRender_StrayContinuationBytesKeepColumns(t *testing.T) {
	doc := buffer.FromLines([]string{"\u00e9\x80x"})
	_, term := renderAt(t, doc, 3, 40, buffer.Position{Line: 0, Offset: 4})

	require.Equal(t, "1 \u00e9x", term.row(0), "stray byte folds into the codepoint before it")
	require.Equal(t, 2+2, term.cursorCol)
}

func TestRender_VerticalScroll(t *testing.T) {
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = strings.Repeat("z", i%5)
	}
	doc := buffer.FromLines(lines)
	_, term := renderAt(t, doc, 6, 40, buffer.Position{Line: 20})

	require.Equal(t, "17 z", term.row(0))
	require.Equal(t, "21", term.row(4))
	require.Equal(t, 4, term.cursorRow)
}

func TestStatusMessages_Expire(t *testing.T) {
	s := newStatusMessages(20 * time.Millisecond)
	s.Set("saved")
	require.Equal(t, "saved", s.Get())

	time.Sleep(40 * time.Millisecond)
	require.Equal(t, "", s.Get())
}

func TestStatusMessages_ZeroTTLKeeps(t *testing.T) {
	s := newStatusMessages(0)
	s.Set("pinned")
	s.Set("replaced")
	require.Equal(t, "replaced", s.Get())
}
