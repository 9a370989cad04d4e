package buffer

import "github.com/zjrosen/edit/internal/textcodec"

// Position addresses a byte offset within a line of the document.
// Offsets that leave the editor always sit on a codepoint boundary.
type Position struct {
	Line   int
	Offset int
}

// Clamp returns p moved inside the document: the line into
// [0, LineCount-1] and the offset into [0, len(line)], snapped back onto a
// codepoint boundary.
func (b *Buffer) Clamp(p Position) Position {
	if p.Line < 0 {
		p.Line = 0
	}
	if p.Line >= len(b.lines) {
		p.Line = len(b.lines) - 1
	}
	p.Offset = textcodec.ClampToBoundary(b.lines[p.Line], p.Offset)
	return p
}
