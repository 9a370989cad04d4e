// Package textcodec provides the UTF-8 and display-width math the editor is
// built on.
//
// Two units of measurement appear throughout:
//
//  1. Bytes: lines are stored as raw bytes and every cursor offset is a byte
//     offset. Offsets handed out by this package always sit on a codepoint
//     boundary, never inside a multi-byte sequence.
//
//  2. Display columns: the number of terminal cells a codepoint occupies.
//     ASCII = 1, CJK and most emoji = 2, combining marks = 0.
//
// Malformed input never fails. A broken sequence decodes as a one-byte
// placeholder of width 1, and boundary scanning treats any byte that is not
// a continuation byte as the start of a codepoint.
package textcodec

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Placeholder is the codepoint reported for malformed input.
const Placeholder = utf8.RuneError

// widths is runewidth's default condition pinned to narrow East Asian
// ambiguous width, so results do not depend on the user's locale and
// libraries measuring through runewidth agree with this package.
var widths = func() *runewidth.Condition {
	c := runewidth.DefaultCondition
	c.EastAsianWidth = false
	return c
}()

// DecodeAt decodes the codepoint starting at byte i.
// Malformed sequences decode as (Placeholder, 1). An index outside the slice
// returns (Placeholder, 0).
func DecodeAt(b []byte, i int) (rune, int) {
	if i < 0 || i >= len(b) {
		return Placeholder, 0
	}
	return utf8.DecodeRune(b[i:])
}

// WidthOf returns the display width of r: 0, 1 or 2.
// Control codepoints and values that are not valid Unicode count as 1.
func WidthOf(r rune) int {
	if !utf8.ValidRune(r) {
		return 1
	}
	if r < 0x20 || (r >= 0x7f && r < 0xa0) {
		return 1
	}
	return widths.RuneWidth(r)
}

// NextBoundary returns the smallest index greater than i that starts a
// codepoint, or len(b).
func NextBoundary(b []byte, i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(b) {
		return len(b)
	}
	next := i + 1
	for next < len(b) && !utf8.RuneStart(b[next]) {
		next++
	}
	return next
}

// PrevBoundary returns the largest index less than i that starts a
// codepoint. It returns 0 when i <= 0.
func PrevBoundary(b []byte, i int) int {
	if i <= 0 {
		return 0
	}
	if i > len(b) {
		return len(b)
	}
	prev := i - 1
	for prev > 0 && !utf8.RuneStart(b[prev]) {
		prev--
	}
	return prev
}

// IsBoundary reports whether i is a codepoint boundary of b.
func IsBoundary(b []byte, i int) bool {
	if i < 0 || i > len(b) {
		return false
	}
	return i == len(b) || utf8.RuneStart(b[i])
}

// ClampToBoundary clamps i into [0, len(b)] and moves it back onto the
// start of the codepoint containing it.
func ClampToBoundary(b []byte, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(b) {
		return len(b)
	}
	for i > 0 && !utf8.RuneStart(b[i]) {
		i--
	}
	return i
}

// VisualWidth returns the summed display width of every codepoint in b.
func VisualWidth(b []byte) int {
	width := 0
	for i := 0; i < len(b); i = NextBoundary(b, i) {
		r, _ := DecodeAt(b, i)
		width += WidthOf(r)
	}
	return width
}

// SkipVisual walks codepoints from the start of b until their cumulative
// width reaches col. It returns the byte index reached and the width
// consumed, which exceeds col when a wide codepoint straddles it.
func SkipVisual(b []byte, col int) (index, consumed int) {
	for index < len(b) && consumed < col {
		r, _ := DecodeAt(b, index)
		consumed += WidthOf(r)
		index = NextBoundary(b, index)
	}
	return index, consumed
}

// TrimToVisual returns the part of b that starts at display column colOffset
// and fits in maxCols columns. A codepoint that would overflow maxCols is
// left out rather than split.
func TrimToVisual(b []byte, colOffset, maxCols int) []byte {
	if maxCols <= 0 {
		return nil
	}
	start, _ := SkipVisual(b, colOffset)
	end := start
	printed := 0
	for end < len(b) {
		r, _ := DecodeAt(b, end)
		w := WidthOf(r)
		if printed+w > maxCols {
			break
		}
		printed += w
		end = NextBoundary(b, end)
	}
	return b[start:end]
}

// Encode returns the UTF-8 encoding of r. Values that are not valid Unicode
// scalar values encode as the placeholder.
func Encode(r rune) []byte {
	return utf8.AppendRune(nil, r)
}
