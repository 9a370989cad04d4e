// Package buffer owns the document being edited: an ordered sequence of
// lines, the file it is bound to and the dirty flag.
//
// Every operation clamps its line and byte arguments instead of failing, so
// any sequence of calls leaves the document renderable. A document always
// holds at least one line; an empty document is one empty line.
package buffer

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/zjrosen/edit/internal/log"
	"github.com/zjrosen/edit/internal/textcodec"
)

const (
	// DefaultTabWidth is the number of spaces a tab expands to.
	DefaultTabWidth = 4
	// DefaultTempSuffix is appended to the target path for atomic saves.
	DefaultTempSuffix = ".tmp"
)

// Buffer is the in-memory document plus its file binding.
type Buffer struct {
	lines [][]byte
	path  string
	dirty bool

	fs         afero.Fs
	tabWidth   int
	tempSuffix string

	// disk records the bound file as last loaded or saved, so external
	// modification can be told apart from our own writes.
	disk diskStamp
}

type diskStamp struct {
	exists  bool
	size    int64
	modTime time.Time
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithFS sets the filesystem used for load and save.
func WithFS(fs afero.Fs) Option {
	return func(b *Buffer) {
		if fs != nil {
			b.fs = fs
		}
	}
}

// WithTabWidth sets how many spaces a tab expands to on load.
func WithTabWidth(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.tabWidth = n
		}
	}
}

// WithTempSuffix sets the suffix of the temporary file used by Save.
func WithTempSuffix(suffix string) Option {
	return func(b *Buffer) {
		if suffix != "" {
			b.tempSuffix = suffix
		}
	}
}

// New creates an unbound buffer holding one empty line.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		lines:      [][]byte{{}},
		fs:         afero.NewOsFs(),
		tabWidth:   DefaultTabWidth,
		tempSuffix: DefaultTempSuffix,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromLines creates an unbound buffer with the given lines, sanitized the
// same way Load sanitizes file content.
func FromLines(lines []string, opts ...Option) *Buffer {
	b := New(opts...)
	b.lines = b.lines[:0]
	for _, l := range lines {
		b.lines = append(b.lines, sanitizeLine([]byte(l), b.tabWidth))
	}
	b.ensureLine()
	return b
}

// Load replaces the document with the content of path and binds the buffer
// to it. A file that cannot be opened is not an error: the buffer becomes
// one empty line bound to path. The dirty flag is cleared.
func (b *Buffer) Load(path string) {
	b.path = path
	b.lines = b.lines[:0]
	b.dirty = false
	b.disk = diskStamp{}

	f, err := b.fs.Open(path)
	if err != nil {
		log.Debug(log.CatBuffer, "Starting new file", "path", path, "reason", err.Error())
		b.ensureLine()
		return
	}
	defer func() { _ = f.Close() }()

	r := bufio.NewReader(f)
	for {
		// The segment after the last terminator is a line too, possibly
		// empty, so a trailing newline survives a save.
		line, err := r.ReadBytes('\n')
		line = bytes.TrimSuffix(line, []byte{'\n'})
		if err == nil || errors.Is(err, io.EOF) {
			b.lines = append(b.lines, sanitizeLine(line, b.tabWidth))
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.ErrorErr(log.CatBuffer, "Read stopped early", err, "path", path, "lines", len(b.lines))
			}
			break
		}
	}
	b.ensureLine()
	b.disk = b.stat()

	log.Info(log.CatBuffer, "Loaded file", "path", path, "lines", len(b.lines))
}

func (b *Buffer) ensureLine() {
	if len(b.lines) == 0 {
		b.lines = append(b.lines, []byte{})
	}
}

// Path returns the bound file path, or "" when unbound.
func (b *Buffer) Path() string {
	return b.path
}

// GetLine returns line y, or nil when y is out of range.
// The returned slice is owned by the buffer and must not be modified.
func (b *Buffer) GetLine(y int) []byte {
	if y < 0 || y >= len(b.lines) {
		return nil
	}
	return b.lines[y]
}

// LineCount returns the number of lines; always at least 1.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// IsDirty reports whether the document changed since the last load or
// successful save.
func (b *Buffer) IsDirty() bool {
	return b.dirty
}

// Lines returns a copy of the document as strings.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	for i, l := range b.lines {
		out[i] = string(l)
	}
	return out
}

// InsertCodepoint splices the UTF-8 encoding of r into line y at offset x.
// It returns the number of bytes inserted.
func (b *Buffer) InsertCodepoint(y, x int, r rune) int {
	return b.InsertString(y, x, textcodec.Encode(r))
}

// InsertString splices s into line y at offset x. x is clamped into the
// line and moved back onto a codepoint boundary. Tabs and control bytes in
// s are sanitized as on load. It returns the number of bytes inserted.
func (b *Buffer) InsertString(y, x int, s []byte) int {
	if y < 0 || y >= len(b.lines) || len(s) == 0 {
		return 0
	}
	s = sanitizeLine(s, b.tabWidth)

	line := b.lines[y]
	x = textcodec.ClampToBoundary(line, x)

	grown := make([]byte, 0, len(line)+len(s))
	grown = append(grown, line[:x]...)
	grown = append(grown, s...)
	grown = append(grown, line[x:]...)
	b.lines[y] = grown
	b.dirty = true
	return len(s)
}

// SplitLine breaks line y at offset x: line y keeps [0,x) and a new line
// holding [x,end) is inserted after it.
func (b *Buffer) SplitLine(y, x int) {
	if y < 0 || y >= len(b.lines) {
		return
	}
	line := b.lines[y]
	x = textcodec.ClampToBoundary(line, x)

	rest := append([]byte(nil), line[x:]...)
	b.lines[y] = line[:x:x]

	b.lines = append(b.lines, nil)
	copy(b.lines[y+2:], b.lines[y+1:])
	b.lines[y+1] = rest
	b.dirty = true
}

// DeleteAt is a backward delete. With x > 0 it removes the codepoint
// ending at x. With x == 0 and y > 0 it joins line y onto line y-1.
// At (0,0) it does nothing.
func (b *Buffer) DeleteAt(y, x int) {
	if y < 0 || y >= len(b.lines) {
		return
	}
	line := b.lines[y]
	if x > len(line) {
		x = len(line)
	}

	if x > 0 {
		if !textcodec.IsBoundary(line, x) {
			// Inside a sequence: delete the codepoint containing x.
			x = textcodec.NextBoundary(line, textcodec.ClampToBoundary(line, x))
		}
		start := textcodec.PrevBoundary(line, x)
		b.lines[y] = append(line[:start:start], line[x:]...)
		b.dirty = true
		return
	}

	if y == 0 {
		return
	}
	prev := b.lines[y-1]
	joined := make([]byte, 0, len(prev)+len(line))
	joined = append(joined, prev...)
	joined = append(joined, line...)
	b.lines[y-1] = joined
	b.lines = append(b.lines[:y], b.lines[y+1:]...)
	b.dirty = true
}

// DiskChanged reports whether the bound file on disk differs from what was
// last loaded or saved by this buffer.
func (b *Buffer) DiskChanged() bool {
	if b.path == "" {
		return false
	}
	now := b.stat()
	if now.exists != b.disk.exists {
		return true
	}
	return now.exists && (now.size != b.disk.size || !now.modTime.Equal(b.disk.modTime))
}

func (b *Buffer) stat() diskStamp {
	info, err := b.fs.Stat(b.path)
	if err != nil {
		return diskStamp{}
	}
	return diskStamp{exists: true, size: info.Size(), modTime: info.ModTime()}
}

// fileMode returns the permission bits of the bound file, or 0644 for a
// file that does not exist yet.
func (b *Buffer) fileMode() os.FileMode {
	info, err := b.fs.Stat(b.path)
	if err != nil {
		return 0o644
	}
	return info.Mode().Perm()
}
