package buffer

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/zjrosen/edit/internal/log"
)

// TempPath returns the path Save writes before renaming over the target.
func (b *Buffer) TempPath() string {
	if b.path == "" {
		return ""
	}
	return b.path + b.tempSuffix
}

// Save writes the document to the bound path atomically: lines joined by
// '\n' go to a temp file beside the target, which is synced and then
// renamed over the target. On failure the temp file is removed, the target
// is left as it was and the buffer stays dirty.
func (b *Buffer) Save() error {
	if b.path == "" {
		return &SaveError{Kind: NoFilename}
	}

	tempPath := b.TempPath()
	f, err := b.fs.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, b.fileMode())
	if err != nil {
		log.ErrorErr(log.CatBuffer, "Failed to create temp file", err, "path", tempPath)
		return &SaveError{Kind: TempCreateFailed, Path: tempPath, Err: err}
	}

	fail := func(kind SaveErrorKind, cause error, closed bool) error {
		if !closed {
			_ = f.Close()
		}
		if rmErr := b.fs.Remove(tempPath); rmErr != nil {
			log.ErrorErr(log.CatBuffer, "Failed to remove temp file", rmErr, "path", tempPath)
		}
		log.ErrorErr(log.CatBuffer, "Save failed", cause, "path", b.path, "kind", kind)
		return &SaveError{Kind: kind, Path: b.path, Err: cause}
	}

	if err := b.writeLines(f); err != nil {
		return fail(WriteIncomplete, err, false)
	}
	if err := f.Sync(); err != nil {
		return fail(SyncFailed, err, false)
	}
	if err := f.Close(); err != nil {
		return fail(SyncFailed, err, true)
	}
	if err := b.fs.Rename(tempPath, b.path); err != nil {
		return fail(RenameFailed, err, true)
	}

	syncDir(b.fs, filepath.Dir(b.path))

	b.dirty = false
	b.disk = b.stat()
	log.Info(log.CatBuffer, "Saved file", "path", b.path, "lines", len(b.lines))
	return nil
}

func (b *Buffer) writeLines(f afero.File) error {
	w := bufio.NewWriter(f)
	for i, line := range b.lines {
		if _, err := w.Write(line); err != nil {
			return err
		}
		if i < len(b.lines)-1 {
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

// syncDir makes the rename durable. The new content is already visible at
// this point, so failure is only logged.
func syncDir(fs afero.Fs, dir string) {
	d, err := fs.Open(dir)
	if err != nil {
		return
	}
	defer func() { _ = d.Close() }()
	if err := d.Sync(); err != nil {
		log.Debug(log.CatBuffer, "Directory sync skipped", "dir", dir, "error", err.Error())
	}
}
