package buffer

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

var errInjected = errors.New("injected failure")

// faultFS fails one step of the save sequence on demand.
type faultFS struct {
	afero.Fs
	failCreate bool
	failWrite  bool
	failSync   bool
	failClose  bool
	failRename bool
}

func (f *faultFS) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if f.failCreate && flag&os.O_CREATE != 0 {
		return nil, errInjected
	}
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultFile{File: file, fs: f}, nil
}

func (f *faultFS) Rename(oldname, newname string) error {
	if f.failRename {
		return errInjected
	}
	return f.Fs.Rename(oldname, newname)
}

type faultFile struct {
	afero.File
	fs *faultFS
}

func (f *faultFile) Write(p []byte) (int, error) {
	if f.fs.failWrite {
		n, _ := f.File.Write(p[:len(p)/2])
		return n, errInjected
	}
	return f.File.Write(p)
}

func (f *faultFile) Sync() error {
	if f.fs.failSync {
		return errInjected
	}
	return f.File.Sync()
}

func (f *faultFile) Close() error {
	err := f.File.Close()
	if f.fs.failClose {
		return errInjected
	}
	return err
}

func TestSave_NoFilename(t *testing.T) {
	b := FromLines([]string{"x"})
	err := b.Save()

	var saveErr *SaveError
	require.ErrorAs(t, err, &saveErr)
	require.Equal(t, NoFilename, saveErr.Kind)
	require.ErrorIs(t, err, ErrNoFilename)
}

func TestSave_JoinsLinesWithoutTrailingTerminator(t *testing.T) {
	b, fs, path := memBuffer(t, "")
	b.InsertString(0, 0, []byte("one"))
	b.SplitLine(0, 3)
	b.InsertString(1, 0, []byte("two"))

	require.NoError(t, b.Save())
	require.False(t, b.IsDirty())

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.Equal(t, "one\ntwo", string(data))

	exists, err := afero.Exists(fs, b.TempPath())
	require.NoError(t, err)
	require.False(t, exists, "temp file must not survive a successful save")
}

func TestSave_PreservesTrailingNewline(t *testing.T) {
	b, fs, path := memBuffer(t, "a\nb\n")
	require.NoError(t, b.Save())

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	require.Equal(t, "a\nb\n", string(data))
}

func TestSave_CreatesMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/w", 0o755))
	b := New(WithFS(fs))
	b.Load("/w/new.txt")
	b.InsertString(0, 0, []byte("fresh"))

	require.NoError(t, b.Save())
	data, err := afero.ReadFile(fs, "/w/new.txt")
	require.NoError(t, err)
	require.Equal(t, "fresh", string(data))
}

func TestSave_TempSuffix(t *testing.T) {
	b := New(WithTempSuffix(".swp"))
	require.Equal(t, "", b.TempPath())
	b.Load("/does/not/exist.txt")
	require.Equal(t, "/does/not/exist.txt.swp", b.TempPath())
}

func TestSave_FailuresLeaveTargetUntouched(t *testing.T) {
	tests := []struct {
		name   string
		inject func(*faultFS)
		kind   SaveErrorKind
		target error
	}{
		{"create", func(f *faultFS) { f.failCreate = true }, TempCreateFailed, ErrTempCreateFailed},
		{"write", func(f *faultFS) { f.failWrite = true }, WriteIncomplete, ErrWriteIncomplete},
		{"sync", func(f *faultFS) { f.failSync = true }, SyncFailed, ErrSyncFailed},
		{"close", func(f *faultFS) { f.failClose = true }, SyncFailed, ErrSyncFailed},
		{"rename", func(f *faultFS) { f.failRename = true }, RenameFailed, ErrRenameFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := afero.NewMemMapFs()
			require.NoError(t, mem.MkdirAll("/work", 0o755))
			original := "original\ncontent"
			require.NoError(t, afero.WriteFile(mem, "/work/doc.txt", []byte(original), 0o644))

			fs := &faultFS{Fs: mem}
			b := New(WithFS(fs))
			b.Load("/work/doc.txt")
			b.InsertString(0, 0, []byte("changed "))
			tt.inject(fs)

			err := b.Save()
			require.Error(t, err)
			require.ErrorIs(t, err, tt.target)

			var saveErr *SaveError
			require.ErrorAs(t, err, &saveErr)
			require.Equal(t, tt.kind, saveErr.Kind)
			if tt.kind != TempCreateFailed {
				require.ErrorIs(t, err, errInjected)
			}

			data, readErr := afero.ReadFile(mem, "/work/doc.txt")
			require.NoError(t, readErr)
			require.Equal(t, original, string(data), "target must be byte-identical")

			exists, _ := afero.Exists(mem, b.TempPath())
			require.False(t, exists, "temp file must be removed")
			require.True(t, b.IsDirty(), "failed save keeps the buffer dirty")
		})
	}
}

func TestSave_RetryAfterFailureSucceeds(t *testing.T) {
	mem := afero.NewMemMapFs()
	fs := &faultFS{Fs: mem, failRename: true}
	b := New(WithFS(fs))
	b.Load("/r.txt")
	b.InsertString(0, 0, []byte("v1"))

	require.Error(t, b.Save())
	fs.failRename = false
	require.NoError(t, b.Save())

	data, err := afero.ReadFile(mem, "/r.txt")
	require.NoError(t, err)
	require.Equal(t, "v1", string(data))
}

func TestSave_KeepsFileMode(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/m.sh", []byte("echo"), 0o755))
	b := New(WithFS(mem))
	b.Load("/m.sh")
	b.InsertString(0, 4, []byte(" hi"))
	require.NoError(t, b.Save())

	info, err := mem.Stat("/m.sh")
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestSaveError_Message(t *testing.T) {
	err := &SaveError{Kind: RenameFailed, Path: "/a.txt", Err: errInjected}
	require.Equal(t, "rename failed: /a.txt: injected failure", err.Error())
	require.Equal(t, "RenameFailed", RenameFailed.String())
}

func TestSaveError_ZeroKind(t *testing.T) {
	err := &SaveError{Path: "/a.txt"}
	require.Equal(t, "save failed: /a.txt", err.Error())
	require.NotErrorIs(t, err, ErrNoFilename)
	require.Equal(t, "Unknown", err.Kind.String())
}

func TestProperty_SaveLoadRoundTrip(t *testing.T) {
	printable := rapid.StringMatching(`[^\x00-\x1f\x7f]{0,24}`)

	rapid.Check(t, func(rt *rapid.T) {
		lines := rapid.SliceOfN(printable, 1, 12).Draw(rt, "lines")

		fs := afero.NewMemMapFs()
		b := New(WithFS(fs))
		b.Load("/rt.txt")
		for i, l := range lines {
			if i > 0 {
				b.SplitLine(i-1, len(b.GetLine(i-1)))
			}
			b.InsertString(i, 0, []byte(l))
		}
		if err := b.Save(); err != nil {
			rt.Fatalf("save: %v", err)
		}

		again := New(WithFS(fs))
		again.Load("/rt.txt")
		got := again.Lines()
		if len(got) != len(lines) {
			rt.Fatalf("got %d lines, want %d", len(got), len(lines))
		}
		for i := range lines {
			if got[i] != lines[i] {
				rt.Fatalf("line %d: got %q want %q", i, got[i], lines[i])
			}
		}
	})
}
