package buffer

import (
	"errors"
	"fmt"
)

// SaveErrorKind identifies the step of an atomic save that failed.
type SaveErrorKind int

const (
	NoFilename SaveErrorKind = iota + 1
	TempCreateFailed
	WriteIncomplete
	SyncFailed
	RenameFailed
)

// Sentinels for errors.Is against a *SaveError.
var (
	ErrNoFilename       = errors.New("no filename")
	ErrTempCreateFailed = errors.New("temp file create failed")
	ErrWriteIncomplete  = errors.New("write incomplete")
	ErrSyncFailed       = errors.New("sync failed")
	ErrRenameFailed     = errors.New("rename failed")

	errSaveFailed = errors.New("save failed")
)

func (k SaveErrorKind) String() string {
	switch k {
	case NoFilename:
		return "NoFilename"
	case TempCreateFailed:
		return "TempCreateFailed"
	case WriteIncomplete:
		return "WriteIncomplete"
	case SyncFailed:
		return "SyncFailed"
	case RenameFailed:
		return "RenameFailed"
	default:
		return "Unknown"
	}
}

func (k SaveErrorKind) sentinel() error {
	switch k {
	case NoFilename:
		return ErrNoFilename
	case TempCreateFailed:
		return ErrTempCreateFailed
	case WriteIncomplete:
		return ErrWriteIncomplete
	case SyncFailed:
		return ErrSyncFailed
	case RenameFailed:
		return ErrRenameFailed
	default:
		return errSaveFailed
	}
}

// SaveError reports a failed save. The target file is untouched and the
// buffer stays dirty.
type SaveError struct {
	Kind SaveErrorKind
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *SaveError) Unwrap() []error {
	errs := []error{e.Kind.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
