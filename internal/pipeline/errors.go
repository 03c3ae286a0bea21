package pipeline

import (
	"errors"
	"fmt"
)

const (
	OpOpen   = "open"
	OpUpload = "upload"
)

var (
	ErrMissingFile = errors.New("file does not exist")
	ErrNoExtension = errors.New("file has no extension")
	ErrNotRegular  = errors.New("not a regular file")
	ErrNoFiles     = errors.New("no files to upload")
)

// FileError records a per-file failure and the step it happened in
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Stage reports the step the failure happened in
func (e *FileError) Stage() string {
	return e.Op
}
