package pipeline

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/zinc-sig/figbed/internal/keygen"
	"github.com/zinc-sig/figbed/internal/output"
	"github.com/zinc-sig/figbed/internal/upload"
)

// sniffLen matches the amount of data mimetype inspects by default
const sniffLen = 3072

// Task is a single file waiting to be uploaded
type Task struct {
	Index int
	Path  string
	Key   keygen.Key
}

// NewTasks builds one task per path. Keys are generated here, once per task.
// Paths must have been validated.
func NewTasks(paths []string, gen *keygen.Generator) []Task {
	tasks := make([]Task, 0, len(paths))
	for i, path := range paths {
		ext, _ := Extension(path)
		tasks = append(tasks, Task{
			Index: i,
			Path:  path,
			Key:   gen.New(ext),
		})
	}
	return tasks
}

// Target is the state shared read-only by every task of a batch
type Target struct {
	Provider upload.Provider
	Bucket   upload.Bucket
	Mode     output.Mode
	Logger   *zap.Logger
}

// Run uploads the task's file. A file that cannot be opened is reported
// without contacting the provider; an upload error is reported as is, with
// no retry.
func (t *Target) Run(ctx context.Context, task Task) output.Outcome {
	log := t.logger().With(zap.String("path", task.Path), zap.String("key", task.Key.Path))

	outcome := output.Outcome{
		Index:   task.Index,
		Path:    task.Path,
		Key:     task.Key.Path,
		Display: task.Key.Display,
	}

	f, err := os.Open(task.Path)
	if err != nil {
		outcome.Err = &FileError{Op: OpOpen, Path: task.Path, Err: err}
		return outcome
	}
	defer func() { _ = f.Close() }()

	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	contentType, err := detectContentType(f)
	if err != nil {
		outcome.Err = &FileError{Op: OpOpen, Path: task.Path, Err: err}
		return outcome
	}

	log.Debug("uploading", zap.Int64("size", size), zap.String("content_type", contentType))

	err = t.Provider.Upload(ctx, t.Bucket.Name, &upload.Request{
		Key:         task.Key.Path,
		Content:     f,
		Size:        size,
		ContentType: contentType,
	})
	if err != nil {
		outcome.Err = &FileError{Op: OpUpload, Path: task.Path, Err: err}
		return outcome
	}

	outcome.URL = t.Bucket.URL(task.Key.Path)
	log.Debug("uploaded", zap.String("url", outcome.URL))
	return outcome
}

func (t *Target) logger() *zap.Logger {
	if t.Logger == nil {
		return zap.NewNop()
	}
	return t.Logger
}

// detectContentType sniffs the beginning of r and rewinds it.
func detectContentType(r io.ReadSeeker) (string, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mimetype.Detect(header[:n]).String(), nil
}
