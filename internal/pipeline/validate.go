package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

// Extension returns the extension of path without the leading dot. A base
// name whose only dot is its first character, or which ends with a dot, has
// no extension.
func Extension(path string) (string, bool) {
	base := filepath.Base(path)
	i := strings.LastIndex(base, ".")
	if i <= 0 || i == len(base)-1 {
		return "", false
	}
	return base[i+1:], true
}

// ValidateFile checks that path names an existing regular file with an
// extension.
func ValidateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrMissingFile)
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	if _, ok := Extension(path); !ok {
		return fmt.Errorf("%s: %w", path, ErrNoExtension)
	}
	return nil
}

// ValidateFiles checks every path and returns all violations at once. Any
// error means the batch must not start.
func ValidateFiles(paths []string) error {
	if len(paths) == 0 {
		return ErrNoFiles
	}

	var errs error
	for _, path := range paths {
		errs = multierr.Append(errs, ValidateFile(path))
	}
	return errs
}
