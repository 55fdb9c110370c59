package execx

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned by Which when no executable matches.
var ErrNotFound = errors.New("executable not found")

// Which resolves tool against PATH. A tool containing a path separator is
// checked as-is.
func Which(tool string) (string, error) {
	tool = strings.TrimSpace(tool)
	if tool == "" {
		return "", ErrNotFound
	}

	if strings.ContainsRune(tool, os.PathSeparator) || strings.ContainsRune(tool, '/') {
		if found, ok := findExecutable(filepath.Dir(tool), filepath.Base(tool)); ok {
			return found, nil
		}
		return "", &NotFoundError{Tool: tool}
	}

	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			dir = "."
		}
		if found, ok := findExecutable(filepath.Clean(dir), tool); ok {
			return found, nil
		}
	}
	return "", &NotFoundError{Tool: tool}
}

type NotFoundError struct {
	Tool string
}

func (e *NotFoundError) Error() string { return e.Tool + " not found in PATH" }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
