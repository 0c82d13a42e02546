// ABOUTME: Workspace root resolution for the venv manager
// ABOUTME: Absence of a usable root is a distinct, user-visible condition

package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoWorkspace indicates that no workspace root could be determined.
// Every operation that needs workspace identity surfaces this distinctly;
// it is never silently swallowed.
var ErrNoWorkspace = errors.New("no workspace root")

// Resolve validates dir as the workspace root and returns it as an
// absolute path. An empty dir means the current working directory.
func Resolve(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNoWorkspace, err)
		}
		dir = cwd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoWorkspace, err)
	}

	fi, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoWorkspace, abs)
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrNoWorkspace, abs)
	}
	return abs, nil
}
