// ABOUTME: Core types and path identity rules for Ruyi virtual environments
// ABOUTME: Two paths denote the same venv iff they normalize to equal absolute paths

package venv

import "path/filepath"

// MarkerFile is the activation script probed inside each candidate
// directory, at <venv>/bin/ruyi-activate.
const MarkerFile = "ruyi-activate"

// PromptKey is the KEY in the KEY=value marker line that declares a venv's
// display name inside the activation script.
const PromptKey = "RUYI_VENV_PROMPT"

// Info describes one discovered virtual environment. Values are recomputed
// on every scan and never persisted.
type Info struct {
	Path string // relative to the workspace root, or absolute
	Name string // display label from the marker file
}

// Abs resolves the venv path against the workspace root.
func (i Info) Abs(root string) string {
	return AbsPath(i.Path, root)
}

// AbsPath resolves p against root when relative, cleans it, and strips any
// trailing separator. An empty path stays empty.
func AbsPath(p, root string) string {
	if p == "" {
		return ""
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, p)
	}
	return filepath.Clean(p)
}

// SamePath reports whether a and b denote the same venv after
// normalization. Empty means "no venv" and only equals itself.
func SamePath(a, b, root string) bool {
	if a == "" || b == "" {
		return a == b
	}
	return AbsPath(a, root) == AbsPath(b, root)
}
