// ABOUTME: Validation of untrusted path segments from directory listings
// ABOUTME: Pure predicates returning false instead of erroring, so callers filter silently

package venv

import "strings"

// IsSafeRelativeSegment reports whether a single path segment taken from an
// untrusted directory listing is safe to join onto the workspace root.
// Rejected: empty, ".", anything containing ".." or NUL, and segments
// starting with a path separator.
func IsSafeRelativeSegment(seg string) bool {
	if seg == "" || seg == "." {
		return false
	}
	if strings.Contains(seg, "..") {
		return false
	}
	if strings.ContainsRune(seg, 0) {
		return false
	}
	if seg[0] == '/' || seg[0] == '\\' {
		return false
	}
	return true
}

// IsSafeRelativePath applies IsSafeRelativeSegment to every segment of a
// relative path.
func IsSafeRelativePath(rel string) bool {
	if rel == "" {
		return false
	}
	if rel[0] == '/' || rel[0] == '\\' {
		return false
	}
	segs := strings.FieldsFunc(rel, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(segs) == 0 {
		return false
	}
	for _, seg := range segs {
		if !IsSafeRelativeSegment(seg) {
			return false
		}
	}
	return true
}
