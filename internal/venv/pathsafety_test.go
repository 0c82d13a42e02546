// ABOUTME: Tests for untrusted path segment validation
// ABOUTME: Traversal, NUL bytes, separators, and degenerate segments

package venv

import "testing"

func TestIsSafeRelativeSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		seg  string
		want bool
	}{
		{"plain name", "envA", true},
		{"dotted name", "my.env", true},
		{"unicode name", "环境", true},
		{"empty", "", false},
		{"single dot", ".", false},
		{"parent", "..", false},
		{"embedded parent", "..evil", false},
		{"trailing parent", "evil..", false},
		{"nul byte", "a\x00b", false},
		{"leading slash", "/etc", false},
		{"leading backslash", `\evil`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsSafeRelativeSegment(tt.seg); got != tt.want {
				t.Errorf("IsSafeRelativeSegment(%q) = %v, want %v", tt.seg, got, tt.want)
			}
		})
	}
}

func TestIsSafeRelativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"single segment", "envA", true},
		{"two segments", "nested/envB", true},
		{"empty", "", false},
		{"absolute", "/ws/envA", false},
		{"traversal in middle", "a/../b", false},
		{"traversal segment", "a/..evil", false},
		{"only separators", "//", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsSafeRelativePath(tt.path); got != tt.want {
				t.Errorf("IsSafeRelativePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
