// ABOUTME: Tests for the CLI runner
// ABOUTME: Uses sh as a stand-in binary to exercise capture and exit handling

package ruyi

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func requireSh(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunner_CapturesStdoutAndStderr(t *testing.T) {
	t.Parallel()
	requireSh(t)

	r := NewRunner("sh", "")
	res, err := r.Run(context.Background(), "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(res.Stdout); got != "out" {
		t.Errorf("Stdout = %q, want %q", got, "out")
	}
	if got := strings.TrimSpace(res.Stderr); got != "err" {
		t.Errorf("Stderr = %q, want %q", got, "err")
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
}

func TestRunner_NonZeroExitIsError(t *testing.T) {
	t.Parallel()
	requireSh(t)

	r := NewRunner("sh", "")
	res, err := r.Run(context.Background(), "-c", "echo broken >&2; exit 3")
	if err == nil {
		t.Fatal("Run() should fail on non-zero exit")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q should carry stderr text", err)
	}
}

func TestRunner_MissingBinary(t *testing.T) {
	t.Parallel()

	r := NewRunner("/nonexistent/ruyi-binary", "")
	if _, err := r.Run(context.Background(), "--version"); err == nil {
		t.Error("Run() with missing binary should fail")
	}
}

func TestRunner_TimeoutKillsCommand(t *testing.T) {
	t.Parallel()
	requireSh(t)

	r := NewRunner("sh", "")
	r.SetTimeout(100 * time.Millisecond)

	start := time.Now()
	_, err := r.Run(context.Background(), "-c", "sleep 30")
	if err == nil {
		t.Fatal("Run() should fail when the timeout fires")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("command ran %v, should have been killed near 100ms", elapsed)
	}
}

func TestRunner_RunsInDir(t *testing.T) {
	t.Parallel()
	requireSh(t)

	dir := t.TempDir()
	// The tempdir may sit behind a symlink; compare resolved paths.
	want, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatal(err)
	}

	r := NewRunner("sh", dir)
	res, err := r.Run(context.Background(), "-c", "pwd -P")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(res.Stdout); got != want {
		t.Errorf("pwd = %q, want %q", got, want)
	}
}
