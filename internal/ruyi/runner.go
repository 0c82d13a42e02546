// ABOUTME: Thin wrapper around the external ruyi CLI binary
// ABOUTME: Captures stdout, stderr, and exit code with context timeouts

package ruyi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/ruyisdk/ruyi-tui/internal/log"
)

// DefaultBinary is the ruyi executable looked up on PATH.
const DefaultBinary = "ruyi"

const defaultTimeout = 60 * time.Second

// Result carries the outcome of one CLI invocation.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner invokes the ruyi CLI. It holds no state beyond configuration and
// is safe for concurrent use.
type Runner struct {
	binary  string
	dir     string
	timeout time.Duration
}

// NewRunner creates a Runner for the given binary (empty means
// DefaultBinary) running in dir.
func NewRunner(binary, dir string) *Runner {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Runner{binary: binary, dir: dir, timeout: defaultTimeout}
}

// SetTimeout overrides the default per-invocation timeout (60s).
func (r *Runner) SetTimeout(d time.Duration) {
	r.timeout = d
}

// Run invokes the CLI with args and returns the captured output. A
// non-zero exit is an error carrying the trimmed stderr; the Result is
// returned alongside so callers can still inspect partial output.
func (r *Runner) Run(ctx context.Context, args ...string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	log.Debug("ruyi: running %s %s", r.binary, strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, fmt.Errorf("ruyi %s: exit %d: %s",
				strings.Join(args, " "), res.ExitCode, strings.TrimSpace(res.Stderr))
		}
		return res, fmt.Errorf("ruyi %s: %w", strings.Join(args, " "), err)
	}
	return res, nil
}

// Version returns the CLI's version line, used to verify the binary is
// installed and callable.
func (r *Runner) Version(ctx context.Context) (string, error) {
	res, err := r.Run(ctx, "--version")
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(res.Stdout, "\n")
	return strings.TrimSpace(line), nil
}
