// ABOUTME: Tests for the PTY-backed shell session
// ABOUTME: Spawn guards, input-line tapping, and live echo/exit where a shell exists

package terminal

import (
	"os/exec"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ruyisdk/ruyi-tui/internal/eventbus"
)

func TestNew_RequiresDir(t *testing.T) {
	t.Parallel()

	if _, err := New(Options{}); err == nil {
		t.Error("New() without Dir should fail")
	}
}

func TestNew_MissingShellFails(t *testing.T) {
	t.Parallel()

	_, err := New(Options{
		Dir:   t.TempDir(),
		Shell: "/nonexistent/shell-binary",
		Cols:  80,
		Rows:  24,
	})
	if err == nil {
		t.Error("New() with missing shell binary should fail")
	}
}

// tapSession builds a Session shell-free for exercising the input tap.
func tapSession() *Session {
	return &Session{
		cmdBus:  eventbus.New[string](),
		exitBus: eventbus.New[struct{}](),
		dataBus: eventbus.New[[]byte](),
	}
}

func TestTapInput_LineOnEnter(t *testing.T) {
	t.Parallel()

	s := tapSession()
	var lines []string
	s.OnCommand(func(l string) { lines = append(lines, l) })

	s.tapInput([]byte("echo hi\r"))

	if len(lines) != 1 || lines[0] != "echo hi" {
		t.Errorf("lines = %v, want [echo hi]", lines)
	}
}

func TestTapInput_BackspaceEditsLine(t *testing.T) {
	t.Parallel()

	s := tapSession()
	var lines []string
	s.OnCommand(func(l string) { lines = append(lines, l) })

	s.tapInput([]byte("lx"))
	s.tapInput([]byte{0x7f})
	s.tapInput([]byte("s\r"))

	if len(lines) != 1 || lines[0] != "ls" {
		t.Errorf("lines = %v, want [ls]", lines)
	}
}

func TestTapInput_CtrlCDiscardsPending(t *testing.T) {
	t.Parallel()

	s := tapSession()
	var lines []string
	s.OnCommand(func(l string) { lines = append(lines, l) })

	s.tapInput([]byte("rm -rf /"))
	s.tapInput([]byte{0x03}) // ^C
	s.tapInput([]byte("pwd\r"))

	if len(lines) != 1 || lines[0] != "pwd" {
		t.Errorf("lines = %v, want [pwd]", lines)
	}
}

func TestTapInput_SplitAcrossWrites(t *testing.T) {
	t.Parallel()

	s := tapSession()
	var lines []string
	s.OnCommand(func(l string) { lines = append(lines, l) })

	s.tapInput([]byte("ec"))
	s.tapInput([]byte("ho ok"))
	s.tapInput([]byte("\r"))

	if len(lines) != 1 || lines[0] != "echo ok" {
		t.Errorf("lines = %v, want [echo ok]", lines)
	}
}

func TestTapInput_EmptyEnterIgnored(t *testing.T) {
	t.Parallel()

	s := tapSession()
	var lines []string
	s.OnCommand(func(l string) { lines = append(lines, l) })

	s.tapInput([]byte("\r\r\n"))

	if len(lines) != 0 {
		t.Errorf("lines = %v, want none for empty enters", lines)
	}
}

func TestSession_Live(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	s, err := New(Options{
		Dir:  t.TempDir(),
		Cols: 80,
		Rows: 24,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Close()

	var mu sync.Mutex
	var out strings.Builder
	s.OnData(func(p []byte) {
		mu.Lock()
		out.Write(p)
		mu.Unlock()
	})

	var commands []string
	s.OnCommand(func(l string) {
		mu.Lock()
		commands = append(commands, l)
		mu.Unlock()
	})

	exited := make(chan struct{})
	s.OnExit(func() { close(exited) })

	if err := s.Send("echo ruyi-roundtrip"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		mu.Lock()
		seen := strings.Contains(out.String(), "ruyi-roundtrip")
		mu.Unlock()
		if seen {
			break
		}
		select {
		case <-deadline:
			t.Fatal("echo output never arrived")
		case <-time.After(20 * time.Millisecond):
		}
	}

	mu.Lock()
	tapped := len(commands) > 0 && commands[0] == "echo ruyi-roundtrip"
	mu.Unlock()
	if !tapped {
		t.Errorf("command tap missed the sent line: %v", commands)
	}

	if err := s.Send("exit"); err != nil {
		t.Fatalf("Send(exit) error = %v", err)
	}
	select {
	case <-exited:
	case <-time.After(5 * time.Second):
		t.Fatal("exit callback never fired")
	}

	if s.Running() {
		t.Error("Running() = true after exit")
	}
	if err := s.Send("echo after"); err != ErrClosed {
		t.Errorf("Send() after exit error = %v, want ErrClosed", err)
	}
}

func TestClose_AfterNaturalExit(t *testing.T) {
	t.Parallel()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	cmd := exec.Command("sh", "-c", "exit 0")
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Wait(); err != nil {
		t.Fatal(err)
	}

	// The shell is reaped but the session has not marked itself closed
	// yet; Close must not report the already-dead process as a failure.
	s := &Session{cmd: cmd}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v, want nil for an already-exited shell", err)
	}
}

func TestSession_CloseFiresExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	s, err := New(Options{Dir: t.TempDir(), Cols: 80, Rows: 24})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	exited := make(chan struct{})
	s.OnExit(func() { close(exited) })

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	select {
	case <-exited:
	case <-time.After(5 * time.Second):
		t.Fatal("exit callback never fired after Close")
	}
}
