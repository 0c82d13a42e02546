// ABOUTME: Interactive POSIX shell session hosted on a PTY (creack/pty)
// ABOUTME: Fire-and-forget line sends, raw keystroke forwarding, exit and command taps

package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/creack/pty"
	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/ruyisdk/ruyi-tui/internal/eventbus"
	"github.com/ruyisdk/ruyi-tui/internal/log"
)

// DefaultShell is the shell spawned for sessions. An explicit POSIX shell,
// never the user's login shell: the activation script's syntax must be
// supported regardless of what the user runs interactively.
const DefaultShell = "/bin/sh"

// ErrClosed is returned by Send and Write after the shell has exited.
var ErrClosed = errors.New("terminal: session closed")

// Options configures a Session. Dir is required.
type Options struct {
	Name  string // display name, defaults to "ruyi"
	Shell string // shell binary, defaults to DefaultShell
	Dir   string // working directory for the shell
	Cols  uint16 // initial size; zero means size of the controlling terminal
	Rows  uint16
}

// Session owns one interactive shell under a PTY. At most one session
// exists per application run; the lifecycle controller creates it lazily
// and drops it when the shell exits.
type Session struct {
	id   string
	name string
	cmd  *exec.Cmd
	ptmx *os.File

	exitBus *eventbus.Bus[struct{}]
	cmdBus  *eventbus.Bus[string]
	dataBus *eventbus.Bus[[]byte]

	mu     sync.Mutex
	line   []byte // pending user-typed input, split on CR into command lines
	closed bool
}

// New spawns the shell under a fresh PTY rooted at opts.Dir. An empty Dir
// fails fast with no process spawned: a session must never start with an
// undefined working directory.
func New(opts Options) (*Session, error) {
	if opts.Dir == "" {
		return nil, errors.New("terminal: no working directory for shell session")
	}
	shell := opts.Shell
	if shell == "" {
		shell = DefaultShell
	}
	name := opts.Name
	if name == "" {
		name = "ruyi"
	}

	cols, rows := opts.Cols, opts.Rows
	if cols == 0 || rows == 0 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			cols, rows = uint16(w), uint16(h)
		} else {
			cols, rows = 80, 24
		}
	}

	cmd := exec.Command(shell, "-i")
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: rows, Cols: cols})
	if err != nil {
		return nil, fmt.Errorf("terminal: starting %s: %w", shell, err)
	}

	s := &Session{
		id:      uuid.NewString(),
		name:    name,
		cmd:     cmd,
		ptmx:    ptmx,
		exitBus: eventbus.New[struct{}](),
		cmdBus:  eventbus.New[string](),
		dataBus: eventbus.New[[]byte](),
	}
	go s.readLoop()
	go s.waitLoop()

	log.Debug("terminal: session %s started (%s in %s)", s.id, shell, opts.Dir)
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Name returns the session's display name.
func (s *Session) Name() string { return s.name }

// Running reports whether the shell process is still alive.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Send queues one command line to the shell. There is no completion or
// success signal: the shell is a human-facing terminal, not a batch
// executor, and queued input cannot be cancelled. The line is reported on
// the command tap like user-typed input.
func (s *Session) Send(line string) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if _, err := s.ptmx.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("terminal: sending input: %w", err)
	}
	s.cmdBus.Publish(strings.TrimSpace(line))
	return nil
}

// Write forwards raw user keystrokes to the PTY, tapping completed lines
// for command introspection.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}

	n, err := s.ptmx.Write(p)
	if n > 0 {
		s.tapInput(p[:n])
	}
	if err != nil {
		return n, fmt.Errorf("terminal: writing input: %w", err)
	}
	return n, nil
}

// Resize updates the PTY dimensions.
func (s *Session) Resize(cols, rows uint16) error {
	if err := pty.Setsize(s.ptmx, &pty.Winsize{Rows: rows, Cols: cols}); err != nil {
		return fmt.Errorf("terminal: resizing: %w", err)
	}
	return nil
}

// OnExit registers a callback fired once when the shell process ends,
// whether the user typed exit, the pane was closed, or Close was called.
func (s *Session) OnExit(fn func()) func() {
	return s.exitBus.Subscribe(func(struct{}) { fn() })
}

// OnCommand registers a callback for completed command lines: every
// programmatic Send and every user-typed line terminated by Enter, verbatim
// after whitespace trimming. This is best-effort introspection over a raw
// byte stream; editing beyond backspace (cursor movement, history recall)
// is not reconstructed.
func (s *Session) OnCommand(fn func(line string)) func() {
	return s.cmdBus.Subscribe(fn)
}

// OnData registers a callback for PTY output chunks.
func (s *Session) OnData(fn func(p []byte)) func() {
	return s.dataBus.Subscribe(fn)
}

// Close terminates the shell process. The exit callback fires from the
// wait goroutine once the process is reaped.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if s.cmd.Process != nil {
		// The shell may exit on its own between the closed check and the
		// kill; that still is the outcome Close wants.
		if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("terminal: closing session: %w", err)
		}
	}
	return nil
}

// tapInput accumulates user keystrokes into lines for the command tap.
func (s *Session) tapInput(p []byte) {
	var done []string

	s.mu.Lock()
	for _, b := range p {
		switch b {
		case '\r', '\n':
			if len(s.line) > 0 {
				done = append(done, string(s.line))
				s.line = s.line[:0]
			}
		case 0x7f, '\b':
			if len(s.line) > 0 {
				s.line = s.line[:len(s.line)-1]
			}
		case 0x03, 0x15: // ^C, ^U discard the pending line
			s.line = s.line[:0]
		default:
			if b == '\t' || b >= 0x20 {
				s.line = append(s.line, b)
			}
		}
	}
	s.mu.Unlock()

	for _, l := range done {
		s.cmdBus.Publish(strings.TrimSpace(l))
	}
}

func (s *Session) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.dataBus.Publish(chunk)
		}
		if err != nil {
			// EIO when the slave side goes away; the wait loop handles
			// the rest.
			return
		}
	}
}

func (s *Session) waitLoop() {
	_ = s.cmd.Wait()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.ptmx.Close()
	log.Debug("terminal: session %s exited", s.id)
	s.exitBus.Publish(struct{}{})
}
