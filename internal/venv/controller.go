// ABOUTME: Lifecycle controller for activate, deactivate, switch, and remove
// ABOUTME: Drives the shell session and the state store; owns the switch ordering rule

package venv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ruyisdk/ruyi-tui/internal/log"
	"github.com/ruyisdk/ruyi-tui/internal/workspace"
)

var (
	// ErrActiveVenv is returned by Remove when the target is the active
	// venv. Deactivate first.
	ErrActiveVenv = errors.New("environment is currently active")

	// ErrNotActive is returned by Deactivate when no venv is active.
	ErrNotActive = errors.New("no environment is active")
)

// DefaultSwitchDelay is the pause between the deactivation and activation
// sends when switching venvs. See ControllerConfig.SwitchDelay.
const DefaultSwitchDelay = 100 * time.Millisecond

// DeactivationCommand unwinds the active venv's shell modifications. The
// function is defined by the activation script itself.
const DeactivationCommand = "ruyi-deactivate"

// ActivationCommand returns the line sent to the shell to enter the venv
// at the given absolute path.
func ActivationCommand(abs string) string {
	return fmt.Sprintf("source %q", filepath.Join(abs, "bin", MarkerFile))
}

// ShellSession is the slice of the terminal session the controller needs.
type ShellSession interface {
	Send(line string) error
	OnExit(fn func()) func()
	OnCommand(fn func(line string)) func()
	Close() error
}

// SessionFactory opens a shell session rooted at dir.
type SessionFactory func(dir string) (ShellSession, error)

// ControllerConfig wires a Controller. Root, Store, and OpenSession are
// required.
type ControllerConfig struct {
	Root        string
	Store       *StateStore
	OpenSession SessionFactory

	// SwitchDelay is the pause between deactivate and activate on a
	// switch. Zero means DefaultSwitchDelay. The delay relies on the
	// terminal serializing queued input lines; it is a best-effort
	// mitigation for slow shells, not an ordering guarantee.
	SwitchDelay time.Duration

	// OnSession, when set, is called once for each newly opened session,
	// before any command is sent to it. The composition root uses this to
	// attach the shell watcher and UI output taps.
	OnSession func(ShellSession)

	// Rescan, when set, is called after a successful Remove.
	Rescan func()
}

// Controller orchestrates venv lifecycle operations over one lazily
// created shell session and one state store. At most one venv is active
// at a time; whenever no session exists, the store is empty (there is no
// shell to have run an activation script in).
type Controller struct {
	root  string
	store *StateStore
	open  SessionFactory
	delay time.Duration

	onSession func(ShellSession)
	rescan    func()

	// op serializes lifecycle operations end to end, from the state read
	// through the shell sends to the store update. The TUI runs each
	// operation on its own goroutine; without this, two activations can
	// both observe "nothing active" and source two scripts with no
	// deactivation between them.
	op sync.Mutex

	mu      sync.Mutex // guards the session handle only
	session ShellSession
}

// NewController builds a Controller from cfg.
func NewController(cfg ControllerConfig) *Controller {
	delay := cfg.SwitchDelay
	if delay <= 0 {
		delay = DefaultSwitchDelay
	}
	return &Controller{
		root:      cfg.Root,
		store:     cfg.Store,
		open:      cfg.OpenSession,
		delay:     delay,
		onSession: cfg.OnSession,
		rescan:    cfg.Rescan,
	}
}

// Activate makes target the active venv. Reactivating the current venv is
// an informational no-op: no commands are sent and no notification fires.
// Switching from another venv sends the deactivation command first, waits
// SwitchDelay so the shell can unwind the previous environment's PATH
// edits, then sends the activation command. Sourcing a second activation
// script without that unwinding corrupts the shell environment
// cumulatively.
func (c *Controller) Activate(target string) error {
	if target == "" {
		return fmt.Errorf("activate: empty target")
	}
	abs := AbsPath(target, c.root)

	c.op.Lock()
	defer c.op.Unlock()

	current := c.store.Current()
	if current != "" && SamePath(current, abs, c.root) {
		log.Info("venv %s is already active", abs)
		return nil
	}

	sess, err := c.ensureSession()
	if err != nil {
		return err
	}

	if current != "" {
		if err := sess.Send(DeactivationCommand); err != nil {
			return fmt.Errorf("deactivating %s: %w", current, err)
		}
		time.Sleep(c.delay)
	}
	if err := sess.Send(ActivationCommand(abs)); err != nil {
		return fmt.Errorf("activating %s: %w", abs, err)
	}
	c.store.SetCurrent(abs)
	return nil
}

// Deactivate unwinds the active venv. With no active venv it sends
// nothing and returns ErrNotActive for the caller to report.
func (c *Controller) Deactivate() error {
	c.op.Lock()
	defer c.op.Unlock()

	if c.store.Current() == "" {
		return ErrNotActive
	}

	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		// Invariant says this cannot happen (no session forces the store
		// empty), but hold the line if it does.
		c.store.SetCurrent("")
		return ErrNotActive
	}

	if err := sess.Send(DeactivationCommand); err != nil {
		return fmt.Errorf("deactivating: %w", err)
	}
	c.store.SetCurrent("")
	return nil
}

// Remove deletes target's directory tree recursively. The active venv is
// protected: deactivate first. There is no trash and no recovery; a
// deletion failure is surfaced verbatim with no partial cleanup assumed.
func (c *Controller) Remove(target string) error {
	if target == "" {
		return fmt.Errorf("remove: empty target")
	}
	abs := AbsPath(target, c.root)

	c.op.Lock()
	defer c.op.Unlock()

	if cur := c.store.Current(); cur != "" && SamePath(cur, abs, c.root) {
		return fmt.Errorf("remove %s: %w", abs, ErrActiveVenv)
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("remove %s: %w", abs, err)
	}
	log.Info("removed venv %s", abs)
	if c.rescan != nil {
		c.rescan()
	}
	return nil
}

// Session returns the live shell session, or nil when none is open.
func (c *Controller) Session() ShellSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Close tears down the session if one is open. The exit handler clears
// the store when the shell actually goes away.
func (c *Controller) Close() error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return nil
	}
	return sess.Close()
}

// ensureSession returns the open session, creating it on first use. A
// missing workspace root fails fast with no shell mutation: a terminal
// must never be created with an undefined working directory.
func (c *Controller) ensureSession() (ShellSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return c.session, nil
	}
	if c.root == "" {
		return nil, fmt.Errorf("opening shell session: %w", workspace.ErrNoWorkspace)
	}

	sess, err := c.open(c.root)
	if err != nil {
		return nil, fmt.Errorf("opening shell session: %w", err)
	}
	c.session = sess
	sess.OnExit(func() { c.handleExit(sess) })
	if c.onSession != nil {
		c.onSession(sess)
	}
	return sess, nil
}

// handleExit fires when the shell process ends, however that happened:
// user typed exit, the pane was closed, or Close was called. The session
// handle is dropped and the store forced empty; nothing can be active
// without a shell. Taking the operation lock makes the reset wait out
// any in-flight activation instead of interleaving with it.
func (c *Controller) handleExit(sess ShellSession) {
	c.op.Lock()
	defer c.op.Unlock()

	c.mu.Lock()
	if c.session == sess {
		c.session = nil
	}
	c.mu.Unlock()
	c.store.SetCurrent("")
}
