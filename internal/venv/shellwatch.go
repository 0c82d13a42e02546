// ABOUTME: Reconciles manually typed activation/deactivation commands with the state store
// ABOUTME: Best-effort parsing of command lines reported by the terminal session

package venv

import (
	"regexp"
	"strings"

	"github.com/ruyisdk/ruyi-tui/internal/log"
)

// activationRE matches `source <path>/bin/ruyi-activate` (and the `.`
// alias), with or without quoting around the script path.
var activationRE = regexp.MustCompile(`^(?:source|\.)\s+"?(.+?)[/\\]bin[/\\]` + MarkerFile + `"?\s*$`)

// ShellWatcher observes executed command lines on the shell session and
// mirrors manual activate/deactivate into the state store. Without it the
// store silently diverges whenever the user bypasses the UI and types into
// the terminal. Sessions without command introspection simply never attach
// a watcher; the store then only reflects UI-driven changes.
type ShellWatcher struct {
	root  string
	store *StateStore
}

// NewShellWatcher creates a watcher resolving relative venv paths against
// root.
func NewShellWatcher(root string, store *StateStore) *ShellWatcher {
	return &ShellWatcher{root: root, store: store}
}

// Attach subscribes the watcher to a session's command tap and returns
// the unsubscribe function.
func (w *ShellWatcher) Attach(sess ShellSession) func() {
	return sess.OnCommand(w.Observe)
}

// Observe inspects one completed command line. Exact DeactivationCommand
// clears the store; an activation-script source sets it to the resolved
// venv path; anything else is ignored. The store's own deduplication makes
// it harmless that UI-driven sends are observed here too.
func (w *ShellWatcher) Observe(line string) {
	line = strings.TrimSpace(line)
	if line == DeactivationCommand {
		w.store.SetCurrent("")
		return
	}
	if p, ok := parseActivation(line); ok {
		abs := AbsPath(p, w.root)
		log.Debug("shell watcher: observed activation of %s", abs)
		w.store.SetCurrent(abs)
	}
}

// parseActivation extracts the venv path from an activation command line.
func parseActivation(line string) (string, bool) {
	m := activationRE.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	p := strings.Trim(m[1], `"`)
	if p == "" {
		return "", false
	}
	return p, true
}
