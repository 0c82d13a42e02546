// ABOUTME: Entry point for the Bubble Tea app; the interactive composition root
// ABOUTME: Builds the controller, shell watcher, and rescan watcher around the program

package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruyisdk/ruyi-tui/internal/log"
	"github.com/ruyisdk/ruyi-tui/internal/terminal"
	"github.com/ruyisdk/ruyi-tui/internal/venv"
)

// Run starts the interactive app and blocks until the user exits. The
// lifecycle controller is assembled here because its session hooks feed
// the tea.Program, which has to exist first; the model shares the
// controller through its shared-state pointer.
func Run(deps Deps) error {
	m := NewAppModel(deps)
	p := tea.NewProgram(m, tea.WithAltScreen())

	unsubStore := deps.Store.Subscribe(func(path string) {
		p.Send(StateChangedMsg{Path: path})
	})
	defer unsubStore()

	shellWatcher := venv.NewShellWatcher(deps.Root, deps.Store)

	ctrl := venv.NewController(venv.ControllerConfig{
		Root:  deps.Root,
		Store: deps.Store,
		OpenSession: func(dir string) (venv.ShellSession, error) {
			sess, err := terminal.New(terminal.Options{
				Name:  "ruyi",
				Shell: deps.Settings.Shell,
				Dir:   dir,
			})
			if err != nil {
				return nil, err
			}
			sess.OnData(func(b []byte) {
				p.Send(TermDataMsg{Data: b})
			})
			return sess, nil
		},
		SwitchDelay: deps.Settings.SwitchDelay(),
		OnSession: func(sess venv.ShellSession) {
			shellWatcher.Attach(sess)
			sess.OnExit(func() {
				p.Send(TermExitMsg{})
			})
		},
		Rescan: func() {
			p.Send(RescanRequestMsg{})
		},
	})
	m.sh.ctrl = ctrl
	defer ctrl.Close()

	rescan, err := venv.NewRescanWatcher(deps.Root, func() {
		p.Send(RescanRequestMsg{})
	})
	if err != nil {
		log.Warn("ui: rescan watcher unavailable: %v", err)
	} else if err := rescan.Start(); err != nil {
		log.Warn("ui: rescan watcher: %v", err)
	} else {
		defer rescan.Stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("bubble tea: %w", err)
	}
	return nil
}
