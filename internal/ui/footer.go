// ABOUTME: FooterModel is a Bubble Tea leaf that renders the one-line status bar
// ABOUTME: Workspace path, active venv, session indicator, transient status text

package ui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	runewidth "github.com/mattn/go-runewidth"
)

// FooterModel renders the status bar at the bottom of the screen.
type FooterModel struct {
	root    string
	active  string // active venv absolute path, "" when none
	session bool
	status  string // transient message, overrides the hint area
	width   int
}

// NewFooterModel creates a footer for the given workspace root.
func NewFooterModel(root string) FooterModel {
	return FooterModel{root: root}
}

// Init returns nil; no commands needed for a leaf model.
func (m FooterModel) Init() tea.Cmd {
	return nil
}

// Update tracks state, session, and status messages.
func (m FooterModel) Update(msg tea.Msg) (FooterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case StateChangedMsg:
		m.active = msg.Path
		if msg.Path != "" {
			m.session = true
		}
	case TermExitMsg:
		m.session = false
	case TermDataMsg:
		m.session = true
	case StatusMsg:
		m.status = msg.Text
	case ErrorMsg:
		// Kept plain; the footer styles the whole line and truncation
		// math must not see escape sequences.
		m.status = "error: " + msg.Err.Error()
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// View renders the single footer line.
func (m FooterModel) View() string {
	venvPart := "no venv"
	if m.active != "" {
		venvPart = "venv: " + filepath.Base(m.active)
	}

	shellPart := "shell: -"
	if m.session {
		shellPart = "shell: open"
	}

	right := m.status
	if right == "" {
		right = "tab: views  enter: activate  d: deactivate  x: remove  q: quit"
	}

	left := " " + filepath.Base(m.root) + "  " + venvPart + "  " + shellPart + "  "
	line := left + right
	if m.width > 2 {
		line = runewidth.Truncate(line, m.width, "…")
		pad := m.width - runewidth.StringWidth(line)
		for pad > 0 {
			line += " "
			pad--
		}
	}
	return footerStyle.Render(line)
}
