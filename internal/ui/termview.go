// ABOUTME: TermModel is a Bubble Tea leaf showing the shell session's output tail
// ABOUTME: Keystrokes are forwarded to the PTY; escape returns focus to the app

package ui

import (
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const termScrollback = 64 * 1024

// ansiRE strips escape sequences for display inside the pane. The pane is
// a tail view, not a full terminal emulator; cursor-addressed output will
// look flat here and that is accepted.
var ansiRE = regexp.MustCompile(`\x1b(\[[0-9;?]*[a-zA-Z]|\][^\x07]*\x07|[()][0-9A-B])`)

// termWriter is the slice of the terminal session the pane needs for
// input forwarding.
type termWriter interface {
	Write(p []byte) (int, error)
}

// TermModel renders the PTY output tail and forwards typed input.
type TermModel struct {
	buf    []byte
	open   bool
	width  int
	height int
}

// NewTermModel creates an empty terminal pane.
func NewTermModel() TermModel {
	return TermModel{height: 10}
}

// Init returns nil.
func (m TermModel) Init() tea.Cmd {
	return nil
}

// Update appends output chunks and tracks session state.
func (m TermModel) Update(msg tea.Msg) (TermModel, tea.Cmd) {
	switch msg := msg.(type) {
	case TermDataMsg:
		m.open = true
		m.buf = append(m.buf, msg.Data...)
		if len(m.buf) > termScrollback {
			m.buf = m.buf[len(m.buf)-termScrollback:]
		}
	case TermExitMsg:
		m.open = false
		m.buf = append(m.buf, []byte("\n[session ended]\n")...)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height - 4
	}
	return m, nil
}

// Forward translates a key press into bytes for the PTY. It returns false
// for keys the pane does not forward (escape, which leaves the pane).
func (m TermModel) Forward(w termWriter, msg tea.KeyMsg) bool {
	if w == nil {
		return false
	}

	var b []byte
	switch msg.Type {
	case tea.KeyEsc:
		return false
	case tea.KeyEnter:
		b = []byte{'\r'}
	case tea.KeyBackspace:
		b = []byte{0x7f}
	case tea.KeyTab:
		b = []byte{'\t'}
	case tea.KeyCtrlC:
		b = []byte{0x03}
	case tea.KeyCtrlD:
		b = []byte{0x04}
	case tea.KeyCtrlU:
		b = []byte{0x15}
	case tea.KeyCtrlL:
		b = []byte{0x0c}
	case tea.KeyUp:
		b = []byte("\x1b[A")
	case tea.KeyDown:
		b = []byte("\x1b[B")
	case tea.KeyRight:
		b = []byte("\x1b[C")
	case tea.KeyLeft:
		b = []byte("\x1b[D")
	case tea.KeySpace:
		b = []byte{' '}
	case tea.KeyRunes:
		b = []byte(string(msg.Runes))
	default:
		return true // swallow unmapped keys rather than leaking them
	}

	_, _ = w.Write(b)
	return true
}

// View renders the last lines of output that fit the pane.
func (m TermModel) View() string {
	if len(m.buf) == 0 {
		if m.open {
			return dimStyle.Render("shell session open, no output yet")
		}
		return dimStyle.Render("no shell session (activate a venv to open one)")
	}

	text := ansiRE.ReplaceAllString(string(m.buf), "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	keep := m.height
	if keep < 1 {
		keep = 10
	}
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.Join(lines, "\n")
}
