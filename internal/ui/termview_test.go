// ABOUTME: Tests for the terminal pane model
// ABOUTME: Key-to-byte forwarding, scrollback bounding, ANSI stripping

package ui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type recordingWriter struct {
	buf bytes.Buffer
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func TestTermForward_MapsKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want string
	}{
		{"runes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ls")}, "ls"},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, "\r"},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, "\x7f"},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, "\x03"},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, " "},
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, "\x1b[A"},
	}

	m := NewTermModel()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := &recordingWriter{}
			if !m.Forward(w, tt.msg) {
				t.Fatal("Forward() = false, want key consumed")
			}
			if got := w.buf.String(); got != tt.want {
				t.Errorf("wrote %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTermForward_EscapeLeavesPane(t *testing.T) {
	t.Parallel()

	m := NewTermModel()
	w := &recordingWriter{}
	if m.Forward(w, tea.KeyMsg{Type: tea.KeyEsc}) {
		t.Error("Forward(esc) = true, want false so the app regains focus")
	}
	if w.buf.Len() != 0 {
		t.Errorf("escape wrote %q to the PTY", w.buf.String())
	}
}

func TestTermForward_NilWriter(t *testing.T) {
	t.Parallel()

	m := NewTermModel()
	if m.Forward(nil, tea.KeyMsg{Type: tea.KeyEnter}) {
		t.Error("Forward() with no session should report false")
	}
}

func TestTermUpdate_ScrollbackBounded(t *testing.T) {
	t.Parallel()

	m := NewTermModel()
	chunk := bytes.Repeat([]byte("x"), 10*1024)
	for range 10 {
		m, _ = m.Update(TermDataMsg{Data: chunk})
	}

	if len(m.buf) > termScrollback {
		t.Errorf("buffer holds %d bytes, cap is %d", len(m.buf), termScrollback)
	}
}

func TestTermView_StripsANSI(t *testing.T) {
	t.Parallel()

	m := NewTermModel()
	m, _ = m.Update(TermDataMsg{Data: []byte("\x1b[31mred text\x1b[0m\r\nplain")})

	got := m.View()
	if strings.Contains(got, "\x1b") {
		t.Errorf("View() = %q, want escapes stripped", got)
	}
	if !strings.Contains(got, "red text") || !strings.Contains(got, "plain") {
		t.Errorf("View() = %q, want the text kept", got)
	}
}

func TestTermUpdate_ExitNote(t *testing.T) {
	t.Parallel()

	m := NewTermModel()
	m, _ = m.Update(TermDataMsg{Data: []byte("bye")})
	m, _ = m.Update(TermExitMsg{})

	if !strings.Contains(m.View(), "[session ended]") {
		t.Errorf("View() = %q, want session-ended note", m.View())
	}
}
