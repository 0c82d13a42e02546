// ABOUTME: All custom tea.Msg types for the ruyi-tui Bubble Tea app
// ABOUTME: Scan results, state changes, terminal stream, news and package loads

package ui

import (
	"github.com/ruyisdk/ruyi-tui/internal/news"
	"github.com/ruyisdk/ruyi-tui/internal/ruyi"
	"github.com/ruyisdk/ruyi-tui/internal/venv"
)

// --- Scanning ---

// ScanDoneMsg carries a completed workspace scan.
type ScanDoneMsg struct{ Venvs []venv.Info }

// ScanErrMsg carries a failed workspace scan (for example, no workspace).
type ScanErrMsg struct{ Err error }

// RescanRequestMsg asks the app to run a fresh scan. Sent by the fsnotify
// watcher and after venv removal/creation.
type RescanRequestMsg struct{}

// --- Active venv state (sent by the store subscription) ---

// StateChangedMsg carries the new active venv path ("" = none).
type StateChangedMsg struct{ Path string }

// --- Terminal session stream ---

// TermDataMsg carries one chunk of PTY output.
type TermDataMsg struct{ Data []byte }

// TermExitMsg signals that the shell session ended.
type TermExitMsg struct{}

// --- News ---

// NewsDoneMsg carries loaded news items.
type NewsDoneMsg struct{ Items []news.Item }

// NewsErrMsg carries a news load failure.
type NewsErrMsg struct{ Err error }

// --- Packages ---

// PackagesDoneMsg carries the loaded package list.
type PackagesDoneMsg struct{ Packages []ruyi.Package }

// PackagesErrMsg carries a package load failure.
type PackagesErrMsg struct{ Err error }

// --- Operations ---

// StatusMsg carries a transient informational line for the footer.
type StatusMsg struct{ Text string }

// ErrorMsg carries an operation failure for display.
type ErrorMsg struct{ Err error }
