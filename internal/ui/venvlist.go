// ABOUTME: VenvListModel is a Bubble Tea leaf for the filterable venv list
// ABOUTME: Collated name ordering, fuzzy filtering, active-venv marker

package ui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ruyisdk/ruyi-tui/internal/venv"
)

// collator gives a locale-stable ordering for display names; plain byte
// comparison misorders non-ASCII names.
var collator = collate.New(language.Und)

// VenvListModel renders the discovered venvs with the active one marked.
// Value semantics, no mutex, per the Bubble Tea model convention.
type VenvListModel struct {
	root    string
	items   []venv.Info // sorted by display name
	visible []int       // indexes into items after filtering
	cursor  int
	filter  string
	active  string // active venv absolute path, "" when none
	width   int
	height  int
}

// NewVenvListModel creates an empty list for the given workspace root.
func NewVenvListModel(root string) VenvListModel {
	return VenvListModel{root: root, height: 10}
}

// Init returns nil; the app model drives scans.
func (m VenvListModel) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and size changes. Filter editing is
// handled by the app model, which owns input mode.
func (m VenvListModel) Update(msg tea.Msg) (VenvListModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
		case tea.KeyDown:
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height - 4 // tabs + footer + status
	}
	return m, nil
}

// WithVenvs replaces the list contents, sorted by display name.
func (m VenvListModel) WithVenvs(infos []venv.Info) VenvListModel {
	items := make([]venv.Info, len(infos))
	copy(items, infos)
	sort.SliceStable(items, func(i, j int) bool {
		return collator.CompareString(items[i].Name, items[j].Name) < 0
	})
	m.items = items
	return m.applyFilter()
}

// WithActive marks the venv at the given absolute path as active.
func (m VenvListModel) WithActive(path string) VenvListModel {
	m.active = path
	return m
}

// WithFilter sets the fuzzy filter string.
func (m VenvListModel) WithFilter(filter string) VenvListModel {
	m.filter = filter
	return m.applyFilter()
}

// Selected returns the venv under the cursor.
func (m VenvListModel) Selected() (venv.Info, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return venv.Info{}, false
	}
	return m.items[m.visible[m.cursor]], true
}

// Len returns the number of visible entries.
func (m VenvListModel) Len() int {
	return len(m.visible)
}

func (m VenvListModel) applyFilter() VenvListModel {
	if m.filter == "" {
		m.visible = make([]int, len(m.items))
		for i := range m.items {
			m.visible[i] = i
		}
	} else {
		names := make([]string, len(m.items))
		for i, it := range m.items {
			names[i] = it.Name
		}
		matches := fuzzy.Find(m.filter, names)
		m.visible = make([]int, len(matches))
		for i, match := range matches {
			m.visible[i] = match.Index
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(0, len(m.visible)-1)
	}
	return m
}

// View renders the list.
func (m VenvListModel) View() string {
	if len(m.items) == 0 {
		return dimStyle.Render("no virtual environments found (press c to create one)")
	}
	if len(m.visible) == 0 {
		return dimStyle.Render("no match for filter " + m.filter)
	}

	var b strings.Builder
	for row, idx := range m.visible {
		it := m.items[idx]

		mark := "  "
		if m.active != "" && venv.SamePath(m.active, it.Path, m.root) {
			mark = activeMarkStyle.Render("● ")
		}

		// Truncate before styling; ANSI escapes would skew the width math.
		label := it.Name + "  " + it.Path
		if m.width > 6 {
			label = runewidth.Truncate(label, m.width-6, "…")
		}

		var line string
		if row == m.cursor {
			line = selectedStyle.Render("> " + label)
		} else {
			line = "  " + label
		}

		if row > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(mark + line)
	}
	return b.String()
}
