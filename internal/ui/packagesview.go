// ABOUTME: PackagesModel is a Bubble Tea leaf for the installed/available package table
// ABOUTME: Fuzzy-filterable rows; installed versions highlighted

package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"github.com/ruyisdk/ruyi-tui/internal/ruyi"
)

// PackagesModel renders the repository package list.
type PackagesModel struct {
	packages []ruyi.Package
	visible  []int
	cursor   int
	filter   string
	err      error
	width    int
	height   int
}

// NewPackagesModel creates an empty package view.
func NewPackagesModel() PackagesModel {
	return PackagesModel{height: 10}
}

// Init returns nil; the app model drives loading.
func (m PackagesModel) Init() tea.Cmd {
	return nil
}

// Update handles navigation and load results.
func (m PackagesModel) Update(msg tea.Msg) (PackagesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case PackagesDoneMsg:
		m.packages = msg.Packages
		m.err = nil
		m = m.applyFilter()
	case PackagesErrMsg:
		m.err = msg.Err
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height - 4
	}
	return m, nil
}

// WithFilter sets the fuzzy filter string.
func (m PackagesModel) WithFilter(filter string) PackagesModel {
	m.filter = filter
	return m.applyFilter()
}

// Selected returns the package under the cursor.
func (m PackagesModel) Selected() (ruyi.Package, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return ruyi.Package{}, false
	}
	return m.packages[m.visible[m.cursor]], true
}

func (m PackagesModel) applyFilter() PackagesModel {
	if m.filter == "" {
		m.visible = make([]int, len(m.packages))
		for i := range m.packages {
			m.visible[i] = i
		}
	} else {
		names := make([]string, len(m.packages))
		for i, p := range m.packages {
			names[i] = p.FullName()
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

// View renders the package rows.
func (m PackagesModel) View() string {
	if m.err != nil {
		return errorStyle.Render("packages unavailable: " + m.err.Error())
	}
	if len(m.packages) == 0 {
		return dimStyle.Render("no packages (is the ruyi CLI installed?)")
	}
	if len(m.visible) == 0 {
		return dimStyle.Render("no match for filter " + m.filter)
	}

	var b strings.Builder
	for row, idx := range m.visible {
		p := m.packages[idx]

		versions := make([]string, 0, len(p.Versions))
		installed := false
		for _, v := range p.Versions {
			if v.Installed {
				installed = true
				versions = append(versions, v.Semver+"*")
				continue
			}
			versions = append(versions, v.Semver)
		}

		label := p.FullName() + "  " + strings.Join(versions, ", ")
		if m.width > 6 {
			label = runewidth.Truncate(label, m.width-6, "…")
		}

		var line string
		if row == m.cursor {
			line = selectedStyle.Render("> " + label)
		} else {
			line = "  " + label
		}

		mark := "  "
		if installed {
			mark = activeMarkStyle.Render("● ")
		}

		if row > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(mark + line)
	}
	return b.String()
}
