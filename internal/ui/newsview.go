// ABOUTME: NewsModel is a Bubble Tea leaf for the news feed view
// ABOUTME: Item list with glamour-rendered body for the selected entry

package ui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/ruyisdk/ruyi-tui/internal/news"
)

// NewsModel renders the news item list and the selected item's body.
type NewsModel struct {
	items    []news.Item
	cursor   int
	expanded bool
	renderer *MarkdownRenderer
	err      error
	width    int
	height   int
}

// NewNewsModel creates an empty news view.
func NewNewsModel() NewsModel {
	return NewsModel{renderer: NewMarkdownRenderer(), height: 10}
}

// Init returns nil; the app model drives loading.
func (m NewsModel) Init() tea.Cmd {
	return nil
}

// Update handles navigation and load results.
func (m NewsModel) Update(msg tea.Msg) (NewsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case NewsDoneMsg:
		items := make([]news.Item, len(msg.Items))
		copy(items, msg.Items)
		// Newest first; ord ascends with age in the feed.
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Ord > items[j].Ord
		})
		m.items = items
		m.err = nil
		if m.cursor >= len(m.items) {
			m.cursor = max(0, len(m.items)-1)
		}
	case NewsErrMsg:
		m.err = msg.Err
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			m.expanded = !m.expanded
		case "esc":
			m.expanded = false
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height - 4
	}
	return m, nil
}

// Selected returns the news item under the cursor.
func (m NewsModel) Selected() (news.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return news.Item{}, false
	}
	return m.items[m.cursor], true
}

// View renders the list, or the selected item's body when expanded.
func (m NewsModel) View() string {
	if m.err != nil {
		return errorStyle.Render("news unavailable: " + m.err.Error())
	}
	if len(m.items) == 0 {
		return dimStyle.Render("no news items")
	}

	if m.expanded {
		item := m.items[m.cursor]
		body := m.renderer.Render(item.Content, max(20, m.width-4))
		return titleStyle.Render(item.Title) + "\n\n" + body
	}

	var b strings.Builder
	for i, item := range m.items {
		marker := "  "
		if !item.Read {
			marker = activeMarkStyle.Render("* ")
		}
		label := item.Title
		if m.width > 6 {
			label = runewidth.Truncate(label, m.width-6, "…")
		}
		if i == m.cursor {
			label = selectedStyle.Render("> " + label)
		} else {
			label = "  " + label
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(marker + label)
	}
	return b.String()
}
