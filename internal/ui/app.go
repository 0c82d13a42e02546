// ABOUTME: AppModel is the root Bubble Tea model: tabs, input modes, command dispatch
// ABOUTME: Composes the venv list, package table, news feed, terminal pane, and footer

package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ruyisdk/ruyi-tui/internal/config"
	"github.com/ruyisdk/ruyi-tui/internal/news"
	"github.com/ruyisdk/ruyi-tui/internal/ruyi"
	"github.com/ruyisdk/ruyi-tui/internal/venv"
)

// Deps provides the app's external collaborators. The lifecycle controller
// is built inside Run, because its session callbacks need the tea.Program.
type Deps struct {
	Root     string
	Settings *config.Settings
	Store    *venv.StateStore
	Scanner  *venv.Scanner
	Runner   *ruyi.Runner
}

type tabID int

const (
	tabVenvs tabID = iota
	tabPackages
	tabNews
	tabTerminal
	tabCount
)

var tabNames = [tabCount]string{"Venvs", "Packages", "News", "Terminal"}

type inputMode int

const (
	inputNone inputMode = iota
	inputFilter
	inputCreate
)

// shared carries pointers that outlive model value copies. NewAppModel
// allocates it once; Run fills in the controller after the tea.Program
// exists, because the controller's session hooks feed the program.
type shared struct {
	ctrl *venv.Controller
}

// AppModel is the root model.
type AppModel struct {
	deps Deps
	sh   *shared

	tab   tabID
	mode  inputMode
	input string

	venvs  VenvListModel
	pkgs   PackagesModel
	news   NewsModel
	term   TermModel
	footer FooterModel

	width  int
	height int
}

// NewAppModel builds the root model from deps.
func NewAppModel(deps Deps) AppModel {
	return AppModel{
		deps:   deps,
		sh:     &shared{},
		venvs:  NewVenvListModel(deps.Root),
		pkgs:   NewPackagesModel(),
		news:   NewNewsModel(),
		term:   NewTermModel(),
		footer: NewFooterModel(deps.Root),
	}
}

// Init kicks off the initial scan and the news/package loads.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.scanCmd(), m.newsCmd(), m.packagesCmd())
}

// Update routes messages to the focused view and handles global keys.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.venvs, _ = m.venvs.Update(msg)
		m.pkgs, _ = m.pkgs.Update(msg)
		m.news, _ = m.news.Update(msg)
		m.term, _ = m.term.Update(msg)
		m.footer, _ = m.footer.Update(msg)
		return m, nil

	case ScanDoneMsg:
		m.venvs = m.venvs.WithVenvs(msg.Venvs)
		return m, nil
	case ScanErrMsg:
		m.footer, _ = m.footer.Update(ErrorMsg{Err: msg.Err})
		return m, nil
	case RescanRequestMsg:
		return m, m.scanCmd()

	case StateChangedMsg:
		m.venvs = m.venvs.WithActive(msg.Path)
		m.footer, _ = m.footer.Update(msg)
		return m, nil

	case TermDataMsg, TermExitMsg:
		m.term, _ = m.term.Update(msg)
		m.footer, _ = m.footer.Update(msg)
		return m, nil

	case NewsDoneMsg, NewsErrMsg:
		m.news, _ = m.news.Update(msg)
		return m, nil
	case PackagesDoneMsg, PackagesErrMsg:
		m.pkgs, _ = m.pkgs.Update(msg)
		return m, nil

	case StatusMsg, ErrorMsg:
		m.footer, _ = m.footer.Update(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text-input modes capture everything except enter and escape.
	if m.mode != inputNone {
		return m.handleInputKey(msg)
	}

	// Terminal pane owns the keyboard while focused.
	if m.tab == tabTerminal {
		if m.term.Forward(m.sessionWriter(), msg) {
			return m, nil
		}
		m.tab = tabVenvs
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % tabCount
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + tabCount - 1) % tabCount
		return m, nil
	case "r":
		return m, m.scanCmd()
	case "/":
		if m.tab == tabVenvs || m.tab == tabPackages {
			m.mode = inputFilter
			m.input = ""
		}
		return m, nil
	}

	switch m.tab {
	case tabVenvs:
		return m.handleVenvKey(msg)
	case tabPackages:
		return m.handlePackageKey(msg)
	case tabNews:
		return m.handleNewsKey(msg)
	}
	return m, nil
}

func (m AppModel) handleVenvKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if info, ok := m.venvs.Selected(); ok {
			return m, m.activateCmd(info)
		}
	case "d":
		return m, m.deactivateCmd()
	case "x":
		if info, ok := m.venvs.Selected(); ok {
			return m, m.removeCmd(info)
		}
	case "c":
		m.mode = inputCreate
		m.input = ""
		m.footer, _ = m.footer.Update(StatusMsg{Text: "create venv: <profile> <dir>, enter to confirm"})
		return m, nil
	}
	var cmd tea.Cmd
	m.venvs, cmd = m.venvs.Update(msg)
	return m, cmd
}

func (m AppModel) handlePackageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i":
		if p, ok := m.pkgs.Selected(); ok {
			return m, m.installCmd(p.FullName())
		}
	case "u":
		if p, ok := m.pkgs.Selected(); ok {
			return m, m.uninstallCmd(p.FullName())
		}
	}
	var cmd tea.Cmd
	m.pkgs, cmd = m.pkgs.Update(msg)
	return m, cmd
}

func (m AppModel) handleNewsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "m" {
		if item, ok := m.news.Selected(); ok {
			return m, m.markReadCmd(item.ID)
		}
	}
	var cmd tea.Cmd
	m.news, cmd = m.news.Update(msg)
	return m, cmd
}

func (m AppModel) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = inputNone
		m.input = ""
		m.venvs = m.venvs.WithFilter("")
		m.pkgs = m.pkgs.WithFilter("")
		return m, nil
	case tea.KeyEnter:
		if m.mode == inputCreate {
			fields := strings.Fields(m.input)
			m.mode = inputNone
			m.input = ""
			if len(fields) != 2 {
				m.footer, _ = m.footer.Update(ErrorMsg{Err: fmt.Errorf("create venv: expected <profile> <dir>")})
				return m, nil
			}
			return m, tea.Sequence(m.createCmd(fields[0], fields[1]), m.scanCmd())
		}
		m.mode = inputNone // keep the applied filter
		return m, nil
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	default:
		return m, nil
	}

	if m.mode == inputFilter {
		switch m.tab {
		case tabVenvs:
			m.venvs = m.venvs.WithFilter(m.input)
		case tabPackages:
			m.pkgs = m.pkgs.WithFilter(m.input)
		}
	}
	return m, nil
}

// View renders tabs, the focused view, the input line, and the footer.
func (m AppModel) View() string {
	var tabs []string
	for i := tabID(0); i < tabCount; i++ {
		if i == m.tab {
			tabs = append(tabs, tabActiveStyle.Render(tabNames[i]))
			continue
		}
		tabs = append(tabs, tabStyle.Render(tabNames[i]))
	}
	header := titleStyle.Render("ruyi") + "  " + strings.Join(tabs, " ")

	var body string
	switch m.tab {
	case tabVenvs:
		body = m.venvs.View()
	case tabPackages:
		body = m.pkgs.View()
	case tabNews:
		body = m.news.View()
	case tabTerminal:
		body = m.term.View()
	}

	inputLine := ""
	switch m.mode {
	case inputFilter:
		inputLine = "\n/" + m.input + "▌"
	case inputCreate:
		inputLine = "\ncreate: " + m.input + "▌"
	}

	return header + "\n\n" + body + inputLine + "\n" + m.footer.View()
}

// sessionWriter returns the live session as an input sink, or nil.
func (m AppModel) sessionWriter() termWriter {
	if m.sh.ctrl == nil {
		return nil
	}
	sess := m.sh.ctrl.Session()
	if sess == nil {
		return nil
	}
	w, ok := sess.(termWriter)
	if !ok {
		return nil
	}
	return w
}

// --- Commands ---

func (m AppModel) scanCmd() tea.Cmd {
	scanner, root := m.deps.Scanner, m.deps.Root
	return func() tea.Msg {
		infos, err := scanner.Scan(context.Background(), root)
		if err != nil {
			return ScanErrMsg{Err: err}
		}
		return ScanDoneMsg{Venvs: infos}
	}
}

func (m AppModel) newsCmd() tea.Cmd {
	runner, url := m.deps.Runner, m.deps.Settings.NewsURL
	return func() tea.Msg {
		items, err := runner.NewsList(context.Background())
		if err == nil {
			return NewsDoneMsg{Items: items}
		}
		// CLI missing or too old: degrade to the project site.
		item, werr := news.FetchSite(context.Background(), url)
		if werr != nil {
			return NewsErrMsg{Err: err}
		}
		return NewsDoneMsg{Items: []news.Item{item}}
	}
}

func (m AppModel) packagesCmd() tea.Cmd {
	runner := m.deps.Runner
	return func() tea.Msg {
		pkgs, err := runner.ListPackages(context.Background())
		if err != nil {
			return PackagesErrMsg{Err: err}
		}
		return PackagesDoneMsg{Packages: pkgs}
	}
}

func (m AppModel) activateCmd(info venv.Info) tea.Cmd {
	ctrl := m.sh.ctrl
	return func() tea.Msg {
		if err := ctrl.Activate(info.Path); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Text: "activated " + info.Name}
	}
}

func (m AppModel) deactivateCmd() tea.Cmd {
	ctrl := m.sh.ctrl
	return func() tea.Msg {
		if err := ctrl.Deactivate(); err != nil {
			if errors.Is(err, venv.ErrNotActive) {
				return StatusMsg{Text: "no venv active"}
			}
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Text: "deactivated"}
	}
}

func (m AppModel) removeCmd(info venv.Info) tea.Cmd {
	ctrl := m.sh.ctrl
	return func() tea.Msg {
		if err := ctrl.Remove(info.Path); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Text: "removed " + info.Name}
	}
}

func (m AppModel) createCmd(profile, dir string) tea.Cmd {
	runner := m.deps.Runner
	return func() tea.Msg {
		if err := runner.VenvCreate(context.Background(), profile, dir); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Text: "created venv at " + dir}
	}
}

func (m AppModel) installCmd(name string) tea.Cmd {
	runner := m.deps.Runner
	return func() tea.Msg {
		if err := runner.Install(context.Background(), name); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Text: "installed " + name}
	}
}

func (m AppModel) uninstallCmd(name string) tea.Cmd {
	runner := m.deps.Runner
	return func() tea.Msg {
		if err := runner.Uninstall(context.Background(), name); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Text: "uninstalled " + name}
	}
}

func (m AppModel) markReadCmd(id string) tea.Cmd {
	runner := m.deps.Runner
	return func() tea.Msg {
		if err := runner.NewsRead(context.Background(), id); err != nil {
			return ErrorMsg{Err: err}
		}
		return StatusMsg{Text: "marked read"}
	}
}
