// Package statsui provides the Bubble Tea dashboard.
package statsui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hitdash/internal/dataset"
	"github.com/verte-zerg/hitdash/internal/model"
	"github.com/verte-zerg/hitdash/internal/stats"
)

const (
	tabOverview = iota
	tabTrends
	tabFeatures
	tabLeaderboard
)

const (
	plotHeight   = 6
	defaultWidth = 80
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle    = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Options are the initial dashboard settings.
type Options struct {
	Filter  model.Filter
	Feature model.Feature
	Bins    int
}

// Model implements the Bubble Tea dashboard over one cached dataset.
type Model struct {
	ds       *dataset.Dataset
	defaults model.Filter
	filter   model.Filter
	feature  model.Feature
	bins     int

	report stats.Report
	errMsg string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	artistTable  table.Model
	artistLayout tableLayout

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a dashboard model. opts.Filter is also what "r" resets to.
func NewModel(ds *dataset.Dataset, opts Options) *Model {
	feature := opts.Feature
	if feature == "" {
		feature = model.FeatureBPM
	}
	m := &Model{
		ds:       ds,
		defaults: opts.Filter,
		filter:   opts.Filter,
		feature:  feature,
		bins:     opts.Bins,
		tabs:     []string{"Overview", "Trends", "Features", "Leaderboard"},
	}
	m.initInputs()
	m.initArtistTable()
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "f":
			m.setFeature(m.feature.Next(1))
			return m, nil
		case "F":
			m.setFeature(m.feature.Next(-1))
			return m, nil
		case "r":
			m.filter = m.defaults
			m.refreshReport()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabLeaderboard {
				m.artistTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabLeaderboard {
				m.artistTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabLeaderboard {
				var cmd tea.Cmd
				m.artistTable, cmd = m.artistTable.Update(msg)
				m.renderTabContents()
				return m, cmd
			}
			var cmd tea.Cmd
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Filter returns the active filter.
func (m *Model) Filter() model.Filter {
	return m.filter
}

// Feature returns the feature shown in the distribution tab.
func (m *Model) Feature() model.Feature {
	return m.feature
}

// Report returns the aggregates of the current view.
func (m *Model) Report() stats.Report {
	return m.report
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setArtistTableSize(m.width)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = ((m.activeTab+delta)%count + count) % count
	if m.activeTab == tabLeaderboard {
		m.artistTable.Focus()
	} else {
		m.artistTable.Blur()
	}
}

func (m *Model) setFeature(f model.Feature) {
	m.feature = f
	m.refreshReport()
}

// refreshReport recomputes every aggregate from the cached dataset and the active filter.
func (m *Model) refreshReport() {
	report, err := stats.BuildReport(m.ds, m.filter, m.feature, m.bins)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to compute dashboard.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.applyArtistRows()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 || m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabTrends].SetContent(renderTrends(m.report, width))
	m.viewports[tabFeatures].SetContent(renderFeatures(m.report, width))
	m.viewports[tabLeaderboard].SetContent(renderLeaderboard(m.report, m.selectedArtist(), width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(headerStyle.Render(truncateLine(filterSummary(m.filter, m.feature), m.width)), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Feature: f/F  Filter: /  Reset: r  Quit: q"
	if m.activeTab == tabLeaderboard {
		help = "Nav: left/right  Select: up/down  Feature: f/F  Filter: /  Reset: r  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel  quit: ctrl+c")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabLeaderboard && len(m.report.TopArtists) > 0 {
		tableView := tableMutedStyle.Render(m.artistTable.View())
		tableHeight := lipgloss.Height(tableView)
		vp := m.viewports[tabLeaderboard]
		vp.Height = max(1, height-tableHeight-1)
		return fitLines(tableView+"\n\n"+vp.View(), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}
