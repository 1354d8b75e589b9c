package statsui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/hitdash/internal/filter"
	"github.com/verte-zerg/hitdash/internal/model"
)

const (
	inputYearMin = iota
	inputYearMax
	inputGenre
	inputArtist
)

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Year min: "),
		newFilterInput("Year max: "),
		newFilterInput("Genre: "),
		newFilterInput("Artist: "),
	}
	m.filterInputs[inputGenre].Placeholder = model.Wildcard
	m.filterInputs[inputArtist].Placeholder = model.Wildcard
	m.setInputsFromFilter()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromFilter() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[inputYearMin].SetValue(strconv.Itoa(m.filter.YearMin))
	m.filterInputs[inputYearMax].SetValue(strconv.Itoa(m.filter.YearMax))
	m.filterInputs[inputGenre].SetValue(m.filter.Genre.String())
	m.filterInputs[inputArtist].SetValue(m.filter.Artist.String())
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromFilter()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		f, err := parseFilterInputs(m.inputValues(), m.ds.YearSpan, m.ds.Genres(), m.ds.Artists())
		if err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filter = f
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) inputValues() [4]string {
	var values [4]string
	for i := range values {
		values[i] = m.filterInputs[i].Value()
	}
	return values
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	m.filterIndex = ((idx % count) + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Filters (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if lo, hi, ok := m.ds.YearSpan(); ok {
		lines = append(lines, "", headerStyle.Render(fmt.Sprintf("Years: %d-%d", lo, hi)))
	}
	lines = append(lines,
		headerStyle.Render("Genres: "+strings.Join(m.ds.Genres(), ", ")),
		headerStyle.Render(fmt.Sprintf("Artists: %d (type a name or %s)", len(m.ds.Artists()), model.Wildcard)),
	)
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

// parseFilterInputs validates the form: blank years mean the dataset bounds,
// years must lie within the dataset span, and names must be known categories.
func parseFilterInputs(values [4]string, span func() (int, int, bool), genres, artists []string) (model.Filter, error) {
	lo, hi, ok := span()
	if !ok {
		return model.Filter{}, fmt.Errorf("dataset is empty")
	}
	yearMin, err := parseYear(values[inputYearMin], lo, "year min")
	if err != nil {
		return model.Filter{}, err
	}
	yearMax, err := parseYear(values[inputYearMax], hi, "year max")
	if err != nil {
		return model.Filter{}, err
	}
	if yearMin < lo || yearMax > hi {
		return model.Filter{}, fmt.Errorf("years must be within %d-%d", lo, hi)
	}
	f := model.Filter{
		YearMin: yearMin,
		YearMax: yearMax,
		Genre:   filter.Resolve(model.Selector(values[inputGenre]), genres),
		Artist:  filter.Resolve(model.Selector(values[inputArtist]), artists),
	}
	if err := filter.Check(f, genres, artists); err != nil {
		return model.Filter{}, err
	}
	return f, nil
}

func parseYear(raw string, fallback int, name string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s (use a year like %d)", name, fallback)
	}
	return v, nil
}

func filterSummary(f model.Filter, feature model.Feature) string {
	return fmt.Sprintf("Filters: years=%d-%d  genre=%s  artist=%s  feature=%s",
		f.YearMin, f.YearMax, f.Genre, f.Artist, feature)
}
