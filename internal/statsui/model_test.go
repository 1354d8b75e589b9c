package statsui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/hitdash/internal/dataset"
	"github.com/verte-zerg/hitdash/internal/generator"
	"github.com/verte-zerg/hitdash/internal/model"
	"github.com/verte-zerg/hitdash/internal/stats"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	p := generator.DefaultParams()
	p.Count = generator.CountPolicy{Fixed: 60}
	ds, err := dataset.Build(p)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return NewModel(ds, Options{Filter: ds.DefaultFilter(), Feature: model.FeatureBPM})
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelComputesDefaultView(t *testing.T) {
	m := newTestModel(t)
	if m.errMsg != "" {
		t.Fatalf("unexpected error %q", m.errMsg)
	}
	r := m.Report()
	if r.Overview.TotalSongs != 300 {
		t.Fatalf("expected 300 songs in default view, got %d", r.Overview.TotalSongs)
	}
	if len(r.Yearly) != 5 || r.Trend == nil {
		t.Fatalf("expected five years with a trend")
	}
	if len(m.artistTable.Rows()) != len(r.TopArtists) {
		t.Fatalf("artist table out of sync")
	}
}

func TestFeatureKeysCycle(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyRunes("f"))
	if m.Feature() != model.FeatureEnergy {
		t.Fatalf("expected energy, got %s", m.Feature())
	}
	if m.Report().Feature != model.FeatureEnergy {
		t.Fatalf("report not recomputed for new feature")
	}
	m.Update(keyRunes("F"))
	m.Update(keyRunes("F"))
	if m.Feature() != model.FeaturePopularity {
		t.Fatalf("expected popularity, got %s", m.Feature())
	}
}

func TestTabNavigationWraps(t *testing.T) {
	m := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.activeTab != tabLeaderboard {
		t.Fatalf("expected leaderboard tab, got %d", m.activeTab)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.activeTab != tabOverview {
		t.Fatalf("expected overview tab, got %d", m.activeTab)
	}
}

func TestFilterFormAppliesAndResets(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyRunes("/"))
	if !m.filterMode {
		t.Fatalf("expected filter mode")
	}
	m.filterInputs[inputYearMin].SetValue("2016")
	m.filterInputs[inputYearMax].SetValue("2016")
	m.filterInputs[inputGenre].SetValue("rock")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.filterMode {
		t.Fatalf("expected filter form to close, error %q", m.filterError)
	}
	f := m.Filter()
	if f.YearMin != 2016 || f.YearMax != 2016 || f.Genre != "Rock" || !f.Artist.IsWildcard() {
		t.Fatalf("unexpected filter %+v", f)
	}
	if m.Report().Trend != nil {
		t.Fatalf("expected no trend for a single year")
	}
	for _, s := range m.Report().Preview {
		if s.Genre != "Rock" || s.Year != 2016 {
			t.Fatalf("unexpected row %+v", s)
		}
	}

	m.Update(keyRunes("r"))
	if m.Filter() != m.defaults {
		t.Fatalf("expected defaults after reset, got %+v", m.Filter())
	}
}

func TestFilterFormRejectsBadInput(t *testing.T) {
	m := newTestModel(t)
	before := m.Filter()
	m.Update(keyRunes("/"))
	m.filterInputs[inputGenre].SetValue("Polka")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.filterMode || m.filterError == "" {
		t.Fatalf("expected form to stay open with an error")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filterMode || m.Filter() != before {
		t.Fatalf("expected cancel to keep the previous filter")
	}
}

func TestParseFilterInputs(t *testing.T) {
	span := func() (int, int, bool) { return 2010, 2019, true }
	genres := []string{"Pop", "Rock"}
	artists := []string{"Drake", "Dua Lipa"}

	f, err := parseFilterInputs([4]string{"", " 2018 ", "All", "dua lipa"}, span, genres, artists)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.YearMin != 2010 || f.YearMax != 2018 || !f.Genre.IsWildcard() || f.Artist != "Dua Lipa" {
		t.Fatalf("unexpected filter %+v", f)
	}

	bad := [][4]string{
		{"abc", "2019", "", ""},
		{"2009", "2019", "", ""},
		{"2010", "2020", "", ""},
		{"2018", "2012", "", ""},
		{"2010", "2019", "Jazz", ""},
		{"2010", "2019", "", "Nobody"},
	}
	for _, values := range bad {
		if _, err := parseFilterInputs(values, span, genres, artists); err == nil {
			t.Fatalf("expected error for %v", values)
		}
	}

	empty := func() (int, int, bool) { return 0, 0, false }
	if _, err := parseFilterInputs([4]string{}, empty, nil, nil); err == nil {
		t.Fatalf("expected error for empty dataset")
	}
}

func TestViewFitsWindow(t *testing.T) {
	m := newTestModel(t)
	if m.View() != "" {
		t.Fatalf("expected empty view before window size")
	}
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	for tab := range m.tabs {
		m.activeTab = tab
		lines := strings.Split(m.View(), "\n")
		if len(lines) != 30 {
			t.Fatalf("tab %d: expected 30 lines, got %d", tab, len(lines))
		}
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t)
	if _, cmd := m.Update(keyRunes("q")); cmd == nil {
		t.Fatalf("expected quit command")
	}
	m.Update(keyRunes("/"))
	m.filterInputs[inputYearMin].SetValue("")
	m.Update(keyRunes("q"))
	if !m.filterMode {
		t.Fatalf("q must type into the form while filtering")
	}
	if got := m.filterInputs[inputYearMin].Value(); got != "q" {
		t.Fatalf("expected typed q, got %q", got)
	}
}

func TestRenderersOnEmptyView(t *testing.T) {
	var r stats.Report
	if !strings.Contains(renderOverview(r, 80), "No songs match") {
		t.Fatalf("expected empty note in overview")
	}
	for name, out := range map[string]string{
		"trends":      renderTrends(r, 80),
		"features":    renderFeatures(r, 80),
		"leaderboard": renderLeaderboard(r, nil, 80),
	} {
		if out != emptyView {
			t.Fatalf("%s: expected empty note, got %q", name, out)
		}
	}
}

func TestRenderersShowSections(t *testing.T) {
	m := newTestModel(t)
	r := m.Report()
	selected := r.TopArtists[1]
	cases := []struct {
		name  string
		out   string
		wants []string
	}{
		{"overview", renderOverview(r, 120), []string{"Total Songs", "Data Preview", "Data Statistics", "Features available"}},
		{"trends", renderTrends(r, 120), []string{"Average BPM Trend", "Average Popularity Trend", "BPM Change", "Energy Change"}},
		{"features", renderFeatures(r, 120), []string{"BPM Statistics", "Std Dev", "Genre Statistics"}},
		{"leaderboard", renderLeaderboard(r, &selected, 120), []string{"Top Artists by Song Count", "Most Prolific Artist", "Selected: " + selected.Artist}},
	}
	for _, tc := range cases {
		for _, want := range tc.wants {
			if !strings.Contains(tc.out, want) {
				t.Fatalf("%s: expected %q in output", tc.name, want)
			}
		}
	}
}

func TestLayoutHelpers(t *testing.T) {
	if got := fitLines("a\nb\nc", 3, 2); got != "a  \nb  " {
		t.Fatalf("unexpected fit %q", got)
	}
	if got := fitLines("a", 2, 3); got != "a \n  \n  " {
		t.Fatalf("unexpected fill %q", got)
	}
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := truncateLine("abc", 6); got != "abc" {
		t.Fatalf("unexpected truncation %q", got)
	}
}
