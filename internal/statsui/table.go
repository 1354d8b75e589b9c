package statsui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/hitdash/internal/model"
)

func artistColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 3},
		{Title: "Artist", Width: 16},
		{Title: "Songs", Width: 6},
		{Title: "Avg Pop", Width: 8},
		{Title: "Avg BPM", Width: 8},
		{Title: "Avg Energy", Width: 10},
		{Title: "Avg Dance", Width: 9},
	}
}

func artistRows(artists []model.ArtistStat) []table.Row {
	rows := make([]table.Row, 0, len(artists))
	for i, a := range artists {
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			a.Artist,
			strconv.Itoa(a.Songs),
			fmt.Sprintf("%.1f", a.AvgPopularity),
			fmt.Sprintf("%.1f", a.AvgBPM),
			fmt.Sprintf("%.1f", a.AvgEnergy),
			fmt.Sprintf("%.1f", a.AvgDanceability),
		})
	}
	return rows
}

func (m *Model) initArtistTable() {
	m.artistTable = table.New(
		table.WithColumns(artistColumns()),
		table.WithHeight(1),
	)
	m.artistTable.SetStyles(artistTableStyles())
}

// applyArtistRows loads the leaderboard and sizes the table to show every row.
func (m *Model) applyArtistRows() {
	rows := artistRows(m.report.TopArtists)
	m.artistTable.SetRows(rows)
	if m.artistTable.Cursor() >= len(rows) {
		m.artistTable.SetCursor(max(0, len(rows)-1))
	}
	m.artistLayout.rowCount = len(rows)
	m.artistTable.SetHeight(max(1, len(rows)))
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	m.setArtistTableSize(width)
}

func (m *Model) setArtistTableSize(width int) {
	height := max(1, m.artistLayout.rowCount)
	if m.artistLayout.width == width && m.artistLayout.height == height {
		return
	}
	m.artistLayout.width = width
	m.artistLayout.height = height
	m.artistTable.SetWidth(width)
	m.artistTable.SetHeight(height)
}

func (m *Model) selectedArtist() *model.ArtistStat {
	idx := m.artistTable.Cursor()
	if idx < 0 || idx >= len(m.report.TopArtists) {
		return nil
	}
	return &m.report.TopArtists[idx]
}

func artistTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
